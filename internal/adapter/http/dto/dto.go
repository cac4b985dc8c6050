package dto

import "billing-core/pkg/money"

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// CreateWalletRequest is the request body for POST /wallet.
type CreateWalletRequest struct {
	CurrencyID int64 `json:"currency_id" binding:"required"`
}

// CreateInvoiceRequest is the request body for POST /invoice.
type CreateInvoiceRequest struct {
	Amount     money.Money `json:"amount" binding:"required"`
	ToWalletID int64       `json:"to_wallet_id" binding:"required"`
}

// PayRequest is the request body for POST /pay/{token}. FromWalletID selects
// an internal transfer (merchant auth required); CurrencyID an external
// transaction. Exactly one of Amount and EffectiveAmount must be set.
type PayRequest struct {
	CurrencyID      *int64       `json:"currency_id"`
	FromWalletID    *int64       `json:"from_wallet_id"`
	Amount          *money.Money `json:"amount"`
	EffectiveAmount *money.Money `json:"effective_amount"`
}

// CreateAttemptRequest is the request body for POST /attempt/{token}.
type CreateAttemptRequest struct {
	PaymentSystemID int64 `json:"payment_system_id" binding:"required"`
}

// CurrenciesResponse wraps the currency listing.
type CurrenciesResponse struct {
	Currencies any `json:"currencies"`
}

// RatesResponse wraps the cheapest-rate map of GET /rates/{from_id}.
type RatesResponse struct {
	Rates map[int64]money.Money `json:"rates"`
}

// ExternalPaymentResponse is returned when POST /pay/{token} creates an
// external transaction: the payer follows attempt_url to pick a payment
// system.
type ExternalPaymentResponse struct {
	Token      string `json:"token"`
	AttemptURL string `json:"attempt_url"`
}

// InternalPaymentResponse is returned for wallet-funded payments; Status
// carries the settlement outcome.
type InternalPaymentResponse struct {
	Token  string `json:"token"`
	Status string `json:"status"`
}

// RefundResponse is the body of POST /refund/{transaction_token}.
type RefundResponse struct {
	Status string `json:"status"`
}
