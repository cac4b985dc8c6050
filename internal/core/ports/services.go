package ports

import (
	"context"

	"billing-core/internal/core/domain"
	"billing-core/pkg/money"

	"github.com/google/uuid"
)

// Paginated is the list envelope shared by paginated endpoints.
type Paginated[T any] struct {
	Data       []T `json:"data"`
	ItemsCount int `json:"itemsCount"`
}

// RateService computes cheapest conversion rates over the currency graph.
// Results are cached with a 24h TTL; Invalidate drops the whole cache.
type RateService interface {
	// Rate returns the cheapest total rate converting `from` into `to`.
	// ok is false when either currency is unknown or no path exists.
	Rate(ctx context.Context, from, to int64) (rate money.Money, ok bool, err error)
	// RateFresh bypasses the cache (administrative refresh).
	RateFresh(ctx context.Context, from, to int64) (rate money.Money, ok bool, err error)
	// RatesFrom returns, for every reachable currency, the cheapest rate
	// converting it into `from`.
	RatesFrom(ctx context.Context, from int64) (map[int64]money.Money, error)
	// Invalidate drops all cached rates. Call after ConversionRate mutation.
	Invalidate()
}

// PaymentInfo is the payer-facing view of an invoice.
type PaymentInfo struct {
	WalletID   int64       `json:"wallet_id"`
	CurrencyID int64       `json:"currency_id"`
	Amount     money.Money `json:"amount"`
	Paid       money.Money `json:"paid"`
	Unpaid     money.Money `json:"unpaid"`
}

// CreateTransactionRequest prices an external transaction against an invoice.
// Exactly one of Amount (payer currency) and EffectiveAmount (invoice
// currency) must be set.
type CreateTransactionRequest struct {
	InvoiceID       int64
	CurrencyID      int64
	Amount          *money.Money
	EffectiveAmount *money.Money
}

// PayWithWalletRequest settles an invoice from a merchant-owned wallet.
type PayWithWalletRequest struct {
	InvoiceID       int64
	MerchantID      int64
	WalletID        int64
	Amount          *money.Money
	EffectiveAmount *money.Money
}

// InvoiceEngine creates and prices transactions against invoices.
type InvoiceEngine interface {
	PaymentInfo(ctx context.Context, invoiceID int64) (*PaymentInfo, error)
	CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*domain.Transaction, error)
	// PayWithWallet settles synchronously. The returned transaction carries
	// the outcome even when settlement failed.
	PayWithWallet(ctx context.Context, req PayWithWalletRequest) (*domain.Transaction, error)
}

// PaymentSystemInfo is the client-facing payment system descriptor.
type PaymentSystemInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// TransactionEngine manages attempts and refunds on a transaction.
type TransactionEngine interface {
	CreateAttempt(ctx context.Context, transactionID, paymentSystemID int64) (*domain.Attempt, error)
	PaymentSystems(ctx context.Context, transactionID int64) ([]PaymentSystemInfo, error)
	Refund(ctx context.Context, transactionID int64) (*domain.Transaction, error)
}

// SendInstruction points the payer at the external checkout.
type SendInstruction struct {
	URL string `json:"url"`
}

// AttemptEngine closes payment attempts and cascades the outcome to the
// transaction and invoice.
type AttemptEngine interface {
	Success(ctx context.Context, attemptID int64) error
	Fail(ctx context.Context, attemptID int64) error
	// Error closes the attempt on a logical payment-system error; the
	// transaction still terminates as fail.
	Error(ctx context.Context, attemptID int64) error
	// RecordResponse persists the decrypted callback plaintext on the
	// pending attempt.
	RecordResponse(ctx context.Context, attemptID int64, response []byte) error
	Send(ctx context.Context, attemptID int64) (*SendInstruction, error)
}

// WebhookIngestor decrypts and dispatches payment-system callbacks.
type WebhookIngestor interface {
	ProcessVisa(ctx context.Context, paymentSystemID int64, ciphertext []byte) error
}

// AuthService verifies basic-auth credentials against the merchant and staff
// tables.
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.Principal, error)
}

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// AccountService registers merchant and staff accounts.
type AccountService interface {
	RegisterMerchant(ctx context.Context, username, password string) (*domain.Merchant, error)
	RegisterStaff(ctx context.Context, username, password string) (*domain.Staff, error)
}

// BillingService covers wallet, invoice and currency management around the
// settlement engine.
type BillingService interface {
	Currencies(ctx context.Context) ([]domain.Currency, error)
	CreateWallet(ctx context.Context, merchantID, currencyID int64) (*domain.Wallet, error)
	Wallets(ctx context.Context, principal *domain.Principal) ([]domain.Wallet, error)
	CreateInvoice(ctx context.Context, merchantID int64, amount money.Money, toWalletID int64) (*domain.Invoice, error)
	Invoices(ctx context.Context, principal *domain.Principal, offset, limit int) (*Paginated[domain.Invoice], error)
	InvoiceByToken(ctx context.Context, token uuid.UUID) (*domain.Invoice, error)
	TransactionByToken(ctx context.Context, token uuid.UUID) (*domain.Transaction, error)
}
