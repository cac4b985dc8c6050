package domain

import (
	"billing-core/pkg/money"

	"github.com/google/uuid"
)

// TransactionKind separates externally settled payments from wallet-to-wallet
// transfers.
type TransactionKind string

const (
	TransactionKindExternal TransactionKind = "external"
	TransactionKindInternal TransactionKind = "internal"
)

// TransactionStatus is the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusSuccess  TransactionStatus = "success"
	TransactionStatusFail     TransactionStatus = "fail"
	TransactionStatusRefunded TransactionStatus = "refunded"
)

// Transaction is one payer's commitment to pay part of an invoice. Amount is
// in the payer's currency; EffectiveAmount is the same value converted into
// the invoice's currency. FromWalletID is set only for internal transfers.
type Transaction struct {
	ID              int64             `json:"id"`
	Token           uuid.UUID         `json:"token"`
	Kind            TransactionKind   `json:"kind"`
	Amount          money.Money       `json:"amount"`
	EffectiveAmount money.Money       `json:"effective_amount"`
	Status          TransactionStatus `json:"status"`
	InvoiceID       int64             `json:"invoice_id"`
	FromWalletID    *int64            `json:"from_wallet_id,omitempty"`
}

// IsRefundable reports whether the transaction can be refunded.
func (t *Transaction) IsRefundable() bool {
	return t.Status == TransactionStatusSuccess
}
