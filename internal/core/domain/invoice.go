package domain

import (
	"billing-core/pkg/money"

	"github.com/google/uuid"
)

// InvoiceStatus is the lifecycle state of an invoice. Once any transaction
// terminates, the invoice leaves pending and never returns.
type InvoiceStatus string

const (
	InvoiceStatusPending    InvoiceStatus = "pending"
	InvoiceStatusIncomplete InvoiceStatus = "incomplete"
	InvoiceStatusComplete   InvoiceStatus = "complete"
)

// Invoice is a merchant's request to be paid Amount into ToWallet. Only the
// status mutates after creation. The token is the client-facing identifier.
type Invoice struct {
	ID         int64         `json:"id"`
	Token      uuid.UUID     `json:"token"`
	Amount     money.Money   `json:"amount"`
	Status     InvoiceStatus `json:"status"`
	ToWalletID int64         `json:"to_wallet_id"`
}
