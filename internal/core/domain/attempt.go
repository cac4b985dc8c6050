package domain

import "github.com/google/uuid"

// AttemptStatus is the lifecycle state of a payment attempt. Terminal
// statuses are sinks: a pending filter on every mutation enforces at most one
// transition out of pending.
type AttemptStatus string

const (
	AttemptStatusPending AttemptStatus = "pending"
	AttemptStatusSuccess AttemptStatus = "success"
	AttemptStatusFail    AttemptStatus = "fail"
)

// Attempt is one externally mediated try to settle a transaction through a
// payment system. Response stores the decrypted callback plaintext.
type Attempt struct {
	ID              int64         `json:"id"`
	Token           uuid.UUID     `json:"token"`
	Response        []byte        `json:"-"`
	Status          AttemptStatus `json:"status"`
	TransactionID   int64         `json:"transaction_id"`
	PaymentSystemID int64         `json:"payment_system_id"`
}
