package domain

// PaymentSystemType identifies the external settlement network.
type PaymentSystemType string

const (
	PaymentSystemVisa PaymentSystemType = "visa"
)

// PaymentSystem is an external network that settles transactions and posts
// encrypted callbacks. DecryptionKey holds one or more comma-separated
// Fernet keys (newest first) and never leaves the process.
type PaymentSystem struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	SystemType    PaymentSystemType `json:"type"`
	DecryptionKey string            `json:"-"`
}
