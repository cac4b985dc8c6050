package ports

import (
	"context"

	"billing-core/internal/core/domain"
	"billing-core/pkg/money"

	"github.com/google/uuid"
)

// Store runs a function inside a scoped SERIALIZABLE transaction. The
// outermost call opens the transaction and stashes it in the context; nested
// calls detect the ambient scope and reuse it, making entry/exit no-ops. On
// the outermost exit the transaction commits if fn returned nil, otherwise it
// rolls back. Serialization failures surface as SerializationConflict.
type Store interface {
	WithinScope(ctx context.Context, fn func(ctx context.Context) error) error
}

// CurrencyRepository defines persistence operations for currencies.
type CurrencyRepository interface {
	Create(ctx context.Context, currency *domain.Currency) error
	List(ctx context.Context) ([]domain.Currency, error)
	GetByID(ctx context.Context, id int64) (*domain.Currency, error)
	GetByCode(ctx context.Context, code domain.CurrencyCode) (*domain.Currency, error)
}

// ConversionRateRepository defines persistence operations for conversion
// rates. Mutations must be followed by a wholesale rate-cache invalidation.
type ConversionRateRepository interface {
	Create(ctx context.Context, rate *domain.ConversionRate) error
	Update(ctx context.Context, rate *domain.ConversionRate) error
	List(ctx context.Context) ([]domain.ConversionRate, error)
}

// WalletRepository defines persistence operations for wallets. ForUpdate
// variants acquire row locks and must run inside a scope.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id int64) (*domain.Wallet, error)
	GetByMerchantAndCurrency(ctx context.Context, merchantID, currencyID int64) (*domain.Wallet, error)
	List(ctx context.Context) ([]domain.Wallet, error)
	ListByMerchant(ctx context.Context, merchantID int64) ([]domain.Wallet, error)
	// GetByMerchantForUpdate locks the wallet owned by merchantID with the
	// given id. Returns nil when no such wallet exists.
	GetByMerchantForUpdate(ctx context.Context, merchantID, walletID int64) (*domain.Wallet, error)
	UpdateAmount(ctx context.Context, walletID int64, amount money.Money) error
}

// InvoiceRepository defines persistence operations for invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByToken(ctx context.Context, token uuid.UUID) (*domain.Invoice, error)
	// GetWithWalletForUpdate locks the invoice row joined with its
	// destination wallet, acquiring both locks in one query.
	GetWithWalletForUpdate(ctx context.Context, invoiceID int64) (*domain.Invoice, *domain.Wallet, error)
	UpdateStatus(ctx context.Context, invoiceID int64, status domain.InvoiceStatus) error
	// List returns a page of invoices; merchantID nil means all merchants.
	List(ctx context.Context, merchantID *int64, offset, limit int) ([]domain.Invoice, error)
}

// TransactionRepository defines persistence operations for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *domain.Transaction) error
	GetByToken(ctx context.Context, token uuid.UUID) (*domain.Transaction, error)
	// GetWithInvoiceForUpdate locks the transaction joined with its invoice.
	GetWithInvoiceForUpdate(ctx context.Context, transactionID int64) (*domain.Transaction, *domain.Invoice, error)
	// ListSuccessfulForUpdate locks and returns the invoice's successful
	// transactions ordered by id. excludeID 0 excludes nothing.
	ListSuccessfulForUpdate(ctx context.Context, invoiceID, excludeID int64) ([]domain.Transaction, error)
	UpdateStatus(ctx context.Context, transactionID int64, status domain.TransactionStatus) error
}

// AttemptRepository defines persistence operations for attempts.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *domain.Attempt) error
	GetByID(ctx context.Context, id int64) (*domain.Attempt, error)
	// GetPendingForUpdate locks the pending attempt joined with its
	// transaction and invoice, acquiring all three row locks atomically.
	// Returns nils when the attempt is missing or no longer pending.
	GetPendingForUpdate(ctx context.Context, attemptID int64) (*domain.Attempt, *domain.Transaction, *domain.Invoice, error)
	UpdateStatus(ctx context.Context, attemptID int64, status domain.AttemptStatus) error
	UpdateResponse(ctx context.Context, attemptID int64, response []byte) error
}

// PaymentSystemRepository defines persistence operations for payment systems.
type PaymentSystemRepository interface {
	Create(ctx context.Context, system *domain.PaymentSystem) error
	// Update persists name and key changes; key rotation happens here.
	Update(ctx context.Context, system *domain.PaymentSystem) error
	List(ctx context.Context) ([]domain.PaymentSystem, error)
	GetByID(ctx context.Context, id int64) (*domain.PaymentSystem, error)
	// GetByIDAndType returns nil when the system exists under another type.
	GetByIDAndType(ctx context.Context, id int64, systemType domain.PaymentSystemType) (*domain.PaymentSystem, error)
}

// MerchantRepository defines persistence operations for merchants.
type MerchantRepository interface {
	Create(ctx context.Context, merchant *domain.Merchant) error
	GetByID(ctx context.Context, id int64) (*domain.Merchant, error)
	GetByUsername(ctx context.Context, username string) (*domain.Merchant, error)
}

// StaffRepository defines persistence operations for staff accounts.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.Staff) error
	GetByUsername(ctx context.Context, username string) (*domain.Staff, error)
}
