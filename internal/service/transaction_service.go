package service

import (
	"context"

	"billing-core/internal/core/domain"
	"billing-core/internal/core/ports"
	"billing-core/pkg/apperror"

	"github.com/rs/zerolog"
)

// TransactionServiceImpl implements ports.TransactionEngine.
type TransactionServiceImpl struct {
	store          ports.Store
	transactions   ports.TransactionRepository
	invoices       ports.InvoiceRepository
	attempts       ports.AttemptRepository
	paymentSystems ports.PaymentSystemRepository
	log            zerolog.Logger
}

// NewTransactionService creates a new TransactionServiceImpl.
func NewTransactionService(
	store ports.Store,
	transactions ports.TransactionRepository,
	invoices ports.InvoiceRepository,
	attempts ports.AttemptRepository,
	paymentSystems ports.PaymentSystemRepository,
	log zerolog.Logger,
) *TransactionServiceImpl {
	return &TransactionServiceImpl{
		store:          store,
		transactions:   transactions,
		invoices:       invoices,
		attempts:       attempts,
		paymentSystems: paymentSystems,
		log:            log,
	}
}

// lockOpen locks the transaction joined with its invoice and rejects
// operations on an already complete invoice.
func (s *TransactionServiceImpl) lockOpen(ctx context.Context, transactionID int64) (*domain.Transaction, *domain.Invoice, error) {
	tx, invoice, err := s.transactions.GetWithInvoiceForUpdate(ctx, transactionID)
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}
	if tx == nil {
		return nil, nil, apperror.NotFound("transaction")
	}
	if invoice.Status == domain.InvoiceStatusComplete {
		return nil, nil, apperror.InvoiceComplete()
	}
	return tx, invoice, nil
}

// CreateAttempt implements ports.TransactionEngine.
func (s *TransactionServiceImpl) CreateAttempt(ctx context.Context, transactionID, paymentSystemID int64) (*domain.Attempt, error) {
	var created *domain.Attempt
	err := s.store.WithinScope(ctx, func(ctx context.Context) error {
		tx, _, err := s.lockOpen(ctx, transactionID)
		if err != nil {
			return err
		}

		system, err := s.paymentSystems.GetByID(ctx, paymentSystemID)
		if err != nil {
			return apperror.Internal(err)
		}
		if system == nil {
			return apperror.NotFound("payment system")
		}

		created = &domain.Attempt{
			Status:          domain.AttemptStatusPending,
			TransactionID:   tx.ID,
			PaymentSystemID: system.ID,
		}
		if err := s.attempts.Create(ctx, created); err != nil {
			return apperror.Internal(err)
		}

		s.log.Info().
			Int64("transaction_id", tx.ID).
			Int64("attempt_id", created.ID).
			Str("payment_system", system.Name).
			Msg("attempt created")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// PaymentSystems implements ports.TransactionEngine. The (transaction,
// invoice) pair is locked while enumerating so a concurrent completion cannot
// slip in between the guard and the listing.
func (s *TransactionServiceImpl) PaymentSystems(ctx context.Context, transactionID int64) ([]ports.PaymentSystemInfo, error) {
	var infos []ports.PaymentSystemInfo
	err := s.store.WithinScope(ctx, func(ctx context.Context) error {
		if _, _, err := s.lockOpen(ctx, transactionID); err != nil {
			return err
		}

		systems, err := s.paymentSystems.List(ctx)
		if err != nil {
			return apperror.Internal(err)
		}
		infos = make([]ports.PaymentSystemInfo, 0, len(systems))
		for _, sys := range systems {
			infos = append(infos, ports.PaymentSystemInfo{
				ID:   sys.ID,
				Name: sys.Name,
				Type: string(sys.SystemType),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

// Refund implements ports.TransactionEngine. Wallet balances are not touched:
// for external transactions the money sits with the payment system, and
// internal reversals are a separate operation.
func (s *TransactionServiceImpl) Refund(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	var refunded *domain.Transaction
	err := s.store.WithinScope(ctx, func(ctx context.Context) error {
		tx, invoice, err := s.transactions.GetWithInvoiceForUpdate(ctx, transactionID)
		if err != nil {
			return apperror.Internal(err)
		}
		if tx == nil {
			return apperror.NotFound("transaction")
		}
		if !tx.IsRefundable() {
			return apperror.NotRefundable()
		}

		if err := s.transactions.UpdateStatus(ctx, tx.ID, domain.TransactionStatusRefunded); err != nil {
			return apperror.Internal(err)
		}
		if err := s.invoices.UpdateStatus(ctx, invoice.ID, domain.InvoiceStatusIncomplete); err != nil {
			return apperror.Internal(err)
		}
		tx.Status = domain.TransactionStatusRefunded
		refunded = tx

		s.log.Info().
			Int64("transaction_id", tx.ID).
			Int64("invoice_id", invoice.ID).
			Msg("transaction refunded")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refunded, nil
}
