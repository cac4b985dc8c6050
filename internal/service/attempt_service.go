package service

import (
	"context"
	"fmt"

	"billing-core/internal/core/domain"
	"billing-core/internal/core/ports"
	"billing-core/pkg/apperror"
	"billing-core/pkg/money"

	"github.com/rs/zerolog"
)

// AttemptServiceImpl implements ports.AttemptEngine. Every operation starts
// from a single locking join over (pending attempt, transaction, invoice); a
// terminated attempt is invisible to that join, which makes terminal
// transitions idempotent at the boundary (the second call gets NotFound).
type AttemptServiceImpl struct {
	store          ports.Store
	attempts       ports.AttemptRepository
	transactions   ports.TransactionRepository
	invoices       ports.InvoiceRepository
	paymentSystems ports.PaymentSystemRepository
	hostname       string
	log            zerolog.Logger
}

// NewAttemptService creates a new AttemptServiceImpl. hostname is the public
// server name used when building external checkout URLs.
func NewAttemptService(
	store ports.Store,
	attempts ports.AttemptRepository,
	transactions ports.TransactionRepository,
	invoices ports.InvoiceRepository,
	paymentSystems ports.PaymentSystemRepository,
	hostname string,
	log zerolog.Logger,
) *AttemptServiceImpl {
	return &AttemptServiceImpl{
		store:          store,
		attempts:       attempts,
		transactions:   transactions,
		invoices:       invoices,
		paymentSystems: paymentSystems,
		hostname:       hostname,
		log:            log,
	}
}

// attemptState is the locked view captured by fetch.
type attemptState struct {
	attempt     *domain.Attempt
	transaction *domain.Transaction
	invoice     *domain.Invoice
	paidByOther money.Money
}

// fetch locks the pending attempt with its transaction and invoice, then
// locks the invoice's other successful transactions to total them.
func (s *AttemptServiceImpl) fetch(ctx context.Context, attemptID int64) (*attemptState, error) {
	attempt, tx, invoice, err := s.attempts.GetPendingForUpdate(ctx, attemptID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if attempt == nil {
		return nil, apperror.NotFound("attempt")
	}

	others, err := s.transactions.ListSuccessfulForUpdate(ctx, invoice.ID, tx.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	paid := money.Zero
	for _, other := range others {
		paid = paid.Add(other.EffectiveAmount)
	}

	return &attemptState{
		attempt:     attempt,
		transaction: tx,
		invoice:     invoice,
		paidByOther: paid,
	}, nil
}

// Success implements ports.AttemptEngine.
func (s *AttemptServiceImpl) Success(ctx context.Context, attemptID int64) error {
	return s.store.WithinScope(ctx, func(ctx context.Context) error {
		st, err := s.fetch(ctx, attemptID)
		if err != nil {
			return err
		}

		if err := s.attempts.UpdateStatus(ctx, st.attempt.ID, domain.AttemptStatusSuccess); err != nil {
			return apperror.Internal(err)
		}
		if err := s.transactions.UpdateStatus(ctx, st.transaction.ID, domain.TransactionStatusSuccess); err != nil {
			return apperror.Internal(err)
		}

		total := st.paidByOther.Add(st.transaction.EffectiveAmount)
		switch {
		case total.GreaterThanOrEqual(st.invoice.Amount):
			if err := s.invoices.UpdateStatus(ctx, st.invoice.ID, domain.InvoiceStatusComplete); err != nil {
				return apperror.Internal(err)
			}
		case st.invoice.Status == domain.InvoiceStatusPending:
			if err := s.invoices.UpdateStatus(ctx, st.invoice.ID, domain.InvoiceStatusIncomplete); err != nil {
				return apperror.Internal(err)
			}
		}

		s.log.Info().
			Int64("attempt_id", st.attempt.ID).
			Int64("transaction_id", st.transaction.ID).
			Str("paid_total", total.String()).
			Msg("attempt succeeded")
		return nil
	})
}

// Fail implements ports.AttemptEngine.
func (s *AttemptServiceImpl) Fail(ctx context.Context, attemptID int64) error {
	return s.terminate(ctx, attemptID, "attempt failed")
}

// Error implements ports.AttemptEngine. A logical payment-system error is
// persisted identically to a failure; only the log line differs.
func (s *AttemptServiceImpl) Error(ctx context.Context, attemptID int64) error {
	return s.terminate(ctx, attemptID, "attempt errored")
}

func (s *AttemptServiceImpl) terminate(ctx context.Context, attemptID int64, msg string) error {
	return s.store.WithinScope(ctx, func(ctx context.Context) error {
		st, err := s.fetch(ctx, attemptID)
		if err != nil {
			return err
		}

		if err := s.attempts.UpdateStatus(ctx, st.attempt.ID, domain.AttemptStatusFail); err != nil {
			return apperror.Internal(err)
		}
		if err := s.transactions.UpdateStatus(ctx, st.transaction.ID, domain.TransactionStatusFail); err != nil {
			return apperror.Internal(err)
		}
		// A pending invoice has seen payment activity now; incomplete and
		// complete invoices never regress.
		if st.invoice.Status == domain.InvoiceStatusPending {
			if err := s.invoices.UpdateStatus(ctx, st.invoice.ID, domain.InvoiceStatusIncomplete); err != nil {
				return apperror.Internal(err)
			}
		}

		s.log.Info().
			Int64("attempt_id", st.attempt.ID).
			Int64("transaction_id", st.transaction.ID).
			Msg(msg)
		return nil
	})
}

// RecordResponse implements ports.AttemptEngine.
func (s *AttemptServiceImpl) RecordResponse(ctx context.Context, attemptID int64, response []byte) error {
	return s.store.WithinScope(ctx, func(ctx context.Context) error {
		st, err := s.fetch(ctx, attemptID)
		if err != nil {
			return err
		}
		if err := s.attempts.UpdateResponse(ctx, st.attempt.ID, response); err != nil {
			return apperror.Internal(err)
		}
		return nil
	})
}

// Send implements ports.AttemptEngine.
func (s *AttemptServiceImpl) Send(ctx context.Context, attemptID int64) (*ports.SendInstruction, error) {
	var instruction *ports.SendInstruction
	err := s.store.WithinScope(ctx, func(ctx context.Context) error {
		st, err := s.fetch(ctx, attemptID)
		if err != nil {
			return err
		}

		system, err := s.paymentSystems.GetByID(ctx, st.attempt.PaymentSystemID)
		if err != nil {
			return apperror.Internal(err)
		}
		if system == nil {
			return apperror.NotFound("payment system")
		}
		if system.SystemType != domain.PaymentSystemVisa {
			return apperror.Internal(fmt.Errorf("unsupported payment system type %q", system.SystemType))
		}

		instruction = &ports.SendInstruction{
			URL: fmt.Sprintf("http://%s/visa/checkout/%s", s.hostname, st.attempt.Token),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return instruction, nil
}
