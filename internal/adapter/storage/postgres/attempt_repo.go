package postgres

import (
	"context"
	"errors"
	"fmt"

	"billing-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AttemptRepo implements ports.AttemptRepository.
type AttemptRepo struct {
	db *DB
}

// NewAttemptRepo creates a new AttemptRepo.
func NewAttemptRepo(db *DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// Create inserts a new attempt, generating a token and defaulting the status
// to pending when unset, and fills in its id.
func (r *AttemptRepo) Create(ctx context.Context, a *domain.Attempt) error {
	if a.Token == uuid.Nil {
		a.Token = uuid.New()
	}
	if a.Status == "" {
		a.Status = domain.AttemptStatusPending
	}

	query := `INSERT INTO attempts (token, response, status, transaction_id, payment_system_id)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := r.db.q(ctx).QueryRow(ctx, query,
		a.Token, a.Response, a.Status, a.TransactionID, a.PaymentSystemID,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// GetByID fetches an attempt by id without locking.
func (r *AttemptRepo) GetByID(ctx context.Context, id int64) (*domain.Attempt, error) {
	query := `SELECT id, token, response, status, transaction_id, payment_system_id
		FROM attempts WHERE id = $1`

	a := &domain.Attempt{}
	err := r.db.q(ctx).QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Token, &a.Response, &a.Status, &a.TransactionID, &a.PaymentSystemID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attempt by id: %w", err)
	}
	return a, nil
}

// GetPendingForUpdate locks the pending attempt joined with its transaction
// and invoice, acquiring all three row locks in one statement. The pending
// filter makes terminal attempts invisible here, so a second callback for the
// same attempt finds nothing. Must run inside a scope.
func (r *AttemptRepo) GetPendingForUpdate(ctx context.Context, attemptID int64) (*domain.Attempt, *domain.Transaction, *domain.Invoice, error) {
	query := `SELECT a.id, a.token, a.response, a.status, a.transaction_id, a.payment_system_id,
			t.id, t.token, t.kind, t.amount, t.effective_amount, t.status, t.invoice_id, t.from_wallet_id,
			i.id, i.token, i.amount, i.status, i.to_wallet_id
		FROM attempts a
		JOIN transactions t ON t.id = a.transaction_id
		JOIN invoices i ON i.id = t.invoice_id
		WHERE a.id = $1 AND a.status = $2
		FOR UPDATE OF a, t, i`

	a := &domain.Attempt{}
	t := &domain.Transaction{}
	inv := &domain.Invoice{}
	err := r.db.q(ctx).QueryRow(ctx, query, attemptID, domain.AttemptStatusPending).Scan(
		&a.ID, &a.Token, &a.Response, &a.Status, &a.TransactionID, &a.PaymentSystemID,
		&t.ID, &t.Token, &t.Kind, &t.Amount, &t.EffectiveAmount, &t.Status, &t.InvoiceID, &t.FromWalletID,
		&inv.ID, &inv.Token, &inv.Amount, &inv.Status, &inv.ToWalletID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil, nil
		}
		return nil, nil, nil, fmt.Errorf("get pending attempt for update: %w", err)
	}
	return a, t, inv, nil
}

// UpdateStatus sets the attempt status.
func (r *AttemptRepo) UpdateStatus(ctx context.Context, attemptID int64, status domain.AttemptStatus) error {
	query := `UPDATE attempts SET status = $1 WHERE id = $2`

	tag, err := r.db.q(ctx).Exec(ctx, query, status, attemptID)
	if err != nil {
		return fmt.Errorf("update attempt status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attempt not found: %d", attemptID)
	}
	return nil
}

// UpdateResponse stores the decrypted callback plaintext.
func (r *AttemptRepo) UpdateResponse(ctx context.Context, attemptID int64, response []byte) error {
	query := `UPDATE attempts SET response = $1 WHERE id = $2`

	tag, err := r.db.q(ctx).Exec(ctx, query, response, attemptID)
	if err != nil {
		return fmt.Errorf("update attempt response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("attempt not found: %d", attemptID)
	}
	return nil
}
