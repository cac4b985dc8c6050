package postgres

import (
	"context"
	"errors"
	"fmt"

	"billing-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	db *DB
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(db *DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

// Create inserts a new transaction, generating a token and defaulting the
// status to pending when unset, and fills in its id.
func (r *TransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	if t.Token == uuid.Nil {
		t.Token = uuid.New()
	}
	if t.Status == "" {
		t.Status = domain.TransactionStatusPending
	}

	query := `INSERT INTO transactions (token, kind, amount, effective_amount, status, invoice_id, from_wallet_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	err := r.db.q(ctx).QueryRow(ctx, query,
		t.Token, t.Kind, t.Amount, t.EffectiveAmount, t.Status, t.InvoiceID, t.FromWalletID,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByToken fetches a transaction by its client-facing token.
func (r *TransactionRepo) GetByToken(ctx context.Context, token uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT id, token, kind, amount, effective_amount, status, invoice_id, from_wallet_id
		FROM transactions WHERE token = $1`

	return r.scanTransaction(r.db.q(ctx).QueryRow(ctx, query, token))
}

// GetWithInvoiceForUpdate locks the transaction joined with its invoice in
// one statement. Must run inside a scope.
func (r *TransactionRepo) GetWithInvoiceForUpdate(ctx context.Context, transactionID int64) (*domain.Transaction, *domain.Invoice, error) {
	query := `SELECT t.id, t.token, t.kind, t.amount, t.effective_amount, t.status, t.invoice_id, t.from_wallet_id,
			i.id, i.token, i.amount, i.status, i.to_wallet_id
		FROM transactions t
		JOIN invoices i ON i.id = t.invoice_id
		WHERE t.id = $1
		FOR UPDATE OF t, i`

	t := &domain.Transaction{}
	inv := &domain.Invoice{}
	err := r.db.q(ctx).QueryRow(ctx, query, transactionID).Scan(
		&t.ID, &t.Token, &t.Kind, &t.Amount, &t.EffectiveAmount, &t.Status, &t.InvoiceID, &t.FromWalletID,
		&inv.ID, &inv.Token, &inv.Amount, &inv.Status, &inv.ToWalletID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("get transaction with invoice for update: %w", err)
	}
	return t, inv, nil
}

// ListSuccessfulForUpdate locks and returns the invoice's successful
// transactions ordered by id. excludeID 0 excludes nothing; ids start at 1.
// Must run inside a scope.
func (r *TransactionRepo) ListSuccessfulForUpdate(ctx context.Context, invoiceID, excludeID int64) ([]domain.Transaction, error) {
	query := `SELECT id, token, kind, amount, effective_amount, status, invoice_id, from_wallet_id
		FROM transactions
		WHERE invoice_id = $1 AND status = $2 AND id <> $3
		ORDER BY id
		FOR UPDATE`

	rows, err := r.db.q(ctx).Query(ctx, query, invoiceID, domain.TransactionStatusSuccess, excludeID)
	if err != nil {
		return nil, fmt.Errorf("list successful transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		err := rows.Scan(&t.ID, &t.Token, &t.Kind, &t.Amount, &t.EffectiveAmount, &t.Status, &t.InvoiceID, &t.FromWalletID)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}

// UpdateStatus sets the transaction status.
func (r *TransactionRepo) UpdateStatus(ctx context.Context, transactionID int64, status domain.TransactionStatus) error {
	query := `UPDATE transactions SET status = $1 WHERE id = $2`

	tag, err := r.db.q(ctx).Exec(ctx, query, status, transactionID)
	if err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found: %d", transactionID)
	}
	return nil
}

func (r *TransactionRepo) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(&t.ID, &t.Token, &t.Kind, &t.Amount, &t.EffectiveAmount, &t.Status, &t.InvoiceID, &t.FromWalletID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}
