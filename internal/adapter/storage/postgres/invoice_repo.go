package postgres

import (
	"context"
	"errors"
	"fmt"

	"billing-core/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InvoiceRepo implements ports.InvoiceRepository.
type InvoiceRepo struct {
	db *DB
}

// NewInvoiceRepo creates a new InvoiceRepo.
func NewInvoiceRepo(db *DB) *InvoiceRepo {
	return &InvoiceRepo{db: db}
}

// Create inserts a new invoice, generating a token and defaulting the status
// to pending when unset, and fills in its id.
func (r *InvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	if inv.Token == uuid.Nil {
		inv.Token = uuid.New()
	}
	if inv.Status == "" {
		inv.Status = domain.InvoiceStatusPending
	}

	query := `INSERT INTO invoices (token, amount, status, to_wallet_id)
		VALUES ($1, $2, $3, $4) RETURNING id`

	err := r.db.q(ctx).QueryRow(ctx, query, inv.Token, inv.Amount, inv.Status, inv.ToWalletID).Scan(&inv.ID)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByToken fetches an invoice by its client-facing token.
func (r *InvoiceRepo) GetByToken(ctx context.Context, token uuid.UUID) (*domain.Invoice, error) {
	query := `SELECT id, token, amount, status, to_wallet_id FROM invoices WHERE token = $1`

	return r.scanInvoice(r.db.q(ctx).QueryRow(ctx, query, token))
}

// GetWithWalletForUpdate locks the invoice row joined with its destination
// wallet in one statement, so both locks land atomically in the invoice ->
// wallet order. Must run inside a scope.
func (r *InvoiceRepo) GetWithWalletForUpdate(ctx context.Context, invoiceID int64) (*domain.Invoice, *domain.Wallet, error) {
	query := `SELECT i.id, i.token, i.amount, i.status, i.to_wallet_id,
			w.id, w.merchant_id, w.currency_id, w.amount
		FROM invoices i
		JOIN wallets w ON w.id = i.to_wallet_id
		WHERE i.id = $1
		FOR UPDATE OF i, w`

	inv := &domain.Invoice{}
	w := &domain.Wallet{}
	err := r.db.q(ctx).QueryRow(ctx, query, invoiceID).Scan(
		&inv.ID, &inv.Token, &inv.Amount, &inv.Status, &inv.ToWalletID,
		&w.ID, &w.MerchantID, &w.CurrencyID, &w.Amount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("get invoice with wallet for update: %w", err)
	}
	return inv, w, nil
}

// UpdateStatus sets the invoice status.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, invoiceID int64, status domain.InvoiceStatus) error {
	query := `UPDATE invoices SET status = $1 WHERE id = $2`

	tag, err := r.db.q(ctx).Exec(ctx, query, status, invoiceID)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice not found: %d", invoiceID)
	}
	return nil
}

// List returns a page of invoices ordered by id; merchantID nil means all
// merchants.
func (r *InvoiceRepo) List(ctx context.Context, merchantID *int64, offset, limit int) ([]domain.Invoice, error) {
	query := `SELECT i.id, i.token, i.amount, i.status, i.to_wallet_id
		FROM invoices i
		JOIN wallets w ON w.id = i.to_wallet_id
		WHERE $1::bigint IS NULL OR w.merchant_id = $1
		ORDER BY i.id
		OFFSET $2 LIMIT $3`

	rows, err := r.db.q(ctx).Query(ctx, query, merchantID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		var inv domain.Invoice
		if err := rows.Scan(&inv.ID, &inv.Token, &inv.Amount, &inv.Status, &inv.ToWalletID); err != nil {
			return nil, fmt.Errorf("scan invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice rows: %w", err)
	}
	return invoices, nil
}

func (r *InvoiceRepo) scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	inv := &domain.Invoice{}
	if err := row.Scan(&inv.ID, &inv.Token, &inv.Amount, &inv.Status, &inv.ToWalletID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	return inv, nil
}
