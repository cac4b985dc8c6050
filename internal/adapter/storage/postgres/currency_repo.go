package postgres

import (
	"context"
	"errors"
	"fmt"

	"billing-core/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// CurrencyRepo implements ports.CurrencyRepository.
type CurrencyRepo struct {
	db *DB
}

// NewCurrencyRepo creates a new CurrencyRepo.
func NewCurrencyRepo(db *DB) *CurrencyRepo {
	return &CurrencyRepo{db: db}
}

// Create inserts a new currency and fills in its id.
func (r *CurrencyRepo) Create(ctx context.Context, c *domain.Currency) error {
	query := `INSERT INTO currencies (code) VALUES ($1) RETURNING id`

	if err := r.db.q(ctx).QueryRow(ctx, query, c.Code).Scan(&c.ID); err != nil {
		return fmt.Errorf("insert currency: %w", err)
	}
	return nil
}

// List returns all currencies ordered by id.
func (r *CurrencyRepo) List(ctx context.Context) ([]domain.Currency, error) {
	query := `SELECT id, code FROM currencies ORDER BY id`

	rows, err := r.db.q(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	defer rows.Close()

	var currencies []domain.Currency
	for rows.Next() {
		var c domain.Currency
		if err := rows.Scan(&c.ID, &c.Code); err != nil {
			return nil, fmt.Errorf("scan currency row: %w", err)
		}
		currencies = append(currencies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate currency rows: %w", err)
	}
	return currencies, nil
}

// GetByID fetches a currency by id.
func (r *CurrencyRepo) GetByID(ctx context.Context, id int64) (*domain.Currency, error) {
	query := `SELECT id, code FROM currencies WHERE id = $1`

	return r.scanCurrency(r.db.q(ctx).QueryRow(ctx, query, id))
}

// GetByCode fetches a currency by its ISO code.
func (r *CurrencyRepo) GetByCode(ctx context.Context, code domain.CurrencyCode) (*domain.Currency, error) {
	query := `SELECT id, code FROM currencies WHERE code = $1`

	return r.scanCurrency(r.db.q(ctx).QueryRow(ctx, query, code))
}

func (r *CurrencyRepo) scanCurrency(row pgx.Row) (*domain.Currency, error) {
	c := &domain.Currency{}
	if err := row.Scan(&c.ID, &c.Code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan currency: %w", err)
	}
	return c, nil
}
