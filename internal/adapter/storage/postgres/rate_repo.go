package postgres

import (
	"context"
	"fmt"

	"billing-core/internal/core/domain"
)

// ConversionRateRepo implements ports.ConversionRateRepository. Callers
// invalidate the rate cache after any mutation.
type ConversionRateRepo struct {
	db *DB
}

// NewConversionRateRepo creates a new ConversionRateRepo.
func NewConversionRateRepo(db *DB) *ConversionRateRepo {
	return &ConversionRateRepo{db: db}
}

// Create inserts a new conversion rate and fills in its id.
func (r *ConversionRateRepo) Create(ctx context.Context, rate *domain.ConversionRate) error {
	query := `INSERT INTO conversion_rates (from_currency_id, to_currency_id, rate, allow_reversed)
		VALUES ($1, $2, $3, $4) RETURNING id`

	err := r.db.q(ctx).QueryRow(ctx, query,
		rate.FromCurrencyID, rate.ToCurrencyID, rate.Rate, rate.AllowReversed,
	).Scan(&rate.ID)
	if err != nil {
		return fmt.Errorf("insert conversion rate: %w", err)
	}
	return nil
}

// Update overwrites an existing rate row.
func (r *ConversionRateRepo) Update(ctx context.Context, rate *domain.ConversionRate) error {
	query := `UPDATE conversion_rates SET from_currency_id = $1, to_currency_id = $2, rate = $3, allow_reversed = $4
		WHERE id = $5`

	tag, err := r.db.q(ctx).Exec(ctx, query,
		rate.FromCurrencyID, rate.ToCurrencyID, rate.Rate, rate.AllowReversed, rate.ID,
	)
	if err != nil {
		return fmt.Errorf("update conversion rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("conversion rate not found: %d", rate.ID)
	}
	return nil
}

// List returns all conversion rates ordered by id.
func (r *ConversionRateRepo) List(ctx context.Context) ([]domain.ConversionRate, error) {
	query := `SELECT id, from_currency_id, to_currency_id, rate, allow_reversed
		FROM conversion_rates ORDER BY id`

	rows, err := r.db.q(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list conversion rates: %w", err)
	}
	defer rows.Close()

	var rates []domain.ConversionRate
	for rows.Next() {
		var cr domain.ConversionRate
		if err := rows.Scan(&cr.ID, &cr.FromCurrencyID, &cr.ToCurrencyID, &cr.Rate, &cr.AllowReversed); err != nil {
			return nil, fmt.Errorf("scan conversion rate row: %w", err)
		}
		rates = append(rates, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversion rate rows: %w", err)
	}
	return rates, nil
}
