package postgres

import (
	"context"
	"errors"
	"fmt"

	"billing-core/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// MerchantRepo implements ports.MerchantRepository.
type MerchantRepo struct {
	db *DB
}

// NewMerchantRepo creates a new MerchantRepo.
func NewMerchantRepo(db *DB) *MerchantRepo {
	return &MerchantRepo{db: db}
}

// Create inserts a new merchant and fills in its id.
func (r *MerchantRepo) Create(ctx context.Context, m *domain.Merchant) error {
	query := `INSERT INTO merchants (username, password_hash) VALUES ($1, $2) RETURNING id`

	err := r.db.q(ctx).QueryRow(ctx, query, m.Username, m.PasswordHash).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert merchant: %w", err)
	}
	return nil
}

// GetByID fetches a merchant by id.
func (r *MerchantRepo) GetByID(ctx context.Context, id int64) (*domain.Merchant, error) {
	query := `SELECT id, username, password_hash FROM merchants WHERE id = $1`

	return r.scanMerchant(r.db.q(ctx).QueryRow(ctx, query, id))
}

// GetByUsername fetches a merchant by username.
func (r *MerchantRepo) GetByUsername(ctx context.Context, username string) (*domain.Merchant, error) {
	query := `SELECT id, username, password_hash FROM merchants WHERE username = $1`

	return r.scanMerchant(r.db.q(ctx).QueryRow(ctx, query, username))
}

func (r *MerchantRepo) scanMerchant(row pgx.Row) (*domain.Merchant, error) {
	m := &domain.Merchant{}
	if err := row.Scan(&m.ID, &m.Username, &m.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan merchant: %w", err)
	}
	return m, nil
}
