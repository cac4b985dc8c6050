package postgres

import (
	"context"
	"errors"
	"fmt"

	"billing-core/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// PaymentSystemRepo implements ports.PaymentSystemRepository.
type PaymentSystemRepo struct {
	db *DB
}

// NewPaymentSystemRepo creates a new PaymentSystemRepo.
func NewPaymentSystemRepo(db *DB) *PaymentSystemRepo {
	return &PaymentSystemRepo{db: db}
}

// Create inserts a new payment system and fills in its id.
func (r *PaymentSystemRepo) Create(ctx context.Context, s *domain.PaymentSystem) error {
	query := `INSERT INTO payment_systems (name, system_type, decryption_key)
		VALUES ($1, $2, $3) RETURNING id`

	err := r.db.q(ctx).QueryRow(ctx, query, s.Name, s.SystemType, s.DecryptionKey).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert payment system: %w", err)
	}
	return nil
}

// Update persists name and key changes; key rotation happens here.
func (r *PaymentSystemRepo) Update(ctx context.Context, s *domain.PaymentSystem) error {
	query := `UPDATE payment_systems SET name = $1, system_type = $2, decryption_key = $3 WHERE id = $4`

	tag, err := r.db.q(ctx).Exec(ctx, query, s.Name, s.SystemType, s.DecryptionKey, s.ID)
	if err != nil {
		return fmt.Errorf("update payment system: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment system not found: %d", s.ID)
	}
	return nil
}

// List returns all payment systems ordered by id.
func (r *PaymentSystemRepo) List(ctx context.Context) ([]domain.PaymentSystem, error) {
	query := `SELECT id, name, system_type, decryption_key FROM payment_systems ORDER BY id`

	rows, err := r.db.q(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list payment systems: %w", err)
	}
	defer rows.Close()

	var systems []domain.PaymentSystem
	for rows.Next() {
		var s domain.PaymentSystem
		if err := rows.Scan(&s.ID, &s.Name, &s.SystemType, &s.DecryptionKey); err != nil {
			return nil, fmt.Errorf("scan payment system row: %w", err)
		}
		systems = append(systems, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment system rows: %w", err)
	}
	return systems, nil
}

// GetByID fetches a payment system by id.
func (r *PaymentSystemRepo) GetByID(ctx context.Context, id int64) (*domain.PaymentSystem, error) {
	query := `SELECT id, name, system_type, decryption_key FROM payment_systems WHERE id = $1`

	return r.scanSystem(r.db.q(ctx).QueryRow(ctx, query, id))
}

// GetByIDAndType returns nil when the system exists under another type.
func (r *PaymentSystemRepo) GetByIDAndType(ctx context.Context, id int64, systemType domain.PaymentSystemType) (*domain.PaymentSystem, error) {
	query := `SELECT id, name, system_type, decryption_key
		FROM payment_systems WHERE id = $1 AND system_type = $2`

	return r.scanSystem(r.db.q(ctx).QueryRow(ctx, query, id, systemType))
}

func (r *PaymentSystemRepo) scanSystem(row pgx.Row) (*domain.PaymentSystem, error) {
	s := &domain.PaymentSystem{}
	if err := row.Scan(&s.ID, &s.Name, &s.SystemType, &s.DecryptionKey); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan payment system: %w", err)
	}
	return s, nil
}
