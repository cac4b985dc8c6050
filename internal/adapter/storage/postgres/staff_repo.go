package postgres

import (
	"context"
	"errors"
	"fmt"

	"billing-core/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// StaffRepo implements ports.StaffRepository.
type StaffRepo struct {
	db *DB
}

// NewStaffRepo creates a new StaffRepo.
func NewStaffRepo(db *DB) *StaffRepo {
	return &StaffRepo{db: db}
}

// Create inserts a new staff account and fills in its id.
func (r *StaffRepo) Create(ctx context.Context, s *domain.Staff) error {
	query := `INSERT INTO staff (username, password_hash) VALUES ($1, $2) RETURNING id`

	err := r.db.q(ctx).QueryRow(ctx, query, s.Username, s.PasswordHash).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert staff: %w", err)
	}
	return nil
}

// GetByUsername fetches a staff account by username.
func (r *StaffRepo) GetByUsername(ctx context.Context, username string) (*domain.Staff, error) {
	query := `SELECT id, username, password_hash FROM staff WHERE username = $1`

	s := &domain.Staff{}
	err := r.db.q(ctx).QueryRow(ctx, query, username).Scan(&s.ID, &s.Username, &s.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan staff: %w", err)
	}
	return s, nil
}
