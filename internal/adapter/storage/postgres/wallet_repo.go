package postgres

import (
	"context"
	"errors"
	"fmt"

	"billing-core/internal/core/domain"
	"billing-core/pkg/money"

	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	db *DB
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(db *DB) *WalletRepo {
	return &WalletRepo{db: db}
}

// Create inserts a new wallet and fills in its id. The unique index on
// (merchant_id, currency_id) rejects duplicates.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (merchant_id, currency_id, amount)
		VALUES ($1, $2, $3) RETURNING id`

	err := r.db.q(ctx).QueryRow(ctx, query, w.MerchantID, w.CurrencyID, w.Amount).Scan(&w.ID)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByID fetches a wallet by id without locking.
func (r *WalletRepo) GetByID(ctx context.Context, id int64) (*domain.Wallet, error) {
	query := `SELECT id, merchant_id, currency_id, amount FROM wallets WHERE id = $1`

	return r.scanWallet(r.db.q(ctx).QueryRow(ctx, query, id))
}

// GetByMerchantAndCurrency fetches a merchant's wallet in a currency.
func (r *WalletRepo) GetByMerchantAndCurrency(ctx context.Context, merchantID, currencyID int64) (*domain.Wallet, error) {
	query := `SELECT id, merchant_id, currency_id, amount
		FROM wallets WHERE merchant_id = $1 AND currency_id = $2`

	return r.scanWallet(r.db.q(ctx).QueryRow(ctx, query, merchantID, currencyID))
}

// List returns all wallets ordered by id.
func (r *WalletRepo) List(ctx context.Context) ([]domain.Wallet, error) {
	query := `SELECT id, merchant_id, currency_id, amount FROM wallets ORDER BY id`

	return r.queryWallets(ctx, query)
}

// ListByMerchant returns one merchant's wallets ordered by id.
func (r *WalletRepo) ListByMerchant(ctx context.Context, merchantID int64) ([]domain.Wallet, error) {
	query := `SELECT id, merchant_id, currency_id, amount
		FROM wallets WHERE merchant_id = $1 ORDER BY id`

	return r.queryWallets(ctx, query, merchantID)
}

// GetByMerchantForUpdate locks the wallet owned by merchantID with the given
// id. Must run inside a scope.
func (r *WalletRepo) GetByMerchantForUpdate(ctx context.Context, merchantID, walletID int64) (*domain.Wallet, error) {
	query := `SELECT id, merchant_id, currency_id, amount
		FROM wallets WHERE id = $1 AND merchant_id = $2 FOR UPDATE`

	return r.scanWallet(r.db.q(ctx).QueryRow(ctx, query, walletID, merchantID))
}

// UpdateAmount overwrites the wallet balance.
func (r *WalletRepo) UpdateAmount(ctx context.Context, walletID int64, amount money.Money) error {
	query := `UPDATE wallets SET amount = $1 WHERE id = $2`

	tag, err := r.db.q(ctx).Exec(ctx, query, amount, walletID)
	if err != nil {
		return fmt.Errorf("update wallet amount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %d", walletID)
	}
	return nil
}

func (r *WalletRepo) queryWallets(ctx context.Context, query string, args ...any) ([]domain.Wallet, error) {
	rows, err := r.db.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		var w domain.Wallet
		if err := rows.Scan(&w.ID, &w.MerchantID, &w.CurrencyID, &w.Amount); err != nil {
			return nil, fmt.Errorf("scan wallet row: %w", err)
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet rows: %w", err)
	}
	return wallets, nil
}

func (r *WalletRepo) scanWallet(row pgx.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	if err := row.Scan(&w.ID, &w.MerchantID, &w.CurrencyID, &w.Amount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan wallet: %w", err)
	}
	return w, nil
}
