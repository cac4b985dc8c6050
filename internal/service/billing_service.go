package service

import (
	"context"
	"fmt"

	"billing-core/internal/core/domain"
	"billing-core/internal/core/ports"
	"billing-core/pkg/apperror"
	"billing-core/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BillingServiceImpl implements ports.BillingService: the management surface
// around the settlement engine.
type BillingServiceImpl struct {
	currencies   ports.CurrencyRepository
	wallets      ports.WalletRepository
	invoices     ports.InvoiceRepository
	transactions ports.TransactionRepository
	log          zerolog.Logger
}

// NewBillingService creates a new BillingServiceImpl.
func NewBillingService(
	currencies ports.CurrencyRepository,
	wallets ports.WalletRepository,
	invoices ports.InvoiceRepository,
	transactions ports.TransactionRepository,
	log zerolog.Logger,
) *BillingServiceImpl {
	return &BillingServiceImpl{
		currencies:   currencies,
		wallets:      wallets,
		invoices:     invoices,
		transactions: transactions,
		log:          log,
	}
}

// Currencies implements ports.BillingService.
func (s *BillingServiceImpl) Currencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencies.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return currencies, nil
}

// CreateWallet implements ports.BillingService. One wallet per merchant and
// currency.
func (s *BillingServiceImpl) CreateWallet(ctx context.Context, merchantID, currencyID int64) (*domain.Wallet, error) {
	currency, err := s.currencies.GetByID(ctx, currencyID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if currency == nil {
		return nil, apperror.NotFound("currency")
	}

	existing, err := s.wallets.GetByMerchantAndCurrency(ctx, merchantID, currencyID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.Conflict(fmt.Sprintf("wallet in %s already exists", currency.Code))
	}

	wallet := &domain.Wallet{
		MerchantID: merchantID,
		CurrencyID: currencyID,
		Amount:     money.Zero,
	}
	if err := s.wallets.Create(ctx, wallet); err != nil {
		return nil, apperror.Internal(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().
		Int64("merchant_id", merchantID).
		Int64("wallet_id", wallet.ID).
		Str("currency", string(currency.Code)).
		Msg("wallet created")
	return wallet, nil
}

// Wallets implements ports.BillingService. Staff sees every wallet, a
// merchant only their own.
func (s *BillingServiceImpl) Wallets(ctx context.Context, principal *domain.Principal) ([]domain.Wallet, error) {
	var (
		wallets []domain.Wallet
		err     error
	)
	if principal.IsStaff() {
		wallets, err = s.wallets.List(ctx)
	} else {
		wallets, err = s.wallets.ListByMerchant(ctx, principal.ID)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return wallets, nil
}

// CreateInvoice implements ports.BillingService. The destination wallet must
// belong to the calling merchant.
func (s *BillingServiceImpl) CreateInvoice(ctx context.Context, merchantID int64, amount money.Money, toWalletID int64) (*domain.Invoice, error) {
	if !amount.IsPositive() {
		return nil, apperror.Validation("amount must be positive")
	}

	wallet, err := s.wallets.GetByID(ctx, toWalletID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if wallet == nil || wallet.MerchantID != merchantID {
		return nil, apperror.NotFound("wallet")
	}

	invoice := &domain.Invoice{
		Amount:     amount,
		Status:     domain.InvoiceStatusPending,
		ToWalletID: wallet.ID,
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		return nil, apperror.Internal(fmt.Errorf("create invoice: %w", err))
	}

	s.log.Info().
		Int64("merchant_id", merchantID).
		Int64("invoice_id", invoice.ID).
		Str("amount", amount.String()).
		Msg("invoice created")
	return invoice, nil
}

// Invoices implements ports.BillingService.
func (s *BillingServiceImpl) Invoices(ctx context.Context, principal *domain.Principal, offset, limit int) (*ports.Paginated[domain.Invoice], error) {
	var merchantID *int64
	if !principal.IsStaff() {
		id := principal.ID
		merchantID = &id
	}

	invoices, err := s.invoices.List(ctx, merchantID, offset, limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &ports.Paginated[domain.Invoice]{
		Data:       invoices,
		ItemsCount: len(invoices),
	}, nil
}

// InvoiceByToken implements ports.BillingService.
func (s *BillingServiceImpl) InvoiceByToken(ctx context.Context, token uuid.UUID) (*domain.Invoice, error) {
	invoice, err := s.invoices.GetByToken(ctx, token)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if invoice == nil {
		return nil, apperror.NotFound("invoice")
	}
	return invoice, nil
}

// TransactionByToken implements ports.BillingService.
func (s *BillingServiceImpl) TransactionByToken(ctx context.Context, token uuid.UUID) (*domain.Transaction, error) {
	tx, err := s.transactions.GetByToken(ctx, token)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if tx == nil {
		return nil, apperror.NotFound("transaction")
	}
	return tx, nil
}
