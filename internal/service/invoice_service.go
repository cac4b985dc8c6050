package service

import (
	"context"

	"billing-core/internal/core/domain"
	"billing-core/internal/core/ports"
	"billing-core/pkg/apperror"
	"billing-core/pkg/money"

	"github.com/rs/zerolog"
)

// InvoiceServiceImpl implements ports.InvoiceEngine. Every public operation
// runs inside a scoped serializable transaction; fetch locks the invoice, its
// destination wallet and all successful transactions before any decision is
// made, so concurrent payers against the same invoice serialize.
type InvoiceServiceImpl struct {
	store        ports.Store
	invoices     ports.InvoiceRepository
	transactions ports.TransactionRepository
	wallets      ports.WalletRepository
	rates        ports.RateService
	log          zerolog.Logger
}

// NewInvoiceService creates a new InvoiceServiceImpl.
func NewInvoiceService(
	store ports.Store,
	invoices ports.InvoiceRepository,
	transactions ports.TransactionRepository,
	wallets ports.WalletRepository,
	rates ports.RateService,
	log zerolog.Logger,
) *InvoiceServiceImpl {
	return &InvoiceServiceImpl{
		store:        store,
		invoices:     invoices,
		transactions: transactions,
		wallets:      wallets,
		rates:        rates,
		log:          log,
	}
}

// invoiceState is the locked view captured by fetch.
type invoiceState struct {
	invoice *domain.Invoice
	wallet  *domain.Wallet
	paid    money.Money
	unpaid  money.Money
}

// fetch locks invoice -> destination wallet -> successful transactions (in
// that order) and computes the paid/unpaid totals.
func (s *InvoiceServiceImpl) fetch(ctx context.Context, invoiceID int64) (*invoiceState, error) {
	invoice, wallet, err := s.invoices.GetWithWalletForUpdate(ctx, invoiceID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if invoice == nil {
		return nil, apperror.NotFound("invoice")
	}

	successful, err := s.transactions.ListSuccessfulForUpdate(ctx, invoiceID, 0)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	paid := money.Zero
	for _, t := range successful {
		paid = paid.Add(t.EffectiveAmount)
	}
	return &invoiceState{
		invoice: invoice,
		wallet:  wallet,
		paid:    paid,
		unpaid:  invoice.Amount.Sub(paid),
	}, nil
}

// PaymentInfo implements ports.InvoiceEngine.
func (s *InvoiceServiceImpl) PaymentInfo(ctx context.Context, invoiceID int64) (*ports.PaymentInfo, error) {
	var info *ports.PaymentInfo
	err := s.store.WithinScope(ctx, func(ctx context.Context) error {
		st, err := s.fetch(ctx, invoiceID)
		if err != nil {
			return err
		}
		info = &ports.PaymentInfo{
			WalletID:   st.invoice.ToWalletID,
			CurrencyID: st.wallet.CurrencyID,
			Amount:     st.invoice.Amount,
			Paid:       st.paid,
			Unpaid:     st.unpaid,
		}
		return nil
	})
	return info, err
}

// CreateTransaction implements ports.InvoiceEngine. The overpay policy is
// strict: amounts are never clamped to the unpaid remainder.
func (s *InvoiceServiceImpl) CreateTransaction(ctx context.Context, req ports.CreateTransactionRequest) (*domain.Transaction, error) {
	var created *domain.Transaction
	err := s.store.WithinScope(ctx, func(ctx context.Context) error {
		st, err := s.fetch(ctx, req.InvoiceID)
		if err != nil {
			return err
		}

		rate, ok, err := s.rates.Rate(ctx, req.CurrencyID, st.wallet.CurrencyID)
		if err != nil {
			return apperror.Internal(err)
		}
		if !ok {
			return apperror.NoConversion()
		}

		amount, effective, err := calculateAmounts(req.Amount, req.EffectiveAmount, rate, st.unpaid)
		if err != nil {
			return err
		}

		created = &domain.Transaction{
			Kind:            domain.TransactionKindExternal,
			Amount:          amount,
			EffectiveAmount: effective,
			Status:          domain.TransactionStatusPending,
			InvoiceID:       st.invoice.ID,
		}
		if err := s.transactions.Create(ctx, created); err != nil {
			return apperror.Internal(err)
		}

		s.log.Info().
			Int64("invoice_id", st.invoice.ID).
			Int64("transaction_id", created.ID).
			Str("amount", amount.String()).
			Str("effective_amount", effective.String()).
			Msg("external transaction created")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// PayWithWallet implements ports.InvoiceEngine. The pending transaction and
// the invoice demotion to incomplete are persisted before the balance check;
// a failed settlement therefore leaves the invoice incomplete. Settlement
// faults map to transaction status fail and are swallowed: the caller reads
// the outcome off the returned transaction.
func (s *InvoiceServiceImpl) PayWithWallet(ctx context.Context, req ports.PayWithWalletRequest) (*domain.Transaction, error) {
	var created *domain.Transaction
	err := s.store.WithinScope(ctx, func(ctx context.Context) error {
		st, err := s.fetch(ctx, req.InvoiceID)
		if err != nil {
			return err
		}

		fromWallet, err := s.wallets.GetByMerchantForUpdate(ctx, req.MerchantID, req.WalletID)
		if err != nil {
			return apperror.Internal(err)
		}
		if fromWallet == nil {
			return apperror.NotFound("wallet")
		}

		rate, ok, err := s.rates.Rate(ctx, fromWallet.CurrencyID, st.wallet.CurrencyID)
		if err != nil {
			return apperror.Internal(err)
		}
		if !ok {
			return apperror.NoConversion()
		}

		amount, effective, err := calculateAmounts(req.Amount, req.EffectiveAmount, rate, st.unpaid)
		if err != nil {
			return err
		}

		fromWalletID := fromWallet.ID
		created = &domain.Transaction{
			Kind:            domain.TransactionKindInternal,
			Amount:          amount,
			EffectiveAmount: effective,
			Status:          domain.TransactionStatusPending,
			InvoiceID:       st.invoice.ID,
			FromWalletID:    &fromWalletID,
		}
		if err := s.transactions.Create(ctx, created); err != nil {
			return apperror.Internal(err)
		}
		if err := s.invoices.UpdateStatus(ctx, st.invoice.ID, domain.InvoiceStatusIncomplete); err != nil {
			return apperror.Internal(err)
		}

		if err := s.settle(ctx, st, fromWallet, created, amount, effective); err != nil {
			s.log.Warn().Err(err).
				Int64("transaction_id", created.ID).
				Msg("internal settlement failed")
			created.Status = domain.TransactionStatusFail
			if err := s.transactions.UpdateStatus(ctx, created.ID, domain.TransactionStatusFail); err != nil {
				return apperror.Internal(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// settle moves the balances when the payer can cover the amount, otherwise
// terminates the transaction as fail.
func (s *InvoiceServiceImpl) settle(
	ctx context.Context,
	st *invoiceState,
	fromWallet *domain.Wallet,
	tx *domain.Transaction,
	amount, effective money.Money,
) error {
	if fromWallet.Amount.LessThan(amount) {
		tx.Status = domain.TransactionStatusFail
		return s.transactions.UpdateStatus(ctx, tx.ID, domain.TransactionStatusFail)
	}

	if err := s.wallets.UpdateAmount(ctx, fromWallet.ID, fromWallet.Amount.Sub(amount)); err != nil {
		return err
	}
	if err := s.wallets.UpdateAmount(ctx, st.wallet.ID, st.wallet.Amount.Add(effective)); err != nil {
		return err
	}
	if err := s.transactions.UpdateStatus(ctx, tx.ID, domain.TransactionStatusSuccess); err != nil {
		return err
	}
	tx.Status = domain.TransactionStatusSuccess

	if effective.GreaterThanOrEqual(st.unpaid) {
		if err := s.invoices.UpdateStatus(ctx, st.invoice.ID, domain.InvoiceStatusComplete); err != nil {
			return err
		}
	}

	s.log.Info().
		Int64("transaction_id", tx.ID).
		Int64("from_wallet", fromWallet.ID).
		Int64("to_wallet", st.wallet.ID).
		Str("amount", amount.String()).
		Str("effective_amount", effective.String()).
		Msg("internal transfer settled")
	return nil
}

// calculateAmounts derives the missing side of the (amount,
// effective_amount) pair from the conversion rate and applies the strict
// overpay check.
func calculateAmounts(amount, effective *money.Money, rate, unpaid money.Money) (money.Money, money.Money, error) {
	switch {
	case amount != nil:
		eff := amount.Div(rate)
		if eff.GreaterThan(unpaid) {
			return money.Zero, money.Zero, apperror.Overpay()
		}
		return *amount, eff, nil
	case effective != nil:
		if effective.GreaterThan(unpaid) {
			return money.Zero, money.Zero, apperror.Overpay()
		}
		return effective.Mul(rate), *effective, nil
	default:
		return money.Zero, money.Zero, apperror.Underspecified()
	}
}
