package service

import (
	"context"
	"io"
	"testing"

	"billing-core/internal/adapter/storage/memory"
	"billing-core/internal/core/domain"
	"billing-core/internal/core/ports"
	"billing-core/pkg/apperror"
	"billing-core/pkg/logger"
	"billing-core/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invoiceFixture struct {
	store *memory.Store
	rates *RateServiceImpl
	svc   *InvoiceServiceImpl
	ids   map[domain.CurrencyCode]int64
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	log := logger.NewWithWriter("error", io.Discard)

	ids := make(map[domain.CurrencyCode]int64, 2)
	for _, code := range []domain.CurrencyCode{domain.CurrencyUAH, domain.CurrencyUSD} {
		c := &domain.Currency{Code: code}
		require.NoError(t, store.Currencies().Create(ctx, c))
		ids[code] = c.ID
	}

	rates := NewRateService(store.Currencies(), store.ConversionRates(), log)
	svc := NewInvoiceService(store, store.Invoices(), store.Transactions(), store.Wallets(), rates, log)
	return &invoiceFixture{store: store, rates: rates, svc: svc, ids: ids}
}

func (f *invoiceFixture) addRate(t *testing.T, from, to domain.CurrencyCode, rate string, reversed bool) {
	t.Helper()
	err := f.store.ConversionRates().Create(context.Background(), &domain.ConversionRate{
		FromCurrencyID: f.ids[from],
		ToCurrencyID:   f.ids[to],
		Rate:           money.MustNew(rate),
		AllowReversed:  reversed,
	})
	require.NoError(t, err)
}

func (f *invoiceFixture) addWallet(t *testing.T, merchantID int64, code domain.CurrencyCode, balance string) *domain.Wallet {
	t.Helper()
	w := &domain.Wallet{MerchantID: merchantID, CurrencyID: f.ids[code], Amount: money.MustNew(balance)}
	require.NoError(t, f.store.Wallets().Create(context.Background(), w))
	return w
}

func (f *invoiceFixture) addInvoice(t *testing.T, amount string, toWalletID int64) *domain.Invoice {
	t.Helper()
	inv := &domain.Invoice{Amount: money.MustNew(amount), ToWalletID: toWalletID}
	require.NoError(t, f.store.Invoices().Create(context.Background(), inv))
	return inv
}

func (f *invoiceFixture) invoiceStatus(t *testing.T, id int64) domain.InvoiceStatus {
	t.Helper()
	inv, _, err := f.store.Invoices().GetWithWalletForUpdate(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, inv)
	return inv.Status
}

func (f *invoiceFixture) walletBalance(t *testing.T, id int64) string {
	t.Helper()
	w, err := f.store.Wallets().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, w)
	return w.Amount.String()
}

func mp(s string) *money.Money {
	m := money.MustNew(s)
	return &m
}

func TestInvoiceService_PaymentInfo(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	w := f.addWallet(t, 1, domain.CurrencyUAH, "0")
	inv := f.addInvoice(t, "10", w.ID)

	info, err := f.svc.PaymentInfo(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, w.ID, info.WalletID)
	assert.Equal(t, f.ids[domain.CurrencyUAH], info.CurrencyID)
	assert.Equal(t, "10.000", info.Amount.String())
	assert.Equal(t, "0.000", info.Paid.String())
	assert.Equal(t, "10.000", info.Unpaid.String())
}

func TestInvoiceService_PaymentInfo_NotFound(t *testing.T) {
	f := newInvoiceFixture(t)
	_, err := f.svc.PaymentInfo(context.Background(), 42)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestInvoiceService_CreateTransaction_DerivesEffectiveAmount(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	f.addRate(t, domain.CurrencyUAH, domain.CurrencyUSD, "2", true)

	w := f.addWallet(t, 1, domain.CurrencyUSD, "0")
	inv := f.addInvoice(t, "30", w.ID)

	// Paying 39.8 UAH into a USD invoice at rate UAH->USD=2.
	tx, err := f.svc.CreateTransaction(ctx, ports.CreateTransactionRequest{
		InvoiceID:  inv.ID,
		CurrencyID: f.ids[domain.CurrencyUAH],
		Amount:     mp("39.8"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionKindExternal, tx.Kind)
	assert.Equal(t, domain.TransactionStatusPending, tx.Status)
	assert.Equal(t, "39.800", tx.Amount.String())
	assert.Equal(t, "19.900", tx.EffectiveAmount.String())
}

func TestInvoiceService_CreateTransaction_DerivesAmount(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	f.addRate(t, domain.CurrencyUAH, domain.CurrencyUSD, "2", true)

	w := f.addWallet(t, 1, domain.CurrencyUSD, "0")
	inv := f.addInvoice(t, "30", w.ID)

	tx, err := f.svc.CreateTransaction(ctx, ports.CreateTransactionRequest{
		InvoiceID:       inv.ID,
		CurrencyID:      f.ids[domain.CurrencyUAH],
		EffectiveAmount: mp("19.9"),
	})
	require.NoError(t, err)
	assert.Equal(t, "39.800", tx.Amount.String())
	assert.Equal(t, "19.900", tx.EffectiveAmount.String())
}

func TestInvoiceService_CreateTransaction_Underspecified(t *testing.T) {
	f := newInvoiceFixture(t)
	w := f.addWallet(t, 1, domain.CurrencyUAH, "0")
	inv := f.addInvoice(t, "10", w.ID)

	_, err := f.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{
		InvoiceID:  inv.ID,
		CurrencyID: f.ids[domain.CurrencyUAH],
	})
	assert.True(t, apperror.IsKind(err, apperror.KindUnderspecified))
}

func TestInvoiceService_CreateTransaction_NoConversion(t *testing.T) {
	f := newInvoiceFixture(t)
	w := f.addWallet(t, 1, domain.CurrencyUSD, "0")
	inv := f.addInvoice(t, "10", w.ID)

	// No rate between UAH and USD exists.
	_, err := f.svc.CreateTransaction(context.Background(), ports.CreateTransactionRequest{
		InvoiceID:  inv.ID,
		CurrencyID: f.ids[domain.CurrencyUAH],
		Amount:     mp("5"),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindNoConversion))
}

func TestInvoiceService_CreateTransaction_OverpayRejected(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	w := f.addWallet(t, 1, domain.CurrencyUAH, "0")
	inv := f.addInvoice(t, "10", w.ID)

	// The remainder is never clamped; even a marginal excess is rejected.
	_, err := f.svc.CreateTransaction(ctx, ports.CreateTransactionRequest{
		InvoiceID:       inv.ID,
		CurrencyID:      f.ids[domain.CurrencyUAH],
		EffectiveAmount: mp("10.001"),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindOverpay))

	// Exactly the unpaid remainder passes.
	_, err = f.svc.CreateTransaction(ctx, ports.CreateTransactionRequest{
		InvoiceID:       inv.ID,
		CurrencyID:      f.ids[domain.CurrencyUAH],
		EffectiveAmount: mp("10"),
	})
	assert.NoError(t, err)
}

func TestInvoiceService_PayWithWallet_InsufficientFunds(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()

	payer := f.addWallet(t, 1, domain.CurrencyUAH, "0")
	receiver := f.addWallet(t, 2, domain.CurrencyUAH, "100")
	inv := f.addInvoice(t, "20", receiver.ID)

	req := ports.PayWithWalletRequest{
		InvoiceID:       inv.ID,
		MerchantID:      1,
		WalletID:        payer.ID,
		EffectiveAmount: mp("10"),
	}

	// Empty payer wallet: the transaction terminates as fail but the invoice
	// is already demoted to incomplete.
	tx, err := f.svc.PayWithWallet(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusFail, tx.Status)
	assert.Equal(t, domain.InvoiceStatusIncomplete, f.invoiceStatus(t, inv.ID))
	assert.Equal(t, "0.000", f.walletBalance(t, payer.ID))
	assert.Equal(t, "100.000", f.walletBalance(t, receiver.ID))

	require.NoError(t, f.store.Wallets().UpdateAmount(ctx, payer.ID, money.MustNew("100")))

	tx, err = f.svc.PayWithWallet(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusSuccess, tx.Status)
	assert.Equal(t, domain.InvoiceStatusIncomplete, f.invoiceStatus(t, inv.ID))
	assert.Equal(t, "90.000", f.walletBalance(t, payer.ID))
	assert.Equal(t, "110.000", f.walletBalance(t, receiver.ID))

	tx, err = f.svc.PayWithWallet(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusSuccess, tx.Status)
	assert.Equal(t, domain.InvoiceStatusComplete, f.invoiceStatus(t, inv.ID))
	assert.Equal(t, "80.000", f.walletBalance(t, payer.ID))
	assert.Equal(t, "120.000", f.walletBalance(t, receiver.ID))
}

func TestInvoiceService_PayWithWallet_CrossCurrency(t *testing.T) {
	f := newInvoiceFixture(t)
	ctx := context.Background()
	f.addRate(t, domain.CurrencyUAH, domain.CurrencyUSD, "20", true)

	payer := f.addWallet(t, 1, domain.CurrencyUSD, "100")
	receiver := f.addWallet(t, 2, domain.CurrencyUAH, "100")
	inv := f.addInvoice(t, "100", receiver.ID)

	tx, err := f.svc.PayWithWallet(ctx, ports.PayWithWalletRequest{
		InvoiceID:       inv.ID,
		MerchantID:      1,
		WalletID:        payer.ID,
		EffectiveAmount: mp("100"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusSuccess, tx.Status)
	assert.Equal(t, domain.TransactionKindInternal, tx.Kind)
	assert.Equal(t, "5.000", tx.Amount.String())
	assert.Equal(t, "100.000", tx.EffectiveAmount.String())
	assert.Equal(t, "95.000", f.walletBalance(t, payer.ID))
	assert.Equal(t, "200.000", f.walletBalance(t, receiver.ID))
	assert.Equal(t, domain.InvoiceStatusComplete, f.invoiceStatus(t, inv.ID))
}

func TestInvoiceService_PayWithWallet_ForeignWallet(t *testing.T) {
	f := newInvoiceFixture(t)

	payer := f.addWallet(t, 1, domain.CurrencyUAH, "100")
	receiver := f.addWallet(t, 2, domain.CurrencyUAH, "0")
	inv := f.addInvoice(t, "10", receiver.ID)

	// Merchant 2 does not own the payer wallet.
	_, err := f.svc.PayWithWallet(context.Background(), ports.PayWithWalletRequest{
		InvoiceID:       inv.ID,
		MerchantID:      2,
		WalletID:        payer.ID,
		EffectiveAmount: mp("10"),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestInvoiceService_PayWithWallet_Overpay(t *testing.T) {
	f := newInvoiceFixture(t)

	payer := f.addWallet(t, 1, domain.CurrencyUAH, "100")
	receiver := f.addWallet(t, 2, domain.CurrencyUAH, "0")
	inv := f.addInvoice(t, "10", receiver.ID)

	_, err := f.svc.PayWithWallet(context.Background(), ports.PayWithWalletRequest{
		InvoiceID:       inv.ID,
		MerchantID:      1,
		WalletID:        payer.ID,
		EffectiveAmount: mp("10.5"),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindOverpay))
	assert.Equal(t, "100.000", f.walletBalance(t, payer.ID))
	assert.Equal(t, domain.InvoiceStatusPending, f.invoiceStatus(t, inv.ID))
}
