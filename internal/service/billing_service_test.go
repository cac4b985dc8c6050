package service

import (
	"context"
	"io"
	"testing"

	"billing-core/internal/adapter/storage/memory"
	"billing-core/internal/core/domain"
	"billing-core/pkg/apperror"
	"billing-core/pkg/logger"
	"billing-core/pkg/money"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type billingFixture struct {
	store *memory.Store
	svc   *BillingServiceImpl
	uahID int64
	usdID int64
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	log := logger.NewWithWriter("error", io.Discard)

	uah := &domain.Currency{Code: domain.CurrencyUAH}
	require.NoError(t, store.Currencies().Create(ctx, uah))
	usd := &domain.Currency{Code: domain.CurrencyUSD}
	require.NoError(t, store.Currencies().Create(ctx, usd))

	svc := NewBillingService(store.Currencies(), store.Wallets(), store.Invoices(), store.Transactions(), log)
	return &billingFixture{store: store, svc: svc, uahID: uah.ID, usdID: usd.ID}
}

func merchantPrincipal(id int64) *domain.Principal {
	return &domain.Principal{Kind: domain.PrincipalMerchant, ID: id, Username: "m"}
}

func staffPrincipal() *domain.Principal {
	return &domain.Principal{Kind: domain.PrincipalStaff, ID: 1, Username: "op"}
}

func TestBillingService_Currencies(t *testing.T) {
	f := newBillingFixture(t)
	currencies, err := f.svc.Currencies(context.Background())
	require.NoError(t, err)
	assert.Len(t, currencies, 2)
}

func TestBillingService_CreateWallet(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()

	w, err := f.svc.CreateWallet(ctx, 1, f.uahID)
	require.NoError(t, err)
	assert.True(t, w.Amount.IsZero())

	// Same merchant, same currency: rejected.
	_, err = f.svc.CreateWallet(ctx, 1, f.uahID)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	// Other currency and other merchant are both fine.
	_, err = f.svc.CreateWallet(ctx, 1, f.usdID)
	assert.NoError(t, err)
	_, err = f.svc.CreateWallet(ctx, 2, f.uahID)
	assert.NoError(t, err)

	_, err = f.svc.CreateWallet(ctx, 1, 999)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestBillingService_Wallets(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateWallet(ctx, 1, f.uahID)
	require.NoError(t, err)
	_, err = f.svc.CreateWallet(ctx, 2, f.uahID)
	require.NoError(t, err)

	mine, err := f.svc.Wallets(ctx, merchantPrincipal(1))
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := f.svc.Wallets(ctx, staffPrincipal())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBillingService_CreateInvoice(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()

	w, err := f.svc.CreateWallet(ctx, 1, f.uahID)
	require.NoError(t, err)

	inv, err := f.svc.CreateInvoice(ctx, 1, money.MustNew("25.5"), w.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPending, inv.Status)
	assert.Equal(t, "25.500", inv.Amount.String())
	assert.NotEqual(t, uuid.Nil, inv.Token)

	// Another merchant cannot bill into this wallet.
	_, err = f.svc.CreateInvoice(ctx, 2, money.MustNew("10"), w.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = f.svc.CreateInvoice(ctx, 1, money.MustNew("0"), w.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestBillingService_InvoicesPaginated(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()

	w1, err := f.svc.CreateWallet(ctx, 1, f.uahID)
	require.NoError(t, err)
	w2, err := f.svc.CreateWallet(ctx, 2, f.uahID)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := f.svc.CreateInvoice(ctx, 1, money.MustNew("10"), w1.ID)
		require.NoError(t, err)
	}
	_, err = f.svc.CreateInvoice(ctx, 2, money.MustNew("10"), w2.ID)
	require.NoError(t, err)

	page, err := f.svc.Invoices(ctx, merchantPrincipal(1), 0, 2)
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 2, page.ItemsCount)

	rest, err := f.svc.Invoices(ctx, merchantPrincipal(1), 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest.Data, 1)

	all, err := f.svc.Invoices(ctx, staffPrincipal(), 0, 10)
	require.NoError(t, err)
	assert.Len(t, all.Data, 4)
}

func TestBillingService_Lookups(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()

	w, err := f.svc.CreateWallet(ctx, 1, f.uahID)
	require.NoError(t, err)
	inv, err := f.svc.CreateInvoice(ctx, 1, money.MustNew("10"), w.ID)
	require.NoError(t, err)

	got, err := f.svc.InvoiceByToken(ctx, inv.Token)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.ID)

	_, err = f.svc.InvoiceByToken(ctx, uuid.New())
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = f.svc.TransactionByToken(ctx, uuid.New())
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
