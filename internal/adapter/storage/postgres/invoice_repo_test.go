package postgres

import (
	"context"
	"testing"

	"billing-core/internal/core/domain"
	"billing-core/pkg/money"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceRepo_Create_DefaultsTokenAndStatus(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewInvoiceRepo(db)

	inv := &domain.Invoice{Amount: money.MustNew("10"), ToWalletID: 3}

	mock.ExpectQuery("INSERT INTO invoices").
		WithArgs(pgxmock.AnyArg(), inv.Amount, domain.InvoiceStatusPending, inv.ToWalletID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(21)))

	err := repo.Create(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, int64(21), inv.ID)
	assert.NotEqual(t, uuid.Nil, inv.Token)
	assert.Equal(t, domain.InvoiceStatusPending, inv.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepo_GetWithWalletForUpdate(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewInvoiceRepo(db)

	token := uuid.New()
	columns := []string{
		"id", "token", "amount", "status", "to_wallet_id",
		"id", "merchant_id", "currency_id", "amount",
	}
	mock.ExpectQuery("SELECT .+ FROM invoices i JOIN wallets w ON .+ FOR UPDATE OF i, w").
		WithArgs(int64(21)).
		WillReturnRows(pgxmock.NewRows(columns).AddRow(
			int64(21), token, money.MustNew("10"), domain.InvoiceStatusPending, int64(3),
			int64(3), int64(7), int64(2), money.MustNew("50"),
		))

	inv, w, err := repo.GetWithWalletForUpdate(context.Background(), 21)
	require.NoError(t, err)
	require.NotNil(t, inv)
	require.NotNil(t, w)
	assert.Equal(t, token, inv.Token)
	assert.Equal(t, inv.ToWalletID, w.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepo_GetWithWalletForUpdate_Missing(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewInvoiceRepo(db)

	mock.ExpectQuery("SELECT .+ FROM invoices i JOIN wallets w").
		WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	inv, w, err := repo.GetWithWalletForUpdate(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, inv)
	assert.Nil(t, w)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepo_List_AllMerchants(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewInvoiceRepo(db)

	columns := []string{"id", "token", "amount", "status", "to_wallet_id"}
	mock.ExpectQuery("SELECT .+ FROM invoices i JOIN wallets w .+ OFFSET .+ LIMIT").
		WithArgs((*int64)(nil), 0, 50).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(int64(1), uuid.New(), money.MustNew("10"), domain.InvoiceStatusPending, int64(3)).
			AddRow(int64(2), uuid.New(), money.MustNew("20"), domain.InvoiceStatusComplete, int64(4)))

	invoices, err := repo.List(context.Background(), nil, 0, 50)
	require.NoError(t, err)
	assert.Len(t, invoices, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
