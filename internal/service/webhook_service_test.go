package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"billing-core/internal/adapter/storage/memory"
	"billing-core/internal/core/domain"
	"billing-core/internal/core/ports/mocks"
	"billing-core/pkg/apperror"
	"billing-core/pkg/logger"

	"github.com/fernet/fernet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type webhookFixture struct {
	*engineFixture
	webhookSvc *WebhookServiceImpl
	key        *fernet.Key
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()
	f := newEngineFixture(t)
	ctx := context.Background()

	var key fernet.Key
	require.NoError(t, key.Generate())
	system, err := f.store.PaymentSystems().GetByID(ctx, f.systemID)
	require.NoError(t, err)
	system.DecryptionKey = strings.TrimSpace(key.Encode())
	require.NoError(t, f.store.PaymentSystems().Update(ctx, system))

	log := logger.NewWithWriter("error", io.Discard)
	attemptSvc := f.attemptSvc
	return &webhookFixture{
		engineFixture: f,
		webhookSvc:    NewWebhookService(f.store, f.store.PaymentSystems(), attemptSvc, log),
		key:           &key,
	}
}

func (f *webhookFixture) encrypt(t *testing.T, payload string) []byte {
	t.Helper()
	token, err := fernet.EncryptAndSign([]byte(payload), f.key)
	require.NoError(t, err)
	return token
}

func (f *webhookFixture) pendingAttempt(t *testing.T) (*domain.Attempt, *domain.Transaction, *domain.Invoice) {
	t.Helper()
	w := f.addWallet(t, 1, domain.CurrencyUAH, "0")
	inv := f.addInvoice(t, "10", w.ID)
	tx := f.externalTx(t, inv.ID, domain.CurrencyUAH, "10")
	att := f.attempt(t, tx.ID)
	return att, tx, inv
}

func TestWebhookService_SuccessCallback(t *testing.T) {
	f := newWebhookFixture(t)
	ctx := context.Background()

	att, tx, inv := f.pendingAttempt(t)
	payload := fmt.Sprintf(`{"attempt_id":%d,"status":"success"}`, att.ID)
	token := f.encrypt(t, payload)

	require.NoError(t, f.webhookSvc.ProcessVisa(ctx, f.systemID, token))

	stored, err := f.store.Attempts().GetByID(ctx, att.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.AttemptStatusSuccess, stored.Status)
	assert.Equal(t, []byte(payload), stored.Response)
	assert.Equal(t, domain.TransactionStatusSuccess, f.transactionStatus(t, tx.ID))
	assert.Equal(t, domain.InvoiceStatusComplete, f.invoiceStatus(t, inv.ID))
}

func TestWebhookService_ReplayRejected(t *testing.T) {
	f := newWebhookFixture(t)
	ctx := context.Background()

	att, _, _ := f.pendingAttempt(t)
	token := f.encrypt(t, fmt.Sprintf(`{"attempt_id":%d,"status":"success"}`, att.ID))

	require.NoError(t, f.webhookSvc.ProcessVisa(ctx, f.systemID, token))

	// The attempt is no longer pending, so the identical ciphertext decrypts
	// fine but the dispatch hits NotFound.
	err := f.webhookSvc.ProcessVisa(ctx, f.systemID, token)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestWebhookService_BadCiphertext(t *testing.T) {
	f := newWebhookFixture(t)
	err := f.webhookSvc.ProcessVisa(context.Background(), f.systemID, []byte("not a fernet token"))
	assert.True(t, apperror.IsKind(err, apperror.KindDecryptionError))
}

func TestWebhookService_ForeignKeyRejected(t *testing.T) {
	f := newWebhookFixture(t)

	var other fernet.Key
	require.NoError(t, other.Generate())
	token, err := fernet.EncryptAndSign([]byte(`{"attempt_id":1,"status":"success"}`), &other)
	require.NoError(t, err)

	err = f.webhookSvc.ProcessVisa(context.Background(), f.systemID, token)
	assert.True(t, apperror.IsKind(err, apperror.KindDecryptionError))
}

func TestWebhookService_UnknownPaymentSystem(t *testing.T) {
	f := newWebhookFixture(t)
	err := f.webhookSvc.ProcessVisa(context.Background(), 999, f.encrypt(t, `{}`))
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestWebhookService_KeyRotation(t *testing.T) {
	f := newWebhookFixture(t)
	ctx := context.Background()

	// Rotate: a new primary key is prepended, the old one stays valid.
	var fresh fernet.Key
	require.NoError(t, fresh.Generate())
	system, err := f.store.PaymentSystems().GetByID(ctx, f.systemID)
	require.NoError(t, err)
	system.DecryptionKey = strings.TrimSpace(fresh.Encode()) + "," + system.DecryptionKey
	require.NoError(t, f.store.PaymentSystems().Update(ctx, system))

	att, tx, _ := f.pendingAttempt(t)
	token := f.encrypt(t, fmt.Sprintf(`{"attempt_id":%d,"status":"fail"}`, att.ID))

	require.NoError(t, f.webhookSvc.ProcessVisa(ctx, f.systemID, token))
	assert.Equal(t, domain.TransactionStatusFail, f.transactionStatus(t, tx.ID))
}

func TestWebhookService_Dispatch(t *testing.T) {
	tests := []struct {
		status string
		expect func(m *mocks.MockAttemptEngineMockRecorder, payload []byte)
	}{
		{"success", func(m *mocks.MockAttemptEngineMockRecorder, payload []byte) {
			m.RecordResponse(gomock.Any(), int64(7), payload).Return(nil)
			m.Success(gomock.Any(), int64(7)).Return(nil)
		}},
		{"fail", func(m *mocks.MockAttemptEngineMockRecorder, payload []byte) {
			m.RecordResponse(gomock.Any(), int64(7), payload).Return(nil)
			m.Fail(gomock.Any(), int64(7)).Return(nil)
		}},
		{"error", func(m *mocks.MockAttemptEngineMockRecorder, payload []byte) {
			m.RecordResponse(gomock.Any(), int64(7), payload).Return(nil)
			m.Error(gomock.Any(), int64(7)).Return(nil)
		}},
	}

	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := memory.NewStore()
			log := logger.NewWithWriter("error", io.Discard)

			var key fernet.Key
			require.NoError(t, key.Generate())
			system := &domain.PaymentSystem{
				Name:          "visa",
				SystemType:    domain.PaymentSystemVisa,
				DecryptionKey: strings.TrimSpace(key.Encode()),
			}
			require.NoError(t, store.PaymentSystems().Create(context.Background(), system))

			engine := mocks.NewMockAttemptEngine(ctrl)
			payload := []byte(fmt.Sprintf(`{"attempt_id":7,"status":%q}`, tc.status))
			tc.expect(engine.EXPECT(), payload)

			svc := NewWebhookService(store, store.PaymentSystems(), engine, log)
			token, err := fernet.EncryptAndSign(payload, &key)
			require.NoError(t, err)
			require.NoError(t, svc.ProcessVisa(context.Background(), system.ID, token))
		})
	}
}

func TestWebhookService_DispatchErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := memory.NewStore()
	log := logger.NewWithWriter("error", io.Discard)

	var key fernet.Key
	require.NoError(t, key.Generate())
	system := &domain.PaymentSystem{
		Name:          "visa",
		SystemType:    domain.PaymentSystemVisa,
		DecryptionKey: strings.TrimSpace(key.Encode()),
	}
	require.NoError(t, store.PaymentSystems().Create(context.Background(), system))

	boom := errors.New("dispatch failed")
	engine := mocks.NewMockAttemptEngine(ctrl)
	engine.EXPECT().RecordResponse(gomock.Any(), int64(7), gomock.Any()).Return(boom)

	svc := NewWebhookService(store, store.PaymentSystems(), engine, log)
	token, err := fernet.EncryptAndSign([]byte(`{"attempt_id":7,"status":"success"}`), &key)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.ProcessVisa(context.Background(), system.ID, token), boom)
}
