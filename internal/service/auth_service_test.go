package service

import (
	"context"
	"io"
	"testing"

	"billing-core/internal/adapter/storage/memory"
	"billing-core/internal/core/domain"
	"billing-core/pkg/apperror"
	"billing-core/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthServiceImpl, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	log := logger.NewWithWriter("error", io.Discard)
	return NewAuthService(store.Merchants(), store.Staff(), NewBcryptHasher(), log), store
}

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher()

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, h.Verify("s3cret", hash))
	assert.False(t, h.Verify("wrong", hash))
}

func TestAuthService_AuthenticateMerchant(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	merchant, err := svc.RegisterMerchant(ctx, "shop", "hunter2")
	require.NoError(t, err)

	principal, err := svc.Authenticate(ctx, "shop", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, domain.PrincipalMerchant, principal.Kind)
	assert.Equal(t, merchant.ID, principal.ID)
	assert.False(t, principal.IsStaff())
}

func TestAuthService_AuthenticateStaff(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	st, err := svc.RegisterStaff(ctx, "operator", "hunter2")
	require.NoError(t, err)

	principal, err := svc.Authenticate(ctx, "operator", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, domain.PrincipalStaff, principal.Kind)
	assert.Equal(t, st.ID, principal.ID)
	assert.True(t, principal.IsStaff())
}

func TestAuthService_WrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.RegisterMerchant(ctx, "shop", "hunter2")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "shop", "wrong")
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
}

func TestAuthService_UnknownUsername(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.Authenticate(context.Background(), "ghost", "whatever")
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
}

func TestAuthService_UsernameUniqueAcrossTables(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.RegisterMerchant(ctx, "dup", "pw")
	require.NoError(t, err)

	_, err = svc.RegisterMerchant(ctx, "dup", "pw")
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	// A staff account cannot shadow a merchant username either.
	_, err = svc.RegisterStaff(ctx, "dup", "pw")
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}
