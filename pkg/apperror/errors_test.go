package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := NotFound("wallet")
	assert.Equal(t, "[NotFound] wallet not found", e.Error())

	wrapped := Internal(fmt.Errorf("db down"))
	assert.Contains(t, wrapped.Error(), "db down")
	assert.Contains(t, wrapped.Error(), "Internal")
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	e := DecryptionError(inner)
	assert.ErrorIs(t, e, inner)
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("context: %w", Overpay())
	assert.True(t, IsKind(err, KindOverpay))
	assert.False(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindOverpay))
}

func TestHTTPStatuses(t *testing.T) {
	cases := []struct {
		err  *AppError
		want int
	}{
		{NotFound("invoice"), http.StatusNotFound},
		{NoConversion(), http.StatusUnprocessableEntity},
		{Underspecified(), http.StatusBadRequest},
		{Overpay(), http.StatusUnprocessableEntity},
		{InvoiceComplete(), http.StatusBadRequest},
		{NotRefundable(), http.StatusBadRequest},
		{DecryptionError(nil), http.StatusInternalServerError},
		{SerializationConflict(nil), http.StatusConflict},
		{Unauthorized(), http.StatusUnauthorized},
		{Validation("bad field"), http.StatusBadRequest},
		{Internal(nil), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.HTTPStatus, string(tc.err.Kind))
	}
}
