package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"billing-core/internal/core/domain"
	"billing-core/internal/core/ports"
	"billing-core/pkg/apperror"

	"github.com/fernet/fernet-go"
	"github.com/rs/zerolog"
)

// visaCallback is the decrypted webhook payload.
type visaCallback struct {
	AttemptID int64  `json:"attempt_id"`
	Status    string `json:"status"`
}

// WebhookServiceImpl implements ports.WebhookIngestor.
type WebhookServiceImpl struct {
	store          ports.Store
	paymentSystems ports.PaymentSystemRepository
	attempts       ports.AttemptEngine
	log            zerolog.Logger
}

// NewWebhookService creates a new WebhookServiceImpl.
func NewWebhookService(
	store ports.Store,
	paymentSystems ports.PaymentSystemRepository,
	attempts ports.AttemptEngine,
	log zerolog.Logger,
) *WebhookServiceImpl {
	return &WebhookServiceImpl{
		store:          store,
		paymentSystems: paymentSystems,
		attempts:       attempts,
		log:            log,
	}
}

// ProcessVisa implements ports.WebhookIngestor. The ciphertext doubles as
// authentication: only a holder of the system key can produce a token that
// verifies. The plaintext is never logged.
func (s *WebhookServiceImpl) ProcessVisa(ctx context.Context, paymentSystemID int64, ciphertext []byte) error {
	system, err := s.paymentSystems.GetByIDAndType(ctx, paymentSystemID, domain.PaymentSystemVisa)
	if err != nil {
		return apperror.Internal(err)
	}
	if system == nil {
		return apperror.NotFound("payment system")
	}

	plaintext, err := decryptToken(system.DecryptionKey, ciphertext)
	if err != nil {
		s.log.Warn().Err(err).Int64("payment_system_id", system.ID).Msg("webhook rejected")
		return apperror.DecryptionError(err)
	}

	var cb visaCallback
	if err := json.Unmarshal(plaintext, &cb); err != nil {
		return apperror.Internal(fmt.Errorf("decode webhook payload: %w", err))
	}

	// One scope covers the response write and the attempt transition, so a
	// failed dispatch does not leave a recorded response behind.
	return s.store.WithinScope(ctx, func(ctx context.Context) error {
		if err := s.attempts.RecordResponse(ctx, cb.AttemptID, plaintext); err != nil {
			return err
		}
		switch cb.Status {
		case "success":
			return s.attempts.Success(ctx, cb.AttemptID)
		case "fail":
			return s.attempts.Fail(ctx, cb.AttemptID)
		case "error":
			return s.attempts.Error(ctx, cb.AttemptID)
		default:
			return apperror.Internal(fmt.Errorf("unknown webhook status %q", cb.Status))
		}
	})
}

// decryptToken verifies the Fernet token against every configured key.
// Comma-separated keys support rotation: new tokens are minted with the first
// key while old ones still verify.
func decryptToken(keySpec string, ciphertext []byte) ([]byte, error) {
	keys, err := fernet.DecodeKeys(strings.Split(keySpec, ",")...)
	if err != nil {
		return nil, fmt.Errorf("decode keys: %w", err)
	}
	// Negative TTL disables expiry; replay is prevented by the pending filter
	// on the attempt instead.
	plaintext := fernet.VerifyAndDecrypt(ciphertext, -1, keys)
	if plaintext == nil {
		return nil, errors.New("token verification failed")
	}
	return plaintext, nil
}
