package service

import (
	"context"
	"fmt"

	"billing-core/internal/core/domain"
	"billing-core/internal/core/ports"
	"billing-core/pkg/apperror"

	"github.com/rs/zerolog"
)

// AuthServiceImpl implements ports.AuthService and ports.AccountService.
// Merchants and staff live in disjoint tables; authentication resolves the
// username against merchants first, then staff.
type AuthServiceImpl struct {
	merchants ports.MerchantRepository
	staff     ports.StaffRepository
	hasher    ports.PasswordHasher
	log       zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	merchants ports.MerchantRepository,
	staff ports.StaffRepository,
	hasher ports.PasswordHasher,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		merchants: merchants,
		staff:     staff,
		hasher:    hasher,
		log:       log,
	}
}

// Authenticate implements ports.AuthService. It always returns the generic
// Unauthorized error so callers cannot probe which usernames exist.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, username, password string) (*domain.Principal, error) {
	merchant, err := s.merchants.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("find merchant: %w", err))
	}
	if merchant != nil {
		if !s.hasher.Verify(password, merchant.PasswordHash) {
			return nil, apperror.Unauthorized()
		}
		return &domain.Principal{
			Kind:     domain.PrincipalMerchant,
			ID:       merchant.ID,
			Username: merchant.Username,
		}, nil
	}

	st, err := s.staff.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("find staff: %w", err))
	}
	if st != nil {
		if !s.hasher.Verify(password, st.PasswordHash) {
			return nil, apperror.Unauthorized()
		}
		return &domain.Principal{
			Kind:     domain.PrincipalStaff,
			ID:       st.ID,
			Username: st.Username,
		}, nil
	}

	return nil, apperror.Unauthorized()
}

// RegisterMerchant implements ports.AccountService.
func (s *AuthServiceImpl) RegisterMerchant(ctx context.Context, username, password string) (*domain.Merchant, error) {
	if err := s.checkUsernameFree(ctx, username); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	merchant := &domain.Merchant{Username: username, PasswordHash: hash}
	if err := s.merchants.Create(ctx, merchant); err != nil {
		return nil, apperror.Internal(fmt.Errorf("create merchant: %w", err))
	}

	s.log.Info().Int64("merchant_id", merchant.ID).Str("username", username).Msg("merchant registered")
	return merchant, nil
}

// RegisterStaff implements ports.AccountService.
func (s *AuthServiceImpl) RegisterStaff(ctx context.Context, username, password string) (*domain.Staff, error) {
	if err := s.checkUsernameFree(ctx, username); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	st := &domain.Staff{Username: username, PasswordHash: hash}
	if err := s.staff.Create(ctx, st); err != nil {
		return nil, apperror.Internal(fmt.Errorf("create staff: %w", err))
	}

	s.log.Info().Int64("staff_id", st.ID).Str("username", username).Msg("staff registered")
	return st, nil
}

// checkUsernameFree enforces uniqueness across both principal tables; a
// merchant and a staff member sharing a username would make basic-auth
// resolution ambiguous.
func (s *AuthServiceImpl) checkUsernameFree(ctx context.Context, username string) error {
	merchant, err := s.merchants.GetByUsername(ctx, username)
	if err != nil {
		return apperror.Internal(err)
	}
	if merchant != nil {
		return apperror.Conflict("username already exists")
	}
	st, err := s.staff.GetByUsername(ctx, username)
	if err != nil {
		return apperror.Internal(err)
	}
	if st != nil {
		return apperror.Conflict("username already exists")
	}
	return nil
}
