package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/appeal-router/internal/auth"
	"github.com/spec-kit/appeal-router/internal/config"
	"github.com/spec-kit/appeal-router/internal/domain"
	"github.com/spec-kit/appeal-router/internal/repository"
	apperrors "github.com/spec-kit/appeal-router/pkg/util"
)

// AuthService coordinates operator login.
type AuthService struct {
	operators  repository.OperatorRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	bootstrap  config.AuthConfig
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, operators repository.OperatorRepository) *AuthService {
	return &AuthService{
		operators:  operators,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		bootstrap:  cfg.Auth,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login authenticates an operator and returns a role-bearing token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Operator, string, time.Time, error) {
	operator, err := s.operators.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if !operator.IsActive {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("operator deactivated")
	}
	if operator.PasswordHash == nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(*operator.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(operator.ID, operator.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return operator, token, exp, nil
}

// EnsureBootstrapAdmin creates the configured admin account when it does not
// exist yet. A missing configuration is not an error.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, logger *zap.Logger) error {
	if s.bootstrap.BootstrapAdminEmail == "" || s.bootstrap.BootstrapAdminPassword == "" {
		return nil
	}
	if _, err := s.operators.GetByEmail(ctx, s.bootstrap.BootstrapAdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(s.bootstrap.BootstrapAdminPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	email := s.bootstrap.BootstrapAdminEmail
	admin := &domain.Operator{
		Name:         s.bootstrap.BootstrapAdminName,
		Email:        &email,
		PasswordHash: &hash,
		Role:         domain.OperatorRoleAdmin,
		IsActive:     true,
		MaxLoad:      defaultMaxLoad,
	}
	if err := s.operators.Create(ctx, admin); err != nil {
		return err
	}
	logger.Info("bootstrap admin created", zap.String("email", email))
	return nil
}
