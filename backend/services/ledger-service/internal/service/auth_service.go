package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"parkledger/backend/services/ledger-service/internal/password"
)

// AdminCredentials is the configured operator account.
type AdminCredentials struct {
	Username     string
	PasswordHash string
}

// AuthService checks admin logins.
type AuthService struct {
	admin     AdminCredentials
	hasher    password.Hasher
	tokenizer *TokenService
	logger    *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(admin AdminCredentials, hasher password.Hasher, tokenizer *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		admin:     admin,
		hasher:    hasher,
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// Login authenticates the admin and produces a JWT.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || s.admin.PasswordHash == "" {
		return "", ErrUnauthorized
	}
	if !strings.EqualFold(username, s.admin.Username) {
		s.logger.Warn("login rejected", zap.String("username", username))
		return "", ErrUnauthorized
	}
	if err := s.hasher.Compare(s.admin.PasswordHash, password); err != nil {
		s.logger.Warn("login rejected", zap.String("username", username))
		return "", ErrUnauthorized
	}

	token, err := s.tokenizer.GenerateToken(s.admin.Username, RoleAdmin)
	if err != nil {
		return "", err
	}
	s.logger.Info("admin logged in", zap.String("username", s.admin.Username))
	return token, nil
}
