package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/wfo-tracker/internal/domain/auth"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// OwnerSubject is the subject of every token; the tracker has a single user.
const OwnerSubject = "owner"

type AuthServiceImpl struct {
	jwtService     jwt.Service
	passphraseHash []byte
}

func NewAuthService(jwtService jwt.Service, passphraseHash string) *AuthServiceImpl {
	return &AuthServiceImpl{
		jwtService:     jwtService,
		passphraseHash: []byte(passphraseHash),
	}
}

// IssueToken implements auth.AuthService.
func (s *AuthServiceImpl) IssueToken(ctx context.Context, req auth.TokenRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword(s.passphraseHash, []byte(req.Passphrase)); err != nil {
		slog.Warn("Token request rejected", "reason", "passphrase mismatch")
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(OwnerSubject)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// IssueSSEToken implements auth.AuthService.
func (s *AuthServiceImpl) IssueSSEToken(ctx context.Context, subject string) (auth.SSETokenResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateSSEToken(subject)
	if err != nil {
		return auth.SSETokenResponse{}, fmt.Errorf("failed to generate SSE token: %w", err)
	}
	return auth.SSETokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}

// Logout implements auth.AuthService.
func (s *AuthServiceImpl) Logout(ctx context.Context, token string, expiresAt int64) error {
	if token == "" {
		return auth.ErrInvalidToken
	}
	s.jwtService.RevokeToken(token, expiresAt)
	return nil
}
