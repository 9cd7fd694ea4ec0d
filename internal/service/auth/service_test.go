package auth

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/wfo-tracker/internal/domain/auth"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-for-jwt"

func newTestAuthService(t *testing.T, passphrase string) (*AuthServiceImpl, jwt.Service) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.MinCost)
	require.NoError(t, err)

	jwtService := jwt.NewJWTService(testSecret, time.Hour)
	return NewAuthService(jwtService, string(hash)), jwtService
}

func TestAuthService_IssueToken_Success(t *testing.T) {
	svc, _ := newTestAuthService(t, "correct horse")

	resp, err := svc.IssueToken(context.Background(), auth.TokenRequest{Passphrase: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Greater(t, resp.ExpiresAt, time.Now().Unix())
}

func TestAuthService_IssueToken_WrongPassphrase(t *testing.T) {
	svc, _ := newTestAuthService(t, "correct horse")

	_, err := svc.IssueToken(context.Background(), auth.TokenRequest{Passphrase: "battery staple"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_IssueToken_EmptyPassphrase(t *testing.T) {
	svc, _ := newTestAuthService(t, "correct horse")

	_, err := svc.IssueToken(context.Background(), auth.TokenRequest{})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_SSETokenAndLogout(t *testing.T) {
	svc, jwtService := newTestAuthService(t, "correct horse")

	sse, err := svc.IssueSSEToken(context.Background(), OwnerSubject)
	require.NoError(t, err)
	subject, err := jwtService.ValidateSSEToken(sse.Token)
	require.NoError(t, err)
	assert.Equal(t, OwnerSubject, subject)

	resp, err := svc.IssueToken(context.Background(), auth.TokenRequest{Passphrase: "correct horse"})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(context.Background(), resp.AccessToken, resp.ExpiresAt))
	assert.True(t, jwtService.IsTokenRevoked(resp.AccessToken))

	assert.ErrorIs(t, svc.Logout(context.Background(), "", 0), auth.ErrInvalidToken)
}
