package auth

import "context"

type AuthService interface {
	// IssueToken checks the passphrase and returns an access token.
	IssueToken(ctx context.Context, req TokenRequest) (TokenResponse, error)
	// IssueSSEToken returns a short-lived token for the notification stream.
	IssueSSEToken(ctx context.Context, subject string) (SSETokenResponse, error)
	// Logout revokes token until it expires.
	Logout(ctx context.Context, token string, expiresAt int64) error
}
