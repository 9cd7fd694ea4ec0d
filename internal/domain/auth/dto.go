package auth

import "github.com/cmlabs-hris/wfo-tracker/internal/pkg/validator"

// TokenRequest exchanges the owner's passphrase for an access token.
type TokenRequest struct {
	Passphrase string `json:"passphrase"`
}

func (r *TokenRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Passphrase) {
		errs = append(errs, validator.ValidationError{
			Field:   "passphrase",
			Message: "passphrase is required",
		})
	}
	if len(r.Passphrase) > 72 {
		errs = append(errs, validator.ValidationError{
			Field:   "passphrase",
			Message: "passphrase must not exceed 72 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
