// Package identity abstracts the external identity provider: Cognito in
// production, an in-process provider for development and tests.
package identity

import (
	"context"
	"time"
)

// Session is the result of a successful sign-in.
type Session struct {
	Username    string    `json:"username"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Provider authenticates users. Registration requires a separate
// email-verification-code confirmation before sign-in can succeed.
type Provider interface {
	SignUp(ctx context.Context, username, email, password string) error
	ConfirmSignUp(ctx context.Context, username, code string) error
	SignIn(ctx context.Context, username, password string) (*Session, error)

	// Authenticate resolves an access token to the owning username.
	Authenticate(ctx context.Context, accessToken string) (string, error)
}
