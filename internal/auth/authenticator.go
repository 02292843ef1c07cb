// Package auth handles user credentials and session tokens.
package auth

import (
	"context"

	"github.com/mmynk/eventsplit/internal/models"
)

// Authenticator registers and signs in event participants.
// Password login is the only implementation today; the interface keeps the
// service layer free of credential details.
type Authenticator interface {
	// Register creates an account. Emails are matched case-insensitively.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user owning email if credential matches.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}
