// Package auth provides password authentication and JWT session tokens.
package auth

import (
	"context"

	"github.com/tally-app/tally/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// Keeping the service layer behind this interface allows swapping in
// other auth methods (OAuth, passkeys) without touching the services.
type Authenticator interface {
	// Register creates a new user account with the given credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credentials and returns the user.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}
