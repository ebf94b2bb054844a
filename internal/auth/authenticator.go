package auth

import "context"

// Authenticator defines the interface for admin authentication implementations.
// This abstraction allows swapping between different auth methods (static
// password, OAuth, etc.) without changing the service layer code.
type Authenticator interface {
	// Authenticate verifies the credentials and returns the admin's username.
	// Returns ErrInvalidCredentials if authentication fails.
	Authenticate(ctx context.Context, username, credential string) (string, error)
}
