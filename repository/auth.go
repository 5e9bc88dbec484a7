package repository

import (
	"context"

	"github.com/taskwire/client/domain"
)

// AuthGateway is the remote authentication boundary. Implementations return
// classified *domain.Error values; they never panic and never leak raw
// transport errors.
type AuthGateway interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, email, password string) (string, error)
	// Register creates an account. The returned error carries the remote
	// detail message verbatim when the boundary rejected the request.
	Register(ctx context.Context, email, name, password string) error
	// CurrentUser resolves the identity the token belongs to.
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}
