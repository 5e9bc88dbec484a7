package repository

import (
	"context"

	"github.com/taskwire/client/domain"
)

// ActivityGateway reads the server-side activity log used to seed feeds.
type ActivityGateway interface {
	// Recent returns the newest activity records for the token's user.
	Recent(ctx context.Context, token string) ([]domain.ActivityEvent, error)
}
