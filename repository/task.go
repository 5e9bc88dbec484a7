package repository

import (
	"context"

	"github.com/taskwire/client/domain"
)

// Filter values accepted for the completed dimension.
const (
	FilterAll       = "all"
	FilterCompleted = "completed"
	FilterPending   = "pending"
)

// TaskFilter narrows a task list request. Zero values mean "all".
type TaskFilter struct {
	// Completed is one of "", "all", "completed", "pending".
	Completed string
	// Priority is one of "", "all", "low", "medium", "high".
	Priority string
}

// TaskGateway is the remote task boundary, bearer-token authenticated per call.
type TaskGateway interface {
	List(ctx context.Context, token string, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, token string, draft domain.TaskDraft) (*domain.Task, error)
	Update(ctx context.Context, token string, id int64, patch domain.TaskPatch) (*domain.Task, error)
	// Toggle flips only the completed flag.
	Toggle(ctx context.Context, token string, id int64, completed bool) error
	Delete(ctx context.Context, token string, id int64) error
}
