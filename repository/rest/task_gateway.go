package rest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/taskwire/client/api/transport"
	"github.com/taskwire/client/domain"
	"github.com/taskwire/client/repository"
)

// TaskGateway implements repository.TaskGateway over the request wrapper.
type TaskGateway struct {
	client *Client
}

func NewTaskGateway(client *Client) *TaskGateway {
	return &TaskGateway{client: client}
}

func (g *TaskGateway) List(ctx context.Context, token string, filter repository.TaskFilter) ([]domain.Task, error) {
	res := g.client.Get(ctx, "/tasks"+encodeFilter(filter), token)
	if !res.Success {
		return nil, asError(res)
	}

	tasks := []domain.Task{}
	if err := res.Decode(&tasks); err != nil {
		return nil, domain.WrapError(domain.ErrCodeRemote, domain.MsgRequestFailed, err)
	}
	return tasks, nil
}

func (g *TaskGateway) Create(ctx context.Context, token string, draft domain.TaskDraft) (*domain.Task, error) {
	res := g.client.Post(ctx, "/tasks", draft, token)
	if !res.Success {
		return nil, asError(res)
	}

	var task domain.Task
	if err := res.Decode(&task); err != nil {
		return nil, domain.WrapError(domain.ErrCodeRemote, domain.MsgRequestFailed, err)
	}
	return &task, nil
}

func (g *TaskGateway) Update(ctx context.Context, token string, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	res := g.client.Put(ctx, fmt.Sprintf("/tasks/%d", id), patch, token)
	if !res.Success {
		return nil, asError(res)
	}

	var task domain.Task
	if err := res.Decode(&task); err != nil {
		return nil, domain.WrapError(domain.ErrCodeRemote, domain.MsgRequestFailed, err)
	}
	return &task, nil
}

func (g *TaskGateway) Toggle(ctx context.Context, token string, id int64, completed bool) error {
	res := g.client.Put(ctx, fmt.Sprintf("/tasks/%d", id), transport.ToggleRequest{
		Completed: completed,
	}, token)
	if !res.Success {
		return asError(res)
	}
	return nil
}

func (g *TaskGateway) Delete(ctx context.Context, token string, id int64) error {
	res := g.client.Delete(ctx, fmt.Sprintf("/tasks/%d", id), token)
	if !res.Success {
		return asError(res)
	}
	return nil
}

// encodeFilter maps the UI filter values onto the exact query contract:
// "completed" -> completed=true, "pending" -> completed=false, "all" omits
// the parameter; priority passes through unless it is "all".
func encodeFilter(filter repository.TaskFilter) string {
	params := url.Values{}
	switch filter.Completed {
	case repository.FilterCompleted:
		params.Set("completed", "true")
	case repository.FilterPending:
		params.Set("completed", "false")
	}
	if filter.Priority != "" && filter.Priority != repository.FilterAll {
		params.Set("priority", filter.Priority)
	}
	if encoded := params.Encode(); encoded != "" {
		return "?" + encoded
	}
	return ""
}

var _ repository.TaskGateway = (*TaskGateway)(nil)
