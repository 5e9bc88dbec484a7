package rest

import (
	"context"
	"strconv"

	"github.com/taskwire/client/domain"
	"github.com/taskwire/client/repository"
)

// activityRecord mirrors the snake_case rows of GET /activities/recent.
type activityRecord struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Action    string `json:"action"`
	TaskID    int64  `json:"task_id"`
	TaskTitle string `json:"task_title"`
	CreatedAt string `json:"created_at"`
}

// ActivityGateway implements repository.ActivityGateway over the request wrapper.
type ActivityGateway struct {
	client *Client
}

func NewActivityGateway(client *Client) *ActivityGateway {
	return &ActivityGateway{client: client}
}

func (g *ActivityGateway) Recent(ctx context.Context, token string) ([]domain.ActivityEvent, error) {
	res := g.client.Get(ctx, "/activities/recent", token)
	if !res.Success {
		return nil, asError(res)
	}

	records := []activityRecord{}
	if err := res.Decode(&records); err != nil {
		return nil, domain.WrapError(domain.ErrCodeRemote, domain.MsgRequestFailed, err)
	}

	events := make([]domain.ActivityEvent, 0, len(records))
	for _, rec := range records {
		event := domain.NewActivityEvent(domain.ActivityType(rec.Action), rec.TaskID, rec.TaskTitle, rec.UserID)
		// Server rows keep their own identity and time; only the message
		// and shape come from the event constructor.
		event.ID = strconv.FormatInt(rec.ID, 10)
		event.Timestamp = rec.CreatedAt
		events = append(events, event)
	}
	return events, nil
}

var _ repository.ActivityGateway = (*ActivityGateway)(nil)
