// Package chat carries the conversational boundary. The dialogue logic lives
// on the server; this client keeps the session id across messages and
// republishes task mutations the service performed on the user's behalf, so
// lists, stats and feeds refresh exactly as for direct mutations.
package chat

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/taskwire/client/api/transport"
	"github.com/taskwire/client/domain"
	"github.com/taskwire/client/pkg/bus"
	"github.com/taskwire/client/repository"
)

// KV is the slice of the local store the chat client persists its session
// identifier in.
type KV interface {
	Set(key, value string) error
	Get(key string) string
}

// Session is the slice of the session manager the chat client reads.
type Session interface {
	Token() string
	User() *domain.User
}

const sessionKey = "chat_session_id"

// Client sends chat messages and reacts to reported task actions.
type Client struct {
	gateway repository.ChatGateway
	store   KV
	session Session
	bus     *bus.Bus
	logger  *zap.Logger
}

// New builds a chat client.
func New(gateway repository.ChatGateway, store KV, sess Session, b *bus.Bus, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		gateway: gateway,
		store:   store,
		session: sess,
		bus:     b,
		logger:  logger,
	}
}

// Send posts message with the persisted conversation id and returns the
// service's reply text. Failures come back as a classified error, never a
// panic or raw transport error.
func (c *Client) Send(ctx context.Context, message string) (string, *domain.Error) {
	token := c.session.Token()
	if token == "" {
		return "", domain.NewError(domain.ErrCodeUnauthorized, "Please log in to use the chatbot.")
	}

	req := transport.ChatRequest{Message: message}
	if id := c.store.Get(sessionKey); id != "" {
		req.SessionID = &id
	}

	resp, err := c.gateway.Send(ctx, token, req)
	if err != nil {
		if c.bus != nil && domain.IsErrorCode(err, domain.ErrCodeUnauthorized) {
			c.bus.Publish(bus.EventTokenExpired, nil)
		}
		var dErr *domain.Error
		if errors.As(err, &dErr) {
			return "", dErr
		}
		return "", domain.WrapError(domain.ErrCodeInternal, domain.MsgRequestFailed, err)
	}

	if resp.SessionID != "" {
		if err := c.store.Set(sessionKey, resp.SessionID); err != nil {
			c.logger.Warn("chat session persist failed", zap.Error(err))
		}
	}

	c.republish(resp)
	return resp.Response, nil
}

// republish fans out the same signals a direct mutation would, so unrelated
// fragments refresh when the conversation changed the task set.
func (c *Client) republish(resp *transport.ChatResponse) {
	if c.bus == nil {
		return
	}
	if resp.TaskID == 0 && !strings.Contains(strings.ToLower(resp.Response), "task") {
		return
	}

	c.bus.Publish(bus.EventTaskUpdated, nil)

	var userID int64
	if user := c.session.User(); user != nil {
		userID = user.ID
	}
	title := resp.TaskTitle
	if title == "" {
		title = "Task"
	}

	event := domain.NewActivityEvent(classify(resp), resp.TaskID, title, userID)
	c.bus.Publish(bus.EventTaskActivity, event)
}

// classify mirrors how the service's free-text replies map onto activity
// kinds when it does not state the action explicitly.
func classify(resp *transport.ChatResponse) domain.ActivityType {
	lower := strings.ToLower(resp.Response)
	switch {
	// Negated phrases first: "not done" contains "done".
	case strings.Contains(lower, "incomplete") || strings.Contains(lower, "not done"):
		return domain.ActivityTaskUncompleted
	case strings.Contains(lower, "completed") || strings.Contains(lower, "done"):
		return domain.ActivityTaskCompleted
	case strings.Contains(lower, "delete") || resp.ResponseType == "task_deleted":
		return domain.ActivityTaskDeleted
	default:
		return domain.ActivityTaskUpdated
	}
}
