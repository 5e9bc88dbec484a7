package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/taskwire/client/domain"
	"github.com/taskwire/client/internal/localstore"
	"github.com/taskwire/client/pkg/bus"
	"github.com/taskwire/client/repository"
)

// UserSource supplies the token and the resolved user the feed is keyed by.
type UserSource interface {
	Token() string
	User() *domain.User
}

// ActivityLog is the slice of the local store the feed persists into.
type ActivityLog interface {
	AppendActivity(userID int64, event domain.ActivityEvent) error
	RecentActivities(userID int64) ([]domain.ActivityEvent, error)
	ReplaceActivities(userID int64, events []domain.ActivityEvent) error
}

// ActivityFeed is the recent-activity fragment. Every task-activity event
// published anywhere in the process lands here; the feed keeps a bounded
// newest-first list and persists it per user so it survives restarts.
type ActivityFeed struct {
	log     ActivityLog
	gateway repository.ActivityGateway
	session UserSource
	logger  *zap.Logger

	mu     sync.RWMutex
	events []domain.ActivityEvent

	unsubscribe func()
}

// NewActivityFeed wires the feed to the bus.
func NewActivityFeed(log ActivityLog, gateway repository.ActivityGateway, sess UserSource, b *bus.Bus, logger *zap.Logger) *ActivityFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &ActivityFeed{
		log:     log,
		gateway: gateway,
		session: sess,
		logger:  logger,
	}
	if b != nil {
		f.unsubscribe = b.Subscribe(bus.EventTaskActivity, func(payload interface{}) {
			event, ok := payload.(domain.ActivityEvent)
			if !ok {
				return
			}
			f.append(event)
		})
	}
	return f
}

// Seed loads the feed from local persistence and then, when the server-side
// log is reachable, replaces it with the authoritative recent records.
func (f *ActivityFeed) Seed(ctx context.Context) {
	user := f.session.User()
	if user == nil {
		return
	}

	if stored, err := f.log.RecentActivities(user.ID); err == nil && len(stored) > 0 {
		f.mu.Lock()
		f.events = stored
		f.mu.Unlock()
	}

	if f.gateway == nil {
		return
	}
	token := f.session.Token()
	if token == "" {
		return
	}
	remote, err := f.gateway.Recent(ctx, token)
	if err != nil {
		f.logger.Warn("activity seed fetch failed", zap.Error(err))
		return
	}

	f.mu.Lock()
	f.events = remote
	f.mu.Unlock()
	if err := f.log.ReplaceActivities(user.ID, remote); err != nil {
		f.logger.Warn("activity persist failed", zap.Error(err))
	}
}

// Recent returns the feed contents, newest first.
func (f *ActivityFeed) Recent() []domain.ActivityEvent {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]domain.ActivityEvent, len(f.events))
	copy(out, f.events)
	return out
}

// Close releases the bus subscription.
func (f *ActivityFeed) Close() {
	if f.unsubscribe != nil {
		f.unsubscribe()
		f.unsubscribe = nil
	}
}

func (f *ActivityFeed) append(event domain.ActivityEvent) {
	f.mu.Lock()
	f.events = append([]domain.ActivityEvent{event}, f.events...)
	if len(f.events) > localstore.MaxActivities {
		f.events = f.events[:localstore.MaxActivities]
	}
	f.mu.Unlock()

	user := f.session.User()
	if user == nil {
		return
	}
	if err := f.log.AppendActivity(user.ID, event); err != nil {
		f.logger.Warn("activity persist failed", zap.Error(err))
	}
}
