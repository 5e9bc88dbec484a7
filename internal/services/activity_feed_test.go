package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/taskwire/client/domain"
	"github.com/taskwire/client/internal/localstore"
	"github.com/taskwire/client/pkg/bus"
)

type memActivityLog struct {
	byUser  map[int64][]domain.ActivityEvent
	appends int
}

func newMemActivityLog() *memActivityLog {
	return &memActivityLog{byUser: make(map[int64][]domain.ActivityEvent)}
}

func (l *memActivityLog) AppendActivity(userID int64, event domain.ActivityEvent) error {
	l.appends++
	list := append([]domain.ActivityEvent{event}, l.byUser[userID]...)
	if len(list) > localstore.MaxActivities {
		list = list[:localstore.MaxActivities]
	}
	l.byUser[userID] = list
	return nil
}

func (l *memActivityLog) RecentActivities(userID int64) ([]domain.ActivityEvent, error) {
	return l.byUser[userID], nil
}

func (l *memActivityLog) ReplaceActivities(userID int64, events []domain.ActivityEvent) error {
	l.byUser[userID] = events
	return nil
}

type mockActivityGateway struct {
	recentFn func(ctx context.Context, token string) ([]domain.ActivityEvent, error)
}

func (m *mockActivityGateway) Recent(ctx context.Context, token string) ([]domain.ActivityEvent, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, token)
	}
	return nil, nil
}

func TestFeedCollectsPublishedActivity(t *testing.T) {
	log := newMemActivityLog()
	events := bus.New(nil)
	sess := &staticSession{token: "T", user: &domain.User{ID: 9}}
	f := NewActivityFeed(log, nil, sess, events, nil)
	defer f.Close()

	first := domain.NewActivityEvent(domain.ActivityTaskCreated, 1, "A", 9)
	second := domain.NewActivityEvent(domain.ActivityTaskCompleted, 1, "A", 9)
	events.Publish(bus.EventTaskActivity, first)
	events.Publish(bus.EventTaskActivity, second)

	got := f.Recent()
	if len(got) != 2 {
		t.Fatalf("feed length = %d, want 2", len(got))
	}
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatal("feed must be newest first")
	}
	if log.appends != 2 {
		t.Fatalf("persisted %d events, want 2", log.appends)
	}
}

func TestFeedIsBounded(t *testing.T) {
	log := newMemActivityLog()
	events := bus.New(nil)
	f := NewActivityFeed(log, nil, &staticSession{token: "T", user: &domain.User{ID: 9}}, events, nil)
	defer f.Close()

	for i := 0; i < localstore.MaxActivities+5; i++ {
		events.Publish(bus.EventTaskActivity,
			domain.NewActivityEvent(domain.ActivityTaskCreated, int64(i), fmt.Sprintf("t%d", i), 9))
	}

	if got := f.Recent(); len(got) != localstore.MaxActivities {
		t.Fatalf("feed length = %d, want %d", len(got), localstore.MaxActivities)
	}
}

func TestSeedPrefersRemoteOverLocal(t *testing.T) {
	log := newMemActivityLog()
	local := domain.NewActivityEvent(domain.ActivityTaskCreated, 1, "Local", 9)
	if err := log.AppendActivity(9, local); err != nil {
		t.Fatal(err)
	}

	remote := domain.NewActivityEvent(domain.ActivityTaskDeleted, 2, "Remote", 9)
	gw := &mockActivityGateway{
		recentFn: func(context.Context, string) ([]domain.ActivityEvent, error) {
			return []domain.ActivityEvent{remote}, nil
		},
	}

	f := NewActivityFeed(log, gw, &staticSession{token: "T", user: &domain.User{ID: 9}}, nil, nil)
	f.Seed(context.Background())

	got := f.Recent()
	if len(got) != 1 || got[0].ID != remote.ID {
		t.Fatalf("feed = %+v, want the remote records", got)
	}
	stored, _ := log.RecentActivities(9)
	if len(stored) != 1 || stored[0].ID != remote.ID {
		t.Fatal("remote records must replace the persisted copy")
	}
}

func TestSeedFallsBackToLocalOnRemoteFailure(t *testing.T) {
	log := newMemActivityLog()
	local := domain.NewActivityEvent(domain.ActivityTaskCreated, 1, "Local", 9)
	if err := log.AppendActivity(9, local); err != nil {
		t.Fatal(err)
	}

	gw := &mockActivityGateway{
		recentFn: func(context.Context, string) ([]domain.ActivityEvent, error) {
			return nil, domain.NewError(domain.ErrCodeNetwork, domain.MsgNetworkError)
		},
	}

	f := NewActivityFeed(log, gw, &staticSession{token: "T", user: &domain.User{ID: 9}}, nil, nil)
	f.Seed(context.Background())

	got := f.Recent()
	if len(got) != 1 || got[0].ID != local.ID {
		t.Fatalf("feed = %+v, want the locally persisted records", got)
	}
}

func TestSeedWithoutUserIsNoop(t *testing.T) {
	called := false
	gw := &mockActivityGateway{
		recentFn: func(context.Context, string) ([]domain.ActivityEvent, error) {
			called = true
			return nil, nil
		},
	}
	f := NewActivityFeed(newMemActivityLog(), gw, &staticSession{token: "T"}, nil, nil)

	f.Seed(context.Background())

	if called {
		t.Fatal("no fetch may happen without a resolved user")
	}
	if len(f.Recent()) != 0 {
		t.Fatal("feed must stay empty")
	}
}
