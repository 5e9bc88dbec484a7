package localstore

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/taskwire/client/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "client.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenStore(openTestStore(t))

	if got := tokens.Get(); got != "" {
		t.Fatalf("fresh store token = %q, want empty", got)
	}

	if err := tokens.Set("T"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := tokens.Get(); got != "T" {
		t.Fatalf("token = %q, want T", got)
	}

	if err := tokens.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := tokens.Get(); got != "" {
		t.Fatalf("token after clear = %q, want empty", got)
	}

	// Clearing again is idempotent.
	if err := tokens.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestTokenSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := NewTokenStore(store).Set("persisted"); err != nil {
		t.Fatalf("set: %v", err)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	if got := NewTokenStore(store).Get(); got != "persisted" {
		t.Fatalf("token after reopen = %q, want persisted", got)
	}
}

func TestChatSessionKey(t *testing.T) {
	store := openTestStore(t)

	if err := store.Set(KeyChatSession, "sess-1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := store.Get(KeyChatSession); got != "sess-1" {
		t.Fatalf("chat session = %q, want sess-1", got)
	}
}

func TestActivityLogNewestFirstAndBounded(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < MaxActivities+5; i++ {
		event := domain.NewActivityEvent(domain.ActivityTaskCreated, int64(i), fmt.Sprintf("Task %d", i), 7)
		if err := store.AppendActivity(7, event); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events, err := store.RecentActivities(7)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != MaxActivities {
		t.Fatalf("len = %d, want %d", len(events), MaxActivities)
	}
	if events[0].TaskID != int64(MaxActivities+4) {
		t.Errorf("first event task id = %d, want newest %d", events[0].TaskID, MaxActivities+4)
	}
}

func TestActivityLogIsPerUser(t *testing.T) {
	store := openTestStore(t)

	if err := store.AppendActivity(1, domain.NewActivityEvent(domain.ActivityTaskCreated, 10, "Mine", 1)); err != nil {
		t.Fatalf("append: %v", err)
	}

	other, err := store.RecentActivities(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("user 2 log has %d events, want 0", len(other))
	}
}

func TestReplaceActivities(t *testing.T) {
	store := openTestStore(t)

	if err := store.AppendActivity(3, domain.NewActivityEvent(domain.ActivityTaskCreated, 1, "Old", 3)); err != nil {
		t.Fatalf("append: %v", err)
	}

	seed := []domain.ActivityEvent{
		domain.NewActivityEvent(domain.ActivityTaskCompleted, 2, "New", 3),
	}
	if err := store.ReplaceActivities(3, seed); err != nil {
		t.Fatalf("replace: %v", err)
	}

	events, err := store.RecentActivities(3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 1 || events[0].TaskTitle != "New" {
		t.Fatalf("events = %+v, want the single seeded record", events)
	}
}
