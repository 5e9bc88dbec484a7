// Package tasks holds the authoritative local copy of the task list for the
// current session, applies optimistic mutations and publishes one activity
// event per confirmed mutation.
package tasks

import (
	"context"
	"errors"
	"sync"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/taskwire/client/domain"
	"github.com/taskwire/client/pkg/bus"
	"github.com/taskwire/client/repository"
)

// State is the list view's lifecycle phase.
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

// Session is the narrow slice of the session manager the collection needs.
type Session interface {
	Token() string
	User() *domain.User
}

// Manager owns the local task collection. All public operations return
// classified errors instead of panicking; remote failures are never retried.
type Manager struct {
	gateway repository.TaskGateway
	session Session
	bus     *bus.Bus
	logger  *zap.Logger

	mu       sync.Mutex
	state    State
	tasks    []domain.Task
	filter   repository.TaskFilter
	lastErr  string
	fetchGen uint64
	inflight map[int64]bool
	closed   bool
}

// New builds a collection manager for the current session.
func New(gateway repository.TaskGateway, sess Session, b *bus.Bus, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		gateway:  gateway,
		session:  sess,
		bus:      b,
		logger:   logger,
		inflight: make(map[int64]bool),
	}
}

// Fetch loads the filtered task list, replacing the local collection with
// the response in server order. Without a session token it is a no-op: no
// request is issued. A late response for a superseded fetch is discarded.
func (m *Manager) Fetch(ctx context.Context, filter repository.TaskFilter) {
	token := m.session.Token()
	if token == "" {
		return
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.state = StateLoading
	m.lastErr = ""
	m.filter = filter
	m.fetchGen++
	gen := m.fetchGen
	m.mu.Unlock()

	list, err := m.gateway.List(ctx, token, filter)

	m.mu.Lock()
	if m.closed || gen != m.fetchGen {
		m.mu.Unlock()
		return
	}
	if err != nil {
		m.state = StateError
		m.lastErr = errorMessage(err)
		m.mu.Unlock()
		m.signalUnauthorized(err)
		return
	}
	m.state = StateReady
	m.tasks = list
	m.mu.Unlock()
}

// Create validates the draft locally, then submits it. On success the new
// task is prepended to the collection (no refetch) and a task_created
// activity plus task-updated are published.
func (m *Manager) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, *domain.Error) {
	if err := domain.ValidateTitle(draft.Title); err != nil {
		return nil, err
	}
	if err := domain.ValidateDescription(draft.Description); err != nil {
		return nil, err
	}

	token := m.session.Token()
	if token == "" {
		return nil, domain.NewError(domain.ErrCodeUnauthorized, "You must be logged in to create a task")
	}
	if draft.Priority == "" {
		draft.Priority = domain.PriorityMedium
	}

	created, err := m.gateway.Create(ctx, token, draft)
	if err != nil {
		m.signalUnauthorized(err)
		return nil, asDomain(err, "Failed to create task")
	}

	m.mu.Lock()
	if !m.closed {
		m.tasks = append([]domain.Task{*created}, m.tasks...)
	}
	m.mu.Unlock()

	m.publishActivity(domain.NewActivityEvent(domain.ActivityTaskCreated, created.ID, created.Title, created.UserID))
	return created, nil
}

// ToggleComplete submits the inverse of the task's current completed flag.
// While a toggle for the task is outstanding further toggles are ignored,
// modeling the disabled control. Success publishes the matching activity and
// refetches the list with the current filter.
func (m *Manager) ToggleComplete(ctx context.Context, taskID int64) *domain.Error {
	token := m.session.Token()
	if token == "" {
		return nil
	}

	m.mu.Lock()
	task, ok := m.find(taskID)
	if !ok || m.inflight[taskID] {
		m.mu.Unlock()
		return nil
	}
	m.inflight[taskID] = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.inflight, taskID)
		m.mu.Unlock()
	}()

	target := !task.Completed
	if err := m.gateway.Toggle(ctx, token, taskID, target); err != nil {
		m.signalUnauthorized(err)
		return asDomain(err, "Failed to update task")
	}

	kind := domain.ActivityTaskUncompleted
	if target {
		kind = domain.ActivityTaskCompleted
	}
	m.publishActivity(domain.NewActivityEvent(kind, task.ID, task.Title, task.UserID))

	m.refetch(ctx)
	return nil
}

// Update validates like Create, capitalizes the first character of the
// submitted title, and refetches on success. The published activity carries
// the title as the user edited it.
func (m *Manager) Update(ctx context.Context, taskID int64, patch domain.TaskPatch) *domain.Error {
	if err := domain.ValidateTitle(patch.Title); err != nil {
		return err
	}
	if err := domain.ValidateDescription(patch.Description); err != nil {
		return err
	}

	token := m.session.Token()
	if token == "" {
		return domain.NewError(domain.ErrCodeUnauthorized, "You must be logged in to update a task")
	}

	m.mu.Lock()
	task, ok := m.find(taskID)
	m.mu.Unlock()
	if !ok {
		return domain.NewError(domain.ErrCodeValidation, "Task not found")
	}

	editedTitle := patch.Title
	patch.Title = capitalizeFirst(patch.Title)
	patch.Completed = task.Completed

	if _, err := m.gateway.Update(ctx, token, taskID, patch); err != nil {
		m.signalUnauthorized(err)
		return asDomain(err, "Failed to update task")
	}

	m.publishActivity(domain.NewActivityEvent(domain.ActivityTaskUpdated, task.ID, editedTitle, task.UserID))

	m.refetch(ctx)
	return nil
}

// Delete removes the task on the server and then optimistically drops it
// from the local collection without a refetch. Reached through the
// delete-confirmation coordinator.
func (m *Manager) Delete(ctx context.Context, taskID int64) *domain.Error {
	token := m.session.Token()
	if token == "" {
		return nil
	}

	m.mu.Lock()
	task, ok := m.find(taskID)
	m.mu.Unlock()
	if !ok {
		return nil
	}

	if err := m.gateway.Delete(ctx, token, taskID); err != nil {
		m.signalUnauthorized(err)
		return asDomain(err, "Failed to delete task")
	}

	m.mu.Lock()
	if !m.closed {
		kept := m.tasks[:0:0]
		for _, t := range m.tasks {
			if t.ID != taskID {
				kept = append(kept, t)
			}
		}
		m.tasks = kept
	}
	m.mu.Unlock()

	m.publishActivity(domain.NewActivityEvent(domain.ActivityTaskDeleted, task.ID, task.Title, task.UserID))
	return nil
}

// State returns the list view phase.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Tasks returns a copy of the local collection in display order.
func (m *Manager) Tasks() []domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// LastError returns the message of the last failed fetch, "" when none.
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Close marks the owning view as torn down: late responses no longer apply
// and further operations are no-ops.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

func (m *Manager) refetch(ctx context.Context) {
	m.mu.Lock()
	filter := m.filter
	m.mu.Unlock()
	m.Fetch(ctx, filter)
}

// find must be called with m.mu held.
func (m *Manager) find(taskID int64) (domain.Task, bool) {
	for _, t := range m.tasks {
		if t.ID == taskID {
			return t, true
		}
	}
	return domain.Task{}, false
}

func (m *Manager) publishActivity(event domain.ActivityEvent) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(bus.EventTaskActivity, event)
	m.bus.Publish(bus.EventTaskUpdated, nil)
}

// signalUnauthorized raises the process-wide expiry signal on a 401 so the
// session manager, not this component, decides what happens next.
func (m *Manager) signalUnauthorized(err error) {
	if m.bus != nil && domain.IsErrorCode(err, domain.ErrCodeUnauthorized) {
		m.bus.Publish(bus.EventTokenExpired, nil)
	}
}

func errorMessage(err error) string {
	var dErr *domain.Error
	if errors.As(err, &dErr) && dErr.Message != "" {
		return dErr.Message
	}
	return domain.MsgRequestFailed
}

func asDomain(err error, fallback string) *domain.Error {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return dErr
	}
	return domain.WrapError(domain.ErrCodeInternal, fallback, err)
}

// capitalizeFirst upper-cases the first character and leaves the rest
// untouched.
func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
