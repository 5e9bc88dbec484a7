package tasks

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/taskwire/client/domain"
)

// DeleteCoordinator guarantees at most one task is awaiting delete
// confirmation across the whole list view. The coordinator, not each row,
// owns the truth: requesting confirmation for another task silently
// supersedes the previous one.
type DeleteCoordinator struct {
	mu      sync.Mutex
	pending int64
	armed   bool

	tasks  *Manager
	logger *zap.Logger
}

// NewDeleteCoordinator wires the coordinator to the collection it deletes from.
func NewDeleteCoordinator(tasks *Manager, logger *zap.Logger) *DeleteCoordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeleteCoordinator{
		tasks:  tasks,
		logger: logger,
	}
}

// RequestDelete puts taskID into the awaiting-confirmation state, replacing
// any previously pending task.
func (c *DeleteCoordinator) RequestDelete(taskID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = taskID
	c.armed = true
}

// Pending returns the task awaiting confirmation, if any.
func (c *DeleteCoordinator) Pending() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.armed
}

// Confirm runs the delete when taskID is the pending one and then returns
// the coordinator to idle unconditionally, even when the delete fails: a
// failure surfaces as a transient error, never as a stuck confirmation.
// A confirm for a superseded task does nothing.
func (c *DeleteCoordinator) Confirm(ctx context.Context, taskID int64) *domain.Error {
	c.mu.Lock()
	if !c.armed || c.pending != taskID {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	err := c.tasks.Delete(ctx, taskID)

	c.mu.Lock()
	c.pending = 0
	c.armed = false
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("delete failed", zap.Int64("task_id", taskID), zap.String("error", err.Message))
	}
	return err
}

// Cancel returns the coordinator to idle. Idempotent.
func (c *DeleteCoordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = 0
	c.armed = false
}
