package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActivityType classifies a task mutation for activity feeds.
type ActivityType string

const (
	ActivityTaskCreated     ActivityType = "task_created"
	ActivityTaskUpdated     ActivityType = "task_updated"
	ActivityTaskDeleted     ActivityType = "task_deleted"
	ActivityTaskCompleted   ActivityType = "task_completed"
	ActivityTaskUncompleted ActivityType = "task_uncompleted"
)

// ActivityEvent is a point-in-time record of one confirmed task mutation.
// Events are transient: the producer emits them exactly once and any durable
// storage is the listener's concern.
type ActivityEvent struct {
	ID        string       `json:"id"`
	Type      ActivityType `json:"type"`
	TaskID    int64        `json:"taskId"`
	TaskTitle string       `json:"taskTitle"`
	UserID    int64        `json:"userId"`
	Timestamp string       `json:"timestamp"`
	Message   string       `json:"message"`
}

// NewActivityEvent builds an event for a task mutation with a generated id,
// the current timestamp and the human-readable message for kind.
func NewActivityEvent(kind ActivityType, taskID int64, title string, userID int64) ActivityEvent {
	return ActivityEvent{
		ID:        "act-" + uuid.NewString(),
		Type:      kind,
		TaskID:    taskID,
		TaskTitle: title,
		UserID:    userID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Message:   activityMessage(kind, title),
	}
}

// The title is embedded raw, never escaped: quotes in a title appear as-is.
func activityMessage(kind ActivityType, title string) string {
	switch kind {
	case ActivityTaskCreated:
		return fmt.Sprintf("Task \"%s\" was created", title)
	case ActivityTaskUpdated:
		return fmt.Sprintf("Task \"%s\" was updated", title)
	case ActivityTaskDeleted:
		return fmt.Sprintf("Task \"%s\" was deleted", title)
	case ActivityTaskCompleted:
		return fmt.Sprintf("Task \"%s\" was marked as completed", title)
	case ActivityTaskUncompleted:
		return fmt.Sprintf("Task \"%s\" was marked as incomplete", title)
	default:
		return fmt.Sprintf("Task \"%s\" changed", title)
	}
}
