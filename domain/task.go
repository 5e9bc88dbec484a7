package domain

import (
	"strings"
	"unicode/utf8"
)

// Task priority levels accepted by the remote service.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Title and description limits enforced locally before any request is made.
const (
	MaxTitleLen       = 255
	MaxDescriptionLen = 1000
)

// Task represents a user-owned task as returned by the remote service.
type Task struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date,omitempty"`
	Category    string `json:"category,omitempty"`
	Recurring   string `json:"recurring,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// TaskDraft carries the fields a user supplies when creating a task.
type TaskDraft struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date,omitempty"`
}

// TaskPatch carries the fields a user may change on an existing task.
type TaskPatch struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date,omitempty"`
	Completed   bool   `json:"completed"`
}

// ValidateTitle reports a field error for a blank or oversized title.
// A title of only whitespace counts as blank; the limit counts characters,
// not bytes.
func ValidateTitle(title string) *Error {
	if strings.TrimSpace(title) == "" {
		return NewError(ErrCodeValidation, "Title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return NewError(ErrCodeValidation, "Title must be 255 characters or less")
	}
	return nil
}

// ValidateDescription reports a field error for an oversized description.
func ValidateDescription(description string) *Error {
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return NewError(ErrCodeValidation, "Description must be 1000 characters or less")
	}
	return nil
}
