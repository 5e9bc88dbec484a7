package domain

// User represents the identity resolved from the remote auth boundary.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
