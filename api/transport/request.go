package transport

// LoginRequest is the /auth/login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the /auth/register payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginResponse is the token pair issued by /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ToggleRequest flips only the completed flag of a task.
type ToggleRequest struct {
	Completed bool `json:"completed"`
}

// ChatRequest is the /chat/message payload. SessionID is nil on the first
// message of a conversation; the service assigns one in the response.
type ChatRequest struct {
	Message   string  `json:"message"`
	SessionID *string `json:"session_id"`
}

// ChatResponse is the chat service reply. TaskID and ResponseType are set
// when the conversation performed a task mutation on the user's behalf.
type ChatResponse struct {
	Response     string `json:"response"`
	SessionID    string `json:"session_id"`
	ResponseType string `json:"response_type,omitempty"`
	TaskID       int64  `json:"task_id,omitempty"`
	TaskTitle    string `json:"task_title,omitempty"`
}
