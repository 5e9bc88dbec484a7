package transport

import (
	"encoding/json"

	"github.com/taskwire/client/domain"
)

// Result is the discriminated outcome of one boundary call. Callers always
// receive a Result; the request wrapper never propagates transport errors.
type Result struct {
	Success bool            `json:"success"`
	Status  int             `json:"status,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Ok returns a success result carrying the raw response body.
func Ok(status int, data []byte) Result {
	return Result{
		Success: true,
		Status:  status,
		Data:    data,
	}
}

// Fail returns an error result for a non-2xx response.
func Fail(status int, message string) Result {
	if message == "" {
		message = domain.MsgRequestFailed
	}
	return Result{
		Success: false,
		Status:  status,
		Error:   message,
	}
}

// NetworkFailure maps a transport error to the generic network-error result.
func NetworkFailure() Result {
	return Result{
		Success: false,
		Error:   domain.MsgNetworkError,
	}
}

// Decode unmarshals the result payload into v.
func (r Result) Decode(v interface{}) error {
	if len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, v)
}

// Unauthorized reports whether the boundary rejected the bearer credential.
func (r Result) Unauthorized() bool {
	return !r.Success && r.Status == 401
}

// errorBody mirrors the {detail} shape remote errors arrive in.
type errorBody struct {
	Detail string `json:"detail"`
}

// ErrorDetail extracts the detail field from an error response body,
// falling back to the generic message when absent or unparsable.
func ErrorDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Detail != "" {
		return eb.Detail
	}
	return domain.MsgRequestFailed
}
