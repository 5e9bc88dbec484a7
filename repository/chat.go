package repository

import (
	"context"

	"github.com/taskwire/client/api/transport"
)

// ChatGateway is the conversational boundary. The conversation logic lives
// entirely on the server; the client only carries the session id across
// messages and reacts to reported task actions.
type ChatGateway interface {
	Send(ctx context.Context, token string, req transport.ChatRequest) (*transport.ChatResponse, error)
}
