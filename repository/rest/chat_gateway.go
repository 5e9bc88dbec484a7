package rest

import (
	"context"

	"github.com/taskwire/client/api/transport"
	"github.com/taskwire/client/domain"
	"github.com/taskwire/client/repository"
)

// ChatGateway implements repository.ChatGateway over the request wrapper.
type ChatGateway struct {
	client *Client
}

func NewChatGateway(client *Client) *ChatGateway {
	return &ChatGateway{client: client}
}

func (g *ChatGateway) Send(ctx context.Context, token string, req transport.ChatRequest) (*transport.ChatResponse, error) {
	res := g.client.Post(ctx, "/chat/message", req, token)
	if !res.Success {
		return nil, asError(res)
	}

	var body transport.ChatResponse
	if err := res.Decode(&body); err != nil {
		return nil, domain.WrapError(domain.ErrCodeRemote, domain.MsgRequestFailed, err)
	}
	return &body, nil
}

var _ repository.ChatGateway = (*ChatGateway)(nil)
