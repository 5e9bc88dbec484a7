package rest

import (
	"context"

	"github.com/taskwire/client/api/transport"
	"github.com/taskwire/client/domain"
	"github.com/taskwire/client/repository"
)

// AuthGateway implements repository.AuthGateway over the request wrapper.
type AuthGateway struct {
	client *Client
}

func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{client: client}
}

func (g *AuthGateway) Login(ctx context.Context, email, password string) (string, error) {
	res := g.client.Post(ctx, "/auth/login", transport.LoginRequest{
		Email:    email,
		Password: password,
	}, "")
	if !res.Success {
		return "", asError(res)
	}

	var body transport.LoginResponse
	if err := res.Decode(&body); err != nil || body.AccessToken == "" {
		return "", domain.WrapError(domain.ErrCodeRemote, domain.MsgRequestFailed, err)
	}
	return body.AccessToken, nil
}

func (g *AuthGateway) Register(ctx context.Context, email, name, password string) error {
	res := g.client.Post(ctx, "/auth/register", transport.RegisterRequest{
		Email:    email,
		Name:     name,
		Password: password,
	}, "")
	if !res.Success {
		return asError(res)
	}
	return nil
}

func (g *AuthGateway) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	res := g.client.Get(ctx, "/auth/me", token)
	if !res.Success {
		return nil, asError(res)
	}

	var user domain.User
	if err := res.Decode(&user); err != nil {
		return nil, domain.WrapError(domain.ErrCodeRemote, domain.MsgRequestFailed, err)
	}
	return &user, nil
}

var _ repository.AuthGateway = (*AuthGateway)(nil)
