// Package rest implements the repository gateways against the remote
// REST+JSON service using fasthttp.
package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskwire/client/api/transport"
	"github.com/taskwire/client/domain"
)

// Doer abstracts the fasthttp client so tests can dial an in-memory server.
type Doer interface {
	DoTimeout(req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error
}

// Client is the generic request wrapper shared by all gateways. Every call
// returns a discriminated transport.Result: transport failures become the
// generic network-error result and never reach the caller as a raw error.
type Client struct {
	baseURL string
	http    Doer
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient builds a request wrapper for the service at baseURL.
func NewClient(baseURL string, http Doer, timeout time.Duration, logger *zap.Logger) *Client {
	if http == nil {
		http = &fasthttp.Client{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    http,
		timeout: timeout,
		logger:  logger,
	}
}

// Get issues an authenticated GET. Token may be empty for public endpoints.
func (c *Client) Get(ctx context.Context, path, token string) transport.Result {
	return c.do(ctx, fasthttp.MethodGet, path, nil, token)
}

// Post issues a POST, serializing body to JSON when it is not already raw.
func (c *Client) Post(ctx context.Context, path string, body interface{}, token string) transport.Result {
	return c.do(ctx, fasthttp.MethodPost, path, body, token)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}, token string) transport.Result {
	return c.do(ctx, fasthttp.MethodPut, path, body, token)
}

// Delete issues a DELETE. A 204 response is success with no payload.
func (c *Client) Delete(ctx context.Context, path, token string) transport.Result {
	return c.do(ctx, fasthttp.MethodDelete, path, nil, token)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, token string) transport.Result {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")
	if token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	}

	if body != nil {
		raw, err := encodeBody(body)
		if err != nil {
			c.logger.Error("request body marshal failed",
				zap.String("method", method),
				zap.String("path", path),
				zap.Error(err))
			return transport.Fail(0, domain.MsgRequestFailed)
		}
		req.SetBody(raw)
	}

	if err := c.http.DoTimeout(req, resp, c.deadline(ctx)); err != nil {
		c.logger.Warn("request transport error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return transport.NetworkFailure()
	}

	status := resp.StatusCode()
	if status == http.StatusNoContent {
		return transport.Ok(status, nil)
	}

	payload := append([]byte(nil), resp.Body()...)
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return transport.Fail(status, transport.ErrorDetail(payload))
	}
	return transport.Ok(status, payload)
}

// deadline derives the per-attempt timeout from the context when one is set.
func (c *Client) deadline(ctx context.Context) time.Duration {
	if ctx != nil {
		if dl, ok := ctx.Deadline(); ok {
			if remaining := time.Until(dl); remaining > 0 && remaining < c.timeout {
				return remaining
			}
		}
	}
	return c.timeout
}

func encodeBody(body interface{}) ([]byte, error) {
	switch v := body.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case json.RawMessage:
		return v, nil
	default:
		return json.Marshal(v)
	}
}

// asError converts a failed result into a classified domain error.
func asError(res transport.Result) error {
	switch {
	case res.Unauthorized():
		return domain.NewError(domain.ErrCodeUnauthorized, res.Error)
	case res.Status == 0:
		return domain.NewError(domain.ErrCodeNetwork, res.Error)
	default:
		return domain.NewError(domain.ErrCodeRemote, res.Error)
	}
}
