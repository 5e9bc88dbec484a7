// Package session owns the client's authentication state: the current user,
// the bearer token and the authenticated flag derived from both.
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/taskwire/client/domain"
	"github.com/taskwire/client/pkg/bus"
	"github.com/taskwire/client/repository"
)

// TokenStore is the durable credential holder the manager reads on start
// and keeps in sync with its in-memory token.
type TokenStore interface {
	Set(token string) error
	Get() string
	Clear() error
}

// RegisterResult is the discriminated outcome of Register.
type RegisterResult struct {
	Success bool
	Error   string
}

// Manager is the single authority over the session lifecycle. It reacts to
// the process-wide token-expired signal so expiry detection deep inside an
// unrelated request path never calls into it directly.
type Manager struct {
	tokens TokenStore
	auth   repository.AuthGateway
	bus    *bus.Bus
	logger *zap.Logger

	mu            sync.RWMutex
	user          *domain.User
	token         string
	authenticated bool

	unsubscribe func()
}

// New wires a session manager and subscribes it to token expiration.
func New(tokens TokenStore, auth repository.AuthGateway, b *bus.Bus, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		tokens: tokens,
		auth:   auth,
		bus:    b,
		logger: logger,
	}
	if b != nil {
		m.unsubscribe = b.Subscribe(bus.EventTokenExpired, func(interface{}) {
			m.logger.Info("token expiration signal received")
			m.Logout()
		})
	}
	return m
}

// Initialize derives the session from the token store. A stored token is
// validated by resolving the current user; any failure clears the store and
// leaves the session unauthenticated. Initialize never fails fatally.
func (m *Manager) Initialize(ctx context.Context) {
	stored := m.tokens.Get()
	if stored == "" {
		return
	}

	m.mu.Lock()
	m.token = stored
	m.mu.Unlock()

	m.resolveUser(ctx, stored)
}

// Login exchanges credentials for a token, persists it and resolves the
// user. It reports false on any boundary failure without raising.
func (m *Manager) Login(ctx context.Context, email, password string) bool {
	token, err := m.auth.Login(ctx, email, password)
	if err != nil {
		m.logger.Warn("login failed", zap.Error(err))
		return false
	}

	if err := m.tokens.Set(token); err != nil {
		m.logger.Error("token persist failed", zap.Error(err))
	}
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	m.resolveUser(ctx, token)
	return true
}

// Register creates an account, surfacing the boundary's error message
// verbatim on failure. It does not log the user in.
func (m *Manager) Register(ctx context.Context, email, name, password string) RegisterResult {
	if err := m.auth.Register(ctx, email, name, password); err != nil {
		message := "Registration failed"
		var dErr *domain.Error
		if errors.As(err, &dErr) && dErr.Message != "" {
			message = dErr.Message
		}
		return RegisterResult{Success: false, Error: message}
	}
	return RegisterResult{Success: true}
}

// Logout clears the in-memory session and the token store. Idempotent.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.user = nil
	m.token = ""
	m.authenticated = false
	m.mu.Unlock()

	if err := m.tokens.Clear(); err != nil {
		m.logger.Error("token clear failed", zap.Error(err))
	}
}

// User returns the resolved identity, nil when unauthenticated.
func (m *Manager) User() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// Token returns the current bearer token, "" when absent.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// IsAuthenticated reports whether a user was resolved with the current
// token. Token presence alone is not enough.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authenticated
}

// Close releases the bus subscription.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// resolveUser validates token against the who-am-I boundary. Failure demotes
// the session to unauthenticated and clears the stored credential.
func (m *Manager) resolveUser(ctx context.Context, token string) {
	user, err := m.auth.CurrentUser(ctx, token)
	if err != nil {
		m.logger.Warn("user resolution failed, clearing token", zap.Error(err))
		m.mu.Lock()
		m.user = nil
		m.token = ""
		m.authenticated = false
		m.mu.Unlock()
		if clearErr := m.tokens.Clear(); clearErr != nil {
			m.logger.Error("token clear failed", zap.Error(clearErr))
		}
		return
	}

	m.mu.Lock()
	m.user = user
	m.authenticated = true
	m.mu.Unlock()
}
