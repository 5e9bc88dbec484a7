// Package services holds the bus-driven fragments and background services
// that sit beside the core: dashboard stats, the activity feed and the token
// watchdog. None of them are rendered by the task collection directly; they
// react to published events.
package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/taskwire/client/pkg/bus"
	"github.com/taskwire/client/repository"
)

// TokenSource supplies the current bearer token.
type TokenSource interface {
	Token() string
}

// TaskStats is the aggregate view the dashboard shows.
type TaskStats struct {
	Total     int
	Completed int
	Pending   int
}

// StatsWidget keeps aggregate task counts current. It subscribes to
// task-updated and refreshes itself through its own gateway fetch.
type StatsWidget struct {
	gateway repository.TaskGateway
	tokens  TokenSource
	logger  *zap.Logger

	mu    sync.RWMutex
	stats TaskStats

	unsubscribe func()
}

// NewStatsWidget wires the widget to the bus and performs no initial fetch.
func NewStatsWidget(gateway repository.TaskGateway, tokens TokenSource, b *bus.Bus, logger *zap.Logger) *StatsWidget {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &StatsWidget{
		gateway: gateway,
		tokens:  tokens,
		logger:  logger,
	}
	if b != nil {
		w.unsubscribe = b.Subscribe(bus.EventTaskUpdated, func(interface{}) {
			w.Refresh(context.Background())
		})
	}
	return w
}

// Refresh recounts from an unfiltered list fetch. Without a token, or when
// the fetch fails, the previous counts stay in place.
func (w *StatsWidget) Refresh(ctx context.Context) {
	token := w.tokens.Token()
	if token == "" {
		return
	}

	list, err := w.gateway.List(ctx, token, repository.TaskFilter{})
	if err != nil {
		w.logger.Warn("stats refresh failed", zap.Error(err))
		return
	}

	stats := TaskStats{Total: len(list)}
	for _, t := range list {
		if t.Completed {
			stats.Completed++
		}
	}
	stats.Pending = stats.Total - stats.Completed

	w.mu.Lock()
	w.stats = stats
	w.mu.Unlock()
}

// Stats returns the current aggregate counts.
func (w *StatsWidget) Stats() TaskStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// Close releases the bus subscription.
func (w *StatsWidget) Close() {
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
}
