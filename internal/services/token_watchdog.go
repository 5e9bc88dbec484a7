package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskwire/client/pkg/bus"
	"github.com/taskwire/client/usecase/session"
)

// StoredToken reads the durable credential without owning it.
type StoredToken interface {
	Get() string
}

// TokenWatchdog periodically inspects the stored token's exp claim and
// raises the process-wide expiry signal when it lapses, so the session
// demotes itself before the next 401 would.
type TokenWatchdog struct {
	tokens StoredToken
	bus    *bus.Bus
	logger *zap.Logger
	cron   *cron.Cron
}

// NewTokenWatchdog schedules a check every interval.
func NewTokenWatchdog(tokens StoredToken, b *bus.Bus, interval time.Duration, logger *zap.Logger) *TokenWatchdog {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &TokenWatchdog{
		tokens: tokens,
		bus:    b,
		logger: logger,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := checkSchedule(interval)
	if _, err := w.cron.AddFunc(schedule, w.Check); err != nil {
		w.logger.Error("failed to schedule token check",
			zap.String("schedule", schedule),
			zap.Error(err))
	}

	return w
}

// checkSchedule renders interval as a cron spec. The granularity is one
// second; anything shorter would render as "@every 0s", which the scheduler
// rejects, so the interval is clamped.
func checkSchedule(interval time.Duration) string {
	if interval < time.Second {
		interval = time.Second
	}
	return fmt.Sprintf("@every %ds", int(interval.Seconds()))
}

// Start launches the schedule.
func (w *TokenWatchdog) Start() {
	if w == nil || w.cron == nil {
		return
	}
	w.cron.Start()
	w.logger.Info("token watchdog started")
}

// Stop halts the schedule, waiting for an in-flight check.
func (w *TokenWatchdog) Stop(ctx context.Context) {
	if w == nil || w.cron == nil {
		return
	}
	stopCtx := w.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	w.logger.Info("token watchdog stopped")
}

// Check publishes token-expired when the stored token's exp claim is in the
// past. A missing token is not expiry; an undecodable one is.
func (w *TokenWatchdog) Check() {
	token := w.tokens.Get()
	if token == "" {
		return
	}
	if session.IsTokenExpired(token) {
		w.logger.Info("stored token expired")
		if w.bus != nil {
			w.bus.Publish(bus.EventTokenExpired, nil)
		}
	}
}
