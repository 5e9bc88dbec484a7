package services

import (
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/taskwire/client/pkg/bus"
)

type staticToken string

func (s staticToken) Get() string { return string(s) }

func signedToken(exp time.Time) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString(
		[]byte(fmt.Sprintf(`{"sub":"9","exp":%d}`, exp.Unix())))
	return header + "." + payload + ".sig"
}

func TestWatchdogRaisesExpiryForLapsedToken(t *testing.T) {
	events := bus.New(nil)
	expired := 0
	events.Subscribe(bus.EventTokenExpired, func(interface{}) { expired++ })

	w := NewTokenWatchdog(staticToken(signedToken(time.Now().Add(-time.Hour))), events, time.Minute, nil)
	w.Check()

	if expired != 1 {
		t.Fatalf("token-expired published %d times, want 1", expired)
	}
}

func TestWatchdogStaysQuietForValidToken(t *testing.T) {
	events := bus.New(nil)
	expired := 0
	events.Subscribe(bus.EventTokenExpired, func(interface{}) { expired++ })

	w := NewTokenWatchdog(staticToken(signedToken(time.Now().Add(time.Hour))), events, time.Minute, nil)
	w.Check()

	if expired != 0 {
		t.Fatalf("token-expired published %d times, want 0", expired)
	}
}

func TestWatchdogIgnoresMissingToken(t *testing.T) {
	events := bus.New(nil)
	expired := 0
	events.Subscribe(bus.EventTokenExpired, func(interface{}) { expired++ })

	w := NewTokenWatchdog(staticToken(""), events, time.Minute, nil)
	w.Check()

	if expired != 0 {
		t.Fatal("a missing token is not expiry")
	}
}

func TestCheckScheduleClampsSubSecondIntervals(t *testing.T) {
	tests := []struct {
		interval time.Duration
		want     string
	}{
		{200 * time.Millisecond, "@every 1s"},
		{time.Second, "@every 1s"},
		{time.Minute, "@every 60s"},
	}

	for _, tt := range tests {
		if got := checkSchedule(tt.interval); got != tt.want {
			t.Errorf("checkSchedule(%v) = %q, want %q", tt.interval, got, tt.want)
		}
	}
}

func TestWatchdogTreatsGarbageAsExpired(t *testing.T) {
	events := bus.New(nil)
	expired := 0
	events.Subscribe(bus.EventTokenExpired, func(interface{}) { expired++ })

	w := NewTokenWatchdog(staticToken("not-a-jwt"), events, time.Minute, nil)
	w.Check()

	if expired != 1 {
		t.Fatalf("token-expired published %d times, want 1", expired)
	}
}
