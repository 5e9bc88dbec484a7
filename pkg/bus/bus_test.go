package bus

import (
	"testing"
)

func TestPublishWithoutSubscribers(t *testing.T) {
	b := New(nil)
	// Must be a silent no-op.
	b.Publish(EventTaskUpdated, nil)
	b.Publish(EventTaskActivity, "payload")
}

func TestSubscriptionOrder(t *testing.T) {
	b := New(nil)

	var order []int
	b.Subscribe(EventTaskUpdated, func(interface{}) { order = append(order, 1) })
	b.Subscribe(EventTaskUpdated, func(interface{}) { order = append(order, 2) })
	b.Subscribe(EventTaskUpdated, func(interface{}) { order = append(order, 3) })

	b.Publish(EventTaskUpdated, nil)

	if len(order) != 3 {
		t.Fatalf("expected 3 deliveries, got %d", len(order))
	}
	for i, got := range order {
		if got != i+1 {
			t.Errorf("delivery %d: got handler %d", i, got)
		}
	}
}

func TestPayloadDelivery(t *testing.T) {
	b := New(nil)

	var got interface{}
	b.Subscribe(EventTaskActivity, func(payload interface{}) { got = payload })

	b.Publish(EventTaskActivity, "hello")

	if got != "hello" {
		t.Fatalf("payload = %v, want hello", got)
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New(nil)

	calls := 0
	unsubscribe := b.Subscribe(EventTaskUpdated, func(interface{}) { calls++ })

	b.Publish(EventTaskUpdated, nil)
	unsubscribe()
	b.Publish(EventTaskUpdated, nil)

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	// A second disposal is a no-op.
	unsubscribe()
}

func TestUnsubscribeKeepsOtherHandlers(t *testing.T) {
	b := New(nil)

	var order []string
	first := b.Subscribe(EventTaskUpdated, func(interface{}) { order = append(order, "first") })
	b.Subscribe(EventTaskUpdated, func(interface{}) { order = append(order, "second") })

	first()
	b.Publish(EventTaskUpdated, nil)

	if len(order) != 1 || order[0] != "second" {
		t.Fatalf("order = %v, want [second]", order)
	}
}

func TestPanickingHandlerDoesNotStopDelivery(t *testing.T) {
	b := New(nil)

	delivered := false
	b.Subscribe(EventTaskUpdated, func(interface{}) { panic("boom") })
	b.Subscribe(EventTaskUpdated, func(interface{}) { delivered = true })

	b.Publish(EventTaskUpdated, nil)

	if !delivered {
		t.Fatal("handler after the panicking one was not invoked")
	}
}

func TestEventsAreIndependent(t *testing.T) {
	b := New(nil)

	updated, activity := 0, 0
	b.Subscribe(EventTaskUpdated, func(interface{}) { updated++ })
	b.Subscribe(EventTaskActivity, func(interface{}) { activity++ })

	b.Publish(EventTaskUpdated, nil)

	if updated != 1 || activity != 0 {
		t.Fatalf("updated=%d activity=%d, want 1 and 0", updated, activity)
	}
}
