// Package notify delivers real-time events about stock changes. Delivery is best
// effort: a Notifier never blocks the caller on a slow consumer and never reports
// failure back into the write path.
package notify

import (
	"context"
	"encoding/json"
	"time"
)

type EventType string

const (
	TransactionCreated EventType = "transaction:created"
	DepotStockUpdated  EventType = "depot:stock-updated"
	ProductTransferred EventType = "product:transferred"
	ProductUpdated     EventType = "product:updated"
	ProductDeleted     EventType = "product:deleted"
	DepotUpdated       EventType = "depot:updated"
	DepotDeleted       EventType = "depot:deleted"
	AlertCreated       EventType = "alert:created"
	AlertResolved      EventType = "alert:resolved"
)

type Event struct {
	Type      EventType   `json:"type"`
	OwnerID   string      `json:"owner_id"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewEvent(t EventType, ownerID string, payload interface{}) Event {
	return Event{Type: t, OwnerID: ownerID, Payload: payload, Timestamp: time.Now().UTC()}
}

func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

type Notifier interface {
	Notify(ctx context.Context, events ...Event)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Notify(context.Context, ...Event) {}

// Fanout forwards events to several notifiers.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, events ...Event) {
	for _, n := range f {
		n.Notify(ctx, events...)
	}
}

// Recorder keeps events in memory; tests use it to assert on what was emitted.
type Recorder struct {
	ch chan Event
}

func NewRecorder(size int) *Recorder {
	return &Recorder{ch: make(chan Event, size)}
}

func (r *Recorder) Notify(_ context.Context, events ...Event) {
	for _, e := range events {
		select {
		case r.ch <- e:
		default:
		}
	}
}

// Drain returns the events received so far.
func (r *Recorder) Drain() []Event {
	var out []Event
	for {
		select {
		case e := <-r.ch:
			out = append(out, e)
		default:
			return out
		}
	}
}
