// Package events publishes staff actions (quote pricing, order transitions) to Kafka.
package events

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

const (
	OrderStatusChanged = "order.status_changed"
	QuotePriced        = "quote.priced"
	QuoteRejected      = "quote.rejected"
	QuoteArchived      = "quote.archived"
	ResourceDeleted    = "resource.deleted"
)

// Event is the message contract. Before and After are status values and may be empty.
type Event struct {
	ID         string              `json:"id"`
	Type       string              `json:"type"`
	Resource   domain.ResourceKind `json:"resource"`
	ResourceID int64               `json:"resource_id"`
	Reference  string              `json:"reference,omitempty"`
	Before     string              `json:"before,omitempty"`
	After      string              `json:"after,omitempty"`
	ActorID    int64               `json:"actor_id"`
	At         time.Time           `json:"at"`
}

// New fills ID and At.
func New(typ string, ref domain.Ref, reference string, actorID int64) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		Resource:   ref.Kind,
		ResourceID: ref.ID,
		Reference:  reference,
		ActorID:    actorID,
		At:         time.Now().UTC(),
	}
}

// Key partitions events of one resource together.
func (e Event) Key() string {
	return string(e.Resource) + ":" + strconv.FormatInt(e.ResourceID, 10)
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop drops events; used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
