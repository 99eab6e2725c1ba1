// Package events fans domain events out to the websocket hub and, when configured, Kafka.
package events

import (
	"context"
	"sync"
	"time"

	"go-pos-inventory/pkg/logger"

	"go.uber.org/zap"
)

// Event types
const (
	ProductCreated    = "product_created"
	ProductUpdated    = "product_updated"
	ProductDeleted    = "product_deleted"
	SaleCreated       = "sale_created"
	PurchaseCreated   = "purchase_created"
	PurchaseReceived  = "purchase_received"
	PurchaseCancelled = "purchase_cancelled"
	StockAdjusted     = "stock_adjusted"
	StockLow          = "stock_low"
	UserStatus        = "user_status_update"
)

// Actor is the operator who caused the event
type Actor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type Event struct {
	Type       string      `json:"type"`
	Key        string      `json:"key"` // entity id, used as the Kafka message key
	Message    string      `json:"message,omitempty"`
	Actor      *Actor      `json:"user,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Dispatcher publishes events to every sink without blocking the caller.
// Each sink drains its own queue in order, so events for one key reach it in emit order.
type Dispatcher struct {
	sinks   []*sink
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

type sink struct {
	publisher Publisher
	queue     chan Event
}

const queueSize = 256

func NewDispatcher(publishers ...Publisher) *Dispatcher {
	d := &Dispatcher{timeout: 10 * time.Second}
	for _, p := range publishers {
		s := &sink{publisher: p, queue: make(chan Event, queueSize)}
		d.sinks = append(d.sinks, s)
		d.wg.Add(1)
		go d.run(s)
	}
	return d
}

func (d *Dispatcher) run(s *sink) {
	defer d.wg.Done()
	for evt := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := s.publisher.Publish(ctx, evt); err != nil {
			logger.Get().Warn("event publish failed",
				zap.String("type", evt.Type),
				zap.String("key", evt.Key),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Emit stamps the event and queues it for every publisher.
// Errors are logged; a failed or saturated sink never fails the request that caused the event.
func (d *Dispatcher) Emit(evt Event) {
	if d == nil {
		return
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	for _, s := range d.sinks {
		select {
		case s.queue <- evt:
		default:
			logger.Get().Warn("event queue full, dropping event",
				zap.String("type", evt.Type),
				zap.String("key", evt.Key),
			)
		}
	}
}

// Close stops accepting events and waits until every queued event has been published.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, s := range d.sinks {
			close(s.queue)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}
