// Package events publishes domain events about placed orders.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const TypeOrderPlaced = "order.placed"

type Event struct {
	Type         string          `json:"type"`
	OrderID      string          `json:"orderId"`
	UserID       string          `json:"userId"`
	RestaurantID string          `json:"restaurantId"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

var _ Publisher = Nop{}
var _ Publisher = (*Recorder)(nil)

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(ctx context.Context, event Event) error { return nil }
func (Nop) Close() error                                   { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (r *Recorder) Publish(ctx context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Event{}, r.events...)
}

func (r *Recorder) Close() error { return nil }
