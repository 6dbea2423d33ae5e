// Package order turns carts into orders.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lucsky/cuid"
	"github.com/vvakame/foodexpress/internal/events"
	"github.com/vvakame/foodexpress/internal/failure"
	"github.com/vvakame/foodexpress/internal/log"
	"github.com/vvakame/foodexpress/internal/model"
	"github.com/vvakame/foodexpress/internal/store"
)

const (
	Currency = "eur"

	maxIDAttempts = 5
)

type Engine struct {
	store     *store.Store
	ids       IDGenerator
	now       func() time.Time
	publisher events.Publisher
}

type Option func(e *Engine)

func WithIDGenerator(ids IDGenerator) Option {
	return func(e *Engine) {
		e.ids = ids
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithPublisher(publisher events.Publisher) Option {
	return func(e *Engine) {
		e.publisher = publisher
	}
}

func NewEngine(s *store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:     s,
		ids:       UUIDGenerator{},
		now:       time.Now,
		publisher: events.Nop{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PlaceOrder materializes the caller's cart into a pending order and empties the cart.
func (e *Engine) PlaceOrder(ctx context.Context, userID string, input model.PlaceOrderInput) (*model.PlaceOrderResult, error) {
	logger := log.FromContext(ctx)

	unlock := e.store.LockUser(userID)
	defer unlock()

	cart, _ := e.store.Cart(userID)
	if cart.IsEmpty() {
		return nil, failure.EmptyCart("cart is empty")
	}

	restaurant, err := e.store.FindRestaurant(input.RestaurantID)
	if err != nil {
		return nil, err
	}

	createdAt := e.now()
	order := &model.Order{
		UserID:              userID,
		RestaurantID:        restaurant.ID,
		Items:               cart.Items,
		Subtotal:            cart.Subtotal,
		DeliveryFee:         cart.DeliveryFee,
		Tax:                 cart.Tax,
		Total:               cart.Total,
		Status:              model.OrderStatusPending,
		DeliveryAddress:     input.DeliveryAddress,
		SpecialInstructions: input.SpecialInstructions,
		CreatedAt:           createdAt,
		EstimatedDelivery:   createdAt.Add(restaurant.DeliveryTime()),
	}

	if err := e.appendOrder(order); err != nil {
		return nil, err
	}
	e.store.DeleteCart(userID)

	logger.Info("order placed", "orderID", order.ID, "userID", userID, "restaurantID", order.RestaurantID, "total", order.Total.String())

	err = e.publisher.Publish(ctx, events.Event{
		Type:         events.TypeOrderPlaced,
		OrderID:      order.ID,
		UserID:       order.UserID,
		RestaurantID: order.RestaurantID,
		Total:        order.Total,
		CreatedAt:    order.CreatedAt,
	})
	if err != nil {
		logger.Error(err, "failed to publish order event", "orderID", order.ID)
	}

	return &model.PlaceOrderResult{
		Order: order,
		PaymentIntent: &model.PaymentIntent{
			ID:           "pi_" + order.ID,
			ClientSecret: "cs_" + cuid.New(),
			Amount:       order.Total,
			Currency:     Currency,
		},
	}, nil
}

func (e *Engine) appendOrder(order *model.Order) error {
	for attempt := 1; ; attempt++ {
		id, err := e.ids.NewID()
		if err != nil {
			return err
		}
		order.ID = id

		err = e.store.AppendOrder(order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, failure.ErrConflict) || attempt >= maxIDAttempts {
			return fmt.Errorf("failed to append order: %w", err)
		}
	}
}
