package order_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvakame/foodexpress/internal/cart"
	"github.com/vvakame/foodexpress/internal/events"
	"github.com/vvakame/foodexpress/internal/failure"
	"github.com/vvakame/foodexpress/internal/log"
	"github.com/vvakame/foodexpress/internal/model"
	"github.com/vvakame/foodexpress/internal/order"
	"github.com/vvakame/foodexpress/internal/store"
	"github.com/vvakame/foodexpress/internal/store/storetest"
)

type fixture struct {
	ctx       context.Context
	store     *store.Store
	carts     *cart.Engine
	orders    *order.Engine
	publisher *events.Recorder
}

func setup(t *testing.T, opts ...order.Option) *fixture {
	t.Helper()

	s := storetest.New(t)
	publisher := &events.Recorder{}
	opts = append([]order.Option{
		order.WithIDGenerator(&order.SequenceGenerator{}),
		order.WithClock(storetest.Clock),
		order.WithPublisher(publisher),
	}, opts...)

	return &fixture{
		ctx:       log.WithLogger(context.Background(), testr.New(t)),
		store:     s,
		carts:     cart.NewEngine(s),
		orders:    order.NewEngine(s, opts...),
		publisher: publisher,
	}
}

func TestPlaceOrder(t *testing.T) {
	f := setup(t)

	_, err := f.carts.AddItem(f.ctx, "user1", "p1", 2)
	require.NoError(t, err)
	before, err := f.carts.Get(f.ctx, "user1")
	require.NoError(t, err)

	result, err := f.orders.PlaceOrder(f.ctx, "user1", model.PlaceOrderInput{
		RestaurantID:        "1",
		DeliveryAddress:     "10 Rue de l'Exemple, 75015 Paris",
		SpecialInstructions: storetest.StrPtr("Sonner deux fois"),
	})
	require.NoError(t, err)

	o := result.Order
	assert.Equal(t, "order_1", o.ID)
	assert.Equal(t, "user1", o.UserID)
	assert.Equal(t, "1", o.RestaurantID)
	assert.Equal(t, model.OrderStatusPending, o.Status)
	assert.Equal(t, before.Items, o.Items)
	assert.True(t, before.Subtotal.Equal(o.Subtotal))
	assert.True(t, before.DeliveryFee.Equal(o.DeliveryFee))
	assert.True(t, before.Tax.Equal(o.Tax))
	assert.True(t, before.Total.Equal(o.Total))
	assert.Equal(t, "30", o.Total.String())
	assert.Equal(t, storetest.Now, o.CreatedAt)
	assert.Equal(t, storetest.Now.Add(25*time.Minute), o.EstimatedDelivery)
	assert.Equal(t, "Sonner deux fois", *o.SpecialInstructions)
	assert.Nil(t, o.DeliveredAt)
	assert.Nil(t, o.DriverID)

	pi := result.PaymentIntent
	assert.Equal(t, "pi_order_1", pi.ID)
	assert.Regexp(t, `^cs_c[0-9a-z]+$`, pi.ClientSecret)
	assert.True(t, pi.Amount.Equal(o.Total))
	assert.Equal(t, "eur", pi.Currency)

	after, err := f.carts.Get(f.ctx, "user1")
	require.NoError(t, err)
	assert.Empty(t, after.Items)
	assert.Nil(t, after.RestaurantID)

	stored, err := f.store.FindOrder("order_1")
	require.NoError(t, err)
	assert.Same(t, o, stored)

	published := f.publisher.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeOrderPlaced, published[0].Type)
	assert.Equal(t, "order_1", published[0].OrderID)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := setup(t)

	_, err := f.orders.PlaceOrder(f.ctx, "user1", model.PlaceOrderInput{RestaurantID: "1", DeliveryAddress: "ici"})
	assert.ErrorIs(t, err, failure.ErrEmptyCart)

	// empty cart is reported before the restaurant is resolved
	_, err = f.orders.PlaceOrder(f.ctx, "user1", model.PlaceOrderInput{RestaurantID: "404", DeliveryAddress: "ici"})
	assert.ErrorIs(t, err, failure.ErrEmptyCart)

	assert.Empty(t, f.store.Orders("user1"))
	assert.Empty(t, f.publisher.Events())
}

func TestPlaceOrder_UnknownRestaurant(t *testing.T) {
	f := setup(t)

	_, err := f.carts.AddItem(f.ctx, "user1", "p1", 1)
	require.NoError(t, err)

	_, err = f.orders.PlaceOrder(f.ctx, "user1", model.PlaceOrderInput{RestaurantID: "404", DeliveryAddress: "ici"})
	assert.ErrorIs(t, err, failure.ErrNotFound)

	c, err := f.carts.Get(f.ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)
}

func TestPlaceOrder_PublishFailureDoesNotFail(t *testing.T) {
	f := setup(t)
	f.publisher.Err = errors.New("broker down")

	_, err := f.carts.AddItem(f.ctx, "user1", "s5", 1)
	require.NoError(t, err)

	result, err := f.orders.PlaceOrder(f.ctx, "user1", model.PlaceOrderInput{RestaurantID: "2", DeliveryAddress: "ici"})
	require.NoError(t, err)
	assert.Equal(t, "33", result.Order.Total.String())
}

type fixedIDs struct {
	ids []string
}

func (g *fixedIDs) NewID() (string, error) {
	id := g.ids[0]
	if len(g.ids) > 1 {
		g.ids = g.ids[1:]
	}
	return id, nil
}

func TestPlaceOrder_RetriesDuplicateIDs(t *testing.T) {
	f := setup(t, order.WithIDGenerator(&fixedIDs{ids: []string{"order_a", "order_a", "order_b"}}))

	for _, userID := range []string{"user1", "user2"} {
		_, err := f.carts.AddItem(f.ctx, userID, "p1", 1)
		require.NoError(t, err)
	}

	first, err := f.orders.PlaceOrder(f.ctx, "user1", model.PlaceOrderInput{RestaurantID: "1", DeliveryAddress: "ici"})
	require.NoError(t, err)
	second, err := f.orders.PlaceOrder(f.ctx, "user2", model.PlaceOrderInput{RestaurantID: "1", DeliveryAddress: "ici"})
	require.NoError(t, err)

	assert.Equal(t, "order_a", first.Order.ID)
	assert.Equal(t, "order_b", second.Order.ID)
}

func TestPlaceOrder_GivesUpOnPersistentConflict(t *testing.T) {
	f := setup(t, order.WithIDGenerator(&fixedIDs{ids: []string{"order_a"}}))

	for _, userID := range []string{"user1", "user2"} {
		_, err := f.carts.AddItem(f.ctx, userID, "p1", 1)
		require.NoError(t, err)
	}

	_, err := f.orders.PlaceOrder(f.ctx, "user1", model.PlaceOrderInput{RestaurantID: "1", DeliveryAddress: "ici"})
	require.NoError(t, err)
	_, err = f.orders.PlaceOrder(f.ctx, "user2", model.PlaceOrderInput{RestaurantID: "1", DeliveryAddress: "ici"})
	assert.ErrorIs(t, err, failure.ErrConflict)

	c, err := f.carts.Get(f.ctx, "user2")
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)
}

func TestPlaceOrder_ConcurrentUniqueIDs(t *testing.T) {
	f := setup(t, order.WithIDGenerator(order.UUIDGenerator{}))

	users := []string{"user1", "user2", "user3", "user4", "user5", "user6"}
	for _, userID := range users {
		_, err := f.carts.AddItem(f.ctx, userID, "s1", 1)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for _, userID := range users {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := f.orders.PlaceOrder(f.ctx, userID, model.PlaceOrderInput{RestaurantID: "2", DeliveryAddress: "ici"})
			assert.NoError(t, err)
		}(userID)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, userID := range users {
		orders := f.store.Orders(userID)
		require.Len(t, orders, 1)
		assert.Regexp(t, `^order_[0-9a-f-]{36}$`, orders[0].ID)
		assert.False(t, seen[orders[0].ID])
		seen[orders[0].ID] = true
	}
}
