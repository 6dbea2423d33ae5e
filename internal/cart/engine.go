// Package cart implements the per-user shopping cart.
//
// A cart is either empty, with no restaurant binding, or active, holding lines
// that all belong to the restaurant it is bound to. Totals are recomputed on
// every mutation.
package cart

import (
	"context"

	"github.com/vvakame/foodexpress/internal/failure"
	"github.com/vvakame/foodexpress/internal/log"
	"github.com/vvakame/foodexpress/internal/model"
	"github.com/vvakame/foodexpress/internal/store"
)

type Engine struct {
	store *store.Store
}

func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s}
}

// Get returns the caller's cart. A user without a cart gets an empty one, which is not stored.
func (e *Engine) Get(ctx context.Context, userID string) (*model.Cart, error) {
	cart, _ := e.store.Cart(userID)
	Recompute(cart)
	return cart, nil
}

func (e *Engine) AddItem(ctx context.Context, userID, itemID string, quantity int) (*model.Cart, error) {
	if quantity <= 0 {
		return nil, failure.InvalidArgument("quantity must be positive, got %d", quantity)
	}

	restaurant, item, err := e.store.FindMenuItem(itemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, failure.Unavailable("menu item %q is not available", itemID)
	}

	unlock := e.store.LockUser(userID)
	defer unlock()

	cart, _ := e.store.Cart(userID)
	if !cart.IsEmpty() && cart.RestaurantID != nil && *cart.RestaurantID != restaurant.ID {
		return nil, failure.RestaurantMismatch("cart already holds items from restaurant %q", *cart.RestaurantID)
	}

	if idx, ok := cart.Line(itemID); ok {
		cart.Items[idx].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, model.CartLine{
			ItemID:    item.ID,
			Name:      item.Name,
			Quantity:  quantity,
			UnitPrice: item.Price,
		})
	}
	restaurantID := restaurant.ID
	cart.RestaurantID = &restaurantID

	return e.save(ctx, userID, cart, "add item", "itemID", itemID, "quantity", quantity)
}

// UpdateItem overwrites the quantity of an existing line. A quantity of zero or less removes the line.
func (e *Engine) UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*model.Cart, error) {
	unlock := e.store.LockUser(userID)
	defer unlock()

	cart, _ := e.store.Cart(userID)
	idx, ok := cart.Line(itemID)
	if !ok {
		return nil, failure.NotFound("item %q is not in the cart", itemID)
	}
	if quantity <= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity = quantity
	}

	return e.save(ctx, userID, cart, "update item", "itemID", itemID, "quantity", quantity)
}

// RemoveItem drops the line for itemID. Removing an item that is not in the cart is a no-op.
func (e *Engine) RemoveItem(ctx context.Context, userID, itemID string) (*model.Cart, error) {
	unlock := e.store.LockUser(userID)
	defer unlock()

	cart, _ := e.store.Cart(userID)
	if idx, ok := cart.Line(itemID); ok {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	}

	return e.save(ctx, userID, cart, "remove item", "itemID", itemID)
}

func (e *Engine) Clear(ctx context.Context, userID string) (*model.Cart, error) {
	unlock := e.store.LockUser(userID)
	defer unlock()

	e.store.DeleteCart(userID)
	log.FromContext(ctx).V(1).Info("cart cleared", "userID", userID)

	cart := model.NewCart()
	Recompute(cart)
	return cart, nil
}

func (e *Engine) save(ctx context.Context, userID string, cart *model.Cart, action string, keysAndValues ...interface{}) (*model.Cart, error) {
	Recompute(cart)
	e.store.PutCart(userID, cart)

	keysAndValues = append(keysAndValues, "userID", userID, "lines", len(cart.Items), "total", cart.Total.String())
	log.FromContext(ctx).V(1).Info(action, keysAndValues...)

	return cart, nil
}
