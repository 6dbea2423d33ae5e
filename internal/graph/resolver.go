package graph

import (
	"context"
	"fmt"

	"github.com/99designs/gqlgen/graphql"
	"github.com/mitchellh/mapstructure"
	"github.com/vvakame/foodexpress/internal/cart"
	"github.com/vvakame/foodexpress/internal/execute"
	"github.com/vvakame/foodexpress/internal/model"
	"github.com/vvakame/foodexpress/internal/order"
	"github.com/vvakame/foodexpress/internal/projection"
	"github.com/vvakame/foodexpress/internal/store"
)

type Resolver struct {
	store      *store.Store
	carts      *cart.Engine
	orders     *order.Engine
	projection *projection.Projector
}

func NewResolver(s *store.Store, orders *order.Engine) *Resolver {
	return &Resolver{
		store:      s,
		carts:      cart.NewEngine(s),
		orders:     orders,
		projection: projection.New(s),
	}
}

func (r *Resolver) fieldResolvers() execute.Resolvers {
	return execute.Resolvers{
		"Query.restaurants": r.queryRestaurants,
		"Query.restaurant":  r.queryRestaurant,
		"Query.myCart":      r.queryMyCart,
		"Query.myOrders":    r.queryMyOrders,
		"Query.order":       r.queryOrder,
		"Query.dashboard":   r.queryDashboard,
		"Query.myProfile":   r.queryMyProfile,
		"Query.coupons":     r.queryCoupons,

		"Mutation.addToCart":      r.mutationAddToCart,
		"Mutation.updateCartItem": r.mutationUpdateCartItem,
		"Mutation.removeFromCart": r.mutationRemoveFromCart,
		"Mutation.clearCart":      r.mutationClearCart,
		"Mutation.placeOrder":     r.mutationPlaceOrder,
		"Mutation.updateProfile":  r.mutationUpdateProfile,

		"Restaurant.isFavorite": r.restaurantIsFavorite,
		"CartItem.menuItem":     r.cartItemMenuItem,
		"Cart.restaurant":       r.cartRestaurant,
		"Order.restaurant":      r.orderRestaurant,
		"Order.driver":          r.orderDriver,
		"User.favorites":        r.userFavorites,
	}
}

func (r *Resolver) queryRestaurants(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	var filter store.RestaurantFilter
	if v, ok := args["cuisine"].(string); ok {
		filter.Cuisine = &v
	}
	if v, ok := args["isOpen"].(bool); ok {
		filter.IsOpen = &v
	}
	return r.store.Restaurants(filter), nil
}

func (r *Resolver) queryRestaurant(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	id, err := graphql.UnmarshalID(args["id"])
	if err != nil {
		return nil, err
	}
	return r.store.FindRestaurant(id)
}

func (r *Resolver) queryMyCart(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	return r.carts.Get(ctx, UserID(ctx))
}

func (r *Resolver) queryMyOrders(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	var status *model.OrderStatus
	if v, ok := args["status"].(string); ok {
		s := model.OrderStatus(v)
		status = &s
	}
	return r.projection.MyOrders(UserID(ctx), status), nil
}

func (r *Resolver) queryOrder(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	id, err := graphql.UnmarshalID(args["id"])
	if err != nil {
		return nil, err
	}
	return r.projection.Order(UserID(ctx), id)
}

func (r *Resolver) queryDashboard(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	return r.projection.Dashboard(UserID(ctx))
}

func (r *Resolver) queryMyProfile(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	return r.projection.MyProfile(UserID(ctx))
}

func (r *Resolver) queryCoupons(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	return r.projection.Coupons(), nil
}

func (r *Resolver) mutationAddToCart(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	itemID, quantity, err := cartItemArgs(args)
	if err != nil {
		return nil, err
	}
	return r.carts.AddItem(ctx, UserID(ctx), itemID, quantity)
}

func (r *Resolver) mutationUpdateCartItem(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	itemID, quantity, err := cartItemArgs(args)
	if err != nil {
		return nil, err
	}
	return r.carts.UpdateItem(ctx, UserID(ctx), itemID, quantity)
}

func (r *Resolver) mutationRemoveFromCart(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	itemID, err := graphql.UnmarshalID(args["itemId"])
	if err != nil {
		return nil, err
	}
	return r.carts.RemoveItem(ctx, UserID(ctx), itemID)
}

func (r *Resolver) mutationClearCart(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	return r.carts.Clear(ctx, UserID(ctx))
}

func (r *Resolver) mutationPlaceOrder(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	var input model.PlaceOrderInput
	if err := decodeInput(args["input"], &input); err != nil {
		return nil, err
	}
	return r.orders.PlaceOrder(ctx, UserID(ctx), input)
}

func (r *Resolver) mutationUpdateProfile(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	var input model.ProfileInput
	if err := decodeInput(args["input"], &input); err != nil {
		return nil, err
	}
	return r.store.UpsertUser(UserID(ctx), input)
}

func (r *Resolver) restaurantIsFavorite(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	restaurant, err := sourceAs[model.Restaurant](source)
	if err != nil {
		return nil, err
	}
	return r.projection.IsFavorite(UserID(ctx), restaurant.ID), nil
}

// cartItemMenuItem is null once the item left the catalog.
func (r *Resolver) cartItemMenuItem(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	line, err := sourceAs[model.CartLine](source)
	if err != nil {
		return nil, err
	}
	_, item, err := r.store.FindMenuItem(line.ItemID)
	if err != nil {
		return nil, nil
	}
	return item, nil
}

func (r *Resolver) cartRestaurant(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	c, err := sourceAs[model.Cart](source)
	if err != nil {
		return nil, err
	}
	return r.projection.CartRestaurant(c), nil
}

func (r *Resolver) orderRestaurant(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	o, err := sourceAs[model.Order](source)
	if err != nil {
		return nil, err
	}
	return r.projection.OrderRestaurant(o)
}

func (r *Resolver) orderDriver(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	o, err := sourceAs[model.Order](source)
	if err != nil {
		return nil, err
	}
	return r.projection.OrderDriver(o), nil
}

func (r *Resolver) userFavorites(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	user, err := sourceAs[model.User](source)
	if err != nil {
		return nil, err
	}
	return r.projection.FavoriteRestaurants(user), nil
}

func cartItemArgs(args map[string]interface{}) (string, int, error) {
	itemID, err := graphql.UnmarshalID(args["itemId"])
	if err != nil {
		return "", 0, err
	}
	quantity, err := graphql.UnmarshalInt(args["quantity"])
	if err != nil {
		return "", 0, err
	}
	return itemID, quantity, nil
}

// decodeInput fills an input object struct from its coerced argument map.
func decodeInput(v interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("failed to decode input: %w", err)
	}
	return nil
}

func sourceAs[T any](source interface{}) (*T, error) {
	switch v := source.(type) {
	case *T:
		return v, nil
	case T:
		return &v, nil
	default:
		var zero T
		return nil, fmt.Errorf("unexpected source %T, want %T", source, zero)
	}
}
