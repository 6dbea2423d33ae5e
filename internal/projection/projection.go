// Package projection derives read models from the store on every call. Nothing here is stored.
package projection

import (
	"github.com/vvakame/foodexpress/internal/cart"
	"github.com/vvakame/foodexpress/internal/failure"
	"github.com/vvakame/foodexpress/internal/model"
	"github.com/vvakame/foodexpress/internal/store"
)

// RecentOrdersLimit bounds Dashboard.RecentOrders.
const RecentOrdersLimit = 5

type Projector struct {
	store *store.Store
}

func New(s *store.Store) *Projector {
	return &Projector{store: s}
}

// MyOrders lists userID's orders in append order, keeping only status when it is given.
func (p *Projector) MyOrders(userID string, status *model.OrderStatus) []*model.Order {
	orders := p.store.Orders(userID)
	if status == nil {
		return orders
	}

	filtered := make([]*model.Order, 0, len(orders))
	for _, order := range orders {
		if order.Status == *status {
			filtered = append(filtered, order)
		}
	}
	return filtered
}

// Order returns the order only when userID owns it.
func (p *Projector) Order(userID, orderID string) (*model.Order, error) {
	order, err := p.store.FindOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, failure.NotFound("order %q not found", orderID)
	}
	return order, nil
}

func (p *Projector) Dashboard(userID string) (*model.Dashboard, error) {
	orders := p.store.Orders(userID)

	active := make([]*model.Order, 0)
	for _, order := range orders {
		if order.Status.IsActive() {
			active = append(active, order)
		}
	}

	recent := orders
	if len(recent) > RecentOrdersLimit {
		recent = recent[:RecentOrdersLimit]
	}

	favorites := []*model.Restaurant{}
	if user, err := p.store.FindUser(userID); err == nil {
		favorites = p.FavoriteRestaurants(user)
	}

	c, _ := p.store.Cart(userID)
	cart.Recompute(c)

	return &model.Dashboard{
		ActiveOrders:        active,
		RecentOrders:        recent,
		FavoriteRestaurants: favorites,
		Cart:                c,
		Notifications:       p.store.Notifications(userID),
	}, nil
}

func (p *Projector) MyProfile(userID string) (*model.User, error) {
	return p.store.FindUser(userID)
}

func (p *Projector) OrderRestaurant(order *model.Order) (*model.Restaurant, error) {
	return p.store.FindRestaurant(order.RestaurantID)
}

// OrderDriver returns nil when no driver is assigned or the driver is unknown.
func (p *Projector) OrderDriver(order *model.Order) *model.Driver {
	if order.DriverID == nil {
		return nil
	}
	driver, err := p.store.FindDriver(*order.DriverID)
	if err != nil {
		return nil
	}
	return driver
}

func (p *Projector) CartRestaurant(c *model.Cart) *model.Restaurant {
	if c.RestaurantID == nil {
		return nil
	}
	restaurant, err := p.store.FindRestaurant(*c.RestaurantID)
	if err != nil {
		return nil
	}
	return restaurant
}

// FavoriteRestaurants filters the catalog by the user's favorites, keeping catalog order.
func (p *Projector) FavoriteRestaurants(user *model.User) []*model.Restaurant {
	list := make([]*model.Restaurant, 0, len(user.Favorites))
	for _, restaurant := range p.store.Restaurants(store.RestaurantFilter{}) {
		if user.HasFavorite(restaurant.ID) {
			list = append(list, restaurant)
		}
	}
	return list
}

func (p *Projector) IsFavorite(userID, restaurantID string) bool {
	user, err := p.store.FindUser(userID)
	if err != nil {
		return false
	}
	return user.HasFavorite(restaurantID)
}

func (p *Projector) Coupons() []*model.Coupon {
	return p.store.Coupons()
}
