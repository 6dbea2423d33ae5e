package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/vvakame/foodexpress/internal/failure"
	"github.com/vvakame/foodexpress/internal/model"
)

type menuRef struct {
	restaurant *model.Restaurant
	item       *model.MenuItem
}

// Store owns every entity collection of the service.
// Catalog lookups are indexed by id. Cart mutations for one user are serialized with LockUser.
type Store struct {
	mu sync.RWMutex

	restaurants    []*model.Restaurant
	restaurantByID map[string]*model.Restaurant
	itemByID       map[string]menuRef

	users    []*model.User
	userByID map[string]*model.User

	carts map[string]*model.Cart

	orders    []*model.Order
	orderByID map[string]*model.Order

	drivers    []*model.Driver
	driverByID map[string]*model.Driver

	notifications map[string][]*model.Notification
	coupons       []*model.Coupon

	userLocks [userLockShards]sync.Mutex

	now func() time.Time
}

type Option func(s *Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(snap *Snapshot, opts ...Option) (*Store, error) {
	if snap == nil {
		snap = &Snapshot{}
	}

	s := &Store{
		restaurantByID: make(map[string]*model.Restaurant),
		itemByID:       make(map[string]menuRef),
		userByID:       make(map[string]*model.User),
		carts:          make(map[string]*model.Cart),
		orderByID:      make(map[string]*model.Order),
		driverByID:     make(map[string]*model.Driver),
		notifications:  make(map[string][]*model.Notification),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, restaurant := range snap.Restaurants {
		if _, ok := s.restaurantByID[restaurant.ID]; ok {
			return nil, fmt.Errorf("duplicate restaurant id %q", restaurant.ID)
		}
		s.restaurants = append(s.restaurants, restaurant)
		s.restaurantByID[restaurant.ID] = restaurant
		for i := range restaurant.Menu {
			item := &restaurant.Menu[i]
			if ref, ok := s.itemByID[item.ID]; ok {
				return nil, fmt.Errorf("menu item %q belongs to both %q and %q", item.ID, ref.restaurant.ID, restaurant.ID)
			}
			s.itemByID[item.ID] = menuRef{restaurant: restaurant, item: item}
		}
	}

	for _, user := range snap.Users {
		if _, ok := s.userByID[user.ID]; ok {
			return nil, fmt.Errorf("duplicate user id %q", user.ID)
		}
		user = user.Clone()
		s.users = append(s.users, user)
		s.userByID[user.ID] = user
	}

	for userID, cart := range snap.Carts {
		if cart == nil || cart.IsEmpty() {
			continue
		}
		s.carts[userID] = cart.Clone()
	}

	for _, order := range snap.Orders {
		if _, ok := s.orderByID[order.ID]; ok {
			return nil, fmt.Errorf("duplicate order id %q", order.ID)
		}
		s.orders = append(s.orders, order)
		s.orderByID[order.ID] = order
	}

	for _, driver := range snap.Drivers {
		s.drivers = append(s.drivers, driver)
		s.driverByID[driver.ID] = driver
	}

	for userID, list := range snap.Notifications {
		s.notifications[userID] = append([]*model.Notification{}, list...)
	}

	s.coupons = append(s.coupons, snap.Coupons...)

	return s, nil
}

const userLockShards = 256

// LockUser acquires the lock guarding userID's cart and returns its release function.
// Users share a fixed set of locks by hash, so unrelated users may occasionally wait on each other.
func (s *Store) LockUser(userID string) func() {
	m := &s.userLocks[userLockShard(userID)]
	m.Lock()
	return m.Unlock
}

func userLockShard(userID string) uint64 {
	return xxhash.Sum64String(userID) % userLockShards
}

type RestaurantFilter struct {
	Cuisine *string
	IsOpen  *bool
}

// Restaurants lists the catalog in insertion order. Cuisine matches case-insensitively.
func (s *Store) Restaurants(filter RestaurantFilter) []*model.Restaurant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*model.Restaurant, 0, len(s.restaurants))
	for _, restaurant := range s.restaurants {
		if filter.Cuisine != nil && *filter.Cuisine != "" && !strings.EqualFold(restaurant.Cuisine, *filter.Cuisine) {
			continue
		}
		if filter.IsOpen != nil && restaurant.IsOpen != *filter.IsOpen {
			continue
		}
		list = append(list, restaurant)
	}
	return list
}

func (s *Store) FindRestaurant(id string) (*model.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	restaurant, ok := s.restaurantByID[id]
	if !ok {
		return nil, failure.NotFound("restaurant %q not found", id)
	}
	return restaurant, nil
}

// FindMenuItem resolves a menu item together with the restaurant that owns it.
func (s *Store) FindMenuItem(itemID string) (*model.Restaurant, *model.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ref, ok := s.itemByID[itemID]
	if !ok {
		return nil, nil, failure.NotFound("menu item %q not found", itemID)
	}
	return ref.restaurant, ref.item, nil
}

// Cart returns a copy of userID's cart. The second value is false when the user has no stored cart.
func (s *Store) Cart(userID string) (*model.Cart, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[userID]
	if !ok {
		return model.NewCart(), false
	}
	return cart.Clone(), true
}

// PutCart stores a copy of cart. An empty cart removes the entry.
func (s *Store) PutCart(userID string, cart *model.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cart == nil || cart.IsEmpty() {
		delete(s.carts, userID)
		return
	}
	s.carts[userID] = cart.Clone()
}

func (s *Store) DeleteCart(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
}

// AppendOrder adds order to the order log. Ids are unique across the log.
func (s *Store) AppendOrder(order *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orderByID[order.ID]; ok {
		return failure.Conflict("order id %q already exists", order.ID)
	}
	s.orders = append(s.orders, order)
	s.orderByID[order.ID] = order
	return nil
}

// Orders returns userID's orders in the order they were appended.
func (s *Store) Orders(userID string) []*model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*model.Order, 0)
	for _, order := range s.orders {
		if order.UserID == userID {
			list = append(list, order)
		}
	}
	return list
}

func (s *Store) FindOrder(id string) (*model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orderByID[id]
	if !ok {
		return nil, failure.NotFound("order %q not found", id)
	}
	return order, nil
}

func (s *Store) FindUser(id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.userByID[id]
	if !ok {
		return nil, failure.NotFound("user %q not found", id)
	}
	return user.Clone(), nil
}

// UpsertUser applies a partial profile update, creating the user when it does not exist yet.
func (s *Store) UpsertUser(id string, input model.ProfileInput) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Favorites != nil {
		for _, restaurantID := range input.Favorites {
			if _, ok := s.restaurantByID[restaurantID]; !ok {
				return nil, failure.NotFound("restaurant %q not found", restaurantID)
			}
		}
	}

	user, ok := s.userByID[id]
	if !ok {
		now := s.now()
		user = &model.User{
			ID:        id,
			Favorites: []string{},
			CreatedAt: &now,
		}
		s.users = append(s.users, user)
		s.userByID[id] = user
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.Favorites != nil {
		favorites := make([]string, 0, len(input.Favorites))
		seen := make(map[string]struct{}, len(input.Favorites))
		for _, restaurantID := range input.Favorites {
			if _, ok := seen[restaurantID]; ok {
				continue
			}
			seen[restaurantID] = struct{}{}
			favorites = append(favorites, restaurantID)
		}
		user.Favorites = favorites
	}

	return user.Clone(), nil
}

func (s *Store) FindDriver(id string) (*model.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	driver, ok := s.driverByID[id]
	if !ok {
		return nil, failure.NotFound("driver %q not found", id)
	}
	return driver, nil
}

func (s *Store) Notifications(userID string) []*model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]*model.Notification{}, s.notifications[userID]...)
}

func (s *Store) Coupons() []*model.Coupon {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]*model.Coupon{}, s.coupons...)
}
