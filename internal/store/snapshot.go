package store

import (
	"github.com/vvakame/foodexpress/internal/model"
)

// Snapshot is the serializable form of every collection the store owns.
type Snapshot struct {
	Restaurants   []*model.Restaurant              `json:"restaurants"`
	Users         []*model.User                    `json:"users"`
	Orders        []*model.Order                   `json:"orders"`
	Carts         map[string]*model.Cart           `json:"carts"`
	Drivers       []*model.Driver                  `json:"drivers"`
	Notifications map[string][]*model.Notification `json:"notifications"`
	Coupons       []*model.Coupon                  `json:"coupons"`
}

// Snapshot exports the current state. Carts and users are deep copied, the rest is immutable and shared.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		Restaurants:   append([]*model.Restaurant{}, s.restaurants...),
		Users:         make([]*model.User, 0, len(s.users)),
		Orders:        append([]*model.Order{}, s.orders...),
		Carts:         make(map[string]*model.Cart, len(s.carts)),
		Drivers:       append([]*model.Driver{}, s.drivers...),
		Notifications: make(map[string][]*model.Notification, len(s.notifications)),
		Coupons:       append([]*model.Coupon{}, s.coupons...),
	}
	for _, user := range s.users {
		snap.Users = append(snap.Users, user.Clone())
	}
	for userID, cart := range s.carts {
		snap.Carts[userID] = cart.Clone()
	}
	for userID, list := range s.notifications {
		snap.Notifications[userID] = append([]*model.Notification{}, list...)
	}

	return snap
}
