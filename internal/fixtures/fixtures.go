// Package fixtures holds the seed catalog the service starts from when no snapshot exists.
package fixtures

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/shopspring/decimal"
	"github.com/vvakame/foodexpress/internal/model"
	"github.com/vvakame/foodexpress/internal/store"
)

//go:embed seed.yaml
var seed []byte

// Document is the YAML form of the seed data. Money is written as plain numbers.
type Document struct {
	Restaurants   []Restaurant   `yaml:"restaurants"`
	Users         []User         `yaml:"users"`
	Drivers       []Driver       `yaml:"drivers,omitempty"`
	Notifications []Notification `yaml:"notifications,omitempty"`
	Coupons       []Coupon       `yaml:"coupons,omitempty"`
}

type Restaurant struct {
	ID           string     `yaml:"id"`
	Name         string     `yaml:"name"`
	Cuisine      string     `yaml:"cuisine"`
	Rating       float64    `yaml:"rating"`
	DeliveryTime int        `yaml:"deliveryTime"`
	IsOpen       bool       `yaml:"isOpen"`
	Address      string     `yaml:"address"`
	ImageURL     string     `yaml:"imageUrl,omitempty"`
	MinOrder     float64    `yaml:"minOrder"`
	Latitude     *float64   `yaml:"latitude,omitempty"`
	Longitude    *float64   `yaml:"longitude,omitempty"`
	Menu         []MenuItem `yaml:"menu"`
}

type MenuItem struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Category    string  `yaml:"category"`
	Available   bool    `yaml:"available"`
}

type User struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Email     string   `yaml:"email"`
	Phone     string   `yaml:"phone"`
	Address   string   `yaml:"address"`
	Favorites []string `yaml:"favorites"`
	CreatedAt string   `yaml:"createdAt,omitempty"`
}

type Driver struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Phone     string   `yaml:"phone"`
	Vehicle   string   `yaml:"vehicle"`
	Rating    float64  `yaml:"rating"`
	Latitude  *float64 `yaml:"latitude,omitempty"`
	Longitude *float64 `yaml:"longitude,omitempty"`
}

type Notification struct {
	ID        string `yaml:"id"`
	UserID    string `yaml:"userId"`
	Title     string `yaml:"title"`
	Message   string `yaml:"message"`
	Read      bool   `yaml:"read,omitempty"`
	CreatedAt string `yaml:"createdAt"`
}

type Coupon struct {
	Code            string  `yaml:"code"`
	Description     string  `yaml:"description"`
	DiscountPercent float64 `yaml:"discountPercent"`
	MinOrder        float64 `yaml:"minOrder"`
	ExpiresAt       string  `yaml:"expiresAt,omitempty"`
}

func Parse(b []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &doc, nil
}

func Encode(doc *Document) ([]byte, error) {
	b, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fixtures: %w", err)
	}
	return b, nil
}

// Default returns the embedded seed data.
func Default() (*store.Snapshot, error) {
	doc, err := Parse(seed)
	if err != nil {
		return nil, err
	}
	return doc.Snapshot()
}

func LoadFile(path string) (*store.Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc.Snapshot()
}

// Load reads path, or the embedded seed data when path is empty.
func Load(path string) (*store.Snapshot, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Snapshot converts the document into the store's snapshot shape.
func (doc *Document) Snapshot() (*store.Snapshot, error) {
	snap := &store.Snapshot{
		Carts:         map[string]*model.Cart{},
		Notifications: map[string][]*model.Notification{},
	}

	for _, r := range doc.Restaurants {
		restaurant := &model.Restaurant{
			ID:                  r.ID,
			Name:                r.Name,
			Cuisine:             r.Cuisine,
			Rating:              r.Rating,
			DeliveryTimeMinutes: r.DeliveryTime,
			IsOpen:              r.IsOpen,
			Address:             r.Address,
			MinOrder:            money(r.MinOrder),
			Latitude:            r.Latitude,
			Longitude:           r.Longitude,
			Menu:                make([]model.MenuItem, 0, len(r.Menu)),
		}
		if r.ImageURL != "" {
			imageURL := r.ImageURL
			restaurant.ImageURL = &imageURL
		}
		for _, item := range r.Menu {
			if item.Price <= 0 {
				return nil, fmt.Errorf("menu item %q: price must be positive", item.ID)
			}
			restaurant.Menu = append(restaurant.Menu, model.MenuItem{
				ID:          item.ID,
				Name:        item.Name,
				Description: item.Description,
				Price:       money(item.Price),
				Category:    item.Category,
				Available:   item.Available,
			})
		}
		snap.Restaurants = append(snap.Restaurants, restaurant)
	}

	for _, u := range doc.Users {
		createdAt, err := optionalTime(u.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", u.ID, err)
		}
		favorites := append([]string{}, u.Favorites...)
		snap.Users = append(snap.Users, &model.User{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Phone:     u.Phone,
			Address:   u.Address,
			Favorites: favorites,
			CreatedAt: createdAt,
		})
	}

	for _, d := range doc.Drivers {
		snap.Drivers = append(snap.Drivers, &model.Driver{
			ID:        d.ID,
			Name:      d.Name,
			Phone:     d.Phone,
			Vehicle:   d.Vehicle,
			Rating:    d.Rating,
			Latitude:  d.Latitude,
			Longitude: d.Longitude,
		})
	}

	for _, n := range doc.Notifications {
		createdAt, err := time.Parse(time.RFC3339, n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("notification %q: %w", n.ID, err)
		}
		snap.Notifications[n.UserID] = append(snap.Notifications[n.UserID], &model.Notification{
			ID:        n.ID,
			UserID:    n.UserID,
			Title:     n.Title,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: createdAt,
		})
	}

	for _, c := range doc.Coupons {
		expiresAt, err := optionalTime(c.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("coupon %q: %w", c.Code, err)
		}
		snap.Coupons = append(snap.Coupons, &model.Coupon{
			Code:            c.Code,
			Description:     c.Description,
			DiscountPercent: decimal.NewFromFloat(c.DiscountPercent),
			MinOrder:        money(c.MinOrder),
			ExpiresAt:       expiresAt,
		})
	}

	return snap, nil
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func optionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
