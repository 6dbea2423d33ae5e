package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusOnTheWay  OrderStatus = "ON_THE_WAY"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

var AllOrderStatus = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusOnTheWay,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) IsValid() bool {
	for _, status := range AllOrderStatus {
		if s == status {
			return true
		}
	}
	return false
}

// IsActive reports whether the order has not reached a terminal status yet.
func (s OrderStatus) IsActive() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled:
		return false
	default:
		return s.IsValid()
	}
}

func (s OrderStatus) String() string {
	return string(s)
}

type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Available   bool            `json:"available"`
}

// Restaurant is catalog reference data. Values handed out by the store are shared and must not be modified.
type Restaurant struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Cuisine             string          `json:"cuisine"`
	Rating              float64         `json:"rating"`
	DeliveryTimeMinutes int             `json:"deliveryTime"`
	IsOpen              bool            `json:"isOpen"`
	Address             string          `json:"address"`
	ImageURL            *string         `json:"imageUrl"`
	MinOrder            decimal.Decimal `json:"minOrder"`
	Latitude            *float64        `json:"latitude"`
	Longitude           *float64        `json:"longitude"`
	Menu                []MenuItem      `json:"menu"`
}

func (r *Restaurant) DeliveryTime() time.Duration {
	return time.Duration(r.DeliveryTimeMinutes) * time.Minute
}

type CartLine struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
}

func (l CartLine) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	Items        []CartLine      `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	DeliveryFee  decimal.Decimal `json:"deliveryFee"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	RestaurantID *string         `json:"restaurantId"`
}

// NewCart returns the empty cart every user starts with.
func NewCart() *Cart {
	return &Cart{
		Items: []CartLine{},
	}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Line(itemID string) (int, bool) {
	for i, line := range c.Items {
		if line.ItemID == itemID {
			return i, true
		}
	}
	return -1, false
}

func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	copied := *c
	copied.Items = make([]CartLine, len(c.Items))
	copy(copied.Items, c.Items)
	if c.RestaurantID != nil {
		id := *c.RestaurantID
		copied.RestaurantID = &id
	}
	return &copied
}

type Order struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"userId"`
	RestaurantID        string          `json:"restaurantId"`
	Items               []CartLine      `json:"items"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	DeliveryFee         decimal.Decimal `json:"deliveryFee"`
	Tax                 decimal.Decimal `json:"tax"`
	Total               decimal.Decimal `json:"total"`
	Status              OrderStatus     `json:"status"`
	DeliveryAddress     string          `json:"deliveryAddress"`
	SpecialInstructions *string         `json:"specialInstructions"`
	CreatedAt           time.Time       `json:"createdAt"`
	EstimatedDelivery   time.Time       `json:"estimatedDelivery"`
	DeliveredAt         *time.Time      `json:"deliveredAt"`
	DriverID            *string         `json:"driverId"`
}

type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	Favorites []string   `json:"favorites"`
	CreatedAt *time.Time `json:"createdAt"`
}

func (u *User) HasFavorite(restaurantID string) bool {
	for _, id := range u.Favorites {
		if id == restaurantID {
			return true
		}
	}
	return false
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	copied := *u
	copied.Favorites = append([]string{}, u.Favorites...)
	return &copied
}

type Driver struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Vehicle   string   `json:"vehicle"`
	Rating    float64  `json:"rating"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type Coupon struct {
	Code            string          `json:"code"`
	Description     string          `json:"description"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	MinOrder        decimal.Decimal `json:"minOrder"`
	ExpiresAt       *time.Time      `json:"expiresAt"`
}

type PaymentIntent struct {
	ID           string          `json:"id"`
	ClientSecret string          `json:"clientSecret"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
}

type PlaceOrderResult struct {
	Order         *Order         `json:"order"`
	PaymentIntent *PaymentIntent `json:"paymentIntent"`
}

type Dashboard struct {
	ActiveOrders        []*Order        `json:"activeOrders"`
	RecentOrders        []*Order        `json:"recentOrders"`
	FavoriteRestaurants []*Restaurant   `json:"favoriteRestaurants"`
	Cart                *Cart           `json:"cart"`
	Notifications       []*Notification `json:"notifications"`
}

type PlaceOrderInput struct {
	RestaurantID        string  `mapstructure:"restaurantId"`
	DeliveryAddress     string  `mapstructure:"deliveryAddress"`
	SpecialInstructions *string `mapstructure:"specialInstructions"`
}

// ProfileInput carries a partial profile update. nil fields are left untouched.
type ProfileInput struct {
	Name      *string  `mapstructure:"name"`
	Email     *string  `mapstructure:"email"`
	Phone     *string  `mapstructure:"phone"`
	Address   *string  `mapstructure:"address"`
	Favorites []string `mapstructure:"favorites"`
}
