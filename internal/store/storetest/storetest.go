// Package storetest provides a small deterministic catalog for tests.
package storetest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vvakame/foodexpress/internal/model"
	"github.com/vvakame/foodexpress/internal/store"
)

var Now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func Clock() time.Time {
	return Now
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Snapshot returns a fresh catalog with two open restaurants, one closed restaurant and two users.
//
//	restaurant 1 "Pizza Napoli"  (Italien, 25 min): p1 12.50, p2 14.50, p3 6.00, p9 9.00 (unavailable)
//	restaurant 2 "Sushi Zen"     (Japonais, 35 min): s1 8.50, s5 30.00
//	restaurant 3 "Burger House"  (Américain, 20 min, closed): b1 10.50
func Snapshot() *store.Snapshot {
	createdAt := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	return &store.Snapshot{
		Restaurants: []*model.Restaurant{
			{
				ID:                  "1",
				Name:                "Pizza Napoli",
				Cuisine:             "Italien",
				Rating:              4.5,
				DeliveryTimeMinutes: 25,
				IsOpen:              true,
				Address:             "123 Rue de la Pizza, 75001 Paris",
				MinOrder:            price("15.00"),
				Menu: []model.MenuItem{
					{ID: "p1", Name: "Pizza Margherita", Description: "Tomate, mozzarella, basilic", Price: price("12.50"), Category: "Pizzas", Available: true},
					{ID: "p2", Name: "Pizza 4 Fromages", Description: "Mozzarella, gorgonzola, parmesan, chèvre", Price: price("14.50"), Category: "Pizzas", Available: true},
					{ID: "p3", Name: "Tiramisu", Description: "Dessert italien classique", Price: price("6.00"), Category: "Desserts", Available: true},
					{ID: "p9", Name: "Calzone", Description: "Victime de son succès", Price: price("9.00"), Category: "Pizzas", Available: false},
				},
			},
			{
				ID:                  "2",
				Name:                "Sushi Zen",
				Cuisine:             "Japonais",
				Rating:              4.7,
				DeliveryTimeMinutes: 35,
				IsOpen:              true,
				Address:             "456 Avenue du Sushi, 75002 Paris",
				MinOrder:            price("20.00"),
				Menu: []model.MenuItem{
					{ID: "s1", Name: "Maki Saumon", Description: "Saumon frais, riz, algue nori", Price: price("8.50"), Category: "Sushis", Available: true},
					{ID: "s5", Name: "Plateau Omakase", Description: "Sélection du chef", Price: price("30.00"), Category: "Plateaux", Available: true},
				},
			},
			{
				ID:                  "3",
				Name:                "Burger House",
				Cuisine:             "Américain",
				Rating:              4.3,
				DeliveryTimeMinutes: 20,
				IsOpen:              false,
				Address:             "789 Boulevard du Burger, 75003 Paris",
				MinOrder:            price("12.00"),
				Menu: []model.MenuItem{
					{ID: "b1", Name: "Classic Burger", Description: "Steak haché, salade, tomate", Price: price("10.50"), Category: "Burgers", Available: true},
				},
			},
		},
		Users: []*model.User{
			{ID: "user1", Name: "Jean Dupont", Email: "jean@example.com", Phone: "06 12 34 56 78", Address: "10 Rue de l'Exemple, 75015 Paris", Favorites: []string{"1", "2"}, CreatedAt: &createdAt},
			{ID: "user2", Name: "Marie Martin", Email: "marie@example.com", Phone: "06 98 76 54 32", Address: "20 Avenue des Tests, 75016 Paris", Favorites: []string{"3"}, CreatedAt: &createdAt},
		},
		Drivers: []*model.Driver{
			{ID: "d1", Name: "Luc Bernard", Phone: "06 11 22 33 44", Vehicle: "scooter", Rating: 4.8},
		},
		Notifications: map[string][]*model.Notification{
			"user1": {
				{ID: "n1", UserID: "user1", Title: "Bienvenue", Message: "Livraison offerte dès 25 €", CreatedAt: createdAt},
			},
		},
		Coupons: []*model.Coupon{
			{Code: "WELCOME10", Description: "10% sur la première commande", DiscountPercent: price("10"), MinOrder: price("20.00")},
		},
		Carts: map[string]*model.Cart{},
	}
}

// New builds a store from Snapshot with the fixed test clock.
func New(t testing.TB) *store.Store {
	t.Helper()

	s, err := store.New(Snapshot(), store.WithClock(Clock))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// StrPtr is a small helper for optional string fields.
func StrPtr(s string) *string {
	return &s
}
