package fixtures

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

var cuisines = map[string][]string{
	"Italien":   {"Pizza Margherita", "Lasagnes", "Spaghetti Carbonara", "Tiramisu", "Risotto aux champignons"},
	"Japonais":  {"Maki Saumon", "Ramen", "Tempura", "Soupe Miso", "Gyoza"},
	"Américain": {"Cheeseburger", "Hot Dog", "Ribs BBQ", "Frites Maison", "Apple Pie"},
	"Français":  {"Coq au Vin", "Bœuf Bourguignon", "Ratatouille", "Crème Brûlée", "Crêpe Complète"},
	"Libanais":  {"Falafel", "Houmous", "Taboulé", "Chawarma", "Baklava"},
	"Indien":    {"Poulet Tikka Masala", "Biryani", "Naan au fromage", "Dal", "Samossa"},
}

var categories = []string{"Entrées", "Plats", "Desserts", "Boissons"}

type GenerateOptions struct {
	Restaurants        int
	ItemsPerRestaurant int
	Users              int
	Seed               int64
}

// Generate builds a random catalog. Restaurant ids are cuids and menu item ids are
// derived from them, so ids are unique across the whole document.
func Generate(opts GenerateOptions) *Document {
	if opts.ItemsPerRestaurant <= 0 {
		opts.ItemsPerRestaurant = 4
	}
	fake := faker.NewWithSeed(rand.NewSource(opts.Seed))

	cuisineNames := make([]string, 0, len(cuisines))
	for name := range cuisines {
		cuisineNames = append(cuisineNames, name)
	}
	sort.Strings(cuisineNames)

	doc := &Document{}
	for i := 0; i < opts.Restaurants; i++ {
		cuisine := fake.RandomStringElement(cuisineNames)
		lat := fake.Float64(4, 48, 49)
		lon := fake.Float64(4, 2, 3)
		restaurant := Restaurant{
			ID:           cuid.New(),
			Name:         fake.Company().Name(),
			Cuisine:      cuisine,
			Rating:       fake.Float64(1, 3, 5),
			DeliveryTime: fake.IntBetween(15, 60),
			IsOpen:       fake.IntBetween(0, 9) > 1,
			Address:      fmt.Sprintf("%s, %s", fake.Address().StreetAddress(), fake.Address().City()),
			MinOrder:     float64(fake.IntBetween(5, 25)),
			Latitude:     &lat,
			Longitude:    &lon,
		}
		for j := 0; j < opts.ItemsPerRestaurant; j++ {
			restaurant.Menu = append(restaurant.Menu, MenuItem{
				ID:          fmt.Sprintf("%s-%d", restaurant.ID, j+1),
				Name:        fake.RandomStringElement(cuisines[cuisine]),
				Description: fake.Lorem().Sentence(8),
				Price:       float64(fake.IntBetween(300, 3500)) / 100,
				Category:    fake.RandomStringElement(categories),
				Available:   fake.IntBetween(0, 9) > 0,
			})
		}
		doc.Restaurants = append(doc.Restaurants, restaurant)
	}

	for i := 0; i < opts.Users; i++ {
		var favorites []string
		if len(doc.Restaurants) > 0 {
			favorites = append(favorites, doc.Restaurants[fake.IntBetween(0, len(doc.Restaurants)-1)].ID)
		}
		doc.Users = append(doc.Users, User{
			ID:        fmt.Sprintf("user%d", i+1),
			Name:      fake.Person().Name(),
			Email:     fake.Internet().Email(),
			Phone:     fake.Phone().Number(),
			Address:   fmt.Sprintf("%s, %s", fake.Address().StreetAddress(), fake.Address().City()),
			Favorites: favorites,
		})
	}

	return doc
}
