package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvakame/foodexpress/internal/store"
)

func TestDefault(t *testing.T) {
	snap, err := Default()
	require.NoError(t, err)

	require.Len(t, snap.Restaurants, 4)
	pizza := snap.Restaurants[0]
	assert.Equal(t, "Pizza Napoli", pizza.Name)
	assert.Equal(t, 25, pizza.DeliveryTimeMinutes)
	assert.Equal(t, "15", pizza.MinOrder.String())
	require.NotNil(t, pizza.ImageURL)
	require.Len(t, pizza.Menu, 4)
	assert.Equal(t, "12.5", pizza.Menu[0].Price.String())
	assert.Equal(t, "Maki Saumon (6 pièces)", snap.Restaurants[1].Menu[0].Name)

	require.Len(t, snap.Users, 2)
	assert.Equal(t, []string{"1", "2"}, snap.Users[0].Favorites)
	require.NotNil(t, snap.Users[1].CreatedAt)
	assert.Equal(t, "2024-01-02T14:30:00Z", snap.Users[1].CreatedAt.Format("2006-01-02T15:04:05Z07:00"))

	assert.Len(t, snap.Drivers, 2)
	assert.Len(t, snap.Notifications["user1"], 1)
	require.Len(t, snap.Coupons, 1)
	assert.Equal(t, "10", snap.Coupons[0].DiscountPercent.String())

	_, err = store.New(snap)
	require.NoError(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(heredoc.Doc(`
		restaurants:
		  - id: r1
		    name: Chez Test
		    cuisine: Français
		    deliveryTime: 15
		    isOpen: false
		    minOrder: 8
		    menu:
		      - { id: i1, name: Soupe, price: 0.1, available: true }
		users:
		  - id: u1
		    name: Test
		    favorites: []
	`)), 0o600))

	snap, err := Load(path)
	require.NoError(t, err)
	require.Len(t, snap.Restaurants, 1)
	assert.False(t, snap.Restaurants[0].IsOpen)
	assert.Nil(t, snap.Restaurants[0].ImageURL)
	assert.Equal(t, "0.1", snap.Restaurants[0].Menu[0].Price.String())
	assert.Nil(t, snap.Users[0].CreatedAt)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSnapshot_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"non positive price", heredoc.Doc(`
			restaurants:
			  - id: r1
			    menu:
			      - { id: i1, price: 0 }
		`)},
		{"bad timestamp", heredoc.Doc(`
			users:
			  - id: u1
			    createdAt: yesterday
		`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			_, err = doc.Snapshot()
			assert.Error(t, err)
		})
	}
}

func TestGenerate(t *testing.T) {
	doc := Generate(GenerateOptions{Restaurants: 5, ItemsPerRestaurant: 3, Users: 4, Seed: 7})

	require.Len(t, doc.Restaurants, 5)
	require.Len(t, doc.Users, 4)

	itemIDs := map[string]bool{}
	for _, restaurant := range doc.Restaurants {
		assert.NotEmpty(t, restaurant.Name)
		assert.Contains(t, cuisines, restaurant.Cuisine)
		require.Len(t, restaurant.Menu, 3)
		for _, item := range restaurant.Menu {
			assert.False(t, itemIDs[item.ID], "duplicate item id %s", item.ID)
			itemIDs[item.ID] = true
			assert.Greater(t, item.Price, 0.0)
		}
	}

	b, err := Encode(doc)
	require.NoError(t, err)
	parsed, err := Parse(b)
	require.NoError(t, err)

	snap, err := parsed.Snapshot()
	require.NoError(t, err)
	s, err := store.New(snap)
	require.NoError(t, err)
	assert.Len(t, s.Restaurants(store.RestaurantFilter{}), 5)

	for _, user := range doc.Users {
		for _, favorite := range user.Favorites {
			_, err := s.FindRestaurant(favorite)
			assert.NoError(t, err)
		}
	}
}
