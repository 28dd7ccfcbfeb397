package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"kitchenwise.dev/api/internal/data"
)

func item(title, itemType, location, expiry string, count int) data.PantryItemDTO {
	return data.PantryItemDTO{
		Title:      title,
		Type:       itemType,
		Location:   location,
		ExpiryDate: expiry,
		Count:      count,
	}
}

func TestCompute(t *testing.T) {
	today := time.Date(2025, 1, 10, 15, 30, 0, 0, time.UTC)

	t.Run("Empty", func(t *testing.T) {
		stats := Compute(nil, today)
		assert.Equal(t, Overview{MostPopulatedLocation: NONE}, stats.Overview)
		assert.Equal(t, NONE, stats.InventoryInsights.MostCommonType)
		assert.Len(t, stats.LocationBreakdown, 5)
		assert.Len(t, stats.TypeBreakdown, 9)
		assert.Equal(t, 0, stats.LocationBreakdown["Fridge"])
		assert.Equal(t, 0, stats.TypeBreakdown["Condiments"])
	})

	t.Run("Aggregates", func(t *testing.T) {
		stats := Compute([]data.PantryItemDTO{
			item("Milk", "Dairy", "Fridge", "2025-01-09", 2),
			item("Yogurt", "Dairy", "Fridge", "2025-01-10", 6),
			item("Apples", "Produce", "Counter", "2025-01-17", 3),
			item("Peas", "Frozen", "Freezer", "2025-01-18", 5),
			item("Rice", "Grains", "Pantry", "2025-01-24", 1),
			item("Beans", "Grains", "Pantry", "2025-01-25", 4),
			item("Salt", "Condiments", "Pantry", "2025-02-09", 1),
			item("Honey", "Condiments", "Pantry", "2027-01-01", 1),
			item("Mystery", "Other", "Other", "someday", 3),
		}, today)

		assert.Equal(t, Overview{
			TotalItems:              26,
			UniqueItems:             9,
			AverageItemsPerLocation: 5,
			MostPopulatedLocation:   "Fridge",
		}, stats.Overview)
		assert.Equal(t, map[string]int{
			"Fridge":  8,
			"Freezer": 5,
			"Pantry":  7,
			"Counter": 3,
			"Other":   3,
		}, stats.LocationBreakdown)
		assert.Equal(t, 8, stats.TypeBreakdown["Dairy"])
		assert.Equal(t, 0, stats.TypeBreakdown["Meat"])
		assert.Equal(t, ExpiryAlerts{
			Expired: 1,
			Urgent:  2,
			Warning: 2,
			Notice:  2,
		}, stats.ExpiryAlerts)
		assert.Equal(t, InventoryInsights{
			LowStockItems:  4,
			HighStockItems: 2,
			MostCommonType: "Dairy",
		}, stats.InventoryInsights)
	})
}
