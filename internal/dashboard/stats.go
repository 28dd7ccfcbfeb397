package dashboard

import (
	"math"
	"time"

	"kitchenwise.dev/api/internal/data"
	"kitchenwise.dev/api/internal/sortkey"
)

const NONE = "None"

type Overview struct {
	TotalItems              int    `json:"totalItems"`
	UniqueItems             int    `json:"uniqueItems"`
	AverageItemsPerLocation int    `json:"averageItemsPerLocation"`
	MostPopulatedLocation   string `json:"mostPopulatedLocation"`
}

type ExpiryAlerts struct {
	Urgent  int `json:"urgent"`
	Warning int `json:"warning"`
	Notice  int `json:"notice"`
	Expired int `json:"expired"`
}

type InventoryInsights struct {
	LowStockItems  int    `json:"lowStockItems"`
	HighStockItems int    `json:"highStockItems"`
	MostCommonType string `json:"mostCommonType"`
}

type Stats struct {
	Overview          Overview          `json:"overview"`
	LocationBreakdown map[string]int    `json:"locationBreakdown"`
	TypeBreakdown     map[string]int    `json:"typeBreakdown"`
	ExpiryAlerts      ExpiryAlerts      `json:"expiryAlerts"`
	InventoryInsights InventoryInsights `json:"inventoryInsights"`
}

// _largest picks the key with the highest total in enum order, so ties go to the earlier value.
func _largest(keys []string, totals map[string]int) string {
	largest, max := NONE, 0
	for _, key := range keys {
		if totals[key] > max {
			largest, max = key, totals[key]
		}
	}
	return largest
}

// Compute aggregates a user's items. Expiry buckets are whole days from
// today: expired before today, urgent 0-7, warning 8-14, notice 15-30.
// Items with an unreadable expiry date fall in no bucket.
func Compute(items []data.PantryItemDTO, today time.Time) Stats {
	stats := Stats{
		LocationBreakdown: make(map[string]int, len(sortkey.Locations)),
		TypeBreakdown:     make(map[string]int, len(sortkey.ItemTypes)),
	}
	locations := make([]string, 0, len(sortkey.Locations))
	for _, location := range sortkey.Locations {
		locations = append(locations, string(location))
		stats.LocationBreakdown[string(location)] = 0
	}
	itemTypes := make([]string, 0, len(sortkey.ItemTypes))
	for _, itemType := range sortkey.ItemTypes {
		itemTypes = append(itemTypes, string(itemType))
		stats.TypeBreakdown[string(itemType)] = 0
	}
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	for _, item := range items {
		stats.Overview.TotalItems += item.Count
		stats.LocationBreakdown[item.Location] += item.Count
		stats.TypeBreakdown[item.Type] += item.Count
		switch {
		case item.Count <= 2:
			stats.InventoryInsights.LowStockItems++
		case item.Count >= 5:
			stats.InventoryInsights.HighStockItems++
		}
		expiry, err := time.Parse("2006-01-02", item.ExpiryDate)
		if err != nil {
			continue
		}
		days := int(expiry.Sub(midnight).Hours() / 24)
		switch {
		case days < 0:
			stats.ExpiryAlerts.Expired++
		case days <= 7:
			stats.ExpiryAlerts.Urgent++
		case days <= 14:
			stats.ExpiryAlerts.Warning++
		case days <= 30:
			stats.ExpiryAlerts.Notice++
		}
	}
	stats.Overview.UniqueItems = len(items)
	populated := 0
	for _, location := range locations {
		if stats.LocationBreakdown[location] > 0 {
			populated++
		}
	}
	if populated > 0 {
		stats.Overview.AverageItemsPerLocation = int(math.Round(float64(stats.Overview.TotalItems) / float64(populated)))
	}
	stats.Overview.MostPopulatedLocation = _largest(locations, stats.LocationBreakdown)
	stats.InventoryInsights.MostCommonType = _largest(itemTypes, stats.TypeBreakdown)
	return stats
}
