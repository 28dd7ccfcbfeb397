package pantry

import "kitchenwise.dev/api/internal/data"

type PantryItem struct {
	ItemId     string `json:"itemId"`
	SortKey    string `json:"sortKey"`
	Title      string `json:"title"`
	Type       string `json:"type"`
	Location   string `json:"location"`
	ExpiryDate string `json:"expiryDate"`
	Count      int    `json:"count"`
	Notes      string `json:"notes,omitempty"`
}

func NewPantryItem(item data.PantryItemDTO) PantryItem {
	return PantryItem{
		ItemId:     item.ItemId,
		SortKey:    item.SortKey,
		Title:      item.Title,
		Type:       item.Type,
		Location:   item.Location,
		ExpiryDate: item.ExpiryDate,
		Count:      item.Count,
		Notes:      item.Notes,
	}
}
