package sortkey

import (
	"strings"

	"kitchenwise.dev/api/internal/exceptions"
)

const Separator = "#"

type ItemType string

const (
	DAIRY      ItemType = "Dairy"
	PRODUCE    ItemType = "Produce"
	MEAT       ItemType = "Meat"
	GRAINS     ItemType = "Grains"
	SNACKS     ItemType = "Snacks"
	BEVERAGES  ItemType = "Beverages"
	CONDIMENTS ItemType = "Condiments"
	FROZEN     ItemType = "Frozen"
	OTHER_TYPE ItemType = "Other"
)

var ItemTypes = []ItemType{DAIRY, PRODUCE, MEAT, GRAINS, SNACKS, BEVERAGES, CONDIMENTS, FROZEN, OTHER_TYPE}

type Location string

const (
	FRIDGE         Location = "Fridge"
	FREEZER        Location = "Freezer"
	PANTRY         Location = "Pantry"
	COUNTER        Location = "Counter"
	OTHER_LOCATION Location = "Other"
)

var Locations = []Location{FRIDGE, FREEZER, PANTRY, COUNTER, OTHER_LOCATION}

// ParseType returns false for anything outside the enumeration, callers treat that as no filter.
func ParseType(value string) (ItemType, bool) {
	for _, t := range ItemTypes {
		if string(t) == value {
			return t, true
		}
	}
	return "", false
}

func ParseLocation(value string) (Location, bool) {
	for _, l := range Locations {
		if string(l) == value {
			return l, true
		}
	}
	return "", false
}

// Encode builds "type#location#itemId". Components are not escaped.
func Encode(itemType ItemType, location Location, itemId string) string {
	return strings.Join([]string{string(itemType), string(location), itemId}, Separator)
}

func Decode(sortKey string) (ItemType, Location, string, error) {
	parts := strings.Split(sortKey, Separator)
	if len(parts) != 3 {
		return "", "", "", exceptions.MalformedKey(sortKey)
	}
	return ItemType(parts[0]), Location(parts[1]), parts[2], nil
}

// Prefix narrows a range query. A location without a type cannot be expressed
// as a prefix and yields "", leaving location filtering to the caller.
func Prefix(itemType *ItemType, location *Location) string {
	if itemType == nil {
		return ""
	}
	if location == nil {
		return string(*itemType) + Separator
	}
	return string(*itemType) + Separator + string(*location) + Separator
}
