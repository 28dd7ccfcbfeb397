package pantry

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"kitchenwise.dev/api/internal/data"
	"kitchenwise.dev/api/internal/exceptions"
	"kitchenwise.dev/api/internal/sortkey"
	"kitchenwise.dev/api/internal/validation"
)

type CreateInput struct {
	Title      string `json:"title" validate:"notblank,max=50"`
	Count      int    `json:"count" validate:"gte=1"`
	ExpiryDate string `json:"expiryDate" validate:"datetime=2006-01-02"`
	Type       string `json:"type" validate:"oneof=Dairy Produce Meat Grains Snacks Beverages Condiments Frozen Other"`
	Location   string `json:"location" validate:"oneof=Fridge Freezer Pantry Counter Other"`
	Notes      string `json:"notes,omitempty" validate:"max=200"`
}

// Patch holds the fields of a partial update; nil means "leave unchanged".
type Patch struct {
	Title      *string `json:"title,omitempty" validate:"omitempty,notblank,max=50"`
	Count      *int    `json:"count,omitempty" validate:"omitempty,gte=1"`
	ExpiryDate *string `json:"expiryDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Type       *string `json:"type,omitempty" validate:"omitempty,oneof=Dairy Produce Meat Grains Snacks Beverages Condiments Frozen Other"`
	Location   *string `json:"location,omitempty" validate:"omitempty,oneof=Fridge Freezer Pantry Counter Other"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=200"`
}

// Normalized drops empty-string fields so they are skipped rather than
// validated. An empty title stays and is rejected as blank.
func (p Patch) Normalized() Patch {
	for _, field := range []**string{&p.ExpiryDate, &p.Type, &p.Location, &p.Notes} {
		if *field != nil && **field == "" {
			*field = nil
		}
	}
	return p
}

func (p Patch) IsEmpty() bool {
	for _, s := range []*string{p.Title, p.ExpiryDate, p.Type, p.Location, p.Notes} {
		if s != nil && *s != "" {
			return false
		}
	}
	return p.Count == nil
}

type Filter struct {
	Type      string
	Location  string
	Limit     int
	NextToken *string
}

var messages = map[string]string{
	"title.notblank": "Title is required and must be a non-empty string",
	"title.max":      "Title must be 50 characters or fewer",
	"count":          "Count must be a positive number",
	"expiryDate":     "Expiry date must be a string in YYYY-MM-DD format",
	"type":           "Invalid type",
	"location":       "Invalid location",
	"notes":          "Invalid notes",
}

type Service struct {
	Items     data.PantryItemRepository
	Validator *validation.Validator
	Logger    *zap.Logger
	NewId     func() string
}

func NewService(items data.PantryItemRepository, logger *zap.Logger) *Service {
	return &Service{
		Items:     items,
		Validator: validation.New(messages),
		Logger:    logger,
		NewId:     uuid.NewString,
	}
}

func (s *Service) Create(ctx context.Context, userId string, input CreateInput) (data.PantryItemDTO, error) {
	if err := s.Validator.Struct(input); err != nil {
		return data.PantryItemDTO{}, err
	}
	itemId := s.NewId()
	item := data.PantryItemDTO{
		UserId:     userId,
		SortKey:    sortkey.Encode(sortkey.ItemType(input.Type), sortkey.Location(input.Location), itemId),
		ItemId:     itemId,
		Title:      input.Title,
		Type:       input.Type,
		Location:   input.Location,
		ExpiryDate: input.ExpiryDate,
		Count:      input.Count,
		Notes:      input.Notes,
	}
	if err := s.Items.Put(ctx, item); err != nil {
		return data.PantryItemDTO{}, err
	}
	s.Logger.Info("Created pantry item",
		zap.String("userId", userId),
		zap.String("itemId", itemId),
		zap.String("sortKey", item.SortKey))
	return item, nil
}

func (s *Service) _locate(ctx context.Context, userId string, itemId string) (data.PantryItemDTO, error) {
	item, err := s.Items.FindByItemId(ctx, userId, itemId)
	if err != nil {
		return item, err
	}
	if _, _, _, err := sortkey.Decode(item.SortKey); err != nil {
		s.Logger.Error("Stored pantry item has a malformed sort key",
			zap.String("userId", userId),
			zap.String("itemId", itemId),
			zap.String("sortKey", item.SortKey))
		return item, err
	}
	return item, nil
}

func (s *Service) Get(ctx context.Context, userId string, itemId string) (data.PantryItemDTO, error) {
	return s._locate(ctx, userId, itemId)
}

func (s *Service) Delete(ctx context.Context, userId string, itemId string) error {
	item, err := s._locate(ctx, userId, itemId)
	if err != nil {
		return err
	}
	return s.Items.Delete(ctx, userId, item.SortKey)
}

// Update merges patch into the stored item. A type or location change that
// moves the sort key rewrites the record under its new key.
func (s *Service) Update(ctx context.Context, userId string, itemId string, patch Patch) (data.PantryItemDTO, error) {
	patch = patch.Normalized()
	if err := s.Validator.Struct(patch); err != nil {
		return data.PantryItemDTO{}, err
	}
	if patch.IsEmpty() {
		return data.PantryItemDTO{}, exceptions.Validation("No valid fields to update")
	}
	existing, err := s._locate(ctx, userId, itemId)
	if err != nil {
		return existing, err
	}
	if patch.Type != nil || patch.Location != nil {
		merged := _merge(existing, patch)
		merged.SortKey = sortkey.Encode(sortkey.ItemType(merged.Type), sortkey.Location(merged.Location), itemId)
		if merged.SortKey != existing.SortKey {
			if err := s.Items.Rekey(ctx, existing.SortKey, merged); err != nil {
				return data.PantryItemDTO{}, err
			}
			s.Logger.Info("Moved pantry item",
				zap.String("userId", userId),
				zap.String("itemId", itemId),
				zap.String("from", existing.SortKey),
				zap.String("to", merged.SortKey))
			return merged, nil
		}
	}
	return s.Items.Update(ctx, userId, existing.SortKey, data.PantryItemChangesDTO{
		Title:      patch.Title,
		Type:       patch.Type,
		Location:   patch.Location,
		ExpiryDate: patch.ExpiryDate,
		Count:      patch.Count,
		Notes:      patch.Notes,
	})
}

func _merge(item data.PantryItemDTO, patch Patch) data.PantryItemDTO {
	set := func(target *string, value *string) {
		if value != nil && *value != "" {
			*target = *value
		}
	}
	set(&item.Title, patch.Title)
	set(&item.Type, patch.Type)
	set(&item.Location, patch.Location)
	set(&item.ExpiryDate, patch.ExpiryDate)
	set(&item.Notes, patch.Notes)
	if patch.Count != nil {
		item.Count = *patch.Count
	}
	return item
}

// List pages through a user's items. Unknown type or location values are ignored.
func (s *Service) List(ctx context.Context, userId string, filter Filter) (data.QueryResults[data.PantryItemDTO], error) {
	query := data.PantryQuery{
		QueryParams: data.QueryParams{
			Limit:     filter.Limit,
			NextToken: filter.NextToken,
		},
	}
	itemType, hasType := sortkey.ParseType(filter.Type)
	location, hasLocation := sortkey.ParseLocation(filter.Location)
	switch {
	case hasType && hasLocation:
		query.SortKeyPrefix = sortkey.Prefix(&itemType, &location)
	case hasType:
		query.SortKeyPrefix = sortkey.Prefix(&itemType, nil)
	case hasLocation:
		value := string(location)
		query.Location = &value
	}
	return s.Items.List(ctx, userId, query)
}

// ListAll drains every page of a user's items.
func (s *Service) ListAll(ctx context.Context, userId string) ([]data.PantryItemDTO, error) {
	var all []data.PantryItemDTO
	var nextToken *string
	for {
		page, err := s.Items.List(ctx, userId, data.PantryQuery{
			QueryParams: data.QueryParams{
				Limit:     data.MAX_PAGE_SIZE,
				NextToken: nextToken,
			},
		})
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if page.NextToken == nil {
			return all, nil
		}
		nextToken = page.NextToken
	}
}
