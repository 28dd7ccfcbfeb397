package data

import "context"

type PantryItemDTO struct {
	UserId     string `dynamodbav:"userId"`
	SortKey    string `dynamodbav:"sortKey"`
	ItemId     string `dynamodbav:"itemId"`
	Title      string `dynamodbav:"title"`
	Type       string `dynamodbav:"type"`
	Location   string `dynamodbav:"location"`
	ExpiryDate string `dynamodbav:"expiryDate"`
	Count      int    `dynamodbav:"count"`
	Notes      string `dynamodbav:"notes,omitempty"`
}

// PantryItemChangesDTO lists field changes; nil fields are left untouched.
type PantryItemChangesDTO struct {
	Title      *string `dynamodbav:"title"`
	Type       *string `dynamodbav:"type"`
	Location   *string `dynamodbav:"location"`
	ExpiryDate *string `dynamodbav:"expiryDate"`
	Count      *int    `dynamodbav:"count"`
	Notes      *string `dynamodbav:"notes"`
}

type PantryQuery struct {
	SortKeyPrefix string
	Location      *string
	QueryParams
}

type PantryItemRepository interface {
	Get(ctx context.Context, userId string, sortKey string) (PantryItemDTO, error)
	FindByItemId(ctx context.Context, userId string, itemId string) (PantryItemDTO, error)
	Put(ctx context.Context, item PantryItemDTO) error
	Update(ctx context.Context, userId string, sortKey string, changes PantryItemChangesDTO) (PantryItemDTO, error)
	Rekey(ctx context.Context, fromSortKey string, item PantryItemDTO) error
	Delete(ctx context.Context, userId string, sortKey string) error
	List(ctx context.Context, userId string, query PantryQuery) (QueryResults[PantryItemDTO], error)
}
