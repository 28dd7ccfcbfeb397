package pantry

import (
	"context"

	"go.uber.org/zap"
	"kitchenwise.dev/api/internal/data"
	"kitchenwise.dev/api/internal/dynamodb/services"
	"kitchenwise.dev/api/internal/dynamodb/token"
)

const (
	USER_ID  = "userId"
	SORT_KEY = "sortKey"
	ITEM_ID  = "itemId"
	LOCATION = "location"
)

const DEFAULT_PAGE_SIZE = 5

// Schema describes the pantry table. itemIndex names an optional
// (userId, itemId) global secondary index.
func Schema(tableName string, itemIndex string) services.TableSchema {
	schema := services.TableSchema{
		TableName:    tableName,
		PartitionKey: USER_ID,
		SortKey:      SORT_KEY,
	}
	if itemIndex != "" {
		schema.Indexes = map[string]services.IndexSchema{
			itemIndex: {PartitionKey: USER_ID, SortKey: ITEM_ID},
		}
	}
	return schema
}

type PantryItemDynamoDBService struct {
	Repository services.RepositoryDynamoDBService[data.PantryItemDTO]
	ItemIndex  string
}

func NewPantryItemService(store services.ItemStore, itemIndex string, marshaler token.TokenMarshaler, logger *zap.Logger) data.PantryItemRepository {
	return &PantryItemDynamoDBService{
		Repository: services.RepositoryDynamoDBService[data.PantryItemDTO]{
			Store:          store,
			TokenMarshaler: marshaler,
			Name:           "pantry item",
			Logger:         logger,
		},
		ItemIndex: itemIndex,
	}
}

func (ps *PantryItemDynamoDBService) Get(ctx context.Context, userId string, sortKey string) (data.PantryItemDTO, error) {
	return ps.Repository.Get(ctx, ps.Repository.Key(userId, sortKey), sortKey)
}

func (ps *PantryItemDynamoDBService) FindByItemId(ctx context.Context, userId string, itemId string) (data.PantryItemDTO, error) {
	query := services.Query{
		Partition: userId,
		Filters:   []services.Filter{{Name: ITEM_ID, Value: itemId}},
	}
	if ps.ItemIndex != "" {
		query = services.Query{
			IndexName:     ps.ItemIndex,
			Partition:     userId,
			SortKeyEquals: &itemId,
		}
	}
	item, found, err := ps.Repository.Scan(ctx, query, func(candidate data.PantryItemDTO) bool {
		return candidate.ItemId == itemId
	})
	if err != nil {
		return item, err
	}
	if !found {
		return item, ps.Repository.NotFound(itemId)
	}
	return item, nil
}

func (ps *PantryItemDynamoDBService) Put(ctx context.Context, item data.PantryItemDTO) error {
	return ps.Repository.Put(ctx, item)
}

func (ps *PantryItemDynamoDBService) Update(ctx context.Context, userId string, sortKey string, changes data.PantryItemChangesDTO) (data.PantryItemDTO, error) {
	return ps.Repository.Update(ctx, ps.Repository.Key(userId, sortKey), sortKey, services.Changes{
		"title":      changes.Title,
		"type":       changes.Type,
		"location":   changes.Location,
		"expiryDate": changes.ExpiryDate,
		"count":      changes.Count,
		"notes":      changes.Notes,
	})
}

func (ps *PantryItemDynamoDBService) Rekey(ctx context.Context, fromSortKey string, item data.PantryItemDTO) error {
	return ps.Repository.Rekey(ctx, ps.Repository.Key(item.UserId, fromSortKey), item.ItemId, item)
}

func (ps *PantryItemDynamoDBService) Delete(ctx context.Context, userId string, sortKey string) error {
	return ps.Repository.Delete(ctx, ps.Repository.Key(userId, sortKey))
}

func (ps *PantryItemDynamoDBService) List(ctx context.Context, userId string, query data.PantryQuery) (data.QueryResults[data.PantryItemDTO], error) {
	q := services.Query{
		Partition:     userId,
		SortKeyPrefix: query.SortKeyPrefix,
	}
	if query.Location != nil {
		q.Filters = append(q.Filters, services.Filter{Name: LOCATION, Value: *query.Location})
	}
	return ps.Repository.Query(ctx, userId, q, query.QueryParams, DEFAULT_PAGE_SIZE)
}
