package recipes

import (
	"context"

	"go.uber.org/zap"
	"kitchenwise.dev/api/internal/data"
	"kitchenwise.dev/api/internal/dynamodb/services"
	"kitchenwise.dev/api/internal/dynamodb/token"
)

const (
	USER_ID        = "userId"
	RECIPE_ID      = "recipeId"
	TTL_EXPIRATION = "ttlExpiration"
)

const DEFAULT_PAGE_SIZE = 10

func Schema(tableName string) services.TableSchema {
	return services.TableSchema{
		TableName:    tableName,
		PartitionKey: USER_ID,
		SortKey:      RECIPE_ID,
	}
}

type StarredRecipeDynamoDBService struct {
	Repository services.RepositoryDynamoDBService[data.StarredRecipeDTO]
}

func NewStarredRecipeService(store services.ItemStore, marshaler token.TokenMarshaler, logger *zap.Logger) data.StarredRecipeRepository {
	return &StarredRecipeDynamoDBService{
		Repository: services.RepositoryDynamoDBService[data.StarredRecipeDTO]{
			Store:          store,
			TokenMarshaler: marshaler,
			Name:           "recipe",
			Logger:         logger,
		},
	}
}

func (rs *StarredRecipeDynamoDBService) Get(ctx context.Context, userId string, recipeId string) (data.StarredRecipeDTO, error) {
	return rs.Repository.Get(ctx, rs.Repository.Key(userId, recipeId), recipeId)
}

func (rs *StarredRecipeDynamoDBService) Put(ctx context.Context, recipe data.StarredRecipeDTO) error {
	return rs.Repository.Put(ctx, recipe)
}

func (rs *StarredRecipeDynamoDBService) Delete(ctx context.Context, userId string, recipeId string) error {
	return rs.Repository.Delete(ctx, rs.Repository.Key(userId, recipeId))
}

func (rs *StarredRecipeDynamoDBService) List(ctx context.Context, userId string, params data.QueryParams) (data.QueryResults[data.StarredRecipeDTO], error) {
	return rs.Repository.Query(ctx, userId, services.Query{Partition: userId}, params, DEFAULT_PAGE_SIZE)
}
