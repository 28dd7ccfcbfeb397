package events

import (
	"context"
	"errors"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
	"kitchenwise.dev/api/internal/data"
	"kitchenwise.dev/api/internal/exceptions"
)

const TTL_PRINCIPAL = "dynamodb.amazonaws.com"

// RecipeExpiryHandler observes temporary recipes removed by the TTL sweep.
type RecipeExpiryHandler struct {
	Logger *zap.Logger
}

func (rh *RecipeExpiryHandler) Filter(record events.DynamoDBEventRecord) bool {
	if record.EventName != "REMOVE" || record.UserIdentity == nil {
		return false
	}
	return record.UserIdentity.Type == "Service" && record.UserIdentity.PrincipalID == TTL_PRINCIPAL
}

func (rh *RecipeExpiryHandler) Apply(ctx context.Context, record events.DynamoDBEventRecord) error {
	image := record.Change.OldImage
	fields := []zap.Field{
		zap.String("userId", _string(image, "userId")),
		zap.String("recipeId", _string(image, "recipeId")),
		zap.String("status", _string(image, "status")),
	}
	if ttl, ok := image["ttlExpiration"]; ok && ttl.DataType() == events.DataTypeNumber {
		if expiration, err := strconv.ParseInt(ttl.Number(), 10, 64); err == nil {
			fields = append(fields, zap.Int64("ttlExpiration", expiration))
		}
	}
	rh.Logger.Info("Temporary recipe expired", fields...)
	return nil
}

// RecipeStarredHandler observes promotions and strips a ttlExpiration that
// survived on a permanent record, which the sweep would otherwise delete.
type RecipeStarredHandler struct {
	Recipes data.StarredRecipeRepository
	Logger  *zap.Logger
}

func (sh *RecipeStarredHandler) Filter(record events.DynamoDBEventRecord) bool {
	if record.EventName != "INSERT" && record.EventName != "MODIFY" {
		return false
	}
	return _string(record.Change.NewImage, "status") == string(data.PERMANENT)
}

func (sh *RecipeStarredHandler) Apply(ctx context.Context, record events.DynamoDBEventRecord) error {
	image := record.Change.NewImage
	userId := _string(image, "userId")
	recipeId := _string(image, "recipeId")
	if _string(record.Change.OldImage, "status") == string(data.TEMPORARY) {
		sh.Logger.Info("Recipe starred", zap.String("userId", userId), zap.String("recipeId", recipeId))
	}
	if _, ok := image["ttlExpiration"]; !ok {
		return nil
	}
	recipe, err := sh.Recipes.Get(ctx, userId, recipeId)
	var nfe *exceptions.NotFoundError
	if errors.As(err, &nfe) {
		return nil
	}
	if err != nil {
		return err
	}
	if recipe.Status != data.PERMANENT || recipe.TTLExpiration == nil {
		return nil
	}
	recipe.TTLExpiration = nil
	sh.Logger.Warn("Removing ttlExpiration from permanent recipe",
		zap.String("userId", userId),
		zap.String("recipeId", recipeId))
	return sh.Recipes.Put(ctx, recipe)
}

func DefaultRecipeHandlers(recipes data.StarredRecipeRepository, logger *zap.Logger) []EventFilter {
	return []EventFilter{
		&RecipeExpiryHandler{Logger: logger},
		&RecipeStarredHandler{Recipes: recipes, Logger: logger},
	}
}
