package data

import "context"

type RecipeStatus string

const (
	TEMPORARY RecipeStatus = "temporary"
	PERMANENT RecipeStatus = "permanent"
)

type StarredRecipeDTO struct {
	UserId        string       `dynamodbav:"userId"`
	RecipeId      string       `dynamodbav:"recipeId"`
	Title         string       `dynamodbav:"title"`
	Description   string       `dynamodbav:"description"`
	ImageUrl      string       `dynamodbav:"imageUrl"`
	Constraint    string       `dynamodbav:"constraint"`
	Status        RecipeStatus `dynamodbav:"status,omitempty"`
	TTLExpiration *int64       `dynamodbav:"ttlExpiration,omitempty"`
}

type StarredRecipeRepository interface {
	Get(ctx context.Context, userId string, recipeId string) (StarredRecipeDTO, error)
	Put(ctx context.Context, recipe StarredRecipeDTO) error
	Delete(ctx context.Context, userId string, recipeId string) error
	List(ctx context.Context, userId string, params QueryParams) (QueryResults[StarredRecipeDTO], error)
}
