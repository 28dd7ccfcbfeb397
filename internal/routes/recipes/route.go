package recipes

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"kitchenwise.dev/api/internal/data"
	"kitchenwise.dev/api/internal/provider"
	"kitchenwise.dev/api/internal/recipes"
	"kitchenwise.dev/api/internal/routes"
	"kitchenwise.dev/api/internal/routes/util"
)

type Recipes interface {
	GenerateAndPersist(ctx context.Context, userId string, constraint string, items []provider.PantryItemSummary) (recipes.Recipe, error)
	Get(ctx context.Context, userId string, recipeId string) (recipes.Recipe, error)
	Star(ctx context.Context, userId string, recipeId string) (recipes.Recipe, error)
	Unstar(ctx context.Context, userId string, recipeId string) (bool, error)
	List(ctx context.Context, userId string, params data.QueryParams) (recipes.RecipeList, error)
}

// PantryItems supplies the ingredients recipes are generated from.
type PantryItems interface {
	ListAll(ctx context.Context, userId string) ([]data.PantryItemDTO, error)
}

type RecipeService struct {
	recipes Recipes
	pantry  PantryItems
}

func NewRoute(recipes Recipes, pantry PantryItems) routes.Service {
	return &RecipeService{
		recipes: recipes,
		pantry:  pantry,
	}
}

func (rs *RecipeService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"POST:/recipes/generate":         util.AuthorizedRoute(rs.GenerateRecipe),
		"GET:/recipes":                   util.AuthorizedRoute(rs.ListRecipes),
		"GET:/recipes/:recipeId":         util.AuthorizedRoute(rs.GetRecipe),
		"PUT:/recipes/:recipeId/star":    util.AuthorizedRoute(rs.StarRecipe),
		"DELETE:/recipes/:recipeId/star": util.AuthorizedRoute(rs.UnstarRecipe),
	}
}

func (rs *RecipeService) GenerateRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[GenerateInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	constraint, err := recipes.ValidateConstraint(input.Constraint)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	userId := util.UserId(ctx)
	items, err := rs.pantry.ListAll(ctx, userId)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	summaries := make([]provider.PantryItemSummary, len(items))
	for i, item := range items {
		summaries[i] = provider.PantryItemSummary{
			Name:     item.Title,
			Quantity: item.Count,
		}
	}
	recipe, err := rs.recipes.GenerateAndPersist(ctx, userId, constraint, summaries)
	return util.SerializeResponseOK(NewRecipe, recipe, err)
}

func (rs *RecipeService) ListRecipes(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	params, err := util.ParseQueryParams(event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	list, err := rs.recipes.List(ctx, util.UserId(ctx), params)
	return util.SerializeResponseOK(util.Identity[recipes.RecipeList], list, err)
}

func (rs *RecipeService) GetRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	recipe, err := rs.recipes.Get(ctx, util.UserId(ctx), util.RequestParam(ctx, "recipeId"))
	return util.SerializeResponseOK(NewRecipe, recipe, err)
}

func (rs *RecipeService) StarRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	recipe, err := rs.recipes.Star(ctx, util.UserId(ctx), util.RequestParam(ctx, "recipeId"))
	return util.SerializeResponseOK(NewRecipe, recipe, err)
}

func (rs *RecipeService) UnstarRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	recipeId := util.RequestParam(ctx, "recipeId")
	removed, err := rs.recipes.Unstar(ctx, util.UserId(ctx), recipeId)
	return util.SerializeResponseOK(func(removed bool) UnstarResult {
		return NewUnstarResult(recipeId, removed)
	}, removed, err)
}
