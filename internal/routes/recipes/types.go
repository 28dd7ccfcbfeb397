package recipes

import (
	"time"

	"kitchenwise.dev/api/internal/recipes"
)

type GenerateInput struct {
	Constraint string `json:"constraint"`
}

// Recipe is a single recipe as rendered at request time.
type Recipe = recipes.RecipeView

func NewRecipe(recipe recipes.Recipe) Recipe {
	return recipe.View(time.Now())
}

type UnstarResult struct {
	RecipeId string `json:"recipeId"`
	Starred  bool   `json:"starred"`
	Message  string `json:"message"`
}

func NewUnstarResult(recipeId string, removed bool) UnstarResult {
	message := "Recipe unstarred"
	if !removed {
		message = "Recipe is not starred"
	}
	return UnstarResult{
		RecipeId: recipeId,
		Starred:  false,
		Message:  message,
	}
}
