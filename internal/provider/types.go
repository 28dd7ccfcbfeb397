package provider

import "context"

type PantryItemSummary struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type GeneratedRecipe struct {
	Title       string
	Description string
}

// RecipeGenerator failures are *exceptions.GenerationFailedError.
type RecipeGenerator interface {
	Generate(ctx context.Context, constraint string, items []PantryItemSummary) (GeneratedRecipe, error)
}

// ImageSearch returns "" with a nil error when nothing matched.
type ImageSearch interface {
	SearchRecipeImage(ctx context.Context, title string) (string, error)
}

type CredentialProvider interface {
	APIKey(ctx context.Context, name string) (string, error)
}
