package recipes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"kitchenwise.dev/api/internal/data"
	"kitchenwise.dev/api/internal/exceptions"
	"kitchenwise.dev/api/internal/provider"
)

const (
	NO_CONSTRAINT  = "No Constraint"
	TEMPORARY_LIFE = 30 * 24 * time.Hour
)

var Constraints = []string{
	NO_CONSTRAINT,
	"Vegetarian",
	"Vegan",
	"Gluten-Free",
	"Dairy-Free",
	"Nut-Free",
	"High Protein",
	"Low Carb",
}

type Service struct {
	Recipes   data.StarredRecipeRepository
	Generator provider.RecipeGenerator
	Images    provider.ImageSearch
	Logger    *zap.Logger
	Now       func() time.Time
	NewId     func() string
}

func NewService(recipes data.StarredRecipeRepository, generator provider.RecipeGenerator, images provider.ImageSearch, logger *zap.Logger) *Service {
	return &Service{
		Recipes:   recipes,
		Generator: generator,
		Images:    images,
		Logger:    logger,
		Now:       time.Now,
		NewId:     uuid.NewString,
	}
}

func ValidateConstraint(constraint string) (string, error) {
	if constraint == "" {
		return NO_CONSTRAINT, nil
	}
	for _, valid := range Constraints {
		if constraint == valid {
			return constraint, nil
		}
	}
	return "", exceptions.Validation(fmt.Sprintf("Invalid constraint. Must be one of: %s", strings.Join(Constraints, ", ")))
}

// GenerateAndPersist stores every generated recipe as temporary. Nothing is
// written when generation fails; a failed image search only leaves the
// image empty.
func (s *Service) GenerateAndPersist(ctx context.Context, userId string, constraint string, items []provider.PantryItemSummary) (Recipe, error) {
	constraint, err := ValidateConstraint(constraint)
	if err != nil {
		return Recipe{}, err
	}
	if len(items) == 0 {
		return Recipe{}, exceptions.Validation("No pantry items found. Please add some items to your pantry first.")
	}
	generated, err := s.Generator.Generate(ctx, constraint, items)
	if err != nil {
		s.Logger.Error("Recipe generation failed", zap.String("userId", userId), zap.Error(err))
		return Recipe{}, err
	}
	imageUrl, err := s.Images.SearchRecipeImage(ctx, generated.Title)
	if err != nil {
		s.Logger.Warn("Recipe image search failed",
			zap.String("userId", userId),
			zap.String("title", generated.Title),
			zap.Error(err))
		imageUrl = ""
	}
	recipe := Recipe{
		UserId:      userId,
		RecipeId:    s.NewId(),
		Title:       generated.Title,
		Description: generated.Description,
		ImageUrl:    imageUrl,
		Constraint:  constraint,
		Lifecycle:   Temporary{ExpiresAt: s.Now().Add(TEMPORARY_LIFE)},
	}
	if err := s.Recipes.Put(ctx, recipe.ToDTO()); err != nil {
		return Recipe{}, err
	}
	s.Logger.Info("Generated recipe",
		zap.String("userId", userId),
		zap.String("recipeId", recipe.RecipeId),
		zap.String("constraint", constraint))
	return recipe, nil
}

func (s *Service) Get(ctx context.Context, userId string, recipeId string) (Recipe, error) {
	dto, err := s.Recipes.Get(ctx, userId, recipeId)
	if err != nil {
		return Recipe{}, err
	}
	recipe := FromDTO(dto)
	if recipe.Expired(s.Now()) {
		return Recipe{}, exceptions.NotFound("recipe", recipeId)
	}
	return recipe, nil
}

// Star promotes a recipe to permanent. Starring a permanent recipe returns it unchanged.
func (s *Service) Star(ctx context.Context, userId string, recipeId string) (Recipe, error) {
	recipe, err := s.Get(ctx, userId, recipeId)
	if err != nil {
		return recipe, err
	}
	if recipe.IsPermanent() {
		return recipe, nil
	}
	recipe.Lifecycle = Permanent{}
	if err := s.Recipes.Put(ctx, recipe.ToDTO()); err != nil {
		return Recipe{}, err
	}
	s.Logger.Info("Starred recipe", zap.String("userId", userId), zap.String("recipeId", recipeId))
	return recipe, nil
}

// Unstar removes a starred recipe and reports whether anything was removed.
// A recipe that is not starred is left untouched.
func (s *Service) Unstar(ctx context.Context, userId string, recipeId string) (bool, error) {
	recipe, err := s.Get(ctx, userId, recipeId)
	if err != nil {
		return false, err
	}
	if !recipe.IsPermanent() {
		return false, nil
	}
	if err := s.Recipes.Delete(ctx, userId, recipeId); err != nil {
		return false, err
	}
	s.Logger.Info("Unstarred recipe", zap.String("userId", userId), zap.String("recipeId", recipeId))
	return true, nil
}

func (s *Service) List(ctx context.Context, userId string, params data.QueryParams) (RecipeList, error) {
	page, err := s.Recipes.List(ctx, userId, params)
	if err != nil {
		return RecipeList{}, err
	}
	now := s.Now()
	list := RecipeList{
		Items:            []RecipeView{},
		TemporaryRecipes: []RecipeView{},
		PermanentRecipes: []RecipeView{},
		NextToken:        page.NextToken,
		HasMore:          page.NextToken != nil,
	}
	for _, dto := range page.Items {
		recipe := FromDTO(dto)
		if recipe.Expired(now) {
			continue
		}
		view := recipe.View(now)
		list.Items = append(list.Items, view)
		if view.IsTemporary {
			list.TemporaryRecipes = append(list.TemporaryRecipes, view)
		} else {
			list.PermanentRecipes = append(list.PermanentRecipes, view)
		}
	}
	list.TotalCount = len(list.Items)
	list.TemporaryCount = len(list.TemporaryRecipes)
	list.PermanentCount = len(list.PermanentRecipes)
	return list, nil
}
