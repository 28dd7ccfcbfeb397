package recipes

import (
	"math"
	"time"

	"kitchenwise.dev/api/internal/data"
)

// Lifecycle is either Temporary or Permanent.
type Lifecycle interface {
	Status() data.RecipeStatus
}

type Temporary struct {
	ExpiresAt time.Time
}

func (Temporary) Status() data.RecipeStatus {
	return data.TEMPORARY
}

type Permanent struct{}

func (Permanent) Status() data.RecipeStatus {
	return data.PERMANENT
}

type Recipe struct {
	UserId      string
	RecipeId    string
	Title       string
	Description string
	ImageUrl    string
	Constraint  string
	Lifecycle   Lifecycle
}

// FromDTO reads a stored record. A record without a status predates the
// lifecycle and is permanent.
func FromDTO(dto data.StarredRecipeDTO) Recipe {
	recipe := Recipe{
		UserId:      dto.UserId,
		RecipeId:    dto.RecipeId,
		Title:       dto.Title,
		Description: dto.Description,
		ImageUrl:    dto.ImageUrl,
		Constraint:  dto.Constraint,
		Lifecycle:   Permanent{},
	}
	if dto.Status == data.TEMPORARY {
		temporary := Temporary{}
		if dto.TTLExpiration != nil {
			temporary.ExpiresAt = time.Unix(*dto.TTLExpiration, 0).UTC()
		}
		recipe.Lifecycle = temporary
	}
	return recipe
}

func (r Recipe) ToDTO() data.StarredRecipeDTO {
	dto := data.StarredRecipeDTO{
		UserId:      r.UserId,
		RecipeId:    r.RecipeId,
		Title:       r.Title,
		Description: r.Description,
		ImageUrl:    r.ImageUrl,
		Constraint:  r.Constraint,
		Status:      data.PERMANENT,
	}
	if temporary, ok := r.Lifecycle.(Temporary); ok {
		expiration := temporary.ExpiresAt.Unix()
		dto.Status = data.TEMPORARY
		dto.TTLExpiration = &expiration
	}
	return dto
}

func (r Recipe) IsPermanent() bool {
	_, ok := r.Lifecycle.(Permanent)
	return ok
}

// Expired reports a temporary recipe the TTL sweep has not removed yet.
func (r Recipe) Expired(now time.Time) bool {
	temporary, ok := r.Lifecycle.(Temporary)
	return ok && !temporary.ExpiresAt.After(now)
}

type RecipeView struct {
	RecipeId        string            `json:"recipeId"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	ImageUrl        string            `json:"imageUrl"`
	Constraint      string            `json:"constraint"`
	Status          data.RecipeStatus `json:"status"`
	TTLExpiration   *int64            `json:"ttlExpiration,omitempty"`
	IsTemporary     bool              `json:"isTemporary"`
	ExpiresAt       *string           `json:"expiresAt"`
	DaysUntilExpiry *int              `json:"daysUntilExpiry"`
}

func (r Recipe) View(now time.Time) RecipeView {
	dto := r.ToDTO()
	view := RecipeView{
		RecipeId:      r.RecipeId,
		Title:         r.Title,
		Description:   r.Description,
		ImageUrl:      r.ImageUrl,
		Constraint:    r.Constraint,
		Status:        dto.Status,
		TTLExpiration: dto.TTLExpiration,
	}
	if temporary, ok := r.Lifecycle.(Temporary); ok {
		expiresAt := temporary.ExpiresAt.UTC().Format(time.RFC3339)
		days := int(math.Ceil(temporary.ExpiresAt.Sub(now).Hours() / 24))
		view.IsTemporary = true
		view.ExpiresAt = &expiresAt
		view.DaysUntilExpiry = &days
	}
	return view
}

type RecipeList struct {
	Items            []RecipeView `json:"items"`
	TemporaryRecipes []RecipeView `json:"temporaryRecipes"`
	PermanentRecipes []RecipeView `json:"permanentRecipes"`
	NextToken        *string      `json:"nextToken,omitempty"`
	TotalCount       int          `json:"totalCount"`
	TemporaryCount   int          `json:"temporaryCount"`
	PermanentCount   int          `json:"permanentCount"`
	HasMore          bool         `json:"hasMore"`
}
