package catalog

import (
	"context"

	"github.com/shaibs3/recipebook/internal/model"
)

// Store is the relational catalog behind the read and write paths
type Store interface {
	// ListRecipes returns recipes having a thumbnail image, ordered by
	// name, narrowed by the filter's category dimensions.
	ListRecipes(ctx context.Context, filter model.RecipeFilter) ([]model.RecipeSummary, error)
	// ListMainCategories returns every main category ordered by name
	ListMainCategories(ctx context.Context) ([]model.Category, error)
	// ListSubcategories returns the subcategories of one main category
	// ordered by their display order.
	ListSubcategories(ctx context.Context, mainCategory string) ([]model.Subcategory, error)
	// AddRecipe persists a recipe and all its related rows atomically
	AddRecipe(ctx context.Context, recipe model.NewRecipe) error
	// SaveCategories inserts or updates categories and subcategories
	SaveCategories(ctx context.Context, categories []model.Category, subcategories []model.Subcategory) error
	Ping(ctx context.Context) error
	Close() error
}
