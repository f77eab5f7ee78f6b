package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shaibs3/recipebook/internal/model"
)

type subKey struct {
	main string
	sub  string
}

// MemoryStore keeps the catalog in process memory. It follows the same
// ordering and filtering rules as the SQL stores.
type MemoryStore struct {
	mu            sync.RWMutex
	recipes       map[string]model.NewRecipe
	categories    map[string]model.Category
	subcategories map[subKey]model.Subcategory
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recipes:       make(map[string]model.NewRecipe),
		categories:    make(map[string]model.Category),
		subcategories: make(map[subKey]model.Subcategory),
	}
}

func (m *MemoryStore) ListRecipes(ctx context.Context, filter model.RecipeFilter) ([]model.RecipeSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.RecipeSummary{}
	for name, r := range m.recipes {
		if filter.MainCategory != "" && !hasTag(r, model.TagKindMain, filter.MainCategory) {
			continue
		}
		if filter.SubCategory != "" && !hasTag(r, model.TagKindSub, filter.SubCategory) {
			continue
		}
		for _, img := range r.Images {
			if img.Thumbnail {
				out = append(out, model.RecipeSummary{RecipeName: name, ImageID: img.ImageID})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecipeName < out[j].RecipeName })
	return out, nil
}

func hasTag(r model.NewRecipe, kind model.TagKind, name string) bool {
	for _, t := range r.Tags {
		if t.Kind == kind && t.TagName == name {
			return true
		}
	}
	return false
}

func (m *MemoryStore) ListMainCategories(ctx context.Context) ([]model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryName < out[j].CategoryName })
	return out, nil
}

func (m *MemoryStore) ListSubcategories(ctx context.Context, mainCategory string) ([]model.Subcategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.Subcategory{}
	for k, s := range m.subcategories {
		if k.main == mainCategory {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubCategoryOrder != out[j].SubCategoryOrder {
			return out[i].SubCategoryOrder < out[j].SubCategoryOrder
		}
		return out[i].SubCategoryName < out[j].SubCategoryName
	})
	return out, nil
}

func (m *MemoryStore) AddRecipe(ctx context.Context, recipe model.NewRecipe) error {
	if err := recipe.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.recipes[recipe.Name]; exists {
		return fmt.Errorf("%w: %s", model.ErrDuplicateRecipe, recipe.Name)
	}
	m.recipes[recipe.Name] = cloneRecipe(recipe)
	return nil
}

// Recipe returns the rows persisted for a recipe
func (m *MemoryStore) Recipe(name string) (model.NewRecipe, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.recipes[name]
	if !ok {
		return model.NewRecipe{}, false
	}
	return cloneRecipe(r), true
}

func cloneRecipe(r model.NewRecipe) model.NewRecipe {
	r.Images = append([]model.Image(nil), r.Images...)
	r.Ingredients = append([]model.Ingredient(nil), r.Ingredients...)
	r.Tags = append([]model.Tag(nil), r.Tags...)
	r.Notes = append([]model.Note(nil), r.Notes...)
	return r
}

func (m *MemoryStore) SaveCategories(ctx context.Context, categories []model.Category, subcategories []model.Subcategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range categories {
		m.categories[c.CategoryName] = c
	}
	for _, s := range subcategories {
		m.subcategories[subKey{main: s.MainCategoryName, sub: s.SubCategoryName}] = s
	}
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
