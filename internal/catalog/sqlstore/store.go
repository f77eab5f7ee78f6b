package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/shaibs3/recipebook/internal/catalog/shared"
	"github.com/shaibs3/recipebook/internal/model"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements the catalog on top of GORM. The same code serves
// the postgres and sqlite dialects.
type Store struct {
	gormDB  *gorm.DB
	logger  *zap.Logger
	cb      *gobreaker.CircuitBreaker
	metrics *shared.Metrics
}

func newStore(gormDB *gorm.DB, logger *zap.Logger, metrics *shared.Metrics) *Store {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "CatalogDB",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !retryable(err)
		},
	})
	return &Store{
		gormDB:  gormDB,
		logger:  logger,
		cb:      cb,
		metrics: metrics,
	}
}

// retryable reports whether err may succeed on another attempt
func retryable(err error) bool {
	switch {
	case errors.Is(err, model.ErrInvalidRecipe),
		errors.Is(err, model.ErrDuplicateRecipe),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests):
		return false
	}
	return true
}

// do runs fn behind the circuit breaker with retries and records the outcome
func (s *Store) do(ctx context.Context, operation string, fn func(tx *gorm.DB) error) error {
	start := time.Now()
	err := retry.Do(
		func() error {
			_, err := s.cb.Execute(func() (interface{}, error) {
				return nil, fn(s.gormDB.WithContext(ctx))
			})
			return err
		},
		retry.Attempts(3),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn("retrying catalog operation",
				zap.String("operation", operation), zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	s.metrics.Observe(ctx, operation, start, err)
	return err
}

// recipeQuery composes the recipe listing for zero, one or two category
// dimensions. Every value is bound, never interpolated.
func recipeQuery(tx *gorm.DB, filter model.RecipeFilter) *gorm.DB {
	q := tx.Table("recipes AS r").
		Select("r.recipe_name, i.image_id").
		Joins("JOIN recipe_images AS i ON i.recipe_name = r.recipe_name").
		Where("i.thumbnail = ?", true)
	if filter.MainCategory != "" {
		q = q.Joins("JOIN recipe_main_tags AS mt ON mt.recipe_name = r.recipe_name").
			Where("mt.tag_name = ?", filter.MainCategory)
	}
	if filter.SubCategory != "" {
		q = q.Joins("JOIN recipe_sub_tags AS st ON st.recipe_name = r.recipe_name").
			Where("st.tag_name = ?", filter.SubCategory)
	}
	return q.Order("r.recipe_name ASC").Order("i.image_id ASC")
}

func (s *Store) ListRecipes(ctx context.Context, filter model.RecipeFilter) ([]model.RecipeSummary, error) {
	var out []model.RecipeSummary
	err := s.do(ctx, "list_recipes", func(tx *gorm.DB) error {
		out = out[:0]
		return recipeQuery(tx, filter).Scan(&out).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	if out == nil {
		out = []model.RecipeSummary{}
	}
	return out, nil
}

func (s *Store) ListMainCategories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	err := s.do(ctx, "list_main_categories", func(tx *gorm.DB) error {
		out = out[:0]
		return tx.Table("main_categories").
			Select("category_name, category_order").
			Order("category_name ASC").
			Scan(&out).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list main categories: %w", err)
	}
	if out == nil {
		out = []model.Category{}
	}
	return out, nil
}

func (s *Store) ListSubcategories(ctx context.Context, mainCategory string) ([]model.Subcategory, error) {
	var out []model.Subcategory
	err := s.do(ctx, "list_subcategories", func(tx *gorm.DB) error {
		out = out[:0]
		return tx.Table("sub_categories").
			Select("main_category_name, sub_category_name, sub_category_order").
			Where("main_category_name = ?", mainCategory).
			Order("sub_category_order ASC").
			Order("sub_category_name ASC").
			Scan(&out).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list subcategories: %w", err)
	}
	if out == nil {
		out = []model.Subcategory{}
	}
	return out, nil
}

// AddRecipe inserts the recipe and its images, ingredients, notes and
// tags in one transaction. Nothing is kept if any insert fails.
func (s *Store) AddRecipe(ctx context.Context, recipe model.NewRecipe) error {
	if err := recipe.Validate(); err != nil {
		return err
	}
	return s.do(ctx, "add_recipe", func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			return insertRecipe(tx, recipe)
		})
	})
}

func insertRecipe(tx *gorm.DB, recipe model.NewRecipe) error {
	err := tx.Create(&gormRecipe{
		RecipeName:  recipe.Name,
		Description: recipe.Description,
		Servings:    recipe.Servings,
		VideoID:     optional(recipe.VideoID),
	}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", model.ErrDuplicateRecipe, recipe.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}

	if len(recipe.Ingredients) > 0 {
		rows := make([]gormIngredient, len(recipe.Ingredients))
		for i, ing := range recipe.Ingredients {
			rows[i] = gormIngredient{
				RecipeName:          recipe.Name,
				IngredientName:      ing.IngredientName,
				MeasurementType:     ing.MeasurementType,
				MeasurementQuantity: ing.MeasurementQuantity,
				Notes:               optional(ing.Notes),
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert ingredients: %w", err)
		}
	}

	if len(recipe.Notes) > 0 {
		rows := make([]gormNote, len(recipe.Notes))
		for i, n := range recipe.Notes {
			rows[i] = gormNote{RecipeName: recipe.Name, Description: n.Description}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert notes: %w", err)
		}
	}

	images := make([]gormRecipeImage, len(recipe.Images))
	for i, img := range recipe.Images {
		images[i] = gormRecipeImage{ImageID: img.ImageID, RecipeName: recipe.Name, Thumbnail: img.Thumbnail}
	}
	if err := tx.Create(&images).Error; err != nil {
		return fmt.Errorf("failed to insert images: %w", err)
	}

	if names := recipe.MainTags(); len(names) > 0 {
		rows := make([]gormMainTag, len(names))
		for i, name := range names {
			rows[i] = gormMainTag{RecipeName: recipe.Name, TagName: name}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert main tags: %w", err)
		}
	}
	if names := recipe.SubTags(); len(names) > 0 {
		rows := make([]gormSubTag, len(names))
		for i, name := range names {
			rows[i] = gormSubTag{RecipeName: recipe.Name, TagName: name}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert sub tags: %w", err)
		}
	}
	return nil
}

// SaveCategories upserts categories by name and subcategories by (main, sub)
func (s *Store) SaveCategories(ctx context.Context, categories []model.Category, subcategories []model.Subcategory) error {
	return s.do(ctx, "save_categories", func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if len(categories) > 0 {
				rows := make([]gormMainCategory, len(categories))
				for i, c := range categories {
					rows[i] = gormMainCategory{CategoryName: c.CategoryName, CategoryOrder: c.CategoryOrder}
				}
				if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error; err != nil {
					return fmt.Errorf("failed to save main categories: %w", err)
				}
			}
			if len(subcategories) > 0 {
				rows := make([]gormSubCategory, len(subcategories))
				for i, sc := range subcategories {
					rows[i] = gormSubCategory{
						MainCategoryName: sc.MainCategoryName,
						SubCategoryName:  sc.SubCategoryName,
						SubCategoryOrder: sc.SubCategoryOrder,
					}
				}
				if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error; err != nil {
					return fmt.Errorf("failed to save subcategories: %w", err)
				}
			}
			return nil
		})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
