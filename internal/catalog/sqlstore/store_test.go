package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shaibs3/recipebook/internal/catalog/shared"
	"github.com/shaibs3/recipebook/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	metrics, err := shared.NewMetrics(nil)
	require.NoError(t, err)
	store, err := NewSQLiteStore(shared.StoreConfig{
		DbType:       shared.DbTypeSQLite,
		ExtraDetails: map[string]interface{}{"dsn": filepath.Join(t.TempDir(), "catalog.db")},
	}, zap.NewNop(), metrics)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func recipe(name string, main, sub []string, images ...string) model.NewRecipe {
	r := model.NewRecipe{Name: name, Servings: 2}
	for i, img := range images {
		r.Images = append(r.Images, model.Image{ImageID: img, Thumbnail: i == 0})
	}
	for _, m := range main {
		r.Tags = append(r.Tags, model.Tag{TagName: m, Kind: model.TagKindMain})
	}
	for _, s := range sub {
		r.Tags = append(r.Tags, model.Tag{TagName: s, Kind: model.TagKindSub})
	}
	return r
}

func count(t *testing.T, s *Store, m interface{}, recipeName string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.gormDB.Model(m).Where("recipe_name = ?", recipeName).Count(&n).Error)
	return n
}

func seedBrowsing(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.SaveCategories(ctx,
		[]model.Category{{CategoryName: "Dinner", CategoryOrder: 2}, {CategoryName: "Breakfast", CategoryOrder: 1}},
		[]model.Subcategory{
			{MainCategoryName: "Dinner", SubCategoryName: "Soup", SubCategoryOrder: 2},
			{MainCategoryName: "Dinner", SubCategoryName: "Pasta", SubCategoryOrder: 1},
			{MainCategoryName: "Breakfast", SubCategoryName: "Eggs", SubCategoryOrder: 1},
		}))
	require.NoError(t, s.AddRecipe(ctx, recipe("Minestrone", []string{"Dinner"}, []string{"Soup"}, "m.jpg")))
	require.NoError(t, s.AddRecipe(ctx, recipe("Carbonara", []string{"Dinner"}, []string{"Pasta"}, "c.jpg", "c2.jpg")))
	require.NoError(t, s.AddRecipe(ctx, recipe("Omelette", []string{"Breakfast"}, []string{"Eggs"}, "o.jpg")))
	require.NoError(t, s.AddRecipe(ctx, recipe("Pasta Frittata", []string{"Breakfast"}, []string{"Pasta"}, "f.jpg")))
}

func names(recipes []model.RecipeSummary) []string {
	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.RecipeName
	}
	return out
}

func TestStore_ListRecipes(t *testing.T) {
	s := newTestStore(t)
	seedBrowsing(t, s)
	ctx := context.Background()

	all, err := s.ListRecipes(ctx, model.RecipeFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{"Carbonara", "Minestrone", "Omelette", "Pasta Frittata"}, names(all))
	require.Equal(t, "c.jpg", all[0].ImageID)

	dinner, err := s.ListRecipes(ctx, model.RecipeFilter{MainCategory: "Dinner"})
	require.NoError(t, err)
	require.Equal(t, []string{"Carbonara", "Minestrone"}, names(dinner))

	// Pasta Frittata carries the Pasta subcategory but not the Dinner tag
	pasta, err := s.ListRecipes(ctx, model.RecipeFilter{MainCategory: "Dinner", SubCategory: "Pasta"})
	require.NoError(t, err)
	require.Equal(t, []string{"Carbonara"}, names(pasta))

	none, err := s.ListRecipes(ctx, model.RecipeFilter{MainCategory: "Dessert"})
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestStore_Categories(t *testing.T) {
	s := newTestStore(t)
	seedBrowsing(t, s)
	ctx := context.Background()

	cats, err := s.ListMainCategories(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.Category{
		{CategoryName: "Breakfast", CategoryOrder: 1},
		{CategoryName: "Dinner", CategoryOrder: 2},
	}, cats)

	subs, err := s.ListSubcategories(ctx, "Dinner")
	require.NoError(t, err)
	require.Equal(t, []model.Subcategory{
		{MainCategoryName: "Dinner", SubCategoryName: "Pasta", SubCategoryOrder: 1},
		{MainCategoryName: "Dinner", SubCategoryName: "Soup", SubCategoryOrder: 2},
	}, subs)

	// saving again updates the order in place
	require.NoError(t, s.SaveCategories(ctx, []model.Category{{CategoryName: "Dinner", CategoryOrder: 7}}, nil))
	cats, err = s.ListMainCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	require.Equal(t, 7, cats[1].CategoryOrder)
}

func TestStore_AddRecipePersistsAllRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := model.NewRecipe{
		Name:        "Lasagna",
		Description: "Layered",
		Servings:    6,
		VideoID:     "v-lasagna.mp4",
		Images:      []model.Image{{ImageID: "l1.jpg", Thumbnail: true}, {ImageID: "l2.jpg"}},
		Ingredients: []model.Ingredient{
			{IngredientName: "Sheets", MeasurementType: "g", MeasurementQuantity: "500"},
			{IngredientName: "Ragu", MeasurementType: "ml", MeasurementQuantity: "750", Notes: "warm"},
			{IngredientName: "Bechamel", MeasurementType: "ml", MeasurementQuantity: "500"},
		},
		Tags:  []model.Tag{{TagName: "Dinner", Kind: model.TagKindMain}, {TagName: "Pasta", Kind: model.TagKindSub}},
		Notes: []model.Note{{Description: "Rest 10 minutes before cutting"}},
	}
	require.NoError(t, s.AddRecipe(ctx, r))

	require.EqualValues(t, 1, count(t, s, &gormRecipe{}, "Lasagna"))
	require.EqualValues(t, 3, count(t, s, &gormIngredient{}, "Lasagna"))
	require.EqualValues(t, 1, count(t, s, &gormMainTag{}, "Lasagna"))
	require.EqualValues(t, 1, count(t, s, &gormSubTag{}, "Lasagna"))
	require.EqualValues(t, 1, count(t, s, &gormNote{}, "Lasagna"))
	require.EqualValues(t, 2, count(t, s, &gormRecipeImage{}, "Lasagna"))

	var thumbs int64
	require.NoError(t, s.gormDB.Model(&gormRecipeImage{}).
		Where("recipe_name = ? AND thumbnail = ?", "Lasagna", true).Count(&thumbs).Error)
	require.EqualValues(t, 1, thumbs)

	var stored gormRecipe
	require.NoError(t, s.gormDB.First(&stored, "recipe_name = ?", "Lasagna").Error)
	require.NotNil(t, stored.VideoID)
	require.Equal(t, "v-lasagna.mp4", *stored.VideoID)
}

func TestStore_AddRecipeDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddRecipe(ctx, recipe("Pho", []string{"Dinner"}, nil, "p.jpg")))
	err := s.AddRecipe(ctx, recipe("Pho", []string{"Soup"}, nil, "p-other.jpg"))
	require.ErrorIs(t, err, model.ErrDuplicateRecipe)

	require.EqualValues(t, 1, count(t, s, &gormRecipeImage{}, "Pho"))
	require.EqualValues(t, 1, count(t, s, &gormMainTag{}, "Pho"))
}

func TestStore_AddRecipeRollsBackOnFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddRecipe(ctx, recipe("Ramen", nil, nil, "shared.jpg")))

	// the image insert fails after the recipe and ingredient rows went in
	r := recipe("Udon", []string{"Dinner"}, nil, "shared.jpg")
	r.Ingredients = []model.Ingredient{{IngredientName: "Noodles"}}
	require.Error(t, s.AddRecipe(ctx, r))

	require.EqualValues(t, 0, count(t, s, &gormRecipe{}, "Udon"))
	require.EqualValues(t, 0, count(t, s, &gormIngredient{}, "Udon"))
	require.EqualValues(t, 0, count(t, s, &gormMainTag{}, "Udon"))
}

func TestStore_AddRecipeRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	err := s.AddRecipe(context.Background(), model.NewRecipe{Name: "No Images"})
	require.ErrorIs(t, err, model.ErrInvalidRecipe)
	require.EqualValues(t, 0, count(t, s, &gormRecipe{}, "No Images"))
}

func TestStore_Ping(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestRedact(t *testing.T) {
	require.Equal(t, "postgres://chef:xxxxx@db:5432/recipes", redact("postgres://chef:secret@db:5432/recipes"))
	require.Equal(t, "postgres://db:5432/recipes", redact("postgres://db:5432/recipes"))

	tests := map[string]string{
		"host=db user=chef password=secret dbname=recipes":       "host=db user=chef password=xxxxx dbname=recipes",
		"host=db password = 'se cr\\'et' dbname=recipes":         "host=db password = xxxxx dbname=recipes",
		"host=db PASSWORD=secret":                                "host=db PASSWORD=xxxxx",
		"host=db user=chef dbname=recipes":                       "host=db user=chef dbname=recipes",
		"postgres://chef:secret@db:5432/recipes?sslmode=disable": "postgres://chef:xxxxx@db:5432/recipes?sslmode=disable",
	}
	for dsn, want := range tests {
		got := redact(dsn)
		require.Equal(t, want, got, dsn)
		require.NotContains(t, got, "secret")
	}
}

func TestNewPostgresStore_RequiresConnStr(t *testing.T) {
	_, err := NewPostgresStore(shared.StoreConfig{DbType: shared.DbTypePostgres}, zap.NewNop(), nil)
	require.Error(t, err)
}
