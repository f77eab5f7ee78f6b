package sqlstore

// GORM models. Table and column names match internal/db/migrations.

type gormRecipe struct {
	RecipeName  string `gorm:"primaryKey"`
	Description string `gorm:"not null"`
	Servings    int    `gorm:"not null"`
	VideoID     *string
}

func (gormRecipe) TableName() string {
	return "recipes"
}

type gormRecipeImage struct {
	ImageID    string `gorm:"primaryKey"`
	RecipeName string `gorm:"not null;index"`
	Thumbnail  bool   `gorm:"not null"`
}

func (gormRecipeImage) TableName() string {
	return "recipe_images"
}

type gormIngredient struct {
	ID                  uint   `gorm:"primaryKey"`
	RecipeName          string `gorm:"not null;index"`
	IngredientName      string `gorm:"not null"`
	MeasurementType     string `gorm:"not null"`
	MeasurementQuantity string `gorm:"not null"`
	Notes               *string
}

func (gormIngredient) TableName() string {
	return "recipe_ingredients"
}

type gormMainTag struct {
	RecipeName string `gorm:"primaryKey"`
	TagName    string `gorm:"primaryKey;index"`
}

func (gormMainTag) TableName() string {
	return "recipe_main_tags"
}

type gormSubTag struct {
	RecipeName string `gorm:"primaryKey"`
	TagName    string `gorm:"primaryKey;index"`
}

func (gormSubTag) TableName() string {
	return "recipe_sub_tags"
}

type gormNote struct {
	ID          uint   `gorm:"primaryKey"`
	RecipeName  string `gorm:"not null;index"`
	Description string `gorm:"not null"`
}

func (gormNote) TableName() string {
	return "recipe_notes"
}

type gormMainCategory struct {
	CategoryName  string `gorm:"primaryKey"`
	CategoryOrder int    `gorm:"not null"`
}

func (gormMainCategory) TableName() string {
	return "main_categories"
}

type gormSubCategory struct {
	MainCategoryName string `gorm:"primaryKey"`
	SubCategoryName  string `gorm:"primaryKey"`
	SubCategoryOrder int    `gorm:"not null"`
}

func (gormSubCategory) TableName() string {
	return "sub_categories"
}

func allModels() []interface{} {
	return []interface{}{
		&gormMainCategory{}, &gormSubCategory{},
		&gormRecipe{}, &gormRecipeImage{}, &gormIngredient{},
		&gormMainTag{}, &gormSubTag{}, &gormNote{},
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
