package model

// RecipeSummary is a recipe as shown in list views: its name and the
// reference of its thumbnail image.
type RecipeSummary struct {
	RecipeName string `json:"recipe_name"`
	ImageID    string `json:"image_id"`
}

// Category is a main category used for browsing
type Category struct {
	CategoryName  string `json:"category_name"`
	CategoryOrder int    `json:"category_order"`
}

// Subcategory is scoped to exactly one main category
type Subcategory struct {
	MainCategoryName string `json:"main_category_name"`
	SubCategoryName  string `json:"sub_category_name"`
	SubCategoryOrder int    `json:"sub_category_order"`
}

// RecipeFilter narrows a recipe listing by zero, one or two category
// dimensions. Empty fields are not applied.
type RecipeFilter struct {
	MainCategory string
	SubCategory  string
}

// Image is one uploaded image attached to a recipe
type Image struct {
	ImageID   string `json:"image_id"`
	Thumbnail bool   `json:"thumbnail"`
}
