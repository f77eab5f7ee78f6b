package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TagKind selects which association set a tag is stored in
type TagKind string

const (
	TagKindMain TagKind = "main"
	TagKindSub  TagKind = "sub"
)

// IsValid checks if the tag kind is supported
func (k TagKind) IsValid() bool {
	return k == TagKindMain || k == TagKindSub
}

// Ingredient is one ingredient line of a recipe
type Ingredient struct {
	IngredientName      string `json:"ingredient_name"`
	MeasurementType     string `json:"measurement_type"`
	MeasurementQuantity string `json:"measurement_quantity"`
	Notes               string `json:"notes,omitempty"`
}

// Tag links a recipe to a main category or a subcategory by name
type Tag struct {
	TagName string  `json:"tag_name"`
	Kind    TagKind `json:"tag_type"`
}

// UnmarshalJSON accepts either a tag object or a bare string, which is
// taken as a main category tag.
func (t *Tag) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*t = Tag{TagName: name, Kind: TagKindMain}
		return nil
	}
	type rawTag Tag
	var raw rawTag
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Kind == "" {
		raw.Kind = TagKindMain
	}
	*t = Tag(raw)
	return nil
}

// Note is a free-text note attached to a recipe
type Note struct {
	Description string `json:"description"`
}

// UnmarshalJSON accepts either a note object or a bare string
func (n *Note) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		n.Description = text
		return nil
	}
	type rawNote Note
	var raw rawNote
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = Note(raw)
	return nil
}

// NewRecipe is everything the add-recipe sequence persists in one go
type NewRecipe struct {
	Name        string
	Description string
	Servings    int
	VideoID     string
	Images      []Image
	Ingredients []Ingredient
	Tags        []Tag
	Notes       []Note
}

// MainTags returns the names of the main category tags
func (r NewRecipe) MainTags() []string {
	return r.tagNames(TagKindMain)
}

// SubTags returns the names of the subcategory tags
func (r NewRecipe) SubTags() []string {
	return r.tagNames(TagKindSub)
}

func (r NewRecipe) tagNames(kind TagKind) []string {
	var names []string
	for _, t := range r.Tags {
		if t.Kind == kind {
			names = append(names, t.TagName)
		}
	}
	return names
}

// Validate checks the recipe before anything is written. Every failure
// wraps ErrInvalidRecipe.
func (r NewRecipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: recipe name is required", ErrInvalidRecipe)
	}
	if r.Servings < 0 {
		return fmt.Errorf("%w: servings must not be negative", ErrInvalidRecipe)
	}
	if len(r.Images) == 0 {
		return fmt.Errorf("%w: at least one image is required", ErrInvalidRecipe)
	}
	thumbnails := 0
	for _, img := range r.Images {
		if img.ImageID == "" {
			return fmt.Errorf("%w: image reference is empty", ErrInvalidRecipe)
		}
		if img.Thumbnail {
			thumbnails++
		}
	}
	if thumbnails != 1 {
		return fmt.Errorf("%w: exactly one thumbnail image is required, got %d", ErrInvalidRecipe, thumbnails)
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.IngredientName) == "" {
			return fmt.Errorf("%w: ingredient %d has no name", ErrInvalidRecipe, i+1)
		}
	}
	seen := make(map[Tag]struct{}, len(r.Tags))
	for _, t := range r.Tags {
		if strings.TrimSpace(t.TagName) == "" {
			return fmt.Errorf("%w: tag name is empty", ErrInvalidRecipe)
		}
		if !t.Kind.IsValid() {
			return fmt.Errorf("%w: unsupported tag type %q", ErrInvalidRecipe, t.Kind)
		}
		if _, dup := seen[t]; dup {
			return fmt.Errorf("%w: duplicate %s tag %q", ErrInvalidRecipe, t.Kind, t.TagName)
		}
		seen[t] = struct{}{}
	}
	for i, n := range r.Notes {
		if strings.TrimSpace(n.Description) == "" {
			return fmt.Errorf("%w: note %d is empty", ErrInvalidRecipe, i+1)
		}
	}
	return nil
}

// ParseIngredients decodes the JSON-encoded ingredients form field.
// An empty field yields no ingredients.
func ParseIngredients(field string) ([]Ingredient, error) {
	var out []Ingredient
	if err := decodeField("ingredients", field, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseTags decodes the JSON-encoded tags form field
func ParseTags(field string) ([]Tag, error) {
	var out []Tag
	if err := decodeField("tags", field, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseNotes decodes the JSON-encoded notes form field
func ParseNotes(field string) ([]Note, error) {
	var out []Note
	if err := decodeField("notes", field, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeField(name, field string, v any) error {
	if strings.TrimSpace(field) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(field), v); err != nil {
		return fmt.Errorf("%w: malformed %s: %v", ErrInvalidRecipe, name, err)
	}
	return nil
}
