package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shaibs3/recipebook/internal/model"
	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML layout accepted by the seed command:
//
//	categories:
//	  - name: Dinner
//	    order: 1
//	    subcategories:
//	      - name: Pasta
//	        order: 1
type SeedFile struct {
	Categories []SeedCategory `yaml:"categories"`
}

type SeedCategory struct {
	Name          string            `yaml:"name"`
	Order         int               `yaml:"order"`
	Subcategories []SeedSubcategory `yaml:"subcategories"`
}

type SeedSubcategory struct {
	Name  string `yaml:"name"`
	Order int    `yaml:"order"`
}

// ParseSeed decodes a seed file into category rows
func ParseSeed(r io.Reader) ([]model.Category, []model.Subcategory, error) {
	var seed SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		return nil, nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	var (
		categories    []model.Category
		subcategories []model.Subcategory
	)
	seen := make(map[string]bool)
	for _, c := range seed.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, nil, fmt.Errorf("category without a name")
		}
		if seen[name] {
			return nil, nil, fmt.Errorf("category %q listed twice", name)
		}
		seen[name] = true
		categories = append(categories, model.Category{CategoryName: name, CategoryOrder: c.Order})

		for _, s := range c.Subcategories {
			subName := strings.TrimSpace(s.Name)
			if subName == "" {
				return nil, nil, fmt.Errorf("subcategory without a name under %q", name)
			}
			subcategories = append(subcategories, model.Subcategory{
				MainCategoryName: name,
				SubCategoryName:  subName,
				SubCategoryOrder: s.Order,
			})
		}
	}
	return categories, subcategories, nil
}

// Seed parses r and saves the categories into the store
func Seed(ctx context.Context, store Store, r io.Reader) (int, int, error) {
	categories, subcategories, err := ParseSeed(r)
	if err != nil {
		return 0, 0, err
	}
	if err := store.SaveCategories(ctx, categories, subcategories); err != nil {
		return 0, 0, fmt.Errorf("failed to save categories: %w", err)
	}
	return len(categories), len(subcategories), nil
}
