package model

import "errors"

var (
	// ErrInvalidRecipe is returned when a submitted recipe fails validation
	ErrInvalidRecipe = errors.New("invalid recipe")
	// ErrDuplicateRecipe is returned when a recipe with the same name already exists
	ErrDuplicateRecipe = errors.New("recipe already exists")
)
