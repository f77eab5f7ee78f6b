package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shaibs3/recipebook/internal/catalog"
	"github.com/shaibs3/recipebook/internal/model"
	"go.uber.org/zap"
)

// BrowseHandler serves the read-only catalog endpoints
type BrowseHandler struct {
	store catalog.Store
}

// NewBrowseHandler creates a new browse handler
func NewBrowseHandler(store catalog.Store) *BrowseHandler {
	return &BrowseHandler{store: store}
}

type browseResponse struct {
	Recipes    []model.RecipeSummary `json:"recipes"`
	Categories []model.Category      `json:"categories"`
}

type subcategoryResponse struct {
	Recipes       []model.RecipeSummary `json:"recipes"`
	Subcategories []model.Subcategory   `json:"subcategories"`
}

// RegisterRoutes registers the routes for this handler
func (h *BrowseHandler) RegisterRoutes(router *mux.Router, logger *zap.Logger) {
	logger = logger.Named("browse")
	router.HandleFunc("/api/browseRecipes", h.browse(logger)).Methods(http.MethodGet)
	router.HandleFunc("/api/browseRecipes/category/{main}", h.byCategory(logger)).Methods(http.MethodGet)
	router.HandleFunc("/api/recipes/category/{main}/subcategory/{sub}", h.byCategory(logger)).Methods(http.MethodGet)
	router.HandleFunc("/api/browseRecipes/Subcategory/{main}", h.subcategories(logger)).Methods(http.MethodGet)
}

func (h *BrowseHandler) browse(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipes, err := h.store.ListRecipes(r.Context(), model.RecipeFilter{})
		if err != nil {
			writeStoreError(w, logger, "failed to list recipes", err)
			return
		}
		categories, err := h.store.ListMainCategories(r.Context())
		if err != nil {
			writeStoreError(w, logger, "failed to list main categories", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, browseResponse{Recipes: recipes, Categories: categories})
	}
}

// byCategory serves both filtered listings. The sub variable is only
// present on the main+sub route.
func (h *BrowseHandler) byCategory(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mainCategory, err := pathVar(r, "main")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		subCategory, err := pathVar(r, "sub")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		filter := model.RecipeFilter{MainCategory: mainCategory, SubCategory: subCategory}

		recipes, err := h.store.ListRecipes(r.Context(), filter)
		if err != nil {
			writeStoreError(w, logger, "failed to list recipes by category", err)
			return
		}
		if len(recipes) == 0 {
			if filter.SubCategory != "" {
				http.Error(w, "No recipes found for this subcategory", http.StatusNotFound)
			} else {
				http.Error(w, "No recipes found for this category", http.StatusNotFound)
			}
			return
		}
		writeJSON(w, logger, http.StatusOK, recipes)
	}
}

// subcategories returns the subcategories of one main category together
// with the full, unfiltered recipe list.
func (h *BrowseHandler) subcategories(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mainCategory, err := pathVar(r, "main")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		subs, err := h.store.ListSubcategories(r.Context(), mainCategory)
		if err != nil {
			writeStoreError(w, logger, "failed to list subcategories", err)
			return
		}
		recipes, err := h.store.ListRecipes(r.Context(), model.RecipeFilter{})
		if err != nil {
			writeStoreError(w, logger, "failed to list recipes", err)
			return
		}
		writeJSON(w, logger, http.StatusOK, subcategoryResponse{Recipes: recipes, Subcategories: subs})
	}
}
