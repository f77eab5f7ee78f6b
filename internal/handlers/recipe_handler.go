package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shaibs3/recipebook/internal/catalog"
	"github.com/shaibs3/recipebook/internal/media"
	"github.com/shaibs3/recipebook/internal/model"
	"go.uber.org/zap"
)

const defaultMaxMemory = 32 << 20

// RecipeHandler accepts new recipes as multipart forms
type RecipeHandler struct {
	store     catalog.Store
	uploader  *media.Uploader
	maxMemory int64
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(store catalog.Store, uploader *media.Uploader) *RecipeHandler {
	return &RecipeHandler{store: store, uploader: uploader, maxMemory: defaultMaxMemory}
}

// RegisterRoutes registers the routes for this handler
func (h *RecipeHandler) RegisterRoutes(router *mux.Router, logger *zap.Logger) {
	router.HandleFunc("/api/addRecipe", h.addRecipe(logger.Named("recipes"))).Methods(http.MethodPost)
}

// recipeUpload is a parsed form whose files have names but are not stored yet
type recipeUpload struct {
	recipe model.NewRecipe
	names  []string
	files  []*multipart.FileHeader
}

func parseRecipeForm(form *multipart.Form) (*recipeUpload, error) {
	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	recipe := model.NewRecipe{
		Name:        strings.TrimSpace(value("recipe_name")),
		Description: value("description"),
	}
	if s := strings.TrimSpace(value("servings")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: servings must be an integer", model.ErrInvalidRecipe)
		}
		recipe.Servings = n
	}

	var err error
	if recipe.Ingredients, err = model.ParseIngredients(value("ingredients")); err != nil {
		return nil, err
	}
	if recipe.Tags, err = model.ParseTags(value("tags")); err != nil {
		return nil, err
	}
	if recipe.Notes, err = model.ParseNotes(value("notes")); err != nil {
		return nil, err
	}

	// "image" is the field name clients send, "images" is accepted too
	images := make([]*multipart.FileHeader, 0, len(form.File["image"])+len(form.File["images"]))
	images = append(images, form.File["image"]...)
	images = append(images, form.File["images"]...)
	upload := &recipeUpload{
		names: media.StoredNames(images),
		files: images,
	}
	for i, name := range upload.names {
		recipe.Images = append(recipe.Images, model.Image{ImageID: name, Thumbnail: i == 0})
	}
	if videos := form.File["video"]; len(videos) > 0 {
		recipe.VideoID = media.StoredName(videos[0].Filename)
		upload.names = append(upload.names, recipe.VideoID)
		upload.files = append(upload.files, videos[0])
	}

	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	upload.recipe = recipe
	return upload, nil
}

func (h *RecipeHandler) addRecipe(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(h.maxMemory); err != nil {
			http.Error(w, "Invalid multipart form", http.StatusBadRequest)
			return
		}
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()

		upload, err := parseRecipeForm(r.MultipartForm)
		if err != nil {
			writeStoreError(w, logger, "failed to parse recipe", err)
			return
		}

		if err := h.uploader.SaveAll(r.Context(), upload.names, upload.files); err != nil {
			writeStoreError(w, logger, "failed to store uploads", err)
			return
		}

		if err := h.store.AddRecipe(r.Context(), upload.recipe); err != nil {
			h.uploader.Remove(r.Context(), upload.names...)
			writeStoreError(w, logger, "failed to add recipe", err)
			return
		}

		logger.Info("recipe added",
			zap.String("recipe", upload.recipe.Name),
			zap.Int("images", len(upload.recipe.Images)))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("Recipe added successfully"))
	}
}
