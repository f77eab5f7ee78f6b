package browse

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	headingMain = "Main Categories"
	headingSub  = "Subcategories"

	fetchErrorMessage = "Failed to load recipes. Please try again."
	emptyMessage      = "No recipes available."
)

// Card is one recipe tile in the grid
type Card struct {
	Name     string
	ImageURL string
}

// Link is one entry of the category sidebar
type Link struct {
	Name string
	URL  string
}

// View is everything the browse template renders
type View struct {
	Heading  string
	Selected string
	Links    []Link
	Cards    []Card
	Error    string
	Empty    string
}

// PageHandler renders the browsing pages from the catalog API
type PageHandler struct {
	client *Client
}

// NewPageHandler creates a new page handler
func NewPageHandler(client *Client) *PageHandler {
	return &PageHandler{client: client}
}

// RegisterRoutes registers the routes for this handler
func (h *PageHandler) RegisterRoutes(router *mux.Router, logger *zap.Logger) {
	logger = logger.Named("browse_page")
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		render(w, logger, "menu.html", nil)
	}).Methods(http.MethodGet)
	router.HandleFunc("/addRecipe", func(w http.ResponseWriter, r *http.Request) {
		render(w, logger, "add_recipe.html", map[string]string{"Action": h.client.AddRecipeURL()})
	}).Methods(http.MethodGet)
	router.HandleFunc("/browseRecipes", func(w http.ResponseWriter, r *http.Request) {
		render(w, logger, "browse.html", h.Fetch(r.Context(), logger, ""))
	}).Methods(http.MethodGet)
	router.HandleFunc("/browseRecipes/Subcategory/{main}", func(w http.ResponseWriter, r *http.Request) {
		// the router matches encoded paths so category names may hold a slash
		mainCategory, err := url.PathUnescape(mux.Vars(r)["main"])
		if err != nil {
			http.Error(w, "Invalid category", http.StatusBadRequest)
			return
		}
		render(w, logger, "browse.html", h.Fetch(r.Context(), logger, mainCategory))
	}).Methods(http.MethodGet)
}

// Fetch loads the view for the selected main category, or for the top
// level when mainCategory is empty. A failed fetch yields a view with
// only the error message set.
func (h *PageHandler) Fetch(ctx context.Context, logger *zap.Logger, mainCategory string) *View {
	view := &View{Heading: headingMain, Selected: mainCategory}

	var listing *Listing
	var err error
	if mainCategory == "" {
		listing, err = h.client.Browse(ctx)
	} else {
		view.Heading = headingSub
		listing, err = h.client.BrowseSubcategories(ctx, mainCategory)
	}
	if err != nil {
		logger.Warn("failed to fetch recipes", zap.String("category", mainCategory), zap.Error(err))
		view.Error = fetchErrorMessage
		return view
	}

	for _, c := range listing.Categories {
		view.Links = append(view.Links, categoryLink(c.CategoryName))
	}
	for _, s := range listing.Subcategories {
		view.Links = append(view.Links, categoryLink(s.SubCategoryName))
	}
	for _, r := range listing.Recipes {
		view.Cards = append(view.Cards, Card{Name: r.RecipeName, ImageURL: h.client.ImageURL(r.ImageID)})
	}
	if len(view.Cards) == 0 {
		view.Empty = emptyMessage
	}
	return view
}

func categoryLink(name string) Link {
	return Link{Name: name, URL: "/browseRecipes/Subcategory/" + url.PathEscape(name)}
}

func render(w http.ResponseWriter, logger *zap.Logger, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		logger.Error("failed to render page", zap.String("template", name), zap.Error(err))
	}
}
