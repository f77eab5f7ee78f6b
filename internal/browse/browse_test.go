package browse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/jarcoal/httpmock"
	"github.com/shaibs3/recipebook/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const apiURL = "http://api.test"

const browseBody = `{
	"recipes": [
		{"recipe_name": "Carbonara", "image_id": "c.jpg"},
		{"recipe_name": "Omelette", "image_id": "o 1.jpg"}
	],
	"categories": [
		{"category_name": "Breakfast", "category_order": 1},
		{"category_name": "Dinner & Supper", "category_order": 2}
	]
}`

const subcategoryBody = `{
	"recipes": [{"recipe_name": "Carbonara", "image_id": "c.jpg"}],
	"subcategories": [
		{"main_category_name": "Dinner", "sub_category_name": "Pasta", "sub_category_order": 1}
	]
}`

func newMockClient(t *testing.T) (*Client, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	return NewClient(apiURL+"/", &http.Client{Transport: transport}), transport
}

func TestClient_Browse(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, apiURL+"/api/browseRecipes",
		httpmock.NewStringResponder(http.StatusOK, browseBody))

	listing, err := client.Browse(context.Background())
	require.NoError(t, err)
	require.Equal(t, []model.RecipeSummary{
		{RecipeName: "Carbonara", ImageID: "c.jpg"},
		{RecipeName: "Omelette", ImageID: "o 1.jpg"},
	}, listing.Recipes)
	require.Len(t, listing.Categories, 2)
	require.Empty(t, listing.Subcategories)
	require.Equal(t, 1, transport.GetTotalCallCount())
}

func TestClient_BrowseSubcategories(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, apiURL+"/api/browseRecipes/Subcategory/Dinner",
		httpmock.NewStringResponder(http.StatusOK, subcategoryBody))

	listing, err := client.BrowseSubcategories(context.Background(), "Dinner")
	require.NoError(t, err)
	require.Len(t, listing.Recipes, 1)
	require.Equal(t, "Pasta", listing.Subcategories[0].SubCategoryName)
}

func TestClient_Errors(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, apiURL+"/api/browseRecipes",
		httpmock.NewStringResponder(http.StatusInternalServerError, "Internal server error"))
	transport.RegisterResponder(http.MethodGet, apiURL+"/api/browseRecipes/Subcategory/Dinner",
		httpmock.NewStringResponder(http.StatusOK, "{not json"))

	_, err := client.Browse(context.Background())
	require.ErrorContains(t, err, "unexpected status 500")

	_, err = client.BrowseSubcategories(context.Background(), "Dinner")
	require.ErrorContains(t, err, "failed to decode")
}

func TestClient_ImageURL(t *testing.T) {
	client := NewClient("http://localhost:5000/", nil)
	require.Equal(t, "http://localhost:5000/uploads/o%201.jpg", client.ImageURL("o 1.jpg"))
}

func TestPageHandler_Fetch(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, apiURL+"/api/browseRecipes",
		httpmock.NewStringResponder(http.StatusOK, browseBody))
	transport.RegisterResponder(http.MethodGet, apiURL+"/api/browseRecipes/Subcategory/Dinner",
		httpmock.NewStringResponder(http.StatusOK, subcategoryBody))
	h := NewPageHandler(client)

	view := h.Fetch(context.Background(), zap.NewNop(), "")
	require.Equal(t, "Main Categories", view.Heading)
	require.Empty(t, view.Error)
	require.Equal(t, []Link{
		{Name: "Breakfast", URL: "/browseRecipes/Subcategory/Breakfast"},
		{Name: "Dinner & Supper", URL: "/browseRecipes/Subcategory/Dinner%20&%20Supper"},
	}, view.Links)
	require.Equal(t, Card{Name: "Omelette", ImageURL: apiURL + "/uploads/o%201.jpg"}, view.Cards[1])

	view = h.Fetch(context.Background(), zap.NewNop(), "Dinner")
	require.Equal(t, "Subcategories", view.Heading)
	require.Equal(t, "Dinner", view.Selected)
	require.Equal(t, []Link{{Name: "Pasta", URL: "/browseRecipes/Subcategory/Pasta"}}, view.Links)
	require.Len(t, view.Cards, 1)
}

func TestPageHandler_FetchStates(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, apiURL+"/api/browseRecipes",
		httpmock.NewStringResponder(http.StatusOK, `{"recipes": [], "categories": []}`))
	transport.RegisterResponder(http.MethodGet, apiURL+"/api/browseRecipes/Subcategory/Dinner",
		httpmock.NewErrorResponder(context.DeadlineExceeded))
	h := NewPageHandler(client)

	view := h.Fetch(context.Background(), zap.NewNop(), "")
	require.Equal(t, "No recipes available.", view.Empty)
	require.Empty(t, view.Error)

	view = h.Fetch(context.Background(), zap.NewNop(), "Dinner")
	require.Equal(t, "Failed to load recipes. Please try again.", view.Error)
	require.Empty(t, view.Cards)
}

func TestPageHandler_Routes(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, apiURL+"/api/browseRecipes",
		httpmock.NewStringResponder(http.StatusOK, browseBody))
	transport.RegisterResponder(http.MethodGet, apiURL+"/api/browseRecipes/Subcategory/Dinner",
		httpmock.NewStringResponder(http.StatusServiceUnavailable, ""))

	r := mux.NewRouter().UseEncodedPath()
	NewPageHandler(client).RegisterRoutes(r, zap.NewNop())

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := get("/")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `href="/browseRecipes"`)
	require.Contains(t, w.Body.String(), `href="/addRecipe"`)

	w = get("/addRecipe")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, `action="http://api.test/api/addRecipe"`)
	require.Contains(t, body, `enctype="multipart/form-data"`)
	for _, field := range []string{"recipe_name", "description", "servings", "ingredients", "tags", "notes", "image", "video"} {
		require.Contains(t, body, `name="`+field+`"`)
	}

	w = get("/browseRecipes")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body = w.Body.String()
	require.Contains(t, body, "Main Categories")
	require.Contains(t, body, "Dinner &amp; Supper")
	require.Contains(t, body, `src="http://api.test/uploads/o%201.jpg"`)
	require.Contains(t, body, "Carbonara")

	w = get("/browseRecipes/Subcategory/Dinner")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Failed to load recipes. Please try again.")
	require.Contains(t, w.Body.String(), "Subcategories")
}

func TestPageHandler_EscapedSlash(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, apiURL+"/api/browseRecipes/Subcategory/Soups%2FStews",
		httpmock.NewStringResponder(http.StatusOK, `{
			"recipes": [{"recipe_name": "Goulash", "image_id": "g.jpg"}],
			"subcategories": [{"main_category_name": "Soups/Stews", "sub_category_name": "Hot", "sub_category_order": 1}]
		}`))

	r := mux.NewRouter().UseEncodedPath()
	NewPageHandler(client).RegisterRoutes(r, zap.NewNop())

	require.Equal(t, "/browseRecipes/Subcategory/Soups%2FStews", categoryLink("Soups/Stews").URL)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, categoryLink("Soups/Stews").URL, nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Goulash")
	require.Contains(t, w.Body.String(), "Soups/Stews")
	require.Equal(t, 1, transport.GetTotalCallCount())
}
