package browse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shaibs3/recipebook/internal/model"
)

// Client is a typed client for the catalog read endpoints
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the API at baseURL. A nil httpClient
// gets a default with a 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Listing is the payload of the two browse endpoints. Only one of
// Categories and Subcategories is filled.
type Listing struct {
	Recipes       []model.RecipeSummary `json:"recipes"`
	Categories    []model.Category      `json:"categories,omitempty"`
	Subcategories []model.Subcategory   `json:"subcategories,omitempty"`
}

// Browse fetches all recipes and the main categories
func (c *Client) Browse(ctx context.Context) (*Listing, error) {
	var out Listing
	if err := c.get(ctx, "/api/browseRecipes", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BrowseSubcategories fetches all recipes and the subcategories of one
// main category.
func (c *Client) BrowseSubcategories(ctx context.Context, mainCategory string) (*Listing, error) {
	var out Listing
	if err := c.get(ctx, "/api/browseRecipes/Subcategory/"+url.PathEscape(mainCategory), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddRecipeURL is the endpoint that accepts new recipes as multipart forms
func (c *Client) AddRecipeURL() string {
	return c.baseURL + "/api/addRecipe"
}

// ImageURL is where the API serves a stored image
func (c *Client) ImageURL(imageID string) string {
	return c.baseURL + "/uploads/" + url.PathEscape(imageID)
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, path, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
