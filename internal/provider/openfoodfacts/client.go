package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/maxrep/maxrep-cli/internal/catalog"
)

const (
	DefaultBaseURL = "https://world.openfoodfacts.org"
	userAgent      = "maxrep-cli/1.0 (+https://github.com/maxrep/maxrep-cli)"

	// Unit used for imported foods; per-unit values are per 100 g.
	Unit = "100g"
)

var ErrNoProduct = errors.New("no openfoodfacts product found")

// Product is the nutrition of one packaged food, per 100 g.
type Product struct {
	Barcode string
	Name    string
	Brand   string
	Per100g catalog.Macros
}

// NewFood turns the product into a custom food. An empty name uses the
// product name.
func (p Product) NewFood(name string) catalog.NewFood {
	if strings.TrimSpace(name) == "" {
		name = p.Name
	}
	return catalog.NewFood{Name: name, Unit: Unit, PerUnit: p.Per100g}
}

// Client looks up packaged foods. Requests are paced by Limiter to stay
// within the public API's rate limits.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Logger     *zap.Logger
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		Limiter:    rate.NewLimiter(rate.Every(6*time.Second), 2),
	}
}

func (c *Client) Product(ctx context.Context, barcode string) (Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return Product{}, fmt.Errorf("barcode is required")
	}
	var parsed productResponse
	if err := c.get(ctx, "/api/v2/product/"+url.PathEscape(barcode)+".json", nil, &parsed); err != nil {
		return Product{}, err
	}
	if parsed.Status != 1 || strings.TrimSpace(parsed.Product.ProductName) == "" {
		return Product{}, fmt.Errorf("%w for barcode %q", ErrNoProduct, barcode)
	}
	p := parsed.Product.toProduct()
	if p.Barcode == "" {
		p.Barcode = barcode
	}
	return p, nil
}

func (c *Client) Search(ctx context.Context, query string, limit int) ([]Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{
		"search_terms":  []string{query},
		"search_simple": []string{"1"},
		"action":        []string{"process"},
		"json":          []string{"1"},
		"page_size":     []string{strconv.Itoa(limit)},
	}
	var parsed searchResponse
	if err := c.get(ctx, "/cgi/search.pl", params, &parsed); err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(parsed.Products))
	for _, p := range parsed.Products {
		if strings.TrimSpace(p.ProductName) == "" {
			continue
		}
		out = append(out, p.toProduct())
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w for query %q", ErrNoProduct, query)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	target := base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("wait for openfoodfacts rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create openfoodfacts request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	if c.Logger != nil {
		c.Logger.Debug("openfoodfacts request", zap.String("path", path))
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute openfoodfacts request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read openfoodfacts response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("openfoodfacts request failed with status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode openfoodfacts response: %w", err)
	}
	return nil
}

// per100g reads the _100g value, falling back to scaling the per-serving
// value by the serving weight.
func per100g(n map[string]any, base string, servingGrams float64) float64 {
	if v, ok := parseFloatAny(n[base+"_100g"]); ok {
		return catalog.Round2(v)
	}
	if servingGrams > 0 {
		if v, ok := parseFloatAny(n[base+"_serving"]); ok {
			return catalog.Round2(v * 100 / servingGrams)
		}
	}
	return 0
}

func parseFloatAny(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

type productResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type searchResponse struct {
	Products []offProduct `json:"products"`
}

type offProduct struct {
	Code                string         `json:"code"`
	ProductName         string         `json:"product_name"`
	Brands              string         `json:"brands"`
	ServingQuantity     float64        `json:"serving_quantity"`
	ServingQuantityUnit string         `json:"serving_quantity_unit"`
	Nutriments          map[string]any `json:"nutriments"`
}

func (p offProduct) servingGrams() float64 {
	unit := strings.ToLower(strings.TrimSpace(p.ServingQuantityUnit))
	if p.ServingQuantity > 0 && (unit == "" || unit == "g" || unit == "ml") {
		return p.ServingQuantity
	}
	return 0
}

func (p offProduct) toProduct() Product {
	grams := p.servingGrams()
	return Product{
		Barcode: strings.TrimSpace(p.Code),
		Name:    catalog.NormalizeName(p.ProductName),
		Brand:   strings.TrimSpace(p.Brands),
		Per100g: catalog.Macros{
			Calories: per100g(p.Nutriments, "energy-kcal", grams),
			Protein:  per100g(p.Nutriments, "proteins", grams),
			Carbs:    per100g(p.Nutriments, "carbohydrates", grams),
			Fats:     per100g(p.Nutriments, "fat", grams),
		},
	}
}
