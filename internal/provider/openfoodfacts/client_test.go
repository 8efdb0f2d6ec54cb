package openfoodfacts_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maxrep/maxrep-cli/internal/provider/openfoodfacts"
)

func newClient(ts *httptest.Server) *openfoodfacts.Client {
	c := openfoodfacts.NewClient(ts.URL, ts.Client())
	c.Limiter = nil
	return c
}

func TestProductScalesServingValuesTo100g(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/product/12345678.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("expected user agent header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "status": 1,
  "product": {
    "product_name": "Greek Yogurt Cup",
    "brands": "Brand Co",
    "serving_quantity": 200,
    "serving_quantity_unit": "g",
    "nutriments": {
      "energy-kcal_serving": 120,
      "proteins_serving": 20,
      "carbohydrates_100g": 4.5,
      "fat_serving": "1"
    }
  }
}`))
	}))
	defer ts.Close()

	p, err := newClient(ts).Product(context.Background(), "12345678")
	if err != nil {
		t.Fatalf("lookup product: %v", err)
	}
	if p.Name != "greek yogurt cup" || p.Barcode != "12345678" {
		t.Fatalf("unexpected product identity: %+v", p)
	}
	if p.Per100g.Calories != 60 || p.Per100g.Protein != 10 || p.Per100g.Carbs != 4.5 || p.Per100g.Fats != 0.5 {
		t.Fatalf("unexpected per-100g macros: %+v", p.Per100g)
	}

	food := p.NewFood("")
	if food.Name != "greek yogurt cup" || food.Unit != openfoodfacts.Unit {
		t.Fatalf("unexpected new food: %+v", food)
	}
}

func TestProductMissingReturnsErrNoProduct(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": 0}`))
	}))
	defer ts.Close()

	if _, err := newClient(ts).Product(context.Background(), "000"); !errors.Is(err, openfoodfacts.ErrNoProduct) {
		t.Fatalf("expected ErrNoProduct, got %v", err)
	}
}

func TestSearchSkipsUnnamedProducts(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search_terms"); got != "oat milk" {
			t.Errorf("expected search terms, got %q", got)
		}
		_, _ = w.Write([]byte(`{"products":[
  {"code":"1","product_name":"","nutriments":{}},
  {"code":"2","product_name":"Oat Milk","nutriments":{"energy-kcal_100g":46,"proteins_100g":1}}
]}`))
	}))
	defer ts.Close()

	products, err := newClient(ts).Search(context.Background(), "oat milk", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(products) != 1 || products[0].Name != "oat milk" || products[0].Per100g.Calories != 46 {
		t.Fatalf("unexpected search results: %+v", products)
	}
}
