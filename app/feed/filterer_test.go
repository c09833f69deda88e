package feed

import (
	"testing"
)

func testProducts() []Product {
	return []Product{
		{Title: "Red Running Shoe", Brand: "Acme", Category: "Shoes", Availability: "in stock"},
		{Title: "Blue Winter Jacket", Brand: "Acme", Category: "Jackets", Availability: "out of stock"},
		{Title: "Green Cap", Brand: "Other", Category: "Hats", Availability: "in stock"},
	}
}

func TestFiltererNoFilters(t *testing.T) {
	products := testProducts()

	selected := NewFilterer().Run(products, nil)

	if len(selected) != 3 {
		t.Errorf("Expected all products without filters, got %d", len(selected))
	}
}

func TestFiltererIncludes(t *testing.T) {
	filters := []Filter{{Field: "brand", Includes: []string{"acme"}}}

	selected := NewFilterer().Run(testProducts(), filters)

	if len(selected) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(selected))
	}
	for _, product := range selected {
		if product.Brand != "Acme" {
			t.Errorf("Unexpected product: %s", product.Title)
		}
	}
}

func TestFiltererExcludes(t *testing.T) {
	filters := []Filter{{Field: "availability", Excludes: []string{"out of stock"}}}

	selected := NewFilterer().Run(testProducts(), filters)

	if len(selected) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(selected))
	}
	for _, product := range selected {
		if product.Availability != "in stock" {
			t.Errorf("Unexpected product: %s", product.Title)
		}
	}
}

func TestFiltererCombined(t *testing.T) {
	filters := []Filter{
		{Field: "brand", Includes: []string{"acme"}},
		{Field: "category", Excludes: []string{"jacket"}},
	}

	selected := NewFilterer().Run(testProducts(), filters)

	if len(selected) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(selected))
	}
	if selected[0].Title != "Red Running Shoe" {
		t.Errorf("Expected 'Red Running Shoe', got '%s'", selected[0].Title)
	}
}

func TestValidFilterField(t *testing.T) {
	for _, field := range []string{"title", "description", "brand", "category", "availability", "condition", "color", "link"} {
		if !ValidFilterField(field) {
			t.Errorf("Expected %q to be valid", field)
		}
	}

	for _, field := range []string{"price", "gtin", ""} {
		if ValidFilterField(field) {
			t.Errorf("Expected %q to be invalid", field)
		}
	}
}
