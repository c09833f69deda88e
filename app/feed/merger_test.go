package feed

import (
	"reflect"
	"testing"
)

func TestMergerDeduplicatesByNormalizedTitle(t *testing.T) {
	products := []Product{
		{Title: "Red Shoe", Brand: "Acme", Images: []ProductImage{{URL: "https://cdn.example.com/a.jpg"}}},
		{Title: "red shoe ", Brand: "Other", Images: []ProductImage{{URL: "https://cdn.example.com/b.jpg"}}},
	}

	merged := NewMerger().Run(products)

	if len(merged) != 1 {
		t.Fatalf("Expected 1 merged product, got %d", len(merged))
	}

	// First product's scalars win
	if merged[0].Brand != "Acme" {
		t.Errorf("Expected brand 'Acme', got '%s'", merged[0].Brand)
	}

	// Images are unioned in first-seen order
	if len(merged[0].Images) != 2 {
		t.Fatalf("Expected 2 images, got %d", len(merged[0].Images))
	}
	if merged[0].Images[0].URL != "https://cdn.example.com/a.jpg" {
		t.Errorf("Unexpected first image: %s", merged[0].Images[0].URL)
	}
}

func TestMergerSkipsDuplicateImageURLs(t *testing.T) {
	products := []Product{
		{Title: "Red Shoe", Images: []ProductImage{{URL: "https://cdn.example.com/a.jpg", Alt: "first"}}},
		{Title: "Red Shoe", Images: []ProductImage{
			{URL: "https://cdn.example.com/a.jpg", Alt: "second"},
			{URL: "https://cdn.example.com/b.jpg"},
		}},
	}

	merged := NewMerger().Run(products)

	if len(merged) != 1 {
		t.Fatalf("Expected 1 merged product, got %d", len(merged))
	}
	if len(merged[0].Images) != 2 {
		t.Fatalf("Expected 2 images, got %d", len(merged[0].Images))
	}
	if merged[0].Images[0].Alt != "first" {
		t.Errorf("Expected first-seen image to win, got alt '%s'", merged[0].Images[0].Alt)
	}
}

func TestMergerSortsByTitle(t *testing.T) {
	products := []Product{
		{Title: "zebra print scarf"},
		{Title: "Apple Watch Band"},
		{Title: "mango shirt"},
	}

	merged := NewMerger().Run(products)

	expected := []string{"Apple Watch Band", "mango shirt", "zebra print scarf"}
	for i, title := range expected {
		if merged[i].Title != title {
			t.Errorf("Expected %q at position %d, got %q", title, i, merged[i].Title)
		}
	}
}

func TestMergerIdempotent(t *testing.T) {
	products := []Product{
		{Title: "Blue Shoe", Images: []ProductImage{{URL: "https://cdn.example.com/b.jpg"}}},
		{Title: "blue shoe", Images: []ProductImage{{URL: "https://cdn.example.com/c.jpg"}}},
		{Title: "Apple Cap"},
	}

	merger := NewMerger()
	once := merger.Run(products)
	twice := merger.Run(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Merge should be idempotent: %v != %v", once, twice)
	}
}

func TestMergerDoesNotMutateInput(t *testing.T) {
	shared := []ProductImage{{URL: "https://cdn.example.com/a.jpg"}}
	products := []Product{
		{Title: "Red Shoe", Images: shared},
		{Title: "red shoe", Images: []ProductImage{{URL: "https://cdn.example.com/b.jpg"}}},
	}

	NewMerger().Run(products)

	if len(shared) != 1 {
		t.Errorf("Input image slice was mutated: %v", shared)
	}
}

func TestNormalizeTitle(t *testing.T) {
	if got := NormalizeTitle("  Red Shoe "); got != "red shoe" {
		t.Errorf("Expected 'red shoe', got %q", got)
	}
}
