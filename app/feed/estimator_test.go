package feed

import (
	"testing"
)

func TestEstimateXML(t *testing.T) {
	content := `<rss><channel>
		<item><title>A</title><g:image_link>https://cdn.example.com/a.jpg</g:image_link></item>
		<item><title>B</title><g:image_link>https://cdn.example.com/b.jpg</g:image_link></item>
		<item><title>C</title></item>
	</channel></rss>`

	scope := Estimate(content, TypeXML)

	if scope.Products != 3 {
		t.Errorf("Expected 3 products, got %d", scope.Products)
	}
	// Two image_link tags plus two bare image-extension URLs
	if scope.Images != 4 {
		t.Errorf("Expected 4 images, got %d", scope.Images)
	}
}

func TestEstimateJSON(t *testing.T) {
	content := `{"products": [
		{"title": "A", "image": "https://example.com/a.jpg"},
		{"title": "B", "image": "https://example.com/b.jpg"},
		{"name": "C"}
	]}`

	scope := Estimate(content, TypeJSON)

	if scope.Products != 3 {
		t.Errorf("Expected 3 products, got %d", scope.Products)
	}
	if scope.Images < 2 {
		t.Errorf("Expected at least 2 images, got %d", scope.Images)
	}
}

func TestEstimateCSV(t *testing.T) {
	content := "title,price,image\nA,1.00,https://example.com/a.jpg\nB,2.00,https://example.com/b.jpg\n\n"

	scope := Estimate(content, TypeCSV)

	// Header row is not a product
	if scope.Products != 2 {
		t.Errorf("Expected 2 products, got %d", scope.Products)
	}
	if scope.Images != 2 {
		t.Errorf("Expected 2 images, got %d", scope.Images)
	}
}

func TestEstimateCSVEmpty(t *testing.T) {
	scope := Estimate("", TypeCSV)
	if scope.Products != 0 {
		t.Errorf("Expected 0 products for empty content, got %d", scope.Products)
	}
}

func TestEstimateHTML(t *testing.T) {
	content := `<div class="product-card"><img src="https://example.com/a.jpg"></div>
		<div class="product-card"><img src="https://example.com/b.jpg"></div>`

	scope := Estimate(content, TypeHTML)

	if scope.Products != 2 {
		t.Errorf("Expected 2 products, got %d", scope.Products)
	}
	// Two img tags plus two bare image URLs
	if scope.Images != 4 {
		t.Errorf("Expected 4 images, got %d", scope.Images)
	}
}

func TestEstimateUnknownTakesMaximum(t *testing.T) {
	// Content where the generic URL estimator dominates
	content := "https://example.com/one https://example.com/two https://example.com/three.jpg"

	scope := Estimate(content, TypeUnknown)

	if scope.Products != 3 {
		t.Errorf("Expected 3 products from generic URL count, got %d", scope.Products)
	}
	if scope.Images != 1 {
		t.Errorf("Expected 1 image, got %d", scope.Images)
	}
}
