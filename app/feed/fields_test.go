package feed

import (
	"testing"
)

func TestCleanFieldValue(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"<![CDATA[Red Shoe]]>", "Red Shoe"},
		{"  Red   Shoe \n", "Red Shoe"},
		{"<b>Red</b> Shoe", "Red Shoe"},
		{"Red &amp; Blue", "Red & Blue"},
		{"", ""},
	}

	for _, c := range cases {
		if got := cleanFieldValue(c.input); got != c.expected {
			t.Errorf("Expected %q for %q, got %q", c.expected, c.input, got)
		}
	}
}

func TestAcceptableFieldValue(t *testing.T) {
	if acceptableFieldValue("brand", "") {
		t.Error("Empty value should be rejected")
	}
	if acceptableFieldValue("brand", "Brand") {
		t.Error("Field-name echo should be rejected")
	}
	if acceptableFieldValue("age_group", "age group") {
		t.Error("Field-name echo with spaces should be rejected")
	}
	if acceptableFieldValue("title", "Red <Shoe>") {
		t.Error("Leftover markup should be rejected")
	}
	if !acceptableFieldValue("brand", "Acme") {
		t.Error("Normal value should be accepted")
	}
}

func TestSplitPriceCurrency(t *testing.T) {
	cases := []struct {
		input    string
		price    string
		currency string
	}{
		{"19.99 USD", "19.99", "USD"},
		{"25,50 EUR", "25,50", "EUR"},
		{"€25", "25", "€"},
		{"$9.99", "9.99", "$"},
		{"1299", "1299", ""},
		{"", "", ""},
	}

	for _, c := range cases {
		price, currency := splitPriceCurrency(c.input)
		if price != c.price || currency != c.currency {
			t.Errorf("Expected (%q, %q) for %q, got (%q, %q)", c.price, c.currency, c.input, price, currency)
		}
	}
}

func TestTitleFromURL(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"https://shop.example.com/product/red-running-shoe", "Red Running Shoe"},
		{"https://shop.example.com/produkt/blaue_jacke", "Blaue Jacke"},
		{"https://shop.example.com/item/widget.html", "Widget"},
		{"https://shop.example.com/produkt/ökostrom-adapter", "Ökostrom Adapter"},
		{"https://shop.example.com/", ""},
	}

	for _, c := range cases {
		if got := titleFromURL(c.input); got != c.expected {
			t.Errorf("Expected %q for %q, got %q", c.expected, c.input, got)
		}
	}
}

func TestProductFromChunk(t *testing.T) {
	chunk := `<item>
		<g:id>SKU-1</g:id>
		<g:title>Red Running Shoe</g:title>
		<g:description><![CDATA[Light and fast.]]></g:description>
		<g:brand>Acme</g:brand>
		<g:price>89.99 USD</g:price>
		<g:availability>in stock</g:availability>
		<g:condition>new</g:condition>
		<g:color>red</g:color>
		<g:link>https://shop.example.com/product/red-running-shoe</g:link>
		<g:image_link>https://cdn.example.com/images/red-shoe.jpg</g:image_link>
	</item>`

	product, ok := productFromChunk(chunk)
	if !ok {
		t.Fatal("Expected a product from the chunk")
	}

	if product.ID != "SKU-1" {
		t.Errorf("Expected ID 'SKU-1', got '%s'", product.ID)
	}
	if product.Title != "Red Running Shoe" {
		t.Errorf("Expected title 'Red Running Shoe', got '%s'", product.Title)
	}
	if product.Description != "Light and fast." {
		t.Errorf("Expected description 'Light and fast.', got '%s'", product.Description)
	}
	if product.Brand != "Acme" {
		t.Errorf("Expected brand 'Acme', got '%s'", product.Brand)
	}
	if product.Price != "89.99" || product.Currency != "USD" {
		t.Errorf("Expected price 89.99 USD, got %s %s", product.Price, product.Currency)
	}
	if product.ProductURL != "https://shop.example.com/product/red-running-shoe" {
		t.Errorf("Unexpected product URL: %s", product.ProductURL)
	}
	if len(product.Images) != 1 {
		t.Fatalf("Expected 1 image, got %d", len(product.Images))
	}
	if product.Images[0].URL != "https://cdn.example.com/images/red-shoe.jpg" {
		t.Errorf("Unexpected image URL: %s", product.Images[0].URL)
	}
}

func TestProductFromChunkTitleFallback(t *testing.T) {
	// No title element: the title derives from the product URL
	chunk := `<block>see https://shop.example.com/product/blue-winter-jacket for details</block>`

	product, ok := productFromChunk(chunk)
	if !ok {
		t.Fatal("Expected a product from the chunk")
	}

	if product.Title != "Blue Winter Jacket" {
		t.Errorf("Expected title 'Blue Winter Jacket', got '%s'", product.Title)
	}
	if product.ProductURL != "https://shop.example.com/product/blue-winter-jacket" {
		t.Errorf("Unexpected product URL: %s", product.ProductURL)
	}
}

func TestProductFromChunkNoTitle(t *testing.T) {
	chunk := `<block><price>19.99</price></block>`

	if _, ok := productFromChunk(chunk); ok {
		t.Error("Chunk without any title source should not yield a product")
	}
}
