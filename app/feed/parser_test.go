package feed

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParserRunXML(t *testing.T) {
	var scope Scope
	parsed := NewParser().Run(googleShoppingFeed, ParseOptions{
		OnInitialScope: func(s Scope) { scope = s },
	})

	if parsed.TotalCount != 3 {
		t.Fatalf("Expected 3 products, got %d", parsed.TotalCount)
	}
	if scope.Products != 3 {
		t.Errorf("Expected initial scope of 3 products, got %d", scope.Products)
	}
	if parsed.FeedTitle != "Acme Store" {
		t.Errorf("Expected feed title 'Acme Store', got '%s'", parsed.FeedTitle)
	}
	if parsed.FeedDescription != "Product catalog" {
		t.Errorf("Expected feed description 'Product catalog', got '%s'", parsed.FeedDescription)
	}

	// Output is sorted by normalized title
	for i := 1; i < len(parsed.Products); i++ {
		if NormalizeTitle(parsed.Products[i-1].Title) > NormalizeTitle(parsed.Products[i].Title) {
			t.Errorf("Products out of order: %q before %q", parsed.Products[i-1].Title, parsed.Products[i].Title)
		}
	}
}

func TestParserRunIsTotal(t *testing.T) {
	parsed := NewParser().Run("complete garbage that is no feed at all", ParseOptions{})

	if parsed == nil {
		t.Fatal("Run should never return nil")
	}
	if parsed.TotalCount != 0 {
		t.Errorf("Expected empty feed, got %d products", parsed.TotalCount)
	}
}

func TestParserRunIdempotent(t *testing.T) {
	parser := NewParser()

	first := parser.Run(googleShoppingFeed, ParseOptions{})
	second := parser.Run(googleShoppingFeed, ParseOptions{})

	if first.TotalCount != second.TotalCount {
		t.Errorf("Expected identical counts, got %d and %d", first.TotalCount, second.TotalCount)
	}
	for i := range first.Products {
		if first.Products[i].Title != second.Products[i].Title {
			t.Errorf("Product order differs at %d: %q vs %q", i, first.Products[i].Title, second.Products[i].Title)
		}
	}
}

func TestParserProgressReporting(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0"?><rss version="2.0" xmlns:g="http://base.google.com/ns/1.0"><channel><title>Big</title>`)
	for i := 0; i < 25; i++ {
		sb.WriteString(`<item><title>Product `)
		sb.WriteByte(byte('A' + i))
		sb.WriteString(`</title><g:image_link>https://cdn.example.com/a.jpg</g:image_link></item>`)
	}
	sb.WriteString(`</channel></rss>`)

	var calls []int
	var lastImages int
	NewParser().Run(sb.String(), ParseOptions{
		OnProgress: func(current, total, imagesFound int) {
			calls = append(calls, current)
			lastImages = imagesFound
		},
	})

	// Every 10 items plus the final item
	expected := []int{10, 20, 25}
	if len(calls) != len(expected) {
		t.Fatalf("Expected %d progress calls, got %d (%v)", len(expected), len(calls), calls)
	}
	for i, c := range expected {
		if calls[i] != c {
			t.Errorf("Expected progress call at %d, got %d", c, calls[i])
		}
	}
	if lastImages != 25 {
		t.Errorf("Expected 25 images found, got %d", lastImages)
	}
}

type stubFetcher struct {
	body []byte
	err  error
}

func (f *stubFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	return f.body, f.err
}

func TestFetchAndParse(t *testing.T) {
	parser := NewParser()

	parsed, err := parser.FetchAndParse(context.Background(), &stubFetcher{body: []byte(googleShoppingFeed)}, "https://shop.example.com/feed.xml", ParseOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if parsed.TotalCount != 3 {
		t.Errorf("Expected 3 products, got %d", parsed.TotalCount)
	}
}

func TestFetchAndParseRejectsHTMLBody(t *testing.T) {
	parser := NewParser()
	body := []byte(`<!DOCTYPE html><html><body><h1>403 Forbidden</h1></body></html>`)

	_, err := parser.FetchAndParse(context.Background(), &stubFetcher{body: body}, "https://shop.example.com/feed.xml", ParseOptions{})
	if !errors.Is(err, ErrHTMLBody) {
		t.Errorf("Expected ErrHTMLBody, got %v", err)
	}
}

func TestFetchAndParsePropagatesFetchError(t *testing.T) {
	parser := NewParser()
	fetchErr := errors.New("network down")

	_, err := parser.FetchAndParse(context.Background(), &stubFetcher{err: fetchErr}, "https://shop.example.com/feed.xml", ParseOptions{})
	if !errors.Is(err, fetchErr) {
		t.Errorf("Expected wrapped fetch error, got %v", err)
	}
}

func TestParserUnknownRunsAllStrategies(t *testing.T) {
	// Plain text with a product URL: no detector branch claims it, but the
	// XML window fallback still recovers a product
	content := "see https://shop.example.com/product/red-shoe for details"

	if Detect(content) != TypeUnknown {
		t.Fatal("Fixture should classify as unknown")
	}

	parsed := NewParser().Run(content, ParseOptions{})

	if parsed.TotalCount != 1 {
		t.Fatalf("Expected 1 product, got %d", parsed.TotalCount)
	}
	if parsed.Products[0].Title != "Red Shoe" {
		t.Errorf("Expected title 'Red Shoe', got '%s'", parsed.Products[0].Title)
	}
}
