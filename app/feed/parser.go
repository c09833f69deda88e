package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/readeck/go-readability"
	"github.com/mmcdole/gofeed"
)

// ErrHTMLBody marks a fetched body that looks like an HTML error page
// rather than feed content. Parsing a CDN or proxy error page as if it were
// data would silently yield garbage, so the pipeline rejects it up front.
var ErrHTMLBody = errors.New("fetched content looks like an HTML page, not a feed")

// Fetcher retrieves a remote feed body. Satisfied by fetcher.Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ParseOptions carries the optional progress callbacks. OnInitialScope is
// invoked once with the cheap estimate before the full extraction runs;
// OnProgress is invoked every few processed items.
type ParseOptions struct {
	OnInitialScope ScopeFunc
	OnProgress     ProgressFunc
}

const progressEvery = 10

// Parser runs the full ingestion pipeline: detect the format, report the
// initial scope, extract products with the format's strategy, then merge
// and sort.
type Parser struct {
	xml    *xmlStrategy
	json   *jsonStrategy
	csv    *csvStrategy
	html   *htmlStrategy
	merger *Merger

	metadataParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		xml:            newXMLStrategy(),
		json:           newJSONStrategy(),
		csv:            newCSVStrategy(),
		html:           newHTMLStrategy(),
		merger:         NewMerger(),
		metadataParser: gofeed.NewParser(),
	}
}

// Run parses raw feed content into a ParsedFeed. It is total: unparseable
// content yields an empty feed, never an error, since per-item failures are
// local by design.
func (p *Parser) Run(content string, opts ParseOptions) *ParsedFeed {
	feedType := Detect(content)
	scope := Estimate(content, feedType)

	if opts.OnInitialScope != nil {
		opts.OnInitialScope(scope)
	}

	products := p.extract(content, feedType, scope, opts.OnProgress)
	merged := p.merger.Run(products)

	result := &ParsedFeed{
		Products:   merged,
		TotalCount: len(merged),
	}
	result.FeedTitle, result.FeedDescription = p.metadata(content, feedType)

	slog.Debug("Feed parsed",
		"type", feedType.String(),
		"estimated_products", scope.Products,
		"extracted", len(products),
		"merged", len(merged))

	return result
}

// FetchAndParse retrieves a feed URL through the resilient fetcher and runs
// the parse pipeline over the body. Bodies that look like HTML error pages
// are rejected before parsing.
func (p *Parser) FetchAndParse(ctx context.Context, fetcher Fetcher, url string, opts ParseOptions) (*ParsedFeed, error) {
	body, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	if looksLikeHTMLPage(string(body)) {
		return nil, fmt.Errorf("%w (fetched from %s)", ErrHTMLBody, url)
	}

	return p.Run(string(body), opts), nil
}

// extract dispatches on the feed type. TypeUnknown is an explicit variant:
// all four strategies run and their outputs are union-merged downstream.
// Progress is reported from inside the strategies as items come off the
// extraction loops, with the scope estimate standing in for the total until
// extraction completes.
func (p *Parser) extract(content string, feedType FeedType, scope Scope, onProgress ProgressFunc) []Product {
	processed, imagesFound := 0, 0
	onItem := func(product Product) {
		if onProgress == nil {
			return
		}
		processed++
		imagesFound += len(product.Images)
		if processed%progressEvery == 0 {
			onProgress(processed, scope.Products, imagesFound)
		}
	}

	var products []Product

	switch feedType {
	case TypeXML:
		products = p.xml.Extract(content, onItem)
	case TypeJSON:
		products = p.json.Extract(content, onItem)
	case TypeCSV:
		products = p.csv.Extract(content, onItem)
	case TypeHTML:
		products = p.html.Extract(content, onItem)
	case TypeUnknown:
		products = append(products, p.xml.Extract(content, onItem)...)
		products = append(products, p.json.Extract(content, onItem)...)
		products = append(products, p.csv.Extract(content, onItem)...)
		products = append(products, p.html.Extract(content, onItem)...)
	}

	if onProgress != nil && processed > 0 && processed%progressEvery != 0 {
		onProgress(processed, scope.Products, imagesFound)
	}

	return products
}

// metadata derives the feed-level title and description where the format
// carries one.
func (p *Parser) metadata(content string, feedType FeedType) (title, description string) {
	switch feedType {
	case TypeXML:
		if parsed, err := p.metadataParser.ParseString(content); err == nil && parsed != nil {
			return parsed.Title, parsed.Description
		}
		// Not RSS/Atom; HTML routed here by detection ordering still has
		// document metadata worth reading
		if looksLikeHTMLPage(content) {
			return htmlMetadata(content)
		}
	case TypeJSON:
		return jsonMetadata(content)
	case TypeHTML:
		return htmlMetadata(content)
	}

	return "", ""
}

func jsonMetadata(content string) (title, description string) {
	var document map[string]any
	if err := json.Unmarshal([]byte(content), &document); err != nil {
		return "", ""
	}

	title = firstNonEmpty(jsonString(document["title"]), jsonString(document["name"]))
	description = jsonString(document["description"])
	return title, description
}

func htmlMetadata(content string) (title, description string) {
	article, err := readability.FromReader(strings.NewReader(content), nil)
	if err != nil {
		slog.Debug("Readability extraction failed", "error", err)
		return "", ""
	}

	return article.Title, article.Excerpt
}

func looksLikeHTMLPage(content string) bool {
	lower := strings.ToLower(content)
	return strings.Contains(lower, "<!doctype html") || strings.Contains(lower, "<html")
}
