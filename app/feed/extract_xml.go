package feed

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
)

// xmlStrategy extracts products from XML/RSS/Atom content. A structured
// gofeed parse is attempted first; product feeds that are not well-formed
// RSS/Atom fall through to regex chunking, and content with no recognizable
// item containers at all falls back to windows sliced around product or
// image URLs.
type xmlStrategy struct {
	parser *gofeed.Parser
}

func newXMLStrategy() *xmlStrategy {
	return &xmlStrategy{parser: gofeed.NewParser()}
}

var (
	itemChunkRe    = regexp.MustCompile(`(?is)<item[\s>].*?</item>`)
	productChunkRe = regexp.MustCompile(`(?is)<product[\s>].*?</product>`)
	entryChunkRe   = regexp.MustCompile(`(?is)<entry[\s>].*?</entry>`)
)

const (
	productURLWindow = 500
	imageURLWindow   = 300
)

func (s *xmlStrategy) Extract(content string, onItem func(Product)) []Product {
	if products := s.structured(content, onItem); len(products) > 0 {
		return products
	}

	return s.chunked(content, onItem)
}

// structured maps a successful gofeed parse onto products, reading Google
// Shopping fields out of the g: extension namespace. Feeds that carry bare,
// non-namespaced image elements end up with those in item.Custom or nowhere
// at all, so items without images fall back to the chunk-level image regexes
// over their raw markup.
func (s *xmlStrategy) structured(content string, onItem func(Product)) []Product {
	parsed, err := s.parser.ParseString(content)
	if err != nil || parsed == nil {
		slog.Debug("Structured XML parse failed, falling back to chunking", "error", err)
		return nil
	}

	chunks := rawItemChunks(content, len(parsed.Items))

	products := make([]Product, 0, len(parsed.Items))
	for i, item := range parsed.Items {
		if item == nil {
			continue
		}
		product, ok := s.productFromItem(item)
		if !ok {
			continue
		}

		if len(product.Images) == 0 && chunks != nil {
			product.Images = collectImages(chunks[i])
		}

		products = append(products, product)
		if onItem != nil {
			onItem(product)
		}
	}

	return products
}

// rawItemChunks slices the raw markup into per-item chunks when they align
// one-to-one with the parsed items; nil otherwise, since a mismatch would
// attach images to the wrong product.
func rawItemChunks(content string, itemCount int) []string {
	for _, pattern := range []*regexp.Regexp{itemChunkRe, entryChunkRe} {
		if chunks := pattern.FindAllString(content, -1); len(chunks) == itemCount {
			return chunks
		}
	}
	return nil
}

func (s *xmlStrategy) productFromItem(item *gofeed.Item) (Product, bool) {
	product := Product{
		ID:           gField(item, "id"),
		Title:        firstNonEmpty(strings.TrimSpace(item.Title), gField(item, "title")),
		Description:  firstNonEmpty(cleanFieldValue(item.Description), gField(item, "description")),
		Brand:        gField(item, "brand"),
		Availability: gField(item, "availability"),
		Condition:    gField(item, "condition"),
		Gender:       gField(item, "gender"),
		AgeGroup:     gField(item, "age_group"),
		Size:         gField(item, "size"),
		Color:        gField(item, "color"),
		Material:     gField(item, "material"),
		Category:     firstNonEmpty(gField(item, "google_product_category"), gField(item, "product_type")),
		ProductURL:   item.Link,
		GTIN:         gField(item, "gtin"),
		MPN:          gField(item, "mpn"),
		Weight:       gField(item, "shipping_weight"),
	}

	if product.ID == "" {
		product.ID = item.GUID
	}

	product.Price, product.Currency = splitPriceCurrency(firstNonEmpty(gField(item, "sale_price"), gField(item, "price")))

	if product.Title == "" && product.ProductURL != "" {
		product.Title = titleFromURL(product.ProductURL)
	}

	product.Images = s.itemImages(item)

	if product.Title == "" {
		return Product{}, false
	}

	return product, true
}

func (s *xmlStrategy) itemImages(item *gofeed.Item) []ProductImage {
	var images []ProductImage
	seen := make(map[string]bool)

	add := func(candidate string) {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" || seen[candidate] || !IsValidImageURL(candidate) {
			return
		}
		seen[candidate] = true
		images = append(images, ProductImage{
			URL: candidate,
			Alt: fmt.Sprintf("Product Image %d", len(images)+1),
		})
	}

	add(gField(item, "image_link"))
	for _, extra := range gFields(item, "additional_image_link") {
		add(extra)
	}

	// gofeed routes non-namespaced elements it does not recognize, such as a
	// bare <image_link>, into item.Custom
	for _, key := range []string{"image_link", "additional_image_link", "image_url", "image"} {
		add(item.Custom[key])
	}

	if item.Image != nil {
		add(item.Image.URL)
	}

	for _, enclosure := range item.Enclosures {
		if enclosure == nil {
			continue
		}
		if strings.HasPrefix(enclosure.Type, "image/") || looksLikeImageURL(enclosure.URL) {
			add(enclosure.URL)
		}
	}

	// Markup embedded in description/content often carries gallery images
	for _, embedded := range collectImages(item.Description + " " + item.Content) {
		add(embedded.URL)
	}

	return images
}

// gField returns the first value of a g:-namespaced extension element.
func gField(item *gofeed.Item, name string) string {
	values := gFields(item, name)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func gFields(item *gofeed.Item, name string) []string {
	ns, ok := item.Extensions["g"]
	if !ok {
		return nil
	}

	exts, ok := ns[name]
	if !ok {
		return nil
	}

	values := make([]string, 0, len(exts))
	for _, ext := range exts {
		value := strings.TrimSpace(ext.Value)
		if value != "" {
			values = append(values, value)
		}
	}

	return values
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// chunked slices the raw content into per-product chunks by container tag,
// falling back to character windows around product URLs and then around
// bare image URLs.
func (s *xmlStrategy) chunked(content string, onItem func(Product)) []Product {
	var chunks []string
	for _, pattern := range []*regexp.Regexp{itemChunkRe, productChunkRe, entryChunkRe} {
		if chunks = pattern.FindAllString(content, -1); len(chunks) > 0 {
			break
		}
	}

	if len(chunks) == 0 {
		chunks = windowsAround(content, productURLRe, productURLWindow)
	}

	if len(chunks) == 0 {
		chunks = windowsAround(content, imageExtURLRe, imageURLWindow)
	}

	products := make([]Product, 0, len(chunks))
	for _, chunk := range chunks {
		product, ok := productFromChunk(chunk)
		if !ok {
			slog.Debug("Skipping chunk without extractable title", "chunk_length", len(chunk))
			continue
		}
		products = append(products, product)
		if onItem != nil {
			onItem(product)
		}
	}

	return products
}

// windowsAround slices a fixed-size window of content around every match of
// the pattern.
func windowsAround(content string, pattern *regexp.Regexp, radius int) []string {
	matches := pattern.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return nil
	}

	windows := make([]string, 0, len(matches))
	for _, match := range matches {
		start := match[0] - radius
		if start < 0 {
			start = 0
		}
		end := match[1] + radius
		if end > len(content) {
			end = len(content)
		}
		windows = append(windows, content[start:end])
	}

	return windows
}
