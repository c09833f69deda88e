package feed

import (
	"html"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Field extraction is data-driven: each logical product field carries an
// ordered list of patterns, and the first match whose cleaned value survives
// validation wins. The markup a pattern targets varies from Google Shopping
// namespaced tags down to bare HTML attributes, so priority order matters.

type fieldRule struct {
	field    string
	patterns []*regexp.Regexp
}

var chunkFieldRules = []fieldRule{
	{"id", compileAll(
		`(?is)<g:id[^>]*>(.*?)</g:id>`,
		`(?is)<(?:product_)?id[^>]*>(.*?)</(?:product_)?id>`,
		`(?i)\bdata-(?:product-)?id\s*=\s*["']([^"']+)["']`,
	)},
	{"title", compileAll(
		`(?is)<g:title[^>]*>(.*?)</g:title>`,
		`(?is)<title[^>]*>(.*?)</title>`,
		`(?is)<(?:product_)?name[^>]*>(.*?)</(?:product_)?name>`,
		`(?is)<h[1-4][^>]*>(.*?)</h[1-4]>`,
		`(?i)\btitle\s*=\s*["']([^"']+)["']`,
	)},
	{"description", compileAll(
		`(?is)<g:description[^>]*>(.*?)</g:description>`,
		`(?is)<description[^>]*>(.*?)</description>`,
		`(?is)<summary[^>]*>(.*?)</summary>`,
		`(?is)<p[^>]*class\s*=\s*["'][^"']*(?:description|desc)[^"']*["'][^>]*>(.*?)</p>`,
	)},
	{"brand", compileAll(
		`(?is)<g:brand[^>]*>(.*?)</g:brand>`,
		`(?is)<brand[^>]*>(.*?)</brand>`,
		`(?is)<(?:manufacturer|vendor)[^>]*>(.*?)</(?:manufacturer|vendor)>`,
	)},
	{"price", compileAll(
		`(?is)<g:sale_price[^>]*>(.*?)</g:sale_price>`,
		`(?is)<g:price[^>]*>(.*?)</g:price>`,
		`(?is)<price[^>]*>(.*?)</price>`,
		`(?is)<span[^>]*class\s*=\s*["'][^"']*price[^"']*["'][^>]*>(.*?)</span>`,
	)},
	{"availability", compileAll(
		`(?is)<g:availability[^>]*>(.*?)</g:availability>`,
		`(?is)<availability[^>]*>(.*?)</availability>`,
		`(?is)<(?:stock|in_stock)[^>]*>(.*?)</(?:stock|in_stock)>`,
	)},
	{"condition", compileAll(
		`(?is)<g:condition[^>]*>(.*?)</g:condition>`,
		`(?is)<condition[^>]*>(.*?)</condition>`,
	)},
	{"gender", compileAll(
		`(?is)<g:gender[^>]*>(.*?)</g:gender>`,
		`(?is)<gender[^>]*>(.*?)</gender>`,
	)},
	{"age_group", compileAll(
		`(?is)<g:age_group[^>]*>(.*?)</g:age_group>`,
		`(?is)<age_group[^>]*>(.*?)</age_group>`,
	)},
	{"size", compileAll(
		`(?is)<g:size[^>]*>(.*?)</g:size>`,
		`(?is)<size[^>]*>(.*?)</size>`,
	)},
	{"color", compileAll(
		`(?is)<g:color[^>]*>(.*?)</g:color>`,
		`(?is)<colou?r[^>]*>(.*?)</colou?r>`,
	)},
	{"material", compileAll(
		`(?is)<g:material[^>]*>(.*?)</g:material>`,
		`(?is)<material[^>]*>(.*?)</material>`,
	)},
	{"category", compileAll(
		`(?is)<g:google_product_category[^>]*>(.*?)</g:google_product_category>`,
		`(?is)<g:product_type[^>]*>(.*?)</g:product_type>`,
		`(?is)<category[^>]*>(.*?)</category>`,
		`(?is)<product_type[^>]*>(.*?)</product_type>`,
	)},
	{"link", compileAll(
		`(?is)<g:link[^>]*>(.*?)</g:link>`,
		`(?is)<link[^>]*>(\s*https?://.*?)</link>`,
		`(?i)<link[^>]+href\s*=\s*["']([^"']+)["']`,
		`(?i)<a[^>]+href\s*=\s*["'](https?://[^"']+)["']`,
	)},
	{"gtin", compileAll(
		`(?is)<g:gtin[^>]*>(.*?)</g:gtin>`,
		`(?is)<(?:gtin|ean|upc|barcode)[^>]*>(.*?)</(?:gtin|ean|upc|barcode)>`,
	)},
	{"mpn", compileAll(
		`(?is)<g:mpn[^>]*>(.*?)</g:mpn>`,
		`(?is)<(?:mpn|sku)[^>]*>(.*?)</(?:mpn|sku)>`,
	)},
	{"weight", compileAll(
		`(?is)<g:shipping_weight[^>]*>(.*?)</g:shipping_weight>`,
		`(?is)<weight[^>]*>(.*?)</weight>`,
	)},
}

var (
	productURLRe = regexp.MustCompile(`(?i)https?://[^\s"'<>]+/(?:produkt|product|item)/[^\s"'<>)]+`)
	cdataRe      = regexp.MustCompile(`(?is)<!\[CDATA\[(.*?)\]\]>`)
	tagRe        = regexp.MustCompile(`(?s)<[^>]*>`)
	spaceRe      = regexp.MustCompile(`\s+`)
	priceValueRe = regexp.MustCompile(`([0-9]+(?:[.,][0-9]+)?)`)
	currencyRe   = regexp.MustCompile(`(?i)\b([A-Z]{3})\b|([€$£¥])`)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// extractChunkFields runs the rule table over a single chunk of markup and
// returns the first acceptable value per field.
func extractChunkFields(chunk string) map[string]string {
	fields := make(map[string]string, len(chunkFieldRules))

	for _, rule := range chunkFieldRules {
		for _, pattern := range rule.patterns {
			match := pattern.FindStringSubmatch(chunk)
			if match == nil {
				continue
			}

			value := cleanFieldValue(match[1])
			if acceptableFieldValue(rule.field, value) {
				fields[rule.field] = value
				break
			}
		}
	}

	return fields
}

// cleanFieldValue unwraps CDATA, strips residual markup, decodes entities and
// collapses whitespace.
func cleanFieldValue(raw string) string {
	if m := cdataRe.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}

	value := tagRe.ReplaceAllString(raw, " ")
	value = html.UnescapeString(value)
	value = spaceRe.ReplaceAllString(value, " ")

	return strings.TrimSpace(value)
}

// acceptableFieldValue rejects empty values, literal echoes of the field name
// (a <brand> element containing the word "brand") and values with leftover
// markup characters.
func acceptableFieldValue(field, value string) bool {
	if value == "" {
		return false
	}

	lower := strings.ToLower(value)
	if lower == field || lower == strings.ReplaceAll(field, "_", " ") {
		return false
	}

	if strings.ContainsAny(value, "<>") {
		return false
	}

	return true
}

// splitPriceCurrency separates a raw price value like "19.99 USD" or "€25"
// into a numeric amount and a currency token.
func splitPriceCurrency(raw string) (price, currency string) {
	if raw == "" {
		return "", ""
	}

	if m := priceValueRe.FindStringSubmatch(raw); m != nil {
		price = m[1]
	}

	if m := currencyRe.FindStringSubmatch(raw); m != nil {
		if m[1] != "" {
			currency = strings.ToUpper(m[1])
		} else {
			currency = m[2]
		}
	}

	return price, currency
}

// titleFromURL derives a presentable title from the last path segment of a
// product URL: "https://shop.example.com/product/red-running-shoe" becomes
// "Red Running Shoe".
func titleFromURL(productURL string) string {
	parsed, err := url.Parse(productURL)
	if err != nil {
		return ""
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return ""
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]

	// Drop a file extension if the segment carries one
	if dot := strings.LastIndex(last, "."); dot > 0 {
		last = last[:dot]
	}

	last = strings.ReplaceAll(last, "-", " ")
	last = strings.ReplaceAll(last, "_", " ")
	last = strings.TrimSpace(spaceRe.ReplaceAllString(last, " "))
	if last == "" {
		return ""
	}

	words := strings.Split(last, " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		first, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(first)) + strings.ToLower(word[size:])
	}

	return strings.Join(words, " ")
}

// productFromChunk assembles a Product from one chunk of markup. An empty
// title after all fallbacks means the chunk is not a usable product record.
func productFromChunk(chunk string) (Product, bool) {
	fields := extractChunkFields(chunk)

	product := Product{
		ID:           fields["id"],
		Title:        fields["title"],
		Description:  fields["description"],
		Brand:        fields["brand"],
		Availability: fields["availability"],
		Condition:    fields["condition"],
		Gender:       fields["gender"],
		AgeGroup:     fields["age_group"],
		Size:         fields["size"],
		Color:        fields["color"],
		Material:     fields["material"],
		Category:     fields["category"],
		ProductURL:   fields["link"],
		GTIN:         fields["gtin"],
		MPN:          fields["mpn"],
		Weight:       fields["weight"],
	}

	product.Price, product.Currency = splitPriceCurrency(fields["price"])

	if product.ProductURL == "" {
		if m := productURLRe.FindString(chunk); m != "" {
			product.ProductURL = m
		}
	}

	if product.Title == "" && product.ProductURL != "" {
		product.Title = titleFromURL(product.ProductURL)
	}

	product.Images = collectImages(chunk)

	if product.Title == "" {
		return Product{}, false
	}

	return product, true
}
