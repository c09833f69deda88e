package feed

import (
	"encoding/csv"
	"log/slog"
	"strings"
)

// csvStrategy extracts products from comma-separated content. The first row
// is the header; columns bind to fields by case-insensitive substring match
// against a small candidate list, so "Product Title" binds to title and
// "Image URL" to image.
type csvStrategy struct{}

func newCSVStrategy() *csvStrategy {
	return &csvStrategy{}
}

var csvHeaderCandidates = map[string][]string{
	"id":           {"id", "sku"},
	"title":        {"title", "name"},
	"description":  {"description", "desc"},
	"brand":        {"brand", "vendor", "manufacturer"},
	"price":        {"price", "cost"},
	"currency":     {"currency"},
	"availability": {"availability", "stock"},
	"condition":    {"condition"},
	"gender":       {"gender"},
	"age_group":    {"age group", "age_group"},
	"size":         {"size"},
	"color":        {"color", "colour"},
	"material":     {"material"},
	"category":     {"category", "product type", "product_type"},
	"link":         {"link", "product url", "product_url", "url"},
	"gtin":         {"gtin", "ean", "upc", "barcode"},
	"mpn":          {"mpn"},
	"weight":       {"weight"},
	"image":        {"image", "img", "picture", "photo"},
}

// Field binding order when several candidates could claim a column. Image is
// bound last so a column named "image url" is not eaten by the link field.
var csvBindOrder = []string{
	"image", "title", "description", "brand", "price", "currency",
	"availability", "condition", "gender", "age_group", "size", "color",
	"material", "category", "gtin", "mpn", "weight", "link", "id",
}

func (s *csvStrategy) Extract(content string, onItem func(Product)) []Product {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		slog.Debug("CSV parse failed", "error", err)
		return nil
	}

	if len(records) < 2 {
		return nil
	}

	columns := bindCSVHeaders(records[0])
	if _, ok := columns["title"]; !ok {
		// Without a recognizable title column the rows cannot become products
		return nil
	}

	products := make([]Product, 0, len(records)-1)
	for _, row := range records[1:] {
		if product, ok := productFromCSVRow(row, columns); ok {
			products = append(products, product)
			if onItem != nil {
				onItem(product)
			}
		}
	}

	return products
}

// bindCSVHeaders maps each field to the index of the first header cell whose
// lowercased text contains one of the field's candidate substrings.
func bindCSVHeaders(header []string) map[string]int {
	columns := make(map[string]int)
	claimed := make(map[int]bool)

	for _, field := range csvBindOrder {
		for index, cell := range header {
			if claimed[index] {
				continue
			}
			normalized := strings.ToLower(strings.TrimSpace(cell))
			if matchesCandidate(normalized, csvHeaderCandidates[field]) {
				columns[field] = index
				claimed[index] = true
				break
			}
		}
	}

	return columns
}

func matchesCandidate(header string, candidates []string) bool {
	for _, candidate := range candidates {
		if strings.Contains(header, candidate) {
			return true
		}
	}
	return false
}

func productFromCSVRow(row []string, columns map[string]int) (Product, bool) {
	cell := func(field string) string {
		index, ok := columns[field]
		if !ok || index >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[index])
	}

	product := Product{
		ID:           cell("id"),
		Title:        cell("title"),
		Description:  cell("description"),
		Brand:        cell("brand"),
		Currency:     cell("currency"),
		Availability: cell("availability"),
		Condition:    cell("condition"),
		Gender:       cell("gender"),
		AgeGroup:     cell("age_group"),
		Size:         cell("size"),
		Color:        cell("color"),
		Material:     cell("material"),
		Category:     cell("category"),
		ProductURL:   cell("link"),
		GTIN:         cell("gtin"),
		MPN:          cell("mpn"),
		Weight:       cell("weight"),
	}

	price, currency := splitPriceCurrency(cell("price"))
	product.Price = price
	if product.Currency == "" {
		product.Currency = currency
	}

	if product.Title == "" && product.ProductURL != "" {
		product.Title = titleFromURL(product.ProductURL)
	}

	if image := cell("image"); IsValidImageURL(image) {
		product.Images = []ProductImage{{URL: image, Alt: "Product Image 1"}}
	}

	if product.Title == "" {
		return Product{}, false
	}

	return product, true
}
