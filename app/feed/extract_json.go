package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// jsonStrategy extracts products from JSON documents: either a root-level
// array or an array under one of the conventional collection keys.
type jsonStrategy struct{}

func newJSONStrategy() *jsonStrategy {
	return &jsonStrategy{}
}

// Collection keys checked in order; first match wins.
var jsonCollectionKeys = []string{"products", "items", "entries"}

// Key candidates per field, checked in order against each element.
var jsonFieldKeys = map[string][]string{
	"id":           {"id", "product_id", "sku"},
	"title":        {"title", "name", "product_name", "label"},
	"description":  {"description", "desc", "summary", "body_html", "body"},
	"brand":        {"brand", "vendor", "manufacturer"},
	"price":        {"price", "amount", "cost"},
	"currency":     {"currency", "currency_code"},
	"availability": {"availability", "stock_status", "in_stock"},
	"condition":    {"condition"},
	"gender":       {"gender"},
	"age_group":    {"age_group", "agegroup"},
	"size":         {"size"},
	"color":        {"color", "colour"},
	"material":     {"material"},
	"category":     {"category", "product_type", "google_product_category"},
	"link":         {"link", "url", "product_url", "permalink"},
	"gtin":         {"gtin", "ean", "upc", "barcode"},
	"mpn":          {"mpn"},
	"weight":       {"weight", "shipping_weight"},
}

var jsonImageKeys = []string{"image", "image_link", "image_url", "img", "thumbnail", "featured_image", "src"}

var jsonImageListKeys = []string{"images", "additional_images", "gallery", "media"}

func (s *jsonStrategy) Extract(content string, onItem func(Product)) []Product {
	var document any
	if err := json.Unmarshal([]byte(content), &document); err != nil {
		slog.Debug("JSON parse failed", "error", err)
		return nil
	}

	elements := locateJSONArray(document)
	if len(elements) == 0 {
		return nil
	}

	products := make([]Product, 0, len(elements))
	for _, element := range elements {
		object, ok := element.(map[string]any)
		if !ok {
			continue
		}
		if product, ok := productFromJSONObject(object); ok {
			products = append(products, product)
			if onItem != nil {
				onItem(product)
			}
		}
	}

	return products
}

// locateJSONArray finds the product array: the document root if it is an
// array, otherwise the first conventional collection key holding one.
func locateJSONArray(document any) []any {
	if array, ok := document.([]any); ok {
		return array
	}

	object, ok := document.(map[string]any)
	if !ok {
		return nil
	}

	for _, key := range jsonCollectionKeys {
		if array, ok := object[key].([]any); ok {
			return array
		}
	}

	return nil
}

func productFromJSONObject(object map[string]any) (Product, bool) {
	lookup := func(field string) string {
		for _, key := range jsonFieldKeys[field] {
			if value := jsonString(object[key]); value != "" {
				return value
			}
		}
		return ""
	}

	product := Product{
		ID:           lookup("id"),
		Title:        lookup("title"),
		Description:  lookup("description"),
		Brand:        lookup("brand"),
		Currency:     lookup("currency"),
		Availability: lookup("availability"),
		Condition:    lookup("condition"),
		Gender:       lookup("gender"),
		AgeGroup:     lookup("age_group"),
		Size:         lookup("size"),
		Color:        lookup("color"),
		Material:     lookup("material"),
		Category:     lookup("category"),
		ProductURL:   lookup("link"),
		GTIN:         lookup("gtin"),
		MPN:          lookup("mpn"),
		Weight:       lookup("weight"),
	}

	price, currency := splitPriceCurrency(lookup("price"))
	product.Price = price
	if product.Currency == "" {
		product.Currency = currency
	}

	if product.Title == "" && product.ProductURL != "" {
		product.Title = titleFromURL(product.ProductURL)
	}

	product.Images = jsonObjectImages(object)

	if product.Title == "" {
		return Product{}, false
	}

	return product, true
}

func jsonObjectImages(object map[string]any) []ProductImage {
	var images []ProductImage
	seen := make(map[string]bool)

	add := func(candidate, alt string) {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" || seen[candidate] || !IsValidImageURL(candidate) {
			return
		}
		seen[candidate] = true
		if alt == "" {
			alt = fmt.Sprintf("Product Image %d", len(images)+1)
		}
		images = append(images, ProductImage{URL: candidate, Alt: alt})
	}

	addValue := func(value any) {
		switch v := value.(type) {
		case string:
			add(v, "")
		case map[string]any:
			url := jsonString(v["url"])
			if url == "" {
				url = jsonString(v["src"])
			}
			if url == "" {
				url = jsonString(v["image_url"])
			}
			add(url, jsonString(v["alt"]))
		}
	}

	for _, key := range jsonImageKeys {
		if value, ok := object[key]; ok {
			addValue(value)
		}
	}

	for _, key := range jsonImageListKeys {
		list, ok := object[key].([]any)
		if !ok {
			continue
		}
		for _, entry := range list {
			addValue(entry)
		}
	}

	return images
}

// jsonString renders a scalar JSON value as a trimmed string. Numbers keep
// their shortest representation so prices survive the round trip.
func jsonString(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
