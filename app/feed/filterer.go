package feed

import (
	"strings"
)

// Filter narrows a parsed feed to a selection before export: include rules
// keep only matching products, exclude rules drop matching ones. Matching
// is case-insensitive substring containment on a named field.
type Filter struct {
	Field    string   `json:"field" yaml:"field"`
	Includes []string `json:"includes,omitempty" yaml:"includes"`
	Excludes []string `json:"excludes,omitempty" yaml:"excludes"`
}

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

func (f *Filterer) Run(products []Product, filters []Filter) []Product {
	if len(filters) == 0 {
		return products
	}

	selected := make([]Product, 0, len(products))
	for _, product := range products {
		if f.matches(product, filters) {
			selected = append(selected, product)
		}
	}

	return selected
}

func (f *Filterer) matches(product Product, filters []Filter) bool {
	for _, filter := range filters {
		value := f.fieldValue(product, filter.Field)

		for _, exclude := range filter.Excludes {
			if containsFold(value, exclude) {
				return false
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if containsFold(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
	}

	return true
}

func containsFold(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) fieldValue(product Product, field string) string {
	switch field {
	case "title":
		return product.Title
	case "description":
		return product.Description
	case "brand":
		return product.Brand
	case "category":
		return product.Category
	case "availability":
		return product.Availability
	case "condition":
		return product.Condition
	case "color":
		return product.Color
	case "link":
		return product.ProductURL
	default:
		return ""
	}
}

// ValidFilterField reports whether a filter field name is recognized.
func ValidFilterField(field string) bool {
	switch field {
	case "title", "description", "brand", "category", "availability", "condition", "color", "link":
		return true
	default:
		return false
	}
}
