package feed

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Merger deduplicates products by normalized title and orders the result
// with locale-aware comparison. Merge is deterministic and idempotent:
// running it over an already-merged list is a no-op.
type Merger struct {
	collator *collate.Collator
}

func NewMerger() *Merger {
	return &Merger{
		collator: collate.New(language.Und, collate.IgnoreCase),
	}
}

// NormalizeTitle is the merge key: trimmed, lowercased title.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Run merges same-titled products and sorts the result. On a title
// collision the first product's scalar fields win; only images with unseen
// URLs are appended from later products, preserving first-seen order.
func (m *Merger) Run(products []Product) []Product {
	merged := make([]Product, 0, len(products))
	index := make(map[string]int, len(products))

	for _, product := range products {
		key := NormalizeTitle(product.Title)

		at, exists := index[key]
		if !exists {
			copied := product
			copied.Images = append([]ProductImage(nil), product.Images...)
			index[key] = len(merged)
			merged = append(merged, copied)
			continue
		}

		seen := make(map[string]bool, len(merged[at].Images))
		for _, image := range merged[at].Images {
			seen[image.URL] = true
		}

		for _, image := range product.Images {
			if !seen[image.URL] {
				seen[image.URL] = true
				merged[at].Images = append(merged[at].Images, image)
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return m.collator.CompareString(NormalizeTitle(merged[i].Title), NormalizeTitle(merged[j].Title)) < 0
	})

	return merged
}
