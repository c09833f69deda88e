package feed

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// htmlStrategy extracts products from HTML pages by locating container
// elements whose class mentions "product" and running the shared chunk
// field extraction over each block's markup.
type htmlStrategy struct{}

func newHTMLStrategy() *htmlStrategy {
	return &htmlStrategy{}
}

const htmlContainerSelector = "div, article, section, li"

func (s *htmlStrategy) Extract(content string, onItem func(Product)) []Product {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		slog.Debug("HTML parse failed", "error", err)
		return nil
	}

	var products []Product

	doc.Find(htmlContainerSelector).Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		if !strings.Contains(strings.ToLower(class), "product") {
			return
		}

		// Skip containers that merely wrap other product containers, so a
		// grid div classed "products" does not swallow its children
		if sel.Find(htmlContainerSelector).FilterFunction(isProductContainer).Length() > 0 {
			return
		}

		block, err := goquery.OuterHtml(sel)
		if err != nil {
			return
		}

		product, ok := productFromChunk(block)
		if !ok {
			return
		}

		// Anchors and lazy-loaded images are easier to read from the DOM
		// than from raw markup
		if product.ProductURL == "" {
			if href, ok := sel.Find("a[href]").First().Attr("href"); ok && strings.HasPrefix(href, "http") {
				product.ProductURL = href
			}
		}

		if len(product.Images) == 0 {
			seen := make(map[string]bool)
			sel.Find("img").Each(func(_ int, img *goquery.Selection) {
				src, ok := img.Attr("src")
				if !ok || src == "" {
					src, _ = img.Attr("data-src")
				}
				if !IsValidImageURL(src) || seen[src] {
					return
				}
				seen[src] = true
				alt, _ := img.Attr("alt")
				if alt == "" {
					alt = fmt.Sprintf("Product Image %d", len(product.Images)+1)
				}
				product.Images = append(product.Images, ProductImage{URL: src, Alt: alt})
			})
		}

		products = append(products, product)
		if onItem != nil {
			onItem(product)
		}
	})

	return products
}

func isProductContainer(_ int, sel *goquery.Selection) bool {
	class, _ := sel.Attr("class")
	return strings.Contains(strings.ToLower(class), "product")
}
