package feed

import (
	"regexp"
	"strings"
)

// Scope estimation patterns. These are deliberately loose: the estimate is an
// upper bound used to size progress reporting, so overcounting is acceptable
// and no structural parsing happens here.
var (
	itemTagRe    = regexp.MustCompile(`(?i)<item[\s>]`)
	productTagRe = regexp.MustCompile(`(?i)<product[\s>]`)
	entryTagRe   = regexp.MustCompile(`(?i)<entry[\s>]`)

	imageLinkTagRe = regexp.MustCompile(`(?i)<(?:g:)?image_link[\s>]`)
	imageExtURLRe  = regexp.MustCompile(`(?i)https?://[^\s"'<>]+\.(?:jpg|jpeg|png|gif|webp|avif|bmp|svg)`)
	genericURLRe   = regexp.MustCompile(`(?i)https?://[^\s"'<>]+`)

	jsonTitleKeyRe = regexp.MustCompile(`(?i)"(?:title|name|product_name|label)"\s*:`)
	jsonImageKeyRe = regexp.MustCompile(`(?i)"(?:image|image_link|image_url|images|img|thumbnail)"\s*:`)

	htmlProductClassRe = regexp.MustCompile(`(?i)<(?:div|article|section|li)[^>]*class\s*=\s*["'][^"']*product`)
	htmlImgTagRe       = regexp.MustCompile(`(?i)<img[\s>]`)
)

// Estimate returns a fast upper-bound count of products and images in the
// content for the given feed type. For TypeUnknown it takes the maximum
// across all per-format estimators plus a generic URL estimator, so progress
// sizing never under-promises.
func Estimate(content string, feedType FeedType) Scope {
	switch feedType {
	case TypeXML:
		return estimateXML(content)
	case TypeJSON:
		return estimateJSON(content)
	case TypeCSV:
		return estimateCSV(content)
	case TypeHTML:
		return estimateHTML(content)
	default:
		return estimateUnknown(content)
	}
}

func estimateXML(content string) Scope {
	products := len(itemTagRe.FindAllStringIndex(content, -1)) +
		len(productTagRe.FindAllStringIndex(content, -1)) +
		len(entryTagRe.FindAllStringIndex(content, -1))

	images := len(imageLinkTagRe.FindAllStringIndex(content, -1)) +
		len(imageExtURLRe.FindAllStringIndex(content, -1))

	return Scope{Products: products, Images: images}
}

func estimateJSON(content string) Scope {
	return Scope{
		Products: len(jsonTitleKeyRe.FindAllStringIndex(content, -1)),
		Images:   len(jsonImageKeyRe.FindAllStringIndex(content, -1)) + len(imageExtURLRe.FindAllStringIndex(content, -1)),
	}
}

func estimateCSV(content string) Scope {
	lines := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines++
		}
	}

	// First non-empty line is the header row
	products := lines - 1
	if products < 0 {
		products = 0
	}

	return Scope{
		Products: products,
		Images:   len(imageExtURLRe.FindAllStringIndex(content, -1)),
	}
}

func estimateHTML(content string) Scope {
	return Scope{
		Products: len(htmlProductClassRe.FindAllStringIndex(content, -1)),
		Images:   len(htmlImgTagRe.FindAllStringIndex(content, -1)) + len(imageExtURLRe.FindAllStringIndex(content, -1)),
	}
}

func estimateUnknown(content string) Scope {
	candidates := []Scope{
		estimateXML(content),
		estimateJSON(content),
		estimateCSV(content),
		estimateHTML(content),
		{
			Products: len(genericURLRe.FindAllStringIndex(content, -1)),
			Images:   len(imageExtURLRe.FindAllStringIndex(content, -1)),
		},
	}

	var max Scope
	for _, c := range candidates {
		if c.Products > max.Products {
			max.Products = c.Products
		}
		if c.Images > max.Images {
			max.Images = c.Images
		}
	}

	return max
}
