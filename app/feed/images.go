package feed

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"
)

// Image harvesting shared by the chunk-based strategies. Explicit image tags
// are tried first, then bare URLs that look like images by extension, path
// keyword or CDN host.

var (
	imageTagPatterns = compileAll(
		`(?is)<g:image_link[^>]*>(.*?)</g:image_link>`,
		`(?is)<g:additional_image_link[^>]*>(.*?)</g:additional_image_link>`,
		`(?is)<image_link[^>]*>(.*?)</image_link>`,
		`(?is)<image(?:_url)?[^>]*>(\s*https?://.*?)</image(?:_url)?>`,
		`(?i)<img[^>]+src\s*=\s*["']([^"']+)["']`,
		`(?i)<enclosure[^>]+url\s*=\s*["']([^"']+)["']`,
		`(?i)<media:(?:content|thumbnail)[^>]+url\s*=\s*["']([^"']+)["']`,
	)

	bareURLRe = regexp.MustCompile(`(?i)https?://[^\s"'<>)]+`)

	imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif", ".bmp", ".svg"}

	imagePathKeywords = []string{"/images/", "/media/", "/assets/img/"}
)

// IsValidImageURL reports whether the candidate parses as an absolute
// http(s) URL. Relative paths and bare words are rejected.
func IsValidImageURL(candidate string) bool {
	parsed, err := url.Parse(strings.TrimSpace(candidate))
	if err != nil {
		return false
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	return parsed.Host != ""
}

// looksLikeImageURL applies the image heuristics: recognized extension,
// image-related path keyword, or a CDN-like host token.
func looksLikeImageURL(candidate string) bool {
	lower := strings.ToLower(candidate)

	// Strip query string before checking the extension
	pathOnly := lower
	if q := strings.IndexAny(pathOnly, "?#"); q >= 0 {
		pathOnly = pathOnly[:q]
	}

	for _, ext := range imageExtensions {
		if strings.HasSuffix(pathOnly, ext) {
			return true
		}
	}

	for _, keyword := range imagePathKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}

	if strings.Contains(lower, "cdn.") || strings.Contains(lower, "/cdn/") {
		return true
	}

	return false
}

// collectImages scans one chunk for image URLs, dedupes exact URL matches
// within the chunk and synthesizes alt text for entries without one.
func collectImages(chunk string) []ProductImage {
	var images []ProductImage
	seen := make(map[string]bool)

	add := func(candidate string) {
		candidate = strings.TrimSpace(html.UnescapeString(candidate))
		if candidate == "" || seen[candidate] {
			return
		}
		if !IsValidImageURL(candidate) {
			return
		}
		seen[candidate] = true
		images = append(images, ProductImage{
			URL: candidate,
			Alt: fmt.Sprintf("Product Image %d", len(images)+1),
		})
	}

	for _, pattern := range imageTagPatterns {
		for _, match := range pattern.FindAllStringSubmatch(chunk, -1) {
			add(match[1])
		}
	}

	for _, match := range bareURLRe.FindAllString(chunk, -1) {
		if looksLikeImageURL(match) {
			add(match)
		}
	}

	return images
}
