package feed

import (
	"strings"
)

// Detect classifies raw feed content into one of the supported feed types.
// It is a pure function over the trimmed input and always returns a value.
//
// The checks run in a fixed order: JSON, XML, CSV, HTML. Any HTML document
// also satisfies the XML check, so the HTML branch only fires for content
// that mentions markup without containing a full tag pair; XML heuristics
// handling HTML input downstream is intentional (the chunker's product-URL
// window fallback covers it).
func Detect(content string) FeedType {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return TypeUnknown
	}

	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return TypeJSON
	}

	if strings.Contains(trimmed, "<") && strings.Contains(trimmed, ">") {
		return TypeXML
	}

	if strings.Contains(trimmed, ",") && strings.Contains(trimmed, "\n") {
		return TypeCSV
	}

	lower := strings.ToLower(trimmed)
	if strings.Contains(lower, "<html") || strings.Contains(lower, "<!doctype") {
		return TypeHTML
	}

	return TypeUnknown
}
