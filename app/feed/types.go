package feed

// Feed classification types

type FeedType int

const (
	TypeUnknown FeedType = iota
	TypeXML
	TypeJSON
	TypeCSV
	TypeHTML
)

func (t FeedType) String() string {
	switch t {
	case TypeXML:
		return "xml"
	case TypeJSON:
		return "json"
	case TypeCSV:
		return "csv"
	case TypeHTML:
		return "html"
	default:
		return "unknown"
	}
}

// Product types

type ProductImage struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

type Product struct {
	ID           string         `json:"id,omitempty"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Brand        string         `json:"brand,omitempty"`
	Price        string         `json:"price,omitempty"`
	Currency     string         `json:"currency,omitempty"`
	Availability string         `json:"availability,omitempty"`
	Condition    string         `json:"condition,omitempty"`
	Gender       string         `json:"gender,omitempty"`
	AgeGroup     string         `json:"age_group,omitempty"`
	Size         string         `json:"size,omitempty"`
	Color        string         `json:"color,omitempty"`
	Material     string         `json:"material,omitempty"`
	Category     string         `json:"category,omitempty"`
	Images       []ProductImage `json:"images"`
	ProductURL   string         `json:"product_url,omitempty"`
	GTIN         string         `json:"gtin,omitempty"`
	MPN          string         `json:"mpn,omitempty"`
	Weight       string         `json:"weight,omitempty"`
}

// ParsedFeed is the result of a single parse call. It is built fresh from an
// immutable input string and never mutated or persisted afterwards.
type ParsedFeed struct {
	Products        []Product `json:"products"`
	TotalCount      int       `json:"total_count"`
	FeedTitle       string    `json:"feed_title,omitempty"`
	FeedDescription string    `json:"feed_description,omitempty"`
}

// Scope is a cheap upper-bound estimate of feed contents, used to size
// progress reporting before the full extraction runs.
type Scope struct {
	Products int `json:"products"`
	Images   int `json:"images"`
}

// Progress callbacks

type ScopeFunc func(scope Scope)

type ProgressFunc func(current, total, imagesFound int)
