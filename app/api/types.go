package api

import (
	"github.com/V1K1NGM4N/file-converter-buddy/app/database"
	"github.com/V1K1NGM4N/file-converter-buddy/app/export"
	"github.com/V1K1NGM4N/file-converter-buddy/app/feed"
	"github.com/V1K1NGM4N/file-converter-buddy/app/tasks"
)

type GeneratorInterface interface {
	Run(parsed *feed.ParsedFeed) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type Handler struct {
	parser    *feed.Parser
	fetcher   feed.Fetcher
	filterer  *feed.Filterer
	generator GeneratorInterface
	exporter  *export.Exporter
	scheduler tasks.TaskSchedulerInterface
	registry  *tasks.JobRegistry
	cacheRepo *database.FetchCacheRepository // nil when the cache is disabled
}

// ParseRequest carries pasted feed content and an optional selection
// filter.
type ParseRequest struct {
	Content string        `json:"content" binding:"required"`
	Filters []feed.Filter `json:"filters,omitempty"`
}

// FetchRequest names a remote feed URL to fetch and parse.
type FetchRequest struct {
	URL     string        `json:"url" binding:"required"`
	Filters []feed.Filter `json:"filters,omitempty"`
}

// ParseResponse is the feed result plus the initial scope estimate that
// preceded extraction.
type ParseResponse struct {
	Feed  *feed.ParsedFeed `json:"feed"`
	Scope feed.Scope       `json:"scope"`
}

// ExportRequest enqueues a bulk image export.
type ExportRequest struct {
	Items          []export.Item `json:"items" binding:"required"`
	GroupByProduct bool          `json:"group_by_product"`
	FolderName     string        `json:"folder_name"`
}
