package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/V1K1NGM4N/file-converter-buddy/app/database"
	"github.com/V1K1NGM4N/file-converter-buddy/app/export"
	"github.com/V1K1NGM4N/file-converter-buddy/app/feed"
	"github.com/V1K1NGM4N/file-converter-buddy/app/fetcher"
	"github.com/V1K1NGM4N/file-converter-buddy/app/tasks"
	"github.com/gin-gonic/gin"
)

func NewHandler(parser *feed.Parser, feedFetcher feed.Fetcher, exporter *export.Exporter,
	scheduler tasks.TaskSchedulerInterface, registry *tasks.JobRegistry,
	cacheRepo *database.FetchCacheRepository) *Handler {
	return &Handler{
		parser:    parser,
		fetcher:   feedFetcher,
		filterer:  feed.NewFilterer(),
		generator: feed.NewGenerator(),
		exporter:  exporter,
		scheduler: scheduler,
		registry:  registry,
		cacheRepo: cacheRepo,
	}
}

// ParseFeed parses pasted feed content.
func (h *Handler) ParseFeed(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing feed content", "details": err.Error()})
		return
	}

	if !h.validFilters(c, req.Filters) {
		return
	}

	var scope feed.Scope
	parsed := h.parser.Run(req.Content, feed.ParseOptions{
		OnInitialScope: func(s feed.Scope) { scope = s },
	})

	h.respondWithFeed(c, parsed, scope, req.Filters)
}

// FetchFeed fetches a remote feed URL through the resilient fetcher and
// parses the body.
func (h *Handler) FetchFeed(c *gin.Context) {
	var req FetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing feed URL", "details": err.Error()})
		return
	}

	if !h.validFilters(c, req.Filters) {
		return
	}

	var scope feed.Scope
	parsed, err := h.parser.FetchAndParse(c.Request.Context(), h.fetcher, req.URL, feed.ParseOptions{
		OnInitialScope: func(s feed.Scope) { scope = s },
	})

	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, feed.ErrHTMLBody) {
			status = http.StatusUnprocessableEntity
		}
		slog.Error("Feed fetch failed", "url", req.URL, "error", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	h.respondWithFeed(c, parsed, scope, req.Filters)
}

func (h *Handler) validFilters(c *gin.Context, filters []feed.Filter) bool {
	for _, filter := range filters {
		if !feed.ValidFilterField(filter.Field) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter field: " + filter.Field})
			return false
		}
	}
	return true
}

// respondWithFeed applies selection filters and renders either JSON or,
// with ?format=rss, the normalized product feed.
func (h *Handler) respondWithFeed(c *gin.Context, parsed *feed.ParsedFeed, scope feed.Scope, filters []feed.Filter) {
	if len(filters) > 0 {
		selected := h.filterer.Run(parsed.Products, filters)
		parsed = &feed.ParsedFeed{
			Products:        selected,
			TotalCount:      len(selected),
			FeedTitle:       parsed.FeedTitle,
			FeedDescription: parsed.FeedDescription,
		}
	}

	if c.Query("format") == "rss" {
		rss, err := h.generator.Run(parsed)
		if err != nil {
			slog.Error("Feed generation failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate feed"})
			return
		}
		c.Header("Content-Type", "application/xml; charset=utf-8")
		c.String(http.StatusOK, rss)
		return
	}

	c.JSON(http.StatusOK, ParseResponse{Feed: parsed, Scope: scope})
}

// CreateExport enqueues a bulk image export job.
func (h *Handler) CreateExport(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing export items", "details": err.Error()})
		return
	}

	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No items to export"})
		return
	}

	task := tasks.NewExportTask(h.exporter, h.registry, req.Items, export.Options{
		GroupByProduct: req.GroupByProduct,
		FolderName:     req.FolderName,
	})

	h.registry.Add(task.ID, len(req.Items))

	if err := h.scheduler.EnqueueTask(task); err != nil {
		h.registry.SetFailed(task.ID, err.Error())
		slog.Error("Failed to enqueue export task", "id", task.ID, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Export queue is full"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"id":     task.ID,
		"status": tasks.JobQueued,
		"items":  len(req.Items),
	})
}

// GetExport reports the status of an export job.
func (h *Handler) GetExport(c *gin.Context) {
	job, ok := h.registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Export job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// GetExportArchive serves the finished ZIP of a completed job.
func (h *Handler) GetExportArchive(c *gin.Context) {
	job, ok := h.registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Export job not found"})
		return
	}

	if job.Status != tasks.JobCompleted || job.Result == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Export not completed", "status": job.Status})
		return
	}

	c.FileAttachment(job.Result.ArchivePath, job.Result.ArchiveName)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if h.cacheRepo != nil {
		if count, err := h.cacheRepo.Count(); err == nil {
			health["cached_feeds"] = count
		}
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"jobs": h.registry.Stats(),
	}

	if h.cacheRepo != nil {
		if count, err := h.cacheRepo.Count(); err == nil {
			stats["cached_feeds"] = count
		}
	}

	c.JSON(http.StatusOK, stats)
}

// terminalFetchAdvice is attached to root documentation so clients know the
// recovery path when every fetch attempt fails.
var terminalFetchAdvice = fetcher.ErrAllAttemptsFailed.Error()
