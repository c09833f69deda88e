package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrNoFiles is returned when every item in a bulk export failed: there is
// nothing to package, so the whole operation fails.
var ErrNoFiles = errors.New("no images could be downloaded, nothing to package")

// Item is one image selected for export.
type Item struct {
	URL          string `json:"url"`
	Filename     string `json:"filename"`
	ProductTitle string `json:"product_title"`
}

// Options controls archive layout. When GroupByProduct is set each file
// lands in a folder named after its sanitized product title; otherwise
// FolderName (possibly empty for a flat archive) is used for every file.
type Options struct {
	GroupByProduct bool
	FolderName     string
}

// Result summarizes a finished bulk export.
type Result struct {
	ArchiveName string   `json:"archive_name"`
	ArchivePath string   `json:"archive_path"`
	Succeeded   int      `json:"succeeded"`
	Failed      int      `json:"failed"`
	Errors      []string `json:"errors,omitempty"`
}

const summaryErrorLimit = 3

// Summary renders the user-facing outcome: counts plus a truncated sample
// of error messages, not an exhaustive dump.
func (r *Result) Summary() string {
	if r.Failed == 0 {
		return fmt.Sprintf("%d images packaged into %s", r.Succeeded, r.ArchiveName)
	}

	sample := r.Errors
	if len(sample) > summaryErrorLimit {
		sample = sample[:summaryErrorLimit]
	}

	return fmt.Sprintf("%d images packaged, %d failed (%v)", r.Succeeded, r.Failed, sample)
}

// Exporter runs bulk image exports: strictly sequential downloads with a
// fixed inter-item delay as backpressure, partial-failure tolerance, and a
// single ZIP handed to the file saver at the end.
type Exporter struct {
	downloader *Downloader
	archiver   *Archiver
	saver      FileSaver
	delay      time.Duration
}

func NewExporter(downloader *Downloader, saver FileSaver, delay time.Duration) *Exporter {
	return &Exporter{
		downloader: downloader,
		archiver:   NewArchiver(),
		saver:      saver,
		delay:      delay,
	}
}

// Run processes items in order, one fully resolved before the next begins.
// Individual failures are recorded and do not abort the batch; zero
// successes fail the whole operation.
func (e *Exporter) Run(ctx context.Context, items []Item, opts Options) (*Result, error) {
	result := &Result{}
	var files []File

	for i, item := range items {
		if i > 0 && e.delay > 0 {
			if err := sleepContext(ctx, e.delay); err != nil {
				return nil, err
			}
		}

		data, err := e.downloader.Run(ctx, item.URL)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", item.Filename, err))
			slog.Debug("Export item failed", "url", item.URL, "error", err)
			continue
		}

		folder := opts.FolderName
		if opts.GroupByProduct {
			folder = SanitizeFilename(item.ProductTitle)
		}

		files = append(files, File{
			Folder: folder,
			Name:   item.Filename,
			Data:   data,
		})
		result.Succeeded++
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w (%d failures)", ErrNoFiles, result.Failed)
	}

	archive, err := e.archiver.Run(files)
	if err != nil {
		return nil, fmt.Errorf("failed to package archive: %w", err)
	}

	result.ArchiveName = ArchiveName(time.Now().In(time.Local))

	path, err := e.saver.Save(archive, result.ArchiveName)
	if err != nil {
		return nil, fmt.Errorf("failed to save archive: %w", err)
	}
	result.ArchivePath = path

	slog.Info("Bulk export completed",
		"archive", result.ArchiveName,
		"succeeded", result.Succeeded,
		"failed", result.Failed)

	return result, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
