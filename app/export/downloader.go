package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/V1K1NGM4N/file-converter-buddy/app/feed"
)

// MaxImageBytes caps a single downloaded image at 50MB.
const MaxImageBytes = 50 << 20

const downloadTimeout = 30 * time.Second

// Downloader fetches and validates a single image. A download is rejected
// when the URL is not absolute, the response is not OK, the declared
// content type is present but not an image, or the body exceeds the size
// cap.
type Downloader struct {
	client    *http.Client
	userAgent string
}

func NewDownloader(userAgent string) *Downloader {
	return &Downloader{
		client:    &http.Client{},
		userAgent: userAgent,
	}
}

func (d *Downloader) Run(ctx context.Context, imageURL string) ([]byte, error) {
	if !feed.IsValidImageURL(imageURL) {
		return nil, fmt.Errorf("invalid image URL: %s", imageURL)
	}

	reqCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("not an image: content type %s", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}

	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("image exceeds %dMB size limit", MaxImageBytes>>20)
	}

	return data, nil
}
