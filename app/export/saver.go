package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// FileSaver is the platform capability behind file output. The pipeline
// only ever calls Save; selecting an implementation happens once at
// startup.
type FileSaver interface {
	Save(data []byte, filename string) (string, error)
}

// DiskSaver writes files under a base directory.
type DiskSaver struct {
	baseDir string
}

func NewDiskSaver(baseDir string) *DiskSaver {
	return &DiskSaver{baseDir: baseDir}
}

func (s *DiskSaver) Save(data []byte, filename string) (string, error) {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	path := filepath.Join(s.baseDir, SanitizeFilename(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}

var (
	invalidFilenameRe = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	filenameSpaceRe   = regexp.MustCompile(`\s+`)
	underscoreRunRe   = regexp.MustCompile(`_+`)
)

const maxFilenameLength = 255

// SanitizeFilename strips filesystem-invalid characters, collapses
// whitespace and underscore runs, and caps the length at 255 characters
// while keeping the extension.
func SanitizeFilename(name string) string {
	name = invalidFilenameRe.ReplaceAllString(name, "")
	name = filenameSpaceRe.ReplaceAllString(name, " ")
	name = underscoreRunRe.ReplaceAllString(name, "_")
	name = strings.TrimSpace(name)

	if name == "" {
		return "file"
	}

	if len(name) <= maxFilenameLength {
		return name
	}

	ext := filepath.Ext(name)
	if len(ext) >= maxFilenameLength {
		return name[:maxFilenameLength]
	}

	return name[:maxFilenameLength-len(ext)] + ext
}
