package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"time"
)

// File is one successfully downloaded image awaiting packaging. Folder is
// empty for a flat archive.
type File struct {
	Folder string
	Name   string
	Data   []byte
}

// Archiver packages downloaded files into a single ZIP, preserving the
// folder structure.
type Archiver struct{}

func NewArchiver() *Archiver {
	return &Archiver{}
}

// ArchiveName returns the fixed download archive name for a timestamp:
// "FileConverterBuddyDownload - 2026-08-31 14:05.zip".
func ArchiveName(t time.Time) string {
	return fmt.Sprintf("FileConverterBuddyDownload - %s.zip", t.Format("2006-01-02 15:04"))
}

func (a *Archiver) Run(files []File) ([]byte, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to archive")
	}

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)

	for _, file := range files {
		name := SanitizeFilename(file.Name)
		if file.Folder != "" {
			name = path.Join(SanitizeFilename(file.Folder), name)
		}

		entry, err := writer.Create(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive entry %s: %w", name, err)
		}

		if _, err := entry.Write(file.Data); err != nil {
			return nil, fmt.Errorf("failed to write archive entry %s: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return buf.Bytes(), nil
}
