package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"red-shoe.jpg", "red-shoe.jpg"},
		{`re<d>:sh"oe/\|?*.jpg`, "redshoe.jpg"},
		{"red   shoe.jpg", "red shoe.jpg"},
		{"red___shoe.jpg", "red_shoe.jpg"},
		{"  red shoe.jpg  ", "red shoe.jpg"},
		{"", "file"},
		{`<>:"/\|?*`, "file"},
	}

	for _, c := range cases {
		if got := SanitizeFilename(c.input); got != c.expected {
			t.Errorf("Expected %q for %q, got %q", c.expected, c.input, got)
		}
	}
}

func TestSanitizeFilenameCapsLengthKeepingExtension(t *testing.T) {
	long := strings.Repeat("a", 300) + ".jpg"

	got := SanitizeFilename(long)

	if len(got) != 255 {
		t.Errorf("Expected 255 characters, got %d", len(got))
	}
	if !strings.HasSuffix(got, ".jpg") {
		t.Errorf("Expected the extension to survive, got %q", got[len(got)-8:])
	}
}

func TestDiskSaver(t *testing.T) {
	tempDir := t.TempDir()
	saver := NewDiskSaver(filepath.Join(tempDir, "downloads"))

	path, err := saver.Save([]byte("payload"), "arc/hive.zip")
	if err != nil {
		t.Fatal(err)
	}

	// The slash is stripped, not treated as a directory
	if filepath.Base(path) != "archive.zip" {
		t.Errorf("Expected sanitized filename 'archive.zip', got %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("Unexpected file contents: %s", data)
	}
}
