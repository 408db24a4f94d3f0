package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-html2pdf/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestFileExists / TestIsURL
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "out.pdf")
	if err := os.WriteFile(file, []byte("%PDF"), 0o600); err != nil {
		t.Fatal(err)
	}

	if !fileutil.FileExists(file) {
		t.Errorf("FileExists(%q) = false, want true", file)
	}
	if fileutil.FileExists(dir) {
		t.Errorf("FileExists(%q) = true for a directory", dir)
	}
	if fileutil.FileExists(filepath.Join(dir, "missing")) {
		t.Error("FileExists(missing) = true")
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"https://example.com": true,
		"http://localhost:80": true,
		"file:///tmp/a.html":  false,
		"page.html":           false,
	}
	for in, want := range tests {
		if got := fileutil.IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}
