package publish

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PageRenderer renders a registered page path to a full HTML document.
type PageRenderer interface {
	RenderPage(path string) (string, error)
	Pages() []string
}

// Export renders every registered page and writes the documents under
// outDir. Returns the number of files written.
func Export(r PageRenderer, outDir string) (int, error) {
	written := 0
	for _, path := range r.Pages() {
		html, err := r.RenderPage(path)
		if err != nil {
			return written, fmt.Errorf("render %s: %w", path, err)
		}

		file := filepath.Join(outDir, pageFile(path))
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return written, err
		}
		if err := os.WriteFile(file, []byte(html), 0o644); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// pageFile maps a page path to its exported file name. "/" becomes
// index.html, "/about" becomes about/index.html.
func pageFile(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "index.html"
	}
	return filepath.Join(filepath.FromSlash(trimmed), "index.html")
}
