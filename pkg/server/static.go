package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// staticRelPath returns a sanitized relative path for a static file
// request. It rejects traversal and absolute-path tricks so static
// serving cannot escape the configured directory.
func (s *Server) staticRelPath(urlPath string) (string, bool) {
	if s.config.StaticDir == "" {
		return "", false
	}

	rel := strings.TrimPrefix(urlPath, s.config.StaticPrefix)
	if rel == urlPath || rel == "" {
		return "", false
	}

	// Reject NUL early (can appear via %00).
	if strings.IndexByte(rel, 0) != -1 {
		return "", false
	}

	// Reject platform-dependent separators.
	if strings.Contains(rel, "\\") {
		return "", false
	}

	// After prefix stripping, a leading "/" indicates an absolute-path
	// attempt (e.g. "/static//etc/passwd" => "/etc/passwd").
	if strings.HasPrefix(rel, "/") {
		return "", false
	}

	// Reject dot-segments before cleaning to avoid "cleaning away"
	// traversal attempts and changing the meaning of the request path.
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if clean == "." || clean == "" || clean == ".." || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
		return "", false
	}

	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}

	return clean, true
}

// serveStatic serves a file from the configured static directory.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	rel, ok := s.staticRelPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	full := filepath.Join(s.config.StaticDir, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, full)
}
