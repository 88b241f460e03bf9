package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func newStaticServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "app.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.StaticDir = dir
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg), dir
}

func TestServeStaticFile(t *testing.T) {
	srv, _ := newStaticServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "body{}" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestServeStaticMissingFile(t *testing.T) {
	srv, _ := newStaticServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/nope.css", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestStaticRelPathRejectsTraversal(t *testing.T) {
	srv, _ := newStaticServer(t)

	bad := []string{
		"/static/../go.mod",
		"/static/./app.css",
		"/static//etc/passwd",
		"/static/a\\b.css",
		"/static/a\x00.css",
		"/static/",
		"/other/app.css",
	}
	for _, p := range bad {
		if rel, ok := srv.staticRelPath(p); ok {
			t.Errorf("staticRelPath(%q) accepted as %q", p, rel)
		}
	}

	if rel, ok := srv.staticRelPath("/static/css/app.css"); !ok || rel != "css/app.css" {
		t.Errorf("staticRelPath(/static/css/app.css) = %q, %v", rel, ok)
	}
}
