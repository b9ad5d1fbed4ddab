package kigo

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func newRouteTestApp(t *testing.T) *App {
	t.Helper()
	a := New(SiteConfig{URL: "https://example.com", StaticDir: t.TempDir()}, ViewFuncs{})
	a.setupRoutes()
	return a
}

func get(a *App, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func TestFaviconRoutes(t *testing.T) {
	a := newRouteTestApp(t)
	names := []string{
		"favicon.ico", "favicon.png", "favicon.svg",
		"favicon-16.png", "favicon-32.png", "favicon-48.png",
		"favicon-96.png", "favicon-144.png", "favicon-256.png",
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(a.Config.StaticDir, name), []byte("icon"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	for _, name := range names {
		if rec := get(a, "/"+name); rec.Code != http.StatusOK {
			t.Errorf("GET /%s = %d, want 200", name, rec.Code)
		}
	}
}

func TestFaviconFallsBackToSVG(t *testing.T) {
	a := newRouteTestApp(t)
	svg := []byte("<svg></svg>")
	if err := os.WriteFile(filepath.Join(a.Config.StaticDir, "favicon.svg"), svg, 0o644); err != nil {
		t.Fatalf("write fallback: %v", err)
	}

	rec := get(a, "/favicon-96.png")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /favicon-96.png = %d, want 200 via fallback", rec.Code)
	}
	if rec.Body.String() != string(svg) {
		t.Errorf("body = %q, want the SVG fallback", rec.Body.String())
	}
}

// The dashboard's delete buttons are plain forms, so the POST variants of
// the delete endpoints must be routed. Without a session they redirect to
// the login page instead of 404ing.
func TestAdminDeleteFormRoutes(t *testing.T) {
	a := newRouteTestApp(t)
	paths := []string{
		"/admin/post/ko/some-slug/delete/",
		"/admin/images/diagram.jpg/delete/",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rec := httptest.NewRecorder()
		a.Echo.ServeHTTP(rec, req)
		if rec.Code != http.StatusSeeOther {
			t.Errorf("POST %s = %d, want 303", path, rec.Code)
		}
	}
}
