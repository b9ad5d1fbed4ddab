package kigo

import (
	"testing"
	"time"
)

func setupTestStats(t *testing.T) (*Store, *Stats) {
	t.Helper()
	store := setupTestStore(t)
	stats, err := NewStats(store)
	if err != nil {
		t.Fatalf("NewStats: %v", err)
	}
	return store, stats
}

func TestStatsSaltPersists(t *testing.T) {
	store, stats := setupTestStats(t)

	again, err := NewStats(store)
	if err != nil {
		t.Fatalf("NewStats again: %v", err)
	}
	day := "2026-01-15"
	if stats.VisitorHash("1.2.3.4", "ua", day) != again.VisitorHash("1.2.3.4", "ua", day) {
		t.Error("visitor hashes differ across restarts, salt not persisted")
	}
}

func TestVisitorHashAnonymizes(t *testing.T) {
	_, stats := setupTestStats(t)

	h1 := stats.VisitorHash("1.2.3.4", "ua", "2026-01-15")
	h2 := stats.VisitorHash("1.2.3.4", "ua", "2026-01-16")
	if h1 == h2 {
		t.Error("hash identical across days, want per-day rotation")
	}
	if h1 == stats.VisitorHash("5.6.7.8", "ua", "2026-01-15") {
		t.Error("hash identical for different IPs")
	}
	if len(h1) != 32 {
		t.Errorf("hash length = %d, want 32", len(h1))
	}
}

func TestStatsRecordAndSummary(t *testing.T) {
	_, stats := setupTestStats(t)

	// Same visitor twice, plus one distinct visitor.
	for i := 0; i < 2; i++ {
		if err := stats.Record("ko", "/ko/blog/a/", "1.2.3.4", "ua"); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := stats.Record("ko", "/ko/blog/a/", "5.6.7.8", "ua"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := stats.Record("en", "/en/", "1.2.3.4", "ua"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	summary, err := stats.Summary(7)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("Summary len = %d, want 2", len(summary))
	}
	top := summary[0]
	if top.Path != "/ko/blog/a/" || top.Views != 3 || top.Visitors != 2 {
		t.Errorf("top = %+v, want path=/ko/blog/a/ views=3 visitors=2", top)
	}
}

func TestStatsCleanup(t *testing.T) {
	_, stats := setupTestStats(t)

	if err := stats.Record("ko", "/ko/", "1.2.3.4", "ua"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	deleted, err := stats.CleanupBefore(time.Now().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("CleanupBefore: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0 for fresh rows", deleted)
	}
	deleted, err = stats.CleanupBefore(time.Now().AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("CleanupBefore future: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
}

func TestCountablePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/ko/", true},
		{"/ko/blog/redis-cache/", true},
		{"/public/style.css", false},
		{"/admin/", false},
		{"/favicon.ico", false},
		{"/feed.xml", false},
		{"/ko/feed.xml", false},
		{"/sitemap.xml", false},
		{"/robots.txt", false},
	}
	for _, tt := range tests {
		if got := countablePath(tt.path); got != tt.want {
			t.Errorf("countablePath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestPathLang(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/ko/blog/a/", "ko"},
		{"/en/", "en"},
		{"/", "ko"},
		{"/feed.xml", "ko"},
	}
	for _, tt := range tests {
		if got := pathLang(tt.path, "ko"); got != tt.want {
			t.Errorf("pathLang(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
