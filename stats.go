package kigo

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// Stats records daily pageview counters. Visitors are deduplicated per day
// with a salted hash of IP and user agent; the raw IP is never stored.
type Stats struct {
	store *Store
	salt  string
}

const statsSaltKey = "stats_salt"

// NewStats creates a Stats recorder, generating and persisting the visitor
// salt on first use so hashes stay stable across restarts.
func NewStats(store *Store) (*Stats, error) {
	salt, err := store.GetMeta(statsSaltKey)
	if err != nil {
		return nil, fmt.Errorf("load stats salt: %w", err)
	}
	if salt == "" {
		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			return nil, fmt.Errorf("generate stats salt: %w", err)
		}
		salt = hex.EncodeToString(raw)
		if err := store.SetMeta(statsSaltKey, salt); err != nil {
			return nil, fmt.Errorf("persist stats salt: %w", err)
		}
	}
	return &Stats{store: store, salt: salt}, nil
}

// VisitorHash derives the anonymous visitor key for today.
func (s *Stats) VisitorHash(ip, userAgent, day string) string {
	sum := sha256.Sum256([]byte(s.salt + "|" + day + "|" + ip + "|" + userAgent))
	return hex.EncodeToString(sum[:16])
}

// Record counts one hit for the given page.
func (s *Stats) Record(lang, path, ip, userAgent string) error {
	day := time.Now().UTC().Format("2006-01-02")
	visitor := s.VisitorHash(ip, userAgent, day)
	_, err := s.store.db.Exec(`
		INSERT INTO pageviews (day, lang, path, visitor, hits) VALUES (?,?,?,?,1)
		ON CONFLICT (day, lang, path, visitor) DO UPDATE SET hits = hits + 1`,
		day, lang, path, visitor)
	return err
}

// PageSummary is one row of the stats report.
type PageSummary struct {
	Path     string `json:"path"`
	Lang     string `json:"lang"`
	Views    int    `json:"views"`
	Visitors int    `json:"visitors"`
}

// Summary aggregates views and unique visitors per page over the last
// `days` days, most viewed first.
func (s *Stats) Summary(days int) ([]PageSummary, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")
	rows, err := s.store.db.Query(`
		SELECT path, lang, SUM(hits), COUNT(DISTINCT visitor)
		FROM pageviews WHERE day >= ?
		GROUP BY path, lang
		ORDER BY SUM(hits) DESC, path ASC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PageSummary
	for rows.Next() {
		var p PageSummary
		if err := rows.Scan(&p.Path, &p.Lang, &p.Views, &p.Visitors); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CleanupBefore deletes counters older than the cutoff day and returns the
// number of rows removed.
func (s *Stats) CleanupBefore(cutoff time.Time) (int64, error) {
	res, err := s.store.db.Exec(`DELETE FROM pageviews WHERE day < ?`,
		cutoff.UTC().Format("2006-01-02"))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StartCleanupScheduler deletes counters past the retention window every
// interval. The returned func stops the scheduler.
func (s *Stats) StartCleanupScheduler(retentionDays int, interval time.Duration) func() {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().AddDate(0, 0, -retentionDays)
				_, _ = s.CleanupBefore(cutoff)
			case <-stop:
				return
			}
		}
	}()
	return func() { close(stop) }
}

// Middleware counts successful HTML page hits. Static assets, feeds, and
// the admin area are excluded.
func (s *Stats) Middleware(defaultLang string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil || c.Request().Method != "GET" {
				return err
			}
			if status := c.Response().Status; status < 200 || status >= 300 {
				return nil
			}
			path := c.Request().URL.Path
			if !countablePath(path) {
				return nil
			}
			lang := pathLang(path, defaultLang)
			// Best effort: a failed counter write never fails the request.
			_ = s.Record(lang, path, c.RealIP(), c.Request().UserAgent())
			return nil
		}
	}
}

func countablePath(path string) bool {
	switch {
	case strings.HasPrefix(path, "/public"),
		strings.HasPrefix(path, "/admin"),
		strings.HasPrefix(path, "/favicon"),
		path == "/sitemap.xml", path == "/feed.xml", path == "/robots.txt",
		strings.HasSuffix(path, "/feed.xml"):
		return false
	}
	return true
}

// pathLang extracts the language prefix from a request path.
func pathLang(path, defaultLang string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if idx := strings.Index(trimmed, "/"); idx > 0 {
		trimmed = trimmed[:idx]
	}
	if len(trimmed) >= 2 && len(trimmed) <= 8 && !strings.Contains(trimmed, ".") {
		return trimmed
	}
	return defaultLang
}
