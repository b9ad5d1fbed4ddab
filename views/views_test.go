package views

import (
	"context"
	"strings"
	"testing"

	"github.com/gyeomkim/kigo"
)

func testConfig() kigo.SiteConfig {
	return kigo.SiteConfig{
		Name:            "kigo",
		URL:             "https://example.com",
		Author:          "gyeom",
		DefaultLanguage: "ko",
		Languages: map[string]kigo.Language{
			"ko": {Code: "ko", Name: "한국어", Title: "기염 블로그", Weight: 1},
			"en": {Code: "en", Name: "English", Title: "Gyeom's Blog", Weight: 2},
		},
	}
}

func TestHomeRendersPostsAndLanguageSwitcher(t *testing.T) {
	v := New(testConfig())
	posts := []kigo.Post{
		{Slug: "redis-cache", Lang: "ko", Title: "Redis 캐시 전략", Date: "2026-01-15", Link: "/ko/blog/redis-cache/"},
	}
	var sb strings.Builder
	if err := v.Home("ko", posts, []string{"redis"}, "", "").Render(context.Background(), &sb); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := sb.String()

	for _, want := range []string{
		`<html lang="ko">`,
		"기염 블로그",
		"Redis 캐시 전략",
		`href="/ko/blog/redis-cache/"`,
		`href="/en/"`, // switcher links to the other language
		"2026년 1월 15일",
		`?tag=redis`,
		`"@type":"WebSite"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("home missing %q", want)
		}
	}
}

func TestPostEscapesTitleAndRendersMarkdown(t *testing.T) {
	v := New(testConfig())
	post := kigo.Post{
		Slug:    "xss",
		Lang:    "en",
		Title:   `<script>alert("x")</script>`,
		Date:    "2026-01-15",
		Content: "# Heading\n\n*emphasis*",
	}
	var sb strings.Builder
	if err := v.Post(post, nil).Render(context.Background(), &sb); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := sb.String()

	if strings.Contains(html, `<script>alert`) {
		t.Error("post title not escaped")
	}
	if !strings.Contains(html, "<em>emphasis</em>") {
		t.Error("markdown body not rendered")
	}
	if !strings.Contains(html, `"@type":"BlogPosting"`) {
		t.Error("JSON-LD missing")
	}
}

func TestAdminFormPrefillsPost(t *testing.T) {
	v := New(testConfig())
	post := kigo.Post{
		Slug:       "redis-cache",
		Lang:       "en",
		Title:      "Redis caching",
		Date:       "2026-01-15",
		Categories: []string{"backend"},
		Tags:       []string{"redis", "cache"},
		Published:  true,
	}
	var sb strings.Builder
	if err := v.AdminFormPartial(post, "token123").Render(context.Background(), &sb); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := sb.String()

	for _, want := range []string{
		`value="token123"`,
		`value="Redis caching"`,
		`value="redis-cache"`,
		`value="redis, cache"`,
		`<option value="en" selected>`,
		`checked`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("admin form missing %q", want)
		}
	}
}

// The admin UI must work without any client-side script: deletes are
// plain forms posting to the /delete/ endpoints.
func TestAdminDashboardDeleteIsPlainForm(t *testing.T) {
	v := New(testConfig())
	posts := []kigo.Post{{Slug: "redis-cache", Lang: "ko", Title: "Redis 캐시 전략", Date: "2026-01-15"}}
	var sb strings.Builder
	if err := v.AdminDashboard(posts, "", "token123").Render(context.Background(), &sb); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := sb.String()

	if !strings.Contains(html, `action="/admin/post/ko/redis-cache/delete/"`) {
		t.Error("dashboard missing delete form action")
	}
	if strings.Contains(html, "hx-") || strings.Contains(html, "htmx") {
		t.Error("dashboard depends on a script the repo does not ship")
	}
}

func TestAdminImagesDeleteIsPlainForm(t *testing.T) {
	v := New(testConfig())
	images := []kigo.Image{{Filename: "diagram.jpg", OriginalName: "diagram.png", Width: 800, Height: 600}}
	var sb strings.Builder
	if err := v.AdminImages(images, "token123").Render(context.Background(), &sb); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := sb.String()

	if !strings.Contains(html, `action="/admin/images/diagram.jpg/delete/"`) {
		t.Error("image list missing delete form action")
	}
	if strings.Contains(html, "hx-") || strings.Contains(html, "htmx") {
		t.Error("image list depends on a script the repo does not ship")
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		date, lang, want string
	}{
		{"2026-01-15", "ko", "2026년 1월 15일"},
		{"2026-01-15", "en", "Jan 15, 2026"},
		{"not-a-date", "en", "not-a-date"},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.date, tt.lang); got != tt.want {
			t.Errorf("FormatDate(%q, %q) = %q, want %q", tt.date, tt.lang, got, tt.want)
		}
	}
}
