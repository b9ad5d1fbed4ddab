package kigo

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Spaces  everywhere  ", "spaces-everywhere"},
		{"Go 1.24 Released!", "go-1-24-released"},
		{"UPPER", "upper"},
		{"레디스 캐시 전략", ""}, // non-ASCII falls through; caller keeps its own slug
		{"한국어 with english", "with-english"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"https://example.com", []string{"ko"}, "https://example.com/ko/"},
		{"https://example.com", []string{"ko", "blog", "my-post"}, "https://example.com/ko/blog/my-post/"},
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com/base", []string{"en"}, "https://example.com/base/en/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.want)
		}
	}
}

func TestSplitCSV(t *testing.T) {
	got := SplitCSV(" go , web,, sqlite ,")
	want := []string{"go", "web", "sqlite"}
	if len(got) != len(want) {
		t.Fatalf("SplitCSV = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SplitCSV[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if got := SplitCSV(""); got != nil {
		t.Errorf("SplitCSV(empty) = %v, want nil", got)
	}
}

func TestRelatedPosts(t *testing.T) {
	current := Post{Slug: "current", Tags: []string{"Go", "web"}}
	posts := []Post{
		{Slug: "current", Tags: []string{"go"}},      // self, excluded
		{Slug: "match", Tags: []string{"go", "api"}}, // shares "go" case-insensitively
		{Slug: "nomatch", Tags: []string{"rust"}},
	}
	related := RelatedPosts(current, posts)
	if len(related) != 1 || related[0].Slug != "match" {
		t.Errorf("RelatedPosts = %v, want [match]", related)
	}
}

func TestWebsiteJsonLD(t *testing.T) {
	cfg := SiteConfig{
		Name:   "kigo",
		URL:    "https://example.com",
		Author: "gyeom",
		Languages: map[string]Language{
			"ko": {Title: "기염 블로그", Description: "개발 블로그"},
		},
	}
	got := WebsiteJsonLD(cfg, "ko")
	for _, want := range []string{`"@type":"WebSite"`, `"inLanguage":"ko"`, `https://example.com/ko/`, "기염 블로그"} {
		if !strings.Contains(got, want) {
			t.Errorf("WebsiteJsonLD missing %q in %s", want, got)
		}
	}
}

func TestBlogPostingJsonLD(t *testing.T) {
	cfg := SiteConfig{Name: "kigo", URL: "https://example.com", Author: "gyeom"}
	post := Post{
		Slug:  "redis-cache",
		Lang:  "ko",
		Title: "Redis 캐시 전략",
		Date:  "2026-01-15",
		Tags:  []string{"redis", "cache"},
	}
	got := BlogPostingJsonLD(cfg, post)
	for _, want := range []string{
		`"@type":"BlogPosting"`,
		`"datePublished":"2026-01-15"`,
		`https://example.com/ko/blog/redis-cache/`,
		`"keywords":"redis, cache"`,
		`"name":"gyeom"`, // falls back to the site author
	} {
		if !strings.Contains(got, want) {
			t.Errorf("BlogPostingJsonLD missing %q in %s", want, got)
		}
	}
}
