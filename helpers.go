package kigo

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
)

// Slugify converts a title to a URL-safe slug. Non-ASCII titles (Korean
// posts often have them) fall through to empty, in which case callers
// keep the filename- or form-provided slug instead.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SplitCSV splits a comma-separated form value into trimmed, non-empty items.
func SplitCSV(value string) []string {
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return FilterEmpty(parts)
}

// RelatedPosts finds posts that share at least one tag with current.
func RelatedPosts(current Post, posts []Post) []Post {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		if tag := normalizeTerm(t); tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []Post
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[normalizeTerm(t)]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// WebsiteJsonLD returns a Schema.org WebSite JSON-LD block for a language.
func WebsiteJsonLD(cfg SiteConfig, lang string) string {
	site := cfg.Languages[lang]
	data := map[string]any{
		"@context":   "https://schema.org",
		"@type":      "WebSite",
		"name":       site.Title,
		"url":        BuildURL(cfg.URL, lang),
		"inLanguage": lang,
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD returns a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJsonLD(cfg SiteConfig, post Post) string {
	postURL := BuildURL(cfg.URL, post.Lang, "blog", post.Slug)
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Summary,
		"datePublished": post.Date,
		"inLanguage":    post.Lang,
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	author := post.Author
	if author == "" {
		author = cfg.Author
	}
	if author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  author,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
