package kigo

import (
	"database/sql"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when a requested post or page does not exist.
var ErrNotFound = sql.ErrNoRows

// langEntry is one language's cached view of the store.
type langEntry struct {
	posts      []Post
	tags       []string
	categories []string
	fetched    time.Time
}

// PostCache is an in-memory, per-language cache of published posts and
// their taxonomies with TTL. Admin writes and content sync invalidate it.
type PostCache struct {
	mu    sync.RWMutex
	langs map[string]*langEntry
	ttl   time.Duration
	store *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{
		langs: make(map[string]*langEntry),
		ttl:   ttl,
		store: s,
	}
}

// Invalidate clears every language so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.langs = make(map[string]*langEntry)
	c.mu.Unlock()
}

func (c *PostCache) entryValid(e *langEntry) bool {
	return e != nil && time.Since(e.fetched) < c.ttl
}

// ensureLoaded returns the cached entry for lang, reloading from the store
// if the entry is missing or stale. It tries a read lock first and only
// takes the write lock when a reload is needed.
func (c *PostCache) ensureLoaded(lang string) (*langEntry, error) {
	c.mu.RLock()
	if e := c.langs[lang]; c.entryValid(e) {
		c.mu.RUnlock()
		return e, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if e := c.langs[lang]; c.entryValid(e) {
		return e, nil
	}
	posts, err := c.store.ListPosts(lang)
	if err != nil {
		return nil, err
	}
	tags, err := c.store.ListTags(lang)
	if err != nil {
		return nil, err
	}
	categories, err := c.store.ListCategories(lang)
	if err != nil {
		return nil, err
	}
	e := &langEntry{
		posts:      posts,
		tags:       tags,
		categories: categories,
		fetched:    time.Now(),
	}
	c.langs[lang] = e
	return e, nil
}

// ListPosts returns a language's published posts, optionally filtered by
// tag and/or category.
func (c *PostCache) ListPosts(lang, tag, category string) ([]Post, error) {
	e, err := c.ensureLoaded(lang)
	if err != nil {
		return nil, err
	}
	if tag == "" && category == "" {
		return e.posts, nil
	}
	tag = normalizeTerm(tag)
	category = normalizeTerm(category)
	var filtered []Post
	for _, p := range e.posts {
		if tag != "" && !containsTerm(p.Tags, tag) {
			continue
		}
		if category != "" && !containsTerm(p.Categories, category) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}

// ListTags returns a language's unique tags.
func (c *PostCache) ListTags(lang string) ([]string, error) {
	e, err := c.ensureLoaded(lang)
	if err != nil {
		return nil, err
	}
	return e.tags, nil
}

// ListCategories returns a language's unique categories.
func (c *PostCache) ListCategories(lang string) ([]string, error) {
	e, err := c.ensureLoaded(lang)
	if err != nil {
		return nil, err
	}
	return e.categories, nil
}

// GetPost returns a single published post by language and slug.
func (c *PostCache) GetPost(lang, slug string) (Post, error) {
	e, err := c.ensureLoaded(lang)
	if err != nil {
		return Post{}, err
	}
	for _, p := range e.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

// Translations returns the languages (other than lang) that have a
// published post with the same slug. Used for the language switcher and
// sitemap alternates.
func (c *PostCache) Translations(slug, lang string, all []string) []string {
	var out []string
	for _, other := range all {
		if other == lang {
			continue
		}
		if _, err := c.GetPost(other, slug); err == nil {
			out = append(out, other)
		}
	}
	return out
}

func normalizeTerm(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

func containsTerm(items []string, term string) bool {
	for _, item := range items {
		if normalizeTerm(item) == term {
			return true
		}
	}
	return false
}
