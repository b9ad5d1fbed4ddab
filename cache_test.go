package kigo

import (
	"reflect"
	"testing"
	"time"
)

func setupTestCache(t *testing.T) (*Store, *PostCache) {
	t.Helper()
	store := setupTestStore(t)
	return store, NewPostCache(store, time.Minute)
}

func TestCacheListAndFilter(t *testing.T) {
	store, cache := setupTestCache(t)

	a := samplePost("a", "ko")
	a.Tags = []string{"go", "web"}
	a.Categories = []string{"backend"}
	b := samplePost("b", "ko")
	b.Tags = []string{"sqlite"}
	b.Categories = []string{"database"}
	for _, p := range []Post{a, b} {
		if err := store.SavePost(p); err != nil {
			t.Fatalf("SavePost: %v", err)
		}
	}

	posts, err := cache.ListPosts("ko", "", "")
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("ListPosts len = %d, want 2", len(posts))
	}

	// Tag filter is case-insensitive.
	posts, err = cache.ListPosts("ko", "GO", "")
	if err != nil {
		t.Fatalf("ListPosts tag: %v", err)
	}
	if len(posts) != 1 || posts[0].Slug != "a" {
		t.Errorf("ListPosts(tag=GO) = %v", posts)
	}

	posts, err = cache.ListPosts("ko", "", "database")
	if err != nil {
		t.Fatalf("ListPosts category: %v", err)
	}
	if len(posts) != 1 || posts[0].Slug != "b" {
		t.Errorf("ListPosts(category=database) = %v", posts)
	}

	tags, err := cache.ListTags("ko")
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if !reflect.DeepEqual(tags, []string{"go", "sqlite", "web"}) {
		t.Errorf("ListTags = %v", tags)
	}
}

func TestCacheServesStaleUntilInvalidate(t *testing.T) {
	store, cache := setupTestCache(t)

	if err := store.SavePost(samplePost("first", "ko")); err != nil {
		t.Fatalf("SavePost: %v", err)
	}
	posts, err := cache.ListPosts("ko", "", "")
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("ListPosts len = %d, want 1", len(posts))
	}

	// A write behind the cache's back is invisible until invalidation.
	if err := store.SavePost(samplePost("second", "ko")); err != nil {
		t.Fatalf("SavePost: %v", err)
	}
	posts, _ = cache.ListPosts("ko", "", "")
	if len(posts) != 1 {
		t.Errorf("ListPosts before invalidate len = %d, want 1", len(posts))
	}

	cache.Invalidate()
	posts, _ = cache.ListPosts("ko", "", "")
	if len(posts) != 2 {
		t.Errorf("ListPosts after invalidate len = %d, want 2", len(posts))
	}
}

func TestCacheExpiry(t *testing.T) {
	store := setupTestStore(t)
	cache := NewPostCache(store, time.Millisecond)

	if err := store.SavePost(samplePost("first", "ko")); err != nil {
		t.Fatalf("SavePost: %v", err)
	}
	if _, err := cache.ListPosts("ko", "", ""); err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if err := store.SavePost(samplePost("second", "ko")); err != nil {
		t.Fatalf("SavePost: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	posts, err := cache.ListPosts("ko", "", "")
	if err != nil {
		t.Fatalf("ListPosts after expiry: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("ListPosts after expiry len = %d, want 2", len(posts))
	}
}

func TestCacheGetPost(t *testing.T) {
	store, cache := setupTestCache(t)

	if err := store.SavePost(samplePost("exists", "ko")); err != nil {
		t.Fatalf("SavePost: %v", err)
	}
	if _, err := cache.GetPost("ko", "exists"); err != nil {
		t.Errorf("GetPost: %v", err)
	}
	if _, err := cache.GetPost("ko", "missing"); err != ErrNotFound {
		t.Errorf("GetPost missing: err = %v, want ErrNotFound", err)
	}
}

func TestTranslations(t *testing.T) {
	store, cache := setupTestCache(t)

	for _, lang := range []string{"ko", "en"} {
		if err := store.SavePost(samplePost("shared", lang)); err != nil {
			t.Fatalf("SavePost: %v", err)
		}
	}
	if err := store.SavePost(samplePost("ko-only", "ko")); err != nil {
		t.Fatalf("SavePost: %v", err)
	}

	all := []string{"ko", "en"}
	if got := cache.Translations("shared", "ko", all); !reflect.DeepEqual(got, []string{"en"}) {
		t.Errorf("Translations(shared, ko) = %v", got)
	}
	if got := cache.Translations("ko-only", "ko", all); got != nil {
		t.Errorf("Translations(ko-only, ko) = %v, want nil", got)
	}
}
