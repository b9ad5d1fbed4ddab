package content

import (
	"fmt"

	"github.com/gyeomkim/kigo"
)

// Result summarizes one sync run.
type Result struct {
	Created int
	Updated int
	Skipped int
	Deleted int
	Errors  []error
}

// Summary renders the counters as a one-line report.
func (r *Result) Summary() string {
	return fmt.Sprintf("created %d, updated %d, skipped %d, deleted %d, errors %d",
		r.Created, r.Updated, r.Skipped, r.Deleted, len(r.Errors))
}

// Syncer reconciles loaded documents with the store.
type Syncer struct {
	store        *kigo.Store
	dryRun       bool
	deleteOrphan bool
}

// NewSyncer creates a Syncer. With dryRun set, Sync reports what it would
// do without touching the store. With deleteOrphan set, posts whose source
// file no longer exists are removed.
func NewSyncer(store *kigo.Store, dryRun, deleteOrphan bool) *Syncer {
	return &Syncer{store: store, dryRun: dryRun, deleteOrphan: deleteOrphan}
}

// Sync upserts every document into the store, skipping files whose content
// hash is unchanged, and optionally deletes orphaned rows. Per-document
// failures are collected in the result rather than aborting the run.
func (s *Syncer) Sync(docs []Document) (*Result, error) {
	result := &Result{}
	seen := make(map[string]struct{}, len(docs))

	for _, doc := range docs {
		if doc.IsPost() {
			if err := s.syncPost(doc, seen, result); err != nil {
				result.Errors = append(result.Errors, err)
			}
			continue
		}
		if err := s.syncPage(doc, result); err != nil {
			result.Errors = append(result.Errors, err)
		}
	}

	if s.deleteOrphan {
		if err := s.deleteOrphans(seen, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (s *Syncer) syncPost(doc Document, seen map[string]struct{}, result *Result) error {
	post, err := doc.Post()
	if err != nil {
		return err
	}
	seen[postKey(post.Lang, post.Slug)] = struct{}{}

	existing, err := s.store.GetPostAny(post.Lang, post.Slug)
	switch {
	case err == nil:
		if existing.Hash == post.Hash && post.Hash != "" {
			result.Skipped++
			return nil
		}
		if !s.dryRun {
			if err := s.store.SavePost(post); err != nil {
				return fmt.Errorf("update %s: %w", doc.Path, err)
			}
		}
		result.Updated++
	case err == kigo.ErrNotFound:
		if !s.dryRun {
			if err := s.store.SavePost(post); err != nil {
				return fmt.Errorf("create %s: %w", doc.Path, err)
			}
		}
		result.Created++
	default:
		return fmt.Errorf("lookup %s: %w", doc.Path, err)
	}
	return nil
}

func (s *Syncer) syncPage(doc Document, result *Result) error {
	page := doc.Page()
	existing, err := s.store.GetPage(page.Lang, page.Slug)
	if err != nil && err != kigo.ErrNotFound {
		return fmt.Errorf("lookup page %s: %w", doc.Path, err)
	}
	if err == nil && existing.Title == page.Title && existing.Content == page.Content {
		result.Skipped++
		return nil
	}
	if !s.dryRun {
		if err := s.store.SavePage(page); err != nil {
			return fmt.Errorf("save page %s: %w", doc.Path, err)
		}
	}
	if err == kigo.ErrNotFound {
		result.Created++
	} else {
		result.Updated++
	}
	return nil
}

// deleteOrphans removes posts that came from the content tree but whose
// source file is gone. Posts created through the admin UI have no source
// path and are never considered orphans.
func (s *Syncer) deleteOrphans(seen map[string]struct{}, result *Result) error {
	all, err := s.store.ListAllPosts()
	if err != nil {
		return fmt.Errorf("list posts for orphan check: %w", err)
	}
	for _, p := range all {
		if p.SourcePath == "" {
			continue
		}
		if _, ok := seen[postKey(p.Lang, p.Slug)]; ok {
			continue
		}
		if !s.dryRun {
			if err := s.store.DeletePost(p.Lang, p.Slug); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("delete orphan %s/%s: %w", p.Lang, p.Slug, err))
				continue
			}
		}
		result.Deleted++
	}
	return nil
}

func postKey(lang, slug string) string {
	return lang + "/" + slug
}
