// Package content loads the Markdown content tree (content/<lang>/...) and
// reconciles it with the SQLite store. The files are the source of truth;
// sync is how they become servable.
package content

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gyeomkim/kigo"
	"github.com/gyeomkim/kigo/frontmatter"
)

// Document is one parsed content file.
type Document struct {
	Path     string // path relative to the content root
	Lang     string
	Section  string // first path segment under the language dir; "" for root files
	Slug     string
	Matter   frontmatter.Matter
	Body     string
	Format   frontmatter.Format
	Hash     string // sha256 of the raw file
	Modified time.Time
}

// IsPost reports whether the document belongs to the blog section.
// Both "blog" and "posts" directory names are accepted; everything else
// (about.md, contact.md, ...) is a standalone page.
func (d Document) IsPost() bool {
	return d.Section == "blog" || d.Section == "posts"
}

// LoadTree walks root and parses every Markdown file under the
// language-specific content folders. Files that fail to parse are
// reported as errors alongside the documents that did load.
func LoadTree(root string) ([]Document, []error, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, nil, fmt.Errorf("read content root: %w", err)
	}

	var docs []Document
	var parseErrs []error
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		lang := entry.Name()
		langDir := filepath.Join(root, lang)
		err := filepath.WalkDir(langDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isMarkdown(path) {
				return nil
			}
			doc, err := ParseFile(root, lang, path)
			if err != nil {
				parseErrs = append(parseErrs, err)
				return nil
			}
			docs = append(docs, doc)
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("walk %s: %w", langDir, err)
		}
	}
	return docs, parseErrs, nil
}

// ParseFile reads and parses a single content file under root.
func ParseFile(root, lang, path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, err
	}
	m, body, format, err := frontmatter.Parse(raw)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return Document{}, err
	}
	sum := sha256.Sum256(raw)

	return Document{
		Path:     filepath.ToSlash(rel),
		Lang:     lang,
		Section:  sectionOf(rel, lang),
		Slug:     slugOf(m, path),
		Matter:   m,
		Body:     strings.TrimSpace(string(body)),
		Format:   format,
		Hash:     hex.EncodeToString(sum[:]),
		Modified: info.ModTime(),
	}, nil
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// sectionOf extracts the first path segment after the language directory.
func sectionOf(rel, lang string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimPrefix(rel, lang+"/")
	if idx := strings.Index(rel, "/"); idx >= 0 {
		return rel[:idx]
	}
	return ""
}

// slugOf picks the slug: explicit front-matter slug wins, then a slug
// derived from the title, then the filename. Korean titles usually don't
// slugify, so the filename is the common case for ko content.
func slugOf(m frontmatter.Matter, path string) string {
	if m.Slug != "" {
		return m.Slug
	}
	if s := kigo.Slugify(m.Title); s != "" {
		return s
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Post converts a blog document into its store representation.
// Drafts import as unpublished.
func (d Document) Post() (kigo.Post, error) {
	date := ""
	if d.Matter.Date != "" {
		normalized, err := d.Matter.NormalizedDate()
		if err != nil {
			return kigo.Post{}, fmt.Errorf("%s: %w", d.Path, err)
		}
		date = normalized
	}
	return kigo.Post{
		Slug:       d.Slug,
		Lang:       d.Lang,
		Title:      d.Matter.Title,
		Date:       date,
		Categories: d.Matter.Categories,
		Tags:       d.Matter.Tags,
		Author:     d.Matter.Author,
		Summary:    d.Matter.Summary,
		Content:    d.Body,
		SourcePath: d.Path,
		Hash:       d.Hash,
		Published:  !d.Matter.Draft,
	}, nil
}

// Page converts a non-blog document into a standalone page.
func (d Document) Page() kigo.Page {
	return kigo.Page{
		Slug:      d.Slug,
		Lang:      d.Lang,
		Title:     d.Matter.Title,
		Content:   d.Body,
		Published: !d.Matter.Draft,
	}
}
