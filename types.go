package kigo

// Post is the core content type. Rows in SQLite mirror Markdown files in
// the content tree; the files stay the source of truth and sync reconciles
// the two.
type Post struct {
	Slug       string
	Lang       string
	Title      string
	Date       string // YYYY-MM-DD
	Categories []string
	Tags       []string
	Author     string
	Summary    string
	Content    string // Markdown body, without front matter
	Link       string
	SourcePath string // content tree file this row came from, if any
	Hash       string // sha256 of the source file, for skip-unchanged sync
	Published  bool
}

// Page is a standalone page (about, contact) outside the blog section.
type Page struct {
	Slug      string
	Lang      string
	Title     string
	Content   string
	Published bool
}

// Image holds metadata for an uploaded image stored under public/uploads.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string // RFC3339
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	Lang        string
	OGType      string // "website" or "article"
}
