package kigo

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database holding posts, pages, uploaded image
// metadata, and pageview counters.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL allows concurrent readers during writes; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY; synchronous=NORMAL
	// is safe under WAL and skips an fsync per transaction.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS posts (
			slug TEXT NOT NULL,
			lang TEXT NOT NULL,
			title TEXT NOT NULL,
			date TEXT NOT NULL,
			categories TEXT NOT NULL DEFAULT ',,',
			tags TEXT NOT NULL DEFAULT ',,',
			author TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			source_path TEXT NOT NULL DEFAULT '',
			hash TEXT NOT NULL DEFAULT '',
			published INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY (slug, lang)
		)`,
		`CREATE TABLE IF NOT EXISTS pages (
			slug TEXT NOT NULL,
			lang TEXT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			published INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY (slug, lang)
		)`,
		`CREATE TABLE IF NOT EXISTS images (
			filename TEXT PRIMARY KEY,
			original_name TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			size INTEGER NOT NULL,
			uploaded_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pageviews (
			day TEXT NOT NULL,
			lang TEXT NOT NULL,
			path TEXT NOT NULL,
			visitor TEXT NOT NULL,
			hits INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY (day, lang, path, visitor)
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	// Columns added after the first release. SQLite has no
	// ADD COLUMN IF NOT EXISTS, so ignore the duplicate-column error.
	migrations := []string{
		`ALTER TABLE posts ADD COLUMN source_path TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE posts ADD COLUMN hash TEXT NOT NULL DEFAULT ''`,
	}
	for _, stmt := range migrations {
		if _, err := s.db.Exec(stmt); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
				continue
			}
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}

const postColumns = `slug, lang, title, date, categories, tags, author, summary, content, source_path, hash, published`

func scanPost(sc interface{ Scan(...any) error }) (Post, error) {
	var p Post
	var categories, tags string
	var published int
	err := sc.Scan(&p.Slug, &p.Lang, &p.Title, &p.Date, &categories, &tags,
		&p.Author, &p.Summary, &p.Content, &p.SourcePath, &p.Hash, &published)
	if err != nil {
		return Post{}, err
	}
	p.Categories = splitList(categories)
	p.Tags = splitList(tags)
	p.Published = published == 1
	p.Link = postLink(p.Lang, p.Slug)
	return p, nil
}

// ListPosts returns all published posts for a language, newest first.
func (s *Store) ListPosts(lang string) ([]Post, error) {
	rows, err := s.db.Query(
		`SELECT `+postColumns+` FROM posts WHERE lang = ? AND published = 1 ORDER BY date DESC, slug ASC`, lang)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListAllPosts returns every post in every language, drafts included,
// newest first. Used by the admin dashboard and by sync.
func (s *Store) ListAllPosts() ([]Post, error) {
	rows, err := s.db.Query(
		`SELECT ` + postColumns + ` FROM posts ORDER BY date DESC, lang ASC, slug ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPost returns a single published post by language and slug.
func (s *Store) GetPost(lang, slug string) (Post, error) {
	row := s.db.QueryRow(
		`SELECT `+postColumns+` FROM posts WHERE lang = ? AND slug = ? AND published = 1`, lang, slug)
	return scanPost(row)
}

// GetPostAny returns a post regardless of published status (for admin).
func (s *Store) GetPostAny(lang, slug string) (Post, error) {
	row := s.db.QueryRow(
		`SELECT `+postColumns+` FROM posts WHERE lang = ? AND slug = ?`, lang, slug)
	return scanPost(row)
}

// SavePost upserts a post. Tag and category lists are normalized to
// lowercase and stored comma-delimited with sentinel commas so a SQL
// instr() on ",tag," matches whole entries only.
func (s *Store) SavePost(p Post) error {
	published := 0
	if p.Published {
		published = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO posts (`+postColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT (slug, lang) DO UPDATE SET
			title=excluded.title, date=excluded.date, categories=excluded.categories,
			tags=excluded.tags, author=excluded.author, summary=excluded.summary,
			content=excluded.content, source_path=excluded.source_path,
			hash=excluded.hash, published=excluded.published`,
		p.Slug, p.Lang, p.Title, p.Date, joinList(p.Categories), joinList(p.Tags),
		p.Author, p.Summary, p.Content, p.SourcePath, p.Hash, published)
	return err
}

// DeletePost removes a post by language and slug.
func (s *Store) DeletePost(lang, slug string) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE lang = ? AND slug = ?`, lang, slug)
	return err
}

// ListTags returns the sorted, deduplicated tags of a language's published posts.
func (s *Store) ListTags(lang string) ([]string, error) {
	return s.listTaxonomy(lang, "tags")
}

// ListCategories returns the sorted, deduplicated categories of a language's
// published posts.
func (s *Store) ListCategories(lang string) ([]string, error) {
	return s.listTaxonomy(lang, "categories")
}

func (s *Store) listTaxonomy(lang, column string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT `+column+` FROM posts WHERE lang = ? AND published = 1`, lang)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var list string
		if err := rows.Scan(&list); err != nil {
			return nil, err
		}
		for _, item := range splitList(list) {
			set[strings.ToLower(item)] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(set))
	for item := range set {
		out = append(out, item)
	}
	sort.Strings(out)
	return out, nil
}

// SavePage upserts a standalone page.
func (s *Store) SavePage(p Page) error {
	published := 0
	if p.Published {
		published = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO pages (slug, lang, title, content, published) VALUES (?,?,?,?,?)
		ON CONFLICT (slug, lang) DO UPDATE SET
			title=excluded.title, content=excluded.content, published=excluded.published`,
		p.Slug, p.Lang, p.Title, p.Content, published)
	return err
}

// GetPage returns a published page by language and slug.
func (s *Store) GetPage(lang, slug string) (Page, error) {
	var p Page
	var published int
	err := s.db.QueryRow(
		`SELECT slug, lang, title, content, published FROM pages WHERE lang = ? AND slug = ? AND published = 1`,
		lang, slug).Scan(&p.Slug, &p.Lang, &p.Title, &p.Content, &published)
	if err != nil {
		return Page{}, err
	}
	p.Published = published == 1
	return p, nil
}

// ListPages returns a language's published pages ordered by slug.
func (s *Store) ListPages(lang string) ([]Page, error) {
	rows, err := s.db.Query(
		`SELECT slug, lang, title, content, published FROM pages WHERE lang = ? AND published = 1 ORDER BY slug`, lang)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var p Page
		var published int
		if err := rows.Scan(&p.Slug, &p.Lang, &p.Title, &p.Content, &published); err != nil {
			return nil, err
		}
		p.Published = published == 1
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// SaveImage records metadata for an uploaded image.
func (s *Store) SaveImage(img Image) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at)
		VALUES (?,?,?,?,?,?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// ListImages returns uploaded image metadata, newest first.
func (s *Store) ListImages() ([]Image, error) {
	rows, err := s.db.Query(
		`SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes image metadata by filename.
func (s *Store) DeleteImage(filename string) error {
	_, err := s.db.Exec(`DELETE FROM images WHERE filename = ?`, filename)
	return err
}

// GetMeta returns a value from the meta table, or "" if the key is absent.
func (s *Store) GetMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetMeta stores a key/value pair in the meta table.
func (s *Store) SetMeta(key, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

// splitList parses a sentinel-delimited list (",go,web,") into a slice.
func splitList(list string) []string {
	list = strings.Trim(list, ",")
	if list == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// joinList normalizes items to lowercase and joins them with sentinel commas.
func joinList(items []string) string {
	normalized := make([]string, 0, len(items))
	for _, item := range items {
		if item := strings.ToLower(strings.TrimSpace(item)); item != "" {
			normalized = append(normalized, item)
		}
	}
	return "," + strings.Join(normalized, ",") + ","
}

// postLink builds the canonical site-relative link for a post. Every
// language gets a path prefix; the root path redirects to the default
// language home.
func postLink(lang, slug string) string {
	return "/" + lang + "/blog/" + slug + "/"
}
