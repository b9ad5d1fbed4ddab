package content

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/gyeomkim/kigo"
)

//go:embed templates/post.md.tmpl
var scaffoldTemplates embed.FS

// scaffoldData holds the variables rendered into a new post file.
type scaffoldData struct {
	ID     string
	Title  string
	Date   string
	Author string
	Draft  bool
}

// NewPost scaffolds a new draft under root/<lang>/blog/<slug>.md and
// returns the created path. The id key gives the post a stable identity
// that survives slug renames.
func NewPost(root, lang, title, author string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("a title is required")
	}
	slug := kigo.Slugify(title)
	if slug == "" {
		slug = time.Now().Format("20060102-150405")
	}

	dir := filepath.Join(root, lang, "blog")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, slug+".md")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}

	tmpl, err := template.ParseFS(scaffoldTemplates, "templates/post.md.tmpl")
	if err != nil {
		return "", fmt.Errorf("parse scaffold template: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data := scaffoldData{
		ID:     uuid.NewString(),
		Title:  title,
		Date:   time.Now().Format("2006-01-02"),
		Author: author,
		Draft:  true,
	}
	if err := tmpl.Execute(f, data); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
