// Package frontmatter parses and writes the metadata block at the top of
// the site's Markdown files. Both YAML ("---") and TOML ("+++") delimiters
// are accepted; files are written back in whatever format they arrived in.
package frontmatter

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the front-matter serialization of a source file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Matter is the front-matter schema shared by every content file:
// title, date, categories, tags, author, and a draft flag, plus the
// optional slug/summary keys and a catch-all for custom YAML keys.
type Matter struct {
	Title      string   `yaml:"title" toml:"title"`
	Date       string   `yaml:"date" toml:"date"`
	Categories []string `yaml:"categories,omitempty" toml:"categories,omitempty"`
	Tags       []string `yaml:"tags,omitempty" toml:"tags,omitempty"`
	Author     string   `yaml:"author,omitempty" toml:"author,omitempty"`
	Draft      bool     `yaml:"draft,omitempty" toml:"draft,omitempty"`
	Slug       string   `yaml:"slug,omitempty" toml:"slug,omitempty"`
	Summary    string   `yaml:"summary,omitempty" toml:"summary,omitempty"`

	Custom map[string]any `yaml:",inline" toml:"-"`
}

// Parse extracts front matter and the Markdown body from src. It returns
// the parsed metadata, the body without delimiters, and the format the
// file used.
func Parse(src []byte) (Matter, []byte, Format, error) {
	format, err := detectFormat(src)
	if err != nil {
		return Matter{}, nil, "", err
	}
	var m Matter
	body, err := frontmatter.Parse(bytes.NewReader(src), &m)
	if err != nil {
		return Matter{}, nil, "", fmt.Errorf("parse front matter: %w", err)
	}
	return m, body, format, nil
}

func detectFormat(src []byte) (Format, error) {
	trimmed := bytes.TrimLeft(src, "\xef\xbb\xbf \t\r\n")
	switch {
	case bytes.HasPrefix(trimmed, []byte("---")):
		return FormatYAML, nil
	case bytes.HasPrefix(trimmed, []byte("+++")):
		return FormatTOML, nil
	}
	return "", fmt.Errorf("no front matter delimiter found")
}

// Encode rebuilds a complete content file from metadata and body,
// preserving the requested delimiter format.
func Encode(m Matter, body string, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatYAML:
		buf.WriteString("---\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(encodeEnvelope(m)); err != nil {
			return nil, fmt.Errorf("encode yaml front matter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		buf.WriteString("---\n")
	case FormatTOML:
		buf.WriteString("+++\n")
		enc := toml.NewEncoder(&buf)
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("encode toml front matter: %w", err)
		}
		buf.WriteString("+++\n")
	default:
		return nil, fmt.Errorf("unsupported front matter format %q", format)
	}
	if body = strings.TrimSpace(body); body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// encodeEnvelope flattens Matter plus its custom keys into one map so the
// YAML encoder emits custom keys at the top level, matching the input.
func encodeEnvelope(m Matter) map[string]any {
	out := make(map[string]any, len(m.Custom)+8)
	for k, v := range m.Custom {
		out[k] = v
	}
	out["title"] = m.Title
	out["date"] = m.Date
	if len(m.Categories) > 0 {
		out["categories"] = m.Categories
	}
	if len(m.Tags) > 0 {
		out["tags"] = m.Tags
	}
	if m.Author != "" {
		out["author"] = m.Author
	}
	if m.Draft {
		out["draft"] = true
	}
	if m.Slug != "" {
		out["slug"] = m.Slug
	}
	if m.Summary != "" {
		out["summary"] = m.Summary
	}
	return out
}

// dateLayouts are the date spellings the content tree actually uses:
// plain dates, RFC3339 with offset (Hugo default), and the offset-less
// variant some editors emit.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NormalizedDate parses the front-matter date and returns it as YYYY-MM-DD.
func (m Matter) NormalizedDate() (string, error) {
	raw := strings.TrimSpace(m.Date)
	if raw == "" {
		return "", fmt.Errorf("front matter has no date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", raw)
}

// Validate checks the schema contract: a title is always required, and a
// parseable date is required for anything that is not a draft.
func (m Matter) Validate() error {
	err := validation.ValidateStruct(&m,
		validation.Field(&m.Title, validation.Required),
		validation.Field(&m.Date, validation.Required.When(!m.Draft)),
	)
	if err != nil {
		return err
	}
	if m.Date != "" {
		if _, err := m.NormalizedDate(); err != nil {
			return err
		}
	}
	return nil
}
