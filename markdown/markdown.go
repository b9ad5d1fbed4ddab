// Package markdown renders Markdown bodies to HTML via goldmark and
// exposes the result as a templ component.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// engine is stateless and safe for concurrent use, so one instance serves
// every request.
var (
	engineOnce sync.Once
	engine     goldmark.Markdown
)

func getEngine() goldmark.Markdown {
	engineOnce.Do(func() {
		engine = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Linkify,
				extension.Footnote,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		)
	})
	return engine
}

// Render converts Markdown to HTML. Raw HTML in the source is escaped by
// goldmark's default renderer, which is what we want for content that may
// be edited through the admin form.
func Render(src string) ([]byte, error) {
	var buf bytes.Buffer
	if err := getEngine().Convert([]byte(src), &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// Component wraps Render as a templ.Component for direct use in views.
func Component(src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		html, err := Render(src)
		if err != nil {
			return err
		}
		_, err = w.Write(html)
		return err
	})
}
