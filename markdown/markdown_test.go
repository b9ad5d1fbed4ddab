package markdown

import (
	"context"
	"strings"
	"testing"
)

func render(t *testing.T, src string) string {
	t.Helper()
	out, err := Render(src)
	if err != nil {
		t.Fatalf("Render(%q) failed: %v", src, err)
	}
	return string(out)
}

func TestRenderBasics(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"heading", "# Title", []string{"<h1", "Title</h1>"}},
		{"emphasis", "**bold** and *italic*", []string{"<strong>bold</strong>", "<em>italic</em>"}},
		{"link", "[home](https://example.com)", []string{`<a href="https://example.com"`}},
		{"code block", "```go\nfmt.Println(1)\n```", []string{"<pre><code", "fmt.Println(1)"}},
		{"korean text", "## 동시성\n\n고루틴은 가볍다.", []string{"동시성", "고루틴은 가볍다."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(t, tt.src)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestRenderGFMTable(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |"
	got := render(t, src)
	if !strings.Contains(got, "<table>") || !strings.Contains(got, "<td>1</td>") {
		t.Errorf("GFM table not rendered:\n%s", got)
	}
}

func TestRenderEscapesRawHTML(t *testing.T) {
	got := render(t, "hello <script>alert(1)</script>")
	if strings.Contains(got, "<script>") {
		t.Errorf("raw HTML should not pass through:\n%s", got)
	}
}

func TestRenderAutoHeadingID(t *testing.T) {
	got := render(t, "## Error Handling")
	if !strings.Contains(got, `id="error-handling"`) {
		t.Errorf("heading id missing:\n%s", got)
	}
}

func TestComponent(t *testing.T) {
	var sb strings.Builder
	if err := Component("*hi*").Render(context.Background(), &sb); err != nil {
		t.Fatalf("component render failed: %v", err)
	}
	if !strings.Contains(sb.String(), "<em>hi</em>") {
		t.Errorf("component output = %q", sb.String())
	}
}
