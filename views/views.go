// Package views renders every page as a templ component built in Go.
// New returns the ViewFuncs bundle the engine calls; all markup lives here.
package views

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/gyeomkim/kigo"
	"github.com/gyeomkim/kigo/markdown"
)

// New builds the default view set for a site configuration.
func New(cfg kigo.SiteConfig) kigo.ViewFuncs {
	v := &viewSet{cfg: cfg}
	return kigo.ViewFuncs{
		Home:             v.home,
		HomePartial:      v.homePartial,
		Post:             v.post,
		PostPartial:      v.postPartial,
		Page:             v.page,
		AdminLogin:       v.adminLogin,
		AdminDashboard:   v.adminDashboard,
		AdminFormPartial: v.adminForm,
		AdminImages:      v.adminImages,
		NotFound:         v.notFound,
		ServerError:      v.serverError,
	}
}

type viewSet struct {
	cfg kigo.SiteConfig
}

// component adapts a write function to templ.Component.
func component(fn func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return fn(w)
	})
}

func esc(s string) string {
	return html.EscapeString(s)
}

// layout writes the shared document shell around a body writer.
func (v *viewSet) layout(w io.Writer, meta kigo.PageMeta, jsonLD string, body func(io.Writer) error) error {
	site := v.cfg.Languages[meta.Lang]
	title := meta.Title
	if title == "" {
		title = site.Title
	}
	desc := meta.Description
	if desc == "" {
		desc = site.Description
	}

	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="%s">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<meta name="description" content="%s">
<link rel="canonical" href="%s">
<meta property="og:type" content="%s">
<meta property="og:title" content="%s">
<meta property="og:description" content="%s">
<meta property="og:url" content="%s">
<link rel="icon" href="/favicon.ico" sizes="32x32">
<link rel="icon" type="image/png" href="/public/favicon-96.png" sizes="96x96">
<link rel="apple-touch-icon" href="/public/favicon-144.png">
<link rel="alternate" type="application/rss+xml" href="/%s/feed.xml" title="%s">
<link rel="stylesheet" href="/public/style.css">
`, meta.Lang, esc(title), esc(desc), esc(meta.URL), meta.OGType, esc(title), esc(desc), esc(meta.URL), meta.Lang, esc(site.Title))
	if jsonLD != "" {
		fmt.Fprintf(w, "<script type=\"application/ld+json\">%s</script>\n", jsonLD)
	}
	fmt.Fprint(w, "</head>\n<body>\n")
	if err := v.header(w, meta.Lang); err != nil {
		return err
	}
	fmt.Fprint(w, `<main id="content">`)
	if err := body(w); err != nil {
		return err
	}
	fmt.Fprint(w, "</main>\n")
	v.footer(w)
	fmt.Fprint(w, "</body>\n</html>\n")
	return nil
}

func (v *viewSet) header(w io.Writer, lang string) error {
	site := v.cfg.Languages[lang]
	fmt.Fprintf(w, `<header class="site-header"><a class="site-title" href="/%s/">%s</a><nav>`, lang, esc(site.Title))
	// Language switcher.
	for _, code := range v.cfg.LanguageCodes() {
		if code == lang {
			continue
		}
		name := v.cfg.Languages[code].Name
		if name == "" {
			name = strings.ToUpper(code)
		}
		fmt.Fprintf(w, `<a class="lang-switch" href="/%s/">%s</a>`, code, esc(name))
	}
	fmt.Fprintf(w, `<a href="/%s/about/">About</a>`, lang)
	fmt.Fprint(w, "</nav></header>\n")
	return nil
}

func (v *viewSet) footer(w io.Writer) {
	fmt.Fprintf(w, `<footer class="site-footer"><p>&copy; %s</p></footer>`+"\n", esc(v.cfg.Author))
}

// --- Public pages ---

func (v *viewSet) home(lang string, posts []kigo.Post, tags []string, activeTag, activeCategory string) templ.Component {
	return component(func(w io.Writer) error {
		meta := kigo.PageMeta{
			URL:    kigo.BuildURL(v.cfg.URL, lang),
			Lang:   lang,
			OGType: "website",
		}
		return v.layout(w, meta, kigo.WebsiteJsonLD(v.cfg, lang), func(w io.Writer) error {
			return v.blogSection(w, lang, posts, tags, activeTag, activeCategory)
		})
	})
}

func (v *viewSet) homePartial(lang string, posts []kigo.Post, tags []string, activeTag, activeCategory string) templ.Component {
	return component(func(w io.Writer) error {
		return v.blogSection(w, lang, posts, tags, activeTag, activeCategory)
	})
}

func (v *viewSet) blogSection(w io.Writer, lang string, posts []kigo.Post, tags []string, activeTag, activeCategory string) error {
	fmt.Fprint(w, `<section class="blog">`)
	if len(tags) > 0 {
		fmt.Fprint(w, `<div class="tags">`)
		fmt.Fprintf(w, `<a class="%s" href="/%s/">All</a>`, tagClass(activeTag == ""), lang)
		for _, tag := range tags {
			fmt.Fprintf(w, `<a class="%s" href="/%s/?tag=%s">%s</a>`,
				tagClass(tag == activeTag), lang, url.QueryEscape(tag), esc(tag))
		}
		fmt.Fprint(w, "</div>")
	}
	if activeCategory != "" {
		fmt.Fprintf(w, `<p class="filter-note">Category: %s</p>`, esc(activeCategory))
	}
	fmt.Fprint(w, `<ul class="post-list">`)
	for _, p := range posts {
		fmt.Fprintf(w, `<li><a href="%s"><span class="post-date">%s</span> <span class="post-title">%s</span></a>`,
			esc(p.Link), esc(FormatDate(p.Date, lang)), esc(p.Title))
		if p.Summary != "" {
			fmt.Fprintf(w, `<p class="post-summary">%s</p>`, esc(p.Summary))
		}
		fmt.Fprint(w, "</li>")
	}
	fmt.Fprint(w, "</ul></section>\n")
	return nil
}

func (v *viewSet) post(post kigo.Post, related []kigo.Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		meta := kigo.PageMeta{
			Title:       post.Title,
			Description: post.Summary,
			URL:         kigo.BuildURL(v.cfg.URL, post.Lang, "blog", post.Slug),
			Lang:        post.Lang,
			OGType:      "article",
		}
		return v.layout(w, meta, kigo.BlogPostingJsonLD(v.cfg, post), func(w io.Writer) error {
			return v.article(ctx, w, post, related)
		})
	})
}

func (v *viewSet) postPartial(post kigo.Post, related []kigo.Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return v.article(ctx, w, post, related)
	})
}

func (v *viewSet) article(ctx context.Context, w io.Writer, post kigo.Post, related []kigo.Post) error {
	fmt.Fprint(w, `<article class="post">`)
	fmt.Fprintf(w, "<h1>%s</h1>\n", esc(post.Title))
	fmt.Fprintf(w, `<p class="post-meta"><time datetime="%s">%s</time>`, esc(post.Date), esc(FormatDate(post.Date, post.Lang)))
	if post.Author != "" {
		fmt.Fprintf(w, ` · %s`, esc(post.Author))
	}
	for _, tag := range post.Tags {
		fmt.Fprintf(w, ` <a class="tag" href="/%s/?tag=%s">#%s</a>`, post.Lang, url.QueryEscape(tag), esc(tag))
	}
	fmt.Fprint(w, "</p>\n")
	if err := markdown.Component(post.Content).Render(ctx, w); err != nil {
		return err
	}
	fmt.Fprint(w, "</article>\n")

	if len(related) > 0 {
		fmt.Fprint(w, `<aside class="related"><h2>Related</h2><ul>`)
		for i, p := range related {
			if i == 5 {
				break
			}
			fmt.Fprintf(w, `<li><a href="%s">%s</a></li>`, esc(p.Link), esc(p.Title))
		}
		fmt.Fprint(w, "</ul></aside>\n")
	}
	return nil
}

func (v *viewSet) page(page kigo.Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		meta := kigo.PageMeta{
			Title:  page.Title,
			URL:    kigo.BuildURL(v.cfg.URL, page.Lang, page.Slug),
			Lang:   page.Lang,
			OGType: "website",
		}
		return v.layout(w, meta, "", func(w io.Writer) error {
			fmt.Fprintf(w, `<article class="page"><h1>%s</h1>`, esc(page.Title))
			if err := markdown.Component(page.Content).Render(ctx, w); err != nil {
				return err
			}
			fmt.Fprint(w, "</article>\n")
			return nil
		})
	})
}

func (v *viewSet) notFound(lang string) templ.Component {
	return v.errorPage(lang, "404", "Page not found")
}

func (v *viewSet) serverError(lang string) templ.Component {
	return v.errorPage(lang, "500", "Something went wrong")
}

func (v *viewSet) errorPage(lang, code, message string) templ.Component {
	return component(func(w io.Writer) error {
		meta := kigo.PageMeta{
			Title:  code,
			URL:    kigo.BuildURL(v.cfg.URL, lang),
			Lang:   lang,
			OGType: "website",
		}
		return v.layout(w, meta, "", func(w io.Writer) error {
			fmt.Fprintf(w, `<section class="error"><h1>%s</h1><p>%s</p><p><a href="/%s/">Back to home</a></p></section>`,
				code, esc(message), lang)
			return nil
		})
	})
}
