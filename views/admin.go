package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/gyeomkim/kigo"
)

// adminLayout is a minimal shell for the admin pages; it skips the public
// header so the dashboard never leaks into navigation or caches.
func (v *viewSet) adminLayout(w io.Writer, title string, body func(io.Writer) error) error {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="robots" content="noindex">
<title>%s · Admin</title>
<link rel="stylesheet" href="/public/admin.css">
</head>
<body class="admin">
`, esc(title))
	if err := body(w); err != nil {
		return err
	}
	fmt.Fprint(w, "</body>\n</html>\n")
	return nil
}

func (v *viewSet) adminLogin(showError bool, csrfToken string) templ.Component {
	return component(func(w io.Writer) error {
		return v.adminLayout(w, "Login", func(w io.Writer) error {
			fmt.Fprint(w, `<section class="login"><h1>Sign in</h1>`)
			if showError {
				fmt.Fprint(w, `<p class="error">Wrong password or too many attempts.</p>`)
			}
			fmt.Fprintf(w, `<form method="post" action="/admin/login/">
<input type="hidden" name="_csrf" value="%s">
<input type="password" name="password" autofocus required>
<button type="submit">Sign in</button>
</form></section>`, esc(csrfToken))
			return nil
		})
	})
}

func (v *viewSet) adminDashboard(posts []kigo.Post, message, csrfToken string) templ.Component {
	return component(func(w io.Writer) error {
		return v.adminLayout(w, "Dashboard", func(w io.Writer) error {
			fmt.Fprint(w, `<header class="admin-bar"><h1>Dashboard</h1><nav>`)
			fmt.Fprint(w, `<a href="/admin/images/">Images</a>`)
			fmt.Fprintf(w, `<form method="post" action="/admin/sync/" class="inline"><input type="hidden" name="_csrf" value="%s"><button type="submit">Sync content</button></form>`, esc(csrfToken))
			fmt.Fprintf(w, `<form method="post" action="/admin/favicon/" class="inline"><input type="hidden" name="_csrf" value="%s"><button type="submit">Rebuild favicon</button></form>`, esc(csrfToken))
			fmt.Fprintf(w, `<form method="post" action="/admin/logout/" class="inline"><input type="hidden" name="_csrf" value="%s"><button type="submit">Logout</button></form>`, esc(csrfToken))
			fmt.Fprint(w, "</nav></header>\n")
			if message != "" {
				fmt.Fprintf(w, `<p class="message">%s</p>`, esc(message))
			}

			fmt.Fprint(w, `<div id="post-form">`)
			if err := v.postForm(w, kigo.Post{Lang: v.cfg.DefaultLanguage}, csrfToken); err != nil {
				return err
			}
			fmt.Fprint(w, "</div>\n")

			fmt.Fprint(w, `<table class="post-table"><thead><tr><th>Date</th><th>Lang</th><th>Title</th><th>Status</th><th></th></tr></thead><tbody>`)
			for _, p := range posts {
				status := "published"
				if !p.Published {
					status = "draft"
				}
				fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td><a href="/admin/post/%s/%s/">%s</a></td><td>%s</td>`,
					esc(p.Date), esc(p.Lang), p.Lang, p.Slug, esc(p.Title), status)
				fmt.Fprintf(w, `<td><form method="post" action="/admin/post/%s/%s/delete/" class="inline" onsubmit="return confirm('Delete this post?')"><input type="hidden" name="_csrf" value="%s"><button type="submit">Delete</button></form></td></tr>`,
					p.Lang, p.Slug, esc(csrfToken))
			}
			fmt.Fprint(w, "</tbody></table>\n")
			return nil
		})
	})
}

func (v *viewSet) adminForm(post kigo.Post, csrfToken string) templ.Component {
	return component(func(w io.Writer) error {
		return v.adminLayout(w, "Edit post", func(w io.Writer) error {
			fmt.Fprint(w, `<header class="admin-bar"><h1>Edit post</h1><nav><a href="/admin/">Dashboard</a></nav></header>`)
			return v.postForm(w, post, csrfToken)
		})
	})
}

func (v *viewSet) postForm(w io.Writer, post kigo.Post, csrfToken string) error {
	fmt.Fprintf(w, `<form class="post-form" method="post" action="/admin/save/">
<input type="hidden" name="_csrf" value="%s">
<label>Title <input type="text" name="title" value="%s" required></label>
<label>Slug <input type="text" name="slug" value="%s" placeholder="derived from title"></label>
<label>Language <select name="lang">`, esc(csrfToken), esc(post.Title), esc(post.Slug))
	for _, code := range v.cfg.LanguageCodes() {
		selected := ""
		if code == post.Lang {
			selected = " selected"
		}
		fmt.Fprintf(w, `<option value="%s"%s>%s</option>`, esc(code), selected, esc(code))
	}
	published := ""
	if post.Published {
		published = " checked"
	}
	fmt.Fprintf(w, `</select></label>
<label>Date <input type="date" name="date" value="%s"></label>
<label>Author <input type="text" name="author" value="%s"></label>
<label>Categories <input type="text" name="categories" value="%s" placeholder="comma, separated"></label>
<label>Tags <input type="text" name="tags" value="%s" placeholder="comma, separated"></label>
<label>Summary <textarea name="summary" rows="2">%s</textarea></label>
<label>Content <textarea name="content" rows="20">%s</textarea></label>
<label class="checkbox"><input type="checkbox" name="published" value="1"%s> Published</label>
<button type="submit">Save</button>
</form>
`, esc(post.Date), esc(post.Author), esc(strings.Join(post.Categories, ", ")), esc(strings.Join(post.Tags, ", ")),
		esc(post.Summary), esc(post.Content), published)
	return nil
}

func (v *viewSet) adminImages(images []kigo.Image, csrfToken string) templ.Component {
	return component(func(w io.Writer) error {
		return v.adminLayout(w, "Images", func(w io.Writer) error {
			fmt.Fprint(w, `<header class="admin-bar"><h1>Images</h1><nav><a href="/admin/">Dashboard</a></nav></header>`)
			fmt.Fprintf(w, `<form method="post" action="/admin/images/upload/" enctype="multipart/form-data">
<input type="hidden" name="_csrf" value=%q>
<input type="file" name="image" accept="image/*" required>
<button type="submit">Upload</button>
</form>
`, csrfToken)
			fmt.Fprint(w, `<ul class="image-list">`)
			for _, img := range images {
				fmt.Fprintf(w, `<li><img src="/public/uploads/%s" alt="%s" loading="lazy"><code>![](/public/uploads/%s)</code> %dx%d `,
					img.Filename, esc(img.OriginalName), img.Filename, img.Width, img.Height)
				fmt.Fprintf(w, `<form method="post" action="/admin/images/%s/delete/" class="inline" onsubmit="return confirm('Delete image?')"><input type="hidden" name="_csrf" value="%s"><button type="submit">Delete</button></form></li>`,
					img.Filename, esc(csrfToken))
			}
			fmt.Fprint(w, "</ul>\n")
			return nil
		})
	})
}
