package kigo

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gyeomkim/kigo/favicon"
	"github.com/gyeomkim/kigo/frontmatter"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminPost(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	post, err := a.Store.GetPostAny(c.Param("lang"), c.Param("slug"))
	if err != nil {
		if err == ErrNotFound {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return Render(c, a.Views.AdminFormPartial(post, CsrfToken(c)))
}

func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	title := strings.TrimSpace(c.FormValue("title"))
	slug := strings.TrimSpace(c.FormValue("slug"))
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=Slug+is+required.+Add+a+title+or+slug.")
	}
	lang := strings.TrimSpace(c.FormValue("lang"))
	if _, ok := a.Config.Languages[lang]; !ok {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=Unknown+language.")
	}
	date := strings.TrimSpace(c.FormValue("date"))
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg=Invalid+date+format.+Use+YYYY-MM-DD.")
	}

	post := Post{
		Slug:       slug,
		Lang:       lang,
		Title:      title,
		Date:       date,
		Categories: SplitCSV(c.FormValue("categories")),
		Tags:       SplitCSV(c.FormValue("tags")),
		Author:     strings.TrimSpace(c.FormValue("author")),
		Summary:    c.FormValue("summary"),
		Content:    c.FormValue("content"),
		Published:  c.FormValue("published") != "",
	}

	// Files stay the source of truth: persist to the content tree first,
	// then mirror into the store. If the next sync runs before a crash is
	// repaired, the file wins.
	sourcePath, hash, err := a.writeToTree(post)
	if err != nil {
		return fmt.Errorf("write content file: %w", err)
	}
	post.SourcePath = sourcePath
	post.Hash = hash

	if err := a.Store.SavePost(post); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "saved")
}

// writeToTree persists a post as a Markdown file with YAML front matter
// under content/<lang>/blog/. It returns the content-root-relative path
// and the hash of the written bytes.
func (a *App) writeToTree(post Post) (string, string, error) {
	m := frontmatter.Matter{
		Title:      post.Title,
		Date:       post.Date,
		Categories: post.Categories,
		Tags:       post.Tags,
		Author:     post.Author,
		Summary:    post.Summary,
		Slug:       post.Slug,
		Draft:      !post.Published,
	}
	data, err := frontmatter.Encode(m, post.Content, frontmatter.FormatYAML)
	if err != nil {
		return "", "", err
	}
	rel := filepath.Join(post.Lang, "blog", post.Slug+".md")
	path := filepath.Join(a.Config.ContentDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", err
	}
	sum := sha256.Sum256(data)
	return filepath.ToSlash(rel), hex.EncodeToString(sum[:]), nil
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	lang, slug := c.Param("lang"), c.Param("slug")
	post, err := a.Store.GetPostAny(lang, slug)
	if err != nil && err != ErrNotFound {
		return err
	}
	if err := a.Store.DeletePost(lang, slug); err != nil {
		return err
	}
	// Remove the source file too, or the next sync would resurrect it.
	if post.SourcePath != "" {
		_ = os.Remove(filepath.Join(a.Config.ContentDir, filepath.FromSlash(post.SourcePath)))
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	posts, err := a.Store.ListAllPosts()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(posts, msg, CsrfToken(c)))
}

// handleAdminSync runs the content-tree sync wired in by the CLI.
func (a *App) handleAdminSync(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	summary, err := a.SyncFunc()
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, summary)
}

// handleAdminFavicon regenerates the icon set into the static dir.
func (a *App) handleAdminFavicon(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := favicon.GenerateOrFallback(a.Config.StaticDir, c.Logger().Infof); err != nil {
		return err
	}
	return a.renderAdminDashboard(c, "favicon regenerated")
}

// handleAdminStats returns the pageview summary as JSON.
func (a *App) handleAdminStats(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	days, err := parseDays(c.QueryParam("days"), 30)
	if err != nil {
		return c.String(http.StatusBadRequest, "invalid days")
	}
	summary, err := a.Stats.Summary(days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// parseDays parses a window-size query value; empty means the fallback and
// anything that is not a positive integer is rejected.
func parseDays(v string, fallback int) (int, error) {
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("days must be positive, got %d", n)
	}
	return n, nil
}
