package kigo

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// reqLang validates the :lang path parameter against the configured
// languages. Unknown codes fall through to the 404 page.
func (a *App) reqLang(c echo.Context) (string, error) {
	lang := c.Param("lang")
	if _, ok := a.Config.Languages[lang]; !ok {
		return "", echo.ErrNotFound
	}
	return lang, nil
}

func (a *App) handleRoot(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/"+a.Config.DefaultLanguage+"/")
}

// handleBlogRedirect maps prefix-less post links onto the default language.
func (a *App) handleBlogRedirect(c echo.Context) error {
	slug := c.Param("slug")
	return c.Redirect(http.StatusMovedPermanently,
		"/"+a.Config.DefaultLanguage+"/blog/"+slug+"/")
}

// handleHome serves a language's post listing, with HTMX partial support
// and tag/category filters.
func (a *App) handleHome(c echo.Context) error {
	lang, err := a.reqLang(c)
	if err != nil {
		return err
	}
	tag := c.QueryParam("tag")
	category := c.QueryParam("category")
	posts, err := a.Cache.ListPosts(lang, tag, category)
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags(lang)
	if err != nil {
		return err
	}
	if c.Request().Header.Get("HX-Request") == "true" && c.QueryParam("partial") == "home" {
		return Render(c, a.Views.HomePartial(lang, posts, tags, tag, category))
	}
	return Render(c, a.Views.Home(lang, posts, tags, tag, category))
}

// handlePost serves a single post, with HTMX partial support.
func (a *App) handlePost(c echo.Context) error {
	lang, err := a.reqLang(c)
	if err != nil {
		return err
	}
	slug := c.Param("slug")
	post, err := a.Cache.GetPost(lang, slug)
	if err != nil {
		if err == ErrNotFound {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(lang))
		}
		return err
	}
	all, err := a.Cache.ListPosts(lang, "", "")
	if err != nil {
		return err
	}
	related := RelatedPosts(post, all)
	if c.Request().Header.Get("HX-Request") == "true" && c.QueryParam("partial") == "post" {
		return Render(c, a.Views.PostPartial(post, related))
	}
	return Render(c, a.Views.Post(post, related))
}

// handlePage serves a standalone page such as /ko/about/.
func (a *App) handlePage(c echo.Context) error {
	lang, err := a.reqLang(c)
	if err != nil {
		return err
	}
	slug := c.Param("slug")
	page, err := a.Store.GetPage(lang, slug)
	if err != nil {
		if err == ErrNotFound {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(lang))
		}
		return err
	}
	return Render(c, a.Views.Page(page))
}

func (a *App) handleFeed(c echo.Context) error {
	lang := c.Param("lang")
	if lang == "" {
		lang = a.Config.DefaultLanguage
	}
	if _, ok := a.Config.Languages[lang]; !ok {
		return echo.ErrNotFound
	}
	posts, err := a.Cache.ListPosts(lang, "", "")
	if err != nil {
		return err
	}
	return a.renderRSS(c, lang, posts)
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c)
}

// handleRobots generates robots.txt from the configured site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

// handleFavicon serves the generated icon matching the request path, or
// the SVG fallback when generation never succeeded.
func (a *App) handleFavicon(c echo.Context) error {
	name := filepath.Base(c.Request().URL.Path)
	path := filepath.Join(a.Config.StaticDir, name)
	if _, err := os.Stat(path); err != nil {
		fallback := filepath.Join(a.Config.StaticDir, "favicon.svg")
		if _, err := os.Stat(fallback); err != nil {
			return echo.ErrNotFound
		}
		return c.File(fallback)
	}
	return c.File(path)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	lang := pathLang(c.Request().URL.Path, a.Config.DefaultLanguage)
	if _, ok := a.Config.Languages[lang]; !ok {
		lang = a.Config.DefaultLanguage
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(lang))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(lang))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
