// Package kigo is a bilingual blog engine built with Go, Echo, and templ.
// Markdown files with front matter under content/<lang>/ are the source of
// truth; `kigo sync` loads them into SQLite and the server renders them
// with per-language homes, feeds, and sitemaps. An admin dashboard edits
// posts and writes them back to the content tree.
//
// Templates are supplied through the ViewFuncs struct so the views package
// (or a user replacement) owns all markup.
package kigo

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/gyeomkim/kigo/favicon"
)

// ViewFuncs holds the templ components the engine renders. Handlers own
// the data flow; these functions own the markup.
type ViewFuncs struct {
	Home        func(lang string, posts []Post, tags []string, activeTag, activeCategory string) templ.Component
	HomePartial func(lang string, posts []Post, tags []string, activeTag, activeCategory string) templ.Component
	Post        func(post Post, related []Post) templ.Component
	PostPartial func(post Post, related []Post) templ.Component
	Page        func(page Page) templ.Component

	AdminLogin       func(showError bool, csrfToken string) templ.Component
	AdminDashboard   func(posts []Post, message, csrfToken string) templ.Component
	AdminFormPartial func(post Post, csrfToken string) templ.Component
	AdminImages      func(images []Image, csrfToken string) templ.Component

	NotFound    func(lang string) templ.Component
	ServerError func(lang string) templ.Component
}

// App is the central kigo application. It wires together the store, cache,
// stats, handlers, middleware, and views.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Views  ViewFuncs
	Stats  *Stats

	loginLimiter *LoginLimiter
	customRoutes []func(*App)

	// SyncFunc runs a content-tree sync when the admin asks for one.
	// cmd/kigo wires it; nil hides the endpoint.
	SyncFunc func() (string, error)
}

// New creates a kigo App with the given configuration and views.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()
	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start initializes the database, cache, favicon set, middleware, and
// routes, then runs the server until it shuts down.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("kigo: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("kigo: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("kigo: init store: %w", err)
	}
	a.Store = store

	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	if a.Config.StatsEnabled {
		stats, err := NewStats(a.Store)
		if err != nil {
			return fmt.Errorf("kigo: init stats: %w", err)
		}
		a.Stats = stats
		stopCleanup := stats.StartCleanupScheduler(a.Config.StatsRetentionDays, 24*time.Hour)
		defer stopCleanup()
	}

	// The favicon set is regenerated on boot; a failure falls back to the
	// static SVG copy and the site keeps serving.
	if err := favicon.GenerateOrFallback(a.Config.StaticDir, a.Echo.Logger.Infof); err != nil {
		a.Echo.Logger.Errorf("favicon fallback failed: %v", err)
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.ico", a.handleFavicon)
	e.GET("/favicon.png", a.handleFavicon)
	e.GET("/favicon.svg", a.handleFavicon)
	for _, size := range favicon.Sizes {
		e.GET(fmt.Sprintf("/favicon-%d.png", size), a.handleFavicon)
	}
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Public routes. Every language lives under its prefix; bare paths
	// redirect into the default language so old links keep working.
	e.GET("/", a.handleRoot)
	e.GET("/blog", a.handleRoot)
	e.GET("/blog/:slug/", a.handleBlogRedirect)
	e.GET("/:lang/", a.handleHome)
	e.GET("/:lang/feed.xml", a.handleFeed)
	e.GET("/:lang/blog/:slug/", a.handlePost)
	e.GET("/:lang/:slug/", a.handlePage)

	// Admin routes.
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/post/:lang/:slug/", a.handleAdminPost)
	e.POST("/admin/save/", a.handleAdminSave)
	// The POST variants back the plain-form dashboard; DELETE stays for
	// scripted clients.
	e.DELETE("/admin/post/:lang/:slug/", a.handleAdminDelete)
	e.POST("/admin/post/:lang/:slug/delete/", a.handleAdminDelete)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)
	e.POST("/admin/images/:filename/delete/", a.handleImageDelete)
	e.POST("/admin/favicon/", a.handleAdminFavicon)
	if a.SyncFunc != nil {
		e.POST("/admin/sync/", a.handleAdminSync)
	}
	if a.Stats != nil {
		e.GET("/admin/stats/", a.handleAdminStats)
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
// The request context flows into the component so render work stops when
// the client goes away.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("kigo: required environment variable %s is not set", key)
	}
	return v
}
