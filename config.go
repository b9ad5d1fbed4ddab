package kigo

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Language describes one language section of the site. The content tree
// keeps a folder per language code (content/ko, content/en) and each gets
// its own home page, feed, and sitemap entries.
type Language struct {
	Code        string `toml:"-"`
	Name        string `toml:"name"`
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Weight      int    `toml:"weight"`
}

// SiteConfig holds all configuration for a kigo site. Values come from
// site.toml; secrets and deploy-specific settings may be overridden from
// the environment (a .env file is loaded if present).
type SiteConfig struct {
	Name        string `toml:"name"`
	URL         string `toml:"url"`
	Description string `toml:"description"`
	Author      string `toml:"author"`

	Addr         string `toml:"addr"`          // listen address (default ":3000")
	DatabasePath string `toml:"database_path"` // SQLite path (default "data/blog.db")
	ContentDir   string `toml:"content_dir"`   // Markdown tree root (default "content")
	StaticDir    string `toml:"static_dir"`    // user static assets (default "public")

	DefaultLanguage string              `toml:"default_language"` // default "ko"
	Languages       map[string]Language `toml:"languages"`

	AdminPassword string `toml:"-"` // ADMIN_PASSWORD, env only
	SessionSecret string `toml:"-"` // SESSION_SECRET, env only
	CookieSecure  bool   `toml:"cookie_secure"`

	PostCacheTTL       time.Duration `toml:"-"`
	PostCacheTTLString string        `toml:"post_cache_ttl"` // e.g. "5m"

	StatsEnabled       bool `toml:"stats_enabled"`
	StatsRetentionDays int  `toml:"stats_retention_days"`
}

// LoadConfig reads site.toml from path, loads .env if present, and applies
// environment overrides and defaults. A missing config file is not an
// error: the site can run entirely on env vars and defaults.
func LoadConfig(path string) (SiteConfig, error) {
	_ = godotenv.Load()

	cfg := SiteConfig{StatsEnabled: true}
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return SiteConfig{}, fmt.Errorf("kigo: parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return SiteConfig{}, fmt.Errorf("kigo: read %s: %w", path, err)
	}

	cfg.applyEnv()

	if cfg.PostCacheTTLString != "" {
		d, err := time.ParseDuration(cfg.PostCacheTTLString)
		if err != nil {
			return SiteConfig{}, fmt.Errorf("kigo: invalid post_cache_ttl %q: %w", cfg.PostCacheTTLString, err)
		}
		cfg.PostCacheTTL = d
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

func (c *SiteConfig) applyEnv() {
	if v := os.Getenv("SITE_NAME"); v != "" {
		c.Name = v
	}
	if v := os.Getenv("SITE_URL"); v != "" {
		c.URL = strings.TrimSuffix(v, "/")
	}
	if v := os.Getenv("ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("CONTENT_DIR"); v != "" {
		c.ContentDir = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		c.AdminPassword = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		c.SessionSecret = v
	}
	if strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true") {
		c.CookieSecure = true
	}
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = "ko"
	}
	if len(c.Languages) == 0 {
		c.Languages = map[string]Language{
			c.DefaultLanguage: {Title: c.Name, Description: c.Description, Weight: 1},
		}
	}
	for code, lang := range c.Languages {
		lang.Code = code
		if lang.Title == "" {
			lang.Title = c.Name
		}
		c.Languages[code] = lang
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.StatsRetentionDays == 0 {
		c.StatsRetentionDays = 365
	}
}

// Validate checks the parts of the configuration that would otherwise fail
// at request time.
func (c SiteConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.URL, validation.Required, is.URL),
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.DefaultLanguage, validation.Required, validation.Length(2, 8)),
		validation.Field(&c.StatsRetentionDays, validation.Min(1)),
	)
	if err != nil {
		return fmt.Errorf("kigo: config: %w", err)
	}
	if _, ok := c.Languages[c.DefaultLanguage]; !ok {
		return fmt.Errorf("kigo: config: default_language %q has no [languages.%s] section", c.DefaultLanguage, c.DefaultLanguage)
	}
	return nil
}

// LanguageCodes returns all configured language codes ordered by weight,
// with the default language always first.
func (c SiteConfig) LanguageCodes() []string {
	codes := make([]string, 0, len(c.Languages))
	for code := range c.Languages {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if codes[i] == c.DefaultLanguage {
			return true
		}
		if codes[j] == c.DefaultLanguage {
			return false
		}
		wi, wj := c.Languages[codes[i]].Weight, c.Languages[codes[j]].Weight
		if wi != wj {
			return wi < wj
		}
		return codes[i] < codes[j]
	})
	return codes
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir overrides the directory for user-owned static assets.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}
