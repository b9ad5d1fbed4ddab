package kigo

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName    xml.Name     `xml:"urlset"`
	XMLNS      string       `xml:"xmlns,attr"`
	XMLNSXHTML string       `xml:"xmlns:xhtml,attr"`
	URLs       []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string             `xml:"loc"`
	LastMod    string             `xml:"lastmod,omitempty"`
	Alternates []sitemapAlternate `xml:"xhtml:link"`
}

// sitemapAlternate links a URL to its translations, the hreflang
// convention search engines expect for multilingual sites.
type sitemapAlternate struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// renderSitemap emits every language's home and posts, with hreflang
// alternates for posts that exist under the same slug in other languages.
func (a *App) renderSitemap(c echo.Context) error {
	base := a.Config.URL
	langs := a.Config.LanguageCodes()

	var urls []sitemapURL
	for _, lang := range langs {
		home := sitemapURL{Loc: BuildURL(base, lang)}
		for _, other := range langs {
			if other == lang {
				continue
			}
			home.Alternates = append(home.Alternates, sitemapAlternate{
				Rel: "alternate", Hreflang: other, Href: BuildURL(base, other),
			})
		}
		urls = append(urls, home)

		posts, err := a.Cache.ListPosts(lang, "", "")
		if err != nil {
			return err
		}
		for _, p := range posts {
			u := sitemapURL{
				Loc:     BuildURL(base, lang, "blog", p.Slug),
				LastMod: p.Date,
			}
			for _, other := range a.Cache.Translations(p.Slug, lang, langs) {
				u.Alternates = append(u.Alternates, sitemapAlternate{
					Rel:      "alternate",
					Hreflang: other,
					Href:     BuildURL(base, other, "blog", p.Slug),
				})
			}
			urls = append(urls, u)
		}
	}

	sitemap := sitemapURLSet{
		XMLNS:      "http://www.sitemaps.org/schemas/sitemap/0.9",
		XMLNSXHTML: "http://www.w3.org/1999/xhtml",
		URLs:       urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
