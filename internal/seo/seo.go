// Package seo derives page head metadata and structured data.
package seo

import (
	"strings"
	"time"

	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/docmeta"
	"git.home.luguber.info/inful/docsite/internal/slug"
)

const (
	ogTypeWebsite = "website"
	ogTypeArticle = "article"

	docsSection = "Documentation"
)

// Meta is everything a page head needs.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	SiteName    string
	Locale      string
	OGType      string
	OGImage     string
	Twitter     string
	Author      string
	Article     *Article
	Breadcrumbs []Crumb
	// StructuredData is the JSON-LD document for the page.
	StructuredData []byte
}

// Article carries OpenGraph article properties.
type Article struct {
	PublishedTime string
	ModifiedTime  string
	Author        string
	Section       string
	Tags          []string
}

// Crumb is one breadcrumb entry.
type Crumb struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FullTitle appends the site name unless the title already mentions it.
func FullTitle(title, siteName string) string {
	if siteName == "" || strings.Contains(title, siteName) {
		return title
	}
	return title + " | " + siteName
}

// DocTitle is the document title shown in the browser tab.
func DocTitle(title, siteName string) string {
	return title + " - " + siteName + " Documentation"
}

// Description returns the document description or the generated fallback.
func Description(meta docmeta.DocMeta, site config.SiteConfig) string {
	return meta.Description.UnwrapOrElse(func() string {
		d := "Learn about " + meta.Title + " in " + site.Name + "'s comprehensive documentation."
		if site.Tagline != "" {
			d += " " + site.Tagline
		}
		return d
	})
}

// CanonicalURL returns the canonical document URL for slug.
func CanonicalURL(site config.SiteConfig, s string) string {
	return site.CanonicalURL + "/docs/" + s
}

// Locale renders a BCP 47 tag as an OpenGraph locale ("en-US" -> "en_US").
// Missing regions are inferred; unparseable tags fall back to en_US.
func Locale(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return "en_US"
	}
	base, _ := t.Base()
	region, conf := t.Region()
	if conf == language.No {
		return base.String()
	}
	return base.String() + "_" + region.String()
}

// Breadcrumbs returns Home, Documentation and one crumb per slug prefix.
func Breadcrumbs(site config.SiteConfig, s string) []Crumb {
	parts := slug.Split(s)
	crumbs := make([]Crumb, 0, len(parts)+2)
	crumbs = append(crumbs,
		Crumb{Name: "Home", URL: site.CanonicalURL},
		Crumb{Name: docsSection, URL: site.CanonicalURL + "/docs"},
	)
	for i, p := range parts {
		crumbs = append(crumbs, Crumb{
			Name: docmeta.Humanize(p),
			URL:  CanonicalURL(site, slug.Join(parts[:i+1])),
		})
	}
	return crumbs
}

// ForDoc builds head metadata for a document page.
func ForDoc(site config.SiteConfig, meta docmeta.DocMeta, generated time.Time) (Meta, error) {
	parts := slug.Split(meta.Slug)
	stamp := generated.UTC().Format(time.RFC3339)
	canonical := CanonicalURL(site, meta.Slug)
	description := Description(meta, site)

	section := docsSection
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tags = append(tags, strings.ReplaceAll(p, "-", " "))
	}
	if len(parts) > 0 {
		section = capitalize(parts[0])
	}

	m := Meta{
		Title:       FullTitle(DocTitle(meta.Title, site.Name), site.Name),
		Description: description,
		Canonical:   canonical,
		SiteName:    site.Name,
		Locale:      Locale(site.Language),
		OGType:      ogTypeArticle,
		OGImage:     site.DocsOGImage,
		Twitter:     site.Twitter,
		Author:      site.Author,
		Article: &Article{
			PublishedTime: stamp,
			ModifiedTime:  stamp,
			Author:        site.Author,
			Section:       section,
			Tags:          tags,
		},
		Breadcrumbs: Breadcrumbs(site, meta.Slug),
	}

	data, err := docGraph(site, meta.Title, description, canonical, stamp, m.Breadcrumbs)
	if err != nil {
		return Meta{}, err
	}
	m.StructuredData = data
	return m, nil
}

// ForHome builds head metadata for the landing page.
func ForHome(site config.SiteConfig) (Meta, error) {
	m := Meta{
		Title:       FullTitle(site.Title, site.Name),
		Description: site.DefaultDescription,
		Canonical:   site.CanonicalURL,
		SiteName:    site.Name,
		Locale:      Locale(site.Language),
		OGType:      ogTypeWebsite,
		OGImage:     site.OGImage,
		Twitter:     site.Twitter,
		Author:      site.Author,
	}
	if m.Description == "" {
		m.Description = site.Tagline
	}
	data, err := homeGraph(site)
	if err != nil {
		return Meta{}, err
	}
	m.StructuredData = data
	return m, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
