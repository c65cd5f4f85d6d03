// Package site wires content, metadata, rendering and layout into servable pages.
package site

import (
	"bytes"
	"context"
	"html/template"
	"strings"
	"time"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/docmeta"
	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/layout"
	"git.home.luguber.info/inful/docsite/internal/navigation"
	"git.home.luguber.info/inful/docsite/internal/pages"
	"git.home.luguber.info/inful/docsite/internal/render"
	"git.home.luguber.info/inful/docsite/internal/seo"
	"git.home.luguber.info/inful/docsite/internal/sitemap"
	"git.home.luguber.info/inful/docsite/internal/slug"
)

// Site renders routes for one content tree.
type Site struct {
	cfg        config.SiteConfig
	dir        content.Directory
	exts       []string
	store      *content.Store
	resolver   *slug.Resolver
	enumerator *pages.Enumerator
	renderer   render.Renderer
	layout     *layout.Layout
	nav        *navigation.Navigation
	now        func() time.Time
}

// Option configures a Site.
type Option func(*Site)

// WithDirectory replaces the OS directory derived from the content root.
func WithDirectory(dir content.Directory) Option {
	return func(s *Site) { s.dir = dir }
}

// WithRenderer replaces the markdown renderer.
func WithRenderer(r render.Renderer) Option {
	return func(s *Site) { s.renderer = r }
}

// WithClock sets the generation time source.
func WithClock(now func() time.Time) Option {
	return func(s *Site) { s.now = now }
}

// New builds a Site from configuration.
func New(cfg *config.Config, opts ...Option) (*Site, error) {
	s := &Site{
		cfg:  cfg.Site,
		exts: cfg.Content.Extensions,
		nav:  cfg.Nav(),
		now:  time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.dir == nil {
		s.dir = content.NewOSDirectory(cfg.Content.Root)
	}
	if s.renderer == nil {
		s.renderer = render.NewMarkdown()
	}
	l, err := layout.New()
	if err != nil {
		return nil, derrors.InternalError("layout templates", err)
	}
	s.layout = l
	s.store = content.NewStore(s.dir, content.WithExtensions(s.exts...))
	s.resolver = slug.NewResolver(s.store)
	s.enumerator = pages.NewEnumerator(s.resolver)
	return s, nil
}

// Config returns the site settings.
func (s *Site) Config() config.SiteConfig { return s.cfg }

// Navigation returns the sidebar model.
func (s *Site) Navigation() *navigation.Navigation { return s.nav }

// Resolver returns the slug resolver.
func (s *Site) Resolver() *slug.Resolver { return s.resolver }

// Now returns the generation time.
func (s *Site) Now() time.Time { return s.now() }

// Routes enumerates every servable route, "/" first.
func (s *Site) Routes(ctx context.Context) []string {
	return s.enumerator.Enumerate(ctx)
}

// Page is a fully rendered route.
type Page struct {
	Route string
	Slug  string
	// Source is the document path relative to the content root; empty for the home page.
	Source      string
	Title       string
	HTML        []byte
	Fingerprint string
}

// Document is a resolved document with its metadata and rendered body.
type Document struct {
	Slug        string
	Source      string
	Meta        docmeta.DocMeta
	Body        []byte
	Rendered    render.Page
	Fingerprint string
}

// Document resolves, extracts and renders the document for a slug.
func (s *Site) Document(ctx context.Context, slugPath string) (Document, error) {
	canonical, doc, err := s.resolver.Resolve(ctx, slug.Split(slugPath))
	if err != nil {
		return Document{}, err
	}
	meta, body := docmeta.Extract(doc.Raw, canonical)
	rendered, err := s.renderer.Render(ctx, render.Input{Meta: meta, Body: body, MDX: isMDX(doc.Path)})
	if err != nil {
		return Document{}, derrors.RenderFailed(canonical, err)
	}
	fp, err := docmeta.Fingerprint(doc.Raw)
	if err != nil {
		return Document{}, derrors.RenderFailed(canonical, err)
	}
	return Document{
		Slug:        canonical,
		Source:      doc.Path,
		Meta:        meta,
		Body:        body,
		Rendered:    rendered,
		Fingerprint: fp,
	}, nil
}

// Render produces the full HTML for route. Routes outside "/" and "/docs/..."
// fail with a not_found error.
func (s *Site) Render(ctx context.Context, route string) (Page, error) {
	if route == pages.Root {
		return s.renderHome()
	}
	slugPath, ok := pages.SlugOf(route)
	if !ok {
		return Page{}, derrors.NotFound(route, content.ErrNotFound)
	}
	d, err := s.Document(ctx, slugPath)
	if err != nil {
		return Page{}, err
	}
	head, err := seo.ForDoc(s.cfg, d.Meta, s.now())
	if err != nil {
		return Page{}, derrors.RenderFailed(d.Slug, err)
	}

	path := pages.DocPath(d.Slug)
	var buf bytes.Buffer
	err = s.layout.Doc(&buf, layout.Data{
		Site:    s.cfg,
		Meta:    head,
		Path:    path,
		Heading: d.Meta.Title,
		Lead:    d.Meta.Description.UnwrapOr(""),
		Content: template.HTML(d.Rendered.HTML), // #nosec G203 -- rendered from trusted repository content
		Outline: d.Rendered.Outline,
		Sidebar: layout.Sidebar(s.nav, path),
	})
	if err != nil {
		return Page{}, derrors.RenderFailed(d.Slug, err)
	}
	return Page{
		Route:       path,
		Slug:        d.Slug,
		Source:      d.Source,
		Title:       d.Meta.Title,
		HTML:        buf.Bytes(),
		Fingerprint: d.Fingerprint,
	}, nil
}

func (s *Site) renderHome() (Page, error) {
	head, err := seo.ForHome(s.cfg)
	if err != nil {
		return Page{}, derrors.RenderFailed(pages.Root, err)
	}
	var buf bytes.Buffer
	err = s.layout.Home(&buf, layout.Data{
		Site:    s.cfg,
		Meta:    head,
		Path:    pages.Root,
		Heading: s.cfg.Title,
		Lead:    head.Description,
		Sidebar: layout.Sidebar(s.nav, pages.Root),
	})
	if err != nil {
		return Page{}, derrors.RenderFailed(pages.Root, err)
	}
	return Page{Route: pages.Root, Title: s.cfg.Title, HTML: buf.Bytes()}, nil
}

// NotFound renders the 404 page for path.
func (s *Site) NotFound(path string) []byte {
	var buf bytes.Buffer
	if err := s.layout.NotFound(&buf, layout.Data{Site: s.cfg, Path: path, Sidebar: layout.Sidebar(s.nav, path)}); err != nil {
		return []byte("404 page not found\n")
	}
	return buf.Bytes()
}

// Sitemap renders sitemap.xml for the given routes.
func (s *Site) Sitemap(routes []string, generated time.Time) ([]byte, error) {
	out, err := sitemap.Build(s.cfg.BaseURL, routes, generated)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryRender, derrors.SeverityError, "sitemap generation failed")
	}
	return out, nil
}

// Robots renders robots.txt.
func (s *Site) Robots() []byte { return sitemap.Robots(s.cfg.BaseURL) }

func isMDX(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".mdx")
}
