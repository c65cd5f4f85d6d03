package site

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/content"
	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/slug"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestSite(t *testing.T, files map[string]string) *Site {
	t.Helper()
	cfg, err := config.Parse([]byte(`
site:
  name: OpenMemory
  base_url: https://openmemory.cavira.app
  canonical_url: https://openmemory.ai
  title: OpenMemory - Long-term Memory for AI Agents
  tagline: Production-ready long-term memory for AI agents.
`))
	require.NoError(t, err)
	s, err := New(cfg, WithDirectory(content.NewMemoryDirectory(files)), WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return s
}

func TestRoutes(t *testing.T) {
	s := newTestSite(t, map[string]string{"introduction.md": "", "sdks/python.md": ""})
	assert.Equal(t, []string{"/", "/docs/introduction", "/docs/sdks/python"}, s.Routes(context.Background()))
}

func TestRender_Doc(t *testing.T) {
	s := newTestSite(t, map[string]string{
		"advanced/embedding-modes.mdx": "import X from 'y'\n\n## Modes\n\nText.\n",
	})

	page, err := s.Render(context.Background(), "/docs/advanced/embedding-modes")
	require.NoError(t, err)

	html := string(page.HTML)
	assert.Equal(t, "Embedding modes", page.Title)
	assert.Equal(t, "advanced/embedding-modes.mdx", page.Source)
	assert.NotEmpty(t, page.Fingerprint)
	assert.Contains(t, html, "<title>Embedding modes - OpenMemory Documentation</title>")
	assert.Contains(t, html, `<link rel="canonical" href="https://openmemory.ai/docs/advanced/embedding-modes">`)
	assert.Contains(t, html, "Learn about Embedding modes in OpenMemory&#39;s comprehensive documentation.")
	assert.Contains(t, html, `<h2 id="modes">Modes</h2>`)
	assert.Contains(t, html, `2025-06-01T12:00:00Z`)
	assert.NotContains(t, html, "import X")
}

func TestRender_Home(t *testing.T) {
	s := newTestSite(t, nil)

	page, err := s.Render(context.Background(), "/")
	require.NoError(t, err)
	assert.Contains(t, string(page.HTML), "<title>OpenMemory - Long-term Memory for AI Agents</title>")
	assert.Contains(t, string(page.HTML), `"@type":"SoftwareApplication"`)
}

func TestRender_Errors(t *testing.T) {
	s := newTestSite(t, map[string]string{"introduction.md": ""})

	_, err := s.Render(context.Background(), "/docs/missing")
	assert.ErrorIs(t, err, content.ErrNotFound)

	_, err = s.Render(context.Background(), "/docs/Bad_Slug")
	assert.ErrorIs(t, err, slug.ErrInvalidSlug)

	_, err = s.Render(context.Background(), "/blog/post")
	assert.True(t, derrors.IsCategory(err, derrors.CategoryNotFound))
}

func TestSitemapAndRobots(t *testing.T) {
	s := newTestSite(t, map[string]string{"introduction.md": ""})

	out, err := s.Sitemap(s.Routes(context.Background()), fixedNow)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<loc>https://openmemory.cavira.app/docs/introduction</loc>")
	assert.Contains(t, string(s.Robots()), "Sitemap: https://openmemory.cavira.app/sitemap.xml")
}

func TestNotFound(t *testing.T) {
	s := newTestSite(t, nil)
	assert.Contains(t, string(s.NotFound("/docs/nope")), "Page not found")
}
