package seo

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/docmeta"
	"git.home.luguber.info/inful/docsite/internal/foundation"
)

func site() config.SiteConfig {
	return config.SiteConfig{
		Name:               "OpenMemory",
		BaseURL:            "https://openmemory.cavira.app",
		CanonicalURL:       "https://openmemory.ai",
		Title:              "OpenMemory - Long-term Memory for AI Agents",
		Tagline:            "Production-ready long-term memory for AI agents.",
		DefaultDescription: "Production-ready long-term memory system for AI agents.",
		OGImage:            "https://openmemory.ai/og-image.png",
		DocsOGImage:        "https://openmemory.ai/og-docs.png",
		Logo:               "https://openmemory.ai/logo.png",
		Author:             "OpenMemory Team",
		Twitter:            "@openmemory",
		Language:           "en-US",
		RepoURL:            "https://github.com/caviraoss/openmemory",
	}
}

var generated = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func TestFullTitle(t *testing.T) {
	assert.Equal(t, "Python | OpenMemory", FullTitle("Python", "OpenMemory"))
	assert.Equal(t, "Python - OpenMemory Documentation", FullTitle("Python - OpenMemory Documentation", "OpenMemory"))
	assert.Equal(t, "Python", FullTitle("Python", ""))
}

func TestDescription_Fallback(t *testing.T) {
	meta := docmeta.DocMeta{Title: "Decay", Slug: "concepts/decay"}
	assert.Equal(t,
		"Learn about Decay in OpenMemory's comprehensive documentation. Production-ready long-term memory for AI agents.",
		Description(meta, site()))

	meta.Description = foundation.Some("Custom.")
	assert.Equal(t, "Custom.", Description(meta, site()))
}

func TestBreadcrumbs(t *testing.T) {
	crumbs := Breadcrumbs(site(), "advanced/embedding-modes")
	assert.Equal(t, []Crumb{
		{Name: "Home", URL: "https://openmemory.ai"},
		{Name: "Documentation", URL: "https://openmemory.ai/docs"},
		{Name: "Advanced", URL: "https://openmemory.ai/docs/advanced"},
		{Name: "Embedding modes", URL: "https://openmemory.ai/docs/advanced/embedding-modes"},
	}, crumbs)
}

func TestLocale(t *testing.T) {
	assert.Equal(t, "en_US", Locale("en-US"))
	assert.Equal(t, "en_US", Locale("en"))
	assert.Equal(t, "de_DE", Locale("de-DE"))
	assert.Equal(t, "en_US", Locale("!!"))
}

func TestForDoc(t *testing.T) {
	meta, _ := docmeta.Extract([]byte("# x"), "advanced/embedding-modes")

	m, err := ForDoc(site(), meta, generated)
	require.NoError(t, err)

	assert.Equal(t, "Embedding modes - OpenMemory Documentation", m.Title)
	assert.Equal(t, "https://openmemory.ai/docs/advanced/embedding-modes", m.Canonical)
	assert.Equal(t, "article", m.OGType)
	assert.Equal(t, "https://openmemory.ai/og-docs.png", m.OGImage)
	assert.Equal(t, "en_US", m.Locale)
	require.NotNil(t, m.Article)
	assert.Equal(t, "Advanced", m.Article.Section)
	assert.Equal(t, []string{"advanced", "embedding modes"}, m.Article.Tags)
	assert.Equal(t, "2025-01-02T03:04:05Z", m.Article.PublishedTime)

	var doc struct {
		Context string           `json:"@context"`
		Graph   []map[string]any `json:"@graph"`
	}
	require.NoError(t, json.Unmarshal(m.StructuredData, &doc))
	assert.Equal(t, "https://schema.org", doc.Context)
	require.Len(t, doc.Graph, 2)
	assert.Equal(t, "BreadcrumbList", doc.Graph[0]["@type"])
	assert.Len(t, doc.Graph[0]["itemListElement"], 4)
	assert.Equal(t, "TechnicalArticle", doc.Graph[1]["@type"])
	assert.Equal(t, "Embedding modes", doc.Graph[1]["headline"])
}

func TestForDoc_SingleSegmentSection(t *testing.T) {
	m, err := ForDoc(site(), docmeta.DocMeta{Title: "Intro", Slug: "introduction"}, generated)
	require.NoError(t, err)
	assert.Equal(t, "Introduction", m.Article.Section)
}

func TestForHome(t *testing.T) {
	m, err := ForHome(site())
	require.NoError(t, err)

	assert.Equal(t, "OpenMemory - Long-term Memory for AI Agents", m.Title)
	assert.Equal(t, "website", m.OGType)
	assert.Nil(t, m.Article)
	assert.Contains(t, string(m.StructuredData), `"@type":"Organization"`)
	assert.Contains(t, string(m.StructuredData), `"@type":"SoftwareApplication"`)
	assert.Contains(t, string(m.StructuredData), `"https://twitter.com/openmemory"`)
}
