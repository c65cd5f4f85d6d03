// Package sitemap renders sitemap.xml and robots.txt for the enumerated routes.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// Namespace is the sitemaps.org schema namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

const (
	rootPath = "/"

	changeFreqRoot = "daily"
	changeFreqPage = "weekly"
	priorityRoot   = "1.0"
	priorityPage   = "0.8"

	// CacheControl is sent with sitemap responses.
	CacheControl = "public, s-maxage=86400, stale-while-revalidate"
)

// URL is a single sitemap entry.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Entries builds one URL per route. The root is emitted exactly once and
// first, whether or not routes contains it; duplicate routes are dropped.
func Entries(baseURL string, routes []string, generated time.Time) []URL {
	base := normalizeBase(baseURL)
	lastmod := generated.UTC().Format(time.RFC3339)

	out := make([]URL, 0, len(routes)+1)
	out = append(out, URL{Loc: base + rootPath, LastMod: lastmod, ChangeFreq: changeFreqRoot, Priority: priorityRoot})
	seen := map[string]struct{}{rootPath: {}}
	for _, r := range routes {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if !strings.HasPrefix(r, "/") {
			r = "/" + r
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, URL{Loc: base + r, LastMod: lastmod, ChangeFreq: changeFreqPage, Priority: priorityPage})
	}
	return out
}

// Build renders the sitemap document for routes.
func Build(baseURL string, routes []string, generated time.Time) ([]byte, error) {
	doc := urlset{Xmlns: Namespace, URLs: Entries(baseURL, routes, generated)}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Robots renders a permissive robots.txt that points at the sitemap.
func Robots(baseURL string) []byte {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Sitemap: %s/sitemap.xml\n", normalizeBase(baseURL))
	return []byte(b.String())
}

func normalizeBase(baseURL string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = "http://localhost"
	}
	return base
}
