// Package pages enumerates the routes the site serves and generates.
package pages

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/slug"
)

const (
	// Root is the home route. It is always enumerated first.
	Root = "/"
	// DocsPrefix prefixes every document route.
	DocsPrefix = "/docs/"
)

// SlugLister yields every servable slug as segments.
type SlugLister interface {
	AllSlugs(ctx context.Context) ([][]string, error)
}

// Enumerator lists site routes.
type Enumerator struct {
	slugs SlugLister
}

func NewEnumerator(slugs SlugLister) *Enumerator {
	return &Enumerator{slugs: slugs}
}

// Enumerate returns "/" followed by "/docs/<slug>" for every slug, in sorted
// slug order. Listing errors are logged and whatever was read is still used,
// so the result always contains at least the root.
func (e *Enumerator) Enumerate(ctx context.Context) []string {
	all, err := e.slugs.AllSlugs(ctx)
	if err != nil {
		slog.Warn("Page enumeration degraded", logfields.Count(len(all)), logfields.Error(err))
	}
	out := make([]string, 0, len(all)+1)
	out = append(out, Root)
	for _, segs := range all {
		out = append(out, DocPath(slug.Join(segs)))
	}
	return out
}

// DocPath returns the route for a slug.
func DocPath(s string) string { return DocsPrefix + s }

// SlugOf returns the slug part of a document route and whether path is one.
func SlugOf(path string) (string, bool) {
	if len(path) <= len(DocsPrefix) || path[:len(DocsPrefix)] != DocsPrefix {
		return "", false
	}
	return path[len(DocsPrefix):], true
}
