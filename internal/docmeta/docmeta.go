// Package docmeta extracts the DocMeta record (title, description, slug) from a
// content document's front matter and separates it from the renderable body.
package docmeta

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"git.home.luguber.info/inful/docsite/internal/foundation"
	"git.home.luguber.info/inful/docsite/internal/frontmatter"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

const (
	keyTitle       = "title"
	keyDescription = "description"
)

// DocMeta is the metadata record derived from a document header.
// It is built once per extraction and never written back to storage.
type DocMeta struct {
	Title       string
	Description foundation.Option[string]
	Slug        string
	// Extra holds header keys other than title and description.
	Extra map[string]any
	// TitleDerived reports whether Title was synthesized from the slug.
	TitleDerived bool
}

// Extract splits raw into metadata and body.
//
// A missing, unterminated, or unparseable header yields empty metadata and the
// entire input as body. A missing title is derived from the slug's last segment.
func Extract(raw []byte, slug string) (DocMeta, []byte) {
	fields, body := splitFields(raw, slug)

	meta := DocMeta{Slug: slug}
	if t, ok := stringField(fields, keyTitle); ok {
		meta.Title = t
	} else {
		meta.Title = DeriveTitle(slug)
		meta.TitleDerived = true
	}
	if d, ok := stringField(fields, keyDescription); ok {
		meta.Description = foundation.Some(d)
	}

	for k, v := range fields {
		if k == keyTitle || k == keyDescription {
			continue
		}
		if meta.Extra == nil {
			meta.Extra = make(map[string]any)
		}
		meta.Extra[k] = v
	}
	return meta, body
}

// Fields returns the parsed header mapping and the body. It applies the same
// fallbacks as Extract but performs no title synthesis.
func Fields(raw []byte) (map[string]any, []byte) {
	return splitFields(raw, "")
}

func splitFields(raw []byte, slug string) (map[string]any, []byte) {
	block, err := frontmatter.Split(raw)
	if err != nil {
		slog.Warn("Ignoring unterminated front matter", logfields.Slug(slug), logfields.Error(err))
		return map[string]any{}, raw
	}
	if !block.Present {
		return map[string]any{}, raw
	}
	fields, err := frontmatter.ParseYAML(block.Header)
	if err != nil {
		slog.Warn("Ignoring unparseable front matter", logfields.Slug(slug), logfields.Error(err))
		return map[string]any{}, raw
	}
	return fields, block.Body
}

// stringField returns a non-blank scalar header value rendered as a string.
func stringField(fields map[string]any, key string) (string, bool) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", false
	}
	var s string
	switch vv := v.(type) {
	case string:
		s = vv
	case map[string]any, []any:
		return "", false
	default:
		s = fmt.Sprint(vv)
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// DeriveTitle synthesizes a title from the last slug segment: the first letter
// is upper-cased and hyphens become spaces ("embedding-modes" -> "Embedding modes").
func DeriveTitle(slug string) string {
	last := slug
	if i := strings.LastIndex(slug, "/"); i >= 0 {
		last = slug[i+1:]
	}
	return Humanize(last)
}

// Humanize upper-cases the first rune of segment and replaces hyphens with spaces.
func Humanize(segment string) string {
	if segment == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(segment)
	return string(unicode.ToUpper(r)) + strings.ReplaceAll(segment[size:], "-", " ")
}
