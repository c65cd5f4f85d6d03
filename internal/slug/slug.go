// Package slug validates URL slugs and maps them onto content documents.
package slug

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/content"
	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// ErrInvalidSlug indicates a slug failed validation.
var ErrInvalidSlug = errors.New("invalid slug")

// Source is the subset of content.Store the resolver needs.
type Source interface {
	ListAll(ctx context.Context) ([]string, error)
	Read(ctx context.Context, slug string) (content.Document, error)
}

// Resolver maps slug segments to documents.
type Resolver struct {
	src Source
}

// NewResolver returns a Resolver backed by src.
func NewResolver(src Source) *Resolver {
	return &Resolver{src: src}
}

// Split breaks a slash-separated slug into segments. Leading and trailing
// slashes are ignored; inner empty segments are kept so validation can reject them.
func Split(s string) []string {
	s = strings.Trim(s, "/")
	if s == "" {
		return nil
	}
	return strings.Split(s, "/")
}

// Join renders segments as a slug string.
func Join(segments []string) string { return strings.Join(segments, "/") }

// Validate checks that segments form an acceptable slug. Each segment must be
// non-empty, must not be "..", and may only contain a-z, 0-9 and "-".
func Validate(segments []string) error {
	joined := Join(segments)
	if len(segments) == 0 {
		return invalid(joined, "empty slug")
	}
	for _, seg := range segments {
		switch {
		case seg == "":
			return invalid(joined, "empty segment")
		case seg == "..":
			return invalid(joined, "parent reference")
		}
		for _, r := range seg {
			if !allowed(r) {
				return invalid(joined, fmt.Sprintf("character %q not allowed", r))
			}
		}
	}
	return nil
}

func allowed(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
}

func invalid(slug, reason string) error {
	return derrors.InvalidSlug(slug, reason, fmt.Errorf("%w: %q: %s", ErrInvalidSlug, slug, reason))
}

// Resolve validates segments and then reads the matching document.
// Validation runs before the content source is touched. Only canonical slugs
// resolve: "a/index" is rejected because its page lives at "a".
func (r *Resolver) Resolve(ctx context.Context, segments []string) (string, content.Document, error) {
	if err := Validate(segments); err != nil {
		return "", content.Document{}, err
	}
	joined := Join(segments)
	if Canonical(joined) != joined {
		return "", content.Document{}, invalid(joined, "not canonical, use "+Canonical(joined))
	}
	doc, err := r.src.Read(ctx, joined)
	if err != nil {
		return "", content.Document{}, err
	}
	return joined, doc, nil
}

// AllSlugs lists every servable slug as segments in sorted order.
//
// "a/index" collapses to "a"; a root "index" is kept as is. Slugs that would
// not pass Validate are logged and dropped. When the listing is partial the
// slugs read so far are returned with the listing error.
func (r *Resolver) AllSlugs(ctx context.Context) ([][]string, error) {
	raw, listErr := r.src.ListAll(ctx)

	seen := make(map[string]struct{}, len(raw))
	keys := make([]string, 0, len(raw))
	for _, s := range raw {
		c := Canonical(s)
		if err := Validate(Split(c)); err != nil {
			slog.Warn("Skipping document with unservable slug", logfields.Slug(s), logfields.Error(err))
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		keys = append(keys, c)
	}
	sort.Strings(keys)

	out := make([][]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, Split(k))
	}
	return out, listErr
}

// Canonical strips a trailing "/index" from a listed slug.
func Canonical(s string) string {
	if strings.HasSuffix(s, "/"+content.IndexName) {
		return strings.TrimSuffix(s, "/"+content.IndexName)
	}
	return s
}
