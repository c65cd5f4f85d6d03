// Package navigation holds the immutable sidebar model and its active-state rules.
package navigation

import (
	"context"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/pages"
	"git.home.luguber.info/inful/docsite/internal/slug"
)

// Item is a navigation entry. Sections carry Children; leaves do not.
type Item struct {
	Title    string `yaml:"title" json:"title"`
	Href     string `yaml:"href" json:"href"`
	Children []Item `yaml:"children,omitempty" json:"children,omitempty"`
}

// Navigation is an ordered list of sections. It is never mutated after New.
type Navigation struct {
	sections []Item
}

// New builds a Navigation from sections. The input is copied.
func New(sections []Item) *Navigation {
	return &Navigation{sections: cloneItems(sections)}
}

// Sections returns a copy of the section list.
func (n *Navigation) Sections() []Item {
	if n == nil {
		return nil
	}
	return cloneItems(n.sections)
}

// Len returns the number of sections.
func (n *Navigation) Len() int {
	if n == nil {
		return 0
	}
	return len(n.sections)
}

func cloneItems(in []Item) []Item {
	if in == nil {
		return nil
	}
	out := make([]Item, len(in))
	for i, it := range in {
		out[i] = Item{Title: it.Title, Href: it.Href, Children: cloneItems(it.Children)}
	}
	return out
}

// IsActive reports whether path is href or lies below it. Matching is exact
// and case sensitive; "/docs/sdk" is not active for "/docs/sdks".
func IsActive(path, href string) bool {
	return path == href || strings.HasPrefix(path, href+"/")
}

// IsSectionActive reports whether any child of section is active for path.
// A section without children is active when its own href is.
func IsSectionActive(section Item, path string) bool {
	if len(section.Children) == 0 {
		return IsActive(path, section.Href)
	}
	for _, c := range section.Children {
		if IsActive(path, c.Href) {
			return true
		}
	}
	return false
}

// Resolver resolves slug segments to documents.
type Resolver interface {
	Resolve(ctx context.Context, segments []string) (string, content.Document, error)
}

// DeadLink is a navigation href under /docs/ that does not resolve.
type DeadLink struct {
	Section string
	Title   string
	Href    string
	Err     error
}

// DeadLinks checks every internal document href once, in navigation order.
// External and non-document hrefs are not checked.
func (n *Navigation) DeadLinks(ctx context.Context, r Resolver) ([]DeadLink, error) {
	var dead []DeadLink
	checked := map[string]bool{}
	check := func(section, title, href string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, ok := pages.SlugOf(href)
		if !ok || checked[href] {
			return nil
		}
		checked[href] = true
		if _, _, err := r.Resolve(ctx, slug.Split(s)); err != nil {
			dead = append(dead, DeadLink{Section: section, Title: title, Href: href, Err: err})
		}
		return nil
	}
	for _, sec := range n.Sections() {
		if err := check(sec.Title, sec.Title, sec.Href); err != nil {
			return dead, err
		}
		for _, c := range sec.Children {
			if err := check(sec.Title, c.Title, c.Href); err != nil {
				return dead, err
			}
		}
	}
	return dead, nil
}
