// Package layout wraps rendered pages in the site shell.
package layout

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/navigation"
	"git.home.luguber.info/inful/docsite/internal/render"
	"git.home.luguber.info/inful/docsite/internal/seo"
)

//go:embed templates/*.html
var templateFS embed.FS

// Link is a sidebar entry with its active state resolved.
type Link struct {
	Title  string
	Href   string
	Active bool
}

// Section is a sidebar group.
type Section struct {
	Link
	Children []Link
}

// Data is the template input for every page.
type Data struct {
	Site    config.SiteConfig
	Meta    seo.Meta
	Path    string
	Heading string
	Lead    string
	Content template.HTML
	Outline []render.Heading
	Sidebar []Section
	Year    int
}

// Layout executes the embedded page templates.
type Layout struct {
	tpl *template.Template
}

func New() (*Layout, error) {
	tpl, err := template.New("").Funcs(template.FuncMap{
		"jsonld": func(b []byte) template.JS { return template.JS(b) }, // #nosec G203 -- encoding/json output escapes <, > and &
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout templates: %w", err)
	}
	return &Layout{tpl: tpl}, nil
}

// Doc renders a documentation page.
func (l *Layout) Doc(w io.Writer, d Data) error { return l.exec(w, "doc", d) }

// Home renders the landing page.
func (l *Layout) Home(w io.Writer, d Data) error { return l.exec(w, "home", d) }

// NotFound renders the 404 page.
func (l *Layout) NotFound(w io.Writer, d Data) error { return l.exec(w, "notfound", d) }

func (l *Layout) exec(w io.Writer, name string, d Data) error {
	if d.Year == 0 {
		d.Year = time.Now().Year()
	}
	if err := l.tpl.ExecuteTemplate(w, name, d); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}
	return nil
}

// Sidebar resolves the navigation against the current path.
func Sidebar(nav *navigation.Navigation, path string) []Section {
	sections := nav.Sections()
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		sec := Section{Link: Link{Title: s.Title, Href: s.Href, Active: navigation.IsSectionActive(s, path)}}
		for _, c := range s.Children {
			sec.Children = append(sec.Children, Link{Title: c.Title, Href: c.Href, Active: navigation.IsActive(path, c.Href)})
		}
		out = append(out, sec)
	}
	return out
}
