// Package render turns document bodies into HTML fragments.
package render

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/docsite/internal/docmeta"
)

// Page is a rendered document body.
type Page struct {
	HTML    []byte
	Outline []Heading
}

// Input is what the core hands to a renderer.
type Input struct {
	Meta docmeta.DocMeta
	Body []byte
	// MDX strips top-level import/export statements before rendering.
	MDX bool
}

// Renderer converts a document body to HTML.
type Renderer interface {
	Render(ctx context.Context, in Input) (Page, error)
}

// Markdown renders CommonMark with GitHub extensions. Raw HTML is passed
// through so MDX component tags survive.
type Markdown struct {
	md goldmark.Markdown
}

func NewMarkdown() *Markdown {
	return &Markdown{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote, extension.DefinitionList),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)}
}

func (m *Markdown) Render(ctx context.Context, in Input) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	body := in.Body
	if in.MDX {
		body = stripESM(body)
	}

	var buf bytes.Buffer
	if err := m.md.Convert(body, &buf); err != nil {
		return Page{}, fmt.Errorf("convert %s: %w", in.Meta.Slug, err)
	}
	outline, err := Outline(buf.Bytes())
	if err != nil {
		return Page{}, fmt.Errorf("outline %s: %w", in.Meta.Slug, err)
	}
	return Page{HTML: buf.Bytes(), Outline: outline}, nil
}

// stripESM drops top-level MDX import and export lines outside fenced code.
func stripESM(body []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(body))
	fence := ""
	sc := bufio.NewScanner(bytes.NewReader(body))
	sc.Buffer(make([]byte, 0, 64*1024), len(body)+1)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case fence != "":
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
		case strings.HasPrefix(trimmed, "```"):
			fence = "```"
		case strings.HasPrefix(trimmed, "~~~"):
			fence = "~~~"
		case strings.HasPrefix(line, "import ") || strings.HasPrefix(line, "export "):
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.Bytes()
}
