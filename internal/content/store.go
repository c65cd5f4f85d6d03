// Package content provides read access to the documentation content tree.
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

var (
	// ErrNotFound indicates no document exists for a slug.
	ErrNotFound = errors.New("document not found")

	// ErrContentRead indicates the content tree could not be read.
	ErrContentRead = errors.New("content read failed")
)

// IndexName is the leaf name that represents a container's own page.
const IndexName = "index"

// DefaultExtensions are the leaf extensions treated as documents.
var DefaultExtensions = []string{".md", ".mdx"}

// Document is a single leaf of the content tree.
type Document struct {
	// Slug is the slash-joined path relative to the root without extension.
	Slug string
	// Path is the leaf file path relative to the root.
	Path string
	Raw  []byte
}

// Segments returns the slug split on "/".
func (d Document) Segments() []string {
	if d.Slug == "" {
		return nil
	}
	return strings.Split(d.Slug, "/")
}

// Store lists and reads documents from a Directory.
type Store struct {
	dir        Directory
	extensions []string
}

// Option configures a Store.
type Option func(*Store)

// WithExtensions overrides the document extensions. Order decides which leaf
// wins when several share a slug.
func WithExtensions(exts ...string) Option {
	return func(s *Store) {
		if len(exts) == 0 {
			return
		}
		s.extensions = make([]string, 0, len(exts))
		for _, e := range exts {
			e = strings.ToLower(strings.TrimSpace(e))
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			s.extensions = append(s.extensions, e)
		}
	}
}

// NewStore returns a Store over dir.
func NewStore(dir Directory, opts ...Option) *Store {
	s := &Store{dir: dir, extensions: append([]string(nil), DefaultExtensions...)}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Extensions returns the configured document extensions.
func (s *Store) Extensions() []string { return append([]string(nil), s.extensions...) }

// ListAll returns every document leaf under the root as a slug (extension
// stripped), sorted lexicographically. Hidden entries are skipped.
//
// A missing or unreadable root fails with ErrContentRead. An unreadable
// subdirectory is logged and skipped; the listing of the rest is returned
// together with an ErrContentRead error.
func (s *Store) ListAll(ctx context.Context) ([]string, error) {
	var (
		slugs    []string
		firstErr error
	)
	stack := []string{""}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := s.dir.ReadDir(dir)
		if err != nil {
			wrapped := derrors.ContentRead(displayDir(dir), fmt.Errorf("%w: %s: %w", ErrContentRead, displayDir(dir), err))
			if dir == "" {
				return nil, wrapped
			}
			slog.Warn("Skipping unreadable content directory", logfields.Path(dir), logfields.Error(err))
			if firstErr == nil {
				firstErr = wrapped
			}
			continue
		}

		for _, e := range entries {
			if isHidden(e.Name) {
				continue
			}
			rel := e.Name
			if dir != "" {
				rel = dir + "/" + e.Name
			}
			if e.IsContainer() {
				stack = append(stack, rel)
				continue
			}
			if ext := s.matchExtension(e.Name); ext != "" {
				slugs = append(slugs, rel[:len(rel)-len(ext)])
			}
		}
	}
	sort.Strings(slugs)
	return slugs, firstErr
}

// Read loads the document for slug. The direct leaf "<slug><ext>" is tried
// before the container index "<slug>/index<ext>".
//
// Slugs that would leave the root fail with ErrNotFound.
func (s *Store) Read(ctx context.Context, slug string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	clean, ok := cleanSlug(slug)
	if !ok {
		return Document{}, derrors.NotFound(slug, fmt.Errorf("%w: %q escapes content root", ErrNotFound, slug))
	}

	candidates := make([]string, 0, 2*len(s.extensions))
	if clean == "" {
		for _, ext := range s.extensions {
			candidates = append(candidates, IndexName+ext)
		}
	} else {
		for _, ext := range s.extensions {
			candidates = append(candidates, clean+ext)
		}
		for _, ext := range s.extensions {
			candidates = append(candidates, clean+"/"+IndexName+ext)
		}
	}

	for _, name := range candidates {
		raw, err := s.dir.ReadFile(name)
		if err == nil {
			return Document{Slug: clean, Path: name, Raw: raw}, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return Document{}, derrors.ContentRead(name, fmt.Errorf("%w: %s: %w", ErrContentRead, name, err))
	}
	return Document{}, derrors.NotFound(clean, fmt.Errorf("%w: %s", ErrNotFound, clean))
}

// matchExtension is case-sensitive so every listed leaf can be read back by
// Read's exact-name lookup.
func (s *Store) matchExtension(name string) string {
	for _, ext := range s.extensions {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return ext
		}
	}
	return ""
}

// cleanSlug normalizes slug to a root-relative path and rejects anything that
// is not a valid fs path after cleaning (parent references, absolute paths).
func cleanSlug(slug string) (string, bool) {
	if slug == "" || slug == "/" {
		return "", true
	}
	for _, seg := range strings.Split(slug, "/") {
		if seg == ".." {
			return "", false
		}
	}
	p := path.Clean(strings.Trim(slug, "/"))
	if !fs.ValidPath(p) || p == "." {
		return "", false
	}
	return p, true
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func displayDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
