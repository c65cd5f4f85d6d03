package content

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

// Entry is a single child of a directory listing.
type Entry struct {
	Name      string
	Container bool
}

// IsContainer reports whether the entry can be listed itself.
func (e Entry) IsContainer() bool { return e.Container }

// Directory abstracts the content tree. Paths are slash-separated and relative
// to the content root; "" or "." names the root itself.
type Directory interface {
	// ReadDir lists the entries of a container.
	ReadDir(dir string) ([]Entry, error)
	// ReadFile returns a leaf's bytes. Containers and missing names report fs.ErrNotExist.
	ReadFile(name string) ([]byte, error)
}

// OSDirectory serves a content root from the local filesystem.
type OSDirectory struct {
	root string
	fsys fs.FS
}

// NewOSDirectory returns a Directory rooted at root. The root is not required to exist.
func NewOSDirectory(root string) *OSDirectory {
	return &OSDirectory{root: root, fsys: os.DirFS(root)}
}

// Root returns the filesystem path the directory was created with.
func (d *OSDirectory) Root() string { return d.root }

func (d *OSDirectory) ReadDir(dir string) ([]Entry, error) {
	des, err := fs.ReadDir(d.fsys, fsName(dir))
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(des))
	for _, de := range des {
		entries = append(entries, Entry{Name: de.Name(), Container: de.IsDir()})
	}
	return entries, nil
}

func (d *OSDirectory) ReadFile(name string) ([]byte, error) {
	fsn := fsName(name)
	info, err := fs.Stat(d.fsys, fsn)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	return fs.ReadFile(d.fsys, fsn)
}

// MemoryDirectory is an in-memory Directory keyed by slash-separated file paths.
// Containers are implied by the file paths.
type MemoryDirectory struct {
	files map[string][]byte
}

// NewMemoryDirectory builds a MemoryDirectory from path -> content pairs.
func NewMemoryDirectory(files map[string]string) *MemoryDirectory {
	m := &MemoryDirectory{files: make(map[string][]byte, len(files))}
	for p, c := range files {
		m.files[path.Clean(strings.TrimPrefix(p, "/"))] = []byte(c)
	}
	return m
}

func (m *MemoryDirectory) ReadDir(dir string) ([]Entry, error) {
	prefix := ""
	if name := fsName(dir); name != "." {
		prefix = name + "/"
	}
	seen := map[string]bool{}
	found := prefix == ""
	for p := range m.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		found = true
		rest := p[len(prefix):]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			seen[rest[:i]] = true
		} else if _, ok := seen[rest]; !ok {
			seen[rest] = false
		}
	}
	if !found {
		return nil, &fs.PathError{Op: "readdir", Path: dir, Err: fs.ErrNotExist}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	entries := make([]Entry, 0, len(names))
	for _, n := range names {
		entries = append(entries, Entry{Name: n, Container: seen[n]})
	}
	return entries, nil
}

func (m *MemoryDirectory) ReadFile(name string) ([]byte, error) {
	b, ok := m.files[fsName(name)]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func fsName(p string) string {
	if p == "" {
		return "."
	}
	return p
}

// String implements fmt.Stringer for log output.
func (d *OSDirectory) String() string { return fmt.Sprintf("os:%s", d.root) }
