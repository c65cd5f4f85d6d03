package content

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docsite/internal/errors"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(body), 0o600))
	}
	return root
}

func TestListAll_OSDirectory(t *testing.T) {
	root := writeTree(t, map[string]string{
		"introduction.md":        "# Intro",
		"sdks/python.md":         "# Python",
		"sdks/javascript.mdx":    "# JS",
		"api/index.md":           "# API",
		"notes.txt":              "ignored",
		".drafts/secret.md":      "hidden",
		"concepts/.wip.md":       "hidden",
		"concepts/decay.MD":      "# Decay",
		"examples/agents/one.md": "# One",
	})

	store := NewStore(NewOSDirectory(root))
	slugs, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"api/index",
		"examples/agents/one",
		"introduction",
		"sdks/javascript",
		"sdks/python",
	}, slugs)
}

func TestListAll_EveryListedSlugReads(t *testing.T) {
	store := NewStore(NewMemoryDirectory(map[string]string{
		"guide.MD":          "# upper",
		"concepts/decay.Md": "# mixed",
		"intro.md":          "# lower",
	}))

	slugs, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"intro"}, slugs)

	for _, s := range slugs {
		_, err := store.Read(context.Background(), s)
		assert.NoError(t, err, s)
	}
}

func TestListAll_MissingRoot(t *testing.T) {
	store := NewStore(NewOSDirectory(filepath.Join(t.TempDir(), "does-not-exist")))

	slugs, err := store.ListAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrContentRead)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryContentRead))
	assert.Empty(t, slugs)
}

type failingDir struct {
	Directory
	fail string
}

func (f failingDir) ReadDir(dir string) ([]Entry, error) {
	if dir == f.fail {
		return nil, fs.ErrPermission
	}
	return f.Directory.ReadDir(dir)
}

func TestListAll_UnreadableSubdirectoryReturnsPartial(t *testing.T) {
	mem := NewMemoryDirectory(map[string]string{
		"introduction.md":  "a",
		"locked/secret.md": "b",
		"sdks/python.md":   "c",
	})
	store := NewStore(failingDir{Directory: mem, fail: "locked"})

	slugs, err := store.ListAll(context.Background())
	require.ErrorIs(t, err, ErrContentRead)
	assert.Equal(t, []string{"introduction", "sdks/python"}, slugs)
}

func TestListAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStore(NewMemoryDirectory(map[string]string{"a.md": ""})).ListAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRead_DirectFileBeforeIndex(t *testing.T) {
	store := NewStore(NewMemoryDirectory(map[string]string{
		"sdks.md":       "direct",
		"sdks/index.md": "index",
		"api/index.mdx": "api index",
	}))

	doc, err := store.Read(context.Background(), "sdks")
	require.NoError(t, err)
	assert.Equal(t, "direct", string(doc.Raw))
	assert.Equal(t, "sdks.md", doc.Path)

	doc, err = store.Read(context.Background(), "api")
	require.NoError(t, err)
	assert.Equal(t, "api index", string(doc.Raw))
	assert.Equal(t, "api/index.mdx", doc.Path)
	assert.Equal(t, []string{"api"}, doc.Segments())
}

func TestRead_ExtensionOrder(t *testing.T) {
	mem := NewMemoryDirectory(map[string]string{
		"page.md":  "md",
		"page.mdx": "mdx",
	})

	doc, err := NewStore(mem).Read(context.Background(), "page")
	require.NoError(t, err)
	assert.Equal(t, "md", string(doc.Raw))

	doc, err = NewStore(mem, WithExtensions("mdx", ".md")).Read(context.Background(), "page")
	require.NoError(t, err)
	assert.Equal(t, "mdx", string(doc.Raw))
}

func TestRead_NotFound(t *testing.T) {
	store := NewStore(NewMemoryDirectory(map[string]string{"introduction.md": "x"}))

	_, err := store.Read(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryNotFound))
}

func TestRead_ContainerIsNotALeaf(t *testing.T) {
	root := writeTree(t, map[string]string{"guide.md/child.md": "x"})

	_, err := NewStore(NewOSDirectory(root)).Read(context.Background(), "guide")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRead_RejectsRootEscape(t *testing.T) {
	parent := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.md"), []byte("top secret"), 0o600))
	root := filepath.Join(parent, "content")
	require.NoError(t, os.Mkdir(root, 0o750))

	store := NewStore(NewOSDirectory(root))
	for _, slug := range []string{"../secret", "a/../../secret", "/../secret"} {
		_, err := store.Read(context.Background(), slug)
		assert.ErrorIs(t, err, ErrNotFound, slug)
	}
}

func TestRead_RootIndex(t *testing.T) {
	store := NewStore(NewMemoryDirectory(map[string]string{"index.md": "home"}))

	doc, err := store.Read(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "home", string(doc.Raw))
	assert.Nil(t, doc.Segments())
}

type readErrDir struct{ Directory }

func (readErrDir) ReadFile(string) ([]byte, error) { return nil, errors.New("disk on fire") }

func TestRead_OtherErrorsAreContentReadErrors(t *testing.T) {
	store := NewStore(readErrDir{NewMemoryDirectory(nil)})

	_, err := store.Read(context.Background(), "x")
	require.ErrorIs(t, err, ErrContentRead)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryContentRead))
}

func TestMemoryDirectory_ReadDir(t *testing.T) {
	mem := NewMemoryDirectory(map[string]string{
		"a.md":   "",
		"b/c.md": "",
	})

	entries, err := mem.ReadDir("")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Name: "a.md"}, {Name: "b", Container: true}}, entries)

	_, err = mem.ReadDir("nope")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = mem.ReadFile("b")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
