package docmeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_WithHeader(t *testing.T) {
	raw := []byte("---\ntitle: Python SDK\ndescription: Use the Python client.\nweight: 2\n---\n# Python\n")

	meta, body := Extract(raw, "sdks/python")

	assert.Equal(t, "Python SDK", meta.Title)
	assert.False(t, meta.TitleDerived)
	desc, ok := meta.Description.Get()
	require.True(t, ok)
	assert.Equal(t, "Use the Python client.", desc)
	assert.Equal(t, "sdks/python", meta.Slug)
	assert.Equal(t, map[string]any{"weight": 2}, meta.Extra)
	assert.Equal(t, "# Python\n", string(body))
}

func TestExtract_NoHeader_DerivesTitleAndKeepsBody(t *testing.T) {
	raw := []byte("# Embedding modes\n\nSome text.\n")

	meta, body := Extract(raw, "advanced/embedding-modes")

	assert.Equal(t, "Embedding modes", meta.Title)
	assert.True(t, meta.TitleDerived)
	assert.True(t, meta.Description.IsNone())
	assert.Nil(t, meta.Extra)
	assert.Equal(t, raw, body)
}

func TestExtract_IsIdempotent(t *testing.T) {
	raw := []byte("plain body without header")

	m1, b1 := Extract(raw, "concepts/decay")
	m2, b2 := Extract(raw, "concepts/decay")

	assert.Equal(t, m1, m2)
	assert.Equal(t, b1, b2)
	assert.Equal(t, "plain body without header", string(raw))
}

func TestExtract_MalformedHeaders_FallBackToFullBody(t *testing.T) {
	cases := map[string]string{
		"unterminated": "---\ntitle: Broken\n# Body\n",
		"invalid yaml": "---\ntitle: [unclosed\n---\n# Body\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			meta, body := Extract([]byte(raw), "migration/zep")
			assert.Equal(t, "Zep", meta.Title)
			assert.True(t, meta.Description.IsNone())
			assert.Equal(t, raw, string(body))
		})
	}
}

func TestExtract_BlankOrNonScalarValuesIgnored(t *testing.T) {
	raw := []byte("---\ntitle: \"   \"\ndescription:\n  nested: true\n---\nbody\n")

	meta, body := Extract(raw, "quick-start")

	assert.Equal(t, "Quick start", meta.Title)
	assert.True(t, meta.TitleDerived)
	assert.True(t, meta.Description.IsNone())
	assert.Equal(t, "body\n", string(body))
}

func TestExtract_NumericTitleStringified(t *testing.T) {
	meta, _ := Extract([]byte("---\ntitle: 2024\n---\n"), "changelog")
	assert.Equal(t, "2024", meta.Title)
}

func TestDeriveTitle(t *testing.T) {
	tests := map[string]string{
		"introduction":              "Introduction",
		"advanced/embedding-modes":  "Embedding modes",
		"sdks/python":               "Python",
		"examples/nodejs-assistant": "Nodejs assistant",
		"":                          "",
	}
	for in, want := range tests {
		assert.Equal(t, want, DeriveTitle(in), in)
	}
}

func TestFields(t *testing.T) {
	fields, body := Fields([]byte("---\ntitle: X\n---\nbody"))
	assert.Equal(t, map[string]any{"title": "X"}, fields)
	assert.Equal(t, "body", string(body))
}

func TestExtract_EmptyHeaderAtEOF(t *testing.T) {
	meta, body := Extract([]byte("---\n---"), "deployment")

	assert.Equal(t, "Deployment", meta.Title)
	assert.True(t, meta.Description.IsNone())
	assert.Empty(t, body)
}
