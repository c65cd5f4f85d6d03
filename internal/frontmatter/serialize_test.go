package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializeCanonical_EmptyMap_ReturnsEmpty(t *testing.T) {
	out, err := SerializeCanonical(map[string]any{})
	require.NoError(t, err)
	require.Equal(t, "", string(out))
}

func TestSerializeCanonical_DeterministicOrder(t *testing.T) {
	fields := map[string]any{
		"title":       "Python",
		"description": "SDK",
		"weight":      3,
	}

	out1, err := SerializeCanonical(fields)
	require.NoError(t, err)
	out2, err := SerializeCanonical(fields)
	require.NoError(t, err)
	require.Equal(t, string(out1), string(out2))
	require.Equal(t, "description: SDK\ntitle: Python\nweight: 3\n", string(out1))
}

func TestSerializeCanonical_NestedMapAndList(t *testing.T) {
	fields := map[string]any{
		"seo": map[string]any{"b": 2, "a": 1},
		"tags": []any{"memory", "sdk"},
	}

	out, err := SerializeCanonical(fields)
	require.NoError(t, err)
	require.Equal(t, "seo:\n  a: 1\n  b: 2\ntags:\n  - memory\n  - sdk\n", string(out))
}

func TestSerializeCanonical_ParsedRoundTripIsStable(t *testing.T) {
	parsed, err := ParseYAML([]byte("title: Decay\ndate: 2024-05-01\n"))
	require.NoError(t, err)

	first, err := SerializeCanonical(parsed)
	require.NoError(t, err)
	reparsed, err := ParseYAML(first)
	require.NoError(t, err)
	second, err := SerializeCanonical(reparsed)
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
}
