package foundation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOption(t *testing.T) {
	t.Run("Some", func(t *testing.T) {
		o := Some("value")
		assert.False(t, o.IsNone())
		v, ok := o.Get()
		assert.True(t, ok)
		assert.Equal(t, "value", v)
		assert.Equal(t, "value", o.UnwrapOr("fallback"))
		assert.Equal(t, "value", o.UnwrapOrElse(func() string { return "lazy" }))
	})

	t.Run("None", func(t *testing.T) {
		o := None[string]()
		assert.True(t, o.IsNone())
		_, ok := o.Get()
		assert.False(t, ok)
		assert.Equal(t, "fallback", o.UnwrapOr("fallback"))
		assert.Equal(t, "lazy", o.UnwrapOrElse(func() string { return "lazy" }))
	})

	t.Run("EmptyStringIsPresent", func(t *testing.T) {
		v, ok := Some("").Get()
		assert.True(t, ok)
		assert.Empty(t, v)
	})
}
