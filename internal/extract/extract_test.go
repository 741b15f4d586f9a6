package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_JSONEnvelope(t *testing.T) {
	t.Run("valid envelope", func(t *testing.T) {
		raw := `{"optimized_code": "for i in range(n):\n    total += i", "confidence": 0.9}`

		code, ok := Extract(raw)
		require.True(t, ok)
		assert.Equal(t, "for i in range(n):\n    total += i", code)
	})

	t.Run("envelope wins over embedded fence", func(t *testing.T) {
		raw := "{\"optimized_code\": \"x = 1\", \"note\": \"```python\\ny = 2\\n```\"}"

		code, ok := Extract(raw)
		require.True(t, ok)
		assert.Equal(t, "x = 1", code)
	})

	t.Run("malformed envelope salvaged by regex", func(t *testing.T) {
		// Trailing garbage breaks strict parsing but the field survives.
		raw := `{"optimized_code": "a = 1\nb = 2", "confidence": 0.9,,,`

		code, ok := Extract(raw)
		require.True(t, ok)
		assert.Equal(t, "a = 1\nb = 2", code)
	})

	t.Run("salvage unescapes quotes and backslashes", func(t *testing.T) {
		raw := `{"optimized_code": "print(\"a\\\\b\")\tdone", oops`

		code, ok := Extract(raw)
		require.True(t, ok)
		assert.Equal(t, "print(\"a\\\\b\")\tdone", code)
	})
}

func TestExtract_FencedBlock(t *testing.T) {
	t.Run("interior returned trimmed and unchanged", func(t *testing.T) {
		raw := "Here is the optimized version:\n```go\nfunc sum(xs []int) int {\n\treturn 0\n}\n```\nLet me know!"

		code, ok := Extract(raw)
		require.True(t, ok)
		assert.Equal(t, "func sum(xs []int) int {\n\treturn 0\n}", code)
	})

	t.Run("fence without language tag", func(t *testing.T) {
		code, ok := Extract("```\nx = 1\n```")
		require.True(t, ok)
		assert.Equal(t, "x = 1", code)
	})

	t.Run("unclosed fence returns interior for repair", func(t *testing.T) {
		raw := "```python\ndef f(xs):\n    return sum(xs"

		code, ok := Extract(raw)
		require.True(t, ok)
		assert.Equal(t, "def f(xs):\n    return sum(xs", code)
	})
}

func TestExtract_InlineFence(t *testing.T) {
	code, ok := Extract("`x += 1`")
	require.True(t, ok)
	assert.Equal(t, "x += 1", code)
}

func TestExtract_RawFallback(t *testing.T) {
	t.Run("preamble and prose dropped", func(t *testing.T) {
		raw := "Here is the optimized code:\nThis version avoids the nested loop entirely.\nfor (let i = 0; i < n; i++) {\n  total += i;\n}"

		code, ok := Extract(raw)
		require.True(t, ok)
		assert.Equal(t, "for (let i = 0; i < n; i++) {\n  total += i;\n}", code)
	})

	t.Run("comment lines are preserved", func(t *testing.T) {
		raw := "# Accumulate in a single pass.\ntotal = sum(xs)"

		code, ok := Extract(raw)
		require.True(t, ok)
		assert.Equal(t, "# Accumulate in a single pass.\ntotal = sum(xs)", code)
	})

	t.Run("plain code passes through", func(t *testing.T) {
		code, ok := Extract("total = 0\nfor x in xs:\n    total += x")
		require.True(t, ok)
		assert.Equal(t, "total = 0\nfor x in xs:\n    total += x", code)
	})
}

func TestExtract_Failure(t *testing.T) {
	for name, raw := range map[string]string{
		"empty":        "",
		"whitespace":   "   \n\t  \n",
		"pure prose":   "I could not produce an optimized version of this snippet.\nPlease try again with more context.",
		"empty fence":  "```python\n\n```",
	} {
		t.Run(name, func(t *testing.T) {
			_, ok := Extract(raw)
			assert.False(t, ok)
		})
	}
}
