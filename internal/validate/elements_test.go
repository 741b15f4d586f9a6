package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optivet/internal/config"
)

func TestCheckElements_MissingFunction(t *testing.T) {
	cfg := config.DefaultConfig()

	original := "function foo() { return 1; }\nfunction bar() { return 2; }\nfunction keep() { return foo() + bar(); }"
	candidate := "function keep() { return 3; }"

	missing := CheckElements(original, candidate, cfg)
	require.False(t, missing.Empty())
	assert.Equal(t, []string{"foo", "bar"}, missing[CategoryFunction])
	assert.Contains(t, missing.Warning(), "2 function(s): foo, bar")
}

func TestCheckElements_TrivialVariablesIgnored(t *testing.T) {
	cfg := config.DefaultConfig()

	original := "let i = 0;\nlet tmp = null;\nlet total = 0;\nfor (i = 0; i < n; i++) { total += i; }"
	candidate := "let total = xs.reduce((a, b) => a + b, 0);"

	missing := CheckElements(original, candidate, cfg)
	// i and tmp are conventionally inlined; total survives, so nothing
	// is reported.
	assert.True(t, missing.Empty(), "got %v", missing)
}

func TestCheckElements_MissingVariable(t *testing.T) {
	cfg := config.DefaultConfig()

	original := "let runningTotal = 0;\nrunningTotal += x;"
	candidate := "return xs.length;"

	missing := CheckElements(original, candidate, cfg)
	require.False(t, missing.Empty())
	assert.Equal(t, []string{"runningTotal"}, missing[CategoryVariable])
}

func TestCheckElements_Imports(t *testing.T) {
	cfg := config.DefaultConfig()

	t.Run("python", func(t *testing.T) {
		original := "import collections\nfrom os import path\ndef f():\n    pass"
		candidate := "def f():\n    pass"

		missing := CheckElements(original, candidate, cfg)
		assert.ElementsMatch(t, []string{"collections", "os"}, missing[CategoryImport])
	})

	t.Run("javascript", func(t *testing.T) {
		original := "import { readFile } from 'fs';\nconst x = 1;"
		candidate := "const x = 1;"

		missing := CheckElements(original, candidate, cfg)
		assert.Equal(t, []string{"fs"}, missing[CategoryImport])
	})

	t.Run("c include", func(t *testing.T) {
		original := "#include <stdio.h>\nint main() { return 0; }"
		candidate := "int main() { return 0; }"

		missing := CheckElements(original, candidate, cfg)
		assert.Equal(t, []string{"stdio.h"}, missing[CategoryImport])
	})
}

func TestCheckElements_Classes(t *testing.T) {
	cfg := config.DefaultConfig()

	original := "class Accumulator {\n  constructor() { this.sum = 0; }\n}"
	candidate := "const sum = xs => xs.reduce((a, b) => a + b, 0);"

	missing := CheckElements(original, candidate, cfg)
	assert.Equal(t, []string{"Accumulator"}, missing[CategoryClass])
}

func TestCheckElements_PreservedNames(t *testing.T) {
	cfg := config.DefaultConfig()

	original := "def process(items):\n    cache = {}\n    return cache"
	candidate := "def process(items):\n    cache = {x: x for x in items}\n    return cache"

	missing := CheckElements(original, candidate, cfg)
	assert.True(t, missing.Empty(), "got %v", missing)
}

func TestCheckElements_GoDeclarations(t *testing.T) {
	cfg := config.DefaultConfig()

	original := "type Counter struct {\n\tn int\n}\n\nfunc (c *Counter) Add(delta int) {\n\tc.n += delta\n}\n\nfunc totalOf(xs []int) int {\n\tacc := 0\n\treturn acc\n}"
	candidate := "func totalOf(xs []int) int {\n\treturn len(xs)\n}"

	missing := CheckElements(original, candidate, cfg)
	assert.Equal(t, []string{"Counter"}, missing[CategoryClass])
	assert.Equal(t, []string{"Add"}, missing[CategoryFunction])
	// acc is allowlisted as trivial.
	assert.Empty(t, missing[CategoryVariable])
}
