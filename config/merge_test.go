package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeMetadata(t *testing.T) {
	testCases := []struct {
		name     string
		base     map[string]any
		overlay  map[string]any
		expected map[string]any
	}{
		{
			name:     "nil base takes overlay",
			base:     nil,
			overlay:  map[string]any{"targetPath": "gen/integer.go"},
			expected: map[string]any{"targetPath": "gen/integer.go"},
		},
		{
			name:     "empty overlay changes nothing",
			base:     map[string]any{"targetPath": "gen/integer.go"},
			overlay:  map[string]any{},
			expected: map[string]any{"targetPath": "gen/integer.go"},
		},
		{
			name:     "later rule overrides a scalar",
			base:     map[string]any{"targetPath": "gen/integer.go"},
			overlay:  map[string]any{"targetPath": "gen/number.go"},
			expected: map[string]any{"targetPath": "gen/number.go"},
		},
		{
			name:     "disjoint keys union",
			base:     map[string]any{"targetPath": "gen/integer.go"},
			overlay:  map[string]any{"docLink": "docs/integer.md"},
			expected: map[string]any{"targetPath": "gen/integer.go", "docLink": "docs/integer.md"},
		},
		{
			name:     "nil overlay value keeps base value",
			base:     map[string]any{"docLink": "docs/integer.md"},
			overlay:  map[string]any{"docLink": nil},
			expected: map[string]any{"docLink": "docs/integer.md"},
		},
		{
			name:     "lists append in cascade order",
			base:     map[string]any{"owners": []any{"parser-team"}},
			overlay:  map[string]any{"owners": []any{"codegen-team"}},
			expected: map[string]any{"owners": []any{"parser-team", "codegen-team"}},
		},
		{
			name: "nested maps merge key by key",
			base: map[string]any{
				"emit": map[string]any{"package": "parser", "buildTag": "generated"},
			},
			overlay: map[string]any{
				"emit": map[string]any{"package": "numparser"},
			},
			expected: map[string]any{
				"emit": map[string]any{"package": "numparser", "buildTag": "generated"},
			},
		},
		{
			name:     "type mismatch resolves to overlay",
			base:     map[string]any{"owners": []any{"parser-team"}},
			overlay:  map[string]any{"owners": "codegen-team"},
			expected: map[string]any{"owners": "codegen-team"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			merged := MergeMetadata(tc.base, tc.overlay)
			assert.Equal(t, tc.expected, merged)
		})
	}
}
