package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobMatch(t *testing.T) {
	testCases := []struct {
		name          string
		pattern       string
		grammar       string
		expectMatched bool
	}{
		{
			name:          "single component, exact match",
			pattern:       "integer",
			grammar:       "integer",
			expectMatched: true,
		},
		{
			name:          "single component, mismatch",
			pattern:       "float",
			grammar:       "integer",
			expectMatched: false,
		},
		{
			name:          "single component, match with single wildcard",
			pattern:       "*",
			grammar:       "integer",
			expectMatched: true,
		},
		{
			name:          "single wildcard matches one component only",
			pattern:       "*",
			grammar:       "lang.integer",
			expectMatched: false,
		},
		{
			name:          "match with characters before single wildcard",
			pattern:       "int*",
			grammar:       "integer",
			expectMatched: true,
		},
		{
			name:          "match with characters after single wildcard",
			pattern:       "*eger",
			grammar:       "integer",
			expectMatched: true,
		},
		{
			name:          "mismatch with wildcard",
			pattern:       "num*",
			grammar:       "integer",
			expectMatched: false,
		},
		{
			name:          "multiple components, exact match",
			pattern:       "lang.expr.integer",
			grammar:       "lang.expr.integer",
			expectMatched: true,
		},
		{
			name:          "double star prefix matches",
			pattern:       "**.integer",
			grammar:       "lang.expr.integer",
			expectMatched: true,
		},
		{
			name:          "double star suffix matches",
			pattern:       "lang.**",
			grammar:       "lang.expr.integer",
			expectMatched: true,
		},
		{
			name:          "double star between components matches",
			pattern:       "lang.**.integer",
			grammar:       "lang.expr.arith.integer",
			expectMatched: true,
		},
		{
			name:          "double star prefix mismatch",
			pattern:       "**.float",
			grammar:       "lang.expr.integer",
			expectMatched: false,
		},
		{
			name:          "star and double star match",
			pattern:       "**.test_*",
			grammar:       "lang.expr.test_integer",
			expectMatched: true,
		},
		{
			name:          "star and double star mismatch",
			pattern:       "**.test_*",
			grammar:       "lang.expr.integer",
			expectMatched: false,
		},
		{
			name:          "double star matches any grammar",
			pattern:       "**",
			grammar:       "lang.expr.integer",
			expectMatched: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			matched := GlobMatch(tc.pattern, tc.grammar)
			assert.Equal(t, tc.expectMatched, matched)
		})
	}
}

func TestSplitNamespaceRejectsEmptyComponents(t *testing.T) {
	for _, name := range []string{"", "lang..integer", ".integer", "integer."} {
		_, err := splitNamespace(name)
		assert.Errorf(t, err, "expected %q to be rejected", name)
	}

	parts, err := splitNamespace("lang.expr.integer")
	assert.NoError(t, err)
	assert.Equal(t, []string{"lang", "expr", "integer"}, parts)
}
