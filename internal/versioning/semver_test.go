package versioning

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("1.20.3")
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 1, Minor: 20, Patch: 3}, v)
	assert.Equal(t, "1.20.3", v.String())
}

func TestParseVersionMalformed(t *testing.T) {
	for _, s := range []string{"", "1", "1.0", "1.0.0.0", "a.b.c", "1.-1.0", "1..0", "v1.0.0", "1.0.+1", "1.0.0-beta"} {
		_, err := ParseVersion(s)
		assert.Error(t, err, s)
		assert.True(t, IsValidation(err), s)
	}
}

func TestNextVersion(t *testing.T) {
	added := TemplateChanges{ParameterChanges: ParameterChanges{Added: []string{"place"}}}
	removed := TemplateChanges{ParameterChanges: ParameterChanges{Removed: []string{"b"}}, BreakingChanges: true}
	none := TemplateChanges{}

	tests := []struct {
		name     string
		prev     string
		changes  TemplateChanges
		expected string
	}{
		{name: "Minor on added", prev: "1.0.0", changes: added, expected: "1.1.0"},
		{name: "Major on removed", prev: "1.0.0", changes: removed, expected: "2.0.0"},
		{name: "Patch on text only", prev: "1.2.3", changes: none, expected: "1.2.4"},
		{name: "Minor resets patch", prev: "1.2.3", changes: added, expected: "1.3.0"},
		{name: "Major resets minor and patch", prev: "3.4.5", changes: removed, expected: "4.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := NextVersion(tt.prev, tt.changes)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, next)
		})
	}
}

func TestNextVersionMalformedPrevious(t *testing.T) {
	_, err := NextVersion("one.two", TemplateChanges{})
	assert.True(t, IsValidation(err))
}

func TestBreakingDominatesAdditions(t *testing.T) {
	changes := TemplateChanges{
		ParameterChanges: ParameterChanges{
			Added:    []string{"x", "y"},
			Removed:  []string{"z"},
			Modified: []string{"w"},
		},
		BreakingChanges: true,
	}
	next, err := NextVersion("2.5.9", changes)
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", next)
}

func TestNextVersionIsMonotonic(t *testing.T) {
	reports := []TemplateChanges{
		DiffContent("{{a}}", "{{a}} {{b}}"),
		DiffContent("{{a}} {{b}}", "{{a}}"),
		DiffContent("{{a}}", "{{a:x}}"),
		DiffContent("x {{a}}", "y {{a}}"),
	}
	for _, prev := range []string{"0.0.0", "1.0.0", "1.9.9", "10.0.42"} {
		pv, err := ParseVersion(prev)
		require.NoError(t, err)
		for _, r := range reports {
			next, err := NextVersion(prev, r)
			require.NoError(t, err)
			nv, err := ParseVersion(next)
			require.NoError(t, err)
			assert.True(t, pv.Less(nv), "%s -> %s", prev, next)
		}
	}

	maxInt := strconv.Itoa(math.MaxInt)
	overflows := []struct {
		prev    string
		changes TemplateChanges
	}{
		{maxInt + ".0.0", reports[1]},
		{"1." + maxInt + ".0", reports[0]},
		{"1.2." + maxInt, reports[3]},
	}
	for _, tt := range overflows {
		_, err := NextVersion(tt.prev, tt.changes)
		assert.True(t, IsValidation(err), "%s: %v", tt.prev, err)
	}

	next, err := NextVersion(maxInt+".0.0", reports[0])
	require.NoError(t, err)
	assert.Equal(t, maxInt+".1.0", next)
}

func TestVersionCompare(t *testing.T) {
	a := Version{1, 2, 3}
	assert.Equal(t, 0, a.Compare(Version{1, 2, 3}))
	assert.Equal(t, -1, a.Compare(Version{1, 10, 0}))
	assert.Equal(t, 1, a.Compare(Version{0, 99, 99}))
	assert.Equal(t, 1, a.Compare(Version{1, 2, 2}))
	assert.Equal(t, 1, Version{Major: math.MaxInt}.Compare(Version{Major: math.MinInt}))
}
