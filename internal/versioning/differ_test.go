package versioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffContentAddedParameter(t *testing.T) {
	changes := DiffContent("Hello {{name}}", "Hello {{name}}, welcome to {{place}}")

	assert.Equal(t, []string{"place"}, changes.ParameterChanges.Added)
	assert.Empty(t, changes.ParameterChanges.Removed)
	assert.Empty(t, changes.ParameterChanges.Modified)
	assert.False(t, changes.BreakingChanges)
	assert.Equal(t, "Hello {{name}}, welcome to {{place}}", changes.ContentDiff)
}

func TestDiffContentRemovedParameter(t *testing.T) {
	changes := DiffContent("{{a}} and {{b}}", "{{a}} only")

	assert.Equal(t, []string{"b"}, changes.ParameterChanges.Removed)
	assert.Empty(t, changes.ParameterChanges.Added)
	assert.True(t, changes.BreakingChanges)
}

func TestDiffContentModifiedUsage(t *testing.T) {
	changes := DiffContent("{{count}}", "{{count:currency}}")

	assert.Equal(t, []string{"count"}, changes.ParameterChanges.Modified)
	assert.Empty(t, changes.ParameterChanges.Added)
	assert.Empty(t, changes.ParameterChanges.Removed)
	assert.True(t, changes.BreakingChanges)
}

func TestDiffContentAgainstItself(t *testing.T) {
	contents := []string{
		"",
		"no params",
		"Hello {{name}}",
		"{{a}} {{b:fmt}} {{a}}\nsecond line {{c|upper}}",
	}
	for _, c := range contents {
		changes := DiffContent(c, c)
		assert.True(t, changes.ParameterChanges.Empty(), c)
		assert.False(t, changes.BreakingChanges, c)
		assert.Equal(t, LineStats{}, changes.LineStats, c)
	}
}

func TestDiffContentAddAndRemoveIsBreaking(t *testing.T) {
	changes := DiffContent("{{a}} {{b}}", "{{a}} {{c}}")

	assert.Equal(t, []string{"c"}, changes.ParameterChanges.Added)
	assert.Equal(t, []string{"b"}, changes.ParameterChanges.Removed)
	assert.True(t, changes.BreakingChanges)
}

func TestDiffContentReportsEachNameOnce(t *testing.T) {
	changes := DiffContent("{{a}}", "{{a}} {{b}} {{b}} {{c}}")
	assert.Equal(t, []string{"b", "c"}, changes.ParameterChanges.Added)
}

func TestDiffContentOnlyFirstUsageCounts(t *testing.T) {
	// The first reference is unchanged, so a differently formatted later
	// reference does not mark the parameter as modified.
	changes := DiffContent("{{a}}", "{{a}} and {{a:upper}}")
	assert.Empty(t, changes.ParameterChanges.Modified)
	assert.False(t, changes.BreakingChanges)
}

func TestDiffContentTextOnlyChange(t *testing.T) {
	changes := DiffContent("Hello {{name}}", "Hi there {{name}}")
	assert.True(t, changes.ParameterChanges.Empty())
	assert.False(t, changes.BreakingChanges)
}

func TestDiffContentLineStats(t *testing.T) {
	changes := DiffContent("line one\nline two\n", "line one\nline 2\nline three\n")
	assert.Equal(t, 2, changes.LineStats.Insertions)
	assert.Equal(t, 1, changes.LineStats.Deletions)
}
