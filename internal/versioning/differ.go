package versioning

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ParameterChanges lists parameter names added, removed or referenced
// differently between two contents.
type ParameterChanges struct {
	Added    []string `json:"added"`
	Removed  []string `json:"removed"`
	Modified []string `json:"modified"`
}

// Empty reports whether no parameter changed.
func (p ParameterChanges) Empty() bool {
	return len(p.Added) == 0 && len(p.Removed) == 0 && len(p.Modified) == 0
}

// LineStats counts changed lines between two contents. It is informational and
// plays no part in version or compatibility decisions.
type LineStats struct {
	Insertions int `json:"insertions"`
	Deletions  int `json:"deletions"`
}

// TemplateChanges is the derived change report between two template contents.
type TemplateChanges struct {
	ParameterChanges ParameterChanges `json:"parameter_changes"`
	// ContentDiff is the new content in full; it is authoritative text, not a patch.
	ContentDiff     string    `json:"content_diff"`
	BreakingChanges bool      `json:"breaking_changes"`
	LineStats       LineStats `json:"line_stats"`
}

// DiffContent compares the placeholder usage of two contents.
func DiffContent(oldContent, newContent string) TemplateChanges {
	oldNames := UniqueParameters(oldContent)
	newNames := UniqueParameters(newContent)

	oldSet := toSet(oldNames)
	newSet := toSet(newNames)

	changes := ParameterChanges{
		Added:    []string{},
		Removed:  []string{},
		Modified: []string{},
	}
	for _, n := range newNames {
		if _, ok := oldSet[n]; !ok {
			changes.Added = append(changes.Added, n)
		}
	}
	for _, n := range oldNames {
		if _, ok := newSet[n]; !ok {
			changes.Removed = append(changes.Removed, n)
		}
	}

	oldUsage := firstUsages(oldContent)
	newUsage := firstUsages(newContent)
	for _, n := range oldNames {
		if _, ok := newSet[n]; !ok {
			continue
		}
		if nu := newUsage[n]; nu != "" && nu != oldUsage[n] {
			changes.Modified = append(changes.Modified, n)
		}
	}

	return TemplateChanges{
		ParameterChanges: changes,
		ContentDiff:      newContent,
		BreakingChanges:  isBreaking(changes, oldUsage, newUsage),
		LineStats:        lineStats(oldContent, newContent),
	}
}

// isBreaking: any removal breaks callers, as does any parameter whose
// reference form changed.
func isBreaking(changes ParameterChanges, oldUsage, newUsage map[string]string) bool {
	if len(changes.Removed) > 0 {
		return true
	}
	for _, m := range changes.Modified {
		ou, nu := oldUsage[m], newUsage[m]
		if ou != "" && (nu == "" || ou != nu) {
			return true
		}
	}
	return false
}

func firstUsages(content string) map[string]string {
	out := make(map[string]string)
	for _, u := range ExtractUsages(content) {
		if _, ok := out[u.Name]; !ok {
			out[u.Name] = u.Text
		}
	}
	return out
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func lineStats(oldContent, newContent string) LineStats {
	if oldContent == newContent {
		return LineStats{}
	}
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldContent, newContent)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var stats LineStats
	for _, d := range diffs {
		n := countLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			stats.Insertions += n
		case diffmatchpatch.DiffDelete:
			stats.Deletions += n
		}
	}
	return stats
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
