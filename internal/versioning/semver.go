package versioning

import (
	"fmt"
	"strconv"
	"strings"
)

// InitialVersion is the version of every newly created template.
const InitialVersion = "1.0.0"

// Version is a MAJOR.MINOR.PATCH semantic version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses "MAJOR.MINOR.PATCH" where each part is a non-negative
// integer. Anything else is a ValidationError.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, &ValidationError{Field: "version", Message: fmt.Sprintf("%q is not MAJOR.MINOR.PATCH", s)}
	}
	var nums [3]int
	for i, p := range parts {
		if p == "" || strings.TrimLeft(p, "0123456789") != "" {
			return Version{}, &ValidationError{Field: "version", Message: fmt.Sprintf("%q has a non-numeric component", s)}
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, &ValidationError{Field: "version", Message: fmt.Sprintf("%q: %v", s, err)}
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 under semver precedence.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpInt(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpInt(v.Minor, o.Minor)
	default:
		return cmpInt(v.Patch, o.Patch)
	}
}

func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// Bump applies the version policy: breaking changes dominate, then added
// parameters, then everything else.
func (v Version) Bump(changes TemplateChanges) Version {
	switch {
	case changes.BreakingChanges:
		return Version{Major: v.Major + 1}
	case len(changes.ParameterChanges.Added) > 0:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}

// NextVersion derives the version that follows prev for the given changes.
// A component that cannot be incremented without overflowing is a
// ValidationError.
func NextVersion(prev string, changes TemplateChanges) (string, error) {
	v, err := ParseVersion(prev)
	if err != nil {
		return "", err
	}
	next := v.Bump(changes)
	if !v.Less(next) {
		return "", &ValidationError{Field: "version", Message: fmt.Sprintf("%q cannot be incremented further", prev)}
	}
	return next.String(), nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
