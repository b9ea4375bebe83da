package versioning

import (
	"fmt"
	"regexp"

	"promptversioning-backend/internal/models"
)

type ParameterStatus string

const (
	ParameterValid   ParameterStatus = "valid"
	ParameterInvalid ParameterStatus = "invalid"
	ParameterMissing ParameterStatus = "missing"
)

// ParameterValidation is the verdict for one changed parameter.
type ParameterValidation struct {
	Parameter  string          `json:"parameter"`
	Status     ParameterStatus `json:"status"`
	Suggestion string          `json:"suggestion,omitempty"`
}

// ContentValidation is always reported valid: only parameter names are
// checked, template syntax and semantics are not.
type ContentValidation struct {
	SyntaxValid    bool     `json:"syntax_valid"`
	SemanticsValid bool     `json:"semantics_valid"`
	Issues         []string `json:"issues"`
}

type Validation struct {
	IsValid             bool                  `json:"is_valid"`
	ParameterValidation []ParameterValidation `json:"parameter_validation"`
	ContentValidation   ContentValidation     `json:"content_validation"`
}

type ProposedUpdate struct {
	FromVersion      string           `json:"from_version"`
	ToVersion        string           `json:"to_version"`
	ParameterChanges ParameterChanges `json:"parameter_changes"`
	ContentChanges   string           `json:"content_changes"`
}

// UpdateValidation is the verdict for moving from one template version to another.
type UpdateValidation struct {
	// PromptID carries the template id the validation was run for.
	PromptID       string          `json:"prompt_id"`
	ProposedUpdate ProposedUpdate  `json:"proposed_update"`
	Validation     Validation      `json:"validation"`
	Changes        TemplateChanges `json:"-"`
}

var (
	parameterFormat     = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	parameterNamingRule = regexp.MustCompile(`^[a-z][A-Za-z0-9]*$`)
)

// IsValidParameterName reports whether name is a camelCase identifier.
func IsValidParameterName(name string) bool {
	return parameterNamingRule.MatchString(name)
}

// ValidateParameterName checks the generic format first, then the camelCase
// naming convention. The format accepts underscores but the extractor ends a
// name at the first one ({{My_Param}} yields "My"), so only names supplied
// directly, such as request keys, can fail on the camelCase rule for an
// underscore.
func ValidateParameterName(name string) ParameterValidation {
	if !parameterFormat.MatchString(name) {
		return ParameterValidation{
			Parameter:  name,
			Status:     ParameterInvalid,
			Suggestion: fmt.Sprintf("Parameter name %q must start with a letter and contain only letters, digits or underscores", name),
		}
	}
	if !IsValidParameterName(name) {
		return ParameterValidation{
			Parameter:  name,
			Status:     ParameterInvalid,
			Suggestion: fmt.Sprintf("Parameter name %q should be camelCase (lowercase first letter, letters and digits only)", name),
		}
	}
	return ParameterValidation{Parameter: name, Status: ParameterValid}
}

// ValidateUpdate checks whether content written against from is still usable
// against to. Both snapshots must belong to templateID; lookups are the
// caller's job.
func ValidateUpdate(templateID string, from, to *models.TemplateVersion) UpdateValidation {
	changes := DiffContent(from.Content, to.Content)
	pc := changes.ParameterChanges

	params := make([]ParameterValidation, 0, len(pc.Removed)+len(pc.Added)+len(pc.Modified))
	for _, name := range pc.Removed {
		params = append(params, ParameterValidation{
			Parameter:  name,
			Status:     ParameterMissing,
			Suggestion: fmt.Sprintf("Parameter %q was removed in %s; stop supplying it or move its value into another parameter", name, to.Version),
		})
	}
	for _, name := range pc.Added {
		params = append(params, ParameterValidation{
			Parameter:  name,
			Status:     ParameterInvalid,
			Suggestion: fmt.Sprintf("Provide a value for new parameter %q before using %s", name, to.Version),
		})
	}
	for _, name := range pc.Modified {
		params = append(params, ValidateParameterName(name))
	}

	return UpdateValidation{
		PromptID: templateID,
		ProposedUpdate: ProposedUpdate{
			FromVersion:      from.Version,
			ToVersion:        to.Version,
			ParameterChanges: pc,
			ContentChanges:   changes.ContentDiff,
		},
		Validation: Validation{
			IsValid:             !changes.BreakingChanges,
			ParameterValidation: params,
			ContentValidation: ContentValidation{
				SyntaxValid:    true,
				SemanticsValid: true,
				Issues:         []string{},
			},
		},
		Changes: changes,
	}
}
