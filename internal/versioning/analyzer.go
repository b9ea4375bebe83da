package versioning

import (
	"fmt"

	"promptversioning-backend/internal/models"
)

// CompatibilityStatus classifies how safely a prompt can move to a newer
// template version.
type CompatibilityStatus string

const (
	Compatible     CompatibilityStatus = "compatible"
	RequiresReview CompatibilityStatus = "requires-review"
	Incompatible   CompatibilityStatus = "incompatible"
)

type ActionType string

const (
	ActionParameterRemoval ActionType = "parameter-removal"
	ActionParameterUpdate  ActionType = "parameter-update"
	// ActionVersionReview is suggested when the prompt's bound version is no
	// longer retained and cannot be diffed.
	ActionVersionReview ActionType = "version-review"
)

type SuggestedAction struct {
	Type        ActionType `json:"type"`
	Description string     `json:"description"`
}

type AffectedPrompt struct {
	PromptID            string              `json:"prompt_id"`
	FromVersion         string              `json:"from_version"`
	CompatibilityStatus CompatibilityStatus `json:"compatibility_status"`
	SuggestedActions    []SuggestedAction   `json:"suggested_actions"`
}

type TemplateUpdateNotification struct {
	TemplateID      string           `json:"template_id"`
	TargetVersion   string           `json:"target_version"`
	AffectedPrompts []AffectedPrompt `json:"affected_prompts"`
}

// VersionLookup resolves a version string to its snapshot; ok is false when
// the template no longer retains that version.
type VersionLookup func(version string) (v *models.TemplateVersion, ok bool)

// Classify maps a validation verdict onto a CompatibilityStatus.
func Classify(v UpdateValidation) CompatibilityStatus {
	pc := v.ProposedUpdate.ParameterChanges
	switch {
	case !v.Validation.IsValid:
		return Incompatible
	case len(pc.Added) > 0 || len(pc.Modified) > 0:
		return RequiresReview
	default:
		return Compatible
	}
}

// SuggestActions proposes one remediation per changed parameter.
func SuggestActions(pc ParameterChanges) []SuggestedAction {
	actions := make([]SuggestedAction, 0, len(pc.Removed)+len(pc.Added)+len(pc.Modified))
	for _, name := range pc.Removed {
		actions = append(actions, SuggestedAction{Type: ActionParameterRemoval, Description: "Remove parameter: " + name})
	}
	for _, name := range pc.Added {
		actions = append(actions, SuggestedAction{Type: ActionParameterUpdate, Description: "Add value for new parameter: " + name})
	}
	for _, name := range pc.Modified {
		actions = append(actions, SuggestedAction{Type: ActionParameterUpdate, Description: "Update parameter format: " + name})
	}
	return actions
}

// AnalyzePrompts classifies every prompt bound to templateID against target.
// Prompts are reported in the order given.
func AnalyzePrompts(templateID string, target *models.TemplateVersion, prompts []models.Prompt, lookup VersionLookup) TemplateUpdateNotification {
	affected := make([]AffectedPrompt, 0, len(prompts))
	for _, p := range prompts {
		from, ok := lookup(p.TemplateVersion)
		if !ok {
			affected = append(affected, AffectedPrompt{
				PromptID:            p.ID,
				FromVersion:         p.TemplateVersion,
				CompatibilityStatus: Incompatible,
				SuggestedActions: []SuggestedAction{{
					Type:        ActionVersionReview,
					Description: fmt.Sprintf("Bound version %s is no longer retained; review all parameters against %s", p.TemplateVersion, target.Version),
				}},
			})
			continue
		}

		validation := ValidateUpdate(templateID, from, target)
		affected = append(affected, AffectedPrompt{
			PromptID:            p.ID,
			FromVersion:         p.TemplateVersion,
			CompatibilityStatus: Classify(validation),
			SuggestedActions:    SuggestActions(validation.ProposedUpdate.ParameterChanges),
		})
	}

	return TemplateUpdateNotification{
		TemplateID:      templateID,
		TargetVersion:   target.Version,
		AffectedPrompts: affected,
	}
}
