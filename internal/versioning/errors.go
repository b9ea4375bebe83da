package versioning

import (
	"errors"
	"fmt"
)

// AuthenticationError is returned when the caller is not logged in.
type AuthenticationError struct{}

func (e *AuthenticationError) Error() string {
	return "authentication required"
}

// PermissionDeniedError is returned when an authenticated caller lacks the
// grant for an action on a resource.
type PermissionDeniedError struct {
	UserID     string
	Action     string
	Resource   string
	ResourceID string
}

func (e *PermissionDeniedError) Error() string {
	if e.ResourceID == "" {
		return fmt.Sprintf("permission denied: user %q cannot %s %s", e.UserID, e.Action, e.Resource)
	}
	return fmt.Sprintf("permission denied: user %q cannot %s %s %s", e.UserID, e.Action, e.Resource, e.ResourceID)
}

// ValidationError reports malformed input: empty fields, bad version strings,
// edits to deprecated templates.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

const (
	ResourceTemplate        = "template"
	ResourceTemplateVersion = "template_version"
	ResourcePrompt          = "prompt"
)

// NotFoundError is returned for unknown templates, template versions and prompts.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// TransactionError wraps any failure inside a repository transaction. The
// transaction has been rolled back by the time it is returned; Unwrap exposes
// the underlying cause.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %s failed: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsPermissionDenied(err error) bool {
	var pe *PermissionDeniedError
	return errors.As(err, &pe)
}

func IsAuthentication(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}
