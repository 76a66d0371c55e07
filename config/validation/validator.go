package validation

import (
	"errors"
	"fmt"
	"strings"

	"cccm/internal/utils"
)

// Sentinel validation failures, matched with errors.Is
var (
	ErrMissingField  = errors.New("required field is empty")
	ErrDuplicateName = errors.New("profile name already exists")
)

// FieldError reports which field failed validation
type FieldError struct {
	Field  string
	Reason error
}

func (e *FieldError) Error() string {
	if errors.Is(e.Reason, ErrDuplicateName) {
		return fmt.Sprintf("profile '%s' already exists", e.Field)
	}
	return fmt.Sprintf("%s cannot be empty", e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Reason
}

// Missing returns a MissingField error for field
func Missing(field string) error {
	return &FieldError{Field: field, Reason: ErrMissingField}
}

// Duplicate returns a DuplicateName error for name
func Duplicate(name string) error {
	return &FieldError{Field: name, Reason: ErrDuplicateName}
}

// Validator validates profile form input
type Validator struct {
}

// NewValidator creates a new Validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateProfile checks the required fields of an add or edit request.
// Values are expected to be trimmed already.
func (v *Validator) ValidateProfile(name, baseURL, apiKey string) error {
	if name == "" {
		return Missing("name")
	}
	if baseURL == "" {
		return Missing("baseURL")
	}
	if apiKey == "" {
		return Missing("apiKey")
	}
	return nil
}

// URLWarning returns a human-readable warning when baseURL doesn't look like an
// http(s) URL. It is advisory only; any non-empty value is accepted.
func (v *Validator) URLWarning(baseURL string) string {
	if baseURL == "" || utils.ValidateURL(baseURL) {
		return ""
	}
	return fmt.Sprintf("base URL %q is not an http(s) URL", baseURL)
}

// Normalize trims surrounding whitespace from every form value
func Normalize(values ...*string) {
	for _, v := range values {
		*v = Trimmed(*v)
	}
}

// Trimmed returns value the way it will be stored
func Trimmed(value string) string {
	return strings.TrimSpace(value)
}
