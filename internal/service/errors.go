package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrForbidden marks operations rejected by policy, such as deleting the
// primary admin or setting a password on an operator account.
var ErrForbidden = errors.New("operation not allowed")

// ErrInvalidCredentials is returned for every failed login, whether the
// username is unknown or the password is wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ValidationError carries field-path messages for malformed input. Handlers
// render it as a structured 400 response.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}
