package match

import (
	"errors"
	"strings"
)

// ErrInvalidState is the kind shared by every rejected snapshot.
var ErrInvalidState = errors.New("invalid match state")

// FieldError describes a single rejected field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned when a snapshot fails validation. No features
// are derived for a rejected snapshot.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	reasons := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		reasons[i] = f.Reason
	}
	return ErrInvalidState.Error() + ": " + strings.Join(reasons, "; ")
}

// Is reports ErrInvalidState so callers can match with errors.Is.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidState
}
