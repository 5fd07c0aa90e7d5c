package prediction

import "errors"

// Sentinel kinds for prediction errors.
var (
	ErrInference  = errors.New("inference failed")
	ErrNoModel    = errors.New("no model loaded")
	ErrEmptyBatch = errors.New("model returned no predictions")
	ErrBadScore   = errors.New("model returned an unusable score")
)

// InferenceError wraps any failure raised while invoking the model. It ends
// the current request only; the next prediction is unaffected.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	if e.Err == nil {
		return ErrInference.Error()
	}
	return ErrInference.Error() + ": " + e.Err.Error()
}

func (e *InferenceError) Unwrap() error { return e.Err }

// Is reports ErrInference so callers can match with errors.Is.
func (e *InferenceError) Is(target error) bool { return target == ErrInference }
