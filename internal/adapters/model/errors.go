package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrLoadModel      = errors.New("load model failed")
	ErrInvalidModel   = errors.New("invalid model artifact")
	ErrSchemaMismatch = errors.New("feature schema mismatch")
)
