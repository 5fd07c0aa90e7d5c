package service

import (
	"errors"
)

// Sentinel errors returned by the service.
var (
	ErrNotStarted         = errors.New("service not started")
	ErrNoModel            = errors.New("no model configured")
	ErrPredictionNotFound = errors.New("prediction not found")
)
