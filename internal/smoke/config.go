// Package smoke drives a running scorecast server through the reference
// match scenarios and a short concurrent load phase.
package smoke

import (
	"errors"
	"time"
)

// ErrFailed is returned by Run when any check did not pass.
var ErrFailed = errors.New("smoke test failed")

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL string        // Base URL of the service
	Timeout time.Duration // HTTP request timeout
	Workers int           // Concurrent requests during the load phase
	Repeat  int           // Predictions posted during the load phase; 0 skips it
	Verbose bool          // Log every response
}

// Stats holds run statistics.
type Stats struct {
	ScenariosPassed int
	ScenariosFailed int
	LookupsPassed   int
	LookupsFailed   int
	LoadRequests    int
	LoadFailed      int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}

// Failed reports whether any check failed.
func (s Stats) Failed() bool {
	return s.ScenariosFailed > 0 || s.LookupsFailed > 0 || s.LoadFailed > 0
}
