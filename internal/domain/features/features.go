// Package features derives the numeric chase features the regression model
// consumes from a validated match snapshot.
package features

import (
	"math"

	"github.com/okian/scorecast/internal/domain/match"
)

// Derived holds the features computed from a match.State.
type Derived struct {
	BallsLeft       int     `json:"balls_left"`
	RunsLeft        int     `json:"runs_left"`
	WicketsLeft     int     `json:"wickets_left"`
	CurrentRunRate  float64 `json:"crr"`
	RequiredRunRate float64 `json:"rrr"`
}

// Derive computes the chase features for s. It is pure and expects s to have
// passed match.State.Validate; in particular OversCompleted must be at least
// match.MinOvers, which keeps the run-rate division well defined.
//
// With no deliveries left the required rate is 0.
func Derive(s match.State) Derived {
	remaining := (match.MaxOvers - s.OversCompleted) * match.BallsPerOver
	d := Derived{
		BallsLeft:      int(math.Round(remaining)),
		RunsLeft:       s.TargetScore - s.RunsScored,
		WicketsLeft:    match.WicketsPerSide - s.WicketsLost,
		CurrentRunRate: float64(s.RunsScored) / s.OversCompleted,
	}
	if d.BallsLeft > 0 {
		d.RequiredRunRate = float64(d.RunsLeft) / (float64(d.BallsLeft) / match.BallsPerOver)
	}
	return d
}
