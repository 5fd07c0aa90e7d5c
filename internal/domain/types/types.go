// Package types contains the read shapes shared by the service and the HTTP API.
package types

import (
	"time"

	"github.com/okian/scorecast/internal/domain/features"
	"github.com/okian/scorecast/internal/domain/match"
	"github.com/okian/scorecast/internal/domain/prediction"
)

// Prediction is a completed prediction as shown to the user.
type Prediction struct {
	ID        string               `json:"id"`
	Score     int                  `json:"score"`
	Warnings  []prediction.Warning `json:"warnings"`
	Messages  []string             `json:"messages"`
	State     match.State          `json:"state"`
	Features  features.Derived     `json:"features"`
	Record    prediction.Record    `json:"record"`
	CreatedAt time.Time            `json:"created_at"`
}

// Choices lists the values the input form offers plus the teams the loaded
// model knows.
type Choices struct {
	Teams      []string `json:"teams"`
	Cities     []string `json:"cities"`
	KnownTeams []string `json:"known_teams"`
	MinOvers   float64  `json:"min_overs"`
	MaxOvers   float64  `json:"max_overs"`
}
