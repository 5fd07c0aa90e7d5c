// Package match holds the live single-innings snapshot a prediction is made from.
package match

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Innings limits.
const (
	MinOvers       = 5.0
	MaxOvers       = 20.0
	BallsPerOver   = 6
	WicketsPerSide = 10
)

// Teams lists the franchises offered by the input form, sorted.
var Teams = []string{
	"Chennai Super Kings",
	"Delhi Daredevils",
	"Gujarat Titans",
	"Kings XI Punjab",
	"Kolkata Knight Riders",
	"Mumbai Indians",
	"Rajasthan Royals",
	"Royal Challengers Bangalore",
	"Sunrisers Hyderabad",
}

// Cities lists the venues offered by the input form, sorted.
var Cities = []string{
	"Ahmedabad",
	"Bangalore",
	"Chennai",
	"Delhi",
	"Hyderabad",
	"Indore",
	"Jaipur",
	"Kolkata",
	"Mumbai",
	"Pune",
	"Rajkot",
}

// State is the raw match snapshot collected by the input form.
//
// Team and city names are not restricted to Teams and Cities here: the form
// offers those choices, and names the model has never seen are handled by
// the predictor rather than rejected.
type State struct {
	BattingTeam    string  `json:"batting_team" validate:"required"`
	BowlingTeam    string  `json:"bowling_team" validate:"required"`
	City           string  `json:"city" validate:"required"`
	OversCompleted float64 `json:"overs" validate:"gte=5,lte=20"`
	RunsScored     int     `json:"runs" validate:"gte=0"`
	WicketsLost    int     `json:"wickets" validate:"gte=0,lte=10"`
	TargetScore    int     `json:"target" validate:"gtfield=RunsScored"`
	RunsLast5      int     `json:"runs_last_5" validate:"gte=0"`
	WicketsLast5   int     `json:"wickets_last_5" validate:"gte=0,lte=10"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldNames maps struct fields to the names used on the wire.
var fieldNames = map[string]string{
	"BattingTeam":    "batting_team",
	"BowlingTeam":    "bowling_team",
	"City":           "city",
	"OversCompleted": "overs",
	"RunsScored":     "runs",
	"WicketsLost":    "wickets",
	"TargetScore":    "target",
	"RunsLast5":      "runs_last_5",
	"WicketsLast5":   "wickets_last_5",
}

// Normalized returns a copy of s with surrounding whitespace removed from
// the team and city names.
func (s State) Normalized() State {
	s.BattingTeam = strings.TrimSpace(s.BattingTeam)
	s.BowlingTeam = strings.TrimSpace(s.BowlingTeam)
	s.City = strings.TrimSpace(s.City)
	return s
}

// Validate checks the snapshot before any feature is derived. It returns a
// *ValidationError listing every offending field; the overs check is always
// reported first.
func (s State) Validate() error {
	err := validate.Struct(s.Normalized())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		name := fieldNames[fe.StructField()]
		out.Fields = append(out.Fields, FieldError{Field: name, Reason: reason(fe, name)})
	}
	slices.SortStableFunc(out.Fields, func(a, b FieldError) int {
		switch {
		case a.Field == "overs" && b.Field != "overs":
			return -1
		case b.Field == "overs" && a.Field != "overs":
			return 1
		}
		return 0
	})
	return out
}

func reason(fe validator.FieldError, name string) string {
	switch name {
	case "overs":
		if fe.Tag() == "gte" {
			return fmt.Sprintf("overs must be greater than or equal to %.0f", MinOvers)
		}
		return fmt.Sprintf("overs must not exceed %.0f", MaxOvers)
	case "target":
		return "target must exceed runs scored"
	}
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}
