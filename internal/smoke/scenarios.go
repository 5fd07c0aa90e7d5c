package smoke

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/okian/scorecast/internal/domain/match"
	"github.com/okian/scorecast/internal/domain/types"
)

// Scenario is one request and the checks its response must pass.
type Scenario struct {
	Name   string
	State  match.State
	Status int
	Check  func(body []byte) error
}

type errorBody struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Fields  []match.FieldError `json:"fields"`
}

func baseState() match.State {
	return match.State{
		BattingTeam:    "Mumbai Indians",
		BowlingTeam:    "Chennai Super Kings",
		City:           "Mumbai",
		OversCompleted: 10.0,
		RunsScored:     60,
		WicketsLost:    2,
		TargetScore:    180,
		RunsLast5:      40,
		WicketsLast5:   1,
	}
}

// Scenarios returns the reference scenarios A to E.
func Scenarios() []Scenario {
	b := baseState()
	b.OversCompleted, b.RunsScored, b.WicketsLost, b.TargetScore, b.RunsLast5 = 20.0, 150, 5, 151, 30

	c := baseState()
	c.OversCompleted = 4.9

	d := baseState()
	d.BattingTeam = "Unknown XI"

	e := baseState()
	e.TargetScore = e.RunsScored

	return []Scenario{
		{Name: "A: mid-innings", State: baseState(), Status: http.StatusOK, Check: expectFeatures(120, 60, 6.0, 12.0, nil)},
		{Name: "B: last ball", State: b, Status: http.StatusOK, Check: expectFeatures(1, 0, 7.5, 0, nil)},
		{Name: "C: too few overs", State: c, Status: http.StatusBadRequest, Check: expectValidation("overs", "")},
		{
			Name: "D: unknown batting team", State: d, Status: http.StatusOK,
			Check: expectFeatures(120, 60, 6.0, 12.0, []string{"Unknown team: Unknown XI. Replacing with 'Unknown Team'."}),
		},
		{Name: "E: target equals runs", State: e, Status: http.StatusBadRequest, Check: expectValidation("target", "target must exceed runs scored")},
	}
}

func expectFeatures(runsLeft, ballsLeft int, crr, rrr float64, messages []string) func([]byte) error {
	return func(body []byte) error {
		var p types.Prediction
		if err := json.Unmarshal(body, &p); err != nil {
			return fmt.Errorf("decode prediction: %w", err)
		}
		f := p.Features
		switch {
		case p.ID == "":
			return fmt.Errorf("missing prediction id")
		case f.RunsLeft != runsLeft:
			return fmt.Errorf("runs_left = %d, want %d", f.RunsLeft, runsLeft)
		case f.BallsLeft != ballsLeft:
			return fmt.Errorf("balls_left = %d, want %d", f.BallsLeft, ballsLeft)
		case f.CurrentRunRate != crr:
			return fmt.Errorf("crr = %v, want %v", f.CurrentRunRate, crr)
		case f.RequiredRunRate != rrr:
			return fmt.Errorf("rrr = %v, want %v", f.RequiredRunRate, rrr)
		case !slices.Equal(p.Messages, messages):
			return fmt.Errorf("messages = %q, want %q", p.Messages, messages)
		}
		return nil
	}
}

func expectValidation(field, reason string) func([]byte) error {
	return func(body []byte) error {
		var e errorBody
		if err := json.Unmarshal(body, &e); err != nil {
			return fmt.Errorf("decode error: %w", err)
		}
		if e.Code != "validation_error" {
			return fmt.Errorf("code = %q, want validation_error", e.Code)
		}
		if reason != "" && !strings.Contains(e.Message, reason) {
			return fmt.Errorf("message %q does not mention %q", e.Message, reason)
		}
		for _, f := range e.Fields {
			if f.Field == field {
				return nil
			}
		}
		return fmt.Errorf("no error reported for field %q", field)
	}
}
