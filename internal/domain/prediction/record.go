package prediction

import (
	"github.com/okian/scorecast/internal/domain/features"
	"github.com/okian/scorecast/internal/domain/match"
)

// Columns is the exact column order the model was trained on.
var Columns = []string{
	"batting_team",
	"bowling_team",
	"city",
	"overs",
	"runs",
	"wickets",
	"runs_left",
	"balls_left",
	"crr",
	"rrr",
	"total_runs_x",
	"runs_last_5",
	"wickets_last_5",
}

// Record is the single model input row built for one prediction request.
type Record struct {
	BattingTeam  string  `json:"batting_team"`
	BowlingTeam  string  `json:"bowling_team"`
	City         string  `json:"city"`
	Overs        float64 `json:"overs"`
	Runs         int     `json:"runs"`
	Wickets      int     `json:"wickets"`
	RunsLeft     int     `json:"runs_left"`
	BallsLeft    int     `json:"balls_left"`
	CRR          float64 `json:"crr"`
	RRR          float64 `json:"rrr"`
	TotalRunsX   int     `json:"total_runs_x"`
	RunsLast5    int     `json:"runs_last_5"`
	WicketsLast5 int     `json:"wickets_last_5"`
}

// Cell is one named value of a row. Categorical cells carry Text, the rest
// carry Number.
type Cell struct {
	Name        string
	Categorical bool
	Text        string
	Number      float64
}

// NewRecord lays out s and d as a model row. Team names are taken from s
// as is; substitution happens in the predictor.
func NewRecord(s match.State, d features.Derived) Record {
	return Record{
		BattingTeam:  s.BattingTeam,
		BowlingTeam:  s.BowlingTeam,
		City:         s.City,
		Overs:        s.OversCompleted,
		Runs:         s.RunsScored,
		Wickets:      s.WicketsLost,
		RunsLeft:     d.RunsLeft,
		BallsLeft:    d.BallsLeft,
		CRR:          d.CurrentRunRate,
		RRR:          d.RequiredRunRate,
		TotalRunsX:   s.TargetScore,
		RunsLast5:    s.RunsLast5,
		WicketsLast5: s.WicketsLast5,
	}
}

// Row returns the record's cells in Columns order.
func (r Record) Row() []Cell {
	return []Cell{
		text("batting_team", r.BattingTeam),
		text("bowling_team", r.BowlingTeam),
		text("city", r.City),
		number("overs", r.Overs),
		number("runs", float64(r.Runs)),
		number("wickets", float64(r.Wickets)),
		number("runs_left", float64(r.RunsLeft)),
		number("balls_left", float64(r.BallsLeft)),
		number("crr", r.CRR),
		number("rrr", r.RRR),
		number("total_runs_x", float64(r.TotalRunsX)),
		number("runs_last_5", float64(r.RunsLast5)),
		number("wickets_last_5", float64(r.WicketsLast5)),
	}
}

func text(name, v string) Cell           { return Cell{Name: name, Categorical: true, Text: v} }
func number(name string, v float64) Cell { return Cell{Name: name, Number: v} }
