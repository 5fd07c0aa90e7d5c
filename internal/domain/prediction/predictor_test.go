package prediction_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/okian/scorecast/internal/domain/features"
	"github.com/okian/scorecast/internal/domain/match"
	"github.com/okian/scorecast/internal/domain/prediction"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeModel records the rows it receives and answers with fn.
type fakeModel struct {
	calls [][]prediction.Record
	fn    func(rows []prediction.Record) ([]float64, error)
}

func (m *fakeModel) Predict(_ context.Context, rows []prediction.Record) ([]float64, error) {
	m.calls = append(m.calls, rows)
	return m.fn(rows)
}

func constant(v float64) func([]prediction.Record) ([]float64, error) {
	return func(rows []prediction.Record) ([]float64, error) {
		out := make([]float64, len(rows))
		for i := range out {
			out[i] = v
		}
		return out, nil
	}
}

func scenarioA() match.State {
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

var vocab = prediction.NewVocabulary(match.Teams)

func TestScorePredictor_Predict(t *testing.T) {
	Convey("Given a predictor over a model", t, func() {
		ctx := context.Background()
		model := &fakeModel{fn: constant(171.9)}
		p := prediction.NewScorePredictor(model)
		s := scenarioA()
		d := features.Derive(s)

		Convey("When both teams are known", func() {
			res, err := p.Predict(ctx, s, d, vocab)

			Convey("Then the score is truncated and no warnings are raised", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 171)
				So(res.Raw, ShouldEqual, 171.9)
				So(res.Warnings, ShouldBeEmpty)
			})

			Convey("And the model saw exactly one row in training order", func() {
				So(len(model.calls), ShouldEqual, 1)
				So(len(model.calls[0]), ShouldEqual, 1)
				rec := model.calls[0][0]
				So(rec, ShouldResemble, prediction.Record{
					BattingTeam:  "Mumbai Indians",
					BowlingTeam:  "Chennai Super Kings",
					City:         "Mumbai",
					Overs:        10.0,
					Runs:         60,
					Wickets:      2,
					RunsLeft:     120,
					BallsLeft:    60,
					CRR:          6.0,
					RRR:          12.0,
					TotalRunsX:   180,
					RunsLast5:    40,
					WicketsLast5: 1,
				})
				names := make([]string, 0, len(prediction.Columns))
				for _, c := range rec.Row() {
					names = append(names, c.Name)
				}
				So(names, ShouldResemble, prediction.Columns)
			})
		})

		Convey("When the batting team is unknown to the model", func() {
			s.BattingTeam = "Unknown XI"
			res, err := p.Predict(ctx, s, features.Derive(s), vocab)

			Convey("Then it is substituted, a warning is raised and the prediction proceeds", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 171)
				So(res.Record.BattingTeam, ShouldEqual, prediction.UnknownTeam)
				So(res.Record.BowlingTeam, ShouldEqual, "Chennai Super Kings")
				So(res.Warnings, ShouldResemble, []prediction.Warning{
					{Field: "batting_team", Value: "Unknown XI", Substitute: "Unknown Team"},
				})
				So(res.Warnings[0].String(), ShouldEqual, "Unknown team: Unknown XI. Replacing with 'Unknown Team'.")
				So(model.calls[0][0].BattingTeam, ShouldEqual, "Unknown Team")
			})
		})

		Convey("When both teams are unknown", func() {
			s.BattingTeam = "Pune Warriors"
			s.BowlingTeam = "Kochi Tuskers Kerala"
			res, err := p.Predict(ctx, s, features.Derive(s), vocab)

			Convey("Then each team is substituted independently", func() {
				So(err, ShouldBeNil)
				So(len(res.Warnings), ShouldEqual, 2)
				So(res.Warnings[0].Field, ShouldEqual, "batting_team")
				So(res.Warnings[1].Field, ShouldEqual, "bowling_team")
				So(res.Record.BowlingTeam, ShouldEqual, prediction.UnknownTeam)
			})
		})

		Convey("When the model predicts a negative fraction", func() {
			model.fn = constant(-3.7)
			res, err := p.Predict(ctx, s, d, vocab)

			Convey("Then the score is truncated toward zero", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, -3)
			})
		})

		Convey("When the model returns an error", func() {
			model.fn = func([]prediction.Record) ([]float64, error) {
				return nil, errors.New("feature shape mismatch")
			}
			s.BowlingTeam = "Unknown XI"
			res, err := p.Predict(ctx, s, features.Derive(s), vocab)

			Convey("Then an inference error carries the underlying message", func() {
				var ierr *prediction.InferenceError
				So(errors.As(err, &ierr), ShouldBeTrue)
				So(errors.Is(err, prediction.ErrInference), ShouldBeTrue)
				So(err.Error(), ShouldEqual, "inference failed: feature shape mismatch")
				So(len(res.Warnings), ShouldEqual, 1)
			})

			Convey("And the next prediction is unaffected", func() {
				model.fn = constant(150)
				res, err := p.Predict(ctx, s, d, vocab)
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 150)
			})
		})

		Convey("When the model panics", func() {
			model.fn = func([]prediction.Record) ([]float64, error) {
				panic("index out of range")
			}
			_, err := p.Predict(ctx, s, d, vocab)

			Convey("Then the panic is reported as an inference error", func() {
				So(errors.Is(err, prediction.ErrInference), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "index out of range")
			})
		})

		Convey("When the model returns no values", func() {
			model.fn = func([]prediction.Record) ([]float64, error) { return nil, nil }
			_, err := p.Predict(ctx, s, d, vocab)
			So(errors.Is(err, prediction.ErrEmptyBatch), ShouldBeTrue)
			So(errors.Is(err, prediction.ErrInference), ShouldBeTrue)
		})

		Convey("When the model returns unusable values", func() {
			for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e12} {
				model.fn = constant(v)
				_, err := p.Predict(ctx, s, d, vocab)
				So(errors.Is(err, prediction.ErrBadScore), ShouldBeTrue)
			}
		})
	})

	Convey("Given a predictor without a model", t, func() {
		p := prediction.NewScorePredictor(nil)
		s := scenarioA()
		_, err := p.Predict(context.Background(), s, features.Derive(s), vocab)

		Convey("Then predicting fails with an inference error", func() {
			So(errors.Is(err, prediction.ErrNoModel), ShouldBeTrue)
			So(errors.Is(err, prediction.ErrInference), ShouldBeTrue)
		})
	})
}

func TestVocabulary(t *testing.T) {
	Convey("Given a vocabulary with duplicates", t, func() {
		v := prediction.NewVocabulary([]string{"Mumbai Indians", "Delhi Daredevils", "Mumbai Indians"})

		Convey("Then names are unique and sorted", func() {
			So(v.Len(), ShouldEqual, 2)
			So(v.Names(), ShouldResemble, []string{"Delhi Daredevils", "Mumbai Indians"})
			So(v.Contains("Mumbai Indians"), ShouldBeTrue)
			So(v.Contains("mumbai indians"), ShouldBeFalse)
		})

		Convey("And Names returns a copy", func() {
			names := v.Names()
			names[0] = "changed"
			So(v.Names()[0], ShouldEqual, "Delhi Daredevils")
		})
	})

	Convey("Given an empty vocabulary", t, func() {
		var v prediction.Vocabulary
		So(v.Contains("Mumbai Indians"), ShouldBeFalse)
		So(v.Len(), ShouldEqual, 0)
	})
}
