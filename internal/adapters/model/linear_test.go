package model_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/okian/scorecast/internal/adapters/model"
	"github.com/okian/scorecast/internal/domain/features"
	"github.com/okian/scorecast/internal/domain/match"
	"github.com/okian/scorecast/internal/domain/prediction"
	. "github.com/smartystreets/goconvey/convey"
)

func scenarioA() prediction.Record {
	s := match.State{
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
	return prediction.NewRecord(s, features.Derive(s))
}

// repoRoot resolves paths relative to the module root.
func repoRoot() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..")
}

const fixture = "testdata/linear.yaml"

func TestLoad(t *testing.T) {
	Convey("Given the fixture artifact", t, func() {
		ctx := context.Background()
		m, err := model.Load(ctx, fixture)
		So(err, ShouldBeNil)

		Convey("Then its metadata is exposed", func() {
			info := m.Info()
			So(info.Name, ShouldEqual, "fixture")
			So(info.Version, ShouldEqual, "1")
			So(info.Target, ShouldEqual, "final_score")
			So(info.Features, ShouldResemble, prediction.Columns)
		})

		Convey("Then the fitted categories are exposed per column", func() {
			So(m.KnownCategories("batting_team"), ShouldResemble, []string{"Chennai Super Kings", "Mumbai Indians"})
			So(m.KnownCategories("city"), ShouldResemble, []string{"Mumbai", "Chennai"})
			So(m.KnownCategories("runs"), ShouldBeNil)
			So(m.KnownCategories("venue"), ShouldBeNil)
		})

		Convey("And the returned categories are a copy", func() {
			cats := m.KnownCategories("batting_team")
			cats[0] = "changed"
			So(m.KnownCategories("batting_team")[0], ShouldEqual, "Chennai Super Kings")
		})
	})

	Convey("Given the shipped artifact", t, func() {
		m, err := model.Load(context.Background(), filepath.Join(repoRoot(), "models", "ipl_score.yaml"))

		Convey("Then it loads and knows every team the form offers", func() {
			So(err, ShouldBeNil)
			So(m.Info().Features, ShouldResemble, prediction.Columns)
			vocab := prediction.NewVocabulary(m.KnownCategories("batting_team"))
			for _, team := range match.Teams {
				So(vocab.Contains(team), ShouldBeTrue)
			}
			So(m.KnownCategories("city"), ShouldResemble, match.Cities)
		})

		Convey("And it predicts a plausible total for a mid-innings chase", func() {
			out, err := m.Predict(context.Background(), []prediction.Record{scenarioA()})
			So(err, ShouldBeNil)
			So(out[0], ShouldBeBetween, 100.0, 250.0)
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := model.Load(context.Background(), "testdata/missing.yaml")

		Convey("Then loading fails", func() {
			So(errors.Is(err, model.ErrLoadModel), ShouldBeTrue)
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := model.Load(ctx, fixture)
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}

func TestParse_Invalid(t *testing.T) {
	base := `
kind: linear
features: [a, b]
categorical:
  - {name: a, categories: [x, y], weights: [1, 2]}
numeric:
  - {name: b, weight: 1}
`
	Convey("Given a minimal valid artifact", t, func() {
		_, err := model.Parse([]byte(base))
		So(err, ShouldBeNil)
	})

	cases := []struct {
		name string
		doc  string
		want error
	}{
		{"unknown kind", strings.Replace(base, "kind: linear", "kind: forest", 1), model.ErrInvalidModel},
		{"missing kind", strings.Replace(base, "kind: linear", "", 1), model.ErrInvalidModel},
		{"no features", strings.Replace(base, "features: [a, b]", "features: []", 1), model.ErrInvalidModel},
		{"weights length", strings.Replace(base, "weights: [1, 2]", "weights: [1]", 1), model.ErrInvalidModel},
		{"repeated category", strings.Replace(base, "[x, y]", "[x, x]", 1), model.ErrInvalidModel},
		{"duplicate feature", strings.Replace(base, "features: [a, b]", "features: [a, b, a]", 1), model.ErrInvalidModel},
		{"uncovered feature", strings.Replace(base, "features: [a, b]", "features: [a, b, c]", 1), model.ErrInvalidModel},
		{"unlisted column", strings.Replace(base, "features: [a, b]", "features: [a]", 1), model.ErrInvalidModel},
		{"column twice", base + "  - {name: a, weight: 1}\n", model.ErrInvalidModel},
		{"negative scale", strings.Replace(base, "{name: b, weight: 1}", "{name: b, weight: 1, scale: -1}", 1), model.ErrInvalidModel},
		{"nan weight", strings.Replace(base, "{name: b, weight: 1}", "{name: b, weight: .nan}", 1), model.ErrInvalidModel},
		{"unknown key", base + "bias: 3\n", model.ErrLoadModel},
		{"broken yaml", "kind: [", model.ErrLoadModel},
		{"empty document", "", model.ErrLoadModel},
	}

	Convey("Given invalid artifacts", t, func() {
		for _, tc := range cases {
			Convey("When the artifact has "+tc.name, func() {
				_, err := model.Parse([]byte(tc.doc))
				So(errors.Is(err, tc.want), ShouldBeTrue)
			})
		}
	})
}

func TestLinear_Predict(t *testing.T) {
	Convey("Given the fixture artifact", t, func() {
		ctx := context.Background()
		m, err := model.Load(ctx, fixture)
		So(err, ShouldBeNil)

		Convey("When predicting a known row", func() {
			out, err := m.Predict(ctx, []prediction.Record{scenarioA()})

			Convey("Then it is the intercept plus the weighted row", func() {
				So(err, ShouldBeNil)
				// 10 + 4 - 1 + 0.5 + 60 - 4 + 60 + 4
				So(out, ShouldResemble, []float64{133.5})
			})
		})

		Convey("When a team is outside the fitted categories", func() {
			rec := scenarioA()
			rec.BattingTeam = prediction.UnknownTeam
			out, err := m.Predict(ctx, []prediction.Record{rec})

			Convey("Then the column contributes nothing", func() {
				So(err, ShouldBeNil)
				So(out[0], ShouldEqual, 129.5)
			})
		})

		Convey("When predicting a batch", func() {
			a := scenarioA()
			b := scenarioA()
			b.Runs = 70
			out, err := m.Predict(ctx, []prediction.Record{a, b})
			So(err, ShouldBeNil)
			So(out, ShouldResemble, []float64{133.5, 143.5})
		})

		Convey("When predicting an empty batch", func() {
			out, err := m.Predict(ctx, nil)
			So(err, ShouldBeNil)
			So(out, ShouldBeEmpty)
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := m.Predict(cctx, []prediction.Record{scenarioA()})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})

	Convey("Given an artifact fitted on a different column order", t, func() {
		doc := strings.Replace(mustRead(fixture), "features: [batting_team, bowling_team, city,", "features: [bowling_team, batting_team, city,", 1)
		m, err := model.Parse([]byte(doc))
		So(err, ShouldBeNil)

		Convey("Then predicting reports a schema mismatch", func() {
			_, err := m.Predict(context.Background(), []prediction.Record{scenarioA()})
			So(errors.Is(err, model.ErrSchemaMismatch), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, `column 0 is "batting_team", expected "bowling_team"`)
		})
	})

	Convey("Given an artifact with fewer columns", t, func() {
		doc := `
kind: linear
features: [batting_team]
categorical:
  - {name: batting_team, categories: [Mumbai Indians], weights: [1]}
`
		m, err := model.Parse([]byte(doc))
		So(err, ShouldBeNil)

		Convey("Then predicting reports a schema mismatch", func() {
			_, err := m.Predict(context.Background(), []prediction.Record{scenarioA()})
			So(errors.Is(err, model.ErrSchemaMismatch), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "expected 1 columns, got 13")
		})
	})

	Convey("Given an artifact that treats city as numeric", t, func() {
		doc := strings.Replace(mustRead(fixture), "  - name: city\n    categories: [Mumbai, Chennai]\n    weights: [0.5, 0]\n", "", 1)
		doc = strings.Replace(doc, "numeric:\n", "numeric:\n  - {name: city, weight: 1}\n", 1)
		m, err := model.Parse([]byte(doc))
		So(err, ShouldBeNil)

		Convey("Then predicting reports a type mismatch", func() {
			_, err := m.Predict(context.Background(), []prediction.Record{scenarioA()})
			So(errors.Is(err, model.ErrSchemaMismatch), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, `column "city" has the wrong type`)
		})
	})

	Convey("Given an artifact with standardised numeric columns", t, func() {
		doc := `
kind: linear
intercept: 100
features: [batting_team, bowling_team, city, overs, runs, wickets, runs_left, balls_left, crr, rrr, total_runs_x, runs_last_5, wickets_last_5]
categorical:
  - {name: batting_team, categories: [], weights: []}
  - {name: bowling_team, categories: [], weights: []}
  - {name: city, categories: [], weights: []}
numeric:
  - {name: overs, weight: 0}
  - {name: runs, weight: 0}
  - {name: wickets, weight: 0}
  - {name: runs_left, weight: 0}
  - {name: balls_left, weight: 0}
  - {name: crr, weight: 4, mean: 7, scale: 2}
  - {name: rrr, weight: 0}
  - {name: total_runs_x, weight: 0}
  - {name: runs_last_5, weight: 1, mean: 30}
  - {name: wickets_last_5, weight: 0}
`
		m, err := model.Parse([]byte(doc))
		So(err, ShouldBeNil)

		Convey("Then each value is centred and scaled before weighting", func() {
			out, err := m.Predict(context.Background(), []prediction.Record{scenarioA()})
			So(err, ShouldBeNil)
			// 100 + 4*(6-7)/2 + 1*(40-30)
			So(out[0], ShouldEqual, 108)
		})
	})
}

func mustRead(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	return string(b)
}
