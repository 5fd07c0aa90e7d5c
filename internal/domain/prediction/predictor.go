// Package prediction turns a validated match snapshot and its derived
// features into a final-score prediction.
package prediction

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/scorecast/internal/domain/features"
	"github.com/okian/scorecast/internal/domain/match"
)

// maxScore bounds raw model output before the integer conversion.
const maxScore = 1 << 31

// Model is the loaded regression estimator.
type Model interface {
	// Predict scores a batch of rows, returning one value per row.
	Predict(ctx context.Context, rows []Record) ([]float64, error)
}

// Result is a successful prediction.
type Result struct {
	// Score is the model output truncated toward zero.
	Score int
	// Raw is the untruncated model output.
	Raw      float64
	Record   Record
	Warnings []Warning
}

// ScorePredictor invokes a shared, read-only Model. It holds no per-request
// state and is safe for concurrent use.
type ScorePredictor struct {
	model Model
}

// NewScorePredictor creates a predictor backed by model.
func NewScorePredictor(model Model) *ScorePredictor {
	return &ScorePredictor{model: model}
}

// Predict substitutes unknown teams, builds the model row and runs inference
// on a one-row batch. Warnings are returned with the result, and also on
// failure so that callers can still show them. Any model failure is returned
// as *InferenceError.
func (p *ScorePredictor) Predict(ctx context.Context, s match.State, d features.Derived, vocab Vocabulary) (Result, error) {
	var warnings []Warning
	batting, w := resolveTeam("batting_team", s.BattingTeam, vocab)
	if w != nil {
		warnings = append(warnings, *w)
	}
	bowling, w := resolveTeam("bowling_team", s.BowlingTeam, vocab)
	if w != nil {
		warnings = append(warnings, *w)
	}

	rec := NewRecord(s, d)
	rec.BattingTeam = batting
	rec.BowlingTeam = bowling

	raw, err := p.infer(ctx, rec)
	if err != nil {
		return Result{Record: rec, Warnings: warnings}, err
	}
	return Result{
		Score:    int(raw),
		Raw:      raw,
		Record:   rec,
		Warnings: warnings,
	}, nil
}

func (p *ScorePredictor) infer(ctx context.Context, rec Record) (score float64, err error) {
	if p.model == nil {
		return 0, &InferenceError{Err: ErrNoModel}
	}
	defer func() {
		if r := recover(); r != nil {
			score, err = 0, &InferenceError{Err: fmt.Errorf("model panicked: %v", r)}
		}
	}()

	out, err := p.model.Predict(ctx, []Record{rec})
	if err != nil {
		return 0, &InferenceError{Err: err}
	}
	if len(out) == 0 {
		return 0, &InferenceError{Err: ErrEmptyBatch}
	}
	v := out[0]
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= maxScore {
		return 0, &InferenceError{Err: fmt.Errorf("%w: %v", ErrBadScore, v)}
	}
	return v, nil
}
