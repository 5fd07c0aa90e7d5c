// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	modeladapter "github.com/okian/scorecast/internal/adapters/model"
	"github.com/okian/scorecast/internal/domain/features"
	"github.com/okian/scorecast/internal/domain/history"
	"github.com/okian/scorecast/internal/domain/match"
	"github.com/okian/scorecast/internal/domain/prediction"
	"github.com/okian/scorecast/internal/domain/types"
	"github.com/okian/scorecast/pkg/logger"
	"github.com/okian/scorecast/pkg/metrics"
)

// vocabularyField is the categorical column the team vocabulary is read from.
const vocabularyField = "batting_team"

// Model is the loaded artifact as the service sees it.
type Model interface {
	prediction.Model
	KnownCategories(field string) []string
	Info() modeladapter.Info
}

// Service implements the API dependencies for score prediction.
type Service struct {
	mu sync.RWMutex

	// Core components
	model     Model
	vocab     prediction.Vocabulary
	predictor *prediction.ScorePredictor
	history   history.Store

	// Configuration
	historySize int

	// State
	started   bool
	succeeded atomic.Int64
	rejected  atomic.Int64
	failed    atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithModel sets the loaded model. The model is shared read-only by every request.
func WithModel(m Model) Option {
	return func(s *Service) {
		if m != nil {
			s.model = m
		}
	}
}

// WithHistorySize sets how many predictions are kept for lookup.
// Zero or negative keeps every prediction.
func WithHistorySize(size int) Option {
	return func(s *Service) {
		s.historySize = size
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		historySize: 10_000,
		logger:      nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start extracts the team vocabulary from the model and builds the predictor.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.model == nil {
		return ErrNoModel
	}

	s.logger.Info(ctx, "starting prediction service...")

	info := s.model.Info()
	s.vocab = prediction.NewVocabulary(s.model.KnownCategories(vocabularyField))
	s.predictor = prediction.NewScorePredictor(s.model)
	s.history = history.NewInMemoryStore(history.WithMaxSize(s.historySize))

	metrics.SetModelInfo(info.Name, info.Version, s.vocab.Len())
	metrics.UpdateHistorySize(0)

	s.started = true
	s.logger.Info(ctx, "prediction service started",
		logger.String("model", info.Name),
		logger.String("version", info.Version),
		logger.Int("knownTeams", s.vocab.Len()),
		logger.Int("historySize", s.historySize),
	)

	return nil
}

// Stop marks the service stopped. Predictions kept in history are dropped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.history = nil
	s.started = false
	s.logger.Info(context.Background(), "prediction service stopped")
}

func (s *Service) components() (*prediction.ScorePredictor, prediction.Vocabulary, history.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, prediction.Vocabulary{}, nil, ErrNotStarted
	}
	return s.predictor, s.vocab, s.history, nil
}

// Predict validates the snapshot, derives features and runs the model.
// A rejected snapshot returns *match.ValidationError and no features are
// derived. A model failure returns *prediction.InferenceError together with
// any substitution warnings that were made before inference.
func (s *Service) Predict(ctx context.Context, state match.State) (types.Prediction, error) {
	predictor, vocab, store, err := s.components()
	if err != nil {
		return types.Prediction{}, err
	}

	state = state.Normalized()
	if err := state.Validate(); err != nil {
		s.rejected.Add(1)
		var verr *match.ValidationError
		if errors.As(err, &verr) {
			for _, f := range verr.Fields {
				metrics.RecordValidationError(f.Field)
			}
		}
		s.logger.Debug(ctx, "rejected match state", logger.Error(err))
		return types.Prediction{}, err
	}

	start := time.Now()
	derived := features.Derive(state)
	res, err := predictor.Predict(ctx, state, derived, vocab)
	s.logWarnings(ctx, res.Warnings)

	out := types.Prediction{
		Warnings: res.Warnings,
		Messages: messages(res.Warnings),
		State:    state,
		Features: derived,
		Record:   res.Record,
	}
	if err != nil {
		s.failed.Add(1)
		metrics.RecordInferenceError()
		s.logger.Error(ctx, "inference failed",
			logger.Error(err),
			logger.String("battingTeam", res.Record.BattingTeam),
			logger.String("bowlingTeam", res.Record.BowlingTeam),
		)
		return out, err
	}

	out.ID = uuid.NewString()
	out.Score = res.Score
	out.CreatedAt = time.Now().UTC()

	store.Record(ctx, out)
	s.succeeded.Add(1)
	metrics.RecordPrediction(res.Score, float64(time.Since(start).Microseconds())/1000)
	metrics.UpdateHistorySize(store.Size())

	s.logger.Info(ctx, "predicted score",
		logger.String("id", out.ID),
		logger.Int("score", out.Score),
		logger.Float64("raw", res.Raw),
		logger.Int("warnings", len(res.Warnings)),
	)
	return out, nil
}

func (s *Service) logWarnings(ctx context.Context, warnings []prediction.Warning) {
	for _, w := range warnings {
		metrics.RecordUnknownTeam(w.Field)
		s.logger.Warn(ctx, w.String(),
			logger.String("field", w.Field),
			logger.String("value", w.Value),
		)
	}
}

func messages(warnings []prediction.Warning) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.String())
	}
	return out
}

// Lookup returns a previously made prediction by id.
func (s *Service) Lookup(ctx context.Context, id string) (types.Prediction, error) {
	_, _, store, err := s.components()
	if err != nil {
		return types.Prediction{}, err
	}
	p, ok := store.Get(ctx, id)
	metrics.RecordHistoryLookup(ok)
	if !ok {
		return types.Prediction{}, ErrPredictionNotFound
	}
	return p, nil
}

// Choices returns the values offered by the input form and the teams the
// loaded model knows.
func (s *Service) Choices(_ context.Context) (types.Choices, error) {
	_, vocab, _, err := s.components()
	if err != nil {
		return types.Choices{}, err
	}
	return types.Choices{
		Teams:      append([]string(nil), match.Teams...),
		Cities:     append([]string(nil), match.Cities...),
		KnownTeams: vocab.Names(),
		MinOvers:   match.MinOvers,
		MaxOvers:   match.MaxOvers,
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"historySize": s.historySize,
		"predictions": s.succeeded.Load(),
		"rejected":    s.rejected.Load(),
		"failed":      s.failed.Load(),
	}

	if s.started {
		info := s.model.Info()
		stats["model"] = info.Name
		stats["modelVersion"] = info.Version
		stats["knownTeams"] = s.vocab.Len()
		stats["stored"] = s.history.Size()

		metrics.UpdateHistorySize(s.history.Size())
	}

	return stats
}
