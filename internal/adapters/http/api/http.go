// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/scorecast/internal/domain/match"
	"github.com/okian/scorecast/internal/domain/types"
)

// defaultMaxBodyBytes caps POST /predict bodies unless overridden.
const defaultMaxBodyBytes = 16 << 10

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Predict validates a match snapshot and returns the predicted score.
	Predict(ctx context.Context, state match.State) (Prediction, error)

	// Read operations.
	Lookup(ctx context.Context, id string) (Prediction, error)
	Choices(ctx context.Context) (types.Choices, error)
}

// Prediction mirrors the read shape returned by the service.
type Prediction = types.Prediction

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	predictHandler     *PredictHandler
	predictionsHandler *PredictionsHandler
	choicesHandler     *ChoicesHandler

	maxBodyBytes int64
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxBodyBytes caps the size of request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{maxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.predictHandler = NewPredictHandler(deps, s.maxBodyBytes)
	s.predictionsHandler = NewPredictionsHandler(deps)
	s.choicesHandler = NewChoicesHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/predict", MetricsMiddleware(s.predictHandler.HandlePredict, "predict"))
	mux.HandleFunc("/predictions/", MetricsMiddleware(s.predictionsHandler.HandleGetPrediction, "predictions"))
	mux.HandleFunc("/choices", MetricsMiddleware(s.choicesHandler.HandleGetChoices, "choices"))
}

type errorResponse struct {
	Code     string             `json:"code"`
	Message  string             `json:"message"`
	Fields   []match.FieldError `json:"fields,omitempty"`
	Warnings []string           `json:"warnings,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, newErrorResponse(status, code, err))
}

func newErrorResponse(status int, code string, err error) errorResponse {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	return errorResponse{Code: code, Message: msg}
}
