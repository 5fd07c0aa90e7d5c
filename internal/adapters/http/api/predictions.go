package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/scorecast/internal/app"
)

// PredictionsDependencies defines the interface for prediction lookups.
type PredictionsDependencies interface {
	Lookup(ctx context.Context, id string) (Prediction, error)
}

// PredictionsHandler handles prediction lookup requests.
type PredictionsHandler struct {
	deps PredictionsDependencies
}

// NewPredictionsHandler creates a new predictions handler.
func NewPredictionsHandler(deps PredictionsDependencies) *PredictionsHandler {
	return &PredictionsHandler{deps: deps}
}

// HandleGetPrediction handles GET /predictions/{id} requests.
func (h *PredictionsHandler) HandleGetPrediction(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_prediction"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/predictions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	p, err := h.deps.Lookup(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, p)
	case errors.Is(err, service.ErrPredictionNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
