package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	service "github.com/okian/scorecast/internal/app"
	"github.com/okian/scorecast/internal/domain/match"
	"github.com/okian/scorecast/internal/domain/prediction"
)

// PredictDependencies defines the interface for prediction requests.
type PredictDependencies interface {
	Predict(ctx context.Context, state match.State) (Prediction, error)
}

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps         PredictDependencies
	maxBodyBytes int64
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps PredictDependencies, maxBodyBytes int64) *PredictHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &PredictHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// HandlePredict handles POST /predict requests.
//
//	200 the prediction, with any team substitution warnings
//	400 malformed body or rejected match state
//	413 body larger than the configured limit
//	422 the model failed to produce a score
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	state, err := h.decode(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", WrapKind(op, ErrPayloadTooLarge, err))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	p, err := h.deps.Predict(r.Context(), state)
	var verr *match.ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, p)
	case errors.As(err, &verr):
		resp := newErrorResponse(http.StatusBadRequest, "validation_error", verr)
		resp.Fields = verr.Fields
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, prediction.ErrInference):
		resp := newErrorResponse(http.StatusUnprocessableEntity, "inference_error", err)
		resp.Warnings = p.Messages
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// decode reads exactly one JSON object with no unknown fields.
func (h *PredictHandler) decode(w http.ResponseWriter, r *http.Request) (match.State, error) {
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	var state match.State
	if err := dec.Decode(&state); err != nil {
		return match.State{}, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return match.State{}, errors.New("request body must hold a single JSON object")
	}
	return state, nil
}
