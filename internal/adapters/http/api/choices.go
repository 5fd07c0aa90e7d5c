package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/scorecast/internal/app"
	"github.com/okian/scorecast/internal/domain/types"
)

// ChoicesDependencies defines the interface for form choices.
type ChoicesDependencies interface {
	Choices(ctx context.Context) (types.Choices, error)
}

// ChoicesHandler serves the values offered by the input form.
type ChoicesHandler struct {
	deps ChoicesDependencies
}

// NewChoicesHandler creates a new choices handler.
func NewChoicesHandler(deps ChoicesDependencies) *ChoicesHandler {
	return &ChoicesHandler{deps: deps}
}

// HandleGetChoices handles GET /choices requests.
func (h *ChoicesHandler) HandleGetChoices(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_choices"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	c, err := h.deps.Choices(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNotStarted) {
			writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}
