package release_hold

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ev4kov/SBP-BookingEngine/internal/api/handlers"
)

const msgMissingSession = "sessionId обязателен"

type Handler struct {
	useCase ReleaseHoldUseCase
	logger  Logger
}

func NewHandler(useCase ReleaseHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/holds/{sessionId}
// Идемпотентный: отсутствие холда не считается ошибкой.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if sessionID == "" {
		h.logger.Warn("DELETE /holds/{sessionId} - Missing session ID")
		handlers.RespondBadRequest(w, msgMissingSession)
		return
	}

	if err := h.useCase.Execute(r.Context(), sessionID); err != nil {
		h.logger.Error("DELETE /holds/{sessionId} - Failed to release hold: session_id=%s, error=%v", sessionID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /holds/{sessionId} - Hold released: session_id=%s", sessionID)
	w.WriteHeader(http.StatusNoContent)
}
