package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ShinaSIT/Helix-Telebot/internal/models"
	apperrors "github.com/ShinaSIT/Helix-Telebot/internal/pkg/errors"
	"github.com/ShinaSIT/Helix-Telebot/internal/services"
)

type CallHandler struct {
	readService services.ReadService
}

func NewCallHandler(readService services.ReadService) *CallHandler {
	return &CallHandler{readService: readService}
}

type callEnvelope struct {
	Data models.ReadRequest `json:"data"`
}

// HandleCall serves the authenticated callable transport. Requests and
// responses use the callable envelope: {"data": ...} in, {"result": ...}
// or {"error": {"message", "status"}} out.
func (h *CallHandler) HandleCall(w http.ResponseWriter, r *http.Request) {
	if _, ok := services.CallerFromContext(r.Context()); !ok {
		respondCallableError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "caller identity is required")
		return
	}

	var envelope callEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		respondCallableError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid JSON body")
		return
	}

	result, err := h.readService.Read(r.Context(), &envelope.Data)
	if err != nil {
		respondCallableError(w, statusCodeFor(err), callableStatusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"result": readResponse{
			OK:           true,
			DocsReturned: result.DocsReturned,
			Data:         result.Data,
		},
	})
}

func callableStatusFor(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return "INVALID_ARGUMENT"
	case errors.Is(err, apperrors.ErrResourceExhausted):
		return "RESOURCE_EXHAUSTED"
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return "UNAUTHENTICATED"
	default:
		return "INTERNAL"
	}
}

func respondCallableError(w http.ResponseWriter, code int, status, message string) {
	respondJSON(w, code, map[string]interface{}{
		"error": map[string]string{"message": message, "status": status},
	})
}
