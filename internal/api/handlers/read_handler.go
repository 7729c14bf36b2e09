package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ShinaSIT/Helix-Telebot/internal/models"
	apperrors "github.com/ShinaSIT/Helix-Telebot/internal/pkg/errors"
	"github.com/ShinaSIT/Helix-Telebot/internal/services"
)

type ReadHandler struct {
	readService services.ReadService
}

func NewReadHandler(readService services.ReadService) *ReadHandler {
	return &ReadHandler{readService: readService}
}

type readResponse struct {
	OK           bool        `json:"ok"`
	DocsReturned int         `json:"docsReturned"`
	Data         interface{} `json:"data"`
}

// HandleRead serves the secret-header transport.
func (h *ReadHandler) HandleRead(w http.ResponseWriter, r *http.Request) {
	var req models.ReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.readService.Read(r.Context(), &req)
	if err != nil {
		respondError(w, statusCodeFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, readResponse{
		OK:           true,
		DocsReturned: result.DocsReturned,
		Data:         result.Data,
	})
}

func statusCodeFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrResourceExhausted):
		return http.StatusTooManyRequests
	case errors.Is(err, apperrors.ErrUnauthenticated), errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}
