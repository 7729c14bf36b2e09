package handlers

import (
	"net/http"

	"github.com/ShinaSIT/Helix-Telebot/internal/services"
)

type UsageHandler struct {
	quotaService services.QuotaService
}

func NewUsageHandler(quotaService services.QuotaService) *UsageHandler {
	return &UsageHandler{quotaService: quotaService}
}

// GetUsage reports today's quota position.
func (h *UsageHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	stats, err := h.quotaService.CurrentUsage(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
