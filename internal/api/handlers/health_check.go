package handlers

import (
	"net/http"

	"github.com/ShinaSIT/Helix-Telebot/internal/services"
	"gorm.io/gorm"
)

type HealthCheckResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// HealthCheckHandler checks proxy health, the database connection and the
// cache connection.
func HealthCheckHandler(db *gorm.DB, cache services.CacheService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthCheckResponse{Status: "Read proxy is running"}

		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			response.Database = "Database connection failed"
			respondJSON(w, http.StatusInternalServerError, response)
			return
		}
		response.Database = "Database connection is healthy"

		switch {
		case cache == nil:
			response.Cache = "Disabled"
		case cache.Ping(r.Context()) != nil:
			response.Cache = "Unreachable"
		default:
			response.Cache = "Available"
		}

		respondJSON(w, http.StatusOK, response)
	}
}
