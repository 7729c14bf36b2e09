package api

import (
	"net/http"

	"github.com/ShinaSIT/Helix-Telebot/internal/api/handlers"
	"github.com/ShinaSIT/Helix-Telebot/internal/middleware"
	"github.com/ShinaSIT/Helix-Telebot/internal/services"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// RouterDeps bundles everything the routes need.
type RouterDeps struct {
	DB                *gorm.DB
	ReadService       services.ReadService
	QuotaService      services.QuotaService
	AuthService       services.AuthService
	RequestLogService services.RequestLogService
	Cache             services.CacheService
	ProxySecret       string
}

func SetupRoutes(deps RouterDeps) *mux.Router {
	router := mux.NewRouter()

	readHandler := handlers.NewReadHandler(deps.ReadService)
	callHandler := handlers.NewCallHandler(deps.ReadService)
	usageHandler := handlers.NewUsageHandler(deps.QuotaService)
	requestLogger := middleware.NewRequestLogger(deps.RequestLogService)

	router.HandleFunc("/health", handlers.HealthCheckHandler(deps.DB, deps.Cache)).Methods("GET")

	// Transport A: shared-secret header, submission method only
	readRouter := router.PathPrefix("/read").Subrouter()
	readRouter.Use(middleware.SecretAuthMiddleware(deps.ProxySecret))
	readRouter.Use(requestLogger.LogRequest)
	readRouter.HandleFunc("", readHandler.HandleRead).Methods("POST")

	// Transport B: authenticated callable
	callRouter := router.PathPrefix("/call").Subrouter()
	callRouter.Use(middleware.CallableAuthMiddleware(deps.AuthService))
	callRouter.Use(requestLogger.LogRequest)
	callRouter.HandleFunc("", callHandler.HandleCall).Methods("POST")

	usageRouter := router.PathPrefix("/usage").Subrouter()
	usageRouter.Use(middleware.SecretAuthMiddleware(deps.ProxySecret))
	usageRouter.HandleFunc("", usageHandler.GetUsage).Methods("GET")

	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(`{"error":"method not allowed"}`))
	})

	return router
}
