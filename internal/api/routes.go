package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check and metrics
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/watchlist", handler.GetWatchlist).Methods("GET")
	api.HandleFunc("/watchlist", handler.AddToWatchlist).Methods("POST")
	api.HandleFunc("/watchlist/{symbol}", handler.RemoveFromWatchlist).Methods("DELETE")
	api.HandleFunc("/positions", handler.GetPositions).Methods("GET")
	api.HandleFunc("/positions", handler.RecordPosition).Methods("POST")
	api.HandleFunc("/positions/{symbol}", handler.GetAggregatePosition).Methods("GET")
	api.HandleFunc("/alerts", handler.GetAlerts).Methods("GET")
	api.HandleFunc("/scan", handler.TriggerScan).Methods("POST")
	api.HandleFunc("/ytd", handler.GetYTD).Methods("GET")

	return r
}
