package router

import (
	"net/http"

	"github.com/BerylCAtieno/pdftext-api/internal/handlers"
	"github.com/BerylCAtieno/pdftext-api/internal/middleware"
	"github.com/BerylCAtieno/pdftext-api/internal/services"
	"github.com/BerylCAtieno/pdftext-api/internal/utils"

	"github.com/gorilla/mux"
)

func NewRouter(service services.ExtractionService, logger *utils.Logger, maxFileSize int64) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	h := handlers.NewExtractionHandler(service, logger, maxFileSize)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	api.HandleFunc("/extractions", h.CreateExtraction).Methods(http.MethodPost)
	api.HandleFunc("/extractions/{id}", h.GetExtraction).Methods(http.MethodGet)
	api.HandleFunc("/extractions/{id}/tables", h.GetTables).Methods(http.MethodGet)
	api.HandleFunc("/extractions/{id}/reextract", h.Reextract).Methods(http.MethodPost)

	return r
}
