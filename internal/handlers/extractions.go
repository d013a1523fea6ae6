package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/BerylCAtieno/pdftext-api/internal/models"
	"github.com/BerylCAtieno/pdftext-api/internal/services"
	"github.com/BerylCAtieno/pdftext-api/internal/utils"
	"github.com/gorilla/mux"
)

const pdfContentType = "application/pdf"

type ExtractionHandler struct {
	service     services.ExtractionService
	logger      *utils.Logger
	maxFileSize int64
}

func NewExtractionHandler(service services.ExtractionService, logger *utils.Logger, maxFileSize int64) *ExtractionHandler {
	return &ExtractionHandler{
		service:     service,
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

func (h *ExtractionHandler) CreateExtraction(w http.ResponseWriter, r *http.Request) {
	tooLarge := utils.NewBadRequestError(fmt.Sprintf("File size exceeds %d byte limit", h.maxFileSize))

	// Reject oversized requests before reading the body
	if r.ContentLength > h.maxFileSize {
		h.respondError(w, tooLarge)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			h.respondError(w, tooLarge)
			return
		}
		h.respondError(w, utils.NewBadRequestError("Invalid form data"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, utils.NewBadRequestError("No file provided"))
		return
	}
	defer file.Close()

	if !isPDF(header.Filename, header.Header.Get("Content-Type")) {
		h.respondError(w, utils.NewBadRequestError("Only PDF files are allowed"))
		return
	}

	lastModified, err := parseLastModified(r.FormValue("last_modified"))
	if err != nil {
		h.respondError(w, utils.NewBadRequestError("last_modified must be an RFC 3339 timestamp"))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		h.respondError(w, utils.NewInternalError("Failed to read file"))
		return
	}

	if int64(len(data)) > h.maxFileSize {
		h.respondError(w, tooLarge)
		return
	}

	if len(data) == 0 {
		h.respondError(w, utils.NewBadRequestError("Uploaded file is empty"))
		return
	}

	h.logger.Info("File upload attempt",
		"filename", header.Filename,
		"size", len(data))

	ext, err := h.service.CreateExtraction(r.Context(), &models.UploadRequest{
		File:         data,
		Filename:     header.Filename,
		ContentType:  pdfContentType,
		LastModified: lastModified,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, ext)
}

func (h *ExtractionHandler) GetExtraction(w http.ResponseWriter, r *http.Request) {
	ext, err := h.service.GetExtraction(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, ext)
}

func (h *ExtractionHandler) GetTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.service.GetTables(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, tables)
}

func (h *ExtractionHandler) Reextract(w http.ResponseWriter, r *http.Request) {
	ext, err := h.service.Reextract(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, ext)
}

// isPDF accepts a .pdf extension or an application/pdf part header.
func isPDF(filename, headerContentType string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return true
	}
	mediaType, _, _ := strings.Cut(headerContentType, ";")
	return strings.TrimSpace(strings.ToLower(mediaType)) == pdfContentType
}

func parseLastModified(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, value)
}

func (h *ExtractionHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *ExtractionHandler) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode
		message = appErr.Message
	}

	if status < http.StatusInternalServerError {
		h.logger.Warn("Request rejected", "status", status, "error", err)
	} else {
		h.logger.Error("Request error", "status", status, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
