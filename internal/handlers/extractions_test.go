package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BerylCAtieno/pdftext-api/internal/models"
	"github.com/BerylCAtieno/pdftext-api/internal/utils"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

type stubService struct {
	err error
}

func (s *stubService) CreateExtraction(ctx context.Context, req *models.UploadRequest) (*models.Extraction, error) {
	return nil, s.err
}

func (s *stubService) GetExtraction(ctx context.Context, id string) (*models.Extraction, error) {
	return nil, s.err
}

func (s *stubService) GetTables(ctx context.Context, id string) ([]models.TableCandidate, error) {
	return nil, s.err
}

func (s *stubService) Reextract(ctx context.Context, id string) (*models.Extraction, error) {
	return nil, s.err
}

func serve(h *ExtractionHandler, req *http.Request) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/extractions", h.CreateExtraction).Methods(http.MethodPost)
	r.HandleFunc("/extractions/{id}", h.GetExtraction).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRespondErrorLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		req    *http.Request
		status int
		level  string
	}{
		{
			name:   "invalid form",
			req:    httptest.NewRequest(http.MethodPost, "/extractions", nil),
			status: http.StatusBadRequest,
			level:  `"level":"WARN"`,
		},
		{
			name:   "not found",
			err:    utils.NewNotFoundError("Extraction not found"),
			req:    httptest.NewRequest(http.MethodGet, "/extractions/abc", nil),
			status: http.StatusNotFound,
			level:  `"level":"WARN"`,
		},
		{
			name:   "internal",
			err:    errors.New("database locked"),
			req:    httptest.NewRequest(http.MethodGet, "/extractions/abc", nil),
			status: http.StatusInternalServerError,
			level:  `"level":"ERROR"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			h := NewExtractionHandler(&stubService{err: tt.err}, utils.NewLoggerWithWriter("info", &logs), 1024)

			rec := serve(h, tt.req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, logs.String(), tt.level)
		})
	}
}

func TestIsPDF(t *testing.T) {
	assert.True(t, isPDF("Report.PDF", ""))
	assert.True(t, isPDF("upload", "application/pdf; charset=binary"))
	assert.False(t, isPDF("notes.txt", "text/plain"))
}
