package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/BerylCAtieno/pdftext-api/internal/extractor"
	"github.com/BerylCAtieno/pdftext-api/internal/models"
	"github.com/BerylCAtieno/pdftext-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	items     map[string]*models.Extraction
	createErr error
}

func (r *memRepo) Create(ctx context.Context, ext *models.Extraction) error {
	if r.createErr != nil {
		return r.createErr
	}
	cp := *ext
	r.items[ext.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*models.Extraction, error) {
	ext, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *ext
	return &cp, nil
}

func (r *memRepo) UpdateResult(ctx context.Context, ext *models.Extraction) error {
	cp := *ext
	r.items[ext.ID] = &cp
	return nil
}

type memStorage struct {
	objects map[string][]byte
}

func (s *memStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	s.objects[key] = data
	return nil
}

func (s *memStorage) Download(ctx context.Context, key string) ([]byte, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("no such key %s", key)
	}
	return data, nil
}

func (s *memStorage) Delete(ctx context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

type stubExtractor struct {
	calls  int
	result func(src extractor.Source) *models.DocumentResult
	err    error
}

func (e *stubExtractor) ExtractText(ctx context.Context, src extractor.Source, opts ...extractor.Option) (*models.DocumentResult, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return e.result(src), nil
}

func pagesResult(texts ...string) func(extractor.Source) *models.DocumentResult {
	return func(src extractor.Source) *models.DocumentResult {
		res := &models.DocumentResult{
			Title:        src.Name(),
			Author:       "Unknown author",
			TotalPages:   len(texts),
			RawSize:      src.Size(),
			LastModified: src.LastModified(),
		}
		for i, text := range texts {
			res.Pages = append(res.Pages, models.PageResult{Index: i, Text: text, HasTextContent: text != ""})
		}
		return res
	}
}

func newTestService(ex *stubExtractor) (ExtractionService, *memRepo, *memStorage) {
	repo := &memRepo{items: map[string]*models.Extraction{}}
	store := &memStorage{objects: map[string][]byte{}}
	return NewService(repo, store, ex, utils.NewNopLogger()), repo, store
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.StatusCode
}

func TestCreateExtraction(t *testing.T) {
	svc, repo, store := newTestService(&stubExtractor{result: pagesResult("Total: 5, net", "")})

	modified := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	ext, err := svc.CreateExtraction(context.Background(), &models.UploadRequest{
		File:         []byte("%PDF-1.4"),
		Filename:     "invoice.pdf",
		ContentType:  "application/pdf",
		LastModified: modified,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, ext.ID)
	assert.Equal(t, "extractions/"+ext.ID+"/invoice.pdf", ext.S3Key)
	assert.Equal(t, 2, ext.TotalPages)
	assert.EqualValues(t, 8, ext.FileSize)
	assert.Equal(t, modified, ext.LastModified)
	assert.Contains(t, repo.items, ext.ID)
	assert.Equal(t, []byte("%PDF-1.4"), store.objects[ext.S3Key])

	tables, err := svc.GetTables(context.Background(), ext.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.TableCandidate{{Page: 0, Content: "Total: 5, net"}}, tables)
}

func TestCreateExtractionOpenFailure(t *testing.T) {
	svc, repo, store := newTestService(&stubExtractor{
		err: fmt.Errorf("%w: invalid header", extractor.ErrDocumentOpenFailed),
	})

	_, err := svc.CreateExtraction(context.Background(), &models.UploadRequest{File: []byte("x"), Filename: "a.pdf"})
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))
	assert.Empty(t, repo.items)
	assert.Empty(t, store.objects)
}

func TestCreateExtractionLibraryMissing(t *testing.T) {
	svc, _, _ := newTestService(&stubExtractor{err: extractor.ErrLibraryMissing})

	_, err := svc.CreateExtraction(context.Background(), &models.UploadRequest{File: []byte("x"), Filename: "a.pdf"})
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
}

func TestCreateExtractionCleansUpOnSaveFailure(t *testing.T) {
	svc, repo, store := newTestService(&stubExtractor{result: pagesResult("x")})
	repo.createErr = errors.New("disk full")

	_, err := svc.CreateExtraction(context.Background(), &models.UploadRequest{File: []byte("x"), Filename: "a.pdf"})
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	assert.Empty(t, store.objects)
}

func TestGetExtractionNotFound(t *testing.T) {
	svc, _, _ := newTestService(&stubExtractor{})

	_, err := svc.GetExtraction(context.Background(), "missing")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	_, err = svc.GetTables(context.Background(), "missing")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestGetTablesEmpty(t *testing.T) {
	svc, _, _ := newTestService(&stubExtractor{result: pagesResult("no numbers here")})

	ext, err := svc.CreateExtraction(context.Background(), &models.UploadRequest{File: []byte("x"), Filename: "a.pdf"})
	require.NoError(t, err)

	tables, err := svc.GetTables(context.Background(), ext.ID)
	require.NoError(t, err)
	assert.NotNil(t, tables)
	assert.Empty(t, tables)
}

func TestReextract(t *testing.T) {
	ex := &stubExtractor{result: pagesResult("first")}
	svc, repo, _ := newTestService(ex)

	ext, err := svc.CreateExtraction(context.Background(), &models.UploadRequest{File: []byte("%PDF"), Filename: "a.pdf"})
	require.NoError(t, err)

	ex.result = pagesResult("second", "third")
	updated, err := svc.Reextract(context.Background(), ext.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, ex.calls)
	assert.Equal(t, 2, updated.TotalPages)
	assert.Equal(t, "second", repo.items[ext.ID].Pages[0].Text)
}
