package services

import (
	"context"
	"errors"
	"time"

	"github.com/BerylCAtieno/pdftext-api/internal/extractor"
	"github.com/BerylCAtieno/pdftext-api/internal/harvester"
	"github.com/BerylCAtieno/pdftext-api/internal/models"
	"github.com/BerylCAtieno/pdftext-api/internal/repository"
	"github.com/BerylCAtieno/pdftext-api/internal/storage"
	"github.com/BerylCAtieno/pdftext-api/internal/utils"
)

type ExtractionService interface {
	CreateExtraction(ctx context.Context, req *models.UploadRequest) (*models.Extraction, error)
	GetExtraction(ctx context.Context, id string) (*models.Extraction, error)
	GetTables(ctx context.Context, id string) ([]models.TableCandidate, error)
	Reextract(ctx context.Context, id string) (*models.Extraction, error)
}

// TextExtractor is the part of *extractor.Extractor the service relies on.
type TextExtractor interface {
	ExtractText(ctx context.Context, src extractor.Source, opts ...extractor.Option) (*models.DocumentResult, error)
}

type extractionService struct {
	repo      repository.Repository
	storage   storage.Storage
	extractor TextExtractor
	logger    *utils.Logger
}

func NewService(repo repository.Repository, store storage.Storage, ex TextExtractor, logger *utils.Logger) ExtractionService {
	return &extractionService{
		repo:      repo,
		storage:   store,
		extractor: ex,
		logger:    logger,
	}
}

func (s *extractionService) CreateExtraction(ctx context.Context, req *models.UploadRequest) (*models.Extraction, error) {
	id := utils.GenerateID()

	modified := req.LastModified
	if modified.IsZero() {
		modified = time.Now().UTC()
	}

	result, err := s.extract(ctx, id, extractor.NewBytesSource(req.Filename, req.File, modified))
	if err != nil {
		return nil, err
	}

	s3Key := storage.ExtractionKey(id, req.Filename)
	if err := s.storage.Upload(ctx, s3Key, req.File, req.ContentType); err != nil {
		s.logger.Error("Failed to upload to S3", "error", err, "s3_key", s3Key)
		return nil, utils.NewInternalError("Failed to store document")
	}

	now := time.Now().UTC()
	ext := &models.Extraction{
		ID:           id,
		Filename:     req.Filename,
		FileSize:     result.RawSize,
		S3Key:        s3Key,
		Title:        result.Title,
		Author:       result.Author,
		TotalPages:   result.TotalPages,
		Pages:        result.Pages,
		LastModified: result.LastModified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, ext); err != nil {
		s.logger.Error("Failed to save extraction", "error", err, "id", id)
		_ = s.storage.Delete(ctx, s3Key)
		return nil, utils.NewInternalError("Failed to save extraction")
	}

	s.logger.Info("Extraction created",
		"id", id,
		"filename", req.Filename,
		"pages", ext.TotalPages)

	return ext, nil
}

func (s *extractionService) GetExtraction(ctx context.Context, id string) (*models.Extraction, error) {
	ext, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get extraction", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve extraction")
	}
	if ext == nil {
		return nil, utils.NewNotFoundError("Extraction not found")
	}

	return ext, nil
}

func (s *extractionService) GetTables(ctx context.Context, id string) ([]models.TableCandidate, error) {
	ext, err := s.GetExtraction(ctx, id)
	if err != nil {
		return nil, err
	}

	tables := harvester.HarvestTables(ext.Pages)
	if tables == nil {
		tables = []models.TableCandidate{}
	}
	return tables, nil
}

// Reextract runs the extraction again over the stored PDF and replaces the
// saved result.
func (s *extractionService) Reextract(ctx context.Context, id string) (*models.Extraction, error) {
	ext, err := s.GetExtraction(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.storage.Download(ctx, ext.S3Key)
	if err != nil {
		s.logger.Error("Failed to download from S3", "error", err, "s3_key", ext.S3Key)
		return nil, utils.NewInternalError("Failed to load stored document")
	}

	result, err := s.extract(ctx, id, extractor.NewBytesSource(ext.Filename, data, ext.LastModified))
	if err != nil {
		return nil, err
	}

	ext.Title = result.Title
	ext.Author = result.Author
	ext.TotalPages = result.TotalPages
	ext.Pages = result.Pages

	if err := s.repo.UpdateResult(ctx, ext); err != nil {
		s.logger.Error("Failed to update extraction", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to save extraction")
	}

	return ext, nil
}

func (s *extractionService) extract(ctx context.Context, id string, src extractor.Source) (*models.DocumentResult, error) {
	result, err := s.extractor.ExtractText(ctx, src, extractor.WithProgress(func(percent int) {
		s.logger.Debug("Extraction progress", "id", id, "percent", percent)
	}))

	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, extractor.ErrDocumentOpenFailed):
		s.logger.Warn("Failed to open PDF", "error", err, "id", id, "filename", src.Name())
		return nil, utils.NewUnprocessableError("Failed to open PDF document", err)
	case errors.Is(err, extractor.ErrLibraryMissing):
		s.logger.Error("PDF engine unavailable", "error", err)
		return nil, utils.NewInternalError("PDF engine is not available")
	default:
		s.logger.Error("Failed to extract text", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to extract text from document")
	}
}
