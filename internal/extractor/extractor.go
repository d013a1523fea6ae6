package extractor

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/BerylCAtieno/pdftext-api/internal/engine"
	"github.com/BerylCAtieno/pdftext-api/internal/models"
	"github.com/BerylCAtieno/pdftext-api/internal/utils"
)

const unknownAuthor = "Unknown author"

// Provisioner prepares the engine's worker before a document is opened.
type Provisioner interface {
	EnsureReady(ctx context.Context) error
}

type Extractor struct {
	engine      engine.Engine
	provisioner Provisioner
	logger      *utils.Logger
}

// New returns an Extractor. A nil provisioner means the worker source is
// managed by the caller.
func New(eng engine.Engine, prov Provisioner, logger *utils.Logger) *Extractor {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Extractor{
		engine:      eng,
		provisioner: prov,
		logger:      logger,
	}
}

type options struct {
	onProgress func(percent int)
}

type Option func(*options)

// WithProgress registers a callback invoked after every page with the
// rounded share of pages processed so far.
func WithProgress(fn func(percent int)) Option {
	return func(o *options) { o.onProgress = fn }
}

// ExtractText opens src and returns its text page by page. Page and
// metadata failures are recorded in the result; only a missing engine,
// an unopenable document or a cancelled context produce an error.
func (e *Extractor) ExtractText(ctx context.Context, src Source, opts ...Option) (*models.DocumentResult, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if e.engine == nil {
		return nil, ErrLibraryMissing
	}
	if e.provisioner != nil {
		if err := e.provisioner.EnsureReady(ctx); err != nil {
			return nil, err
		}
	}

	data, err := src.Bytes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrDocumentOpenFailed, src.Name(), err)
	}

	doc, err := e.open(ctx, data)
	if err != nil {
		return nil, err
	}
	defer doc.Cleanup()

	total := doc.NumPages()
	pages := make([]models.PageResult, 0, total)

	for n := 1; n <= total; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := e.extractPage(ctx, doc, n)
		pages = append(pages, page)

		if o.onProgress != nil {
			o.onProgress(progress(n, total))
		}
	}

	meta, err := doc.Metadata(ctx)
	if err != nil {
		e.logger.Debug("PDF metadata unavailable", "filename", src.Name(), "error", err)
		meta = engine.Metadata{}
	}

	result := &models.DocumentResult{
		Title:        title(meta.Title, src.Name()),
		Author:       author(meta.Author),
		TotalPages:   total,
		Pages:        pages,
		RawSize:      src.Size(),
		LastModified: src.LastModified(),
	}

	e.logger.Info("PDF text extracted",
		"filename", src.Name(),
		"pages", total,
		"failed_pages", failedPages(pages))

	return result, nil
}

func (e *Extractor) open(ctx context.Context, data []byte) (engine.Document, error) {
	doc, err := e.engine.Open(ctx, data)
	if err != nil && IsWorkerInitError(err) {
		e.logger.Warn("PDF worker failed to start, retrying without worker", "error", err)
		e.engine.DisableWorker()
		doc, err = e.engine.Open(ctx, data)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrDocumentOpenFailed, err)
	}
	return doc, nil
}

func (e *Extractor) extractPage(ctx context.Context, doc engine.Document, n int) models.PageResult {
	result := models.PageResult{Index: n - 1}

	text, err := pageText(ctx, doc, n)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "unknown error"
		}
		e.logger.Warn("Failed to extract page text", "page", n, "error", msg)
		result.Error = msg
		return result
	}

	result.Text = text
	result.HasTextContent = text != ""
	return result
}

func pageText(ctx context.Context, doc engine.Document, n int) (string, error) {
	page, err := doc.Page(ctx, n)
	if err != nil {
		return "", err
	}
	items, err := page.TextContent(ctx)
	if err != nil {
		return "", err
	}

	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.Str
	}
	return normalize(strings.Join(parts, " ")), nil
}

// normalize collapses whitespace runs to single spaces and trims the ends.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func progress(n, total int) int {
	return int(math.Round(float64(n) / float64(total) * 100))
}

func title(metaTitle, filename string) string {
	if metaTitle != "" {
		return metaTitle
	}
	if len(filename) >= 4 && strings.EqualFold(filename[len(filename)-4:], ".pdf") {
		return filename[:len(filename)-4]
	}
	return filename
}

func author(metaAuthor string) string {
	if metaAuthor != "" {
		return metaAuthor
	}
	return unknownAuthor
}

func failedPages(pages []models.PageResult) int {
	n := 0
	for _, p := range pages {
		if p.Error != "" {
			n++
		}
	}
	return n
}
