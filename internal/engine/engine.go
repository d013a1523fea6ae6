package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLibraryMissing is returned when no PDF engine is available.
	ErrLibraryMissing = errors.New("pdf engine is not available")

	// ErrWorkerInit is returned by Open when the background worker could not start.
	ErrWorkerInit = errors.New("pdf worker failed to start")
)

// Engine is the contract every PDF backend binding implements. The worker
// source is a process-level configuration slot that must be set before a
// document is opened with the worker enabled.
type Engine interface {
	WorkerSource() string
	SetWorkerSource(src string)
	DisableWorker()
	Open(ctx context.Context, data []byte) (Document, error)
}

// Document is an open session over a parsed PDF. Cleanup must be called once
// the caller is done with it.
type Document interface {
	NumPages() int
	Page(ctx context.Context, n int) (Page, error)
	Metadata(ctx context.Context) (Metadata, error)
	Cleanup()
}

type Page interface {
	TextContent(ctx context.Context) ([]TextItem, error)
}

// TextItem is one recognized text run, in content order.
type TextItem struct {
	Str string
}

type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Producer string
}

const (
	Ledongthuc = "ledongthuc"
	Pdfcpu     = "pdfcpu"
)

// New returns the engine binding registered under name.
func New(name string) (Engine, error) {
	switch strings.ToLower(name) {
	case "", Ledongthuc:
		return NewLedongthuc(), nil
	case Pdfcpu:
		return NewPdfcpu(), nil
	default:
		return nil, fmt.Errorf("%w: unknown engine %q", ErrLibraryMissing, name)
	}
}
