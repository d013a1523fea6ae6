package extractor

import (
	"context"
	"errors"
	"sync"

	"github.com/BerylCAtieno/pdftext-api/internal/engine"
)

// fakeEngine serves pages from memory. A page text of "!" fails that page.
type fakeEngine struct {
	mu        sync.Mutex
	src       string
	disabled  bool
	opens     int
	openErrs  []error
	pages     []string
	meta      engine.Metadata
	metaErr   error
	cleanedUp int
	pageOrder []int
}

func (f *fakeEngine) WorkerSource() string       { return f.src }
func (f *fakeEngine) SetWorkerSource(src string) { f.src = src }
func (f *fakeEngine) DisableWorker()             { f.disabled = true }

func (f *fakeEngine) Open(ctx context.Context, data []byte) (engine.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens++
	if len(f.openErrs) > 0 {
		err := f.openErrs[0]
		f.openErrs = f.openErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &fakeDocument{engine: f}, nil
}

type fakeDocument struct {
	engine *fakeEngine
}

func (d *fakeDocument) NumPages() int { return len(d.engine.pages) }

func (d *fakeDocument) Page(ctx context.Context, n int) (engine.Page, error) {
	d.engine.pageOrder = append(d.engine.pageOrder, n)
	return &fakePage{text: d.engine.pages[n-1]}, nil
}

func (d *fakeDocument) Metadata(ctx context.Context) (engine.Metadata, error) {
	return d.engine.meta, d.engine.metaErr
}

func (d *fakeDocument) Cleanup() { d.engine.cleanedUp++ }

type fakePage struct {
	text string
}

func (p *fakePage) TextContent(ctx context.Context) ([]engine.TextItem, error) {
	if p.text == "!" {
		return nil, errors.New("invalid font encoding")
	}
	if p.text == "" {
		return nil, nil
	}
	return []engine.TextItem{{Str: p.text}, {Str: "  "}}, nil
}

type countingProvisioner struct {
	calls int
	err   error
}

func (p *countingProvisioner) EnsureReady(ctx context.Context) error {
	p.calls++
	return p.err
}
