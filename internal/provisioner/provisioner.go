package provisioner

import (
	"context"
	"errors"
	"sync"

	"github.com/BerylCAtieno/pdftext-api/internal/engine"
	"github.com/BerylCAtieno/pdftext-api/internal/utils"
)

// DefaultWorkerURL is the versioned worker script the engines are pointed at
// when nothing else is configured.
const DefaultWorkerURL = "https://cdnjs.cloudflare.com/ajax/libs/pdf.js/3.11.174/pdf.worker.min.js"

var errNoCapability = errors.New("fetch or resource store capability unavailable")

// Configurer is the worker slot of a PDF engine.
type Configurer interface {
	WorkerSource() string
	SetWorkerSource(src string)
}

// Fetcher downloads the worker script.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ResourceStore turns fetched bytes into a locally addressable resource.
type ResourceStore interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
	Lookup(key string) (string, bool)
}

// Provisioner configures an engine's worker source exactly once. The zero
// value is not usable; construct with New.
type Provisioner struct {
	engine    Configurer
	remoteURL string
	fetcher   Fetcher
	store     ResourceStore
	logger    *utils.Logger

	mu      sync.Mutex
	attempt *attempt
}

type attempt struct {
	done chan struct{}
	err  error
}

type Option func(*Provisioner)

func WithFetcher(f Fetcher) Option {
	return func(p *Provisioner) { p.fetcher = f }
}

func WithStore(s ResourceStore) Option {
	return func(p *Provisioner) { p.store = s }
}

func WithLogger(l *utils.Logger) Option {
	return func(p *Provisioner) { p.logger = l }
}

func New(eng Configurer, remoteURL string, opts ...Option) *Provisioner {
	if remoteURL == "" {
		remoteURL = DefaultWorkerURL
	}
	p := &Provisioner{
		engine:    eng,
		remoteURL: remoteURL,
		logger:    utils.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EnsureReady makes sure the engine has a worker source. The first call
// performs the single provisioning attempt; concurrent callers wait for it.
// It only fails when there is no engine or ctx ends while waiting.
func (p *Provisioner) EnsureReady(ctx context.Context) error {
	if p.engine == nil {
		return engine.ErrLibraryMissing
	}

	p.mu.Lock()
	a := p.attempt
	if a == nil {
		a = &attempt{done: make(chan struct{})}
		p.attempt = a
		p.mu.Unlock()

		a.err = p.provision(ctx)
		close(a.done)
		return a.err
	}
	p.mu.Unlock()

	select {
	case <-a.done:
		return a.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Provisioner) provision(ctx context.Context) error {
	if p.engine.WorkerSource() != "" {
		return nil
	}

	src, err := p.inline(ctx)
	if err != nil {
		src = p.fallback()
		p.logger.Warn("Failed to inline PDF worker, using fallback source",
			"error", err,
			"worker_src", src)
	}

	p.engine.SetWorkerSource(src)
	p.logger.Debug("PDF worker configured", "worker_src", src)
	return nil
}

func (p *Provisioner) inline(ctx context.Context) (string, error) {
	if p.fetcher == nil || p.store == nil {
		return "", errNoCapability
	}

	data, err := p.fetcher.Fetch(ctx, p.remoteURL)
	if err != nil {
		return "", err
	}

	return p.store.Put(ctx, p.remoteURL, data)
}

func (p *Provisioner) fallback() string {
	if p.store != nil {
		if cached, ok := p.store.Lookup(p.remoteURL); ok {
			return cached
		}
	}
	return p.remoteURL
}
