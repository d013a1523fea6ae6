package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// workerConfig holds the worker slot shared by every document opened through
// one engine.
type workerConfig struct {
	mu       sync.RWMutex
	src      string
	disabled bool
}

func (w *workerConfig) WorkerSource() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.src
}

func (w *workerConfig) SetWorkerSource(src string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.src = src
}

// DisableWorker makes later documents run their parsing on the calling goroutine.
func (w *workerConfig) DisableWorker() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.disabled = true
}

func (w *workerConfig) startRunner() (runner, error) {
	w.mu.RLock()
	src, disabled := w.src, w.disabled
	w.mu.RUnlock()

	if disabled {
		return inlineRunner{}, nil
	}
	if src == "" {
		return nil, fmt.Errorf("%w: no worker source specified", ErrWorkerInit)
	}
	if path, ok := strings.CutPrefix(src, "file://"); ok {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: cannot load script at %s: %v", ErrWorkerInit, src, err)
		}
	}
	return newWorker(), nil
}

// runner executes parse calls either inline or on a dedicated goroutine.
type runner interface {
	run(ctx context.Context, fn func() error) error
	stop()
}

type inlineRunner struct{}

func (inlineRunner) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return guard(fn)
}

func (inlineRunner) stop() {}

var errWorkerStopped = errors.New("pdf worker stopped")

type worker struct {
	jobs     chan func()
	quit     chan struct{}
	stopOnce sync.Once
}

func newWorker() *worker {
	w := &worker{
		jobs: make(chan func()),
		quit: make(chan struct{}),
	}
	go func() {
		for {
			select {
			case job := <-w.jobs:
				job()
			case <-w.quit:
				return
			}
		}
	}()
	return w
}

func (w *worker) run(ctx context.Context, fn func() error) error {
	select {
	case <-w.quit:
		return errWorkerStopped
	default:
	}

	done := make(chan error, 1)
	job := func() { done <- guard(fn) }

	select {
	case w.jobs <- job:
	case <-w.quit:
		return errWorkerStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *worker) stop() {
	w.stopOnce.Do(func() { close(w.quit) })
}

// guard turns a panic inside the PDF library into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf engine panic: %v", r)
		}
	}()
	return fn()
}
