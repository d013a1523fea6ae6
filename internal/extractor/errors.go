package extractor

import (
	"errors"
	"strings"

	"github.com/BerylCAtieno/pdftext-api/internal/engine"
)

var (
	ErrLibraryMissing     = engine.ErrLibraryMissing
	ErrDocumentOpenFailed = errors.New("failed to open PDF document")
)

// workerInitPatterns are message fragments engines use when their background
// worker cannot start and no typed error is available.
var workerInitPatterns = []string{
	"setting up fake worker failed",
	"worker was terminated",
	"cannot load script",
	"failed to start worker",
	"no workersrc specified",
}

// IsWorkerInitError reports whether err means the engine's worker could not
// start, in which case opening can be retried without the worker.
func IsWorkerInitError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, engine.ErrWorkerInit) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range workerInitPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
