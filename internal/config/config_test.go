package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "ledongthuc", cfg.Engine)
	assert.Empty(t, cfg.WorkerURL)
	assert.Equal(t, 10*time.Second, cfg.WorkerFetchTimeout)
	assert.EqualValues(t, 20<<20, cfg.MaxFileSize)
	assert.False(t, cfg.S3UseSSL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PDF_ENGINE", "pdfcpu")
	t.Setenv("PDF_WORKER_URL", "https://cdn.example.com/worker.js")
	t.Setenv("PDF_WORKER_FETCH_TIMEOUT", "2s")
	t.Setenv("MAX_FILE_SIZE", "1024")
	t.Setenv("S3_USE_SSL", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pdfcpu", cfg.Engine)
	assert.Equal(t, "https://cdn.example.com/worker.js", cfg.WorkerURL)
	assert.Equal(t, 2*time.Second, cfg.WorkerFetchTimeout)
	assert.EqualValues(t, 1024, cfg.MaxFileSize)
	assert.True(t, cfg.S3UseSSL)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"PDF_ENGINE":               "pdfium",
		"PDF_WORKER_FETCH_TIMEOUT": "soon",
		"MAX_FILE_SIZE":            "-1",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
