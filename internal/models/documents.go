package models

import (
	"time"
)

// DocumentResult is the outcome of one extraction call.
type DocumentResult struct {
	Title        string       `json:"title"`
	Author       string       `json:"author"`
	TotalPages   int          `json:"total_pages"`
	Pages        []PageResult `json:"pages"`
	RawSize      int64        `json:"raw_size"`
	LastModified time.Time    `json:"last_modified"`
}

type PageResult struct {
	Index          int    `json:"index"`
	Text           string `json:"text"`
	HasTextContent bool   `json:"has_text_content"`
	Error          string `json:"error,omitempty"`
}

type TableCandidate struct {
	Page    int    `json:"page"`
	Content string `json:"content"`
}

// Extraction is a stored DocumentResult together with its source object.
type Extraction struct {
	ID           string       `json:"id" db:"id"`
	Filename     string       `json:"filename" db:"filename"`
	FileSize     int64        `json:"file_size" db:"file_size"`
	S3Key        string       `json:"s3_key" db:"s3_key"`
	Title        string       `json:"title" db:"title"`
	Author       string       `json:"author" db:"author"`
	TotalPages   int          `json:"total_pages" db:"total_pages"`
	Pages        []PageResult `json:"pages" db:"-"`
	LastModified time.Time    `json:"last_modified" db:"last_modified"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

type UploadRequest struct {
	File         []byte
	Filename     string
	ContentType  string
	LastModified time.Time
}
