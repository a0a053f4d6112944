package ports

import (
	"context"
	"io"

	"github.com/avolkov/whitepaper-library/internal/core/domain"
)

// WhitepaperRepository persists and reads library records.
type WhitepaperRepository interface {
	Create(ctx context.Context, wp *domain.Whitepaper) error
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]domain.Whitepaper, error)
	GetFilePath(ctx context.Context, id int64) (string, error)
}

// FileStage keeps uploaded PDFs on disk for the lifetime of their record.
type FileStage interface {
	Stage(ctx context.Context, originalFilename string, data io.Reader) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Remove(ctx context.Context, path string) error
}

// TextExtractor converts raw PDF bytes into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// TextClassifier sends extracted text to a model and returns the parsed,
// coerced classification. The API key is supplied per call.
type TextClassifier interface {
	Classify(ctx context.Context, apiKey, text string) (domain.Classification, error)
}

// DocumentFetcher retrieves a PDF document from a URL.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
