package ports

import (
	"context"

	"github.com/avolkov/whitepaper-library/internal/core/domain"
)

// WhitepaperIngestor is the inbound contract for the ingestion pipeline.
type WhitepaperIngestor interface {
	Ingest(ctx context.Context, input domain.IngestInput) (*domain.Whitepaper, error)
}

// LibraryBrowser is the inbound read model for the filtered, sorted listing.
type LibraryBrowser interface {
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Whitepaper, error)
}

// WhitepaperRemover deletes a record and best-effort removes its staged file.
type WhitepaperRemover interface {
	Delete(ctx context.Context, id int64) error
}
