package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/avolkov/whitepaper-library/internal/core/domain"
	"github.com/avolkov/whitepaper-library/internal/core/ports"
)

// User-facing failure messages for conditions reported without an error prefix.
const (
	msgAPIKeyRequired = "OpenAI API key is required."
	msgInputRequired  = "Please upload a PDF file or provide a PDF URL."
	msgNoText         = "Could not extract any text from the PDF."
)

type IngestWhitepaperUseCase struct {
	repo       ports.WhitepaperRepository
	stage      ports.FileStage
	fetcher    ports.DocumentFetcher
	extractor  ports.TextExtractor
	classifier ports.TextClassifier
	now        func() time.Time
}

func NewIngestWhitepaperUseCase(
	repo ports.WhitepaperRepository,
	stage ports.FileStage,
	fetcher ports.DocumentFetcher,
	extractor ports.TextExtractor,
	classifier ports.TextClassifier,
) *IngestWhitepaperUseCase {
	return &IngestWhitepaperUseCase{
		repo:       repo,
		stage:      stage,
		fetcher:    fetcher,
		extractor:  extractor,
		classifier: classifier,
		now:        time.Now,
	}
}

// Ingest runs the full pipeline: validate, stage or fetch, extract, classify,
// persist. Nothing is persisted unless every upstream step succeeds.
func (uc *IngestWhitepaperUseCase) Ingest(ctx context.Context, input domain.IngestInput) (*domain.Whitepaper, error) {
	apiKey := strings.TrimSpace(input.APIKey)
	url := strings.TrimSpace(input.URL)

	if apiKey == "" {
		return nil, domain.NewUserError(domain.ErrValidation, msgAPIKeyRequired)
	}
	if input.File == nil && url == "" {
		return nil, domain.NewUserError(domain.ErrValidation, msgInputRequired)
	}

	var (
		pdfBytes []byte
		source   string
		filePath string
		err      error
	)
	if input.File != nil {
		filePath, pdfBytes, err = uc.stageAndReadBack(ctx, input.Filename, input.File)
		if err != nil {
			return nil, err
		}
		source = domain.SourceTagFile + input.Filename
	} else {
		pdfBytes, err = uc.fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		source = domain.SourceTagURL + url
	}

	wp, err := uc.classifyAndBuild(ctx, apiKey, pdfBytes, source, filePath)
	if err != nil {
		uc.discardStaged(ctx, filePath)
		return nil, err
	}

	if err := uc.repo.Create(ctx, wp); err != nil {
		uc.discardStaged(ctx, filePath)
		return nil, fmt.Errorf("persist whitepaper: %w", err)
	}
	return wp, nil
}

func (uc *IngestWhitepaperUseCase) stageAndReadBack(ctx context.Context, filename string, data io.Reader) (string, []byte, error) {
	path, err := uc.stage.Stage(ctx, filename, data)
	if err != nil {
		return "", nil, fmt.Errorf("stage uploaded file: %w", err)
	}

	reader, err := uc.stage.Open(ctx, path)
	if err != nil {
		return "", nil, fmt.Errorf("reopen staged file: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", nil, fmt.Errorf("read staged file: %w", err)
	}
	return path, raw, nil
}

func (uc *IngestWhitepaperUseCase) classifyAndBuild(ctx context.Context, apiKey string, pdfBytes []byte, source, filePath string) (*domain.Whitepaper, error) {
	text, err := uc.extractor.Extract(ctx, pdfBytes)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewUserError(domain.ErrEmptyText, msgNoText)
	}

	cls, err := uc.classifier.Classify(ctx, apiKey, text)
	if err != nil {
		return nil, err
	}

	return &domain.Whitepaper{
		Title:        cls.Title,
		Source:       source,
		MainCategory: cls.MainCategory,
		Industry:     cls.Industry,
		ShortSummary: cls.ShortSummary,
		FilePath:     filePath,
		CreatedAt:    uc.now().UTC().Format(time.RFC3339),
	}, nil
}

// discardStaged keeps the file stage in its pre-failure state when a
// downstream step fails. Removal is best-effort.
func (uc *IngestWhitepaperUseCase) discardStaged(ctx context.Context, filePath string) {
	if filePath == "" {
		return
	}
	_ = uc.stage.Remove(ctx, filePath)
}
