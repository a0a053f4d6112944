package bootstrap

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/avolkov/whitepaper-library/internal/config"
	"github.com/avolkov/whitepaper-library/internal/core/domain"
	"github.com/avolkov/whitepaper-library/internal/core/ports"
	"github.com/avolkov/whitepaper-library/internal/core/usecase"
	"github.com/avolkov/whitepaper-library/internal/infrastructure/extractor/pdftext"
	"github.com/avolkov/whitepaper-library/internal/infrastructure/fetch/httpfetch"
	"github.com/avolkov/whitepaper-library/internal/infrastructure/llm/openai"
	"github.com/avolkov/whitepaper-library/internal/infrastructure/repository/sqlite"
	"github.com/avolkov/whitepaper-library/internal/infrastructure/resilience"
	"github.com/avolkov/whitepaper-library/internal/infrastructure/storage/localfs"
	"github.com/avolkov/whitepaper-library/internal/observability/metrics"
)

type App struct {
	Config   config.Config
	Taxonomy domain.Taxonomy

	Repo    ports.WhitepaperRepository
	Stage   ports.FileStage
	Metrics *metrics.HTTPServerMetrics

	IngestUC ports.WhitepaperIngestor
	BrowseUC ports.LibraryBrowser
	DeleteUC ports.WhitepaperRemover

	closeFn func()
}

func New(cfg config.Config) (*App, error) {
	taxonomy, err := config.LoadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}

	db, err := sqlite.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := sqlite.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	repo := sqlite.NewWhitepaperRepository(db)

	stage, err := localfs.New(cfg.UploadDir)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init upload stage: %w", err)
	}

	fetcher := httpfetch.New(time.Duration(cfg.FetchTimeoutSeconds) * time.Second)
	extractor := pdftext.NewExtractor()

	classifier := openai.New(
		openai.Config{
			BaseURL:      cfg.OpenAIBaseURL,
			Model:        cfg.OpenAIModel,
			SnippetLimit: cfg.SnippetLimit,
		},
		taxonomy,
		rate.NewLimiter(rate.Limit(cfg.ClassifyRateRPS), cfg.ClassifyRateBurst),
		resilience.NewExecutor(resilience.DefaultConfig()),
	)

	return &App{
		Config:   cfg,
		Taxonomy: taxonomy,
		Repo:     repo,
		Stage:    stage,
		Metrics:  metrics.NewHTTPServerMetrics("whitepaper-library"),

		IngestUC: usecase.NewIngestWhitepaperUseCase(repo, stage, fetcher, extractor, classifier),
		BrowseUC: usecase.NewBrowseLibraryUseCase(repo),
		DeleteUC: usecase.NewDeleteWhitepaperUseCase(repo, stage),

		closeFn: func() {
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
