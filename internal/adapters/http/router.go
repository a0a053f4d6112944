package httpadapter

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/avolkov/whitepaper-library/internal/core/domain"
	"github.com/avolkov/whitepaper-library/internal/core/ports"
	"github.com/avolkov/whitepaper-library/internal/observability/metrics"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

// maxUploadMemory bounds the in-memory part of multipart parsing; larger
// uploads spill to temp files.
const maxUploadMemory = 32 << 20

type Router struct {
	ingestor ports.WhitepaperIngestor
	browser  ports.LibraryBrowser
	remover  ports.WhitepaperRemover
	repo     ports.WhitepaperRepository
	stage    ports.FileStage
	taxonomy domain.Taxonomy
	metrics  *metrics.HTTPServerMetrics
	index    *template.Template
}

func NewRouter(
	ingestor ports.WhitepaperIngestor,
	browser ports.LibraryBrowser,
	remover ports.WhitepaperRemover,
	repo ports.WhitepaperRepository,
	stage ports.FileStage,
	taxonomy domain.Taxonomy,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		ingestor: ingestor,
		browser:  browser,
		remover:  remover,
		repo:     repo,
		stage:    stage,
		taxonomy: taxonomy,
		metrics:  httpMetrics,
		index:    template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl")),
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", rt.handleIndex)
	mux.HandleFunc("/download/", rt.handleDownload)
	mux.HandleFunc("/export.xlsx", rt.handleExport)
	mux.HandleFunc("/healthz", rt.handleHealthz)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
		return requestIDMiddleware(accessLogMiddleware(rt.metrics.Middleware("server", mux)))
	}
	return requestIDMiddleware(accessLogMiddleware(mux))
}

func (rt *Router) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, `{"status":"ok"}`)
}

func (rt *Router) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	filter := filterFromQuery(r)

	switch r.Method {
	case http.MethodGet:
		rt.renderIndex(w, r, filter, "", false)
	case http.MethodPost:
		rt.handleIndexPost(w, r, filter)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// filterFromQuery reads the listing filters from the query string. POST
// requests carry them there too, since both forms submit to the current URL.
func filterFromQuery(r *http.Request) domain.ListFilter {
	q := r.URL.Query()
	return domain.ListFilter{
		MainCategory: strings.TrimSpace(q.Get("filter_main_category")),
		Industry:     strings.TrimSpace(q.Get("filter_industry")),
		Sort:         domain.ParseSortOrder(q.Get("sort_order")),
	}
}

func (rt *Router) handleIndexPost(w http.ResponseWriter, r *http.Request, filter domain.ListFilter) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		rt.renderIndex(w, r, filter, "Error: could not parse the submitted form.", true)
		return
	}

	if r.FormValue("action") == "delete" {
		rt.handleDelete(w, r, filter)
		return
	}
	rt.handleUpload(w, r, filter)
}

func (rt *Router) handleDelete(w http.ResponseWriter, r *http.Request, filter domain.ListFilter) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("delete_id")), 10, 64)
	if err == nil {
		err = rt.remover.Delete(r.Context(), id)
	}
	if err != nil {
		slog.Error("delete_whitepaper_failed", "error", err)
		rt.renderIndex(w, r, filter, "Error deleting whitepaper: "+err.Error(), true)
		return
	}

	target := "/"
	if query := filterQuery(filter); query != "" {
		target += "?" + query
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (rt *Router) handleUpload(w http.ResponseWriter, r *http.Request, filter domain.ListFilter) {
	input := domain.IngestInput{
		APIKey: strings.TrimSpace(r.FormValue("api_key")),
		URL:    strings.TrimSpace(r.FormValue("pdf_url")),
	}

	file, header, err := r.FormFile("pdf_file")
	if err == nil && header.Filename != "" {
		defer file.Close()
		input.File = file
		input.Filename = header.Filename
	}

	start := time.Now()
	_, err = rt.ingestor.Ingest(r.Context(), input)
	if err != nil {
		rt.recordIngest(ingestOutcome(err), start)
		slog.Warn("ingest_failed", "error", err)
		rt.renderIndex(w, r, filter, bannerMessage(err), true)
		return
	}

	rt.recordIngest("success", start)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (rt *Router) recordIngest(outcome string, start time.Time) {
	if rt.metrics != nil {
		rt.metrics.RecordIngest("server", outcome, time.Since(start))
	}
}

func ingestOutcome(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrValidation):
		return "validation"
	case domain.IsKind(err, domain.ErrFetch):
		return "fetch"
	case domain.IsKind(err, domain.ErrEmptyText):
		return "empty_text"
	case domain.IsKind(err, domain.ErrExtraction):
		return "extraction"
	case domain.IsKind(err, domain.ErrMalformedReply):
		return "malformed_reply"
	default:
		return "error"
	}
}

func (rt *Router) renderIndex(w http.ResponseWriter, r *http.Request, filter domain.ListFilter, message string, isError bool) {
	whitepapers, err := rt.browser.List(r.Context(), filter)
	if err != nil {
		slog.Error("list_whitepapers_failed", "error", err)
		http.Error(w, "failed to load the whitepaper library", http.StatusInternalServerError)
		return
	}

	view := indexView{
		Message:            message,
		IsError:            isError,
		Rows:               buildRows(whitepapers),
		MainCategories:     rt.taxonomy.MainCategories,
		Industries:         rt.taxonomy.Industries,
		FilterMainCategory: filter.MainCategory,
		FilterIndustry:     filter.Industry,
		SortOrder:          string(filter.Sort),
		FilterQuery:        template.URL(filterQuery(filter)),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := rt.index.Execute(w, view); err != nil {
		slog.Error("render_index_failed", "error", err)
	}
}

func (rt *Router) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/download/"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	path, err := rt.repo.GetFilePath(r.Context(), id)
	if err != nil || path == "" {
		http.Error(w, "No local file available for this whitepaper.", http.StatusNotFound)
		return
	}

	file, err := rt.stage.Open(r.Context(), path)
	if err != nil {
		http.Error(w, "File not found on server.", http.StatusNotFound)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	if _, err := io.Copy(w, file); err != nil {
		slog.Warn("download_interrupted", "id", id, "error", err)
	}
}
