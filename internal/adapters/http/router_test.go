package httpadapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/avolkov/whitepaper-library/internal/core/domain"
)

type browserStub struct {
	items     []domain.Whitepaper
	gotFilter domain.ListFilter
	err       error
}

func (b *browserStub) List(_ context.Context, filter domain.ListFilter) ([]domain.Whitepaper, error) {
	b.gotFilter = filter
	if b.err != nil {
		return nil, b.err
	}
	return b.items, nil
}

type ingestorStub struct {
	gotInput  domain.IngestInput
	gotFile   []byte
	callCount int
	err       error
}

func (i *ingestorStub) Ingest(_ context.Context, input domain.IngestInput) (*domain.Whitepaper, error) {
	i.callCount++
	i.gotInput = input
	if input.File != nil {
		data, err := io.ReadAll(input.File)
		if err != nil {
			return nil, err
		}
		i.gotFile = data
	}
	if i.err != nil {
		return nil, i.err
	}
	return &domain.Whitepaper{ID: 1}, nil
}

type removerStub struct {
	gotID int64
	err   error
}

func (r *removerStub) Delete(_ context.Context, id int64) error {
	r.gotID = id
	return r.err
}

type repoStub struct {
	paths map[int64]string
}

func (r *repoStub) Create(context.Context, *domain.Whitepaper) error     { return nil }
func (r *repoStub) Delete(context.Context, int64) error                  { return nil }
func (r *repoStub) ListAll(context.Context) ([]domain.Whitepaper, error) { return nil, nil }

func (r *repoStub) GetFilePath(_ context.Context, id int64) (string, error) {
	path, ok := r.paths[id]
	if !ok {
		return "", domain.WrapError(domain.ErrWhitepaperNotFound, "get file path", fmt.Errorf("no whitepaper with id %d", id))
	}
	return path, nil
}

type stageStub struct {
	files map[string][]byte
}

func (s *stageStub) Stage(_ context.Context, name string, data io.Reader) (string, error) {
	content, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	if s.files == nil {
		s.files = map[string][]byte{}
	}
	s.files[name] = content
	return name, nil
}

func (s *stageStub) Open(_ context.Context, path string) (io.ReadCloser, error) {
	content, ok := s.files[path]
	if !ok {
		return nil, domain.WrapError(domain.ErrWhitepaperNotFound, "open staged file", fmt.Errorf("missing %s", path))
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (s *stageStub) Remove(_ context.Context, path string) error {
	delete(s.files, path)
	return nil
}

type routerFixture struct {
	browser  *browserStub
	ingestor *ingestorStub
	remover  *removerStub
	repo     *repoStub
	stage    *stageStub
	handler  http.Handler
}

func newRouterFixture(items []domain.Whitepaper) *routerFixture {
	f := &routerFixture{
		browser:  &browserStub{items: items},
		ingestor: &ingestorStub{},
		remover:  &removerStub{},
		repo:     &repoStub{paths: map[int64]string{}},
		stage:    &stageStub{files: map[string][]byte{}},
	}
	router := NewRouter(f.ingestor, f.browser, f.remover, f.repo, f.stage, domain.DefaultTaxonomy(), nil)
	f.handler = router.Handler()
	return f
}

func sampleLibrary() []domain.Whitepaper {
	return []domain.Whitepaper{
		{
			ID:           4,
			Title:        "Q3 Retail Outlook",
			Source:       "File: q3.pdf",
			MainCategory: "Retail",
			Industry:     "Energy",
			ShortSummary: "Retail energy market summary.",
			FilePath:     "uploads/1700000000_q3.pdf",
			CreatedAt:    "2026-03-14T09:30:00Z",
		},
		{
			ID:           2,
			Title:        "Custody Trends",
			Source:       "URL: https://example.com/custody.pdf",
			MainCategory: "Institutional",
			Industry:     "Financial Services",
			ShortSummary: "Custody overview.",
			CreatedAt:    "2026-02-01T12:00:00Z",
		},
	}
}

func TestIndexRendersLibrary(t *testing.T) {
	fixture := newRouterFixture(sampleLibrary())

	rec := httptest.NewRecorder()
	fixture.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Q3 Retail Outlook",
		"Custody Trends",
		`<a href="/download/4">Download PDF</a>`,
		`<a href="https://example.com/custody.pdf" target="_blank">Open Source</a>`,
		"No whitepapers saved yet",
	} {
		if want == "No whitepapers saved yet" {
			if strings.Contains(body, want) {
				t.Fatalf("body unexpectedly contains %q", want)
			}
			continue
		}
		if !strings.Contains(body, want) {
			t.Fatalf("body does not contain %q", want)
		}
	}
}

func TestIndexEmptyLibraryMessage(t *testing.T) {
	fixture := newRouterFixture(nil)

	rec := httptest.NewRecorder()
	fixture.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(rec.Body.String(), "No whitepapers saved yet. Upload one above.") {
		t.Fatalf("empty library message missing from body")
	}
}

func TestIndexParsesFilters(t *testing.T) {
	fixture := newRouterFixture(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/?filter_main_category=Retail&filter_industry=Energy&sort_order=oldest", nil)
	fixture.handler.ServeHTTP(rec, req)

	got := fixture.browser.gotFilter
	if got.MainCategory != "Retail" || got.Industry != "Energy" || got.Sort != domain.SortOldest {
		t.Fatalf("filter = %+v, want Retail/Energy/oldest", got)
	}
	if !strings.Contains(rec.Body.String(), `<option value="Retail" selected>Retail</option>`) {
		t.Fatalf("selected category option missing from body")
	}
}

func TestUnknownPathReturnsNotFound(t *testing.T) {
	fixture := newRouterFixture(nil)

	rec := httptest.NewRecorder()
	fixture.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func multipartUpload(t *testing.T, fields map[string]string, filename string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	if filename != "" {
		part, err := writer.CreateFormFile("pdf_file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(fileContent); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestUploadFileRedirectsOnSuccess(t *testing.T) {
	fixture := newRouterFixture(nil)

	body, contentType := multipartUpload(t, map[string]string{
		"action":  "upload",
		"api_key": "sk-test",
	}, "report.pdf", []byte("%PDF-1.4 fake"))

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	fixture.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != "/" {
		t.Fatalf("redirect location = %q, want /", got)
	}
	if fixture.ingestor.gotInput.APIKey != "sk-test" {
		t.Fatalf("api key = %q, want sk-test", fixture.ingestor.gotInput.APIKey)
	}
	if fixture.ingestor.gotInput.Filename != "report.pdf" {
		t.Fatalf("filename = %q, want report.pdf", fixture.ingestor.gotInput.Filename)
	}
	if string(fixture.ingestor.gotFile) != "%PDF-1.4 fake" {
		t.Fatalf("file content = %q", fixture.ingestor.gotFile)
	}
}

func TestUploadValidationErrorShowsExactBanner(t *testing.T) {
	fixture := newRouterFixture(nil)
	fixture.ingestor.err = domain.NewUserError(domain.ErrValidation, "OpenAI API key is required.")

	body, contentType := multipartUpload(t, map[string]string{"action": "upload"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	fixture.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `<div class="message error">OpenAI API key is required.</div>`) {
		t.Fatalf("error banner missing from body:\n%s", rec.Body.String())
	}
}

func TestUploadPipelineErrorGetsGenericPrefix(t *testing.T) {
	fixture := newRouterFixture(nil)
	fixture.ingestor.err = domain.WrapError(domain.ErrFetch, "fetch document", errors.New("unexpected status 404 Not Found for https://example.com/x.pdf"))

	body, contentType := multipartUpload(t, map[string]string{
		"action":  "upload",
		"api_key": "sk-test",
		"pdf_url": "https://example.com/x.pdf",
	}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	fixture.handler.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "Error: ") {
		t.Fatalf("generic error prefix missing from body")
	}
	if fixture.ingestor.gotInput.URL != "https://example.com/x.pdf" {
		t.Fatalf("url = %q", fixture.ingestor.gotInput.URL)
	}
}

func TestDeleteRedirectsPreservingFilters(t *testing.T) {
	fixture := newRouterFixture(nil)

	form := url.Values{"action": {"delete"}, "delete_id": {"7"}}
	req := httptest.NewRequest(http.MethodPost, "/?filter_main_category=Retail&sort_order=oldest", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	fixture.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if fixture.remover.gotID != 7 {
		t.Fatalf("deleted id = %d, want 7", fixture.remover.gotID)
	}
	location, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse redirect location: %v", err)
	}
	q := location.Query()
	if q.Get("filter_main_category") != "Retail" || q.Get("sort_order") != "oldest" {
		t.Fatalf("redirect location = %q, filters not preserved", location)
	}
}

func TestDeleteBadIDShowsBanner(t *testing.T) {
	fixture := newRouterFixture(nil)

	form := url.Values{"action": {"delete"}, "delete_id": {"abc"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	fixture.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Error deleting whitepaper: ") {
		t.Fatalf("delete error banner missing from body")
	}
}

func TestDownloadServesStagedFile(t *testing.T) {
	fixture := newRouterFixture(nil)
	fixture.repo.paths[4] = "uploads/1700000000_q3.pdf"
	fixture.stage.files["uploads/1700000000_q3.pdf"] = []byte("%PDF-1.4 staged")

	rec := httptest.NewRecorder()
	fixture.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/4", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="1700000000_q3.pdf"` {
		t.Fatalf("content disposition = %q", got)
	}
	if rec.Body.String() != "%PDF-1.4 staged" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestDownloadUnknownRecord(t *testing.T) {
	fixture := newRouterFixture(nil)

	rec := httptest.NewRecorder()
	fixture.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/99", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if !strings.Contains(rec.Body.String(), "No local file available for this whitepaper.") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestDownloadMissingFileOnDisk(t *testing.T) {
	fixture := newRouterFixture(nil)
	fixture.repo.paths[4] = "uploads/gone.pdf"

	rec := httptest.NewRecorder()
	fixture.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/4", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if !strings.Contains(rec.Body.String(), "File not found on server.") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestExportWritesWorkbook(t *testing.T) {
	fixture := newRouterFixture(sampleLibrary())

	rec := httptest.NewRecorder()
	fixture.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export.xlsx?filter_main_category=Retail", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if fixture.browser.gotFilter.MainCategory != "Retail" {
		t.Fatalf("export filter = %+v, want Retail", fixture.browser.gotFilter)
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer workbook.Close()

	rows, err := workbook.GetRows(exportSheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("row count = %d, want 3", len(rows))
	}
	if rows[0][1] != "Title" || rows[1][1] != "Q3 Retail Outlook" {
		t.Fatalf("unexpected rows: %v", rows[:2])
	}
}

func TestHealthz(t *testing.T) {
	fixture := newRouterFixture(nil)

	rec := httptest.NewRecorder()
	fixture.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != `{"status":"ok"}` {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}
