package httpadapter

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/avolkov/whitepaper-library/internal/core/domain"
)

const exportSheet = "Whitepapers"

var exportHeader = []string{
	"No.", "Title", "Main Category", "Industry", "Source", "Short Summary", "Created At (UTC)",
}

// handleExport streams the current filtered view as an Excel workbook.
func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	whitepapers, err := rt.browser.List(r.Context(), filterFromQuery(r))
	if err != nil {
		slog.Error("export_list_failed", "error", err)
		http.Error(w, "failed to load the whitepaper library", http.StatusInternalServerError)
		return
	}

	workbook, err := buildWorkbook(whitepapers)
	if err != nil {
		slog.Error("export_build_failed", "error", err)
		http.Error(w, "failed to build the export workbook", http.StatusInternalServerError)
		return
	}
	defer workbook.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="whitepapers.xlsx"`)
	if err := workbook.Write(w); err != nil {
		slog.Warn("export_interrupted", "error", err)
	}
}

func buildWorkbook(whitepapers []domain.Whitepaper) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetIndex, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(sheetIndex)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	for i, wp := range whitepapers {
		row := []any{i + 1, wp.Title, wp.MainCategory, wp.Industry, wp.Source, wp.ShortSummary, wp.CreatedAt}
		cell := "A" + strconv.Itoa(i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}
