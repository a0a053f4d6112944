package httpadapter

import (
	"html/template"
	"net/url"

	"github.com/avolkov/whitepaper-library/internal/core/domain"
)

// libraryRow is one rendered table row. Numbering is positional within the
// current view, not the database id.
type libraryRow struct {
	No           int
	ID           int64
	Title        string
	MainCategory string
	Industry     string
	Source       string
	SourceURL    string
	HasFile      bool
	ShortSummary string
	CreatedAt    string
}

type indexView struct {
	Message            string
	IsError            bool
	Rows               []libraryRow
	MainCategories     []string
	Industries         []string
	FilterMainCategory string
	FilterIndustry     string
	SortOrder          string
	FilterQuery        template.URL
}

func buildRows(whitepapers []domain.Whitepaper) []libraryRow {
	rows := make([]libraryRow, 0, len(whitepapers))
	for i, wp := range whitepapers {
		rows = append(rows, libraryRow{
			No:           i + 1,
			ID:           wp.ID,
			Title:        wp.Title,
			MainCategory: wp.MainCategory,
			Industry:     wp.Industry,
			Source:       wp.Source,
			SourceURL:    wp.SourceURL(),
			HasFile:      wp.FilePath != "",
			ShortSummary: wp.ShortSummary,
			CreatedAt:    wp.CreatedAt,
		})
	}
	return rows
}

// filterQuery rebuilds the non-empty filter parameters so redirects and links
// keep the current view.
func filterQuery(filter domain.ListFilter) string {
	values := url.Values{}
	if filter.MainCategory != "" {
		values.Set("filter_main_category", filter.MainCategory)
	}
	if filter.Industry != "" {
		values.Set("filter_industry", filter.Industry)
	}
	if filter.Sort == domain.SortOldest {
		values.Set("sort_order", string(filter.Sort))
	}
	return values.Encode()
}
