package pdftext

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/avolkov/whitepaper-library/internal/core/domain"
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract walks every page in order and joins per-page plain text with
// newlines. A page without a text layer contributes an empty string, so the
// result may be whitespace-only; callers decide what that means.
func (e *Extractor) Extract(_ context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "open pdf", err)
	}

	var parts []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			parts = append(parts, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n"), nil
}
