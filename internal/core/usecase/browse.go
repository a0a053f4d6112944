package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/avolkov/whitepaper-library/internal/core/domain"
	"github.com/avolkov/whitepaper-library/internal/core/ports"
)

type BrowseLibraryUseCase struct {
	repo ports.WhitepaperRepository
}

func NewBrowseLibraryUseCase(repo ports.WhitepaperRepository) *BrowseLibraryUseCase {
	return &BrowseLibraryUseCase{repo: repo}
}

// List applies equality filters and orders by creation time. CreatedAt is a
// canonical UTC RFC-3339 string, so lexicographic comparison is chronological.
func (uc *BrowseLibraryUseCase) List(ctx context.Context, filter domain.ListFilter) ([]domain.Whitepaper, error) {
	all, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list whitepapers: %w", err)
	}

	filtered := make([]domain.Whitepaper, 0, len(all))
	for _, wp := range all {
		if filter.Matches(wp) {
			filtered = append(filtered, wp)
		}
	}

	descending := filter.Sort != domain.SortOldest
	sort.SliceStable(filtered, func(i, j int) bool {
		cmp := strings.Compare(filtered[i].CreatedAt, filtered[j].CreatedAt)
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})

	return filtered, nil
}
