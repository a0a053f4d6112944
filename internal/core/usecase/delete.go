package usecase

import (
	"context"
	"fmt"

	"github.com/avolkov/whitepaper-library/internal/core/domain"
	"github.com/avolkov/whitepaper-library/internal/core/ports"
)

type DeleteWhitepaperUseCase struct {
	repo  ports.WhitepaperRepository
	stage ports.FileStage
}

func NewDeleteWhitepaperUseCase(repo ports.WhitepaperRepository, stage ports.FileStage) *DeleteWhitepaperUseCase {
	return &DeleteWhitepaperUseCase{repo: repo, stage: stage}
}

// Delete removes the record and best-effort removes its staged file. Deleting
// an unknown id is a no-op; a filesystem failure never blocks row removal.
func (uc *DeleteWhitepaperUseCase) Delete(ctx context.Context, id int64) error {
	filePath, err := uc.repo.GetFilePath(ctx, id)
	if err != nil {
		if domain.IsKind(err, domain.ErrWhitepaperNotFound) {
			return nil
		}
		return fmt.Errorf("look up file path: %w", err)
	}

	if filePath != "" {
		_ = uc.stage.Remove(ctx, filePath)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete whitepaper: %w", err)
	}
	return nil
}
