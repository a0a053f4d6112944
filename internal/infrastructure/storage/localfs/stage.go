package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Stage keeps uploaded PDFs under a fixed upload root. File lifetime is tied
// to the owning record: staged on ingestion, removed on deletion.
type Stage struct {
	root string
	now  func() time.Time
}

func New(root string) (*Stage, error) {
	if root == "" {
		root = "./uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Stage{root: root, now: time.Now}, nil
}

// Stage writes the upload to `<unix-ts>_<sanitized-filename>` under the root
// and returns the resulting path.
func (s *Stage) Stage(_ context.Context, originalFilename string, data io.Reader) (string, error) {
	name := fmt.Sprintf("%d_%s", s.now().Unix(), sanitizeFilename(originalFilename))
	path := filepath.Join(s.root, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create staged file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return "", fmt.Errorf("write staged file: %w", err)
	}
	return path, nil
}

func (s *Stage) Open(_ context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open staged file: %w", err)
	}
	return f, nil
}

// Remove is best-effort: a file already missing from disk is not an error.
func (s *Stage) Remove(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove staged file: %w", err)
	}
	return nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == ".." {
		return "document.pdf"
	}
	return base
}
