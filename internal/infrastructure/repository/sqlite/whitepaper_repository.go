package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/avolkov/whitepaper-library/internal/core/domain"
)

type WhitepaperRepository struct {
	db *sql.DB
}

func NewWhitepaperRepository(db *sql.DB) *WhitepaperRepository {
	return &WhitepaperRepository{db: db}
}

// OpenDB opens the library database file, creating its directory if absent.
// The store is an embedded single-writer sqlite file, so the pool is kept at
// one connection to avoid SQLITE_BUSY under concurrent requests.
func OpenDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *WhitepaperRepository) Create(ctx context.Context, wp *domain.Whitepaper) error {
	var filePath sql.NullString
	if wp.FilePath != "" {
		filePath = sql.NullString{String: wp.FilePath, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO whitepapers (title, source, main_category, industry, short_summary, file_path, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`,
		wp.Title, wp.Source, wp.MainCategory, wp.Industry, wp.ShortSummary, filePath, wp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert whitepaper: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read inserted id: %w", err)
	}
	wp.ID = id
	return nil
}

// Delete is idempotent: removing an id that does not exist is not an error.
func (r *WhitepaperRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM whitepapers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete whitepaper: %w", err)
	}
	return nil
}

func (r *WhitepaperRepository) ListAll(ctx context.Context) ([]domain.Whitepaper, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, source, main_category, industry, short_summary, file_path, created_at
FROM whitepapers
`)
	if err != nil {
		return nil, fmt.Errorf("query whitepapers: %w", err)
	}
	defer rows.Close()

	var out []domain.Whitepaper
	for rows.Next() {
		var wp domain.Whitepaper
		var filePath sql.NullString
		if err := rows.Scan(
			&wp.ID, &wp.Title, &wp.Source, &wp.MainCategory, &wp.Industry,
			&wp.ShortSummary, &filePath, &wp.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan whitepaper: %w", err)
		}
		wp.FilePath = filePath.String
		out = append(out, wp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate whitepapers: %w", err)
	}
	return out, nil
}

func (r *WhitepaperRepository) GetFilePath(ctx context.Context, id int64) (string, error) {
	row := r.db.QueryRowContext(ctx, `SELECT file_path FROM whitepapers WHERE id = ?`, id)

	var filePath sql.NullString
	if err := row.Scan(&filePath); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.WrapError(domain.ErrWhitepaperNotFound, "get file path", fmt.Errorf("id %d", id))
		}
		return "", fmt.Errorf("scan file path: %w", err)
	}
	return filePath.String, nil
}
