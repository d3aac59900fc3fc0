package out

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tasktrail/internal/modules/capture/domain"
	captureout "tasktrail/internal/modules/capture/port/out"
	"tasktrail/internal/platform/sqlitedb"
)

var _ captureout.ObservationStore = (*SQLiteObservationStore)(nil)

type SQLiteObservationStore struct {
	db *sql.DB
}

func NewSQLiteObservationStore(dbPath string) (*SQLiteObservationStore, error) {
	db, err := sqlitedb.Open(dbPath)
	if err != nil {
		return nil, err
	}
	store := &SQLiteObservationStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database handle.
func (s *SQLiteObservationStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteObservationStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS observations (
  id TEXT PRIMARY KEY,
  captured_ms INTEGER NOT NULL,
  screenshot_path TEXT NOT NULL DEFAULT '',
  window_title TEXT NOT NULL,
  category TEXT NOT NULL,
  ocr_text TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_observations_captured ON observations(captured_ms);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create observations table: %w", err)
	}
	return nil
}

// Insert writes all observations in one transaction.
func (s *SQLiteObservationStore) Insert(ctx context.Context, observations ...domain.Observation) (err error) {
	if len(observations) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert observations: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO observations (id, captured_ms, screenshot_path, window_title, category, ocr_text, source)
VALUES (?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return fmt.Errorf("prepare insert observation: %w", err)
	}
	defer stmt.Close()

	for _, obs := range observations {
		if _, err = stmt.ExecContext(ctx,
			obs.ID,
			obs.CapturedAt.UnixMilli(),
			obs.ScreenshotPath,
			obs.WindowTitle,
			obs.Category,
			obs.OCRText,
			obs.Source,
		); err != nil {
			return fmt.Errorf("insert observation %s: %w", obs.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit observations: %w", err)
	}
	return nil
}

func (s *SQLiteObservationStore) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Observation, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, captured_ms, screenshot_path, window_title, category, ocr_text, source
FROM observations
WHERE captured_ms >= ? AND captured_ms < ?
ORDER BY captured_ms ASC, rowid ASC;
`, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("list observations: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Observation, 0)
	for rows.Next() {
		var (
			item       domain.Observation
			capturedMS int64
		)
		if err := rows.Scan(&item.ID, &capturedMS, &item.ScreenshotPath, &item.WindowTitle, &item.Category, &item.OCRText, &item.Source); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		item.CapturedAt = time.UnixMilli(capturedMS)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observations: %w", err)
	}
	return out, nil
}

func (s *SQLiteObservationStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM observations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count observations: %w", err)
	}
	return count, nil
}
