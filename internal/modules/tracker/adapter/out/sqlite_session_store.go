package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"tasktrail/internal/modules/tracker/domain"
	trackerout "tasktrail/internal/modules/tracker/port/out"
	"tasktrail/internal/platform/sqlitedb"
)

var _ trackerout.SessionStore = (*SQLiteSessionStore)(nil)

type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(dbPath string) (*SQLiteSessionStore, error) {
	db, err := sqlitedb.Open(dbPath)
	if err != nil {
		return nil, err
	}
	store := &SQLiteSessionStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database handle.
func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  schema_version INTEGER NOT NULL,
  task_name TEXT NOT NULL,
  window_title TEXT NOT NULL,
  category TEXT NOT NULL,
  start_ms INTEGER NOT NULL,
  end_ms INTEGER NOT NULL,
  screenshot_count INTEGER NOT NULL,
  gaps_ms TEXT NOT NULL,
  confidence REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions(start_ms);
CREATE INDEX IF NOT EXISTS idx_sessions_task ON sessions(task_name);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) ReplaceWindow(ctx context.Context, from, to time.Time, sessions []domain.TaskSession) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace window: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM sessions WHERE start_ms >= ? AND start_ms < ?`, from.UnixMilli(), to.UnixMilli()); err != nil {
		return fmt.Errorf("clear window: %w", err)
	}
	const stmt = `
INSERT INTO sessions (id, schema_version, task_name, window_title, category, start_ms, end_ms, screenshot_count, gaps_ms, confidence)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  task_name=excluded.task_name,
  window_title=excluded.window_title,
  category=excluded.category,
  start_ms=excluded.start_ms,
  end_ms=excluded.end_ms,
  screenshot_count=excluded.screenshot_count,
  gaps_ms=excluded.gaps_ms,
  confidence=excluded.confidence;
`
	for _, session := range sessions {
		gaps, encodeErr := encodeGaps(session.Gaps)
		if encodeErr != nil {
			err = encodeErr
			return err
		}
		if _, err = tx.ExecContext(ctx, stmt,
			session.ID,
			domain.SchemaVersion,
			session.TaskName,
			session.WindowTitle,
			session.Category,
			session.StartTime.UnixMilli(),
			session.EndTime.UnixMilli(),
			session.ScreenshotCount,
			gaps,
			session.Confidence,
		); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace window: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) ListBetween(ctx context.Context, from, to time.Time) ([]domain.TaskSession, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, task_name, window_title, category, start_ms, end_ms, screenshot_count, gaps_ms, confidence
FROM sessions
WHERE start_ms >= ? AND start_ms < ?
ORDER BY start_ms ASC, id ASC;
`, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.TaskSession, 0)
	for rows.Next() {
		var (
			item           domain.TaskSession
			startMS, endMS int64
			gaps           string
		)
		if err := rows.Scan(&item.ID, &item.TaskName, &item.WindowTitle, &item.Category, &startMS, &endMS, &item.ScreenshotCount, &gaps, &item.Confidence); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		item.StartTime = time.UnixMilli(startMS)
		item.EndTime = time.UnixMilli(endMS)
		if item.Gaps, err = decodeGaps(gaps); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func encodeGaps(gaps []time.Duration) (string, error) {
	ms := make([]int64, 0, len(gaps))
	for _, gap := range gaps {
		ms = append(ms, gap.Milliseconds())
	}
	raw, err := json.Marshal(ms)
	if err != nil {
		return "", fmt.Errorf("encode gaps: %w", err)
	}
	return string(raw), nil
}

func decodeGaps(raw string) ([]time.Duration, error) {
	ms := []int64{}
	if err := json.Unmarshal([]byte(raw), &ms); err != nil {
		return nil, fmt.Errorf("decode gaps: %w", err)
	}
	gaps := make([]time.Duration, 0, len(ms))
	for _, v := range ms {
		gaps = append(gaps, time.Duration(v)*time.Millisecond)
	}
	return gaps, nil
}
