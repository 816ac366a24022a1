package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"worktrack/internal/modules/tracker/domain"
	trackerout "worktrack/internal/modules/tracker/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteHistoryProjector maintains the per-day read model. The JSON
// snapshot stays the source of truth; this table exists so reports can
// sort and limit without loading every session.
type SQLiteHistoryProjector struct {
	db *sql.DB
}

func NewSQLiteHistoryProjector(dbPath string) (*SQLiteHistoryProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteHistoryProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return projector, nil
}

var _ trackerout.HistoryProjector = (*SQLiteHistoryProjector)(nil)

func (p *SQLiteHistoryProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS days (
  date_key TEXT PRIMARY KEY,
  total_seconds INTEGER NOT NULL,
  session_count INTEGER NOT NULL
);
`
	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create days table: %w", err)
	}
	return nil
}

func (p *SQLiteHistoryProjector) Reset(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM days`); err != nil {
		return fmt.Errorf("reset days: %w", err)
	}
	return nil
}

func (p *SQLiteHistoryProjector) UpsertDay(ctx context.Context, dateKey string, record domain.DailyRecord) error {
	const stmt = `
INSERT INTO days (date_key, total_seconds, session_count)
VALUES (?, ?, ?)
ON CONFLICT(date_key) DO UPDATE SET
  total_seconds=excluded.total_seconds,
  session_count=excluded.session_count;
`
	if _, err := p.db.ExecContext(ctx, stmt, dateKey, record.TotalSeconds, len(record.Sessions)); err != nil {
		return fmt.Errorf("upsert day %s: %w", dateKey, err)
	}
	return nil
}

func (p *SQLiteHistoryProjector) ListDays(ctx context.Context, limit int) ([]domain.DaySummary, error) {
	query := `SELECT date_key, total_seconds, session_count FROM days ORDER BY date_key DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query days: %w", err)
	}
	defer rows.Close()

	days := []domain.DaySummary{}
	for rows.Next() {
		var day domain.DaySummary
		if err := rows.Scan(&day.DateKey, &day.TotalSeconds, &day.SessionCount); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate days: %w", err)
	}
	return days, nil
}

func (p *SQLiteHistoryProjector) Close() error {
	return p.db.Close()
}
