package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/insureco/advisor-cli/internal/model"
)

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id                TEXT PRIMARY KEY,
	source            TEXT NOT NULL,
	client_count      INTEGER NOT NULL,
	opportunity_count INTEGER NOT NULL,
	result            TEXT NOT NULL,
	tables_snapshot   TEXT NOT NULL,
	created_at        TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);

CREATE TABLE IF NOT EXISTS contacted (
	client_id  INTEGER NOT NULL,
	category   TEXT NOT NULL,
	marked_at  TIMESTAMP NOT NULL,
	PRIMARY KEY (client_id, category)
);
`

// SQLiteStore persists runs in a local SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies WAL
// pragmas for concurrent reads during writes.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open sqlite database")
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: apply %q", pragma)
		}
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "store: run sqlite migration")
	}
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, source string, res *model.AnalysisResult, tables *model.Tables) (*model.Run, error) {
	if res == nil {
		return nil, eris.New("store: nil analysis result")
	}

	payload, err := json.Marshal(res)
	if err != nil {
		return nil, eris.Wrap(err, "store: marshal analysis result")
	}
	snapshot, err := json.Marshal(tables)
	if err != nil {
		return nil, eris.Wrap(err, "store: marshal table snapshot")
	}

	run := &model.Run{
		ID:               uuid.NewString(),
		Source:           source,
		ClientCount:      res.ClientCount,
		OpportunityCount: len(res.Opportunities),
		Result:           res,
		Tables:           tables,
		CreatedAt:        time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, client_count, opportunity_count, result, tables_snapshot, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.ClientCount, run.OpportunityCount, string(payload), string(snapshot), run.CreatedAt)
	if err != nil {
		return nil, eris.Wrap(err, "store: insert run")
	}

	zap.L().Info("store: run saved",
		zap.String("run_id", run.ID),
		zap.Int("opportunities", run.OpportunityCount))
	return run, nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, client_count, opportunity_count, result, tables_snapshot, created_at
		 FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

func (s *SQLiteStore) LatestRun(ctx context.Context) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, client_count, opportunity_count, result, tables_snapshot, created_at
		 FROM runs ORDER BY created_at DESC LIMIT 1`)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, source, client_count, opportunity_count, created_at FROM runs`
	var args []any
	if filter.Source != "" {
		query += ` WHERE source = ?`
		args = append(args, filter.Source)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, normalizeLimit(filter.Limit), filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "store: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		if err := rows.Scan(&run.ID, &run.Source, &run.ClientCount, &run.OpportunityCount, &run.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan run row")
		}
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "store: iterate run rows")
}

func (s *SQLiteStore) SetContacted(ctx context.Context, clientID int64, category model.Category, contacted bool) error {
	if contacted {
		_, err := s.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO contacted (client_id, category, marked_at) VALUES (?, ?, ?)`,
			clientID, string(category), time.Now().UTC())
		return eris.Wrap(err, "store: mark contacted")
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM contacted WHERE client_id = ? AND category = ?`,
		clientID, string(category))
	return eris.Wrap(err, "store: clear contacted")
}

func (s *SQLiteStore) Contacted(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT client_id, category FROM contacted`)
	if err != nil {
		return nil, eris.Wrap(err, "store: query contacted")
	}
	defer rows.Close()

	marks := make(map[string]bool)
	for rows.Next() {
		var clientID int64
		var category string
		if err := rows.Scan(&clientID, &category); err != nil {
			return nil, eris.Wrap(err, "store: scan contacted row")
		}
		marks[ContactKey(clientID, model.Category(category))] = true
	}
	return marks, eris.Wrap(rows.Err(), "store: iterate contacted rows")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanRun(row *sql.Row) (*model.Run, error) {
	var run model.Run
	var payload, snapshot string
	err := row.Scan(&run.ID, &run.Source, &run.ClientCount, &run.OpportunityCount, &payload, &snapshot, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "store: scan run")
	}
	if err := json.Unmarshal([]byte(payload), &run.Result); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal run result")
	}
	if err := json.Unmarshal([]byte(snapshot), &run.Tables); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal table snapshot")
	}
	return &run, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}
