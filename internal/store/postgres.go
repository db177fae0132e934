package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/insureco/advisor-cli/internal/model"
)

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id                UUID PRIMARY KEY,
	source            TEXT NOT NULL,
	client_count      INTEGER NOT NULL,
	opportunity_count INTEGER NOT NULL,
	result            JSONB NOT NULL,
	tables_snapshot   JSONB NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);

CREATE TABLE IF NOT EXISTS contacted (
	client_id  BIGINT NOT NULL,
	category   TEXT NOT NULL,
	marked_at  TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (client_id, category)
);
`

// Pool is the subset of pgxpool.Pool the store uses. Tests substitute a
// pgxmock pool through this interface.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore persists runs in a shared Postgres database.
type PostgresStore struct {
	pool Pool
}

// NewPostgres connects a pool to databaseURL.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "store: parse postgres url")
	}
	cfg.MaxConns = 8
	cfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "store: connect postgres")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "store: run postgres migration")
	}
	return nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, source string, res *model.AnalysisResult, tables *model.Tables) (*model.Run, error) {
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

	_, err = s.pool.Exec(ctx,
		`INSERT INTO runs (id, source, client_count, opportunity_count, result, tables_snapshot, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.ID, run.Source, run.ClientCount, run.OpportunityCount, payload, snapshot, run.CreatedAt)
	if err != nil {
		return nil, eris.Wrap(err, "store: insert run")
	}

	zap.L().Info("store: run saved",
		zap.String("run_id", run.ID),
		zap.Int("opportunities", run.OpportunityCount))
	return run, nil
}

func (s *PostgresStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, source, client_count, opportunity_count, result, tables_snapshot, created_at
		 FROM runs WHERE id = $1`, id)
	return scanPostgresRun(row)
}

func (s *PostgresStore) LatestRun(ctx context.Context) (*model.Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, source, client_count, opportunity_count, result, tables_snapshot, created_at
		 FROM runs ORDER BY created_at DESC LIMIT 1`)
	return scanPostgresRun(row)
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, source, client_count, opportunity_count, created_at FROM runs`
	var args []any
	if filter.Source != "" {
		query += ` WHERE source = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, filter.Source, normalizeLimit(filter.Limit), filter.Offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, normalizeLimit(filter.Limit), filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
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

func (s *PostgresStore) SetContacted(ctx context.Context, clientID int64, category model.Category, contacted bool) error {
	if contacted {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO contacted (client_id, category, marked_at) VALUES ($1, $2, $3)
			 ON CONFLICT (client_id, category) DO UPDATE SET marked_at = EXCLUDED.marked_at`,
			clientID, string(category), time.Now().UTC())
		return eris.Wrap(err, "store: mark contacted")
	}
	_, err := s.pool.Exec(ctx,
		`DELETE FROM contacted WHERE client_id = $1 AND category = $2`,
		clientID, string(category))
	return eris.Wrap(err, "store: clear contacted")
}

func (s *PostgresStore) Contacted(ctx context.Context) (map[string]bool, error) {
	rows, err := s.pool.Query(ctx, `SELECT client_id, category FROM contacted`)
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

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// scanPostgresRun scans a run row whose result and snapshot columns
// arrive as JSONB bytes rather than text.
func scanPostgresRun(row pgx.Row) (*model.Run, error) {
	var run model.Run
	var payload, snapshot []byte
	err := row.Scan(&run.ID, &run.Source, &run.ClientCount, &run.OpportunityCount, &payload, &snapshot, &run.CreatedAt)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "store: scan run")
	}
	if err := json.Unmarshal(payload, &run.Result); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal run result")
	}
	if err := json.Unmarshal(snapshot, &run.Tables); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal table snapshot")
	}
	return &run, nil
}
