// Package store persists analysis runs and per-opportunity contact
// marks. Two backends are provided: SQLite for single-advisor desktop
// use and Postgres for shared deployments. Run results are stored as
// JSON documents keyed by a generated run ID, so historic runs survive
// schema-free model evolution.
package store

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/insureco/advisor-cli/internal/model"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = eris.New("store: run not found")

// RunFilter narrows ListRuns. Zero values mean "no constraint"; Limit
// defaults to 50 when unset.
type RunFilter struct {
	Source string
	Limit  int
	Offset int
}

// Store is the persistence interface shared by both backends.
type Store interface {
	// Migrate creates or upgrades the schema. Safe to call repeatedly.
	Migrate(ctx context.Context) error

	// SaveRun persists an analysis result along with the table snapshot
	// it was computed from and returns the stored run.
	SaveRun(ctx context.Context, source string, res *model.AnalysisResult, tables *model.Tables) (*model.Run, error)

	// GetRun fetches a run by ID. Returns ErrNotFound when absent.
	GetRun(ctx context.Context, id string) (*model.Run, error)

	// LatestRun fetches the most recently created run.
	LatestRun(ctx context.Context) (*model.Run, error)

	// ListRuns returns run metadata (without full results), newest first.
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// SetContacted marks or clears the contact flag for a client/category pair.
	SetContacted(ctx context.Context, clientID int64, category model.Category, contacted bool) error

	// Contacted returns the set of contacted client/category pairs,
	// keyed by ContactKey.
	Contacted(ctx context.Context) (map[string]bool, error)

	Close() error
}

// ContactKey builds the map key used for contact marks. It matches the
// key format the dashboard uses to track outreach per opportunity.
func ContactKey(clientID int64, category model.Category) string {
	return fmt.Sprintf("%d-%s", clientID, category)
}
