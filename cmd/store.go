package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/insureco/advisor-cli/internal/config"
	"github.com/insureco/advisor-cli/internal/pipeline"
	"github.com/insureco/advisor-cli/internal/scorer"
	"github.com/insureco/advisor-cli/internal/store"
)

// initStore opens the configured persistence backend and applies
// migrations. Driver "none" disables persistence; callers get a nil
// store and must tolerate it.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "none":
		return nil, nil
	case "sqlite":
		s, err := store.NewSQLite(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// scorerConfig returns the configured scorer weights, falling back to
// the defaults when the config file left them unset.
func scorerConfig() config.ScorerConfig {
	if scorer.WeightSum(cfg.Scorer) == 0 {
		zap.L().Debug("scorer config unset, using defaults")
		return scorer.DefaultScorerConfig()
	}
	return cfg.Scorer
}

func newPipeline() (*pipeline.Pipeline, error) {
	return pipeline.New(scorerConfig())
}
