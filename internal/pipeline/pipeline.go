// Package pipeline implements the opportunity-generation pipeline:
// persona classification, life-event detection, gap analysis, renewal
// detection, scoring, and ethical ranking over one immutable input
// snapshot.
package pipeline

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/insureco/advisor-cli/internal/config"
	"github.com/insureco/advisor-cli/internal/model"
	"github.com/insureco/advisor-cli/internal/scorer"
)

// Pipeline runs the full opportunity computation. Safe for reuse
// across runs; it holds only configuration.
type Pipeline struct {
	cfg config.ScorerConfig
}

// New validates the scorer configuration and returns a Pipeline.
func New(cfg config.ScorerConfig) (*Pipeline, error) {
	if err := scorer.ValidateConfig(cfg); err != nil {
		return nil, eris.Wrap(err, "pipeline: invalid config")
	}
	return &Pipeline{cfg: cfg}, nil
}

// Compute processes every client in the snapshot to completion and
// returns the ranked, filtered opportunity list plus per-client life
// events and personas. The input tables are never mutated; now is
// injected so identical inputs always produce identical outputs. A
// failure for one client contributes zero opportunities for that
// client only.
func (p *Pipeline) Compute(tables *model.Tables, now time.Time) (*model.AnalysisResult, error) {
	if tables == nil {
		return nil, eris.New("pipeline: nil tables")
	}

	active := tables.ActivePolicies()
	byClient := make(map[int64][]model.Policy, len(tables.Clients))
	for _, policy := range active {
		byClient[policy.ClientID] = append(byClient[policy.ClientID], policy)
	}

	result := &model.AnalysisResult{
		LifeEvents:  make(map[int64][]model.LifeEvent, len(tables.Clients)),
		Personas:    make(map[int64]model.Persona, len(tables.Clients)),
		ClientCount: len(tables.Clients),
		GeneratedAt: now,
	}

	var all []model.Opportunity
	for _, client := range tables.Clients {
		all = append(all, p.processClient(client, byClient[client.ClientID], tables, now, result)...)
	}

	result.Opportunities = p.rank(all)

	zap.L().Info("pipeline: run complete",
		zap.Int("clients", result.ClientCount),
		zap.Int("opportunities", len(result.Opportunities)),
	)

	return result, nil
}

// processClient runs all per-client phases. A panic here skips the
// client and continues the batch.
func (p *Pipeline) processClient(client model.Client, clientPolicies []model.Policy, tables *model.Tables, now time.Time, result *model.AnalysisResult) (opps []model.Opportunity) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("pipeline: client processing failed",
				zap.Int64("client_id", client.ClientID),
				zap.Any("panic", r),
			)
			opps = nil
		}
	}()

	gaps := p.analyzeGaps(client, clientPolicies, tables)
	result.Personas[client.ClientID] = gaps.Persona

	events := DetectLifeEvents(client, clientPolicies, now)
	result.LifeEvents[client.ClientID] = events

	renewals := p.detectRenewals(client, clientPolicies, tables, now)

	for _, op := range gaps.Opportunities {
		opps = append(opps, p.finalize(op, client, gaps.Persona, false, events))
	}
	for _, op := range renewals {
		opps = append(opps, p.finalize(op, client, gaps.Persona, true, events))
	}
	return opps
}

// finalize scores a candidate and attaches the denormalized client
// fields the presentation layer needs.
func (p *Pipeline) finalize(op model.Opportunity, client model.Client, persona model.Persona, isRenewal bool, events []model.LifeEvent) model.Opportunity {
	op.ScoreBreakdown = scorer.Score(op, client, isRenewal, events, p.cfg)

	op.Age = client.Age
	op.IncomeBand = client.IncomeBandEUR
	op.City = client.City
	op.Persona = persona
	op.SalesRepID = client.SalesRepID
	op.SalesRepName = client.SalesRepName
	op.ProductName = op.Product.ProductName
	op.CommissionPct = op.Commission.CommissionRatePct

	for _, e := range events {
		if e.Relevant(op.Category) {
			op.LifeEvents = append(op.LifeEvents, e)
		}
	}
	return op
}
