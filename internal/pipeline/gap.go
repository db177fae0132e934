package pipeline

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/insureco/advisor-cli/internal/model"
	"github.com/insureco/advisor-cli/internal/refdata"
)

// GapResult is the outcome of gap analysis for one client.
type GapResult struct {
	Persona       model.Persona
	Opportunities []model.Opportunity
}

// analyzeGaps diffs the client persona's expected coverage against the
// categories the client already holds and emits one candidate
// opportunity per (missing category, product) pair. Any panic for this
// client yields an empty opportunity list with the persona defaulted
// to Young Professional; other clients are unaffected.
func (p *Pipeline) analyzeGaps(client model.Client, clientPolicies []model.Policy, tables *model.Tables) (res GapResult) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("pipeline: gap analysis failed",
				zap.Int64("client_id", client.ClientID),
				zap.Any("panic", r),
			)
			res = GapResult{Persona: model.PersonaYoungProfessional}
		}
	}()

	persona := ClassifyPersona(client.Age, client.IncomeBandEUR, client.NumberOfPolicies)

	held := make(map[model.Category]bool, len(clientPolicies))
	for _, policy := range clientPolicies {
		held[policy.Category] = true
	}

	var opportunities []model.Opportunity

	for _, category := range refdata.EssentialCoverage(persona) {
		if held[category] {
			continue
		}
		for _, product := range productsInCategory(tables.Products, category) {
			opportunities = append(opportunities, model.Opportunity{
				ClientID:       client.ClientID,
				ClientName:     client.FullName,
				Category:       category,
				Product:        product,
				Reason:         fmt.Sprintf("Missing essential %s coverage", strings.ToLower(string(category))),
				IsEssential:    true,
				Commission:     p.resolveCommission(tables.CommissionRules, category),
				ScoreBreakdown: model.ScoreBreakdown{NeedScore: p.cfg.EssentialNeedScore},
			})
		}
	}

	for _, category := range refdata.OptionalCoverage(persona) {
		if held[category] {
			continue
		}
		for _, product := range productsInCategory(tables.Products, category) {
			opportunities = append(opportunities, model.Opportunity{
				ClientID:       client.ClientID,
				ClientName:     client.FullName,
				Category:       category,
				Product:        product,
				Reason:         fmt.Sprintf("High-value %s coverage opportunity", strings.ToLower(string(category))),
				IsEssential:    false,
				Commission:     p.resolveCommission(tables.CommissionRules, category),
				ScoreBreakdown: model.ScoreBreakdown{NeedScore: p.cfg.OptionalNeedScore},
			})
		}
	}

	return GapResult{Persona: persona, Opportunities: opportunities}
}

func productsInCategory(products []model.Product, c model.Category) []model.Product {
	var matches []model.Product
	for _, p := range products {
		if p.Category == c {
			matches = append(matches, p)
		}
	}
	return matches
}

// resolveCommission finds the rule for a category. Categories without
// an explicit rule get the whole default rule object, not just the
// rate, so downstream display sees a consistent shape.
func (p *Pipeline) resolveCommission(rules []model.CommissionRule, c model.Category) model.CommissionRule {
	for _, r := range rules {
		if r.Category == c {
			return r
		}
	}
	return model.CommissionRule{CommissionRatePct: p.cfg.DefaultCommissionPct}
}
