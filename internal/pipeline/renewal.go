package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/insureco/advisor-cli/internal/model"
)

// detectRenewals flags active policies at least 12 months old
// (30-day-month arithmetic) and emits one renewal opportunity per
// (policy, alternative product in the same category) pair. The
// existing policy is retained on the opportunity for display. No
// dedup against gap opportunities.
func (p *Pipeline) detectRenewals(client model.Client, clientPolicies []model.Policy, tables *model.Tables, now time.Time) (opps []model.Opportunity) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("pipeline: renewal detection failed",
				zap.Int64("client_id", client.ClientID),
				zap.Any("panic", r),
			)
		}
	}()

	for _, policy := range clientPolicies {
		if policy.ContractStartDate.IsZero() || monthsSince(now, policy.ContractStartDate) < 12 {
			continue
		}

		existing := policy
		for _, product := range productsInCategory(tables.Products, policy.Category) {
			if product.ProductCode == policy.ProductCode {
				continue
			}
			opps = append(opps, model.Opportunity{
				ClientID:       client.ClientID,
				ClientName:     client.FullName,
				Category:       policy.Category,
				Product:        product,
				Reason:         fmt.Sprintf("Renewal opportunity - existing %s policy could be upgraded", policy.Category),
				IsEssential:    true,
				IsRenewal:      true,
				ExistingPolicy: &existing,
				Commission:     p.resolveCommission(tables.CommissionRules, policy.Category),
				ScoreBreakdown: model.ScoreBreakdown{NeedScore: p.cfg.RenewalNeedScore},
			})
		}
	}

	return opps
}
