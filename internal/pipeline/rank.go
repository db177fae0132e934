package pipeline

import (
	"sort"

	"github.com/insureco/advisor-cli/internal/model"
	"github.com/insureco/advisor-cli/internal/refdata"
)

// rank sorts the full scored list descending by score, then applies
// the ethical filter: opportunities with a need score below the
// cutoff, or whose estimated premium exceeds the hard affordability
// cap relative to income, are dropped. The cap is independent of the
// softer fit penalty applied during scoring.
func (p *Pipeline) rank(opps []model.Opportunity) []model.Opportunity {
	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].Score > opps[j].Score
	})

	filtered := make([]model.Opportunity, 0, len(opps))
	for _, op := range opps {
		if op.NeedScore < p.cfg.MinNeedScore {
			continue
		}
		incomeValue := refdata.IncomeMidpoint(op.IncomeBand)
		if float64(op.EstimatedPremium)/incomeValue > p.cfg.MaxPremiumIncomeRatio {
			continue
		}
		filtered = append(filtered, op)
	}
	return filtered
}
