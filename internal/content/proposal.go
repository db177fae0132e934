// Package content generates advisor-facing text from scored
// opportunities: tiered proposals, meeting prep, consultative talking
// points, objection predictions, and email templates. All generators
// are pure; identical input yields identical output.
package content

import (
	"sort"

	"github.com/insureco/advisor-cli/internal/model"
)

// ProposalTier is one pricing tier in a three-option proposal.
type ProposalTier struct {
	Product     model.Product `json:"product"`
	Tier        string        `json:"tier"`
	Label       string        `json:"label"`
	Description string        `json:"description"`
	Premium     float64       `json:"premium"`
	Highlight   bool          `json:"highlight,omitempty"`
}

// TieredProposal offers the lowest, median, and highest premium
// products in the opportunity's category as essential, recommended,
// and premium tiers.
type TieredProposal struct {
	Essential   ProposalTier `json:"essential"`
	Recommended ProposalTier `json:"recommended"`
	Premium     ProposalTier `json:"premium"`
}

// BuildTieredProposal returns the three-tier proposal for an
// opportunity, or nil when the catalog has no products in its
// category.
func BuildTieredProposal(op model.Opportunity, products []model.Product) *TieredProposal {
	var inCategory []model.Product
	for _, p := range products {
		if p.Category == op.Category {
			inCategory = append(inCategory, p)
		}
	}
	if len(inCategory) == 0 {
		return nil
	}

	sort.SliceStable(inCategory, func(i, j int) bool {
		return inCategory[i].BaseAnnualPremiumMin < inCategory[j].BaseAnnualPremiumMin
	})

	essential := inCategory[0]
	recommended := inCategory[len(inCategory)/2]
	premium := inCategory[len(inCategory)-1]

	return &TieredProposal{
		Essential: ProposalTier{
			Product:     essential,
			Tier:        "essential",
			Label:       "Essential",
			Description: "Core protection at the most affordable price",
			Premium:     essential.AvgPremium(),
		},
		Recommended: ProposalTier{
			Product:     recommended,
			Tier:        "recommended",
			Label:       "Recommended",
			Description: "Best value - optimal coverage for your needs",
			Premium:     recommended.AvgPremium(),
			Highlight:   true,
		},
		Premium: ProposalTier{
			Product:     premium,
			Tier:        "premium",
			Label:       "Premium",
			Description: "Comprehensive protection with maximum coverage",
			Premium:     premium.AvgPremium(),
		},
	}
}
