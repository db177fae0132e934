package scorer

import (
	"math"

	"go.uber.org/zap"

	"github.com/insureco/advisor-cli/internal/config"
	"github.com/insureco/advisor-cli/internal/model"
	"github.com/insureco/advisor-cli/internal/refdata"
)

// Score computes the full score breakdown for one opportunity. A panic
// during scoring yields an all-zero breakdown for that opportunity,
// logged, not fatal to the batch.
func Score(op model.Opportunity, client model.Client, isRenewal bool, events []model.LifeEvent, cfg config.ScorerConfig) (bd model.ScoreBreakdown) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("scorer: score computation failed",
				zap.Int64("client_id", client.ClientID),
				zap.String("category", string(op.Category)),
				zap.Any("panic", r),
			)
			bd = model.ScoreBreakdown{}
		}
	}()

	incomeValue := refdata.IncomeMidpoint(client.IncomeBandEUR)
	avgPremium := op.Product.AvgPremium()
	affordabilityRatio := avgPremium / incomeValue

	fitScore := 100.0
	if affordabilityRatio > cfg.AffordabilityThreshold {
		fitScore = math.Max(cfg.MinFitScore, 100-(affordabilityRatio-cfg.AffordabilityThreshold)*cfg.AffordabilityPenaltySlope)
	}

	commissionScore := math.Min(100, op.Commission.CommissionRatePct*cfg.CommissionNormalizer)
	customerBenefitScore := op.NeedScore * (fitScore / 100)
	conversionScore := math.Min(100, cfg.ConversionBase+float64(client.NumberOfPolicies)*cfg.ConversionPerPolicy)

	// Geometric mean: punishes opportunities strong in only one of
	// commission or customer benefit.
	balanceScore := math.Sqrt(commissionScore * customerBenefitScore)

	totalScore := op.NeedScore*cfg.NeedWeight +
		fitScore*cfg.FitWeight +
		balanceScore*cfg.BalanceWeight +
		conversionScore*cfg.ConversionWeight

	hasLifeEventBoost := false
	for _, e := range events {
		if e.Relevant(op.Category) {
			hasLifeEventBoost = true
			break
		}
	}
	if hasLifeEventBoost {
		totalScore *= cfg.LifeEventBoost
	}
	if isRenewal {
		totalScore *= cfg.RenewalBoost
	}

	return model.ScoreBreakdown{
		Score:               math.Round(totalScore*10) / 10,
		NeedScore:           op.NeedScore,
		FitScore:            int(math.Round(fitScore)),
		CommissionScore:     int(math.Round(commissionScore)),
		ConversionScore:     int(math.Round(conversionScore)),
		BalanceScore:        int(math.Round(balanceScore)),
		EstimatedPremium:    int(math.Round(avgPremium)),
		EstimatedCommission: int(math.Round(avgPremium * op.Commission.CommissionRatePct / 100)),
		HasLifeEventBoost:   hasLifeEventBoost,
	}
}
