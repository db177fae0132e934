package scorer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/insureco/advisor-cli/internal/model"
)

func testClient() model.Client {
	return model.Client{
		ClientID:         1,
		FullName:         "Anna Bergmann",
		Age:              32,
		IncomeBandEUR:    "50k-75k",
		NumberOfPolicies: 0,
	}
}

func lifeOpportunity(minPremium, maxPremium, ratePct float64) model.Opportunity {
	return model.Opportunity{
		ClientID: 1,
		Category: model.CategoryLife,
		Product: model.Product{
			Category:             model.CategoryLife,
			ProductCode:          "LIFE-01",
			ProductName:          "Term Life Basic",
			BaseAnnualPremiumMin: minPremium,
			BaseAnnualPremiumMax: maxPremium,
		},
		Commission:     model.CommissionRule{Category: model.CategoryLife, CommissionRatePct: ratePct},
		ScoreBreakdown: model.ScoreBreakdown{NeedScore: 95},
	}
}

func familyFormationEvent() model.LifeEvent {
	return model.LifeEvent{
		Type:               model.LifeEventFamilyFormation,
		Label:              "Family Building Years",
		RelevantCategories: []model.Category{model.CategoryLife, model.CategoryHome, model.CategoryIncome},
		Urgency:            model.UrgencyHigh,
	}
}

func TestScore_WorkedExample(t *testing.T) {
	// Age 32, band 50k-75k (midpoint 62500), 0 policies. Missing Life
	// product with premium range [300, 500] and 10% commission, boosted
	// by a family formation event.
	op := lifeOpportunity(300, 500, 10)
	events := []model.LifeEvent{familyFormationEvent()}

	bd := Score(op, testClient(), false, events, DefaultScorerConfig())

	assert.Equal(t, 101.9, bd.Score)
	assert.Equal(t, float64(95), bd.NeedScore)
	assert.Equal(t, 100, bd.FitScore)
	assert.Equal(t, 67, bd.CommissionScore)
	assert.Equal(t, 50, bd.ConversionScore)
	assert.Equal(t, 80, bd.BalanceScore)
	assert.Equal(t, 400, bd.EstimatedPremium)
	assert.Equal(t, 40, bd.EstimatedCommission)
	assert.True(t, bd.HasLifeEventBoost)
}

func TestScore_FitFullAtThreshold(t *testing.T) {
	// 62500 * 0.02 = 1250 average premium sits exactly on the
	// threshold, so fit stays at 100.
	op := lifeOpportunity(1000, 1500, 10)

	bd := Score(op, testClient(), false, nil, DefaultScorerConfig())
	assert.Equal(t, 100, bd.FitScore)
}

func TestScore_FitPenaltyPastThreshold(t *testing.T) {
	// Average premium 2500 on 62500 income: ratio 0.04, fit
	// 100 - 0.02*2000 = 60.
	op := lifeOpportunity(2000, 3000, 10)

	bd := Score(op, testClient(), false, nil, DefaultScorerConfig())
	assert.Equal(t, 60, bd.FitScore)
}

func TestScore_FitFlooredAt20(t *testing.T) {
	op := lifeOpportunity(8000, 12000, 10)

	bd := Score(op, testClient(), false, nil, DefaultScorerConfig())
	assert.Equal(t, 20, bd.FitScore)
}

func TestScore_FitMonotonicInRatio(t *testing.T) {
	client := testClient()
	cfg := DefaultScorerConfig()

	prev := 101
	for _, avg := range []float64{1000, 1500, 2000, 3000, 5000, 8000, 20000} {
		bd := Score(lifeOpportunity(avg, avg, 10), client, false, nil, cfg)
		assert.LessOrEqual(t, bd.FitScore, prev, "avg premium %v", avg)
		assert.GreaterOrEqual(t, bd.FitScore, 20)
		prev = bd.FitScore
	}
}

func TestScore_CommissionCappedAt100(t *testing.T) {
	op := lifeOpportunity(300, 500, 20)

	bd := Score(op, testClient(), false, nil, DefaultScorerConfig())
	assert.Equal(t, 100, bd.CommissionScore)
}

func TestScore_ConversionGrowsWithPolicies(t *testing.T) {
	op := lifeOpportunity(300, 500, 10)
	cfg := DefaultScorerConfig()

	client := testClient()
	client.NumberOfPolicies = 3
	bd := Score(op, client, false, nil, cfg)
	assert.Equal(t, 80, bd.ConversionScore)

	client.NumberOfPolicies = 12
	bd = Score(op, client, false, nil, cfg)
	assert.Equal(t, 100, bd.ConversionScore)
}

func TestScore_BalanceIsGeometricMean(t *testing.T) {
	op := lifeOpportunity(300, 500, 10)

	bd := Score(op, testClient(), false, nil, DefaultScorerConfig())

	commission := 10 * 6.67
	benefit := 95.0
	assert.Equal(t, int(math.Round(math.Sqrt(commission*benefit))), bd.BalanceScore)
}

func TestScore_BoostsAreMultiplicative(t *testing.T) {
	op := lifeOpportunity(300, 500, 10)
	events := []model.LifeEvent{familyFormationEvent()}
	cfg := DefaultScorerConfig()
	client := testClient()

	plain := Score(op, client, false, nil, cfg)
	boosted := Score(op, client, true, events, cfg)

	// Both boosts together: x1.20 * x1.15 = x1.38 relative to the
	// unboosted total, up to the final one-decimal rounding.
	assert.InDelta(t, plain.Score*1.38, boosted.Score, 0.1)
	assert.True(t, boosted.HasLifeEventBoost)
}

func TestScore_RenewalBoostOnly(t *testing.T) {
	op := lifeOpportunity(300, 500, 10)
	cfg := DefaultScorerConfig()
	client := testClient()

	plain := Score(op, client, false, nil, cfg)
	renewal := Score(op, client, true, nil, cfg)

	assert.InDelta(t, plain.Score*1.15, renewal.Score, 0.1)
	assert.False(t, renewal.HasLifeEventBoost)
}

func TestScore_IrrelevantLifeEventDoesNotBoost(t *testing.T) {
	op := lifeOpportunity(300, 500, 10)
	events := []model.LifeEvent{{
		Type:               model.LifeEventVehiclePurchase,
		RelevantCategories: []model.Category{model.CategoryCar, model.CategoryLiability},
	}}
	cfg := DefaultScorerConfig()

	plain := Score(op, testClient(), false, nil, cfg)
	withEvent := Score(op, testClient(), false, events, cfg)

	assert.Equal(t, plain.Score, withEvent.Score)
	assert.False(t, withEvent.HasLifeEventBoost)
}

func TestScore_OneDecimalRounding(t *testing.T) {
	op := lifeOpportunity(300, 500, 10)

	bd := Score(op, testClient(), false, nil, DefaultScorerConfig())
	assert.Equal(t, bd.Score, math.Round(bd.Score*10)/10)
}
