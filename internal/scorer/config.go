// Package scorer computes the composite score for one sales
// opportunity: affordability fit, commission value, customer benefit,
// conversion likelihood, and their weighted blend with life-event and
// renewal boosts.
package scorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/insureco/advisor-cli/internal/config"
)

// DefaultScorerConfig returns a config.ScorerConfig with the standard
// weights and cutoffs. Weights sum to 1.
func DefaultScorerConfig() config.ScorerConfig {
	return config.ScorerConfig{
		// Weights (sum = 1).
		NeedWeight:       0.30,
		FitWeight:        0.25,
		BalanceWeight:    0.30,
		ConversionWeight: 0.15,

		// Fit drops linearly once the average premium passes 2% of
		// income, floored at 20.
		AffordabilityThreshold:    0.02,
		AffordabilityPenaltySlope: 2000,
		MinFitScore:               20,

		// A 15% commission rate maps to a commission score of 100.
		CommissionNormalizer: 6.67,
		ConversionBase:       50,
		ConversionPerPolicy:  10,

		// Boosts compose multiplicatively.
		LifeEventBoost: 1.20,
		RenewalBoost:   1.15,

		// Emission defaults.
		DefaultCommissionPct: 8,
		EssentialNeedScore:   95,
		OptionalNeedScore:    70,
		RenewalNeedScore:     90,

		// Ethical filter.
		MinNeedScore:          30,
		MaxPremiumIncomeRatio: 0.15,
	}
}

// WeightSum returns the sum of all composite weights.
func WeightSum(c config.ScorerConfig) float64 {
	return c.NeedWeight + c.FitWeight + c.BalanceWeight + c.ConversionWeight
}

// ValidateConfig checks that a ScorerConfig is internally consistent.
func ValidateConfig(c config.ScorerConfig) error {
	var errs []string

	// All weights must be non-negative.
	weights := map[string]float64{
		"need_weight":       c.NeedWeight,
		"fit_weight":        c.FitWeight,
		"balance_weight":    c.BalanceWeight,
		"conversion_weight": c.ConversionWeight,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	sum := WeightSum(c)

	// Weights must sum to a positive number.
	if sum <= 0 {
		errs = append(errs, "weight sum must be > 0")
	}

	// Weights should be close to 1 (allow tolerance for floating-point).
	if math.Abs(sum-1) > 0.01 {
		errs = append(errs, fmt.Sprintf("weights should sum to 1, got %.2f", sum))
	}

	// Fit curve.
	if c.AffordabilityThreshold <= 0 {
		errs = append(errs, "affordability_threshold must be > 0")
	}
	if c.AffordabilityPenaltySlope < 0 {
		errs = append(errs, "affordability_penalty_slope must be >= 0")
	}
	if c.MinFitScore < 0 || c.MinFitScore > 100 {
		errs = append(errs, "min_fit_score must be between 0 and 100")
	}

	// Commission and conversion curves.
	if c.CommissionNormalizer <= 0 {
		errs = append(errs, "commission_normalizer must be > 0")
	}
	if c.ConversionBase < 0 || c.ConversionBase > 100 {
		errs = append(errs, "conversion_base must be between 0 and 100")
	}
	if c.ConversionPerPolicy < 0 {
		errs = append(errs, "conversion_per_policy must be >= 0")
	}

	// Boosts are multipliers; below 1 they would demote.
	if c.LifeEventBoost < 1 {
		errs = append(errs, "life_event_boost must be >= 1")
	}
	if c.RenewalBoost < 1 {
		errs = append(errs, "renewal_boost must be >= 1")
	}

	// Emission defaults.
	if c.DefaultCommissionPct < 0 {
		errs = append(errs, "default_commission_pct must be >= 0")
	}
	for name, s := range map[string]float64{
		"essential_need_score": c.EssentialNeedScore,
		"optional_need_score":  c.OptionalNeedScore,
		"renewal_need_score":   c.RenewalNeedScore,
	} {
		if s < 0 || s > 100 {
			errs = append(errs, fmt.Sprintf("%s must be between 0 and 100", name))
		}
	}

	// Ethical filter.
	if c.MinNeedScore < 0 || c.MinNeedScore > 100 {
		errs = append(errs, "min_need_score must be between 0 and 100")
	}
	if c.MaxPremiumIncomeRatio <= 0 {
		errs = append(errs, "max_premium_income_ratio must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
