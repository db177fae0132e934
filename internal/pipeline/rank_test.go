package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insureco/advisor-cli/internal/model"
)

func scoredOpp(clientID int64, score, needScore float64, estimatedPremium int, band string) model.Opportunity {
	return model.Opportunity{
		ClientID:   clientID,
		IncomeBand: band,
		ScoreBreakdown: model.ScoreBreakdown{
			Score:            score,
			NeedScore:        needScore,
			EstimatedPremium: estimatedPremium,
		},
	}
}

func TestRank_SortsDescendingByScore(t *testing.T) {
	p := newTestPipeline(t)

	opps := []model.Opportunity{
		scoredOpp(1, 72.5, 70, 100, "50k-75k"),
		scoredOpp(2, 101.9, 95, 400, "50k-75k"),
		scoredOpp(3, 88.0, 90, 200, "50k-75k"),
	}

	ranked := p.rank(opps)
	require.Len(t, ranked, 3)
	assert.Equal(t, int64(2), ranked[0].ClientID)
	assert.Equal(t, int64(3), ranked[1].ClientID)
	assert.Equal(t, int64(1), ranked[2].ClientID)
}

func TestRank_DropsLowNeedScore(t *testing.T) {
	p := newTestPipeline(t)

	opps := []model.Opportunity{
		scoredOpp(1, 90, 95, 400, "50k-75k"),
		scoredOpp(2, 50, 29, 400, "50k-75k"),
		scoredOpp(3, 10, 0, 0, "50k-75k"), // zero breakdown from a scoring failure
	}

	ranked := p.rank(opps)
	require.Len(t, ranked, 1)
	assert.Equal(t, int64(1), ranked[0].ClientID)
}

func TestRank_DropsUnaffordablePremium(t *testing.T) {
	p := newTestPipeline(t)

	// 15% of the 62500 midpoint is 9375.
	opps := []model.Opportunity{
		scoredOpp(1, 90, 95, 9375, "50k-75k"),
		scoredOpp(2, 95, 95, 9376, "50k-75k"),
	}

	ranked := p.rank(opps)
	require.Len(t, ranked, 1)
	assert.Equal(t, int64(1), ranked[0].ClientID)
}

func TestRank_UnknownBandUsesLowestTierForCap(t *testing.T) {
	p := newTestPipeline(t)

	// Unknown band resolves to 15000; the cap is 2250.
	opps := []model.Opportunity{
		scoredOpp(1, 90, 95, 2500, "mystery"),
	}

	assert.Empty(t, p.rank(opps))
}

func TestRank_EmptyInput(t *testing.T) {
	p := newTestPipeline(t)
	assert.Empty(t, p.rank(nil))
}
