package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insureco/advisor-cli/internal/model"
)

func objectionNames(objs []Objection) []string {
	names := make([]string, len(objs))
	for i, o := range objs {
		names[i] = o.Objection
	}
	return names
}

func TestPredictObjections_YoungProfessionalPrice(t *testing.T) {
	op := testOpportunity()
	op.Persona = model.PersonaYoungProfessional
	client := model.Client{IncomeBandEUR: "50k-75k"}

	objs := PredictObjections(op, client)
	require.NotEmpty(t, objs)
	assert.Contains(t, objectionNames(objs), "price")
	assert.Contains(t, objs[0].Response, "€58/month")
}

func TestPredictObjections_HighNetWorthService(t *testing.T) {
	op := testOpportunity()
	op.Persona = model.PersonaHighNetWorth
	client := model.Client{IncomeBandEUR: "150k+"}

	objs := PredictObjections(op, client)
	assert.Contains(t, objectionNames(objs), "service_quality")
}

func TestPredictObjections_AffordabilityAbove5Pct(t *testing.T) {
	op := testOpportunity()
	op.EstimatedPremium = 4000 // 6.4% of the 62500 midpoint
	client := model.Client{IncomeBandEUR: "50k-75k"}

	objs := PredictObjections(op, client)
	assert.Contains(t, objectionNames(objs), "affordability")

	op.EstimatedPremium = 700
	objs = PredictObjections(op, client)
	assert.NotContains(t, objectionNames(objs), "affordability")
}

func TestPredictObjections_AlreadyCovered(t *testing.T) {
	op := testOpportunity()
	client := model.Client{IncomeBandEUR: "50k-75k", NumberOfPolicies: 6}

	objs := PredictObjections(op, client)
	assert.Contains(t, objectionNames(objs), "already_covered")

	client.NumberOfPolicies = 5
	objs = PredictObjections(op, client)
	assert.NotContains(t, objectionNames(objs), "already_covered")
}

func TestPredictObjections_CyberAndLegalNotNecessary(t *testing.T) {
	client := model.Client{IncomeBandEUR: "50k-75k"}

	for _, c := range []model.Category{model.CategoryCyber, model.CategoryLegal} {
		op := testOpportunity()
		op.Category = c
		objs := PredictObjections(op, client)
		assert.Contains(t, objectionNames(objs), "not_necessary", "category %s", c)
	}

	op := testOpportunity()
	objs := PredictObjections(op, client)
	assert.NotContains(t, objectionNames(objs), "not_necessary")
}

func TestPredictObjections_CappedAtThree(t *testing.T) {
	// Young Professional + unaffordable Cyber product + many policies
	// triggers four rules; only three come back.
	op := testOpportunity()
	op.Persona = model.PersonaYoungProfessional
	op.Category = model.CategoryCyber
	op.EstimatedPremium = 4000
	client := model.Client{IncomeBandEUR: "50k-75k", NumberOfPolicies: 8}

	objs := PredictObjections(op, client)
	assert.Len(t, objs, 3)
}

func TestPredictObjections_NoneTriggered(t *testing.T) {
	op := testOpportunity() // Growing Family, Life, affordable
	client := model.Client{IncomeBandEUR: "50k-75k"}

	assert.Empty(t, PredictObjections(op, client))
}
