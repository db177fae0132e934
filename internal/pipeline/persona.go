package pipeline

import (
	"github.com/insureco/advisor-cli/internal/model"
	"github.com/insureco/advisor-cli/internal/refdata"
)

// ClassifyPersona maps age and income band to a client segment. Income
// dominates age: any midpoint above 100k classifies as High Net Worth
// regardless of age. The policy count is accepted for signature
// stability but does not currently influence the decision.
func ClassifyPersona(age int, incomeBand string, numberOfPolicies int) model.Persona {
	incomeValue := refdata.IncomeMidpoint(incomeBand)

	switch {
	case incomeValue > 100000:
		return model.PersonaHighNetWorth
	case age >= 65:
		return model.PersonaRetiree
	case age >= 55:
		return model.PersonaPreRetiree
	case age >= 45:
		return model.PersonaEstablishedHousehold
	case age >= 30:
		return model.PersonaGrowingFamily
	default:
		return model.PersonaYoungProfessional
	}
}
