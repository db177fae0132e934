package content

import (
	"fmt"
	"strings"

	"github.com/insureco/advisor-cli/internal/model"
	"github.com/insureco/advisor-cli/internal/refdata"
)

// maxObjections caps the predictions returned per opportunity.
const maxObjections = 3

// Objection is a predicted client objection with a prepared response.
type Objection struct {
	Objection  string `json:"objection"`
	Likelihood string `json:"likelihood"`
	Response   string `json:"response"`
}

// PredictObjections returns up to three persona-, affordability-, and
// category-driven objection/response pairs for an opportunity.
func PredictObjections(op model.Opportunity, client model.Client) []Objection {
	var objections []Objection

	if op.Persona == model.PersonaYoungProfessional {
		objections = append(objections, Objection{
			Objection:  "price",
			Likelihood: "high",
			Response: fmt.Sprintf(
				"I understand budget is important. At €%d/month, this is less than a daily coffee - but it protects your entire %s situation. Can we talk about what fits your budget?",
				monthlyPremium(op.EstimatedPremium), strings.ToLower(string(op.Category))),
		})
	}

	if op.Persona == model.PersonaHighNetWorth {
		objections = append(objections, Objection{
			Objection:  "service_quality",
			Likelihood: "medium",
			Response:   "You deserve premium service, and that's exactly what we provide. You'll have direct access to me, 24/7 claims support, and white-glove service. Our high-net-worth clients appreciate the personalized attention.",
		})
	}

	affordabilityRatio := float64(op.EstimatedPremium) / refdata.IncomeMidpoint(client.IncomeBandEUR)
	if affordabilityRatio > 0.05 {
		objections = append(objections, Objection{
			Objection:  "affordability",
			Likelihood: "high",
			Response:   "Let's look at payment options. We can structure this to fit your budget, and remember - one incident without coverage could cost 10-20x this annual premium. What monthly amount feels comfortable for you?",
		})
	}

	if client.NumberOfPolicies > 5 {
		objections = append(objections, Objection{
			Objection:  "already_covered",
			Likelihood: "high",
			Response:   "I'm glad you're already well-protected! Many of my best clients had extensive coverage when we met. May I do a quick gap analysis? I often find coverage holes even well-insured clients don't know exist.",
		})
	}

	if op.Category == model.CategoryCyber || op.Category == model.CategoryLegal {
		objections = append(objections, Objection{
			Objection:  "not_necessary",
			Likelihood: "medium",
			Response:   "I hear this often, and I understand - it's hard to insure against something that hasn't happened. But the cost of being wrong is significant. Can we discuss what protection makes sense for your situation?",
		})
	}

	if len(objections) > maxObjections {
		objections = objections[:maxObjections]
	}
	return objections
}
