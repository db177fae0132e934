package content

import (
	"fmt"
	"strings"

	"github.com/insureco/advisor-cli/internal/model"
	"github.com/insureco/advisor-cli/internal/refdata"
)

// TalkingPoint is one stage of the consultative sales conversation.
type TalkingPoint struct {
	Stage string `json:"stage"`
	Text  string `json:"text"`
}

// BuildTalkingPoints returns the five-stage consultative script for an
// opportunity, from rapport building through the assumptive close.
func BuildTalkingPoints(op model.Opportunity) []TalkingPoint {
	categoryLower := strings.ToLower(string(op.Category))

	urgency := `"Building protection early means lower premiums and longer coverage. The best time to get covered is before you need it."`
	if op.Age >= 50 {
		urgency = `"Premium rates increase with age - securing coverage now locks in your current rate and ensures you're protected."`
	}

	return []TalkingPoint{
		{
			Stage: "Build Rapport",
			Text: fmt.Sprintf(
				`Start with: "Thank you for taking the time to speak with me today, %s. Before we dive into coverage options, I'd love to learn a bit about your current situation. How has your experience been with insurance providers in the past?"`,
				firstName(op.ClientName)),
		},
		{
			Stage: "Discovery",
			Text: fmt.Sprintf(
				`Ask: "I noticed you don't currently have %s coverage. What are your primary concerns when it comes to %s protection?" This uncovers their "why" and gives you a roadmap for your solution.`,
				categoryLower, categoryLower),
		},
		{
			Stage: "Value Positioning",
			Text: fmt.Sprintf(
				`Explain: "The %s provides %s. At €%d per month, this fits comfortably within your budget." Focus on benefits, not just features.`,
				op.ProductName, refdata.ValueStatement(op.Category), monthlyPremium(op.EstimatedPremium)),
		},
		{
			Stage: "Create Urgency (Not Pressure)",
			Text:  urgency,
		},
		{
			Stage: "Assumptive Close",
			Text: fmt.Sprintf(
				`Transition naturally: "Based on what you've shared, the %s addresses your main concerns. Let's get you protected - I can walk you through the application right now. Do you have a few minutes?"`,
				op.ProductName),
		},
	}
}
