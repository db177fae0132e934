package content

import (
	"fmt"
	"math"

	"github.com/insureco/advisor-cli/internal/model"
	"github.com/insureco/advisor-cli/internal/refdata"
)

// AgendaItem is one slot in the meeting agenda.
type AgendaItem struct {
	Time   string `json:"time"`
	Task   string `json:"task"`
	Detail string `json:"detail"`
}

// QA is an anticipated client question with a prepared answer.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SuccessMetrics defines the tiered goals for a client meeting.
type SuccessMetrics struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Minimum   string `json:"minimum"`
}

// ClientBackground is the client summary attached to meeting prep.
type ClientBackground struct {
	Age              int               `json:"age"`
	Income           string            `json:"income"`
	Persona          model.Persona     `json:"persona"`
	ExistingPolicies int               `json:"existing_policies"`
	City             string            `json:"city"`
	LifeEvents       []model.LifeEvent `json:"life_events"`
}

// MeetingPrep is the full preparation pack for a client meeting.
type MeetingPrep struct {
	Agenda               []AgendaItem     `json:"agenda"`
	KeyTalkingPoints     []string         `json:"key_talking_points"`
	AnticipatedQuestions []QA             `json:"anticipated_questions"`
	SuccessMetrics       SuccessMetrics   `json:"success_metrics"`
	RequiredMaterials    []string         `json:"required_materials"`
	ClientBackground     ClientBackground `json:"client_background"`
}

// BuildMeetingPrep assembles the meeting pack from a client's ranked
// opportunities (highest score first) and detected life events.
func BuildMeetingPrep(client model.Client, persona model.Persona, opps []model.Opportunity, events []model.LifeEvent) MeetingPrep {
	top := opps
	if len(top) > 3 {
		top = top[:3]
	}

	var topCategory model.Category
	var topScore float64
	var topPremium int
	var totalCommission int
	if len(top) > 0 {
		topCategory = top[0].Category
		topScore = top[0].Score
		topPremium = top[0].EstimatedPremium
	}
	for _, op := range top {
		totalCommission += op.EstimatedCommission
	}

	coverageAreas := "essential coverage areas"
	if len(opps) == 1 {
		coverageAreas = "essential coverage area"
	}

	eventPoint := "No recent life events detected"
	if len(events) > 0 {
		eventPoint = fmt.Sprintf("Life event detected: %s - creates urgency", events[0].Label)
	}

	incomePct := math.Round(float64(topPremium) / (refdata.IncomeMidpoint(client.IncomeBandEUR) / 100))

	return MeetingPrep{
		Agenda: []AgendaItem{
			{Time: "5 min", Task: "Rapport Building", Detail: "Discuss their current situation and past insurance experiences"},
			{Time: "10 min", Task: "Current Coverage Review", Detail: fmt.Sprintf("Walk through their %d existing policies", client.NumberOfPolicies)},
			{Time: "10 min", Task: "Gap Analysis Presentation", Detail: fmt.Sprintf("Highlight %d missing coverage areas", len(opps))},
			{Time: "15 min", Task: "Solution Presentation", Detail: "Present top 3 recommendations with tiered options"},
			{Time: "5 min", Task: "Q&A & Next Steps", Detail: "Address concerns and schedule follow-up"},
		},
		KeyTalkingPoints: []string{
			fmt.Sprintf("Client is a %s - focus on %s", persona, refdata.PersonaFocus(persona)),
			fmt.Sprintf("Missing %d %s", len(opps), coverageAreas),
			fmt.Sprintf("Top priority: %s insurance (score: %.1f)", topCategory, topScore),
			eventPoint,
			fmt.Sprintf("Total potential commission: %s", euro(totalCommission)),
		},
		AnticipatedQuestions: []QA{
			{
				Question: "Why don't I already have this coverage?",
				Answer:   "Great question! Many policies evolve over time, and life changes create new needs. Let's review what's changed.",
			},
			{
				Question: "How does this compare to competitors?",
				Answer:   "I'd be happy to provide a comparison. Our strength is personal service and direct advocacy. What specific competitors are you considering?",
			},
			{
				Question: "Can I afford this with my existing premiums?",
				Answer:   fmt.Sprintf("At %.0f%% of your income, this fits the recommended budget. Let's see if we can optimize your existing coverage too.", incomePct),
			},
		},
		SuccessMetrics: SuccessMetrics{
			Primary:   "Get verbal commitment to move forward with top recommendation",
			Secondary: "Schedule follow-up call within 48 hours for policy application",
			Minimum:   "Build rapport and trust for future conversations",
		},
		RequiredMaterials: []string{
			"Current policy summary (bring printout)",
			"Product comparison table for top 3 categories",
			"Quick quote calculator",
			"Objection handling cheat sheet",
		},
		ClientBackground: ClientBackground{
			Age:              client.Age,
			Income:           client.IncomeBandEUR,
			Persona:          persona,
			ExistingPolicies: client.NumberOfPolicies,
			City:             client.City,
			LifeEvents:       events,
		},
	}
}
