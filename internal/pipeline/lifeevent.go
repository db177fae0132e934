package pipeline

import (
	"time"

	"github.com/insureco/advisor-cli/internal/model"
	"github.com/insureco/advisor-cli/internal/refdata"
)

// daysPerMonth is the 30-day month approximation used for all policy
// recency arithmetic.
const daysPerMonth = 30

// DetectLifeEvents derives situational flags from client attributes
// and recent policy history. Rules are independent, not mutually
// exclusive; all age and income thresholds are inclusive.
func DetectLifeEvents(client model.Client, activePolicies []model.Policy, now time.Time) []model.LifeEvent {
	var events []model.LifeEvent

	if client.Age >= 25 && client.Age <= 35 && !holdsCategory(activePolicies, model.CategoryLife) {
		events = append(events, model.LifeEvent{
			Type:               model.LifeEventCareerStart,
			Label:              "Career Establishment",
			RelevantCategories: []model.Category{model.CategoryLife, model.CategoryIncome},
			Urgency:            model.UrgencyMedium,
		})
	}

	// Fires for the whole 30-45 band regardless of existing coverage,
	// unlike careerStart which checks for a Life policy.
	if client.Age >= 30 && client.Age <= 45 {
		events = append(events, model.LifeEvent{
			Type:               model.LifeEventFamilyFormation,
			Label:              "Family Building Years",
			RelevantCategories: []model.Category{model.CategoryLife, model.CategoryHome, model.CategoryIncome},
			Urgency:            model.UrgencyHigh,
		})
	}

	if client.Age >= 55 {
		events = append(events, model.LifeEvent{
			Type:               model.LifeEventRetirementPlanning,
			Label:              "Retirement Preparation",
			RelevantCategories: []model.Category{model.CategoryRetirement, model.CategoryHealth},
			Urgency:            model.UrgencyHigh,
		})
	}

	if holdsRecentCategory(activePolicies, model.CategoryHome, now) {
		events = append(events, model.LifeEvent{
			Type:               model.LifeEventHomePurchase,
			Label:              "Recent Home Purchase",
			RelevantCategories: []model.Category{model.CategoryHome, model.CategoryLiability, model.CategoryLife},
			Urgency:            model.UrgencyHigh,
		})
	}

	if holdsRecentCategory(activePolicies, model.CategoryCar, now) {
		events = append(events, model.LifeEvent{
			Type:               model.LifeEventVehiclePurchase,
			Label:              "New Vehicle",
			RelevantCategories: []model.Category{model.CategoryCar, model.CategoryLiability},
			Urgency:            model.UrgencyMedium,
		})
	}

	if refdata.IncomeMidpoint(client.IncomeBandEUR) >= 100000 && len(activePolicies) < 5 {
		events = append(events, model.LifeEvent{
			Type:               model.LifeEventWealthAccumulation,
			Label:              "Wealth Growth Phase",
			RelevantCategories: []model.Category{model.CategoryRetirement, model.CategoryLiability, model.CategoryCyber},
			Urgency:            model.UrgencyMedium,
		})
	}

	return events
}

// monthsSince returns the age of t in 30-day months. Calendar-day
// arithmetic, not calendar-month semantics.
func monthsSince(now, t time.Time) float64 {
	return now.Sub(t).Hours() / (24 * daysPerMonth)
}

func holdsCategory(policies []model.Policy, c model.Category) bool {
	for _, p := range policies {
		if p.Category == c {
			return true
		}
	}
	return false
}

// holdsRecentCategory reports whether any active policy in category c
// started within the last 6 months. Policies with a missing contract
// start date never count as recent.
func holdsRecentCategory(policies []model.Policy, c model.Category, now time.Time) bool {
	for _, p := range policies {
		if p.Category != c || p.ContractStartDate.IsZero() {
			continue
		}
		if monthsSince(now, p.ContractStartDate) <= 6 {
			return true
		}
	}
	return false
}
