package model

// LifeEventType tags a detected situational trigger.
type LifeEventType string

const (
	LifeEventCareerStart        LifeEventType = "careerStart"
	LifeEventFamilyFormation    LifeEventType = "familyFormation"
	LifeEventRetirementPlanning LifeEventType = "retirementPlanning"
	LifeEventHomePurchase       LifeEventType = "homePurchase"
	LifeEventVehiclePurchase    LifeEventType = "vehiclePurchase"
	LifeEventWealthAccumulation LifeEventType = "wealthAccumulation"
)

// Urgency is the priority level of a life event.
type Urgency string

const (
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// LifeEvent is a situational flag derived from client attributes and
// recent policy history. Ephemeral, recomputed per client per run.
type LifeEvent struct {
	Type               LifeEventType `json:"type"`
	Label              string        `json:"label"`
	RelevantCategories []Category    `json:"relevant_categories"`
	Urgency            Urgency       `json:"urgency"`
}

// Relevant reports whether the event's relevant-category set includes c.
func (e LifeEvent) Relevant(c Category) bool {
	for _, rc := range e.RelevantCategories {
		if rc == c {
			return true
		}
	}
	return false
}
