package model

import "time"

// ScoreBreakdown holds the individual dimension scores and the final
// boosted score for one opportunity. A zero value is the failure
// fallback when scoring errors out.
type ScoreBreakdown struct {
	Score               float64 `json:"score"`
	NeedScore           float64 `json:"need_score"`
	FitScore            int     `json:"fit_score"`
	CommissionScore     int     `json:"commission_score"`
	ConversionScore     int     `json:"conversion_score"`
	BalanceScore        int     `json:"balance_score"`
	EstimatedPremium    int     `json:"estimated_premium"`
	EstimatedCommission int     `json:"estimated_commission"`
	HasLifeEventBoost   bool    `json:"has_life_event_boost"`
}

// Opportunity is a scored recommendation to sell a specific product to
// a specific client. Created fresh on every run, never mutated after
// scoring. NeedScore is set at emission time (gap or renewal analysis);
// the remaining breakdown fields are filled by the scorer.
type Opportunity struct {
	ClientID    int64          `json:"client_id"`
	ClientName  string         `json:"client_name"`
	Category    Category       `json:"category"`
	Product     Product        `json:"product"`
	Reason      string         `json:"reason"`
	IsEssential bool           `json:"is_essential"`
	Commission  CommissionRule `json:"commission"`

	// Renewal-only fields.
	IsRenewal      bool    `json:"is_renewal"`
	ExistingPolicy *Policy `json:"existing_policy,omitempty"`

	// Denormalized client fields for downstream display.
	Age           int     `json:"age"`
	IncomeBand    string  `json:"income_band"`
	City          string  `json:"city"`
	Persona       Persona `json:"persona"`
	SalesRepID    int64   `json:"sales_rep_id"`
	SalesRepName  string  `json:"sales_rep_name"`
	ProductName   string  `json:"product_name"`
	CommissionPct float64 `json:"commission_pct"`

	// Life events whose relevant categories include this opportunity's.
	LifeEvents []LifeEvent `json:"life_events,omitempty"`

	ScoreBreakdown
}

// AnalysisResult is the full output of one pipeline run over an input
// snapshot: the ranked, ethically filtered opportunity list plus the
// per-client life events and personas derived along the way.
type AnalysisResult struct {
	Opportunities []Opportunity         `json:"opportunities"`
	LifeEvents    map[int64][]LifeEvent `json:"life_events"`
	Personas      map[int64]Persona     `json:"personas"`
	ClientCount   int                   `json:"client_count"`
	GeneratedAt   time.Time             `json:"generated_at"`
}
