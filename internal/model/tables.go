package model

import "time"

// PolicyStatusActive is the only policy status that participates in
// gap and renewal analysis.
const PolicyStatusActive = "Active"

// Client is one row from the Clients sheet.
type Client struct {
	ClientID         int64  `json:"client_id"`
	FullName         string `json:"full_name"`
	Age              int    `json:"age"`
	IncomeBandEUR    string `json:"income_band_eur"`
	City             string `json:"city"`
	NumberOfPolicies int    `json:"number_of_policies"`
	SalesRepID       int64  `json:"sales_rep_id"`
	SalesRepName     string `json:"sales_rep_name"`
}

// Product is one row from the Products sheet. Immutable reference data
// for the duration of a run.
type Product struct {
	Category             Category `json:"category"`
	ProductCode          string   `json:"product_code"`
	ProductName          string   `json:"product_name"`
	BaseAnnualPremiumMin float64  `json:"base_annual_premium_min_eur"`
	BaseAnnualPremiumMax float64  `json:"base_annual_premium_max_eur"`
}

// AvgPremium returns the midpoint of the product's annual premium range.
func (p Product) AvgPremium() float64 {
	return (p.BaseAnnualPremiumMin + p.BaseAnnualPremiumMax) / 2
}

// Policy is one row from the Policies sheet. A zero ContractStartDate
// means the source cell was missing or unparseable; recency and renewal
// checks skip such policies.
type Policy struct {
	ClientID          int64     `json:"client_id"`
	Category          Category  `json:"category"`
	ProductCode       string    `json:"product_code"`
	Status            string    `json:"status"`
	ContractStartDate time.Time `json:"contract_start_date"`
}

// SalesRep is one row from the SalesReps sheet.
type SalesRep struct {
	SalesRepID int64  `json:"sales_rep_id"`
	FullName   string `json:"full_name"`
	Region     string `json:"region"`
	Email      string `json:"email"`
}

// CommissionRule maps a category to a commission rate percentage.
type CommissionRule struct {
	Category          Category `json:"category"`
	CommissionRatePct float64  `json:"commission_rate_pct"`
}

// Tables is the immutable input snapshot for one pipeline run.
type Tables struct {
	Clients         []Client         `json:"clients"`
	Products        []Product        `json:"products"`
	Policies        []Policy         `json:"policies"`
	SalesReps       []SalesRep       `json:"sales_reps"`
	CommissionRules []CommissionRule `json:"commission_rules"`
}

// ActivePolicies returns the subset of policies with Active status.
func (t *Tables) ActivePolicies() []Policy {
	var active []Policy
	for _, p := range t.Policies {
		if p.Status == PolicyStatusActive {
			active = append(active, p)
		}
	}
	return active
}
