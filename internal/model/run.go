package model

import "time"

// Run is one persisted analysis run: an input source label, the full
// result, and the table snapshot it was computed from. The tables ride
// along so the content generators keep working after a restart.
type Run struct {
	ID               string          `json:"id"`
	Source           string          `json:"source"`
	ClientCount      int             `json:"client_count"`
	OpportunityCount int             `json:"opportunity_count"`
	Result           *AnalysisResult `json:"result,omitempty"`
	Tables           *Tables         `json:"tables,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}
