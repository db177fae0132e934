package workbook

import (
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/insureco/advisor-cli/internal/model"
)

// Date layouts accepted for ContractStartDate, in order of preference.
// ISO dates first, then the formats Excel tends to render date cells in.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01-02-06",
	"1/2/06",
	"01/02/2006",
}

func parseClients(records []map[string]string) []model.Client {
	clients := make([]model.Client, 0, len(records))
	for i, rec := range records {
		id, err := strconv.ParseInt(rec["ClientID"], 10, 64)
		if err != nil || rec["FullName"] == "" {
			zap.L().Warn("workbook: skipping malformed client row", zap.Int("row", i+2))
			continue
		}
		clients = append(clients, model.Client{
			ClientID:         id,
			FullName:         rec["FullName"],
			Age:              atoi(rec["Age"]),
			IncomeBandEUR:    rec["IncomeBandEUR"],
			City:             rec["City"],
			NumberOfPolicies: atoi(rec["NumberOfPolicies"]),
			SalesRepID:       atoi64(rec["SalesRepID"]),
			SalesRepName:     rec["SalesRepName"],
		})
	}
	return clients
}

func parseProducts(records []map[string]string) []model.Product {
	products := make([]model.Product, 0, len(records))
	for i, rec := range records {
		if rec["ProductCode"] == "" || rec["Category"] == "" {
			zap.L().Warn("workbook: skipping malformed product row", zap.Int("row", i+2))
			continue
		}
		products = append(products, model.Product{
			Category:             model.Category(rec["Category"]),
			ProductCode:          rec["ProductCode"],
			ProductName:          rec["ProductName"],
			BaseAnnualPremiumMin: premiumField(rec, "BaseAnnualPremiumMin"),
			BaseAnnualPremiumMax: premiumField(rec, "BaseAnnualPremiumMax"),
		})
	}
	return products
}

func parsePolicies(records []map[string]string) []model.Policy {
	policies := make([]model.Policy, 0, len(records))
	for i, rec := range records {
		clientID, err := strconv.ParseInt(rec["ClientID"], 10, 64)
		if err != nil {
			zap.L().Warn("workbook: skipping malformed policy row", zap.Int("row", i+2))
			continue
		}
		policies = append(policies, model.Policy{
			ClientID:          clientID,
			Category:          model.Category(rec["Category"]),
			ProductCode:       rec["ProductCode"],
			Status:            rec["Status"],
			ContractStartDate: parseDate(rec["ContractStartDate"], i+2),
		})
	}
	return policies
}

func parseSalesReps(records []map[string]string) []model.SalesRep {
	reps := make([]model.SalesRep, 0, len(records))
	for i, rec := range records {
		id, err := strconv.ParseInt(rec["SalesRepID"], 10, 64)
		if err != nil {
			zap.L().Warn("workbook: skipping malformed sales rep row", zap.Int("row", i+2))
			continue
		}
		name := rec["SalesRepName"]
		if name == "" {
			name = rec["FullName"]
		}
		reps = append(reps, model.SalesRep{
			SalesRepID: id,
			FullName:   name,
			Region:     rec["Region"],
			Email:      rec["Email"],
		})
	}
	return reps
}

func parseCommissionRules(records []map[string]string) []model.CommissionRule {
	rules := make([]model.CommissionRule, 0, len(records))
	for i, rec := range records {
		if rec["Category"] == "" {
			zap.L().Warn("workbook: skipping malformed commission rule row", zap.Int("row", i+2))
			continue
		}
		rules = append(rules, model.CommissionRule{
			Category:          model.Category(rec["Category"]),
			CommissionRatePct: atof(rec["CommissionRatePct"]),
		})
	}
	return rules
}

// parseDate returns the zero time for blank or unparseable dates. A
// zero start date never counts as recent and never triggers renewals.
func parseDate(value string, row int) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	zap.L().Warn("workbook: unparseable contract date",
		zap.Int("row", row), zap.String("value", value))
	return time.Time{}
}

// premiumField reads a premium column by its contract name with the
// EUR suffix, accepting the bare name from workbooks exported without it.
func premiumField(rec map[string]string, name string) float64 {
	if v, ok := rec[name+"EUR"]; ok && v != "" {
		return atof(v)
	}
	return atof(rec[name])
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atoi64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
