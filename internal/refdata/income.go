// Package refdata holds the fixed lookup tables the pipeline and
// content generators share: income band midpoints, persona coverage
// expectations, and category sales copy. All tables are immutable
// package-level data; accessors copy where callers could mutate.
package refdata

// incomeMidpoints maps the 7 income bands to their numeric midpoints
// in EUR. Unrecognized bands resolve to the lowest tier's midpoint.
var incomeMidpoints = map[string]float64{
	"150k+":     150000,
	"100k-150k": 125000,
	"75k-100k":  87500,
	"50k-75k":   62500,
	"35k-50k":   42500,
	"20k-35k":   27500,
	"<20k":      15000,
}

// UnknownIncomeMidpoint is the fallback for bands not in the table.
const UnknownIncomeMidpoint = 15000

// IncomeMidpoint resolves an income band to its numeric midpoint.
func IncomeMidpoint(band string) float64 {
	if v, ok := incomeMidpoints[band]; ok {
		return v
	}
	return UnknownIncomeMidpoint
}

// IncomeBands returns the known bands in descending order of midpoint.
func IncomeBands() []string {
	return []string{"150k+", "100k-150k", "75k-100k", "50k-75k", "35k-50k", "20k-35k", "<20k"}
}
