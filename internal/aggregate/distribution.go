package aggregate

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/gdp-dashboard/internal/model"
	"github.com/sells-group/gdp-dashboard/internal/scope"
)

// Bin is one bar of a histogram covering [Low, High).
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// PerCapitaDistribution buckets the per-capita GDP of the municipalities of
// state (all states when empty) at year into bins equal-width bins.
func PerCapitaDistribution(t *model.Table, state string, year, bins int) []Bin {
	if bins <= 0 {
		bins = 20
	}
	var x []float64
	for r := range scope.Narrow(t, scope.Spec{State: state, Years: yearOnly(year)}).All() {
		if r.GDPPerCapita > 0 {
			x = append(x, r.GDPPerCapita)
		}
	}
	if len(x) == 0 {
		return []Bin{}
	}
	sort.Float64s(x)

	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		bins = 1
	}
	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// stat.Histogram needs every value strictly below the last divider.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, x, nil)
	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Low: dividers[i], High: dividers[i+1], Count: int(counts[i])}
	}
	return out
}
