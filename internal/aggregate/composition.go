package aggregate

import (
	"sort"

	"github.com/sells-group/gdp-dashboard/internal/model"
	"github.com/sells-group/gdp-dashboard/internal/scope"
)

// SectorShare is one slice of a composition donut.
type SectorShare struct {
	Sector     model.Sector `json:"sector"`
	Label      string       `json:"label"`
	ValueAdded float64      `json:"value_added"`
	Share      float64      `json:"share"`
}

// StateSectorShares is the composition of one state.
type StateSectorShares struct {
	State  string        `json:"state"`
	Shares []SectorShare `json:"shares"`
}

// SectorComposition splits the value added of spec at year across the four
// sectors, in display order. The year is clamped to the sector cutoff and the
// year range of spec is ignored. Returns nil when total value added is zero.
func SectorComposition(t *model.Table, spec scope.Spec, year int) []SectorShare {
	spec.Years = yearOnly(t.ClampSectorYear(year))
	var sum model.SectorValues
	for r := range scope.Narrow(t, spec).All() {
		if r.HasSectors {
			sum.Add(r.Sectors)
		}
	}
	return shares(sum)
}

// SectorCompositionByState returns the composition of every state of region
// at year, ordered by state code. States without sector data are omitted.
func SectorCompositionByState(t *model.Table, region string, year int) []StateSectorShares {
	spec := scope.Spec{Region: region, Years: yearOnly(t.ClampSectorYear(year))}
	sums := make(map[string]*model.SectorValues)
	for r := range scope.Narrow(t, spec).All() {
		if !r.HasSectors {
			continue
		}
		v, ok := sums[r.State]
		if !ok {
			v = &model.SectorValues{}
			sums[r.State] = v
		}
		v.Add(r.Sectors)
	}

	out := make([]StateSectorShares, 0, len(sums))
	for state, v := range sums {
		if s := shares(*v); s != nil {
			out = append(out, StateSectorShares{State: state, Shares: s})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].State < out[j].State })
	return out
}

// shares uses the sum of the four components as denominator so the result
// always closes at 100.
func shares(v model.SectorValues) []SectorShare {
	total := v.Sum()
	if total <= 0 {
		return nil
	}
	out := make([]SectorShare, len(model.Sectors))
	for i, s := range model.Sectors {
		out[i] = SectorShare{
			Sector:     s,
			Label:      s.String(),
			ValueAdded: v.Get(s),
			Share:      v.Get(s) / total * 100,
		}
	}
	return out
}
