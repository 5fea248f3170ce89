package aggregate

import (
	"sort"

	"github.com/sells-group/gdp-dashboard/internal/model"
	"github.com/sells-group/gdp-dashboard/internal/scope"
)

// MunicipalityRank is one bar of a municipality ranking.
type MunicipalityRank struct {
	Municipality string  `json:"municipality"`
	State        string  `json:"state"`
	Value        float64 `json:"value"`
}

// StateRank is one state of a state ranking. GDPPerCapita is the
// population-weighted per-capita GDP of the state's municipalities.
type StateRank struct {
	State             string   `json:"state"`
	GDPTotal          float64  `json:"gdp_total"`
	Population        float64  `json:"population"`
	GDPPerCapita      *float64 `json:"gdp_per_capita"`
	MunicipalityCount int      `json:"municipality_count"`
}

// RankMunicipalitiesByGDP orders the municipalities of state at year by GDP,
// descending, ties by name. topN <= 0 keeps every row.
func RankMunicipalitiesByGDP(t *model.Table, state string, year, topN int) []MunicipalityRank {
	return rankMunicipalities(scope.Narrow(t, scope.Spec{State: state, Years: yearOnly(year)}),
		func(r model.FactRow) float64 { return r.GDPTotal }, topN)
}

// RankMunicipalitiesByPerCapita is RankMunicipalitiesByGDP over per-capita GDP.
func RankMunicipalitiesByPerCapita(t *model.Table, state string, year, topN int) []MunicipalityRank {
	return rankMunicipalities(scope.Narrow(t, scope.Spec{State: state, Years: yearOnly(year)}),
		func(r model.FactRow) float64 { return r.GDPPerCapita }, topN)
}

// RankEntities orders an explicit municipality list by GDP at year. Refs
// without a state match the name in any state.
func RankEntities(t *model.Table, refs []model.MunicipalityRef, year int) []MunicipalityRank {
	want := make(map[model.MunicipalityRef]struct{}, len(refs))
	anyState := make(map[string]struct{})
	for _, ref := range refs {
		if ref.State == "" {
			anyState[ref.Name] = struct{}{}
			continue
		}
		want[ref] = struct{}{}
	}
	rows := t.InYear(year).Where(func(r model.FactRow) bool {
		if _, ok := want[r.Key()]; ok {
			return true
		}
		_, ok := anyState[r.Municipality]
		return ok
	})
	return rankMunicipalities(rows, func(r model.FactRow) float64 { return r.GDPTotal }, 0)
}

func rankMunicipalities(rows *model.Table, value func(model.FactRow) float64, topN int) []MunicipalityRank {
	out := make([]MunicipalityRank, 0, rows.Len())
	for r := range rows.All() {
		out = append(out, MunicipalityRank{Municipality: r.Municipality, State: r.State, Value: value(r)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		if out[i].Municipality != out[j].Municipality {
			return out[i].Municipality < out[j].Municipality
		}
		return out[i].State < out[j].State
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// RankStatesByGDP sums GDP per state of region at year, descending, ties by
// state code. topN <= 0 keeps every state.
func RankStatesByGDP(t *model.Table, year int, region string, topN int) []StateRank {
	out := stateRanks(t, year, region)
	sort.Slice(out, func(i, j int) bool {
		if out[i].GDPTotal != out[j].GDPTotal {
			return out[i].GDPTotal > out[j].GDPTotal
		}
		return out[i].State < out[j].State
	})
	return truncateStates(out, topN)
}

// RankStatesByPerCapita orders states by sum(gdp)/sum(population). States
// whose population is undefined are left out.
func RankStatesByPerCapita(t *model.Table, year int, region string, topN int) []StateRank {
	all := stateRanks(t, year, region)
	out := all[:0]
	for _, s := range all {
		if s.GDPPerCapita != nil {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if *out[i].GDPPerCapita != *out[j].GDPPerCapita {
			return *out[i].GDPPerCapita > *out[j].GDPPerCapita
		}
		return out[i].State < out[j].State
	})
	return truncateStates(out, topN)
}

// stateRanks reduces the rows of region at year per state, ordered by code.
func stateRanks(t *model.Table, year int, region string) []StateRank {
	groups := make(map[string]*accum)
	for r := range scope.Narrow(t, scope.Spec{Region: region, Years: yearOnly(year)}).All() {
		a, ok := groups[r.State]
		if !ok {
			a = newAccum()
			groups[r.State] = a
		}
		a.add(r)
	}

	out := make([]StateRank, 0, len(groups))
	for state, a := range groups {
		out = append(out, StateRank{
			State:             state,
			GDPTotal:          a.gdp,
			Population:        a.population,
			GDPPerCapita:      a.perCapita(),
			MunicipalityCount: len(a.munis),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].State < out[j].State })
	return out
}

func truncateStates(s []StateRank, n int) []StateRank {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
