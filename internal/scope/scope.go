// Package scope narrows the fact table to the rows a query operates over and
// resolves implicit entity lists.
package scope

import (
	"sort"
	"strings"

	"github.com/sells-group/gdp-dashboard/internal/geo"
	"github.com/sells-group/gdp-dashboard/internal/model"
)

// YearRange is an inclusive [Start, End] interval of years.
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether year falls in the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// Spec describes a row subset. Zero values and sentinels ("Brasil", "Todas",
// "all") leave the corresponding dimension unfiltered.
type Spec struct {
	Region         string
	State          string
	Municipalities []string
	Years          *YearRange
}

// Narrow applies the filters of spec conjunctively, in the order
// region, state, municipality list, year range. It never fails: a spec that
// matches nothing yields an empty table.
func Narrow(t *model.Table, spec Spec) *model.Table {
	out := t
	if !geo.IsCountry(spec.Region) {
		out = out.Where(func(r model.FactRow) bool { return strings.EqualFold(r.Region, spec.Region) })
	}
	if !geo.IsAllStates(spec.State) {
		state := geo.NormalizeState(spec.State)
		out = out.Where(func(r model.FactRow) bool { return r.State == state })
	}
	if len(spec.Municipalities) > 0 {
		names := make(map[string]struct{}, len(spec.Municipalities))
		for _, n := range spec.Municipalities {
			names[n] = struct{}{}
		}
		out = out.Where(func(r model.FactRow) bool {
			_, ok := names[r.Municipality]
			return ok
		})
	}
	if spec.Years != nil {
		yr := *spec.Years
		out = out.Where(func(r model.FactRow) bool { return yr.Contains(r.Year) })
	}
	return out
}

// ListRegions returns the distinct region names present, ascending.
func ListRegions(t *model.Table) []string {
	return distinct(t, func(r model.FactRow) string { return r.Region })
}

// ListStates returns the distinct state codes of region, ascending. The
// country sentinel lists every state.
func ListStates(t *model.Table, region string) []string {
	return distinct(Narrow(t, Spec{Region: region}), func(r model.FactRow) string { return r.State })
}

// ListMunicipalities returns the distinct municipality names of state,
// ascending. An empty or "all" state yields no names.
func ListMunicipalities(t *model.Table, state string) []string {
	if geo.IsAllStates(state) {
		return []string{}
	}
	return distinct(Narrow(t, Spec{State: state}), func(r model.FactRow) string { return r.Municipality })
}

func distinct(t *model.Table, key func(model.FactRow) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for r := range t.All() {
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// TopMunicipalities returns up to n municipalities of state ordered by GDP at
// year, descending, ties by name. n <= 0 returns all of them.
func TopMunicipalities(t *model.Table, state string, year int, n int) []model.MunicipalityRef {
	rows := Narrow(t, Spec{State: state, Years: &YearRange{Start: year, End: year}})
	type entry struct {
		ref model.MunicipalityRef
		gdp float64
	}
	entries := make([]entry, 0, rows.Len())
	for r := range rows.All() {
		entries = append(entries, entry{ref: r.Key(), gdp: r.GDPTotal})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].gdp != entries[j].gdp {
			return entries[i].gdp > entries[j].gdp
		}
		if entries[i].ref.Name != entries[j].ref.Name {
			return entries[i].ref.Name < entries[j].ref.Name
		}
		return entries[i].ref.State < entries[j].ref.State
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	refs := make([]model.MunicipalityRef, len(entries))
	for i, e := range entries {
		refs[i] = e.ref
	}
	return refs
}

// TopStates returns up to n states of region ordered by summed GDP at year,
// descending, ties by code. n <= 0 returns all of them.
func TopStates(t *model.Table, region string, year int, n int) []string {
	rows := Narrow(t, Spec{Region: region, Years: &YearRange{Start: year, End: year}})
	totals := make(map[string]float64)
	for r := range rows.All() {
		totals[r.State] += r.GDPTotal
	}
	states := make([]string, 0, len(totals))
	for s := range totals {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool {
		if totals[states[i]] != totals[states[j]] {
			return totals[states[i]] > totals[states[j]]
		}
		return states[i] < states[j]
	})
	if n > 0 && len(states) > n {
		states = states[:n]
	}
	return states
}
