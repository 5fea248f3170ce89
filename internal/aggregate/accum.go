// Package aggregate computes the derived views of the dashboard from the fact
// table. Every function is pure: it reads the table, allocates its result and
// reports missing data as nil or an empty slice instead of an error.
package aggregate

import (
	"github.com/sells-group/gdp-dashboard/internal/model"
	"github.com/sells-group/gdp-dashboard/internal/scope"
)

// defaultTopN is the number of implicit entities drawn in series charts.
const defaultTopN = 5

func ptr(v float64) *float64 { return &v }

// pctChange returns (cur-base)/base*100, or nil when base is zero.
func pctChange(base, cur float64) *float64 {
	if base == 0 {
		return nil
	}
	return ptr((cur - base) / base * 100)
}

// accum is the explicit reduction behind every weighted aggregate: sums are
// accumulated per group and divided once at the end.
type accum struct {
	gdp        float64
	population float64
	sectors    model.SectorValues
	hasSectors bool
	munis      map[model.MunicipalityRef]struct{}
}

func newAccum() *accum {
	return &accum{munis: make(map[model.MunicipalityRef]struct{})}
}

func (a *accum) add(r model.FactRow) {
	a.gdp += r.GDPTotal
	if pop, ok := r.Population(); ok {
		a.population += pop
	}
	a.munis[r.Key()] = struct{}{}
}

func (a *accum) addSectors(r model.FactRow) {
	if !r.HasSectors {
		return
	}
	a.sectors.Add(r.Sectors)
	a.hasSectors = true
}

// perCapita is sum(gdp)/sum(population), in currency units.
func (a *accum) perCapita() *float64 {
	if a.population <= 0 {
		return nil
	}
	return ptr(a.gdp * model.PopulationScale / a.population)
}

func (a *accum) publicShare() *float64 {
	if !a.hasSectors {
		return nil
	}
	total := a.sectors.Total
	if total <= 0 {
		total = a.sectors.Sum()
	}
	if total <= 0 {
		return nil
	}
	return ptr(a.sectors.PublicAdmin / total * 100)
}

func (a *accum) dominant() string {
	if !a.hasSectors {
		return ""
	}
	s, ok := a.sectors.Dominant()
	if !ok {
		return ""
	}
	return s.String()
}

func yearOnly(year int) *scope.YearRange {
	return &scope.YearRange{Start: year, End: year}
}

// sumOf reduces the rows matched by spec.
func sumOf(t *model.Table, spec scope.Spec) *accum {
	a := newAccum()
	for r := range scope.Narrow(t, spec).All() {
		a.add(r)
		a.addSectors(r)
	}
	return a
}

// resolveRef fills in the state of ref when the name is unique in t. It
// returns false when the name is unknown or, with no state given, ambiguous.
func resolveRef(t *model.Table, ref model.MunicipalityRef) (model.MunicipalityRef, bool) {
	if ref.State != "" {
		return ref, true
	}
	var found model.MunicipalityRef
	for r := range t.All() {
		if r.Municipality != ref.Name {
			continue
		}
		if found.State != "" && found.State != r.State {
			return model.MunicipalityRef{}, false
		}
		found = r.Key()
	}
	return found, found.State != ""
}

// findRow returns the row of ref at year.
func findRow(t *model.Table, ref model.MunicipalityRef, year int) (model.FactRow, bool) {
	for r := range t.All() {
		if r.Year == year && r.Municipality == ref.Name && r.State == ref.State {
			return r, true
		}
	}
	return model.FactRow{}, false
}

// rowIndex maps municipality identity to its row for one year.
func rowIndex(t *model.Table, year int) map[model.MunicipalityRef]model.FactRow {
	idx := make(map[model.MunicipalityRef]model.FactRow)
	for r := range t.All() {
		if r.Year == year {
			idx[r.Key()] = r
		}
	}
	return idx
}

// dominantLabel prefers the categorical label of the dataset and falls back
// to the largest sector component.
func dominantLabel(r model.FactRow) string {
	if r.DominantSector != "" {
		return r.DominantSector
	}
	if !r.HasSectors {
		return ""
	}
	if s, ok := r.Sectors.Dominant(); ok {
		return s.String()
	}
	return ""
}

func publicShareOf(r model.FactRow) *float64 {
	if v, ok := r.PublicSectorShare(); ok {
		return ptr(v)
	}
	return nil
}

func populationOf(r model.FactRow) *float64 {
	if v, ok := r.Population(); ok {
		return ptr(v)
	}
	return nil
}
