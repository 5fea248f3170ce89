package aggregate

import (
	"sort"

	"github.com/sells-group/gdp-dashboard/internal/model"
	"github.com/sells-group/gdp-dashboard/internal/scope"
)

// MunicipalityRow is one line of the consolidated municipality table.
// Growth compares GDP at the table year against the start year.
type MunicipalityRow struct {
	Municipality      string   `json:"municipality"`
	State             string   `json:"state"`
	GDPTotal          float64  `json:"gdp_total"`
	GDPPerCapita      float64  `json:"gdp_per_capita"`
	PublicSectorShare *float64 `json:"public_sector_share"`
	Growth            *float64 `json:"growth"`
	DominantSector    string   `json:"dominant_sector,omitempty"`
	Population        *float64 `json:"population"`
}

// StateRow is one line of the consolidated state table.
type StateRow struct {
	State             string   `json:"state"`
	GDPTotal          float64  `json:"gdp_total"`
	GDPPerCapita      *float64 `json:"gdp_per_capita"`
	PublicSectorShare *float64 `json:"public_sector_share"`
	Growth            *float64 `json:"growth"`
	DominantSector    string   `json:"dominant_sector,omitempty"`
	Population        float64  `json:"population"`
	MunicipalityCount int      `json:"municipality_count"`
}

// MunicipalitiesTable lists every municipality of state at year, by GDP
// descending then name.
func MunicipalitiesTable(t *model.Table, state string, year, startYear int) []MunicipalityRow {
	return municipalityRows(scope.Narrow(t, scope.Spec{State: state}), year, startYear)
}

// ComparisonTable is MunicipalitiesTable restricted to names.
func ComparisonTable(t *model.Table, state string, names []string, year, startYear int) []MunicipalityRow {
	if len(names) == 0 {
		return []MunicipalityRow{}
	}
	return municipalityRows(scope.Narrow(t, scope.Spec{State: state, Municipalities: names}), year, startYear)
}

func municipalityRows(rows *model.Table, year, startYear int) []MunicipalityRow {
	cur := rowIndex(rows, year)
	base := rowIndex(rows, startYear)
	sectors := cur
	if sy := rows.ClampSectorYear(year); sy != year {
		sectors = rowIndex(rows, sy)
	}

	out := make([]MunicipalityRow, 0, len(cur))
	for ref, r := range cur {
		row := MunicipalityRow{
			Municipality: r.Municipality,
			State:        r.State,
			GDPTotal:     r.GDPTotal,
			GDPPerCapita: r.GDPPerCapita,
			Population:   populationOf(r),
		}
		if b, ok := base[ref]; ok {
			row.Growth = pctChange(b.GDPTotal, r.GDPTotal)
		}
		if s, ok := sectors[ref]; ok {
			row.PublicSectorShare = publicShareOf(s)
			row.DominantSector = dominantLabel(s)
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GDPTotal != out[j].GDPTotal {
			return out[i].GDPTotal > out[j].GDPTotal
		}
		if out[i].Municipality != out[j].Municipality {
			return out[i].Municipality < out[j].Municipality
		}
		return out[i].State < out[j].State
	})
	return out
}

// StatesTable aggregates the states of region at year. The dominant sector of
// a state is the sector with the largest value added summed over its
// municipalities.
func StatesTable(t *model.Table, year, startYear int, region string) []StateRow {
	cur := statesAt(t, region, year)
	base := statesAt(t, region, startYear)
	sectors := cur
	if sy := t.ClampSectorYear(year); sy != year {
		sectors = statesAt(t, region, sy)
	}

	out := make([]StateRow, 0, len(cur))
	for state, a := range cur {
		row := StateRow{
			State:             state,
			GDPTotal:          a.gdp,
			GDPPerCapita:      a.perCapita(),
			Population:        a.population,
			MunicipalityCount: len(a.munis),
		}
		if b, ok := base[state]; ok {
			row.Growth = pctChange(b.gdp, a.gdp)
		}
		if s, ok := sectors[state]; ok {
			row.PublicSectorShare = s.publicShare()
			row.DominantSector = s.dominant()
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GDPTotal != out[j].GDPTotal {
			return out[i].GDPTotal > out[j].GDPTotal
		}
		return out[i].State < out[j].State
	})
	return out
}

func statesAt(t *model.Table, region string, year int) map[string]*accum {
	groups := make(map[string]*accum)
	for r := range scope.Narrow(t, scope.Spec{Region: region, Years: yearOnly(year)}).All() {
		a, ok := groups[r.State]
		if !ok {
			a = newAccum()
			groups[r.State] = a
		}
		a.add(r)
		a.addSectors(r)
	}
	return groups
}
