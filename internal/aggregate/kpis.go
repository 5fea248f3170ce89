package aggregate

import (
	"github.com/sells-group/gdp-dashboard/internal/geo"
	"github.com/sells-group/gdp-dashboard/internal/model"
	"github.com/sells-group/gdp-dashboard/internal/scope"
)

// MunicipalityKPIs is the headline metric bundle of one municipality.
// Sector-derived fields are computed at SectorYear, the requested year
// clamped to the sector cutoff.
type MunicipalityKPIs struct {
	Municipality      model.MunicipalityRef `json:"municipality"`
	Year              int                   `json:"year"`
	GDPTotal          float64               `json:"gdp_total"`
	Population        *float64              `json:"population"`
	GDPPerCapita      float64               `json:"gdp_per_capita"`
	GrowthVsPrior     *float64              `json:"growth_vs_prior_year"`
	SectorYear        int                   `json:"sector_year"`
	PublicSectorShare *float64              `json:"public_sector_share"`
	DominantSector    string                `json:"dominant_sector,omitempty"`
}

// AggregateKPIs is the metric bundle of a state, region or the whole country.
type AggregateKPIs struct {
	Scope             string   `json:"scope"`
	Year              int      `json:"year"`
	GDPTotal          float64  `json:"gdp_total"`
	Population        float64  `json:"population"`
	GDPPerCapita      *float64 `json:"gdp_per_capita"`
	GrowthVsPrior     *float64 `json:"growth_vs_prior_year"`
	MunicipalityCount int      `json:"municipality_count"`
	SectorYear        int      `json:"sector_year"`
	PublicSectorShare *float64 `json:"public_sector_share"`
	DominantSector    string   `json:"dominant_sector,omitempty"`
}

// KPIsForMunicipality returns nil when the municipality has no row at year.
// An empty ref.State is accepted only when the name is unique.
func KPIsForMunicipality(t *model.Table, ref model.MunicipalityRef, year int) *MunicipalityKPIs {
	ref, ok := resolveRef(t, ref)
	if !ok {
		return nil
	}
	row, ok := findRow(t, ref, year)
	if !ok {
		return nil
	}

	k := &MunicipalityKPIs{
		Municipality: ref,
		Year:         year,
		GDPTotal:     row.GDPTotal,
		Population:   populationOf(row),
		GDPPerCapita: row.GDPPerCapita,
		SectorYear:   t.ClampSectorYear(year),
	}
	if prev, ok := findRow(t, ref, year-1); ok {
		k.GrowthVsPrior = pctChange(prev.GDPTotal, row.GDPTotal)
	}
	if sr, ok := findRow(t, ref, k.SectorYear); ok {
		k.PublicSectorShare = publicShareOf(sr)
		k.DominantSector = dominantLabel(sr)
	}
	return k
}

// KPIsForState returns nil when the state has no rows at year.
func KPIsForState(t *model.Table, state string, year int) *AggregateKPIs {
	if geo.IsAllStates(state) {
		return nil
	}
	return aggregateKPIs(t, scope.Spec{State: state}, geo.NormalizeState(state), year)
}

// KPIsForRegion aggregates a region, or the whole table for the country
// sentinel. Returns nil when nothing matches at year.
func KPIsForRegion(t *model.Table, region string, year int) *AggregateKPIs {
	label := region
	if geo.IsCountry(region) {
		label = geo.Country
	}
	return aggregateKPIs(t, scope.Spec{Region: region}, label, year)
}

func aggregateKPIs(t *model.Table, spec scope.Spec, label string, year int) *AggregateKPIs {
	spec.Years = yearOnly(year)
	cur := sumOf(t, spec)
	if len(cur.munis) == 0 {
		return nil
	}

	k := &AggregateKPIs{
		Scope:             label,
		Year:              year,
		GDPTotal:          cur.gdp,
		Population:        cur.population,
		GDPPerCapita:      cur.perCapita(),
		MunicipalityCount: len(cur.munis),
		SectorYear:        t.ClampSectorYear(year),
	}

	spec.Years = yearOnly(year - 1)
	if prev := sumOf(t, spec); len(prev.munis) > 0 {
		k.GrowthVsPrior = pctChange(prev.gdp, cur.gdp)
	}

	sec := cur
	if k.SectorYear != year {
		spec.Years = yearOnly(k.SectorYear)
		sec = sumOf(t, spec)
	}
	k.PublicSectorShare = sec.publicShare()
	k.DominantSector = sec.dominant()
	return k
}

// EntityKind selects the granularity of GrowthOverPeriod.
type EntityKind int

const (
	EntityMunicipality EntityKind = iota
	EntityState
	EntityRegion
	EntityCountry
)

// Entity names a municipality, state, region or the country. State is only
// read for municipalities.
type Entity struct {
	Kind  EntityKind
	Name  string
	State string
}

// GrowthOverPeriod is the percent change of summed GDP between start and end.
// It returns nil when either boundary year has no rows or the start total is zero.
func GrowthOverPeriod(t *model.Table, e Entity, start, end int) *float64 {
	var spec scope.Spec
	switch e.Kind {
	case EntityMunicipality:
		ref, ok := resolveRef(t, model.MunicipalityRef{Name: e.Name, State: e.State})
		if !ok {
			return nil
		}
		spec = scope.Spec{State: ref.State, Municipalities: []string{ref.Name}}
	case EntityState:
		if geo.IsAllStates(e.Name) {
			return nil
		}
		spec = scope.Spec{State: e.Name}
	case EntityRegion:
		spec = scope.Spec{Region: e.Name}
	case EntityCountry:
	default:
		return nil
	}

	spec.Years = yearOnly(start)
	base := sumOf(t, spec)
	spec.Years = yearOnly(end)
	cur := sumOf(t, spec)
	if len(base.munis) == 0 || len(cur.munis) == 0 {
		return nil
	}
	return pctChange(base.gdp, cur.gdp)
}
