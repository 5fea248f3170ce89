package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sells-group/gdp-dashboard/internal/geo"
	"github.com/sells-group/gdp-dashboard/internal/model"
	"github.com/sells-group/gdp-dashboard/internal/scope"
)

// SeriesPoint is one (group, year) observation of a GDP line chart.
type SeriesPoint struct {
	Year     int     `json:"year"`
	Group    string  `json:"group"`
	GDPTotal float64 `json:"gdp_total"`
}

// SeriesRequest selects what GDPTimeSeries groups by. The most specific
// non-empty field wins: Municipalities, then State, then Region.
type SeriesRequest struct {
	Region         string
	State          string
	Municipalities []string
	Start          int
	End            int
	// TopN bounds the implicit municipality or state list. Zero means 5.
	TopN int
}

// GDPTimeSeries returns GDP per group and year ordered by (group, year).
func GDPTimeSeries(t *model.Table, req SeriesRequest) []SeriesPoint {
	years := &scope.YearRange{Start: req.Start, End: req.End}
	topN := req.TopN
	if topN <= 0 {
		topN = defaultTopN
	}

	switch {
	case len(req.Municipalities) > 0:
		rows := scope.Narrow(t, scope.Spec{
			Region:         req.Region,
			State:          req.State,
			Municipalities: req.Municipalities,
			Years:          years,
		})
		return municipalitySeries(rows)

	case !geo.IsAllStates(req.State):
		top := scope.TopMunicipalities(t, req.State, req.End, topN)
		keep := make(map[model.MunicipalityRef]struct{}, len(top))
		for _, ref := range top {
			keep[ref] = struct{}{}
		}
		rows := scope.Narrow(t, scope.Spec{State: req.State, Years: years}).Where(func(r model.FactRow) bool {
			_, ok := keep[r.Key()]
			return ok
		})
		return municipalitySeries(rows)

	default:
		var states []string
		if geo.IsCountry(req.Region) {
			states = scope.TopStates(t, "", req.End, topN)
		} else {
			states = scope.ListStates(t, req.Region)
		}
		keep := make(map[string]struct{}, len(states))
		for _, s := range states {
			keep[s] = struct{}{}
		}
		rows := scope.Narrow(t, scope.Spec{Years: years}).Where(func(r model.FactRow) bool {
			_, ok := keep[r.State]
			return ok
		})
		return groupSeries(rows, func(r model.FactRow) string { return r.State })
	}
}

// RegionTimeSeries returns GDP per region and year. An empty list selects
// every region present.
func RegionTimeSeries(t *model.Table, regions []string, start, end int) []SeriesPoint {
	if len(regions) == 0 {
		regions = scope.ListRegions(t)
	}
	keep := make(map[string]struct{}, len(regions))
	for _, r := range regions {
		keep[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}
	rows := scope.Narrow(t, scope.Spec{Years: &scope.YearRange{Start: start, End: end}}).Where(func(r model.FactRow) bool {
		_, ok := keep[strings.ToLower(r.Region)]
		return ok
	})
	return groupSeries(rows, func(r model.FactRow) string { return r.Region })
}

// StateTimeSeries returns GDP per state and year for an explicit list of
// states.
func StateTimeSeries(t *model.Table, states []string, start, end int) []SeriesPoint {
	keep := make(map[string]struct{}, len(states))
	for _, s := range states {
		keep[geo.NormalizeState(s)] = struct{}{}
	}
	rows := scope.Narrow(t, scope.Spec{Years: &scope.YearRange{Start: start, End: end}}).Where(func(r model.FactRow) bool {
		_, ok := keep[r.State]
		return ok
	})
	return groupSeries(rows, func(r model.FactRow) string { return r.State })
}

// municipalitySeries labels groups by name, adding the state when the same
// name occurs in more than one state.
func municipalitySeries(rows *model.Table) []SeriesPoint {
	statesByName := make(map[string]map[string]struct{})
	for r := range rows.All() {
		if statesByName[r.Municipality] == nil {
			statesByName[r.Municipality] = make(map[string]struct{})
		}
		statesByName[r.Municipality][r.State] = struct{}{}
	}
	return groupSeries(rows, func(r model.FactRow) string {
		if len(statesByName[r.Municipality]) > 1 {
			return fmt.Sprintf("%s (%s)", r.Municipality, r.State)
		}
		return r.Municipality
	})
}

func groupSeries(rows *model.Table, group func(model.FactRow) string) []SeriesPoint {
	type key struct {
		group string
		year  int
	}
	sums := make(map[key]float64)
	for r := range rows.All() {
		sums[key{group(r), r.Year}] += r.GDPTotal
	}

	out := make([]SeriesPoint, 0, len(sums))
	for k, v := range sums {
		out = append(out, SeriesPoint{Year: k.year, Group: k.group, GDPTotal: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Year < out[j].Year
	})
	return out
}

// SectorPoint is the summed value added of a scope in one year.
type SectorPoint struct {
	Year    int                `json:"year"`
	Sectors model.SectorValues `json:"sectors"`
}

// SectorValueAddedSeries sums sector value added over spec for every year in
// [start, min(end, cutoff)]. The year range of spec is ignored. The result is
// empty when the cutoff precedes start.
func SectorValueAddedSeries(t *model.Table, spec scope.Spec, start, end int) []SectorPoint {
	end = t.ClampSectorYear(end)
	if end < start {
		return []SectorPoint{}
	}
	spec.Years = &scope.YearRange{Start: start, End: end}

	byYear := make(map[int]*model.SectorValues)
	for r := range scope.Narrow(t, spec).All() {
		if !r.HasSectors {
			continue
		}
		v, ok := byYear[r.Year]
		if !ok {
			v = &model.SectorValues{}
			byYear[r.Year] = v
		}
		v.Add(r.Sectors)
	}

	out := make([]SectorPoint, 0, len(byYear))
	for y, v := range byYear {
		out = append(out, SectorPoint{Year: y, Sectors: *v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
