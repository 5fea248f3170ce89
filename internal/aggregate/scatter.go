package aggregate

import (
	"math"
	"sort"

	"github.com/sells-group/gdp-dashboard/internal/model"
	"github.com/sells-group/gdp-dashboard/internal/scope"
)

// DefaultPeers is the number of neighbours PeerScatter returns besides the
// reference municipality.
const DefaultPeers = 10

// PeerPoint is one municipality of the peer-comparison scatter.
type PeerPoint struct {
	Municipality      string   `json:"municipality"`
	State             string   `json:"state"`
	GDPTotal          float64  `json:"gdp_total"`
	GDPPerCapita      float64  `json:"gdp_per_capita"`
	PublicSectorShare *float64 `json:"public_sector_share"`
	Population        float64  `json:"population"`
	IsReference       bool     `json:"is_reference"`
}

// StatePoint is one state of the state scatter.
type StatePoint struct {
	State             string   `json:"state"`
	GDPTotal          float64  `json:"gdp_total"`
	Population        float64  `json:"population"`
	GDPPerCapita      *float64 `json:"gdp_per_capita"`
	MunicipalityCount int      `json:"municipality_count"`
}

// PeerScatter returns the reference municipality of state at year followed by
// its peers nearest in population, by distance then name. peers <= 0 uses
// DefaultPeers. The result is empty when the reference has no row. Public
// sector share is read at the year clamped to the sector cutoff.
func PeerScatter(t *model.Table, state, reference string, year, peers int) []PeerPoint {
	if peers <= 0 {
		peers = DefaultPeers
	}
	rows := scope.Narrow(t, scope.Spec{State: state, Years: yearOnly(year)})

	var ref model.FactRow
	found := false
	for r := range rows.All() {
		if r.Municipality == reference {
			ref, found = r, true
			break
		}
	}
	if !found {
		return []PeerPoint{}
	}
	refPop, ok := ref.Population()
	if !ok {
		return []PeerPoint{}
	}

	sectorYear := t.ClampSectorYear(year)
	var sectorRows map[model.MunicipalityRef]model.FactRow
	if sectorYear != year {
		sectorRows = rowIndex(scope.Narrow(t, scope.Spec{State: state}), sectorYear)
	}
	point := func(r model.FactRow, pop float64) PeerPoint {
		p := PeerPoint{
			Municipality: r.Municipality,
			State:        r.State,
			GDPTotal:     r.GDPTotal,
			GDPPerCapita: r.GDPPerCapita,
			Population:   pop,
		}
		sr := r
		if sectorRows != nil {
			sr = sectorRows[r.Key()]
		}
		p.PublicSectorShare = publicShareOf(sr)
		return p
	}

	type cand struct {
		row  model.FactRow
		pop  float64
		dist float64
	}
	cands := make([]cand, 0, rows.Len())
	for r := range rows.All() {
		if r.Key() == ref.Key() {
			continue
		}
		pop, ok := r.Population()
		if !ok {
			continue
		}
		cands = append(cands, cand{row: r, pop: pop, dist: math.Abs(pop - refPop)})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].row.Municipality < cands[j].row.Municipality
	})
	if len(cands) > peers {
		cands = cands[:peers]
	}

	out := make([]PeerPoint, 0, len(cands)+1)
	first := point(ref, refPop)
	first.IsReference = true
	out = append(out, first)
	for _, c := range cands {
		out = append(out, point(c.row, c.pop))
	}
	return out
}

// ScatterStates aggregates the states of region at year with the same
// population weighting as RankStatesByPerCapita, ordered by state code.
func ScatterStates(t *model.Table, year int, region string) []StatePoint {
	ranks := stateRanks(t, year, region)
	out := make([]StatePoint, len(ranks))
	for i, r := range ranks {
		out[i] = StatePoint(r)
	}
	return out
}
