// Package dashboard assembles the panels visible for a filter selection.
package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/gdp-dashboard/internal/aggregate"
	"github.com/sells-group/gdp-dashboard/internal/filter"
	"github.com/sells-group/gdp-dashboard/internal/geo"
	"github.com/sells-group/gdp-dashboard/internal/model"
	"github.com/sells-group/gdp-dashboard/internal/scope"
)

// Panel names reported in View.Unavailable.
const (
	PanelKPIs             = "kpis"
	PanelEntityKPIs       = "entity_kpis"
	PanelGrowth           = "growth"
	PanelSeries           = "series"
	PanelSectorSeries     = "sector_series"
	PanelComposition      = "composition"
	PanelPeers            = "peers"
	PanelComparison       = "comparison"
	PanelRankingGDP       = "ranking_gdp"
	PanelRankingPerCapita = "ranking_per_capita"
	PanelDistribution     = "distribution"
	PanelMunicipalities   = "municipalities"
	PanelStateRankingGDP  = "state_ranking_gdp"
	PanelStateRankingPC   = "state_ranking_per_capita"
	PanelStateScatter     = "state_scatter"
	PanelStates           = "states"
	PanelStateComposition = "state_composition"
)

const (
	defaultConcurrency   = 4
	defaultRankingTopN   = 10
	defaultSeriesTopN    = 5
	defaultHistogramBins = 20
)

// Options sizes the panels.
type Options struct {
	RankingTopN   int
	SeriesTopN    int
	PeerCount     int
	HistogramBins int
	// Concurrency bounds the panels computed at once. Zero means 4.
	Concurrency int
}

func (o Options) withDefaults() Options {
	if o.RankingTopN <= 0 {
		o.RankingTopN = defaultRankingTopN
	}
	if o.SeriesTopN <= 0 {
		o.SeriesTopN = defaultSeriesTopN
	}
	if o.PeerCount <= 0 {
		o.PeerCount = aggregate.DefaultPeers
	}
	if o.HistogramBins <= 0 {
		o.HistogramBins = defaultHistogramBins
	}
	if o.Concurrency <= 0 {
		o.Concurrency = defaultConcurrency
	}
	return o
}

// View holds every panel of one selection. Panels that do not apply to the
// mode stay nil; panels that apply but have no data are listed in
// Unavailable.
type View struct {
	Mode  string          `json:"mode"`
	Title string          `json:"title"`
	Year  int             `json:"year"`
	Range scope.YearRange `json:"range"`

	MunicipalityKPIs *aggregate.MunicipalityKPIs `json:"municipality_kpis,omitempty"`
	AggregateKPIs    *aggregate.AggregateKPIs    `json:"aggregate_kpis,omitempty"`
	EntityKPIs       []aggregate.AggregateKPIs   `json:"entity_kpis,omitempty"`
	Growth           *float64                    `json:"growth,omitempty"`

	Series       []aggregate.SeriesPoint `json:"series,omitempty"`
	SectorSeries []aggregate.SectorPoint `json:"sector_series,omitempty"`
	Composition  []aggregate.SectorShare `json:"composition,omitempty"`
	Peers        []aggregate.PeerPoint   `json:"peers,omitempty"`

	Comparison         []aggregate.MunicipalityRank `json:"comparison,omitempty"`
	RankingGDP         []aggregate.MunicipalityRank `json:"ranking_gdp,omitempty"`
	RankingPerCapita   []aggregate.MunicipalityRank `json:"ranking_per_capita,omitempty"`
	Distribution       []aggregate.Bin              `json:"distribution,omitempty"`
	MunicipalitiesRows []aggregate.MunicipalityRow  `json:"municipalities,omitempty"`

	StateRankingGDP       []aggregate.StateRank         `json:"state_ranking_gdp,omitempty"`
	StateRankingPerCapita []aggregate.StateRank         `json:"state_ranking_per_capita,omitempty"`
	StateScatter          []aggregate.StatePoint        `json:"state_scatter,omitempty"`
	StatesRows            []aggregate.StateRow          `json:"states,omitempty"`
	StateComposition      []aggregate.StateSectorShares `json:"state_composition,omitempty"`

	Unavailable []string `json:"unavailable,omitempty"`
}

// panel computes one field of the view and reports whether it has data.
type panel struct {
	name string
	run  func() bool
}

// Build computes the panels of fc over t. Panels run concurrently; the table
// is read-only so they share it without locking. Each panel writes a
// distinct field of the view.
func Build(ctx context.Context, t *model.Table, fc filter.Context, opts Options) (*View, error) {
	if t == nil {
		return nil, eris.New("dashboard: nil table")
	}
	if fc.Mode() == nil {
		return nil, eris.New("dashboard: empty filter context")
	}
	opts = opts.withDefaults()
	start := time.Now()

	v := &View{Mode: fc.Mode().Name(), Year: fc.Year(), Range: fc.Range()}
	var panels []panel
	switch m := fc.Mode().(type) {
	case filter.SingleEntity:
		v.Title = m.Municipality.Name + " (" + m.Municipality.State + ")"
		panels = singlePanels(t, fc, m, opts, v)
	case filter.CompareEntities:
		v.Title = m.State
		panels = comparePanels(t, fc, m, v)
	case filter.AllInScope:
		v.Title = m.State
		panels = statePanels(t, fc, m, opts, v)
	case filter.Aggregate:
		v.Title = regionTitle(m.Region)
		panels = aggregatePanels(t, fc, m, opts, v)
	case filter.CompareStates:
		v.Title = regionTitle(m.Region)
		panels = compareStatesPanels(t, fc, m, v)
	case filter.CompareRegions:
		v.Title = regionTitle("")
		panels = compareRegionsPanels(t, fc, m, v)
	default:
		return nil, eris.Errorf("dashboard: unsupported mode %T", m)
	}

	ok := make([]bool, len(panels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, p := range panels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ok[i] = p.run()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "dashboard: build panels")
	}

	for i, p := range panels {
		if !ok[i] {
			v.Unavailable = append(v.Unavailable, p.name)
		}
	}
	sort.Strings(v.Unavailable)

	zap.L().Debug("dashboard: view built",
		zap.String("mode", v.Mode),
		zap.String("title", v.Title),
		zap.Int("year", v.Year),
		zap.Int("panels", len(panels)),
		zap.Strings("unavailable", v.Unavailable),
		zap.Duration("elapsed", time.Since(start)),
	)
	return v, nil
}

func singlePanels(t *model.Table, fc filter.Context, m filter.SingleEntity, opts Options, v *View) []panel {
	ref := m.Municipality
	yr := fc.Range()
	spec := scope.Spec{State: ref.State, Municipalities: []string{ref.Name}}
	return []panel{
		{PanelKPIs, func() bool {
			v.MunicipalityKPIs = aggregate.KPIsForMunicipality(t, ref, fc.Year())
			return v.MunicipalityKPIs != nil
		}},
		{PanelGrowth, func() bool {
			v.Growth = aggregate.GrowthOverPeriod(t, aggregate.Entity{Kind: aggregate.EntityMunicipality, Name: ref.Name, State: ref.State}, yr.Start, yr.End)
			return v.Growth != nil
		}},
		{PanelSeries, func() bool {
			v.Series = aggregate.GDPTimeSeries(t, aggregate.SeriesRequest{State: ref.State, Municipalities: []string{ref.Name}, Start: yr.Start, End: yr.End})
			return len(v.Series) > 0
		}},
		{PanelSectorSeries, func() bool {
			v.SectorSeries = aggregate.SectorValueAddedSeries(t, spec, yr.Start, yr.End)
			return len(v.SectorSeries) > 0
		}},
		{PanelComposition, func() bool {
			v.Composition = aggregate.SectorComposition(t, spec, fc.Year())
			return len(v.Composition) > 0
		}},
		{PanelPeers, func() bool {
			v.Peers = aggregate.PeerScatter(t, ref.State, ref.Name, fc.Year(), opts.PeerCount)
			return len(v.Peers) > 0
		}},
	}
}

func comparePanels(t *model.Table, fc filter.Context, m filter.CompareEntities, v *View) []panel {
	yr := fc.Range()
	refs := make([]model.MunicipalityRef, len(m.Municipalities))
	for i, name := range m.Municipalities {
		refs[i] = model.MunicipalityRef{Name: name, State: m.State}
	}
	return []panel{
		{PanelComparison, func() bool {
			v.Comparison = aggregate.RankEntities(t, refs, fc.Year())
			return len(v.Comparison) > 0
		}},
		{PanelSeries, func() bool {
			v.Series = aggregate.GDPTimeSeries(t, aggregate.SeriesRequest{State: m.State, Municipalities: m.Municipalities, Start: yr.Start, End: yr.End})
			return len(v.Series) > 0
		}},
		{PanelMunicipalities, func() bool {
			v.MunicipalitiesRows = aggregate.ComparisonTable(t, m.State, m.Municipalities, fc.Year(), yr.Start)
			return len(v.MunicipalitiesRows) > 0
		}},
	}
}

func statePanels(t *model.Table, fc filter.Context, m filter.AllInScope, opts Options, v *View) []panel {
	yr := fc.Range()
	spec := scope.Spec{State: m.State}
	return []panel{
		{PanelKPIs, func() bool {
			v.AggregateKPIs = aggregate.KPIsForState(t, m.State, fc.Year())
			return v.AggregateKPIs != nil
		}},
		{PanelGrowth, func() bool {
			v.Growth = aggregate.GrowthOverPeriod(t, aggregate.Entity{Kind: aggregate.EntityState, Name: m.State}, yr.Start, yr.End)
			return v.Growth != nil
		}},
		{PanelSeries, func() bool {
			v.Series = aggregate.GDPTimeSeries(t, aggregate.SeriesRequest{State: m.State, Start: yr.Start, End: yr.End, TopN: opts.SeriesTopN})
			return len(v.Series) > 0
		}},
		{PanelSectorSeries, func() bool {
			v.SectorSeries = aggregate.SectorValueAddedSeries(t, spec, yr.Start, yr.End)
			return len(v.SectorSeries) > 0
		}},
		{PanelComposition, func() bool {
			v.Composition = aggregate.SectorComposition(t, spec, fc.Year())
			return len(v.Composition) > 0
		}},
		{PanelRankingGDP, func() bool {
			v.RankingGDP = aggregate.RankMunicipalitiesByGDP(t, m.State, fc.Year(), opts.RankingTopN)
			return len(v.RankingGDP) > 0
		}},
		{PanelRankingPerCapita, func() bool {
			v.RankingPerCapita = aggregate.RankMunicipalitiesByPerCapita(t, m.State, fc.Year(), opts.RankingTopN)
			return len(v.RankingPerCapita) > 0
		}},
		{PanelDistribution, func() bool {
			v.Distribution = aggregate.PerCapitaDistribution(t, m.State, fc.Year(), opts.HistogramBins)
			return len(v.Distribution) > 0
		}},
		{PanelMunicipalities, func() bool {
			v.MunicipalitiesRows = aggregate.MunicipalitiesTable(t, m.State, fc.Year(), yr.Start)
			return len(v.MunicipalitiesRows) > 0
		}},
	}
}

func aggregatePanels(t *model.Table, fc filter.Context, m filter.Aggregate, opts Options, v *View) []panel {
	yr := fc.Range()
	spec := scope.Spec{Region: m.Region}
	growth := aggregate.Entity{Kind: aggregate.EntityRegion, Name: m.Region}
	if m.Region == "" {
		growth = aggregate.Entity{Kind: aggregate.EntityCountry}
	}
	return []panel{
		{PanelKPIs, func() bool {
			v.AggregateKPIs = aggregate.KPIsForRegion(t, m.Region, fc.Year())
			return v.AggregateKPIs != nil
		}},
		{PanelGrowth, func() bool {
			v.Growth = aggregate.GrowthOverPeriod(t, growth, yr.Start, yr.End)
			return v.Growth != nil
		}},
		{PanelSeries, func() bool {
			v.Series = aggregate.GDPTimeSeries(t, aggregate.SeriesRequest{Region: m.Region, Start: yr.Start, End: yr.End, TopN: opts.SeriesTopN})
			return len(v.Series) > 0
		}},
		{PanelSectorSeries, func() bool {
			v.SectorSeries = aggregate.SectorValueAddedSeries(t, spec, yr.Start, yr.End)
			return len(v.SectorSeries) > 0
		}},
		{PanelComposition, func() bool {
			v.Composition = aggregate.SectorComposition(t, spec, fc.Year())
			return len(v.Composition) > 0
		}},
		{PanelStateRankingGDP, func() bool {
			v.StateRankingGDP = aggregate.RankStatesByGDP(t, fc.Year(), m.Region, opts.RankingTopN)
			return len(v.StateRankingGDP) > 0
		}},
		{PanelStateRankingPC, func() bool {
			v.StateRankingPerCapita = aggregate.RankStatesByPerCapita(t, fc.Year(), m.Region, opts.RankingTopN)
			return len(v.StateRankingPerCapita) > 0
		}},
		{PanelStateScatter, func() bool {
			v.StateScatter = aggregate.ScatterStates(t, fc.Year(), m.Region)
			return len(v.StateScatter) > 0
		}},
		{PanelStates, func() bool {
			v.StatesRows = aggregate.StatesTable(t, fc.Year(), yr.Start, m.Region)
			return len(v.StatesRows) > 0
		}},
		{PanelStateComposition, func() bool {
			v.StateComposition = aggregate.SectorCompositionByState(t, m.Region, fc.Year())
			return len(v.StateComposition) > 0
		}},
	}
}

func compareStatesPanels(t *model.Table, fc filter.Context, m filter.CompareStates, v *View) []panel {
	yr := fc.Range()
	keep := make(map[string]struct{}, len(m.States))
	for _, s := range m.States {
		keep[s] = struct{}{}
	}
	return []panel{
		{PanelEntityKPIs, func() bool {
			for _, s := range m.States {
				if k := aggregate.KPIsForState(t, s, fc.Year()); k != nil {
					v.EntityKPIs = append(v.EntityKPIs, *k)
				}
			}
			return len(v.EntityKPIs) > 0
		}},
		{PanelSeries, func() bool {
			v.Series = aggregate.StateTimeSeries(t, m.States, yr.Start, yr.End)
			return len(v.Series) > 0
		}},
		{PanelStates, func() bool {
			for _, r := range aggregate.StatesTable(t, fc.Year(), yr.Start, m.Region) {
				if _, ok := keep[r.State]; ok {
					v.StatesRows = append(v.StatesRows, r)
				}
			}
			return len(v.StatesRows) > 0
		}},
		{PanelStateComposition, func() bool {
			for _, s := range aggregate.SectorCompositionByState(t, m.Region, fc.Year()) {
				if _, ok := keep[s.State]; ok {
					v.StateComposition = append(v.StateComposition, s)
				}
			}
			return len(v.StateComposition) > 0
		}},
	}
}

func compareRegionsPanels(t *model.Table, fc filter.Context, m filter.CompareRegions, v *View) []panel {
	yr := fc.Range()
	return []panel{
		{PanelEntityKPIs, func() bool {
			for _, r := range m.Regions {
				if k := aggregate.KPIsForRegion(t, r, fc.Year()); k != nil {
					v.EntityKPIs = append(v.EntityKPIs, *k)
				}
			}
			return len(v.EntityKPIs) > 0
		}},
		{PanelSeries, func() bool {
			v.Series = aggregate.RegionTimeSeries(t, m.Regions, yr.Start, yr.End)
			return len(v.Series) > 0
		}},
	}
}

func regionTitle(region string) string {
	if region == "" {
		return geo.Country
	}
	return region
}
