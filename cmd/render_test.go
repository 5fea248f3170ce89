package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/gdp-dashboard/internal/aggregate"
	"github.com/sells-group/gdp-dashboard/internal/dashboard"
	"github.com/sells-group/gdp-dashboard/internal/model"
	"github.com/sells-group/gdp-dashboard/internal/numfmt"
)

func f64(v float64) *float64 { return &v }

func TestRenderMunicipalityKPIs(t *testing.T) {
	var buf bytes.Buffer
	renderMunicipalityKPIs(&buf, numfmt.New("pt-BR"), &aggregate.MunicipalityKPIs{
		Municipality:      model.MunicipalityRef{Name: "Campinas", State: "SP"},
		Year:              2022,
		GDPTotal:          2_300_000,
		Population:        f64(46_000),
		GDPPerCapita:      50_000,
		GrowthVsPrior:     f64(5.2),
		SectorYear:        2021,
		PublicSectorShare: f64(12.5),
	})

	out := buf.String()
	assert.Contains(t, out, "Campinas (SP), 2022")
	assert.Contains(t, out, "R$ 2,3 bi")
	assert.Contains(t, out, "46.000")
	assert.Contains(t, out, "R$ 50.000")
	assert.Contains(t, out, "+5,2%")
	assert.Contains(t, out, "12,5%")
	assert.Contains(t, out, "(setores: 2021)")
	// Missing dominant sector prints N/A.
	assert.Contains(t, out, numfmt.NA)
}

func TestRenderMunicipalityRanking(t *testing.T) {
	var buf bytes.Buffer
	renderMunicipalityRanking(&buf, numfmt.New("pt-BR"), "Maiores PIBs per capita", []aggregate.MunicipalityRank{
		{Municipality: "Paulínia", State: "SP", Value: 320_000},
		{Municipality: "Santos", State: "SP", Value: 60_000},
	}, true)

	out := buf.String()
	assert.Contains(t, out, "Maiores PIBs per capita")
	assert.Contains(t, out, "R$ 320.000")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Paulínia")), bytes.Index(buf.Bytes(), []byte("Santos")))
}

func TestRenderIntegrity(t *testing.T) {
	var buf bytes.Buffer
	renderIntegrity(&buf, model.IntegrityReport{
		Rows:       3,
		Duplicates: []model.RowKey{{Municipality: "Campinas", State: "SP", Year: 2021}},
	})

	out := buf.String()
	assert.Contains(t, out, "Integridade (3 linhas)")
	assert.Contains(t, out, "Campinas/SP/2021")
}

func TestRenderView(t *testing.T) {
	v := &dashboard.View{
		Mode:  "aggregate",
		Title: "Sul",
		Year:  2021,
		AggregateKPIs: &aggregate.AggregateKPIs{
			Scope: "Sul", Year: 2021, GDPTotal: 800, Population: 20, GDPPerCapita: f64(40_000), MunicipalityCount: 1,
		},
		StatesRows:  []aggregate.StateRow{{State: "PR", GDPTotal: 800, Population: 20, MunicipalityCount: 1}},
		Unavailable: []string{dashboard.PanelStateComposition},
	}

	var buf bytes.Buffer
	renderView(&buf, numfmt.New("pt-BR"), v)

	out := buf.String()
	assert.Contains(t, out, "Sul, 2021")
	assert.Contains(t, out, "R$ 40.000")
	assert.Contains(t, out, "PR")
	assert.Contains(t, out, dashboard.PanelStateComposition+": dados não disponíveis")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"year": 2021}))

	var got map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 2021, got["year"])
}

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, checkFormat(formatTable))
	assert.NoError(t, checkFormat(formatJSON))
	assert.ErrorContains(t, checkFormat("yaml"), "unknown format")
}

func TestPlotPanel(t *testing.T) {
	v := &dashboard.View{
		Mode:   "all",
		Title:  "SP",
		Series: []aggregate.SeriesPoint{{Year: 2020, Group: "Campinas", GDPTotal: 900}, {Year: 2021, Group: "Campinas", GDPTotal: 1000}},
	}

	p, err := plotPanel(v, chartSeries)
	require.NoError(t, err)
	assert.Equal(t, "Evolução do PIB: SP", p.Title.Text)

	_, err = plotPanel(v, chartPeers)
	assert.ErrorContains(t, err, "--view single")

	_, err = plotPanel(v, "pie")
	assert.ErrorContains(t, err, "unknown kind")
}
