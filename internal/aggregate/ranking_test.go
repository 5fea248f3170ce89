package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/gdp-dashboard/internal/model"
)

func TestRankMunicipalitiesByGDP(t *testing.T) {
	got := RankMunicipalitiesByGDP(fixture(), "XX", 2021, 0)
	assert.Equal(t, []MunicipalityRank{
		{Municipality: "Alpha", State: "XX", Value: 1100},
		{Municipality: "Beta", State: "XX", Value: 400},
	}, got)

	assert.Empty(t, RankMunicipalitiesByGDP(fixture(), "ZZ", 2021, 10))
}

func TestRankMunicipalitiesByGDP_TieBreakByName(t *testing.T) {
	tbl := model.NewTable([]model.FactRow{
		{Municipality: "Zeta", State: "XX", Year: 2021, GDPTotal: 500, GDPPerCapita: 1},
		{Municipality: "Eta", State: "XX", Year: 2021, GDPTotal: 500, GDPPerCapita: 1},
		{Municipality: "Theta", State: "XX", Year: 2021, GDPTotal: 900, GDPPerCapita: 1},
	})

	for i := 0; i < 5; i++ {
		got := RankMunicipalitiesByGDP(tbl, "XX", 2021, 0)
		require.Len(t, got, 3)
		assert.Equal(t, "Theta", got[0].Municipality)
		assert.Equal(t, "Eta", got[1].Municipality)
		assert.Equal(t, "Zeta", got[2].Municipality)
	}

	top := RankMunicipalitiesByGDP(tbl, "XX", 2021, 2)
	assert.Len(t, top, 2)
}

func TestRankMunicipalitiesByPerCapita(t *testing.T) {
	got := RankMunicipalitiesByPerCapita(fixture(), "", 2021, 2)
	assert.Equal(t, []MunicipalityRank{
		{Municipality: "Gamma", State: "YY", Value: 30000},
		{Municipality: "Alpha", State: "XX", Value: 22000},
	}, got)
}

func TestRankStates_WeightedPerCapita(t *testing.T) {
	tbl := model.NewTable([]model.FactRow{
		row("A", "SS", "Sul", 2021, 100, 10),
		row("B", "SS", "Sul", 2021, 300, 30),
	})

	byPC := RankStatesByPerCapita(tbl, 2021, "", 0)
	require.Len(t, byPC, 1)
	require.NotNil(t, byPC[0].GDPPerCapita)
	assert.InDelta(t, 25.0, *byPC[0].GDPPerCapita, 1e-9, "not the naive mean of 20")
	assert.InDelta(t, 400.0, byPC[0].Population, 1e-9)

	byGDP := RankStatesByGDP(tbl, 2021, "", 0)
	require.Len(t, byGDP, 1)
	assert.InDelta(t, 25.0, *byGDP[0].GDPPerCapita, 1e-9)
	assert.Equal(t, 2, byGDP[0].MunicipalityCount)
}

func TestRankStatesByGDP(t *testing.T) {
	got := RankStatesByGDP(fixture(), 2021, "", 0)
	require.Len(t, got, 2)
	assert.Equal(t, "XX", got[0].State)
	assert.Equal(t, 1500.0, got[0].GDPTotal)
	assert.Equal(t, 2, got[0].MunicipalityCount)
	assert.Equal(t, "YY", got[1].State)
	assert.Equal(t, 400.0, got[1].GDPTotal)

	assert.Len(t, RankStatesByGDP(fixture(), 2021, "", 1), 1)
	assert.Len(t, RankStatesByGDP(fixture(), 2021, "Sul", 0), 1)
}

func TestRankStatesByPerCapita_Order(t *testing.T) {
	got := RankStatesByPerCapita(fixture(), 2021, "", 0)
	require.Len(t, got, 2)
	// XX: 1500 / 90 people; YY: 400 / 30 people.
	assert.Equal(t, "XX", got[0].State)
	assert.InDelta(t, 1500.0*1000/90, *got[0].GDPPerCapita, 1e-6)
	assert.InDelta(t, 400.0*1000/30, *got[1].GDPPerCapita, 1e-6)
}

func TestRankStatesByPerCapita_SkipsUndefinedPopulation(t *testing.T) {
	tbl := model.NewTable([]model.FactRow{
		{Municipality: "A", State: "AA", Year: 2021, GDPTotal: 10, GDPPerCapita: 0},
		row("B", "BB", "Sul", 2021, 10, 10),
	})
	got := RankStatesByPerCapita(tbl, 2021, "", 0)
	require.Len(t, got, 1)
	assert.Equal(t, "BB", got[0].State)
}

func TestRankEntities(t *testing.T) {
	got := RankEntities(fixture(), []model.MunicipalityRef{{Name: "Alpha"}, {Name: "Gamma", State: "YY"}}, 2021)
	assert.Equal(t, []MunicipalityRank{
		{Municipality: "Alpha", State: "XX", Value: 1100},
		{Municipality: "Gamma", State: "YY", Value: 300},
		{Municipality: "Alpha", State: "YY", Value: 100},
	}, got)
}
