package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []FactRow {
	return []FactRow{
		{Municipality: "Alpha", State: "XX", Region: "Norte", Year: 2020, GDPTotal: 1000, GDPPerCapita: 20000, HasSectors: true,
			Sectors: SectorValues{Agriculture: 100, Industry: 200, Services: 300, PublicAdmin: 400, Total: 1000}},
		{Municipality: "Alpha", State: "XX", Region: "Norte", Year: 2021, GDPTotal: 1100, GDPPerCapita: 22000, HasSectors: true,
			Sectors: SectorValues{Agriculture: 100, Industry: 200, Services: 400, PublicAdmin: 400, Total: 1100}},
		{Municipality: "Alpha", State: "XX", Region: "Norte", Year: 2022, GDPTotal: 1200, GDPPerCapita: 24000},
		{Municipality: "Alpha", State: "YY", Region: "Sul", Year: 2021, GDPTotal: 50, GDPPerCapita: 10000},
	}
}

func TestNewTable_InfersSectorCutoff(t *testing.T) {
	tbl := NewTable(sampleRows())
	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, 2021, tbl.SectorCutoff())
	assert.Equal(t, 2021, tbl.ClampSectorYear(2023))
	assert.Equal(t, 2015, tbl.ClampSectorYear(2015))
}

func TestNewTable_ExplicitCutoff(t *testing.T) {
	tbl := NewTable(sampleRows(), WithSectorCutoff(2020))
	assert.Equal(t, 2020, tbl.SectorCutoff())
}

func TestNewTable_CopiesInput(t *testing.T) {
	rows := sampleRows()
	tbl := NewTable(rows)
	rows[0].GDPTotal = -1
	assert.Equal(t, 1000.0, tbl.Row(0).GDPTotal)
}

func TestWhere_SharesBackingRows(t *testing.T) {
	tbl := NewTable(sampleRows())
	xx := tbl.Where(func(r FactRow) bool { return r.State == "XX" })
	require.Equal(t, 3, xx.Len())

	y2021 := xx.InYear(2021)
	require.Equal(t, 1, y2021.Len())
	assert.Equal(t, 1100.0, y2021.Row(0).GDPTotal)
	assert.Equal(t, tbl.SectorCutoff(), y2021.SectorCutoff())

	none := tbl.Where(func(FactRow) bool { return false })
	assert.True(t, none.Empty())
	assert.Empty(t, none.Years())
}

func TestYears_SortedDistinct(t *testing.T) {
	tbl := NewTable(sampleRows())
	assert.Equal(t, []int{2020, 2021, 2022}, tbl.Years())
}

func TestAll_StopsEarly(t *testing.T) {
	tbl := NewTable(sampleRows())
	count := 0
	for range tbl.All() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestNilTable(t *testing.T) {
	var tbl *Table
	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, 0, tbl.SectorCutoff())

	sub := tbl.Where(func(FactRow) bool { return true })
	require.NotNil(t, sub)
	assert.True(t, sub.Empty())
	assert.True(t, tbl.InYear(2021).Empty())
}
