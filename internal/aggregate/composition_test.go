package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/gdp-dashboard/internal/model"
	"github.com/sells-group/gdp-dashboard/internal/scope"
)

func shareSum(s []SectorShare) float64 {
	var sum float64
	for _, v := range s {
		sum += v.Share
	}
	return sum
}

func TestSectorComposition_Closure(t *testing.T) {
	tbl := fixture()

	specs := []scope.Spec{
		{},
		{Region: "Norte"},
		{State: "YY"},
		{State: "XX", Municipalities: []string{"Beta"}},
	}
	for _, spec := range specs {
		for _, year := range []int{2020, 2021, 2022} {
			got := SectorComposition(tbl, spec, year)
			if got == nil {
				continue
			}
			require.Len(t, got, 4)
			assert.InDelta(t, 100.0, shareSum(got), 1e-6)
		}
	}
}

func TestSectorComposition_ClampsYear(t *testing.T) {
	got := SectorComposition(fixture(), scope.Spec{}, 2022)
	require.Len(t, got, 4)
	assert.Equal(t, model.SectorAgriculture, got[0].Sector)
	assert.Equal(t, "Agropecuária", got[0].Label)
	assert.Equal(t, 350.0, got[0].ValueAdded)
	assert.InDelta(t, 350.0/1900*100, got[0].Share, 1e-9)
	assert.InDelta(t, 680.0/1900*100, got[2].Share, 1e-9)
}

func TestSectorComposition_ZeroTotal(t *testing.T) {
	tbl := model.NewTable([]model.FactRow{
		withSectors(model.FactRow{Municipality: "A", State: "XX", Year: 2021, GDPTotal: 1, GDPPerCapita: 1}, model.SectorValues{}),
	})
	assert.Nil(t, SectorComposition(tbl, scope.Spec{}, 2021))
	assert.Nil(t, SectorComposition(fixture(), scope.Spec{State: "ZZ"}, 2021))
}

func TestSectorCompositionByState(t *testing.T) {
	got := SectorCompositionByState(fixture(), "", 2022)
	require.Len(t, got, 2)
	assert.Equal(t, "XX", got[0].State)
	assert.Equal(t, "YY", got[1].State)
	for _, s := range got {
		assert.InDelta(t, 100.0, shareSum(s.Shares), 1e-6)
	}

	assert.Len(t, SectorCompositionByState(fixture(), "Sul", 2021), 1)
}
