package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/gdp-dashboard/internal/model"
)

func TestPerCapitaDistribution(t *testing.T) {
	rows := make([]model.FactRow, 0, 10)
	for i := 1; i <= 10; i++ {
		rows = append(rows, row(string(rune('A'+i)), "XX", "Norte", 2021, 100, float64(i*10)))
	}
	got := PerCapitaDistribution(model.NewTable(rows), "XX", 2021, 3)
	require.Len(t, got, 3)
	assert.Equal(t, []int{3, 3, 4}, []int{got[0].Count, got[1].Count, got[2].Count})
	assert.Equal(t, 10.0, got[0].Low)
	assert.Equal(t, 40.0, got[1].Low)
}

func TestPerCapitaDistribution_SingleValue(t *testing.T) {
	got := PerCapitaDistribution(stateOf(4), "PP", 2021, 10)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].Count)
}

func TestPerCapitaDistribution_Empty(t *testing.T) {
	assert.Empty(t, PerCapitaDistribution(fixture(), "ZZ", 2021, 5))
}
