package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(points []PeerPoint) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Municipality
	}
	return out
}

func TestPeerScatter_SizeBound(t *testing.T) {
	got := PeerScatter(stateOf(15), "PP", "M08", 2021, 0)
	require.Len(t, got, 11)
	assert.True(t, got[0].IsReference)
	assert.Equal(t, "M08", got[0].Municipality)
	assert.Equal(t, []string{"M08", "M07", "M09", "M06", "M10", "M05", "M11", "M04", "M12", "M03", "M13"}, names(got))

	refs := 0
	for _, p := range got {
		if p.IsReference {
			refs++
		}
	}
	assert.Equal(t, 1, refs)
}

func TestPeerScatter_SmallState(t *testing.T) {
	got := PeerScatter(stateOf(5), "PP", "M01", 2021, 0)
	assert.LessOrEqual(t, len(got), 5)
	refs := 0
	for _, p := range got {
		if p.IsReference {
			refs++
			assert.Equal(t, "M01", p.Municipality)
		}
	}
	assert.Equal(t, 1, refs)
}

func TestPeerScatter_Fields(t *testing.T) {
	got := PeerScatter(stateOf(3), "PP", "M02", 2021, 1)
	require.Len(t, got, 2)
	assert.Equal(t, "M01", got[1].Municipality, "M01 and M03 tie on distance")
	assert.InDelta(t, 2000.0, got[0].Population, 1e-9)
	require.NotNil(t, got[0].PublicSectorShare)
	assert.InDelta(t, 25.0, *got[0].PublicSectorShare, 1e-9)
}

func TestPeerScatter_ClampsSectorYear(t *testing.T) {
	got := PeerScatter(fixture(), "XX", "Alpha", 2022, 0)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].PublicSectorShare)
	assert.InDelta(t, 300.0/1100*100, *got[0].PublicSectorShare, 1e-9)
	assert.Equal(t, 1210.0, got[0].GDPTotal)
}

func TestPeerScatter_MissingReference(t *testing.T) {
	assert.Empty(t, PeerScatter(fixture(), "XX", "Gamma", 2021, 0))
	assert.Empty(t, PeerScatter(fixture(), "XX", "Alpha", 2019, 0))
}

func TestScatterStates(t *testing.T) {
	got := ScatterStates(fixture(), 2021, "")
	require.Len(t, got, 2)
	assert.Equal(t, "XX", got[0].State)
	assert.Equal(t, 2, got[0].MunicipalityCount)
	require.NotNil(t, got[1].GDPPerCapita)
	assert.InDelta(t, 400.0*1000/30, *got[1].GDPPerCapita, 1e-6)
}
