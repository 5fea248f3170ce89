package filter

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/gdp-dashboard/internal/geo"
	"github.com/sells-group/gdp-dashboard/internal/model"
	"github.com/sells-group/gdp-dashboard/internal/scope"
)

var cal = Calendar{First: 2010, Last: 2023}

func TestBuild_Modes(t *testing.T) {
	cat := geo.Default()

	tests := []struct {
		name string
		sel  Selection
		want Mode
	}{
		{"country aggregate", Selection{Region: "Brasil", State: "Todas"}, Aggregate{}},
		{"region aggregate", Selection{Region: "Sul"}, Aggregate{Region: "Sul"}},
		{"all in state", Selection{Region: "Sudeste", State: "sp"}, AllInScope{State: "SP"}},
		{"single", Selection{State: "SP", View: "single", Municipalities: []string{" Campinas "}},
			SingleEntity{Municipality: model.MunicipalityRef{Name: "Campinas", State: "SP"}}},
		{"compare", Selection{State: "SP", View: "compare", Municipalities: []string{"Santos", "Osasco", "Santos", ""}},
			CompareEntities{State: "SP", Municipalities: []string{"Santos", "Osasco"}}},
		{"compare states", Selection{Region: "Sul", States: []string{"pr", "SC"}},
			CompareStates{Region: "Sul", States: []string{"PR", "SC"}}},
		{"compare regions", Selection{Regions: []string{"Norte", "Sul"}},
			CompareRegions{Regions: []string{"Norte", "Sul"}}},
		{"region in lower case", Selection{Region: "centro-oeste"}, Aggregate{Region: "Centro-Oeste"}},
		{"compare regions in any case", Selection{Regions: []string{"sul", "NORDESTE", "Sul"}},
			CompareRegions{Regions: []string{"Sul", "Nordeste"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc, err := Build(tt.sel, cat, cal)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fc.Mode())
		})
	}
}

func TestBuild_Defaults(t *testing.T) {
	fc, err := Build(Selection{}, geo.Default(), cal)
	require.NoError(t, err)
	assert.Equal(t, 2023, fc.Year())
	assert.Equal(t, scope.YearRange{Start: 2010, End: 2023}, fc.Range())
	assert.Equal(t, "aggregate", fc.Mode().Name())
}

func TestBuild_ValidationErrors(t *testing.T) {
	cat := geo.Default()

	tests := []struct {
		name string
		sel  Selection
		want error
	}{
		{"inverted range", Selection{Start: 2020, End: 2015}, ErrInvalidRange},
		{"start before dataset", Selection{Start: 2000, End: 2015}, ErrYearOutOfRange},
		{"year outside range", Selection{Start: 2015, End: 2018, Year: 2020}, ErrYearOutsideRange},
		{"unknown region", Selection{Region: "Atlantida"}, ErrUnknownRegion},
		{"state not in region", Selection{Region: "Sul", State: "SP"}, ErrStateNotInRegion},
		{"unknown state", Selection{State: "ZZ"}, ErrStateNotInRegion},
		{"single without municipality", Selection{State: "SP", View: "single"}, ErrMissingMunicipality},
		{"empty comparison", Selection{State: "SP", View: "compare"}, ErrEmptyComparison},
		{"bad view", Selection{State: "SP", View: "map"}, ErrUnknownView},
		{"compare states outside region", Selection{Region: "Sul", States: []string{"SP"}}, ErrStateNotInRegion},
		{"compare unknown region", Selection{Regions: []string{"Atlantida"}}, ErrUnknownRegion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.sel, cat, cal)
			require.Error(t, err)
			assert.True(t, eris.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestContext_Accessors(t *testing.T) {
	rng := scope.YearRange{Start: 2015, End: 2021}

	single := New(SingleEntity{Municipality: model.MunicipalityRef{Name: "Campinas", State: "SP"}}, 2021, rng)
	assert.Equal(t, "SP", single.State())
	assert.Equal(t, []string{"Campinas"}, single.Municipalities())
	assert.Empty(t, single.Region())

	agg := New(Aggregate{Region: "Sul"}, 2021, rng)
	spec := agg.Scope()
	assert.Equal(t, "Sul", spec.Region)
	assert.Empty(t, spec.State)
	require.NotNil(t, spec.Years)
	assert.Equal(t, rng, *spec.Years)

	cmp := New(CompareStates{Region: "Sul", States: []string{"PR"}}, 2021, rng)
	assert.Equal(t, "Sul", cmp.Region())
	assert.Nil(t, cmp.Municipalities())
}

func TestCalendarOf(t *testing.T) {
	tbl := model.NewTable([]model.FactRow{{Year: 2012}, {Year: 2010}, {Year: 2019}})
	assert.Equal(t, Calendar{First: 2010, Last: 2019}, CalendarOf(tbl))
	assert.Equal(t, Calendar{}, CalendarOf(model.NewTable(nil)))
}
