package aggregate

import (
	"fmt"

	"github.com/sells-group/gdp-dashboard/internal/model"
)

func sectors(agro, ind, serv, pub float64) model.SectorValues {
	return model.SectorValues{Agriculture: agro, Industry: ind, Services: serv, PublicAdmin: pub, Total: agro + ind + serv + pub}
}

// row builds a fact row from population and per-capita GDP so weighted
// expectations can be written in plain numbers.
func row(name, state, region string, year int, pop, perCapita float64) model.FactRow {
	return model.FactRow{
		Municipality: name,
		State:        state,
		Region:       region,
		Year:         year,
		GDPTotal:     pop * perCapita / model.PopulationScale,
		GDPPerCapita: perCapita,
	}
}

func withSectors(r model.FactRow, v model.SectorValues) model.FactRow {
	r.Sectors = v
	r.HasSectors = true
	return r
}

// fixture: state XX (Norte) has Alpha and Beta over 2020-2022 with sector
// data through 2021; state YY (Sul) has Gamma and a second Alpha.
func fixture() *model.Table {
	return model.NewTable([]model.FactRow{
		withSectors(model.FactRow{Municipality: "Alpha", State: "XX", Region: "Norte", Year: 2020, GDPTotal: 1000, GDPPerCapita: 20000},
			sectors(100, 200, 300, 400)),
		withSectors(model.FactRow{Municipality: "Alpha", State: "XX", Region: "Norte", Year: 2021, GDPTotal: 1100, GDPPerCapita: 22000},
			sectors(100, 200, 500, 300)),
		{Municipality: "Alpha", State: "XX", Region: "Norte", Year: 2022, GDPTotal: 1210, GDPPerCapita: 24200},

		withSectors(model.FactRow{Municipality: "Beta", State: "XX", Region: "Norte", Year: 2020, GDPTotal: 500, GDPPerCapita: 10000},
			sectors(300, 100, 50, 50)),
		withSectors(model.FactRow{Municipality: "Beta", State: "XX", Region: "Norte", Year: 2021, GDPTotal: 400, GDPPerCapita: 10000},
			sectors(200, 100, 50, 50)),
		{Municipality: "Beta", State: "XX", Region: "Norte", Year: 2022, GDPTotal: 440, GDPPerCapita: 11000},

		withSectors(model.FactRow{Municipality: "Gamma", State: "YY", Region: "Sul", Year: 2021, GDPTotal: 300, GDPPerCapita: 30000},
			sectors(0, 200, 100, 0)),
		{Municipality: "Gamma", State: "YY", Region: "Sul", Year: 2022, GDPTotal: 330, GDPPerCapita: 33000},
		withSectors(model.FactRow{Municipality: "Alpha", State: "YY", Region: "Sul", Year: 2021, GDPTotal: 100, GDPPerCapita: 5000},
			sectors(50, 10, 30, 10)),
		{Municipality: "Alpha", State: "YY", Region: "Sul", Year: 2022, GDPTotal: 120, GDPPerCapita: 6000},
	})
}

// stateOf builds n municipalities of state "PP" in 2021 with populations
// 1000, 2000, ... and per-capita 10000.
func stateOf(n int) *model.Table {
	rows := make([]model.FactRow, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, withSectors(
			row(fmt.Sprintf("M%02d", i), "PP", "Norte", 2021, float64(i*1000), 10000),
			sectors(1, 1, 1, 1),
		))
	}
	return model.NewTable(rows)
}
