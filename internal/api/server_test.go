package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/gdp-dashboard/internal/model"
)

type staticTables struct {
	t   *model.Table
	err error
}

func (s staticTables) Table(context.Context) (*model.Table, error) { return s.t, s.err }

func testTable() *model.Table {
	var rows []model.FactRow
	for _, year := range []int{2020, 2021} {
		rows = append(rows,
			model.FactRow{Municipality: "Campinas", State: "SP", Region: "Sudeste", Year: year, GDPTotal: 1000, GDPPerCapita: 50_000},
			model.FactRow{Municipality: "Santos", State: "SP", Region: "Sudeste", Year: year, GDPTotal: 500, GDPPerCapita: 25_000},
			model.FactRow{Municipality: "Curitiba", State: "PR", Region: "Sul", Year: year, GDPTotal: 800, GDPPerCapita: 40_000},
		)
	}
	return model.NewTable(rows)
}

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	if cfg.Tables == nil {
		cfg.Tables = staticTables{t: testTable()}
	}
	srv := httptest.NewServer(New(cfg).Router())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, dst any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Config{})

	var body map[string]string
	resp := getJSON(t, srv.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
}

func TestRequestID_Propagated(t *testing.T) {
	srv := newTestServer(t, Config{})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, "abc-123", resp.Header.Get(requestIDHeader))
}

func TestLists(t *testing.T) {
	srv := newTestServer(t, Config{})

	var regions []string
	getJSON(t, srv.URL+"/api/regions", &regions)
	assert.Equal(t, []string{"Sudeste", "Sul"}, regions)

	var states []string
	getJSON(t, srv.URL+"/api/states?region=Sul", &states)
	assert.Equal(t, []string{"PR"}, states)

	getJSON(t, srv.URL+"/api/states", &states)
	assert.Equal(t, []string{"PR", "SP"}, states)

	var munis []string
	getJSON(t, srv.URL+"/api/municipalities?state=SP", &munis)
	assert.Equal(t, []string{"Campinas", "Santos"}, munis)

	var years map[string]int
	getJSON(t, srv.URL+"/api/years", &years)
	assert.Equal(t, 2020, years["first"])
	assert.Equal(t, 2021, years["last"])
}

func TestStates_UnknownRegion(t *testing.T) {
	srv := newTestServer(t, Config{})

	var body map[string]string
	resp := getJSON(t, srv.URL+"/api/states?region=Atlantida", &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "unknown region")
	assert.NotEmpty(t, body["request_id"])
}

func TestDashboard(t *testing.T) {
	srv := newTestServer(t, Config{})

	var view struct {
		Mode          string `json:"mode"`
		Year          int    `json:"year"`
		AggregateKPIs struct {
			Scope    string  `json:"scope"`
			GDPTotal float64 `json:"gdp_total"`
		} `json:"aggregate_kpis"`
		RankingGDP []struct {
			Municipality string `json:"municipality"`
		} `json:"ranking_gdp"`
	}
	resp := getJSON(t, srv.URL+"/api/dashboard?state=SP&year=2021", &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "all", view.Mode)
	assert.Equal(t, 2021, view.Year)
	assert.Equal(t, "SP", view.AggregateKPIs.Scope)
	assert.InDelta(t, 1500, view.AggregateKPIs.GDPTotal, 1e-9)
	require.Len(t, view.RankingGDP, 2)
	assert.Equal(t, "Campinas", view.RankingGDP[0].Municipality)
}

func TestDashboard_CompareMunicipalities(t *testing.T) {
	srv := newTestServer(t, Config{})

	var view struct {
		Mode       string `json:"mode"`
		Comparison []struct {
			Municipality string `json:"municipality"`
		} `json:"comparison"`
	}
	resp := getJSON(t, srv.URL+"/api/dashboard?state=SP&view=compare&municipality=Santos,Campinas", &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "compare", view.Mode)
	assert.Len(t, view.Comparison, 2)
}

func TestDashboard_BadRequests(t *testing.T) {
	srv := newTestServer(t, Config{})

	for _, q := range []string{
		"year=abc",
		"start=2021&end=2020",
		"year=1999",
		"region=Sul&state=SP",
		"region=Atlantida",
		"state=SP&view=single",
		"state=SP&view=chart",
	} {
		t.Run(q, func(t *testing.T) {
			var body map[string]string
			resp := getJSON(t, srv.URL+"/api/dashboard?"+q, &body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestTableUnavailable(t *testing.T) {
	srv := newTestServer(t, Config{Tables: staticTables{err: eris.New("boom")}})

	var body map[string]string
	resp := getJSON(t, srv.URL+"/api/regions", &body)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "fact table unavailable", body["error"])
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, Config{RateLimit: 0.001, RateBurst: 1})

	resp := getJSON(t, srv.URL+"/api/regions", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = getJSON(t, srv.URL+"/api/regions", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// Health is outside the limited group.
	resp = getJSON(t, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, Config{AllowedOrigins: []string{"https://painel.example"}})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/regions", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://painel.example")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, "https://painel.example", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestParseSelection(t *testing.T) {
	q := map[string][]string{
		"state":        {"sp"},
		"municipality": {"Santos, Campinas", "Sorocaba"},
		"start":        {" 2019 "},
	}
	sel, err := parseSelection(q)
	require.NoError(t, err)
	assert.Equal(t, "sp", sel.State)
	assert.Equal(t, []string{"Santos", "Campinas", "Sorocaba"}, sel.Municipalities)
	assert.Equal(t, 2019, sel.Start)
	assert.Zero(t, sel.End)
}
