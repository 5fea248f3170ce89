// Package loader reads the municipal GDP fact table from Parquet, CSV, XLSX,
// SQLite or Postgres and caches it for the lifetime of the process.
package loader

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/gdp-dashboard/internal/model"
)

// Dataset column names.
const (
	ColYear           = "ano"
	ColState          = "sigla_uf"
	ColMunicipality   = "nome_municipio"
	ColRegion         = "nome_grande_regiao"
	ColGDPTotal       = "pib_total"
	ColGDPPerCapita   = "pib_per_capita"
	ColVAAgriculture  = "vab_agropecuaria"
	ColVAIndustry     = "vab_industria"
	ColVAServices     = "vab_servicos"
	ColVAPublicAdmin  = "vab_adm_defesa_educacao_saude"
	ColVATotal        = "vab_total"
	ColDominantSector = "atividade_maior_vab"
)

// Columns lists every dataset column in storage order.
var Columns = []string{
	ColYear, ColState, ColMunicipality, ColRegion,
	ColGDPTotal, ColGDPPerCapita,
	ColVAAgriculture, ColVAIndustry, ColVAServices, ColVAPublicAdmin, ColVATotal,
	ColDominantSector,
}

var requiredColumns = []string{ColYear, ColState, ColMunicipality, ColGDPTotal, ColGDPPerCapita}

// header maps column names to positions in a record.
type header map[string]int

func newHeader(names []string) (header, error) {
	h := make(header, len(names))
	for i, n := range names {
		n = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(n, "\ufeff")))
		h[n] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := h[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("loader: missing columns %s", strings.Join(missing, ", "))
	}
	return h, nil
}

func (h header) get(rec []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// rawRow is a row before type conversion. Optional measures are nil when
// the source has no value.
type rawRow struct {
	Year           int
	State          string
	Municipality   string
	Region         string
	GDPTotal       float64
	GDPPerCapita   float64
	Agriculture    *float64
	Industry       *float64
	Services       *float64
	PublicAdmin    *float64
	VATotal        *float64
	DominantSector string
}

// toFact converts a raw row. Sector values count as present only when every
// component is.
func (r rawRow) toFact() model.FactRow {
	f := model.FactRow{
		Municipality:   strings.TrimSpace(r.Municipality),
		State:          strings.ToUpper(strings.TrimSpace(r.State)),
		Region:         strings.TrimSpace(r.Region),
		Year:           r.Year,
		GDPTotal:       r.GDPTotal,
		GDPPerCapita:   r.GDPPerCapita,
		DominantSector: strings.TrimSpace(r.DominantSector),
	}
	if r.Agriculture == nil || r.Industry == nil || r.Services == nil || r.PublicAdmin == nil {
		return f
	}
	f.HasSectors = true
	f.Sectors = model.SectorValues{
		Agriculture: *r.Agriculture,
		Industry:    *r.Industry,
		Services:    *r.Services,
		PublicAdmin: *r.PublicAdmin,
	}
	if r.VATotal != nil {
		f.Sectors.Total = *r.VATotal
	} else {
		f.Sectors.Total = f.Sectors.Sum()
	}
	return f
}

// fromRecord parses a text record (CSV or XLSX) against h.
func fromRecord(h header, rec []string) (rawRow, error) {
	year, err := strconv.Atoi(strings.TrimSuffix(h.get(rec, ColYear), ".0"))
	if err != nil {
		return rawRow{}, eris.Wrapf(err, "loader: parse %s", ColYear)
	}
	gdp, ok := parseFloat(h.get(rec, ColGDPTotal))
	if !ok {
		return rawRow{}, eris.Errorf("loader: parse %s %q", ColGDPTotal, h.get(rec, ColGDPTotal))
	}
	pc, ok := parseFloat(h.get(rec, ColGDPPerCapita))
	if !ok {
		return rawRow{}, eris.Errorf("loader: parse %s %q", ColGDPPerCapita, h.get(rec, ColGDPPerCapita))
	}

	return rawRow{
		Year:           year,
		State:          h.get(rec, ColState),
		Municipality:   h.get(rec, ColMunicipality),
		Region:         h.get(rec, ColRegion),
		GDPTotal:       gdp,
		GDPPerCapita:   pc,
		Agriculture:    parseOptional(h.get(rec, ColVAAgriculture)),
		Industry:       parseOptional(h.get(rec, ColVAIndustry)),
		Services:       parseOptional(h.get(rec, ColVAServices)),
		PublicAdmin:    parseOptional(h.get(rec, ColVAPublicAdmin)),
		VATotal:        parseOptional(h.get(rec, ColVATotal)),
		DominantSector: h.get(rec, ColDominantSector),
	}, nil
}

// parseFloat accepts "1234.5", "1.234,5" and "1234,5". Empty strings and the
// null markers "-", "...", "NA", "nan" are not numbers.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "-", "...", "na", "nan", "null", "none":
		return 0, false
	}
	s = normalizeDecimal(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// thousandsDots matches an integer grouped with dots only, e.g. "1.234.567".
var thousandsDots = regexp.MustCompile(`^[-+]?\d{1,3}(\.\d{3})+$`)

// normalizeDecimal rewrites s into strconv form. When both separators occur
// the last one is the decimal mark. A lone comma is a decimal comma; repeated
// commas or dot-grouped integers are thousands separators.
func normalizeDecimal(s string) string {
	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			return strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
		}
		return strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.ReplaceAll(s, ",", ".")
	case thousandsDots.MatchString(s):
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}

func parseOptional(s string) *float64 {
	v, ok := parseFloat(s)
	if !ok {
		return nil
	}
	return &v
}

// toRecord is the inverse of fromRecord, used by the writers.
func toRecord(r model.FactRow) []any {
	rec := []any{r.Year, r.State, r.Municipality, r.Region, r.GDPTotal, r.GDPPerCapita}
	if r.HasSectors {
		rec = append(rec, r.Sectors.Agriculture, r.Sectors.Industry, r.Sectors.Services, r.Sectors.PublicAdmin, r.Sectors.Total)
	} else {
		rec = append(rec, nil, nil, nil, nil, nil)
	}
	return append(rec, r.DominantSector)
}
