// Package export writes dashboard tables to XLSX workbooks.
package export

import (
	"io"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/sells-group/gdp-dashboard/internal/aggregate"
	"github.com/sells-group/gdp-dashboard/internal/dashboard"
)

// Sheet names used by FromView.
const (
	SheetMunicipalities = "Municipios"
	SheetStates         = "UFs"
	SheetSeries         = "Evolucao"
	SheetRanking        = "Ranking"
)

const defaultSheet = "Sheet1"

var (
	moneyFmt   = "#,##0.00"
	percentFmt = "0.0"
)

// Workbook accumulates sheets. The zero value is not usable; call New.
type Workbook struct {
	f       *excelize.File
	used    bool
	header  int
	money   int
	percent int
}

// New creates an empty workbook.
func New() (*Workbook, error) {
	f := excelize.NewFile()
	w := &Workbook{f: f}

	var err error
	if w.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	}); err != nil {
		return nil, eris.Wrap(err, "export: header style")
	}
	if w.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt}); err != nil {
		return nil, eris.Wrap(err, "export: money style")
	}
	if w.percent, err = f.NewStyle(&excelize.Style{CustomNumFmt: &percentFmt}); err != nil {
		return nil, eris.Wrap(err, "export: percent style")
	}
	return w, nil
}

// File exposes the underlying workbook.
func (w *Workbook) File() *excelize.File { return w.f }

// column describes one output column.
type column struct {
	title string
	width float64
	style int
}

// sheet creates name (reusing the default sheet for the first one) and
// writes the header row.
func (w *Workbook) sheet(name string, cols []column) error {
	if !w.used {
		if err := w.f.SetSheetName(defaultSheet, name); err != nil {
			return eris.Wrapf(err, "export: rename sheet %s", name)
		}
		w.used = true
	} else if _, err := w.f.NewSheet(name); err != nil {
		return eris.Wrapf(err, "export: new sheet %s", name)
	}

	for i, c := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return eris.Wrap(err, "export: header cell")
		}
		if err := w.f.SetCellValue(name, cell, c.title); err != nil {
			return eris.Wrapf(err, "export: header %s", c.title)
		}
		colName, _ := excelize.ColumnNumberToName(i + 1)
		if err := w.f.SetColWidth(name, colName, colName, c.width); err != nil {
			return eris.Wrap(err, "export: column width")
		}
		if c.style != 0 {
			if err := w.f.SetColStyle(name, colName, c.style); err != nil {
				return eris.Wrap(err, "export: column style")
			}
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(cols), 1)
	if err := w.f.SetCellStyle(name, "A1", last, w.header); err != nil {
		return eris.Wrap(err, "export: header style")
	}
	return w.f.SetPanes(name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

// setRow writes values starting at column A of row (1-based). Nil pointers
// leave the cell empty.
func (w *Workbook) setRow(name string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return eris.Wrap(err, "export: row cell")
	}
	out := make([]any, len(values))
	for i, v := range values {
		if p, ok := v.(*float64); ok {
			if p == nil {
				continue
			}
			v = *p
		}
		out[i] = v
	}
	if err := w.f.SetSheetRow(name, cell, &out); err != nil {
		return eris.Wrapf(err, "export: write %s row %d", name, row)
	}
	return nil
}

// AddMunicipalities writes the consolidated municipality table.
func (w *Workbook) AddMunicipalities(name string, rows []aggregate.MunicipalityRow) error {
	if err := w.sheet(name, []column{
		{"Município", 28, 0},
		{"UF", 6, 0},
		{"PIB (R$ mil)", 18, w.money},
		{"PIB per capita (R$)", 18, w.money},
		{"População", 14, w.money},
		{"Dependência pública (%)", 22, w.percent},
		{"Crescimento (%)", 16, w.percent},
		{"Atividade de maior VAB", 34, 0},
	}); err != nil {
		return err
	}
	for i, r := range rows {
		if err := w.setRow(name, i+2, r.Municipality, r.State, r.GDPTotal, r.GDPPerCapita,
			r.Population, r.PublicSectorShare, r.Growth, r.DominantSector); err != nil {
			return err
		}
	}
	return nil
}

// AddStates writes the consolidated state table.
func (w *Workbook) AddStates(name string, rows []aggregate.StateRow) error {
	if err := w.sheet(name, []column{
		{"UF", 6, 0},
		{"PIB (R$ mil)", 20, w.money},
		{"PIB per capita (R$)", 18, w.money},
		{"População", 16, w.money},
		{"Municípios", 12, 0},
		{"Dependência pública (%)", 22, w.percent},
		{"Crescimento (%)", 16, w.percent},
		{"Setor dominante", 24, 0},
	}); err != nil {
		return err
	}
	for i, r := range rows {
		if err := w.setRow(name, i+2, r.State, r.GDPTotal, r.GDPPerCapita, r.Population,
			r.MunicipalityCount, r.PublicSectorShare, r.Growth, r.DominantSector); err != nil {
			return err
		}
	}
	return nil
}

// AddRanking writes a municipality ranking with its position.
func (w *Workbook) AddRanking(name, valueTitle string, rows []aggregate.MunicipalityRank) error {
	if err := w.sheet(name, []column{
		{"#", 5, 0},
		{"Município", 28, 0},
		{"UF", 6, 0},
		{valueTitle, 20, w.money},
	}); err != nil {
		return err
	}
	for i, r := range rows {
		if err := w.setRow(name, i+2, i+1, r.Municipality, r.State, r.Value); err != nil {
			return err
		}
	}
	return nil
}

// AddSeries pivots a time series into one row per year and one column per
// group.
func (w *Workbook) AddSeries(name string, points []aggregate.SeriesPoint) error {
	groupSet := make(map[string]struct{})
	yearSet := make(map[int]struct{})
	values := make(map[int]map[string]float64)
	for _, p := range points {
		groupSet[p.Group] = struct{}{}
		yearSet[p.Year] = struct{}{}
		if values[p.Year] == nil {
			values[p.Year] = make(map[string]float64)
		}
		values[p.Year][p.Group] = p.GDPTotal
	}
	groups := sortedKeys(groupSet)
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	cols := []column{{"Ano", 8, 0}}
	for _, g := range groups {
		cols = append(cols, column{g, 18, w.money})
	}
	if err := w.sheet(name, cols); err != nil {
		return err
	}
	for i, y := range years {
		row := []any{y}
		for _, g := range groups {
			if v, ok := values[y][g]; ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		if err := w.setRow(name, i+2, row...); err != nil {
			return err
		}
	}
	return nil
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	if err := w.f.SaveAs(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

// WriteTo streams the workbook.
func (w *Workbook) WriteTo(out io.Writer) (int64, error) {
	n, err := w.f.WriteTo(out)
	if err != nil {
		return n, eris.Wrap(err, "export: write workbook")
	}
	return n, nil
}

// Close releases the workbook's temporary files.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// FromView builds a workbook from the tables present in v.
func FromView(v *dashboard.View) (*Workbook, error) {
	w, err := New()
	if err != nil {
		return nil, err
	}
	if len(v.MunicipalitiesRows) > 0 {
		if err := w.AddMunicipalities(SheetMunicipalities, v.MunicipalitiesRows); err != nil {
			return nil, err
		}
	}
	if len(v.StatesRows) > 0 {
		if err := w.AddStates(SheetStates, v.StatesRows); err != nil {
			return nil, err
		}
	}
	if len(v.RankingGDP) > 0 {
		if err := w.AddRanking(SheetRanking, "PIB (R$ mil)", v.RankingGDP); err != nil {
			return nil, err
		}
	}
	if len(v.Series) > 0 {
		if err := w.AddSeries(SheetSeries, v.Series); err != nil {
			return nil, err
		}
	}
	if !w.used {
		return nil, eris.New("export: view has no tables")
	}
	return w, nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
