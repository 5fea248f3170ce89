package loader

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/gdp-dashboard/internal/model"
)

// XLSXSource reads the fact table from a worksheet whose first row is the header.
type XLSXSource struct {
	Path string
	// Sheet selects a worksheet by name. Empty uses the first sheet.
	Sheet string
}

// Load implements Source.
func (s XLSXSource) Load(ctx context.Context) ([]model.FactRow, error) {
	f, err := xlsx.OpenFile(s.Path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := s.sheet(f)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, eris.New("xlsx: missing header")
	}

	h, err := newHeader(rowToStrings(sheet.Rows[0]))
	if err != nil {
		return nil, err
	}

	rows := make([]model.FactRow, 0, len(sheet.Rows)-1)
	for i, row := range sheet.Rows[1:] {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "xlsx: context cancelled")
		}
		cells := rowToStrings(row)
		if blank(cells) {
			continue
		}
		raw, err := fromRecord(h, cells)
		if err != nil {
			return nil, eris.Wrapf(err, "xlsx: row %d", i+2)
		}
		rows = append(rows, raw.toFact())
	}
	return rows, nil
}

func (s XLSXSource) sheet(f *xlsx.File) (*xlsx.Sheet, error) {
	if s.Sheet != "" {
		sheet, ok := f.Sheet[s.Sheet]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", s.Sheet)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: file has no sheets")
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func blank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
