package model

import (
	"iter"
	"sort"
)

// Table is the immutable fact table. Sub-tables produced by Where share the
// backing rows through an index list and never copy row data.
type Table struct {
	rows   []FactRow
	idx    []int // nil selects every row
	cutoff int
}

// TableOption configures NewTable.
type TableOption func(*Table)

// WithSectorCutoff sets the last year with sector value-added data instead of
// inferring it from the rows.
func WithSectorCutoff(year int) TableOption {
	return func(t *Table) { t.cutoff = year }
}

// NewTable copies rows into a new read-only table.
func NewTable(rows []FactRow, opts ...TableOption) *Table {
	owned := make([]FactRow, len(rows))
	copy(owned, rows)

	t := &Table{rows: owned}
	for _, r := range owned {
		if r.HasSectors && r.Year > t.cutoff {
			t.cutoff = r.Year
		}
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Len returns the number of rows visible through this table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	if t.idx == nil {
		return len(t.rows)
	}
	return len(t.idx)
}

// Row returns a copy of the i-th visible row.
func (t *Table) Row(i int) FactRow {
	if t.idx == nil {
		return t.rows[i]
	}
	return t.rows[t.idx[i]]
}

// All iterates over the visible rows in load order.
func (t *Table) All() iter.Seq[FactRow] {
	return func(yield func(FactRow) bool) {
		n := t.Len()
		for i := 0; i < n; i++ {
			if !yield(t.Row(i)) {
				return
			}
		}
	}
}

// Where returns the sub-table of rows matching pred. A nil table yields an
// empty one.
func (t *Table) Where(pred func(FactRow) bool) *Table {
	if t == nil {
		return &Table{}
	}
	n := t.Len()
	idx := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pos := i
		if t.idx != nil {
			pos = t.idx[i]
		}
		if pred(t.rows[pos]) {
			idx = append(idx, pos)
		}
	}
	return &Table{rows: t.rows, idx: idx, cutoff: t.cutoff}
}

// InYear is shorthand for Where(row.Year == year).
func (t *Table) InYear(year int) *Table {
	return t.Where(func(r FactRow) bool { return r.Year == year })
}

// Empty reports whether no rows are visible.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// SectorCutoff is the last year for which sector value added is populated.
func (t *Table) SectorCutoff() int {
	if t == nil {
		return 0
	}
	return t.cutoff
}

// ClampSectorYear returns min(year, SectorCutoff()).
func (t *Table) ClampSectorYear(year int) int {
	if c := t.SectorCutoff(); c > 0 && year > c {
		return c
	}
	return year
}

// Years returns the distinct years present, ascending.
func (t *Table) Years() []int {
	seen := make(map[int]struct{})
	for r := range t.All() {
		seen[r.Year] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
