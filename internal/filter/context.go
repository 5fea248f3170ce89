package filter

import (
	"github.com/sells-group/gdp-dashboard/internal/scope"
)

// Context is the active selection. It is a value: rebuild it on every change.
type Context struct {
	mode  Mode
	year  int
	years scope.YearRange
}

// New builds a Context without validation. Use Build for user input.
func New(m Mode, year int, years scope.YearRange) Context {
	return Context{mode: m, year: year, years: years}
}

// Mode returns the selection variant.
func (c Context) Mode() Mode { return c.mode }

// Year is the reference year of single-year panels.
func (c Context) Year() int { return c.year }

// Range is the year interval of series and growth panels.
func (c Context) Range() scope.YearRange { return c.years }

// Region returns the selected region, empty for the whole country.
func (c Context) Region() string {
	switch m := c.mode.(type) {
	case Aggregate:
		return m.Region
	case CompareStates:
		return m.Region
	}
	return ""
}

// State returns the selected state, empty when the mode is not state-scoped.
func (c Context) State() string {
	switch m := c.mode.(type) {
	case SingleEntity:
		return m.Municipality.State
	case CompareEntities:
		return m.State
	case AllInScope:
		return m.State
	}
	return ""
}

// Municipalities returns the explicit municipality names of the selection.
func (c Context) Municipalities() []string {
	switch m := c.mode.(type) {
	case SingleEntity:
		return []string{m.Municipality.Name}
	case CompareEntities:
		return append([]string(nil), m.Municipalities...)
	}
	return nil
}

// Scope converts the selection into a row filter over the year range.
func (c Context) Scope() scope.Spec {
	yr := c.years
	return scope.Spec{
		Region:         c.Region(),
		State:          c.State(),
		Municipalities: c.Municipalities(),
		Years:          &yr,
	}
}
