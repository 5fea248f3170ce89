// Package filter models the dashboard selection as an immutable Context whose
// Mode is a closed set of variants.
package filter

import "github.com/sells-group/gdp-dashboard/internal/model"

// Mode is one of SingleEntity, CompareEntities, AllInScope, Aggregate,
// CompareStates or CompareRegions.
type Mode interface {
	mode()
	// Name is the stable identifier used in logs and JSON.
	Name() string
}

// SingleEntity drills into one municipality.
type SingleEntity struct {
	Municipality model.MunicipalityRef
}

// CompareEntities compares a list of municipalities of one state.
type CompareEntities struct {
	State          string
	Municipalities []string
}

// AllInScope shows every municipality of a state.
type AllInScope struct {
	State string
}

// Aggregate summarizes a region, or the whole country when Region is empty.
type Aggregate struct {
	Region string
}

// CompareStates compares states of a region side by side.
type CompareStates struct {
	Region string
	States []string
}

// CompareRegions compares macro-regions side by side.
type CompareRegions struct {
	Regions []string
}

func (SingleEntity) mode()    {}
func (CompareEntities) mode() {}
func (AllInScope) mode()      {}
func (Aggregate) mode()       {}
func (CompareStates) mode()   {}
func (CompareRegions) mode()  {}

func (SingleEntity) Name() string    { return "single" }
func (CompareEntities) Name() string { return "compare" }
func (AllInScope) Name() string      { return "all" }
func (Aggregate) Name() string       { return "aggregate" }
func (CompareStates) Name() string   { return "compare_states" }
func (CompareRegions) Name() string  { return "compare_regions" }
