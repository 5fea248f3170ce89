package model

import (
	"fmt"
	"math"
)

// valueAddedTolerance is the relative tolerance for value_added_total against
// the sum of the sector components.
const valueAddedTolerance = 1e-6

// RowKey identifies a fact row.
type RowKey struct {
	Municipality string
	State        string
	Year         int
}

func (k RowKey) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Municipality, k.State, k.Year)
}

// IntegrityReport lists rows that violate the fact table invariants.
type IntegrityReport struct {
	Rows               int      `json:"rows"`
	Duplicates         []RowKey `json:"duplicates,omitempty"`
	NonPositive        []RowKey `json:"non_positive,omitempty"`
	ValueAddedMismatch []RowKey `json:"value_added_mismatch,omitempty"`
}

// OK reports whether no violation was found.
func (r IntegrityReport) OK() bool {
	return len(r.Duplicates) == 0 && len(r.NonPositive) == 0 && len(r.ValueAddedMismatch) == 0
}

// CheckIntegrity validates row uniqueness, positive GDP measures and the
// value_added_total == sum(sectors) identity.
func CheckIntegrity(rows []FactRow) IntegrityReport {
	rep := IntegrityReport{Rows: len(rows)}
	seen := make(map[RowKey]struct{}, len(rows))

	for _, r := range rows {
		key := RowKey{Municipality: r.Municipality, State: r.State, Year: r.Year}
		if _, dup := seen[key]; dup {
			rep.Duplicates = append(rep.Duplicates, key)
		}
		seen[key] = struct{}{}

		if r.GDPTotal <= 0 || r.GDPPerCapita <= 0 {
			rep.NonPositive = append(rep.NonPositive, key)
		}

		if r.HasSectors {
			sum := r.Sectors.Sum()
			scale := math.Max(math.Abs(r.Sectors.Total), 1)
			if math.Abs(sum-r.Sectors.Total)/scale > valueAddedTolerance {
				rep.ValueAddedMismatch = append(rep.ValueAddedMismatch, key)
			}
		}
	}
	return rep
}
