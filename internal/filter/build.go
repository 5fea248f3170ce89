package filter

import (
	"slices"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/gdp-dashboard/internal/geo"
	"github.com/sells-group/gdp-dashboard/internal/model"
	"github.com/sells-group/gdp-dashboard/internal/scope"
)

// Validation errors returned (wrapped) by Build. Compare with eris.Is.
var (
	ErrInvalidRange        = eris.New("start year after end year")
	ErrYearOutOfRange      = eris.New("year outside dataset")
	ErrYearOutsideRange    = eris.New("reference year outside selected range")
	ErrUnknownRegion       = eris.New("unknown region")
	ErrStateNotInRegion    = eris.New("state not in region")
	ErrUnknownView         = eris.New("unknown view")
	ErrMissingMunicipality = eris.New("municipality required")
	ErrEmptyComparison     = eris.New("comparison needs at least one entity")
)

// View names accepted in Selection.View when a state is selected.
const (
	ViewAll     = "all"
	ViewSingle  = "single"
	ViewCompare = "compare"
)

// Selection is the raw, unvalidated input of the selection widgets.
type Selection struct {
	Region         string   `json:"region"`
	State          string   `json:"state"`
	View           string   `json:"view"`
	Municipalities []string `json:"municipalities"`
	States         []string `json:"states"`
	Regions        []string `json:"regions"`
	Year           int      `json:"year"`
	Start          int      `json:"start"`
	End            int      `json:"end"`
}

// Calendar is the span of years present in the dataset.
type Calendar struct {
	First int
	Last  int
}

// CalendarOf derives the calendar from the table's years.
func CalendarOf(t *model.Table) Calendar {
	years := t.Years()
	if len(years) == 0 {
		return Calendar{}
	}
	return Calendar{First: years[0], Last: years[len(years)-1]}
}

func (c Calendar) contains(year int) bool {
	return year >= c.First && year <= c.Last
}

// Build validates sel and turns it into a Context. A specific state selects
// the all/single/compare views; otherwise the selection aggregates a region,
// or compares the listed states or regions.
func Build(sel Selection, cat *geo.Catalog, cal Calendar) (Context, error) {
	if sel.End == 0 {
		sel.End = cal.Last
	}
	if sel.Start == 0 {
		sel.Start = cal.First
	}
	if sel.Year == 0 {
		sel.Year = sel.End
	}

	if sel.Start > sel.End {
		return Context{}, eris.Wrapf(ErrInvalidRange, "filter: %d > %d", sel.Start, sel.End)
	}
	for _, y := range []int{sel.Start, sel.End, sel.Year} {
		if !cal.contains(y) {
			return Context{}, eris.Wrapf(ErrYearOutOfRange, "filter: %d not in [%d, %d]", y, cal.First, cal.Last)
		}
	}
	if sel.Year < sel.Start || sel.Year > sel.End {
		return Context{}, eris.Wrapf(ErrYearOutsideRange, "filter: %d not in [%d, %d]", sel.Year, sel.Start, sel.End)
	}

	region, ok := cat.Canonical(sel.Region)
	if !ok {
		return Context{}, eris.Wrapf(ErrUnknownRegion, "filter: %q", sel.Region)
	}

	m, err := buildMode(sel, region, cat)
	if err != nil {
		return Context{}, err
	}
	return New(m, sel.Year, scope.YearRange{Start: sel.Start, End: sel.End}), nil
}

func buildMode(sel Selection, region string, cat *geo.Catalog) (Mode, error) {
	if !geo.IsAllStates(sel.State) {
		state := geo.NormalizeState(sel.State)
		if err := checkState(state, region, cat); err != nil {
			return nil, err
		}
		names := cleanNames(sel.Municipalities)

		switch strings.ToLower(strings.TrimSpace(sel.View)) {
		case "", ViewAll:
			return AllInScope{State: state}, nil
		case ViewSingle:
			if len(names) == 0 {
				return nil, eris.Wrapf(ErrMissingMunicipality, "filter: state %s", state)
			}
			return SingleEntity{Municipality: model.MunicipalityRef{Name: names[0], State: state}}, nil
		case ViewCompare:
			if len(names) == 0 {
				return nil, eris.Wrapf(ErrEmptyComparison, "filter: state %s", state)
			}
			return CompareEntities{State: state, Municipalities: names}, nil
		default:
			return nil, eris.Wrapf(ErrUnknownView, "filter: %q", sel.View)
		}
	}

	if len(sel.Regions) > 0 {
		names := cleanNames(sel.Regions)
		regions := make([]string, 0, len(names))
		for _, r := range names {
			name, ok := cat.Canonical(r)
			if !ok || name == "" {
				return nil, eris.Wrapf(ErrUnknownRegion, "filter: %q", r)
			}
			if !slices.Contains(regions, name) {
				regions = append(regions, name)
			}
		}
		return CompareRegions{Regions: regions}, nil
	}

	if len(sel.States) > 0 {
		states := make([]string, 0, len(sel.States))
		for _, s := range cleanNames(sel.States) {
			s = geo.NormalizeState(s)
			if err := checkState(s, region, cat); err != nil {
				return nil, err
			}
			states = append(states, s)
		}
		return CompareStates{Region: region, States: states}, nil
	}

	return Aggregate{Region: region}, nil
}

func checkState(state, region string, cat *geo.Catalog) error {
	owner, ok := cat.RegionOf(state)
	if !ok {
		return eris.Wrapf(ErrStateNotInRegion, "filter: unknown state %s", state)
	}
	if region != "" && !strings.EqualFold(owner, region) {
		return eris.Wrapf(ErrStateNotInRegion, "filter: %s belongs to %s, not %s", state, owner, region)
	}
	return nil
}

// cleanNames trims, drops blanks and removes duplicates keeping first order.
func cleanNames(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
