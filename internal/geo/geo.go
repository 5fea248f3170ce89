// Package geo holds the region → state hierarchy used to narrow and validate selections.
package geo

import (
	_ "embed"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Country is the canonical whole-country sentinel.
const Country = "Brasil"

// AllStates is the "every state" sentinel used by the selection widgets.
const AllStates = "Todas"

//go:embed regions.yaml
var defaultCatalog []byte

// Region is a macro-region and the states it owns.
type Region struct {
	Name   string   `yaml:"name" json:"name"`
	States []string `yaml:"states" json:"states"`
}

// Catalog answers hierarchy questions. The zero value is empty; use Default or Parse.
type Catalog struct {
	regions []Region
	stateOf map[string]string // state -> region
}

// Parse builds a catalog from a YAML document with a top-level "regions" list.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Regions []Region `yaml:"regions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "geo: parse catalog")
	}
	if len(doc.Regions) == 0 {
		return nil, eris.New("geo: catalog has no regions")
	}

	c := &Catalog{stateOf: make(map[string]string)}
	for _, r := range doc.Regions {
		states := make([]string, 0, len(r.States))
		for _, s := range r.States {
			s = NormalizeState(s)
			if prev, dup := c.stateOf[s]; dup {
				return nil, eris.Errorf("geo: state %s listed in %s and %s", s, prev, r.Name)
			}
			c.stateOf[s] = r.Name
			states = append(states, s)
		}
		sort.Strings(states)
		c.regions = append(c.regions, Region{Name: r.Name, States: states})
	}
	return c, nil
}

// Default returns the embedded Brazilian catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

// Regions returns region names in catalog order.
func (c *Catalog) Regions() []string {
	names := make([]string, len(c.regions))
	for i, r := range c.regions {
		names[i] = r.Name
	}
	return names
}

// HasRegion reports whether name is a known region. Country sentinels count.
func (c *Catalog) HasRegion(name string) bool {
	if IsCountry(name) {
		return true
	}
	for _, r := range c.regions {
		if strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return false
}

// Canonical returns the catalog spelling of region, matched case-insensitively.
// The country sentinels map to the empty string.
func (c *Catalog) Canonical(region string) (string, bool) {
	if IsCountry(region) {
		return "", true
	}
	name := strings.TrimSpace(region)
	for _, r := range c.regions {
		if strings.EqualFold(r.Name, name) {
			return r.Name, true
		}
	}
	return "", false
}

// StatesOf returns the sorted states of region, or every state for the country.
func (c *Catalog) StatesOf(region string) []string {
	if IsCountry(region) {
		all := make([]string, 0, len(c.stateOf))
		for s := range c.stateOf {
			all = append(all, s)
		}
		sort.Strings(all)
		return all
	}
	for _, r := range c.regions {
		if strings.EqualFold(r.Name, region) {
			return append([]string(nil), r.States...)
		}
	}
	return nil
}

// RegionOf returns the region owning state.
func (c *Catalog) RegionOf(state string) (string, bool) {
	r, ok := c.stateOf[NormalizeState(state)]
	return r, ok
}

// IsCountry reports whether region selects the whole country.
func IsCountry(region string) bool {
	switch strings.ToLower(strings.TrimSpace(region)) {
	case "", "brasil", "brazil", "country":
		return true
	}
	return false
}

// IsAllStates reports whether state is empty or the "all states" sentinel.
func IsAllStates(state string) bool {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case "", "todas", "all":
		return true
	}
	return false
}

// NormalizeState trims and upper-cases a UF code.
func NormalizeState(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
