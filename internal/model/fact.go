// Package model defines the municipal GDP fact table and its row types.
package model

import "math"

// PopulationScale converts GDP stored in thousands into currency units when
// deriving population from GDP and per-capita GDP.
const PopulationScale = 1000

// Sector identifies one of the four value-added components of GDP.
type Sector int

const (
	SectorAgriculture Sector = iota
	SectorIndustry
	SectorServices
	SectorPublicAdmin
)

// Sectors lists the value-added components in display order.
var Sectors = []Sector{SectorAgriculture, SectorIndustry, SectorServices, SectorPublicAdmin}

// String returns the display label used by the dashboard.
func (s Sector) String() string {
	switch s {
	case SectorAgriculture:
		return "Agropecuária"
	case SectorIndustry:
		return "Indústria"
	case SectorServices:
		return "Serviços"
	case SectorPublicAdmin:
		return "Administração Pública"
	default:
		return "unknown"
	}
}

// Key returns the stable machine-readable identifier of the sector.
func (s Sector) Key() string {
	switch s {
	case SectorAgriculture:
		return "agriculture"
	case SectorIndustry:
		return "industry"
	case SectorServices:
		return "services"
	case SectorPublicAdmin:
		return "public_admin"
	default:
		return "unknown"
	}
}

// MarshalText encodes the sector as its key.
func (s Sector) MarshalText() ([]byte, error) {
	return []byte(s.Key()), nil
}

// SectorValues holds value added by sector (thousands of currency units).
type SectorValues struct {
	Agriculture float64 `json:"agriculture"`
	Industry    float64 `json:"industry"`
	Services    float64 `json:"services"`
	PublicAdmin float64 `json:"public_admin"`
	Total       float64 `json:"total"`
}

// Get returns the value added of a single sector.
func (v SectorValues) Get(s Sector) float64 {
	switch s {
	case SectorAgriculture:
		return v.Agriculture
	case SectorIndustry:
		return v.Industry
	case SectorServices:
		return v.Services
	case SectorPublicAdmin:
		return v.PublicAdmin
	default:
		return 0
	}
}

// Sum returns the sum of the four sector components.
func (v SectorValues) Sum() float64 {
	return v.Agriculture + v.Industry + v.Services + v.PublicAdmin
}

// Add accumulates other into v.
func (v *SectorValues) Add(other SectorValues) {
	v.Agriculture += other.Agriculture
	v.Industry += other.Industry
	v.Services += other.Services
	v.PublicAdmin += other.PublicAdmin
	v.Total += other.Total
}

// Dominant returns the sector with the largest value added. Ties resolve to
// the sector listed first in Sectors. Returns false when every component is zero.
func (v SectorValues) Dominant() (Sector, bool) {
	best := SectorAgriculture
	bestVal := math.Inf(-1)
	for _, s := range Sectors {
		if val := v.Get(s); val > bestVal {
			best, bestVal = s, val
		}
	}
	if bestVal <= 0 {
		return 0, false
	}
	return best, true
}

// MunicipalityRef identifies a municipality. Names repeat across states, so
// the state code is part of the identity.
type MunicipalityRef struct {
	Name  string `json:"municipality"`
	State string `json:"state"`
}

// FactRow is one municipality in one year.
type FactRow struct {
	Municipality   string       `json:"municipality"`
	State          string       `json:"state"`
	Region         string       `json:"region"`
	Year           int          `json:"year"`
	GDPTotal       float64      `json:"gdp_total"`
	GDPPerCapita   float64      `json:"gdp_per_capita"`
	Sectors        SectorValues `json:"sectors"`
	HasSectors     bool         `json:"has_sectors"`
	DominantSector string       `json:"dominant_sector,omitempty"`
}

// Key returns the municipality identity of the row.
func (r FactRow) Key() MunicipalityRef {
	return MunicipalityRef{Name: r.Municipality, State: r.State}
}

// Population derives the resident population from GDP and per-capita GDP.
// Returns false when either measure is not positive.
func (r FactRow) Population() (float64, bool) {
	if r.GDPPerCapita <= 0 || r.GDPTotal <= 0 {
		return 0, false
	}
	return r.GDPTotal / r.GDPPerCapita * PopulationScale, true
}

// PublicSectorShare is the public administration share of total value added, in percent.
func (r FactRow) PublicSectorShare() (float64, bool) {
	if !r.HasSectors {
		return 0, false
	}
	total := r.Sectors.Total
	if total <= 0 {
		total = r.Sectors.Sum()
	}
	if total <= 0 {
		return 0, false
	}
	return r.Sectors.PublicAdmin / total * 100, true
}
