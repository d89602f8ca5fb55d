// Package catalog defines the product catalog model and its ingestion.
// Products are read-only reference data: loaded once, shared across all
// matching runs, never mutated by the engines.
package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// InstallDifficulty is an ordered installation difficulty level.
type InstallDifficulty int

const (
	DifficultyEasy InstallDifficulty = iota
	DifficultyModerate
	DifficultyComplex
	DifficultyProfessionalRequired
)

var difficultyNames = map[InstallDifficulty]string{
	DifficultyEasy:                 "easy",
	DifficultyModerate:             "moderate",
	DifficultyComplex:              "complex",
	DifficultyProfessionalRequired: "professional_required",
}

func (d InstallDifficulty) String() string {
	if name, ok := difficultyNames[d]; ok {
		return name
	}
	return "unknown"
}

// ParseInstallDifficulty maps a difficulty label to its level.
// Accepts both the snake_case form and the spaced source labels.
func ParseInstallDifficulty(s string) (InstallDifficulty, error) {
	switch s {
	case "easy", "Easy":
		return DifficultyEasy, nil
	case "moderate", "Moderate":
		return DifficultyModerate, nil
	case "complex", "Complex":
		return DifficultyComplex, nil
	case "professional_required", "Professional Required", "ProfessionalRequired":
		return DifficultyProfessionalRequired, nil
	}
	return 0, fmt.Errorf("unknown installation difficulty: %q", s)
}

func (d InstallDifficulty) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *InstallDifficulty) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseInstallDifficulty(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Product is an immutable catalog record.
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Manufacturer string          `json:"manufacturer"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Unit         string          `json:"unit"`
	MinOrderQty  int             `json:"min_order_qty"`
	StockQty     int             `json:"stock_qty"`
	LeadTimeDays int             `json:"lead_time_days"`
	OriginRegion string          `json:"origin_region"`
	WeightKg     float64         `json:"weight_kg"`
	Dimensions   string          `json:"dimensions"`

	// Set fields are split once at ingestion; the engines never re-split.
	RestrictedRegions []string `json:"restricted_regions,omitempty"`
	ProjectTypes      []string `json:"project_types,omitempty"`
	Certifications    []string `json:"certifications,omitempty"`

	EcoFriendly        bool `json:"eco_friendly"`
	Recyclable         bool `json:"recyclable"`
	SustainablySourced bool `json:"sustainably_sourced"`

	WarrantyYears     int               `json:"warranty_years"`
	FireRating        string            `json:"fire_rating,omitempty"`
	InstallDifficulty InstallDifficulty `json:"install_difficulty"`
	Description       string            `json:"description,omitempty"`
}

// RestrictedIn reports whether sale of the product is prohibited in the
// given region. A product with no restriction data is sellable everywhere.
func (p *Product) RestrictedIn(region string) bool {
	for _, r := range p.RestrictedRegions {
		if r == region {
			return true
		}
	}
	return false
}

// AppliesTo reports whether the product is applicable to the project type.
func (p *Product) AppliesTo(projectType string) bool {
	for _, t := range p.ProjectTypes {
		if t == projectType {
			return true
		}
	}
	return false
}

// HasCertification reports whether the product holds the certification.
func (p *Product) HasCertification(cert string) bool {
	for _, c := range p.Certifications {
		if c == cert {
			return true
		}
	}
	return false
}
