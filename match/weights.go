package match

import (
	"encoding/json"
	"fmt"
	"os"
)

// Weights holds every point value the scorer awards. Scores are integers;
// the final score is clamped to [0,100] regardless of configuration.
type Weights struct {
	// BaseAvailability is awarded to every product that survives the
	// filter chain.
	BaseAvailability int `json:"base_availability"`

	ProjectTypeBonus int `json:"project_type_bonus"`

	// CertificationPoints is awarded per matching required certification,
	// with the summed contribution capped at CertificationCap.
	CertificationPoints int `json:"certification_points"`
	CertificationCap    int `json:"certification_cap"`

	// EcoBonus and SustainableBonus are independent, summed, then capped
	// at EnvironmentalCap. The cap is deliberately below their sum.
	EcoBonus         int `json:"eco_bonus"`
	SustainableBonus int `json:"sustainable_bonus"`
	EnvironmentalCap int `json:"environmental_cap"`

	InStockBonus      int `json:"in_stock_bonus"`
	InstallMatchBonus int `json:"install_match_bonus"`

	// Warranty tiers are exclusive: long (>=10y) or mid (5-9y), never both.
	WarrantyLongBonus int `json:"warranty_long_bonus"`
	WarrantyMidBonus  int `json:"warranty_mid_bonus"`

	TimelineBonus   int `json:"timeline_bonus"`
	TimelinePenalty int `json:"timeline_penalty"`
}

// DefaultWeights returns the standard scoring constants.
func DefaultWeights() Weights {
	return Weights{
		BaseAvailability:    60,
		ProjectTypeBonus:    10,
		CertificationPoints: 5,
		CertificationCap:    10,
		EcoBonus:            5,
		SustainableBonus:    5,
		EnvironmentalCap:    8,
		InStockBonus:        5,
		InstallMatchBonus:   5,
		WarrantyLongBonus:   3,
		WarrantyMidBonus:    2,
		TimelineBonus:       5,
		TimelinePenalty:     10,
	}
}

// LoadWeightsFromFile loads scoring weights from a JSON file, falling back
// to defaults on read errors.
func LoadWeightsFromFile(path string) (Weights, error) {
	w := DefaultWeights()
	b, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("read weights file: %w", err)
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return w, fmt.Errorf("unmarshal weights: %w", err)
	}
	return w, nil
}
