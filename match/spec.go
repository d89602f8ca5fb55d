// Package match implements the product matching pipeline: the eligibility
// filter chain, the shipping-time estimator, the multi-factor scorer, and
// the matcher that ties them together. Everything in this package is a pure
// computation over immutable inputs; concurrent runs against the same
// catalog are safe as long as the catalog slice itself is not replaced
// mid-run.
package match

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallCapability describes who will install the purchased products.
type InstallCapability string

const (
	CapabilityDIY          InstallCapability = "diy"
	CapabilityProfessional InstallCapability = "professional"
)

// Milestone is an informational project checkpoint. Milestones are carried
// through to the analysis output but are not enforced by the scorer.
type Milestone struct {
	Name               string    `json:"name"`
	TargetDate         time.Time `json:"target_date"`
	RequiredCategories []string  `json:"required_categories,omitempty"`
	Critical           bool      `json:"critical"`
}

// ProjectSpec describes one customer project to match the catalog against.
// A spec is immutable for the duration of a matching and analysis run.
type ProjectSpec struct {
	Name              string          `json:"name"`
	ProjectType       string          `json:"project_type"`
	DestinationRegion string          `json:"destination_region"`
	City              string          `json:"city,omitempty"`
	PostalCode        string          `json:"postal_code,omitempty"`
	MaxBudget         decimal.Decimal `json:"max_budget"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	Milestones        []Milestone     `json:"milestones,omitempty"`

	RequiredCategories     []string `json:"required_categories,omitempty"`
	PreferredManufacturers []string `json:"preferred_manufacturers,omitempty"`

	RequireCertifications  bool     `json:"require_certifications"`
	RequiredCertifications []string `json:"required_certifications,omitempty"`

	PreferEcoFriendly bool `json:"prefer_eco_friendly"`
	PreferSustainable bool `json:"prefer_sustainable"`

	InstallCapability InstallCapability `json:"install_capability"`
	Notes             string            `json:"notes,omitempty"`
}
