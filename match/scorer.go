package match

import (
	"fmt"
	"time"

	"buildmatch/catalog"
)

// Result is one scored candidate: the product, its clamped score, the
// human-readable reasons and warnings behind it, and the timeline fields
// downstream consumers need without recomputation.
type Result struct {
	Product  catalog.Product `json:"product"`
	Score    int             `json:"score"`
	Reasons  []string        `json:"reasons"`
	Warnings []string        `json:"warnings,omitempty"`

	ShippingDays      int       `json:"shipping_days"`
	TotalLeadDays     int       `json:"total_lead_days"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
	MeetsTimeline     bool      `json:"meets_timeline"`
	// DaysMargin is positive when delivery lands early, negative when late.
	// Delivery exactly on the deadline counts as meeting the timeline.
	DaysMargin int `json:"days_margin"`
}

// Scorer computes a Result for one already-filtered product. Every
// product/spec combination produces a result; missing optional spec fields
// skip the corresponding bonus, never error.
type Scorer struct {
	weights   Weights
	estimator *Estimator
}

// NewScorer creates a scorer over the given weights and shipping estimator.
func NewScorer(weights Weights, estimator *Estimator) *Scorer {
	return &Scorer{weights: weights, estimator: estimator}
}

// Score evaluates one eligible product against the spec. All contributions
// are independent and summed before clamping to [0,100].
func (s *Scorer) Score(p catalog.Product, spec ProjectSpec) Result {
	w := s.weights
	res := Result{Product: p}

	// Filter-chain survivors are legal to sell at the destination.
	score := w.BaseAvailability
	res.Reasons = append(res.Reasons, "available in location")

	if spec.ProjectType != "" && p.AppliesTo(spec.ProjectType) {
		score += w.ProjectTypeBonus
		res.Reasons = append(res.Reasons, fmt.Sprintf("suited to %s projects", spec.ProjectType))
	}

	if len(spec.RequiredCertifications) > 0 {
		matched := 0
		for _, cert := range spec.RequiredCertifications {
			if p.HasCertification(cert) {
				matched++
			}
		}
		if matched > 0 {
			points := matched * w.CertificationPoints
			if points > w.CertificationCap {
				points = w.CertificationCap
			}
			score += points
			res.Reasons = append(res.Reasons,
				fmt.Sprintf("holds %d of %d required certifications", matched, len(spec.RequiredCertifications)))
		}
	}

	envPoints := 0
	if spec.PreferEcoFriendly && p.EcoFriendly {
		envPoints += w.EcoBonus
	}
	if spec.PreferSustainable && p.SustainablySourced {
		envPoints += w.SustainableBonus
	}
	if envPoints > 0 {
		if envPoints > w.EnvironmentalCap {
			envPoints = w.EnvironmentalCap
		}
		score += envPoints
		res.Reasons = append(res.Reasons, "matches environmental preferences")
	}

	if p.StockQty > 0 {
		score += w.InStockBonus
		res.Reasons = append(res.Reasons, "in stock")
	} else {
		res.Warnings = append(res.Warnings, "currently out of stock")
	}

	if installMatches(spec.InstallCapability, p.InstallDifficulty) {
		score += w.InstallMatchBonus
		res.Reasons = append(res.Reasons,
			fmt.Sprintf("installation difficulty suits %s capability", spec.InstallCapability))
	}

	switch {
	case p.WarrantyYears >= 10:
		score += w.WarrantyLongBonus
		res.Reasons = append(res.Reasons, fmt.Sprintf("%d year warranty", p.WarrantyYears))
	case p.WarrantyYears >= 5:
		score += w.WarrantyMidBonus
		res.Reasons = append(res.Reasons, fmt.Sprintf("%d year warranty", p.WarrantyYears))
	}

	res.ShippingDays = s.estimator.ShippingDays(p.OriginRegion, spec.DestinationRegion)
	res.TotalLeadDays = p.LeadTimeDays + res.ShippingDays
	res.EstimatedDelivery = spec.StartDate.AddDate(0, 0, res.TotalLeadDays)
	res.DaysMargin = daysBetween(res.EstimatedDelivery, spec.EndDate)
	res.MeetsTimeline = res.DaysMargin >= 0
	if res.MeetsTimeline {
		score += w.TimelineBonus
		res.Reasons = append(res.Reasons,
			fmt.Sprintf("delivers %d days before deadline", res.DaysMargin))
	} else {
		score -= w.TimelinePenalty
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("estimated delivery %d days past deadline", -res.DaysMargin))
	}

	res.Score = clampScore(score)
	return res
}

// installMatches reports whether the install capability earns the bonus.
// Professional capability scores only the hardest tier, not Complex; this
// asymmetry is long-standing observed behavior and is preserved on purpose.
func installMatches(cap InstallCapability, difficulty catalog.InstallDifficulty) bool {
	switch cap {
	case CapabilityDIY:
		return difficulty == catalog.DifficultyEasy || difficulty == catalog.DifficultyModerate
	case CapabilityProfessional:
		return difficulty == catalog.DifficultyProfessionalRequired
	}
	return false
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
