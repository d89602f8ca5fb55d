// Package analysis turns a ranked match list into a project-level report:
// per-category cost rollup, timeline feasibility, and the risks and
// recommendations that follow. It consumes the matcher's output as plain
// data and never mutates it.
package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"buildmatch/match"
)

// CategoryPick is the best-scored match for one category: the representative
// used for the cost rollup. Cost is the representative's unit price, not a
// quantity-weighted order total.
type CategoryPick struct {
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	EstimatedDelivery time.Time       `json:"estimated_delivery"`
	Score             int             `json:"score"`
}

// TimelineAnalysis is the feasibility verdict over all matches.
type TimelineAnalysis struct {
	Feasible bool     `json:"feasible"`
	Concerns []string `json:"concerns,omitempty"`
}

// ProjectAnalysis is the full report for one matching run.
type ProjectAnalysis struct {
	Spec               match.ProjectSpec       `json:"spec"`
	Matches            []match.Result          `json:"matches"`
	EstimatedTotalCost decimal.Decimal         `json:"estimated_total_cost"`
	CategoryBreakdown  map[string]CategoryPick `json:"category_breakdown"`
	Timeline           TimelineAnalysis        `json:"timeline"`
	Risks              []string                `json:"risks"`
	Recommendations    []string                `json:"recommendations"`
}

// Analyze builds a ProjectAnalysis from a ranked match list. The input is
// expected in descending score order (the matcher's output), so the first
// match seen per category is that category's best. Absence of a budget,
// of required categories, or of matches degrades gracefully to a report
// with no corresponding risk entries.
func Analyze(matches []match.Result, spec match.ProjectSpec) *ProjectAnalysis {
	a := &ProjectAnalysis{
		Spec:               spec,
		Matches:            matches,
		EstimatedTotalCost: decimal.Zero,
		CategoryBreakdown:  make(map[string]CategoryPick),
		Timeline:           TimelineAnalysis{Feasible: true},
		Risks:              []string{},
		Recommendations:    []string{},
	}

	for _, m := range matches {
		if _, seen := a.CategoryBreakdown[m.Product.Category]; seen {
			continue
		}
		a.CategoryBreakdown[m.Product.Category] = CategoryPick{
			ProductID:         m.Product.ID,
			ProductName:       m.Product.Name,
			UnitPrice:         m.Product.UnitPrice,
			EstimatedDelivery: m.EstimatedDelivery,
			Score:             m.Score,
		}
		a.EstimatedTotalCost = a.EstimatedTotalCost.Add(m.Product.UnitPrice)
	}

	if spec.MaxBudget.IsPositive() && a.EstimatedTotalCost.GreaterThan(spec.MaxBudget) {
		a.Risks = append(a.Risks, fmt.Sprintf("estimated cost $%s exceeds budget $%s",
			a.EstimatedTotalCost.StringFixed(2), spec.MaxBudget.StringFixed(2)))
		a.Recommendations = append(a.Recommendations,
			"adjust product selections or increase the project budget")
	}

	late := 0
	for _, m := range matches {
		if m.MeetsTimeline {
			continue
		}
		late++
		a.Timeline.Concerns = append(a.Timeline.Concerns,
			fmt.Sprintf("%s arrives %d days past deadline", m.Product.Name, -m.DaysMargin))
	}
	if late > 0 {
		a.Timeline.Feasible = false
		a.Risks = append(a.Risks, fmt.Sprintf("%d products cannot meet timeline", late))
		a.Recommendations = append(a.Recommendations,
			"adjust the project timeline or choose faster-shipping alternatives")
	}

	if missing := missingCategories(spec.RequiredCategories, a.CategoryBreakdown); len(missing) > 0 {
		a.Risks = append(a.Risks, fmt.Sprintf("no matching products for required categories: %s",
			strings.Join(missing, ", ")))
		a.Recommendations = append(a.Recommendations,
			"broaden the specification criteria or source additional suppliers for missing categories")
	}

	return a
}

func missingCategories(required []string, breakdown map[string]CategoryPick) []string {
	var missing []string
	for _, c := range required {
		if _, ok := breakdown[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}
