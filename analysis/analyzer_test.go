package analysis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buildmatch/catalog"
	"buildmatch/match"
)

var day0 = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return day0.AddDate(0, 0, n) }

func testSpec() match.ProjectSpec {
	return match.ProjectSpec{
		Name:              "Garage build",
		ProjectType:       "Residential",
		DestinationRegion: "CA",
		MaxBudget:         decimal.NewFromInt(200),
		StartDate:         day(0),
		EndDate:           day(20),
	}
}

func lumberMatch() match.Result {
	return match.Result{
		Product: catalog.Product{
			ID:        "lum-001",
			Name:      "Framing Lumber 2x4",
			Category:  "Lumber",
			UnitPrice: decimal.NewFromInt(100),
		},
		Score:             80,
		EstimatedDelivery: day(7),
		MeetsTimeline:     true,
		DaysMargin:        13,
	}
}

func TestAnalyzeWithinBudgetAndTimeline(t *testing.T) {
	a := Analyze([]match.Result{lumberMatch()}, testSpec())

	assert.True(t, a.EstimatedTotalCost.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, a.Risks)
	assert.Empty(t, a.Recommendations)
	assert.True(t, a.Timeline.Feasible)

	require.Contains(t, a.CategoryBreakdown, "Lumber")
	pick := a.CategoryBreakdown["Lumber"]
	assert.Equal(t, "lum-001", pick.ProductID)
	assert.Equal(t, 80, pick.Score)
}

func TestAnalyzeLateProduct(t *testing.T) {
	late := lumberMatch()
	late.Score = 65
	late.MeetsTimeline = false
	late.DaysMargin = -2

	a := Analyze([]match.Result{late}, testSpec())

	assert.False(t, a.Timeline.Feasible)
	assert.Contains(t, a.Risks, "1 products cannot meet timeline")
	assert.Contains(t, a.Recommendations, "adjust the project timeline or choose faster-shipping alternatives")
	assert.Contains(t, a.Timeline.Concerns, "Framing Lumber 2x4 arrives 2 days past deadline")
}

func TestAnalyzeMissingRequiredCategory(t *testing.T) {
	spec := testSpec()
	spec.RequiredCategories = []string{"Lumber", "Steel"}

	a := Analyze([]match.Result{lumberMatch()}, spec)

	assert.Contains(t, a.Risks, "no matching products for required categories: Steel")
	assert.Contains(t, a.Recommendations,
		"broaden the specification criteria or source additional suppliers for missing categories")
	assert.True(t, a.EstimatedTotalCost.Equal(decimal.NewFromInt(100)),
		"cost covers only the categories actually matched")
}

func TestAnalyzeBudgetExceeded(t *testing.T) {
	spec := testSpec()
	spec.MaxBudget = decimal.NewFromInt(50)

	a := Analyze([]match.Result{lumberMatch()}, spec)

	assert.Contains(t, a.Risks, "estimated cost $100.00 exceeds budget $50.00")
	assert.Contains(t, a.Recommendations, "adjust product selections or increase the project budget")
}

func TestAnalyzeNoBudgetSkipsBudgetRisk(t *testing.T) {
	spec := testSpec()
	spec.MaxBudget = decimal.Zero

	a := Analyze([]match.Result{lumberMatch()}, spec)
	assert.Empty(t, a.Risks)
}

func TestAnalyzeBestPerCategory(t *testing.T) {
	best := lumberMatch()
	runnerUp := lumberMatch()
	runnerUp.Product.ID = "lum-002"
	runnerUp.Product.UnitPrice = decimal.NewFromInt(70)
	runnerUp.Score = 72

	steel := match.Result{
		Product: catalog.Product{
			ID:        "stl-001",
			Name:      "Rebar #4",
			Category:  "Steel",
			UnitPrice: decimal.NewFromInt(30),
		},
		Score:         75,
		MeetsTimeline: true,
	}

	// Matches arrive in descending score order; the first per category wins.
	a := Analyze([]match.Result{best, steel, runnerUp}, testSpec())

	require.Len(t, a.CategoryBreakdown, 2)
	assert.Equal(t, "lum-001", a.CategoryBreakdown["Lumber"].ProductID)
	assert.Equal(t, "stl-001", a.CategoryBreakdown["Steel"].ProductID)
	assert.True(t, a.EstimatedTotalCost.Equal(decimal.NewFromInt(130)))
}

func TestAnalyzeEmptyMatches(t *testing.T) {
	spec := testSpec()
	spec.RequiredCategories = []string{"Lumber"}

	a := Analyze(nil, spec)

	assert.True(t, a.EstimatedTotalCost.IsZero())
	assert.Empty(t, a.CategoryBreakdown)
	assert.True(t, a.Timeline.Feasible)
	require.Len(t, a.Risks, 1)
	assert.Contains(t, a.Risks[0], "no matching products for required categories")
}
