package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"buildmatch/analysis"
	"buildmatch/match"
)

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func outputMatchesTable(matches []match.Result) error {
	if len(matches) == 0 {
		fmt.Println("0 products found")
		return nil
	}

	fmt.Printf("%-12s %-30s %-14s %6s %6s %12s\n",
		"ID", "NAME", "CATEGORY", "SCORE", "DAYS", "DELIVERY")
	for _, m := range matches {
		fmt.Printf("%-12s %-30s %-14s %6d %6d %12s\n",
			m.Product.ID,
			truncate(m.Product.Name, 30),
			truncate(m.Product.Category, 14),
			m.Score,
			m.TotalLeadDays,
			m.EstimatedDelivery.Format("2006-01-02"),
		)
		for _, w := range m.Warnings {
			fmt.Printf("             ! %s\n", w)
		}
	}
	return nil
}

func outputMatchesMarkdown(matches []match.Result) error {
	fmt.Println("## Product Matches")
	fmt.Println()
	fmt.Println("| Product | Category | Score | Delivery | Timeline |")
	fmt.Println("|---------|----------|-------|----------|----------|")
	for _, m := range matches {
		timeline := fmt.Sprintf("%d days early", m.DaysMargin)
		if !m.MeetsTimeline {
			timeline = fmt.Sprintf("%d days late", -m.DaysMargin)
		}
		fmt.Printf("| %s | %s | %d | %s | %s |\n",
			m.Product.Name, m.Product.Category, m.Score,
			m.EstimatedDelivery.Format("2006-01-02"), timeline)
	}
	return nil
}

func outputAnalysisTable(a *analysis.ProjectAnalysis) error {
	fmt.Printf("Project: %s\n", a.Spec.Name)
	fmt.Printf("Matches: %d\n", len(a.Matches))
	fmt.Printf("Estimated cost: $%s", a.EstimatedTotalCost.StringFixed(2))
	if a.Spec.MaxBudget.IsPositive() {
		fmt.Printf(" (budget $%s)", a.Spec.MaxBudget.StringFixed(2))
	}
	fmt.Println()

	if len(a.CategoryBreakdown) > 0 {
		fmt.Println()
		fmt.Printf("%-16s %-30s %10s %12s\n", "CATEGORY", "PRODUCT", "PRICE", "DELIVERY")
		for _, cat := range sortedCategories(a.CategoryBreakdown) {
			pick := a.CategoryBreakdown[cat]
			fmt.Printf("%-16s %-30s %10s %12s\n",
				truncate(cat, 16),
				truncate(pick.ProductName, 30),
				"$"+pick.UnitPrice.StringFixed(2),
				pick.EstimatedDelivery.Format("2006-01-02"),
			)
		}
	}

	fmt.Println()
	if a.Timeline.Feasible {
		fmt.Println("Timeline: feasible")
	} else {
		fmt.Println("Timeline: NOT feasible")
		for _, concern := range a.Timeline.Concerns {
			fmt.Printf("  - %s\n", concern)
		}
	}

	for _, r := range a.Risks {
		fmt.Printf("Risk: %s\n", r)
	}
	for _, r := range a.Recommendations {
		fmt.Printf("Recommendation: %s\n", r)
	}
	return nil
}

func outputAnalysisMarkdown(a *analysis.ProjectAnalysis) error {
	fmt.Printf("## Feasibility Report: %s\n", a.Spec.Name)
	fmt.Println()
	fmt.Println("| Metric | Value |")
	fmt.Println("|--------|-------|")
	fmt.Printf("| **Matches** | %d |\n", len(a.Matches))
	fmt.Printf("| **Estimated Cost** | $%s |\n", a.EstimatedTotalCost.StringFixed(2))
	if a.Spec.MaxBudget.IsPositive() {
		fmt.Printf("| **Budget** | $%s |\n", a.Spec.MaxBudget.StringFixed(2))
	}
	feasible := "yes"
	if !a.Timeline.Feasible {
		feasible = "no"
	}
	fmt.Printf("| **Timeline Feasible** | %s |\n", feasible)

	if len(a.CategoryBreakdown) > 0 {
		fmt.Println()
		fmt.Println("### Category Breakdown")
		fmt.Println()
		fmt.Println("| Category | Product | Price | Delivery |")
		fmt.Println("|----------|---------|-------|----------|")
		for _, cat := range sortedCategories(a.CategoryBreakdown) {
			pick := a.CategoryBreakdown[cat]
			fmt.Printf("| %s | %s | $%s | %s |\n",
				cat, pick.ProductName, pick.UnitPrice.StringFixed(2),
				pick.EstimatedDelivery.Format("2006-01-02"))
		}
	}

	if len(a.Risks) > 0 {
		fmt.Println()
		fmt.Println("### Risks")
		fmt.Println()
		for _, r := range a.Risks {
			fmt.Printf("- %s\n", r)
		}
	}
	if len(a.Recommendations) > 0 {
		fmt.Println()
		fmt.Println("### Recommendations")
		fmt.Println()
		for _, r := range a.Recommendations {
			fmt.Printf("- %s\n", r)
		}
	}
	return nil
}

func sortedCategories(breakdown map[string]analysis.CategoryPick) []string {
	cats := make([]string, 0, len(breakdown))
	for c := range breakdown {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return strings.TrimSpace(s[:maxLen-3]) + "..."
}
