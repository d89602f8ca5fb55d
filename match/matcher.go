package match

import (
	"sort"

	"buildmatch/catalog"
)

// Matcher is the public entry point of the pipeline: filter the catalog,
// score every survivor, rank by score.
type Matcher struct {
	scorer *Scorer
}

// NewMatcher wires a matcher from scoring weights and a region partition.
func NewMatcher(weights Weights, regions RegionConfig) *Matcher {
	return &Matcher{scorer: NewScorer(weights, NewEstimator(regions))}
}

// FindMatches runs the filter chain over the catalog, scores each surviving
// candidate, and returns results sorted descending by score. The sort is
// stable: tied scores keep their filter-chain (catalog) order. An empty
// catalog or an empty survivor set yields an empty list, not an error.
func (m *Matcher) FindMatches(products []catalog.Product, spec ProjectSpec) []Result {
	candidates := filterByRegionLegality(products, spec.DestinationRegion)
	candidates = filterByProjectType(candidates, spec.ProjectType)
	candidates = filterByCategories(candidates, spec.RequiredCategories)
	if spec.RequireCertifications {
		candidates = filterByCertifications(candidates, spec.RequiredCertifications)
	}
	candidates = filterByEnvironmental(candidates, spec.PreferEcoFriendly, spec.PreferSustainable)

	results := make([]Result, 0, len(candidates))
	for _, p := range candidates {
		results = append(results, m.scorer.Score(p, spec))
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}
