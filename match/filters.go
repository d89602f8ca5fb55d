package match

import "buildmatch/catalog"

// The filter chain narrows the catalog to legally and structurally eligible
// candidates before any scoring. Filters run in a fixed order inside the
// matcher and each preserves the relative order of its input.

// filterByRegionLegality excludes products whose restricted-region set
// contains the destination. Always applied; a product with no restriction
// data is always eligible.
func filterByRegionLegality(products []catalog.Product, destination string) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if !p.RestrictedIn(destination) {
			out = append(out, p)
		}
	}
	return out
}

// filterByProjectType keeps products applicable to the project type.
// No-op when the spec carries no project type.
func filterByProjectType(products []catalog.Product, projectType string) []catalog.Product {
	if projectType == "" {
		return products
	}
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if p.AppliesTo(projectType) {
			out = append(out, p)
		}
	}
	return out
}

// filterByCategories keeps products whose category is in the required set.
// No-op when no categories are required.
func filterByCategories(products []catalog.Product, categories []string) []catalog.Product {
	if len(categories) == 0 {
		return products
	}
	wanted := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		wanted[c] = struct{}{}
	}
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if _, ok := wanted[p.Category]; ok {
			out = append(out, p)
		}
	}
	return out
}

// filterByCertifications keeps products holding ALL required certifications,
// not merely any of them.
func filterByCertifications(products []catalog.Product, required []string) []catalog.Product {
	if len(required) == 0 {
		return products
	}
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		holdsAll := true
		for _, cert := range required {
			if !p.HasCertification(cert) {
				holdsAll = false
				break
			}
		}
		if holdsAll {
			out = append(out, p)
		}
	}
	return out
}

// filterByEnvironmental narrows to products satisfying the requested
// eco-friendly / sustainably-sourced preferences, but only if at least one
// candidate survives. A preference must never empty the result set, so when
// the narrowing would eliminate everything the pre-filter set is kept.
func filterByEnvironmental(products []catalog.Product, wantEco, wantSustainable bool) []catalog.Product {
	if !wantEco && !wantSustainable {
		return products
	}
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if wantEco && !p.EcoFriendly {
			continue
		}
		if wantSustainable && !p.SustainablySourced {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return products
	}
	return out
}
