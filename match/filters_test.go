package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"buildmatch/catalog"
)

func TestFilterByRegionLegality(t *testing.T) {
	products := []catalog.Product{
		{ID: "p1", RestrictedRegions: []string{"CA", "NY"}},
		{ID: "p2", RestrictedRegions: []string{"TX"}},
		{ID: "p3"},
	}

	tests := []struct {
		name        string
		destination string
		wantIDs     []string
	}{
		{"excludes restricted products", "CA", []string{"p2", "p3"}},
		{"unrestricted products always pass", "WA", []string{"p1", "p2", "p3"}},
		{"each restriction applies independently", "TX", []string{"p1", "p3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantIDs, productIDs(filterByRegionLegality(products, tt.destination)))
		})
	}
}

func TestFilterByProjectType(t *testing.T) {
	products := []catalog.Product{
		{ID: "p1", ProjectTypes: []string{"Residential", "Commercial"}},
		{ID: "p2", ProjectTypes: []string{"Industrial"}},
		{ID: "p3"},
	}

	tests := []struct {
		name        string
		projectType string
		wantIDs     []string
	}{
		{"keeps applicable products", "Residential", []string{"p1"}},
		{"empty type skips the filter", "", []string{"p1", "p2", "p3"}},
		{"no applicable products yields empty", "Renovation", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantIDs, productIDs(filterByProjectType(products, tt.projectType)))
		})
	}
}

func TestFilterByCategories(t *testing.T) {
	products := []catalog.Product{
		{ID: "p1", Category: "Lumber"},
		{ID: "p2", Category: "Steel"},
		{ID: "p3", Category: "Concrete"},
	}

	tests := []struct {
		name       string
		categories []string
		wantIDs    []string
	}{
		{"keeps required categories", []string{"Lumber", "Steel"}, []string{"p1", "p2"}},
		{"empty set skips the filter", nil, []string{"p1", "p2", "p3"}},
		{"unknown category yields empty", []string{"Glass"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantIDs, productIDs(filterByCategories(products, tt.categories)))
		})
	}
}

func TestFilterByCertifications(t *testing.T) {
	products := []catalog.Product{
		{ID: "p1", Certifications: []string{"FSC", "GREENGUARD"}},
		{ID: "p2", Certifications: []string{"FSC"}},
		{ID: "p3"},
	}

	tests := []struct {
		name     string
		required []string
		wantIDs  []string
	}{
		{"requires every certification, not any", []string{"FSC", "GREENGUARD"}, []string{"p1"}},
		{"single certification", []string{"FSC"}, []string{"p1", "p2"}},
		{"empty set skips the filter", nil, []string{"p1", "p2", "p3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantIDs, productIDs(filterByCertifications(products, tt.required)))
		})
	}
}

func TestFilterByEnvironmental(t *testing.T) {
	products := []catalog.Product{
		{ID: "p1", EcoFriendly: true, SustainablySourced: true},
		{ID: "p2", EcoFriendly: true},
		{ID: "p3"},
	}

	tests := []struct {
		name            string
		products        []catalog.Product
		wantEco         bool
		wantSustainable bool
		wantIDs         []string
	}{
		{"no preference skips the filter", products, false, false, []string{"p1", "p2", "p3"}},
		{"eco preference narrows", products, true, false, []string{"p1", "p2"}},
		{"both preferences narrow further", products, true, true, []string{"p1"}},
		{
			"preference never empties the set",
			[]catalog.Product{{ID: "p2", EcoFriendly: true}, {ID: "p3"}},
			true, true,
			[]string{"p2", "p3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterByEnvironmental(tt.products, tt.wantEco, tt.wantSustainable)
			assert.Equal(t, tt.wantIDs, productIDs(got))
		})
	}
}

func productIDs(products []catalog.Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}
