package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogHeader = "id,name,category,manufacturer,unit_price,unit," +
	"min_order_qty,stock_qty,lead_time_days,origin_region,weight_kg,dimensions," +
	"restricted_regions,project_types,certifications,eco_friendly,recyclable," +
	"sustainably_sourced,warranty_years,fire_rating,install_difficulty,description"

func catalogCSV(rows ...string) string {
	return catalogHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

func TestParseValidCatalog(t *testing.T) {
	in := catalogCSV(
		`lum-001,Framing Lumber 2x4,Lumber,Pacific Mills,4.85,piece,10,500,5,OR,2.1,2x4x96in,CA;NY,Residential;Commercial,FSC,true,yes,1,0,,easy,Kiln-dried framing stud`,
		`ins-002,Mineral Wool Batt,Insulation,NordTherm,38.20,bundle,1,0,12,MN,9.5,,,Residential,GREENGUARD;UL,false,no,0,25,A1,professional_required,`,
	)

	products, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, products, 2)

	lumber := products[0]
	assert.Equal(t, "lum-001", lumber.ID)
	assert.Equal(t, "Lumber", lumber.Category)
	assert.Equal(t, "4.85", lumber.UnitPrice.String())
	assert.Equal(t, 10, lumber.MinOrderQty)
	assert.Equal(t, 500, lumber.StockQty)
	assert.Equal(t, []string{"CA", "NY"}, lumber.RestrictedRegions)
	assert.Equal(t, []string{"Residential", "Commercial"}, lumber.ProjectTypes)
	assert.True(t, lumber.EcoFriendly)
	assert.True(t, lumber.Recyclable)
	assert.True(t, lumber.SustainablySourced)
	assert.Equal(t, DifficultyEasy, lumber.InstallDifficulty)

	wool := products[1]
	assert.Nil(t, wool.RestrictedRegions)
	assert.Equal(t, []string{"GREENGUARD", "UL"}, wool.Certifications)
	assert.Equal(t, 0, wool.StockQty)
	assert.Equal(t, 25, wool.WarrantyYears)
	assert.Equal(t, "A1", wool.FireRating)
	assert.Equal(t, DifficultyProfessionalRequired, wool.InstallDifficulty)
}

func TestParseRejectsWholeCatalogOnBadRow(t *testing.T) {
	in := catalogCSV(
		`lum-001,Good Row,Lumber,Pacific Mills,4.85,piece,10,500,5,OR,2.1,,,,,true,true,true,0,,easy,`,
		`lum-002,Bad Row,Lumber,Pacific Mills,not-a-price,piece,10,500,5,OR,2.1,,,,,true,true,true,0,,easy,`,
	)

	products, err := Parse(strings.NewReader(in))
	assert.Nil(t, products, "one malformed record rejects the whole catalog")

	var parseErrs *ParseErrors
	require.ErrorAs(t, err, &parseErrs)
	require.Len(t, parseErrs.Rows, 1)
	assert.Equal(t, 3, parseErrs.Rows[0].Line)
	assert.Equal(t, "unit_price", parseErrs.Rows[0].Field)
}

func TestParseFieldValidation(t *testing.T) {
	tests := []struct {
		name      string
		row       string
		wantField string
	}{
		{
			"empty numeric does not coerce to zero",
			`p1,Empty Lead,Lumber,M,1.00,piece,1,5,,OR,1,,,,,false,false,false,0,,easy,`,
			"lead_time_days",
		},
		{
			"negative price",
			`p1,Negative Price,Lumber,M,-3.00,piece,1,5,2,OR,1,,,,,false,false,false,0,,easy,`,
			"unit_price",
		},
		{
			"negative stock",
			`p1,Negative Stock,Lumber,M,1.00,piece,1,-5,2,OR,1,,,,,false,false,false,0,,easy,`,
			"stock_qty",
		},
		{
			"minimum order below one",
			`p1,Zero MOQ,Lumber,M,1.00,piece,0,5,2,OR,1,,,,,false,false,false,0,,easy,`,
			"min_order_qty",
		},
		{
			"missing id",
			`,No ID,Lumber,M,1.00,piece,1,5,2,OR,1,,,,,false,false,false,0,,easy,`,
			"id",
		},
		{
			"unknown difficulty",
			`p1,Bad Difficulty,Lumber,M,1.00,piece,1,5,2,OR,1,,,,,false,false,false,0,,impossible,`,
			"install_difficulty",
		},
		{
			"unrecognized boolean",
			`p1,Bad Bool,Lumber,M,1.00,piece,1,5,2,OR,1,,,,,maybe,false,false,0,,easy,`,
			"eco_friendly",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(catalogCSV(tt.row)))
			var parseErrs *ParseErrors
			require.ErrorAs(t, err, &parseErrs)
			require.NotEmpty(t, parseErrs.Rows)
			assert.Equal(t, tt.wantField, parseErrs.Rows[0].Field)
			assert.Equal(t, 2, parseErrs.Rows[0].Line)
		})
	}
}

func TestParseRejectsWrongHeader(t *testing.T) {
	in := "id,name,price\np1,Thing,1.00\n"
	_, err := Parse(strings.NewReader(in))
	assert.Error(t, err)
}

func TestSplitSet(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty yields nil", "", nil},
		{"single value", "FSC", []string{"FSC"}},
		{"multiple values", "CA;NY;TX", []string{"CA", "NY", "TX"}},
		{"whitespace trimmed", " CA ; NY ", []string{"CA", "NY"}},
		{"empty segments dropped", "CA;;NY;", []string{"CA", "NY"}},
		{"only delimiters yields nil", ";;", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSet(tt.raw))
		})
	}
}

func TestParseInstallDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    InstallDifficulty
		wantErr bool
	}{
		{"easy", DifficultyEasy, false},
		{"Moderate", DifficultyModerate, false},
		{"complex", DifficultyComplex, false},
		{"Professional Required", DifficultyProfessionalRequired, false},
		{"professional_required", DifficultyProfessionalRequired, false},
		{"trivial", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInstallDifficulty(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
