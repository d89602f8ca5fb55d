package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Expected header of a catalog CSV, in column order.
var csvHeader = []string{
	"id", "name", "category", "manufacturer", "unit_price", "unit",
	"min_order_qty", "stock_qty", "lead_time_days", "origin_region",
	"weight_kg", "dimensions", "restricted_regions", "project_types",
	"certifications", "eco_friendly", "recyclable", "sustainably_sourced",
	"warranty_years", "fire_rating", "install_difficulty", "description",
}

// RowError describes a single unparseable field in a catalog record.
type RowError struct {
	Line  int
	Field string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d, field %q: %v", e.Line, e.Field, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ParseErrors aggregates every row error found in one catalog file.
// Loading is fail-closed: any malformed record rejects the whole catalog.
type ParseErrors struct {
	Rows []*RowError
}

func (e *ParseErrors) Error() string {
	if len(e.Rows) == 1 {
		return fmt.Sprintf("catalog has 1 invalid record: %v", e.Rows[0])
	}
	return fmt.Sprintf("catalog has %d invalid records, first: %v", len(e.Rows), e.Rows[0])
}

// LoadFile reads a catalog CSV from disk.
func LoadFile(path string) ([]Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a catalog CSV into typed products. The first row must be the
// header. Numeric fields are parsed strictly; empty strings do not silently
// coerce to zero.
func Parse(r io.Reader) ([]Product, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	for i, col := range csvHeader {
		if strings.TrimSpace(header[i]) != col {
			return nil, fmt.Errorf("catalog header column %d is %q, want %q", i, header[i], col)
		}
	}

	var products []Product
	var parseErrs ParseErrors
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read catalog line %d: %w", line, err)
		}

		p, rowErrs := parseRecord(record, line)
		if len(rowErrs) > 0 {
			parseErrs.Rows = append(parseErrs.Rows, rowErrs...)
			continue
		}
		products = append(products, p)
	}

	if len(parseErrs.Rows) > 0 {
		return nil, &parseErrs
	}
	return products, nil
}

func parseRecord(record []string, line int) (Product, []*RowError) {
	var errs []*RowError
	fail := func(field string, err error) {
		errs = append(errs, &RowError{Line: line, Field: field, Err: err})
	}

	get := func(col string) string {
		for i, name := range csvHeader {
			if name == col {
				return strings.TrimSpace(record[i])
			}
		}
		return ""
	}

	p := Product{
		ID:           get("id"),
		Name:         get("name"),
		Category:     get("category"),
		Manufacturer: get("manufacturer"),
		Unit:         get("unit"),
		OriginRegion: get("origin_region"),
		Dimensions:   get("dimensions"),
		FireRating:   get("fire_rating"),
		Description:  get("description"),
	}

	if p.ID == "" {
		fail("id", fmt.Errorf("must not be empty"))
	}

	price, err := decimal.NewFromString(get("unit_price"))
	switch {
	case err != nil:
		fail("unit_price", err)
	case price.IsNegative():
		fail("unit_price", fmt.Errorf("must not be negative"))
	default:
		p.UnitPrice = price
	}

	p.MinOrderQty = parseIntField(get("min_order_qty"), "min_order_qty", 1, fail)
	p.StockQty = parseIntField(get("stock_qty"), "stock_qty", 0, fail)
	p.LeadTimeDays = parseIntField(get("lead_time_days"), "lead_time_days", 0, fail)
	p.WarrantyYears = parseIntField(get("warranty_years"), "warranty_years", 0, fail)

	if w := get("weight_kg"); w != "" {
		weight, err := strconv.ParseFloat(w, 64)
		if err != nil {
			fail("weight_kg", err)
		} else {
			p.WeightKg = weight
		}
	}

	p.RestrictedRegions = splitSet(get("restricted_regions"))
	p.ProjectTypes = splitSet(get("project_types"))
	p.Certifications = splitSet(get("certifications"))

	p.EcoFriendly = parseBoolField(get("eco_friendly"), "eco_friendly", fail)
	p.Recyclable = parseBoolField(get("recyclable"), "recyclable", fail)
	p.SustainablySourced = parseBoolField(get("sustainably_sourced"), "sustainably_sourced", fail)

	difficulty, err := ParseInstallDifficulty(get("install_difficulty"))
	if err != nil {
		fail("install_difficulty", err)
	} else {
		p.InstallDifficulty = difficulty
	}

	return p, errs
}

func parseIntField(raw, field string, min int, fail func(string, error)) int {
	v, err := strconv.Atoi(raw)
	if err != nil {
		fail(field, err)
		return 0
	}
	if v < min {
		fail(field, fmt.Errorf("must be >= %d, got %d", min, v))
		return 0
	}
	return v
}

func parseBoolField(raw, field string, fail func(string, error)) bool {
	switch strings.ToLower(raw) {
	case "true", "yes", "1":
		return true
	case "false", "no", "0", "":
		return false
	}
	fail(field, fmt.Errorf("unrecognized boolean: %q", raw))
	return false
}

// splitSet parses a semicolon-delimited set field into a slice.
// This happens exactly once, at ingestion.
func splitSet(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
