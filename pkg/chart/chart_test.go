package chart

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"trendlens-go/pkg/trends"
)

func regionTable() *trends.RegionTable {
	return &trends.RegionTable{
		Keywords:   []string{"Holiday Sales"},
		Resolution: trends.ResolutionCountry,
		Rows: []trends.RegionRow{
			{Code: "US", Name: "United States", Values: map[string]int{"Holiday Sales": 83}},
			{Code: "CA", Name: "Canada", Values: map[string]int{"Holiday Sales": 55}},
		},
	}
}

func timeSeries() *trends.TimeSeries {
	return &trends.TimeSeries{
		Keywords: []string{"Black Friday Deals", "Holiday Sales"},
		Points: []trends.TimePoint{
			{
				Date:   time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
				Values: map[string]int{"Black Friday Deals": 41, "Holiday Sales": 12},
			},
			{
				Date:   time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC),
				Values: map[string]int{"Black Friday Deals": 100, "Holiday Sales": 37},
			},
		},
	}
}

func TestBuildChoroplethSpec_CountryResolution(t *testing.T) {
	spec, err := BuildChoroplethSpec(regionTable(), "Holiday Sales", "Regional Interest in the US")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if spec.LocationMode != LocationModeCountryNames {
		t.Errorf("Expected location mode %q, got %q", LocationModeCountryNames, spec.LocationMode)
	}
	if spec.ColorField != "Holiday Sales" {
		t.Errorf("Expected color field to be the keyword column, got %q", spec.ColorField)
	}
	if len(spec.Points) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(spec.Points))
	}
	if spec.Points[0].Location != "United States" || spec.Points[0].Score != 83 {
		t.Errorf("Unexpected first point: %+v", spec.Points[0])
	}
}

func TestBuildChoroplethSpec_FinerResolutionUsesGeoCodes(t *testing.T) {
	table := regionTable()
	table.Resolution = trends.ResolutionRegion

	spec, err := BuildChoroplethSpec(table, "Holiday Sales", "title")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if spec.LocationMode != LocationModeGeoCodes {
		t.Errorf("Expected geo-code mode, got %q", spec.LocationMode)
	}
	if spec.Points[0].Location != "US" {
		t.Errorf("Expected geo code location, got %q", spec.Points[0].Location)
	}
}

func TestBuildChoroplethSpec_RejectsEmptyTable(t *testing.T) {
	if _, err := BuildChoroplethSpec(&trends.RegionTable{}, "kw", "title"); err == nil {
		t.Error("Expected error for empty table")
	}
}

func TestBuildChoroplethSpec_RejectsUnknownKeyword(t *testing.T) {
	if _, err := BuildChoroplethSpec(regionTable(), "Nonexistent", "title"); err == nil {
		t.Error("Expected error for keyword without a column")
	}
}

func TestBuildLineSpec(t *testing.T) {
	spec, err := BuildLineSpec(timeSeries(), "Emerging Trends in the US")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(spec.Dates) != 2 || spec.Dates[0] != "2025-11-02" {
		t.Errorf("Unexpected dates: %v", spec.Dates)
	}
	if len(spec.Series) != 2 {
		t.Fatalf("Expected one line per keyword, got %d", len(spec.Series))
	}
	if spec.Series[0].Name != "Black Friday Deals" {
		t.Errorf("Unexpected series order: %q", spec.Series[0].Name)
	}
	if spec.Series[1].Values[1] != 37 {
		t.Errorf("Expected value 37, got %d", spec.Series[1].Values[1])
	}
	if spec.XLabel != "Date" || spec.YLabel != "Search Interest" {
		t.Errorf("Unexpected axis labels: %q, %q", spec.XLabel, spec.YLabel)
	}
}

func TestBuildLineSpec_RejectsEmptySeries(t *testing.T) {
	if _, err := BuildLineSpec(&trends.TimeSeries{}, "title"); err == nil {
		t.Error("Expected error for empty series")
	}
}

func TestRenderInterestOverTime_WritesHTML(t *testing.T) {
	renderer := NewRenderer()

	var buf bytes.Buffer
	if err := renderer.RenderInterestOverTime(&buf, timeSeries(), "Emerging Trends in the US"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	html := buf.String()
	if !strings.Contains(html, "Emerging Trends in the US") {
		t.Error("Expected title in rendered output")
	}
	if !strings.Contains(html, "Black Friday Deals") {
		t.Error("Expected keyword series in rendered output")
	}
}

func TestRenderRegionalInterest_WritesHTML(t *testing.T) {
	renderer := NewRenderer()

	var buf bytes.Buffer
	if err := renderer.RenderRegionalInterest(&buf, regionTable(), "Holiday Sales", "Regional Interest in the US"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	html := buf.String()
	if !strings.Contains(html, "United States") {
		t.Error("Expected country names in rendered output")
	}
}

func TestRenderRegionalInterest_EmptyTableFails(t *testing.T) {
	renderer := NewRenderer()

	var buf bytes.Buffer
	if err := renderer.RenderRegionalInterest(&buf, &trends.RegionTable{}, "kw", "title"); err == nil {
		t.Error("Expected error for empty table")
	}
}
