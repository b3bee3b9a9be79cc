package chart

import (
	"fmt"
	"io"

	"trendlens-go/pkg/trends"
)

// Location modes understood by the rendering collaborator.
const (
	LocationModeCountryNames = "country names"
	LocationModeGeoCodes     = "geo codes"
)

// Renderer draws a fetched table as a chart. Rendering performs no retry
// and no error recovery; callers check for empty tables before invoking.
type Renderer interface {
	RenderInterestOverTime(w io.Writer, series *trends.TimeSeries, title string) error
	RenderRegionalInterest(w io.Writer, table *trends.RegionTable, keyword, title string) error
}

// LineSeries is one keyword's line in a time-series chart.
type LineSeries struct {
	Name   string
	Values []int
}

// LineSpec is the chart-library-independent description of a time-series
// line chart: x = date, one line per keyword column.
type LineSpec struct {
	Title  string
	XLabel string
	YLabel string
	Dates  []string
	Series []LineSeries
}

// ChoroplethPoint is one shaded location on a map.
type ChoroplethPoint struct {
	Location string
	Score    int
}

// ChoroplethSpec is the chart-library-independent description of a
// regional-interest map: color intensity per region keyed by a single
// keyword's score column.
type ChoroplethSpec struct {
	Title        string
	LocationMode string
	ColorField   string
	Points       []ChoroplethPoint
}

// BuildLineSpec derives a line chart description from a time series. The
// series itself is not modified.
func BuildLineSpec(series *trends.TimeSeries, title string) (*LineSpec, error) {
	if series.Empty() {
		return nil, fmt.Errorf("cannot chart an empty time series")
	}

	spec := &LineSpec{
		Title:  title,
		XLabel: "Date",
		YLabel: "Search Interest",
		Dates:  make([]string, 0, len(series.Points)),
	}

	for _, point := range series.Points {
		spec.Dates = append(spec.Dates, point.Date.Format("2006-01-02"))
	}

	for _, keyword := range series.Keywords {
		line := LineSeries{Name: keyword, Values: make([]int, 0, len(series.Points))}
		for _, point := range series.Points {
			line.Values = append(line.Values, point.Values[keyword])
		}
		spec.Series = append(spec.Series, line)
	}

	return spec, nil
}

// BuildChoroplethSpec derives a map description from a regional table,
// shading by the given keyword's score column. COUNTRY resolution tables
// are keyed by country name; finer resolutions fall back to geo codes.
func BuildChoroplethSpec(table *trends.RegionTable, keyword, title string) (*ChoroplethSpec, error) {
	if table.Empty() {
		return nil, fmt.Errorf("cannot chart an empty region table")
	}

	mode := LocationModeGeoCodes
	if table.Resolution == trends.ResolutionCountry {
		mode = LocationModeCountryNames
	}

	spec := &ChoroplethSpec{
		Title:        title,
		LocationMode: mode,
		ColorField:   keyword,
		Points:       make([]ChoroplethPoint, 0, len(table.Rows)),
	}

	for _, row := range table.Rows {
		score, ok := row.Values[keyword]
		if !ok {
			return nil, fmt.Errorf("keyword %q has no column in region table", keyword)
		}
		location := row.Code
		if mode == LocationModeCountryNames {
			location = row.Name
		}
		spec.Points = append(spec.Points, ChoroplethPoint{Location: location, Score: score})
	}

	return spec, nil
}
