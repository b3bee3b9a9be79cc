package trends

import "time"

// Resolution selects the geographic granularity of a regional query.
type Resolution string

const (
	ResolutionCountry Resolution = "COUNTRY"
	ResolutionRegion  Resolution = "REGION"
	ResolutionCity    Resolution = "CITY"
)

// DefaultTimeframe mirrors the provider's relative twelve month window.
const DefaultTimeframe = "today 12-m"

// Payload describes one query against the trends provider. It is built
// once by a facade and never mutated afterwards.
type Payload struct {
	Keywords   []string   `json:"keywords"`
	Timeframe  string     `json:"timeframe,omitempty"`
	Geo        string     `json:"geo,omitempty"` // empty means worldwide
	Resolution Resolution `json:"resolution,omitempty"`
}

// TimePoint is one dated row of a time-series table. Values maps each
// keyword to its relative search-interest score in [0, 100].
type TimePoint struct {
	Date      time.Time      `json:"date"`
	Values    map[string]int `json:"values"`
	IsPartial bool           `json:"is_partial"`
}

// TimeSeries is the tabular result of an interest-over-time query.
type TimeSeries struct {
	Keywords []string    `json:"keywords"`
	Points   []TimePoint `json:"points"`
}

// Empty reports whether the series holds no rows. An empty series is a
// valid result, distinct from a failed fetch.
func (ts *TimeSeries) Empty() bool {
	return ts == nil || len(ts.Points) == 0
}

// RegionRow is one row of a regional-interest table.
type RegionRow struct {
	Code   string         `json:"geo_code"`
	Name   string         `json:"name"`
	Values map[string]int `json:"values"`
}

// RegionTable is the tabular result of an interest-by-region query.
type RegionTable struct {
	Keywords   []string    `json:"keywords"`
	Resolution Resolution  `json:"resolution"`
	Rows       []RegionRow `json:"rows"`
}

// Empty reports whether the table holds no rows.
func (rt *RegionTable) Empty() bool {
	return rt == nil || len(rt.Rows) == 0
}

// RelatedQuery is a single related search query with its relative score
// (top list) or percentage rise (rising list).
type RelatedQuery struct {
	Query string `json:"query"`
	Value int    `json:"value"`
}

// RelatedQueries pairs the top and rising query tables for one keyword.
type RelatedQueries struct {
	Keyword string         `json:"keyword"`
	Top     []RelatedQuery `json:"top"`
	Rising  []RelatedQuery `json:"rising"`
}

// Empty reports whether both query tables are empty.
func (rq *RelatedQueries) Empty() bool {
	return rq == nil || (len(rq.Top) == 0 && len(rq.Rising) == 0)
}
