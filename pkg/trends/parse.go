package trends

import (
	"encoding/json"
	"fmt"
	"time"
)

// Wire format of the trends provider. The provider scores keywords on a
// relative 0-100 scale; rows outside that range are rejected.

type timelineResponse struct {
	Status string `json:"status"`
	Data   struct {
		Timeline []struct {
			Date      string         `json:"date"`
			Values    map[string]int `json:"values"`
			IsPartial bool           `json:"is_partial"`
		} `json:"timeline"`
	} `json:"data"`
	Message string `json:"message,omitempty"`
}

type regionResponse struct {
	Status string `json:"status"`
	Data   struct {
		Regions []struct {
			GeoCode string         `json:"geo_code"`
			Name    string         `json:"name"`
			Values  map[string]int `json:"values"`
		} `json:"regions"`
	} `json:"data"`
	Message string `json:"message,omitempty"`
}

type relatedResponse struct {
	Status string `json:"status"`
	Data   struct {
		Top []struct {
			Query string `json:"query"`
			Value int    `json:"value"`
		} `json:"top"`
		Rising []struct {
			Query string `json:"query"`
			Value int    `json:"value"`
		} `json:"rising"`
	} `json:"data"`
	Message string `json:"message,omitempty"`
}

func parseTimeSeries(body []byte, keywords []string) (*TimeSeries, error) {
	var wire timelineResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if wire.Status != "success" {
		return nil, fmt.Errorf("provider error: %s", wire.Message)
	}

	series := &TimeSeries{
		Keywords: append([]string(nil), keywords...),
		Points:   make([]TimePoint, 0, len(wire.Data.Timeline)),
	}

	for _, row := range wire.Data.Timeline {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q in timeline: %w", row.Date, err)
		}
		if err := validateScores(row.Values); err != nil {
			return nil, err
		}
		series.Points = append(series.Points, TimePoint{
			Date:      date,
			Values:    row.Values,
			IsPartial: row.IsPartial,
		})
	}

	return series, nil
}

func parseRegionTable(body []byte, payload Payload) (*RegionTable, error) {
	var wire regionResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if wire.Status != "success" {
		return nil, fmt.Errorf("provider error: %s", wire.Message)
	}

	resolution := payload.Resolution
	if resolution == "" {
		resolution = ResolutionCountry
	}

	table := &RegionTable{
		Keywords:   append([]string(nil), payload.Keywords...),
		Resolution: resolution,
		Rows:       make([]RegionRow, 0, len(wire.Data.Regions)),
	}

	for _, row := range wire.Data.Regions {
		if err := validateScores(row.Values); err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, RegionRow{
			Code:   row.GeoCode,
			Name:   row.Name,
			Values: row.Values,
		})
	}

	return table, nil
}

func parseRelatedQueries(body []byte, keyword string) (*RelatedQueries, error) {
	var wire relatedResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if wire.Status != "success" {
		return nil, fmt.Errorf("provider error: %s", wire.Message)
	}

	related := &RelatedQueries{Keyword: keyword}
	for _, row := range wire.Data.Top {
		related.Top = append(related.Top, RelatedQuery{Query: row.Query, Value: row.Value})
	}
	for _, row := range wire.Data.Rising {
		related.Rising = append(related.Rising, RelatedQuery{Query: row.Query, Value: row.Value})
	}

	return related, nil
}

func validateScores(values map[string]int) error {
	for keyword, score := range values {
		if score < 0 || score > 100 {
			return fmt.Errorf("score %d for keyword %q outside provider scale [0,100]", score, keyword)
		}
	}
	return nil
}
