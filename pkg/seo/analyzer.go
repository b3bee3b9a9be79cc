package seo

import (
	"context"

	"trendlens-go/pkg/logger"
	"trendlens-go/pkg/retry"
	"trendlens-go/pkg/trends"
)

// Analyzer exposes the search-interest queries an SEO analysis needs.
// Every method builds one immutable payload, hands a closure over it to
// the retry fetcher and passes the provider's table through untouched.
// All resilience lives in the fetcher; the analyzer never transforms
// results and never turns an empty table into an error.
type Analyzer struct {
	client  trends.Client
	fetcher *retry.Fetcher
	log     *logger.Logger
}

// NewAnalyzer creates an analyzer with the default retry policy.
func NewAnalyzer(client trends.Client) *Analyzer {
	return NewAnalyzerWithRetry(client, retry.New(retry.DefaultMaxRetries, retry.DefaultBaseDelay))
}

// NewAnalyzerWithRetry creates an analyzer with an explicit retry fetcher.
func NewAnalyzerWithRetry(client trends.Client, fetcher *retry.Fetcher) *Analyzer {
	return &Analyzer{
		client:  client,
		fetcher: fetcher,
		log:     logger.ForComponent("seo_analyzer"),
	}
}

// InterestOverTime fetches the relative search interest of keywords over
// the given timeframe. An empty geo means worldwide.
func (a *Analyzer) InterestOverTime(ctx context.Context, keywords []string, timeframe, geo string) (*trends.TimeSeries, error) {
	if timeframe == "" {
		timeframe = trends.DefaultTimeframe
	}
	payload := trends.Payload{
		Keywords:  append([]string(nil), keywords...),
		Timeframe: timeframe,
		Geo:       geo,
	}

	var result *trends.TimeSeries
	err := a.fetcher.Execute(ctx, func() error {
		series, err := a.client.InterestOverTime(ctx, payload)
		if err != nil {
			return err
		}
		result = series
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.log.WithFields(map[string]interface{}{
		"keywords": len(payload.Keywords),
		"rows":     len(result.Points),
	}).Debug("Interest over time fetched")
	return result, nil
}

// InterestByRegion fetches the regional breakdown of one keyword's search
// interest at the given resolution.
func (a *Analyzer) InterestByRegion(ctx context.Context, keyword string, resolution trends.Resolution, geo string) (*trends.RegionTable, error) {
	if resolution == "" {
		resolution = trends.ResolutionCountry
	}
	payload := trends.Payload{
		Keywords:   []string{keyword},
		Geo:        geo,
		Resolution: resolution,
	}

	var result *trends.RegionTable
	err := a.fetcher.Execute(ctx, func() error {
		table, err := a.client.InterestByRegion(ctx, payload)
		if err != nil {
			return err
		}
		result = table
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.log.WithFields(map[string]interface{}{
		"keyword": keyword,
		"rows":    len(result.Rows),
	}).Debug("Interest by region fetched")
	return result, nil
}

// RelatedQueries fetches the top and rising queries related to a keyword.
func (a *Analyzer) RelatedQueries(ctx context.Context, keyword, geo string) (*trends.RelatedQueries, error) {
	payload := trends.Payload{
		Keywords: []string{keyword},
		Geo:      geo,
	}

	var result *trends.RelatedQueries
	err := a.fetcher.Execute(ctx, func() error {
		related, err := a.client.RelatedQueries(ctx, payload)
		if err != nil {
			return err
		}
		result = related
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
