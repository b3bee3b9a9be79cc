package service

import (
	"context"

	"trendlens-go/pkg/storage"
	"trendlens-go/pkg/trends"
)

// TrendsService is the search-interest query surface consumed by the HTTP
// handlers. Implemented by seo.Analyzer.
type TrendsService interface {
	InterestOverTime(ctx context.Context, keywords []string, timeframe, geo string) (*trends.TimeSeries, error)
	InterestByRegion(ctx context.Context, keyword string, resolution trends.Resolution, geo string) (*trends.RegionTable, error)
	RelatedQueries(ctx context.Context, keyword, geo string) (*trends.RelatedQueries, error)
}

// HistoryService records and lists fetch outcomes. Implemented by
// storage.FetchHistory.
type HistoryService interface {
	Record(ctx context.Context, record storage.FetchRecord) error
	Recent(ctx context.Context, limit int) ([]storage.FetchRecord, error)
}
