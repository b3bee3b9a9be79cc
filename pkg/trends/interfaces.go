package trends

import "context"

// Client queries the external trends data provider. Implementations may
// fail with transient errors (network, rate limits); resilience is the
// caller's concern, not the client's.
type Client interface {
	InterestOverTime(ctx context.Context, payload Payload) (*TimeSeries, error)
	InterestByRegion(ctx context.Context, payload Payload) (*RegionTable, error)
	RelatedQueries(ctx context.Context, payload Payload) (*RelatedQueries, error)
}
