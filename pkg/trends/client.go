package trends

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"trendlens-go/pkg/logger"
)

// DefaultHostLanguage is the hl parameter sent with every query.
const DefaultHostLanguage = "en-US"

type httpClient struct {
	baseURL     string
	apiKey      string
	hostLang    language.Tag
	connManager *ConnectionManager
	limiter     *rate.Limiter
	log         *logger.Logger

	totalRequests  uint64
	failedRequests uint64
	lastError      atomic.Value
}

// NewHTTPClient creates a trends provider client with default connection
// settings and one request per second toward the provider.
func NewHTTPClient(baseURL, apiKey string) (Client, error) {
	return NewHTTPClientWithConfig(baseURL, apiKey, DefaultHostLanguage, DefaultConnectionConfig(), 1.0)
}

// NewHTTPClientWithConfig creates a trends provider client with explicit
// connection settings, host language and client-side rate limit (requests
// per second; zero disables limiting).
func NewHTTPClientWithConfig(baseURL, apiKey, hostLang string, connConfig ConnectionConfig, qps float64) (Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("trends provider base URL is required")
	}

	if hostLang == "" {
		hostLang = DefaultHostLanguage
	}
	tag, err := language.Parse(hostLang)
	if err != nil {
		return nil, fmt.Errorf("invalid host language %q: %w", hostLang, err)
	}

	limit := rate.Inf
	if qps > 0 {
		limit = rate.Limit(qps)
	}

	return &httpClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		hostLang:    tag,
		connManager: NewConnectionManager(connConfig),
		limiter:     rate.NewLimiter(limit, 1),
		log:         logger.ForComponent("trends_client"),
	}, nil
}

func (c *httpClient) InterestOverTime(ctx context.Context, payload Payload) (*TimeSeries, error) {
	body, err := c.get(ctx, "/interest-over-time", payload)
	if err != nil {
		return nil, err
	}
	return parseTimeSeries(body, payload.Keywords)
}

func (c *httpClient) InterestByRegion(ctx context.Context, payload Payload) (*RegionTable, error) {
	body, err := c.get(ctx, "/interest-by-region", payload)
	if err != nil {
		return nil, err
	}
	return parseRegionTable(body, payload)
}

func (c *httpClient) RelatedQueries(ctx context.Context, payload Payload) (*RelatedQueries, error) {
	if len(payload.Keywords) != 1 {
		return nil, fmt.Errorf("related queries requires exactly one keyword, got %d", len(payload.Keywords))
	}
	body, err := c.get(ctx, "/related-queries", payload)
	if err != nil {
		return nil, err
	}
	return parseRelatedQueries(body, payload.Keywords[0])
}

// get performs one provider request and returns the raw response body.
func (c *httpClient) get(ctx context.Context, path string, payload Payload) ([]byte, error) {
	if len(payload.Keywords) == 0 {
		return nil, fmt.Errorf("no keywords provided")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	atomic.AddUint64(&c.totalRequests, 1)
	start := time.Now()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.buildURL(path, payload))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("User-Agent", "trendlens-go/1.0")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	err := c.connManager.GetFastHTTPClient().DoTimeout(req, resp, c.connManager.RequestTimeout())
	if err != nil {
		atomic.AddUint64(&c.failedRequests, 1)
		c.lastError.Store(err.Error())
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		atomic.AddUint64(&c.failedRequests, 1)
		err := fmt.Errorf("provider returned status %d: %s", resp.StatusCode(), string(resp.Body()))
		c.lastError.Store(err.Error())
		return nil, err
	}

	c.log.WithFields(map[string]interface{}{
		"path":        path,
		"keywords":    len(payload.Keywords),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Provider query completed")

	// The response buffer is pooled; copy before release.
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}

func (c *httpClient) buildURL(path string, payload Payload) string {
	params := url.Values{}
	params.Set("keywords", strings.Join(payload.Keywords, ","))
	params.Set("hl", c.hostLang.String())
	if payload.Timeframe != "" {
		params.Set("timeframe", payload.Timeframe)
	}
	if payload.Geo != "" {
		params.Set("geo", payload.Geo)
	}
	if payload.Resolution != "" {
		params.Set("resolution", string(payload.Resolution))
	}
	return c.baseURL + path + "?" + params.Encode()
}
