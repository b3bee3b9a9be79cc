package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendlens-go/pkg/chart"
	"trendlens-go/pkg/storage"
	"trendlens-go/pkg/trends"
)

type fakeTrendsService struct {
	series  *trends.TimeSeries
	regions *trends.RegionTable
	related *trends.RelatedQueries
	err     error
	calls   int
}

func (f *fakeTrendsService) InterestOverTime(ctx context.Context, keywords []string, timeframe, geo string) (*trends.TimeSeries, error) {
	f.calls++
	return f.series, f.err
}

func (f *fakeTrendsService) InterestByRegion(ctx context.Context, keyword string, resolution trends.Resolution, geo string) (*trends.RegionTable, error) {
	f.calls++
	return f.regions, f.err
}

func (f *fakeTrendsService) RelatedQueries(ctx context.Context, keyword, geo string) (*trends.RelatedQueries, error) {
	f.calls++
	return f.related, f.err
}

type fakeHistory struct {
	records []storage.FetchRecord
}

func (f *fakeHistory) Record(ctx context.Context, record storage.FetchRecord) error {
	f.records = append(f.records, record)
	return nil
}

func (f *fakeHistory) Recent(ctx context.Context, limit int) ([]storage.FetchRecord, error) {
	if limit > len(f.records) {
		limit = len(f.records)
	}
	return f.records[:limit], nil
}

func newTestApp(svc *fakeTrendsService, history *fakeHistory) *fiber.App {
	app := fiber.New()
	controller := NewController(svc, history, chart.NewRenderer(), storage.NewResultCache(16, time.Minute))
	controller.RegisterRoutes(app)
	return app
}

func decodeBody(t *testing.T, resp io.Reader) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp).Decode(&body))
	return body
}

func sampleSeries() *trends.TimeSeries {
	return &trends.TimeSeries{
		Keywords: []string{"Black Friday Deals"},
		Points: []trends.TimePoint{
			{Date: time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC), Values: map[string]int{"Black Friday Deals": 41}},
		},
	}
}

func TestInterestOverTime_Success(t *testing.T) {
	svc := &fakeTrendsService{series: sampleSeries()}
	history := &fakeHistory{}
	app := newTestApp(svc, history)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/interest-over-time?keywords=Black+Friday+Deals&geo=US", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, "success", body["status"])

	require.Len(t, history.records, 1)
	assert.Equal(t, "interest_over_time", history.records[0].Kind)
	assert.True(t, history.records[0].Success)
}

func TestInterestOverTime_MissingKeywords(t *testing.T) {
	app := newTestApp(&fakeTrendsService{}, &fakeHistory{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/interest-over-time", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestInterestOverTime_FetchFailure(t *testing.T) {
	svc := &fakeTrendsService{err: errors.New("max retries reached after 3 attempts: 503")}
	history := &fakeHistory{}
	app := newTestApp(svc, history)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/interest-over-time?keywords=kw", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Contains(t, body["message"], "max retries reached")

	require.Len(t, history.records, 1)
	assert.False(t, history.records[0].Success)
}

func TestInterestOverTime_EmptyResult(t *testing.T) {
	svc := &fakeTrendsService{series: &trends.TimeSeries{Keywords: []string{"kw"}}}
	app := newTestApp(svc, &fakeHistory{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/interest-over-time?keywords=kw", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, "empty", body["status"])
	assert.Contains(t, body["message"], "No data retrieved")
}

func TestInterestOverTime_ServedFromCache(t *testing.T) {
	svc := &fakeTrendsService{series: sampleSeries()}
	app := newTestApp(svc, &fakeHistory{})

	url := "/api/v1/interest-over-time?keywords=Black+Friday+Deals&geo=US"
	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", url, nil))
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, 1, svc.calls, "second request should be served from cache")
}

func TestInterestByRegion_HTMLFormat(t *testing.T) {
	svc := &fakeTrendsService{regions: &trends.RegionTable{
		Keywords:   []string{"Holiday Sales"},
		Resolution: trends.ResolutionCountry,
		Rows: []trends.RegionRow{
			{Code: "US", Name: "United States", Values: map[string]int{"Holiday Sales": 83}},
			{Code: "CA", Name: "Canada", Values: map[string]int{"Holiday Sales": 55}},
		},
	}}
	app := newTestApp(svc, &fakeHistory{})

	resp, err := app.Test(httptest.NewRequest("GET",
		"/api/v1/interest-by-region?keyword=Holiday+Sales&resolution=COUNTRY&format=html", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "html")

	html, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(html), "United States")
}

func TestRelatedQueries_Success(t *testing.T) {
	svc := &fakeTrendsService{related: &trends.RelatedQueries{
		Keyword: "Holiday Sales",
		Top:     []trends.RelatedQuery{{Query: "holiday sales 2025", Value: 100}},
	}}
	app := newTestApp(svc, &fakeHistory{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/related-queries?keyword=Holiday+Sales", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, "success", body["status"])
}

func TestHistoryEndpoint(t *testing.T) {
	history := &fakeHistory{records: []storage.FetchRecord{
		{ID: "1", Kind: "interest_over_time", Success: true},
	}}
	app := newTestApp(&fakeTrendsService{}, history)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/history?limit=5", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, "success", body["status"])
}

func TestHealthz(t *testing.T) {
	app := newTestApp(&fakeTrendsService{}, &fakeHistory{})

	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
