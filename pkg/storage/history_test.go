package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchHistory_RecordAndRecent(t *testing.T) {
	history, err := OpenHistory(":memory:")
	require.NoError(t, err)
	defer history.Close()

	ctx := context.Background()

	require.NoError(t, history.Record(ctx, FetchRecord{
		Kind:      "interest_over_time",
		Keywords:  []string{"Black Friday Deals", "Holiday Sales"},
		Timeframe: "today 12-m",
		Geo:       "US",
		RowCount:  52,
		Success:   true,
		CreatedAt: time.Now().UTC().Add(-time.Minute),
	}))

	require.NoError(t, history.Record(ctx, FetchRecord{
		Kind:     "interest_by_region",
		Keywords: []string{"Holiday Sales"},
		Geo:      "US",
		Success:  false,
		Error:    "max retries reached after 3 attempts: 503 service unavailable",
	}))

	records, err := history.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "interest_by_region", records[0].Kind)
	assert.False(t, records[0].Success)
	assert.Contains(t, records[0].Error, "max retries reached")

	assert.Equal(t, "interest_over_time", records[1].Kind)
	assert.True(t, records[1].Success)
	assert.Equal(t, []string{"Black Friday Deals", "Holiday Sales"}, records[1].Keywords)
	assert.Equal(t, 52, records[1].RowCount)
	assert.NotEmpty(t, records[1].ID)
}

func TestFetchHistory_RecentLimit(t *testing.T) {
	history, err := OpenHistory(":memory:")
	require.NoError(t, err)
	defer history.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, history.Record(ctx, FetchRecord{
			Kind:     "related_queries",
			Keywords: []string{"Holiday Sales"},
			Success:  true,
		}))
	}

	records, err := history.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestFetchHistory_EmptyStore(t *testing.T) {
	history, err := OpenHistory(":memory:")
	require.NoError(t, err)
	defer history.Close()

	records, err := history.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
