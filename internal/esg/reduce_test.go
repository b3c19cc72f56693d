package esg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sierra/models"
)

func TestReduceLatestKeepsNewestPerTicker(t *testing.T) {
	records := []models.ESGRecord{
		{Ticker: "a", Timestamp: "2023-01-01"},
		{Ticker: "a", Timestamp: "2024-01-01"},
		{Ticker: "b", Timestamp: "2023-06-01"},
	}

	reduced := ReduceLatest(records, ByTicker)

	require.Len(t, reduced, 2)
	assert.Equal(t, "2024-01-01", reduced["a"].Timestamp)
	assert.Equal(t, "2023-06-01", reduced["b"].Timestamp)
}

func TestReduceLatestIsIdempotent(t *testing.T) {
	records := []models.ESGRecord{
		{Ticker: "a", Timestamp: "2023-01-01", TotalScore: 1},
		{Ticker: "a", Timestamp: "2024-01-01", TotalScore: 2},
		{Ticker: "b", Timestamp: "2023-06-01", TotalScore: 3},
	}

	once := ReduceLatest(records, ByTicker)
	twice := ReduceLatest(sortedValues(once), ByTicker)

	assert.Equal(t, once, twice)
}

func TestReduceLatestTieKeepsFirstSeen(t *testing.T) {
	records := []models.ESGRecord{
		{Ticker: "a", Timestamp: "2024-01-01T00:00:00Z", TotalScore: 1},
		{Ticker: "a", Timestamp: "2024-01-01", TotalScore: 2},
	}

	reduced := ReduceLatest(records, ByTicker)

	assert.Equal(t, 1, reduced["a"].TotalScore)
}

func TestReduceLatestComparesInstantsNotStrings(t *testing.T) {
	// Lexically "2024-03-01T09:00:00+05:00" sorts after
	// "2024-03-01T08:00:00Z", but it is the earlier instant.
	records := []models.ESGRecord{
		{Ticker: "a", Timestamp: "2024-03-01T08:00:00Z", TotalScore: 1},
		{Ticker: "a", Timestamp: "2024-03-01T09:00:00+05:00", TotalScore: 2},
	}

	reduced := ReduceLatest(records, ByTicker)

	assert.Equal(t, 1, reduced["a"].TotalScore)
}

func TestReduceLatestByCompanyName(t *testing.T) {
	records := []models.ESGRecord{
		{Ticker: "luv", CompanyName: "Southwest Airlines", Timestamp: "2024-02-14"},
		{Ticker: "luv", CompanyName: "Southwest Airlines", Timestamp: "2024-03-14"},
		{Ticker: "dal", CompanyName: "Delta Air Lines", Timestamp: "2024-01-14"},
	}

	reduced := ReduceLatest(records, ByCompanyName)

	require.Len(t, reduced, 2)
	assert.Equal(t, "2024-03-14", reduced["Southwest Airlines"].Timestamp)
}

func TestReduceLatestDoesNotModifyInput(t *testing.T) {
	records := []models.ESGRecord{
		{Ticker: "a", Timestamp: "2024-01-01"},
		{Ticker: "a", Timestamp: "2023-01-01"},
	}
	before := append([]models.ESGRecord(nil), records...)

	ReduceLatest(records, ByTicker)

	assert.Equal(t, before, records)
}

func TestParseTimestamp(t *testing.T) {
	cases := map[string]time.Time{
		"2024-03-14":               time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		"2024-03-14T10:11:12Z":     time.Date(2024, 3, 14, 10, 11, 12, 0, time.UTC),
		"2024-03-14T10:11:12.500Z": time.Date(2024, 3, 14, 10, 11, 12, 500000000, time.UTC),
		"2024-03-14T10:11:12":      time.Date(2024, 3, 14, 10, 11, 12, 0, time.UTC),
		"2024-03-14 10:11:12":      time.Date(2024, 3, 14, 10, 11, 12, 0, time.UTC),
		"not a date":               {},
	}

	for in, want := range cases {
		assert.True(t, want.Equal(ParseTimestamp(in)), in)
	}
}

func TestSortNewestFirst(t *testing.T) {
	records := []models.ESGRecord{
		{Timestamp: "2024-02-14"},
		{Timestamp: "2024-03-14T00:00:00.000Z"},
		{Timestamp: "2023-12-01"},
	}

	SortNewestFirst(records)

	assert.Equal(t, "2024-03-14T00:00:00.000Z", records[0].Timestamp)
	assert.Equal(t, "2024-02-14", records[1].Timestamp)
	assert.Equal(t, "2023-12-01", records[2].Timestamp)
}
