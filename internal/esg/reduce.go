package esg

import (
	"sort"
	"strings"
	"time"

	"sierra/models"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp reads the timestamp formats found in ESG records. Times
// without a zone are taken as UTC. Unparseable values return the zero time,
// which orders before every real observation.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ReduceLatest keeps one record per key: the one with the greatest
// timestamp. A record replaces the current pick only when it is strictly
// newer, so on ties the record seen first is kept.
func ReduceLatest[K comparable](records []models.ESGRecord, key func(models.ESGRecord) K) map[K]models.ESGRecord {
	latest := make(map[K]models.ESGRecord, len(records))
	instants := make(map[K]time.Time, len(records))

	for _, r := range records {
		k := key(r)
		ts := ParseTimestamp(r.Timestamp)

		if current, ok := instants[k]; ok && !ts.After(current) {
			continue
		}

		latest[k] = r
		instants[k] = ts
	}

	return latest
}

func ByTicker(r models.ESGRecord) string {
	return r.Ticker
}

func ByCompanyName(r models.ESGRecord) string {
	return r.CompanyName
}

// SortNewestFirst orders records by parsed timestamp, newest first. Records
// with equal instants keep their relative order.
func SortNewestFirst(records []models.ESGRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return ParseTimestamp(records[i].Timestamp).After(ParseTimestamp(records[j].Timestamp))
	})
}

// sortedValues flattens a reduced map into a slice ordered by key.
func sortedValues(reduced map[string]models.ESGRecord) []models.ESGRecord {
	keys := make([]string, 0, len(reduced))
	for k := range reduced {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]models.ESGRecord, 0, len(keys))
	for _, k := range keys {
		values = append(values, reduced[k])
	}
	return values
}
