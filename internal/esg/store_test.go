package esg

import (
	"context"
	"sort"

	"sierra/models"
)

// memStore is an in-memory RecordStore. It ignores scan filters so the
// service's own filtering is what the tests observe.
type memStore struct {
	records   []models.ESGRecord
	err       error
	scanCalls int
	queries   int
}

func (m *memStore) QueryByTicker(_ context.Context, ticker string) ([]models.ESGRecord, error) {
	m.queries++
	if m.err != nil {
		return nil, m.err
	}

	var out []models.ESGRecord
	for _, r := range m.records {
		if r.Ticker == ticker {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ScanPage(_ context.Context, _ models.Filter, cursor *models.Cursor, limit int) ([]models.ESGRecord, *models.Cursor, error) {
	m.scanCalls++
	if m.err != nil {
		return nil, nil, m.err
	}

	sorted := append([]models.ESGRecord(nil), m.records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Ticker != sorted[j].Ticker {
			return sorted[i].Ticker < sorted[j].Ticker
		}
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	var page []models.ESGRecord
	for _, r := range sorted {
		if cursor != nil && (r.Ticker < cursor.Ticker || (r.Ticker == cursor.Ticker && r.Timestamp <= cursor.Timestamp)) {
			continue
		}
		page = append(page, r)
		if len(page) == limit {
			return page, &models.Cursor{Ticker: r.Ticker, Timestamp: r.Timestamp}, nil
		}
	}

	return page, nil, nil
}
