// Package esg answers ESG rating queries: a ticker's history, searches by
// grade, by score and by company name. Every search that can see several
// observations of one company reduces them to the latest before answering.
package esg

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"sierra/internal/apierr"
	"sierra/internal/tickers"
	"sierra/models"
)

const msgFetchError = "Error fetching ESG data"

// RecordStore is the read side of the ESG table.
type RecordStore interface {
	// QueryByTicker returns all records of a ticker.
	QueryByTicker(ctx context.Context, ticker string) ([]models.ESGRecord, error)
	// ScanPage returns a page of records matching filter after cursor and the
	// cursor to continue from, or nil when there is nothing left.
	ScanPage(ctx context.Context, filter models.Filter, cursor *models.Cursor, limit int) ([]models.ESGRecord, *models.Cursor, error)
}

type Service struct {
	store     RecordStore
	directory *tickers.Directory
	pageSize  int
	logger    *zap.SugaredLogger
}

func NewService(store RecordStore, directory *tickers.Directory, pageSize int, logger *zap.SugaredLogger) *Service {
	if pageSize <= 0 {
		pageSize = 100
	}

	return &Service{
		store:     store,
		directory: directory,
		pageSize:  pageSize,
		logger:    logger,
	}
}

type History struct {
	Ticker            string             `json:"ticker"`
	HistoricalRatings []models.ESGRecord `json:"historical_ratings"`
}

type LevelResult struct {
	Category  string             `json:"category"`
	Rating    string             `json:"rating,omitempty"`
	Level     string             `json:"level,omitempty"`
	Companies []models.ESGRecord `json:"companies"`
}

type ScoreMatch struct {
	Ticker    string `json:"ticker"`
	Score     int    `json:"score"`
	Timestamp string `json:"timestamp"`
}

type ScoreResult struct {
	ScoreType      string       `json:"scoreType"`
	ValidCompanies []ScoreMatch `json:"validCompanies"`
}

// CompanyResult holds either the single company a name resolved to or, when
// the name is not in the directory, every company whose name contains it.
type CompanyResult struct {
	Query     string             `json:"query"`
	Suggested bool               `json:"suggested"`
	Ticker    string             `json:"ticker,omitempty"`
	Company   *models.ESGRecord  `json:"company,omitempty"`
	Companies []models.ESGRecord `json:"companies,omitempty"`
}

func normalizeTicker(ticker string) string {
	return strings.ToLower(strings.TrimSpace(ticker))
}

func (s *Service) queryTicker(ctx context.Context, ticker string) ([]models.ESGRecord, error) {
	records, err := s.store.QueryByTicker(ctx, ticker)
	if err != nil {
		s.logger.Errorw("Error querying ESG records", "ticker", ticker, "error", err)
		return nil, apierr.Store(msgFetchError, err)
	}
	return records, nil
}

// scan walks the table page by page until the store stops returning a
// cursor. The filter is re-checked in memory so stores that cannot evaluate
// it natively still return correct results.
func (s *Service) scan(ctx context.Context, filter models.Filter) ([]models.ESGRecord, error) {
	var matched []models.ESGRecord
	var cursor *models.Cursor

	for {
		page, next, err := s.store.ScanPage(ctx, filter, cursor, s.pageSize)
		if err != nil {
			s.logger.Errorw("Error scanning ESG records", "filter", filter, "error", err)
			return nil, apierr.Store(msgFetchError, err)
		}

		for _, r := range page {
			if filter.Match(r) {
				matched = append(matched, r)
			}
		}

		if next == nil {
			return matched, nil
		}
		cursor = next
	}
}

// History returns every observation of a ticker, newest first.
func (s *Service) History(ctx context.Context, ticker string) (*History, error) {
	ticker = normalizeTicker(ticker)

	records, err := s.queryTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, apierr.NotFound("No ESG data found for ticker: " + ticker)
	}

	SortNewestFirst(records)
	return &History{Ticker: ticker, HistoricalRatings: records}, nil
}

// Recent returns the latest observation of a ticker.
func (s *Service) Recent(ctx context.Context, ticker string) (*models.ESGRecord, error) {
	ticker = normalizeTicker(ticker)

	records, err := s.queryTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}

	latest, ok := ReduceLatest(records, ByTicker)[ticker]
	if !ok {
		return nil, apierr.NotFound("No ESG data found for ticker: " + ticker)
	}

	return &latest, nil
}

// All returns every stored observation.
func (s *Service) All(ctx context.Context) ([]models.ESGRecord, error) {
	records, err := s.scan(ctx, models.Filter{})
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, apierr.NotFound("No ESG data found")
	}

	return records, nil
}

// ByLevel returns the latest record of every ticker whose record matches the
// grade. Only records carrying the grade are reduced, so a ticker whose
// newest observation has a different grade still shows its newest matching
// one.
func (s *Service) ByLevel(ctx context.Context, q LevelQuery) (*LevelResult, error) {
	records, err := s.scan(ctx, q.Filter())
	if err != nil {
		return nil, err
	}

	companies := sortedValues(ReduceLatest(records, ByTicker))
	if len(companies) == 0 {
		return nil, apierr.NotFound(q.notFoundMessage())
	}

	result := &LevelResult{Category: q.Category, Companies: companies}
	if q.IsRating() {
		result.Rating = q.Value
	} else {
		result.Level = q.Value
	}

	return result, nil
}

// ByScore returns every observation, current or historical, whose score
// satisfies the query.
func (s *Service) ByScore(ctx context.Context, q ScoreQuery) (*ScoreResult, error) {
	records, err := s.scan(ctx, q.Filter())
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, apierr.NotFound(q.notFoundMessage())
	}

	matches := make([]ScoreMatch, 0, len(records))
	for _, r := range records {
		score, _ := r.Score(q.Column)
		matches = append(matches, ScoreMatch{Ticker: r.Ticker, Score: score, Timestamp: r.Timestamp})
	}

	return &ScoreResult{ScoreType: q.ScoreType, ValidCompanies: matches}, nil
}

// ByCompany resolves a company name through the ticker directory and returns
// that ticker's latest record. Names the directory does not know fall back to
// a substring search over company names, reduced to the latest record per
// name and sorted by name.
func (s *Service) ByCompany(ctx context.Context, name string) (*CompanyResult, error) {
	query := tickers.Normalize(name)
	if query == "" {
		return nil, apierr.Validation("Company name is required")
	}

	if ticker, suggested, ok := s.directory.Resolve(query); ok {
		records, err := s.queryTicker(ctx, ticker)
		if err != nil {
			return nil, err
		}

		if latest, found := ReduceLatest(records, ByTicker)[ticker]; found {
			return &CompanyResult{
				Query:     query,
				Suggested: suggested,
				Ticker:    ticker,
				Company:   &latest,
			}, nil
		}

		s.logger.Debugw("Resolved ticker has no ESG data, searching by name", "query", query, "ticker", ticker)
	}

	records, err := s.scan(ctx, models.Filter{Column: models.ColumnCompanyName, Op: models.OpContains, Value: query})
	if err != nil {
		return nil, err
	}

	companies := sortedValues(ReduceLatest(records, ByCompanyName))
	if len(companies) == 0 {
		return nil, apierr.NotFound("Company not found")
	}

	return &CompanyResult{Query: query, Companies: companies}, nil
}

// Recommend ranks tickers by the latest value of a score column, lowest
// risk first, and returns at most limit of them. include narrows the
// candidates; nil keeps every ticker. Ties are broken by ticker.
func (s *Service) Recommend(ctx context.Context, column string, include func(ticker string) bool, limit int) ([]ScoreMatch, error) {
	records, err := s.scan(ctx, models.Filter{})
	if err != nil {
		return nil, err
	}

	matches := make([]ScoreMatch, 0)
	for ticker, r := range ReduceLatest(records, ByTicker) {
		if include != nil && !include(ticker) {
			continue
		}
		score, ok := r.Score(column)
		if !ok {
			return nil, fmt.Errorf("unknown score column %q", column)
		}
		matches = append(matches, ScoreMatch{Ticker: ticker, Score: score, Timestamp: r.Timestamp})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score < matches[j].Score
		}
		return matches[i].Ticker < matches[j].Ticker
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
