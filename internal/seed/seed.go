// Package seed loads ESG records from CSV exports into a record store.
package seed

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"sierra/internal/esg"
	"sierra/models"
)

const dateLayout = "2006-01-02"

// Cutoff is the earliest observation date kept by ReadCSV.
var Cutoff = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// row is one CSV line as exported by the scoring pipeline. Scores stay
// strings so blank cells can be told apart from zero.
type row struct {
	Ticker           string `csv:"ticker"`
	Timestamp        string `csv:"timestamp"`
	CompanyName      string `csv:"company_name"`
	TotalScore       string `csv:"total_score"`
	EnvironmentScore string `csv:"environment_score"`
	SocialScore      string `csv:"social_score"`
	GovernanceScore  string `csv:"governance_score"`
	TotalLevel       string `csv:"total_level"`
	EnvironmentLevel string `csv:"environment_level"`
	SocialLevel      string `csv:"social_level"`
	GovernanceLevel  string `csv:"governance_level"`

	LastProcessedDate string `csv:"last_processed_date"`
	// Older exports used this header instead.
	LastProcessingDate string `csv:"last_processing_date"`
}

// Rejection explains why a CSV line was not turned into a record. Line counts
// data rows from 1, not including the header.
type Rejection struct {
	Line   int
	Reason string
}

type RecordWriter interface {
	Put(ctx context.Context, record *models.ESGRecord) (bool, error)
}

type Summary struct {
	Read     int
	Inserted int
	Skipped  int
}

// Rating maps a total ESG risk score to a letter grade. Lower is better.
func Rating(totalScore float64) string {
	switch {
	case totalScore < 10:
		return "A"
	case totalScore < 20:
		return "B"
	case totalScore < 30:
		return "C"
	case totalScore < 40:
		return "D"
	default:
		return "E"
	}
}

// ReadCSV parses records from a CSV with a header row and cleans them:
//   - rows missing any of the four scores are rejected
//   - timestamps are normalized to a date; blank or unreadable ones become
//     the date of now
//   - rows dated before Cutoff are rejected
//   - the rating is derived from the total score, ignoring any rating column
func ReadCSV(r io.Reader, now time.Time) ([]models.ESGRecord, []Rejection, error) {
	var rows []row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, nil, fmt.Errorf("parsing csv: %w", err)
	}

	now = now.UTC()
	records := make([]models.ESGRecord, 0, len(rows))
	var rejected []Rejection

	for i, line := range rows {
		record, err := line.record(now)
		if err != nil {
			rejected = append(rejected, Rejection{Line: i + 1, Reason: err.Error()})
			continue
		}
		records = append(records, record)
	}

	return records, rejected, nil
}

func (r row) record(now time.Time) (models.ESGRecord, error) {
	ticker := strings.ToLower(strings.TrimSpace(r.Ticker))
	if ticker == "" {
		return models.ESGRecord{}, fmt.Errorf("missing ticker")
	}

	scores := make([]float64, 4)
	for i, field := range []struct {
		name  string
		value string
	}{
		{models.ColumnTotalScore, r.TotalScore},
		{models.ColumnEnvironmentScore, r.EnvironmentScore},
		{models.ColumnSocialScore, r.SocialScore},
		{models.ColumnGovernanceScore, r.GovernanceScore},
	} {
		v, err := parseScore(field.value)
		if err != nil {
			return models.ESGRecord{}, fmt.Errorf("%s: %w", field.name, err)
		}
		scores[i] = v
	}

	observed := now
	if ts := strings.TrimSpace(r.Timestamp); ts != "" {
		if parsed := esg.ParseTimestamp(ts); !parsed.IsZero() {
			observed = parsed.UTC()
		}
	}
	day := observed.Format(dateLayout)
	if day < Cutoff.Format(dateLayout) {
		return models.ESGRecord{}, fmt.Errorf("dated %s, before %s", day, Cutoff.Format(dateLayout))
	}

	processed := strings.TrimSpace(r.LastProcessedDate)
	if processed == "" {
		processed = strings.TrimSpace(r.LastProcessingDate)
	}
	if processed == "" {
		processed = now.Format(time.RFC3339)
	}

	return models.ESGRecord{
		Ticker:            ticker,
		Timestamp:         day,
		CompanyName:       strings.TrimSpace(r.CompanyName),
		TotalScore:        int(scores[0]),
		EnvironmentScore:  int(scores[1]),
		SocialScore:       int(scores[2]),
		GovernanceScore:   int(scores[3]),
		Rating:            Rating(scores[0]),
		TotalLevel:        strings.TrimSpace(r.TotalLevel),
		EnvironmentLevel:  strings.TrimSpace(r.EnvironmentLevel),
		SocialLevel:       strings.TrimSpace(r.SocialLevel),
		GovernanceLevel:   strings.TrimSpace(r.GovernanceLevel),
		LastProcessedDate: processed,
	}, nil
}

func parseScore(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing score")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid score %q", s)
	}
	return v, nil
}

// Import writes records one by one. Rows without a ticker and rows that
// already exist are skipped.
func Import(ctx context.Context, store RecordWriter, records []models.ESGRecord, logger *zap.SugaredLogger) (Summary, error) {
	summary := Summary{Read: len(records)}

	for i := range records {
		record := &records[i]
		if record.Ticker == "" {
			logger.Warnw("Skipping row without ticker", "row", i+1)
			summary.Skipped++
			continue
		}

		inserted, err := store.Put(ctx, record)
		if err != nil {
			return summary, fmt.Errorf("writing %s at %s: %w", record.Ticker, record.Timestamp, err)
		}
		if !inserted {
			logger.Debugw("Record already present", "ticker", record.Ticker, "timestamp", record.Timestamp)
			summary.Skipped++
			continue
		}
		summary.Inserted++
	}

	return summary, nil
}
