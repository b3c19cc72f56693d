package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ESGRecord is one observation of a company's ESG scores. Records are
// append-only: a new observation for the same ticker gets a new timestamp and
// the old rows stay in place.
type ESGRecord struct {
	// Lowercase ticker symbol.
	Ticker string `gorm:"primaryKey;size:16" json:"ticker" csv:"ticker"`
	// ISO-8601 time of the observation. Different ingestion runs have written
	// dates, second precision and millisecond precision here.
	Timestamp string `gorm:"primaryKey;index" json:"timestamp" csv:"timestamp"`
	// Display name. Not unique and not present on every record.
	CompanyName string `gorm:"index" json:"company_name,omitempty" csv:"company_name"`

	TotalScore       int `gorm:"index" json:"total_score" csv:"total_score"`
	EnvironmentScore int `json:"environment_score" csv:"environment_score"`
	SocialScore      int `json:"social_score" csv:"social_score"`
	GovernanceScore  int `json:"governance_score" csv:"governance_score"`

	Rating           string `gorm:"index;size:1" json:"rating" csv:"rating"`
	TotalLevel       string `json:"total_level,omitempty" csv:"total_level"`
	EnvironmentLevel string `json:"environment_level,omitempty" csv:"environment_level"`
	SocialLevel      string `json:"social_level,omitempty" csv:"social_level"`
	GovernanceLevel  string `json:"governance_level,omitempty" csv:"governance_level"`

	LastProcessedDate string `json:"last_processed_date,omitempty" csv:"last_processed_date"`
}

func (ESGRecord) TableName() string {
	return "esg_processed"
}

// Score returns the numeric metric stored under the given column name.
func (r ESGRecord) Score(column string) (int, bool) {
	switch column {
	case ColumnTotalScore:
		return r.TotalScore, true
	case ColumnEnvironmentScore:
		return r.EnvironmentScore, true
	case ColumnSocialScore:
		return r.SocialScore, true
	case ColumnGovernanceScore:
		return r.GovernanceScore, true
	}
	return 0, false
}

// Grade returns the categorical value stored under the given column name.
func (r ESGRecord) Grade(column string) (string, bool) {
	switch column {
	case ColumnRating:
		return r.Rating, true
	case ColumnTotalLevel:
		return r.TotalLevel, true
	case ColumnEnvironmentLevel:
		return r.EnvironmentLevel, true
	case ColumnSocialLevel:
		return r.SocialLevel, true
	case ColumnGovernanceLevel:
		return r.GovernanceLevel, true
	case ColumnCompanyName:
		return r.CompanyName, true
	}
	return "", false
}

// Cursor marks the last row of a scanned page. Scanning resumes strictly
// after it in (ticker, timestamp) order.
type Cursor struct {
	Ticker    string
	Timestamp string
}

// ESGRecordStore reads and appends ESG records with gorm.
type ESGRecordStore struct {
	DB *gorm.DB
}

func NewESGRecordStore(db *gorm.DB) *ESGRecordStore {
	return &ESGRecordStore{DB: db}
}

// QueryByTicker returns every record of a ticker, newest first.
func (s *ESGRecordStore) QueryByTicker(ctx context.Context, ticker string) ([]ESGRecord, error) {
	var records []ESGRecord
	err := s.DB.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

// ScanPage returns up to limit records matching filter that sort after
// cursor. The returned cursor is nil once the table is exhausted.
func (s *ESGRecordStore) ScanPage(ctx context.Context, filter Filter, cursor *Cursor, limit int) ([]ESGRecord, *Cursor, error) {
	query, err := s.scanQuery(ctx, filter, cursor, limit)
	if err != nil {
		return nil, nil, err
	}

	var records []ESGRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, nil, err
	}

	if len(records) < limit {
		return records, nil, nil
	}

	last := records[len(records)-1]
	return records, &Cursor{Ticker: last.Ticker, Timestamp: last.Timestamp}, nil
}

// scanQuery pages in primary key order so that the cursor is a plain row
// comparison against the last key seen.
func (s *ESGRecordStore) scanQuery(ctx context.Context, filter Filter, cursor *Cursor, limit int) (*gorm.DB, error) {
	query, err := filter.apply(s.DB.WithContext(ctx).Model(&ESGRecord{}))
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		query = query.Where(`(ticker, "timestamp") > (?, ?)`, cursor.Ticker, cursor.Timestamp)
	}

	return query.
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "ticker"}},
			{Column: clause.Column{Name: "timestamp"}},
		}}).
		Limit(limit), nil
}

// Put appends a record. An existing row with the same ticker and timestamp
// is left untouched.
func (s *ESGRecordStore) Put(ctx context.Context, record *ESGRecord) (bool, error) {
	if record.Ticker == "" || record.Timestamp == "" {
		return false, errors.New("record needs a ticker and a timestamp")
	}

	result := s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(record)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
