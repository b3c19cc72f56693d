package models

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SavedTicker is a ticker a user chose to follow. A user holds each ticker at
// most once; saving it again refreshes CreatedAt.
type SavedTicker struct {
	UserID    string    `gorm:"primaryKey" json:"-"`
	Ticker    string    `gorm:"primaryKey;index" json:"ticker"`
	CreatedAt time.Time `json:"created_at"`
}

func (SavedTicker) TableName() string {
	return "sierra_saved_tickers"
}

type SavedTickerStore struct {
	DB *gorm.DB
}

func NewSavedTickerStore(db *gorm.DB) *SavedTickerStore {
	return &SavedTickerStore{DB: db}
}

func (s *SavedTickerStore) Upsert(ctx context.Context, saved *SavedTicker) error {
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "ticker"}},
		DoUpdates: clause.AssignmentColumns([]string{"created_at"}),
	}).Create(saved).Error
}

func (s *SavedTickerStore) ListByUser(ctx context.Context, userID string) ([]SavedTicker, error) {
	var saved []SavedTicker
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("ticker").
		Find(&saved).Error
	if err != nil {
		return nil, err
	}

	return saved, nil
}
