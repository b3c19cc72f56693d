package models

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountStatus string

const (
	AccountActive AccountStatus = "ACTIVE"
)

type User struct {
	// Email is stored exactly as registered and compared case-sensitively.
	Email         string        `gorm:"primaryKey" json:"email"`
	UserID        string        `gorm:"uniqueIndex;not null" json:"user_id"`
	PasswordHash  string        `gorm:"not null" json:"-"`
	Name          string        `gorm:"not null" json:"name"`
	AccountStatus AccountStatus `gorm:"index;not null;default:ACTIVE" json:"account_status"`
	CreatedAt     time.Time     `json:"created_at"`
	LastLogin     time.Time     `json:"last_login"`
}

func (User) TableName() string {
	return "sierra_users"
}

type UserStore struct {
	DB *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{DB: db}
}

// CreateIfAbsent inserts the user unless a row with the same email (or
// user_id) already exists. The check and the insert are one statement, so
// concurrent registrations cannot both succeed.
func (s *UserStore) CreateIfAbsent(ctx context.Context, user *User) (bool, error) {
	result := s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(user)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// GetByEmail returns nil without an error when no user has that email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (s *UserStore) TouchLastLogin(ctx context.Context, email string, at time.Time) error {
	return s.DB.WithContext(ctx).Model(&User{}).Where("email = ?", email).Update("last_login", at).Error
}
