// Package accounts registers and signs in users and keeps the list of tickers
// each user saved.
package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sierra/internal/apierr"
	"sierra/models"
)

type UserStore interface {
	// CreateIfAbsent inserts user unless the email is taken, reporting
	// whether the row was written. It must be a single atomic operation.
	CreateIfAbsent(ctx context.Context, user *models.User) (bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	TouchLastLogin(ctx context.Context, email string, at time.Time) error
}

type SavedTickerStore interface {
	Upsert(ctx context.Context, saved *models.SavedTicker) error
	ListByUser(ctx context.Context, userID string) ([]models.SavedTicker, error)
}

// PublicUser is the part of a user returned to clients.
type PublicUser struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	UserID string `json:"user_id"`
}

type Session struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

type SavedTickerReceipt struct {
	Message   string    `json:"message"`
	Ticker    string    `json:"ticker"`
	Timestamp time.Time `json:"timestamp"`
}

type SavedTickerView struct {
	Ticker    string    `json:"ticker"`
	CreatedAt time.Time `json:"created_at"`
}

type TickerList struct {
	Message string            `json:"message"`
	Count   int               `json:"count"`
	Tickers []SavedTickerView `json:"tickers"`
}

type Service struct {
	users     UserStore
	saved     SavedTickerStore
	tokens    *Tokens
	passwords Passwords
	logger    *zap.SugaredLogger

	now   func() time.Time
	newID func() string
}

func NewService(users UserStore, saved SavedTickerStore, tokens *Tokens, passwords Passwords, logger *zap.SugaredLogger) *Service {
	return &Service{
		users:     users,
		saved:     saved,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

func (s *Service) session(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token: token,
		User: PublicUser{
			Email:  user.Email,
			Name:   user.Name,
			UserID: user.UserID,
		},
	}, nil
}

// Register creates an ACTIVE account and returns a session for it. An email
// that is already registered is a conflict.
func (s *Service) Register(ctx context.Context, email, password, name string) (*Session, error) {
	if email == "" || password == "" || name == "" {
		return nil, apierr.Validation("Email, password, and name are required")
	}
	if len(password) > MaxPasswordBytes {
		return nil, apierr.Validation("Password must be at most 72 bytes")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		s.logger.Errorw("Error hashing password", "email", email, "error", err)
		return nil, apierr.Store("Error registering user", err)
	}

	now := s.now()
	user := &models.User{
		Email:         email,
		UserID:        s.newID(),
		PasswordHash:  hash,
		Name:          name,
		AccountStatus: models.AccountActive,
		CreatedAt:     now,
		LastLogin:     now,
	}

	created, err := s.users.CreateIfAbsent(ctx, user)
	if err != nil {
		s.logger.Errorw("Error creating user", "email", email, "error", err)
		return nil, apierr.Store("Error registering user", err)
	}
	if !created {
		return nil, apierr.Conflict("User already exists")
	}

	session, err := s.session(user)
	if err != nil {
		s.logger.Errorw("Error issuing token", "email", email, "error", err)
		return nil, apierr.Store("Error registering user", err)
	}

	return session, nil
}

// Login checks the password, records the login time and returns a fresh
// session. Unknown emails and wrong passwords fail the same way.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, apierr.Validation("Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Errorw("Error getting user", "email", email, "error", err)
		return nil, apierr.Store("Error logging in", err)
	}
	if user == nil {
		return nil, apierr.Auth("Invalid credentials")
	}

	ok, err := s.passwords.Matches(user.PasswordHash, password)
	if err != nil {
		s.logger.Warnw("Stored password hash is unreadable", "email", email, "error", err)
	}
	if !ok {
		return nil, apierr.Auth("Invalid credentials")
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, email, now); err != nil {
		s.logger.Errorw("Error updating last login", "email", email, "error", err)
		return nil, apierr.Store("Error logging in", err)
	}
	user.LastLogin = now

	session, err := s.session(user)
	if err != nil {
		s.logger.Errorw("Error issuing token", "email", email, "error", err)
		return nil, apierr.Store("Error logging in", err)
	}

	return session, nil
}

// Authenticate verifies a bearer token.
func (s *Service) Authenticate(token string) (*Claims, error) {
	if token == "" {
		return nil, apierr.Auth("Authorization token required")
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apierr.AuthCause("Token expired", err)
		}
		return nil, apierr.AuthCause("Invalid token", err)
	}

	return claims, nil
}

// SaveTicker stores ticker for the token's user. Saving a ticker twice only
// refreshes its timestamp.
func (s *Service) SaveTicker(ctx context.Context, token, ticker string) (*SavedTickerReceipt, error) {
	claims, err := s.Authenticate(token)
	if err != nil {
		return nil, err
	}

	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return nil, apierr.Validation("Ticker is required")
	}

	saved := &models.SavedTicker{
		UserID:    claims.UserID,
		Ticker:    ticker,
		CreatedAt: s.now(),
	}
	if err := s.saved.Upsert(ctx, saved); err != nil {
		s.logger.Errorw("Error saving ticker", "user_id", claims.UserID, "ticker", ticker, "error", err)
		return nil, apierr.Store("Error saving ticker", err)
	}

	return &SavedTickerReceipt{
		Message:   "Ticker saved successfully",
		Ticker:    ticker,
		Timestamp: saved.CreatedAt,
	}, nil
}

// RetrieveTickers lists the token's user's saved tickers. No saved tickers is
// an empty list, not an error.
func (s *Service) RetrieveTickers(ctx context.Context, token string) (*TickerList, error) {
	claims, err := s.Authenticate(token)
	if err != nil {
		return nil, err
	}

	saved, err := s.saved.ListByUser(ctx, claims.UserID)
	if err != nil {
		s.logger.Errorw("Error retrieving tickers", "user_id", claims.UserID, "error", err)
		return nil, apierr.Store("Error retrieving tickers", err)
	}

	views := make([]SavedTickerView, 0, len(saved))
	for _, st := range saved {
		views = append(views, SavedTickerView{Ticker: st.Ticker, CreatedAt: st.CreatedAt})
	}

	message := "Tickers retrieved successfully"
	if len(views) == 0 {
		message = "No saved tickers found"
	}

	return &TickerList{Message: message, Count: len(views), Tickers: views}, nil
}
