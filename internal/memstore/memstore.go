// Package memstore keeps ESG records, users and saved tickers in process
// memory. It backs STORE_DRIVER=memory for local runs and the HTTP tests.
package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"sierra/models"
)

var ErrIncompleteRecord = errors.New("record needs a ticker and a timestamp")

type Store struct {
	mu      sync.RWMutex
	records map[models.Cursor]models.ESGRecord
	users   map[string]models.User
	saved   map[string]map[string]models.SavedTicker
	answers map[string]map[string]models.QuestionnaireAnswer
}

func New() *Store {
	return &Store{
		records: make(map[models.Cursor]models.ESGRecord),
		users:   make(map[string]models.User),
		saved:   make(map[string]map[string]models.SavedTicker),
		answers: make(map[string]map[string]models.QuestionnaireAnswer),
	}
}

// Put adds a record unless one with the same ticker and timestamp exists.
func (s *Store) Put(_ context.Context, record *models.ESGRecord) (bool, error) {
	if record.Ticker == "" || record.Timestamp == "" {
		return false, ErrIncompleteRecord
	}

	key := models.Cursor{Ticker: record.Ticker, Timestamp: record.Timestamp}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[key]; ok {
		return false, nil
	}
	s.records[key] = *record
	return true, nil
}

func (s *Store) QueryByTicker(_ context.Context, ticker string) ([]models.ESGRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.ESGRecord
	for key, r := range s.records {
		if key.Ticker == ticker {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out, nil
}

// ScanPage walks records in (ticker, timestamp) order, the same order the
// postgres store pages in.
func (s *Store) ScanPage(_ context.Context, filter models.Filter, cursor *models.Cursor, limit int) ([]models.ESGRecord, *models.Cursor, error) {
	s.mu.RLock()
	keys := make([]models.Cursor, 0, len(s.records))
	for key := range s.records {
		if cursor == nil || after(key, *cursor) {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return after(keys[j], keys[i])
	})

	scanned := keys
	if len(scanned) > limit {
		scanned = keys[:limit]
	}

	var page []models.ESGRecord
	for _, key := range scanned {
		if r := s.records[key]; filter.Match(r) {
			page = append(page, r)
		}
	}
	s.mu.RUnlock()

	// A page counts scanned rows rather than matches, so a page may come
	// back short or empty while more rows remain.
	if len(keys) <= limit {
		return page, nil, nil
	}
	last := scanned[len(scanned)-1]
	return page, &last, nil
}

func after(a, b models.Cursor) bool {
	if a.Ticker != b.Ticker {
		return a.Ticker > b.Ticker
	}
	return a.Timestamp > b.Timestamp
}

func (s *Store) CreateIfAbsent(_ context.Context, user *models.User) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Email]; ok {
		return false, nil
	}
	if user.AccountStatus == "" {
		user.AccountStatus = models.AccountActive
	}
	s.users[user.Email] = *user
	return true, nil
}

func (s *Store) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[email]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *Store) TouchLastLogin(_ context.Context, email string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return nil
	}
	user.LastLogin = at
	s.users[email] = user
	return nil
}

func (s *Store) Upsert(_ context.Context, saved *models.SavedTicker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byTicker, ok := s.saved[saved.UserID]
	if !ok {
		byTicker = make(map[string]models.SavedTicker)
		s.saved[saved.UserID] = byTicker
	}
	byTicker[saved.Ticker] = *saved
	return nil
}

func (s *Store) ListByUser(_ context.Context, userID string) ([]models.SavedTicker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.SavedTicker, 0, len(s.saved[userID]))
	for _, saved := range s.saved[userID] {
		out = append(out, saved)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].Ticker, out[j].Ticker) < 0
	})
	return out, nil
}

func (s *Store) SaveAnswer(_ context.Context, answer *models.QuestionnaireAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byQuestion, ok := s.answers[answer.UserID]
	if !ok {
		byQuestion = make(map[string]models.QuestionnaireAnswer)
		s.answers[answer.UserID] = byQuestion
	}
	byQuestion[answer.QuestionID] = *answer
	return nil
}

func (s *Store) ListAnswers(_ context.Context, userID string) ([]models.QuestionnaireAnswer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.QuestionnaireAnswer, 0, len(s.answers[userID]))
	for _, answer := range s.answers[userID] {
		out = append(out, answer)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QuestionID < out[j].QuestionID
	})
	return out, nil
}
