// Package questionnaire records users' answers to the investor
// questionnaire and turns a completed questionnaire into ticker
// recommendations.
package questionnaire

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"sierra/internal/accounts"
	"sierra/internal/apierr"
	"sierra/internal/esg"
	"sierra/internal/tickers"
	"sierra/models"
)

// RecommendationLimit caps the tickers suggested for a completed
// questionnaire.
const RecommendationLimit = 5

type AnswerStore interface {
	// SaveAnswer stores the answer, replacing any earlier answer to the
	// same question.
	SaveAnswer(ctx context.Context, answer *models.QuestionnaireAnswer) error
	ListAnswers(ctx context.Context, userID string) ([]models.QuestionnaireAnswer, error)
}

type Authenticator interface {
	Authenticate(token string) (*accounts.Claims, error)
}

type Recommender interface {
	Recommend(ctx context.Context, column string, include func(ticker string) bool, limit int) ([]esg.ScoreMatch, error)
}

type Submission struct {
	SubmittedAnswers map[string]string `json:"submittedAnswers"`
}

type Completion struct {
	SubmittedAnswers   map[string]string `json:"submittedAnswers"`
	ScoreType          string            `json:"scoreType"`
	Sector             tickers.Sector    `json:"sector"`
	RecommendedTickers []string          `json:"recommendedTickers"`
}

type Service struct {
	auth        Authenticator
	answers     AnswerStore
	recommender Recommender
	sectors     tickers.Sectors
	logger      *zap.SugaredLogger

	now func() time.Time
}

func NewService(auth Authenticator, answers AnswerStore, recommender Recommender, sectors tickers.Sectors, logger *zap.SugaredLogger) *Service {
	return &Service{
		auth:        auth,
		answers:     answers,
		recommender: recommender,
		sectors:     sectors,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) submitted(ctx context.Context, userID string) (map[string]string, error) {
	answers, err := s.answers.ListAnswers(ctx, userID)
	if err != nil {
		s.logger.Errorw("Error listing answers", "user_id", userID, "error", err)
		return nil, apierr.Store("Error retrieving answers", err)
	}

	out := make(map[string]string, len(answers))
	for _, a := range answers {
		out[a.QuestionID] = a.AnswerID
	}
	return out, nil
}

// SubmitAnswer records the user's answer to one question and returns every
// answer they have given so far.
func (s *Service) SubmitAnswer(ctx context.Context, token, questionID, answerID string) (*Submission, error) {
	claims, err := s.auth.Authenticate(token)
	if err != nil {
		return nil, err
	}

	question, ok := findQuestion(strings.TrimSpace(questionID))
	if !ok {
		return nil, apierr.NotFound("Question not found")
	}

	answerID = strings.TrimSpace(answerID)
	if answerID == "" {
		return nil, apierr.Validation("Answer is required")
	}
	if !question.hasAnswer(answerID) {
		return nil, apierr.Validation("Invalid answer for question " + question.ID)
	}

	answer := &models.QuestionnaireAnswer{
		UserID:     claims.UserID,
		QuestionID: question.ID,
		AnswerID:   answerID,
		UpdatedAt:  s.now(),
	}
	if err := s.answers.SaveAnswer(ctx, answer); err != nil {
		s.logger.Errorw("Error saving answer", "user_id", claims.UserID, "question_id", question.ID, "error", err)
		return nil, apierr.Store("Error saving answer", err)
	}

	submitted, err := s.submitted(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return &Submission{SubmittedAnswers: submitted}, nil
}

// Complete recommends tickers once every question has an answer: the
// companies of the chosen sector with the lowest latest risk score on the
// chosen pillar. When no company of that sector has data the ranking falls
// back to every company.
func (s *Service) Complete(ctx context.Context, token string) (*Completion, error) {
	claims, err := s.auth.Authenticate(token)
	if err != nil {
		return nil, err
	}

	submitted, err := s.submitted(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	for _, q := range questions {
		if _, ok := submitted[q.ID]; !ok {
			return nil, apierr.Validation("Questionnaire is not complete")
		}
	}

	column := pillarColumns[submitted[questionPillar]]
	sector := sectorAnswers[submitted[questionSector]]

	matches, err := s.recommender.Recommend(ctx, column, s.sectors.Members(sector), RecommendationLimit)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		s.logger.Debugw("No ESG data in sector, ranking every company", "sector", sector)
		matches, err = s.recommender.Recommend(ctx, column, nil, RecommendationLimit)
		if err != nil {
			return nil, err
		}
	}

	recommended := make([]string, 0, len(matches))
	for _, m := range matches {
		recommended = append(recommended, m.Ticker)
	}

	return &Completion{
		SubmittedAnswers:   submitted,
		ScoreType:          column,
		Sector:             sector,
		RecommendedTickers: recommended,
	}, nil
}
