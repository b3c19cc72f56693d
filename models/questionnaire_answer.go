package models

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuestionnaireAnswer is a user's current answer to one investor
// questionnaire question. Answering again replaces it.
type QuestionnaireAnswer struct {
	UserID     string    `gorm:"primaryKey" json:"-"`
	QuestionID string    `gorm:"primaryKey;size:8" json:"question_id"`
	AnswerID   string    `gorm:"not null;size:8" json:"answer_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (QuestionnaireAnswer) TableName() string {
	return "sierra_questionnaire_answers"
}

type QuestionnaireAnswerStore struct {
	DB *gorm.DB
}

func NewQuestionnaireAnswerStore(db *gorm.DB) *QuestionnaireAnswerStore {
	return &QuestionnaireAnswerStore{DB: db}
}

func (s *QuestionnaireAnswerStore) SaveAnswer(ctx context.Context, answer *QuestionnaireAnswer) error {
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"answer_id", "updated_at"}),
	}).Create(answer).Error
}

func (s *QuestionnaireAnswerStore) ListAnswers(ctx context.Context, userID string) ([]QuestionnaireAnswer, error) {
	var answers []QuestionnaireAnswer
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("question_id").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}

	return answers, nil
}
