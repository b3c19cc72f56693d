package questionnaire

import (
	"sierra/internal/tickers"
	"sierra/models"
)

type Answer struct {
	ID   string `json:"aId"`
	Text string `json:"text"`
}

type Question struct {
	ID       string   `json:"qId"`
	Question string   `json:"question"`
	Answers  []Answer `json:"answers"`
}

const (
	questionGoal   = "1"
	questionPillar = "2"
	questionSector = "3"
)

var questions = []Question{
	{
		ID:       questionGoal,
		Question: "What is your primary investment goal when using SIERRA-Impact?",
		Answers: []Answer{
			{ID: "1", Text: "Risk and Sustainability Assessment"},
			{ID: "2", Text: "Evaluating growth between ESG and the financial market"},
			{ID: "3", Text: "Viewing news on relevant ESG data"},
		},
	},
	{
		ID:       questionPillar,
		Question: "Which metric of ESG data are you most concerned about?",
		Answers: []Answer{
			{ID: "1", Text: "Environmental"},
			{ID: "2", Text: "Social"},
			{ID: "3", Text: "Governance"},
			{ID: "4", Text: "All of the above"},
		},
	},
	{
		ID:       questionSector,
		Question: "What type of companies are you most interested in?",
		Answers: []Answer{
			{ID: "1", Text: "Technology"},
			{ID: "2", Text: "News"},
			{ID: "3", Text: "Finance"},
			{ID: "4", Text: "Food and Hospitality"},
		},
	},
}

// Score column ranked for each answer to the pillar question.
var pillarColumns = map[string]string{
	"1": models.ColumnEnvironmentScore,
	"2": models.ColumnSocialScore,
	"3": models.ColumnGovernanceScore,
	"4": models.ColumnTotalScore,
}

var sectorAnswers = map[string]tickers.Sector{
	"1": tickers.SectorTechnology,
	"2": tickers.SectorNews,
	"3": tickers.SectorFinance,
	"4": tickers.SectorFood,
}

// Questions returns a copy of the questionnaire in display order.
func Questions() []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		q.Answers = append([]Answer(nil), q.Answers...)
		out[i] = q
	}
	return out
}

func findQuestion(id string) (Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

func (q Question) hasAnswer(id string) bool {
	for _, a := range q.Answers {
		if a.ID == id {
			return true
		}
	}
	return false
}
