package esg

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"sierra/internal/apierr"
	"sierra/models"
)

var (
	ratings = []string{"A", "B", "C", "D", "E"}
	levels  = []string{"High", "Medium", "Low"}

	// Level categories accepted in /search/level/{category}/{value}, mapped to
	// the column holding the High/Medium/Low grade.
	levelCategories = map[string]string{
		"total_level":       models.ColumnTotalLevel,
		"environment_level": models.ColumnEnvironmentLevel,
		"social_level":      models.ColumnSocialLevel,
		"governance_level":  models.ColumnGovernanceLevel,
	}

	// Score types accepted in score searches. environment_score is the column
	// name and is accepted next to the documented environmental_score.
	scoreTypes = map[string]string{
		"total_score":         models.ColumnTotalScore,
		"environmental_score": models.ColumnEnvironmentScore,
		"environment_score":   models.ColumnEnvironmentScore,
		"social_score":        models.ColumnSocialScore,
		"governance_score":    models.ColumnGovernanceScore,
	}
)

const (
	msgInvalidLevelCategory = "Invalid level category. Choose from: total_level, environment_level, social_level, governance_level."
	msgInvalidTotalLevel    = "Invalid total level. Choose from: A to E."
	msgInvalidScoreType     = "Invalid score type. Choose from: total_score, environmental_score, social_score, governance_score."
	msgInvalidScoreValue    = "Invalid score value, must be greater than or equal to 0."
	msgInvalidScoreRange    = "Invalid score range, low must be less than or equal to high."
)

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// LevelQuery selects companies by a letter rating or a High/Medium/Low grade.
type LevelQuery struct {
	Category string
	Column   string
	Value    string
}

// ParseLevelQuery validates a level search. The total_level category takes
// either a letter rating (A to E, matched against the rating column) or a
// High/Medium/Low grade; the other categories take grades only.
func ParseLevelQuery(category, value string) (LevelQuery, error) {
	column, ok := levelCategories[category]
	if !ok {
		return LevelQuery{}, apierr.Validation(msgInvalidLevelCategory)
	}

	if category == "total_level" {
		if contains(ratings, value) {
			return LevelQuery{Category: category, Column: models.ColumnRating, Value: value}, nil
		}
		if contains(levels, value) {
			return LevelQuery{Category: category, Column: column, Value: value}, nil
		}
		return LevelQuery{}, apierr.Validation(msgInvalidTotalLevel)
	}

	if !contains(levels, value) {
		name := strings.TrimSuffix(category, "_level")
		return LevelQuery{}, apierr.Validation(fmt.Sprintf("Invalid %s level. Choose from: %s.", name, strings.Join(levels, ", ")))
	}

	return LevelQuery{Category: category, Column: column, Value: value}, nil
}

func (q LevelQuery) IsRating() bool {
	return q.Column == models.ColumnRating
}

func (q LevelQuery) Filter() models.Filter {
	return models.Filter{Column: q.Column, Op: models.OpEqual, Value: q.Value}
}

func (q LevelQuery) notFoundMessage() string {
	return fmt.Sprintf("No companies found for %s = %s", q.Column, q.Value)
}

type ScoreOp int

const (
	ScoreAtLeast ScoreOp = iota
	ScoreAtMost
	ScoreBetween
)

// ScoreQuery compares one score column against inclusive bounds.
type ScoreQuery struct {
	// ScoreType is the score name as requested.
	ScoreType string
	Column    string
	Op        ScoreOp
	Low       float64
	High      float64
}

// ParseScoreType maps a requested score type to its column.
func ParseScoreType(scoreType string) (string, error) {
	column, ok := scoreTypes[scoreType]
	if !ok {
		return "", apierr.Validation(msgInvalidScoreType)
	}
	return column, nil
}

// ParseBound reads a non-negative score bound.
func ParseBound(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, apierr.Validation(msgInvalidScoreValue)
	}
	return v, nil
}

func GreaterQuery(scoreType, score string) (ScoreQuery, error) {
	column, err := ParseScoreType(scoreType)
	if err != nil {
		return ScoreQuery{}, err
	}

	low, err := ParseBound(score)
	if err != nil {
		return ScoreQuery{}, err
	}

	return ScoreQuery{ScoreType: scoreType, Column: column, Op: ScoreAtLeast, Low: low}, nil
}

func LesserQuery(scoreType, score string) (ScoreQuery, error) {
	column, err := ParseScoreType(scoreType)
	if err != nil {
		return ScoreQuery{}, err
	}

	high, err := ParseBound(score)
	if err != nil {
		return ScoreQuery{}, err
	}

	return ScoreQuery{ScoreType: scoreType, Column: column, Op: ScoreAtMost, High: high}, nil
}

// RangeQuery validates a between search. low must not exceed high.
func RangeQuery(scoreType, low, high string) (ScoreQuery, error) {
	column, err := ParseScoreType(scoreType)
	if err != nil {
		return ScoreQuery{}, err
	}

	lo, err := ParseBound(low)
	if err != nil {
		return ScoreQuery{}, err
	}

	hi, err := ParseBound(high)
	if err != nil {
		return ScoreQuery{}, err
	}

	if lo > hi {
		return ScoreQuery{}, apierr.Validation(msgInvalidScoreRange)
	}

	return ScoreQuery{ScoreType: scoreType, Column: column, Op: ScoreBetween, Low: lo, High: hi}, nil
}

func (q ScoreQuery) Filter() models.Filter {
	f := models.Filter{Column: q.Column, Low: q.Low, High: q.High}
	switch q.Op {
	case ScoreAtLeast:
		f.Op = models.OpGTE
	case ScoreAtMost:
		f.Op = models.OpLTE
	default:
		f.Op = models.OpBetween
	}
	return f
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (q ScoreQuery) notFoundMessage() string {
	switch q.Op {
	case ScoreAtLeast:
		return fmt.Sprintf("No companies found with %s greater than %s.", q.ScoreType, formatBound(q.Low))
	case ScoreAtMost:
		return fmt.Sprintf("No companies found with %s less than %s.", q.ScoreType, formatBound(q.High))
	default:
		return fmt.Sprintf("No companies found with %s between %s and %s.", q.ScoreType, formatBound(q.Low), formatBound(q.High))
	}
}
