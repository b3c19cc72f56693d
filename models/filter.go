package models

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Columns of the ESG table that filters may reference.
const (
	ColumnTotalScore       = "total_score"
	ColumnEnvironmentScore = "environment_score"
	ColumnSocialScore      = "social_score"
	ColumnGovernanceScore  = "governance_score"

	ColumnRating           = "rating"
	ColumnTotalLevel       = "total_level"
	ColumnEnvironmentLevel = "environment_level"
	ColumnSocialLevel      = "social_level"
	ColumnGovernanceLevel  = "governance_level"
	ColumnCompanyName      = "company_name"
)

type FilterOp string

const (
	OpEqual    FilterOp = "eq"
	OpGTE      FilterOp = "gte"
	OpLTE      FilterOp = "lte"
	OpBetween  FilterOp = "between"
	OpContains FilterOp = "contains"
)

// Filter is a single predicate over an ESG record. The zero Filter matches
// everything.
//
// Equal and Contains compare Value against a categorical column, Contains
// case-insensitively. GTE, LTE and Between compare a score column against
// Low and High, bounds included.
type Filter struct {
	Column string
	Op     FilterOp
	Value  string
	Low    float64
	High   float64
}

func (f Filter) IsZero() bool {
	return f.Column == "" && f.Op == ""
}

// Match evaluates the filter against a record in memory.
func (f Filter) Match(r ESGRecord) bool {
	if f.IsZero() {
		return true
	}

	switch f.Op {
	case OpEqual:
		v, ok := r.Grade(f.Column)
		return ok && v == f.Value
	case OpContains:
		v, ok := r.Grade(f.Column)
		return ok && strings.Contains(strings.ToLower(v), strings.ToLower(f.Value))
	case OpGTE, OpLTE, OpBetween:
		score, ok := r.Score(f.Column)
		if !ok {
			return false
		}
		s := float64(score)
		switch f.Op {
		case OpGTE:
			return s >= f.Low
		case OpLTE:
			return s <= f.High
		default:
			return s >= f.Low && s <= f.High
		}
	}

	return false
}

var (
	scoreColumns = map[string]bool{
		ColumnTotalScore:       true,
		ColumnEnvironmentScore: true,
		ColumnSocialScore:      true,
		ColumnGovernanceScore:  true,
	}
	gradeColumns = map[string]bool{
		ColumnRating:           true,
		ColumnTotalLevel:       true,
		ColumnEnvironmentLevel: true,
		ColumnSocialLevel:      true,
		ColumnGovernanceLevel:  true,
		ColumnCompanyName:      true,
	}
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// apply narrows a gorm query with the filter. Column names are checked
// against the known columns before they reach the SQL text.
func (f Filter) apply(db *gorm.DB) (*gorm.DB, error) {
	if f.IsZero() {
		return db, nil
	}

	switch f.Op {
	case OpEqual, OpContains:
		if !gradeColumns[f.Column] {
			return nil, fmt.Errorf("unknown categorical column %q", f.Column)
		}
		if f.Op == OpEqual {
			return db.Where(f.Column+" = ?", f.Value), nil
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(f.Value)) + "%"
		return db.Where("LOWER("+f.Column+") LIKE ?", pattern), nil
	case OpGTE, OpLTE, OpBetween:
		if !scoreColumns[f.Column] {
			return nil, fmt.Errorf("unknown score column %q", f.Column)
		}
		switch f.Op {
		case OpGTE:
			return db.Where(f.Column+" >= ?", f.Low), nil
		case OpLTE:
			return db.Where(f.Column+" <= ?", f.High), nil
		default:
			return db.Where(f.Column+" BETWEEN ? AND ?", f.Low, f.High), nil
		}
	}

	return nil, fmt.Errorf("unknown filter operator %q", f.Op)
}
