package models

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type statement struct {
	SQL  string
	Vars []any
}

// dryRunDB returns a postgres-dialect gorm handle that builds SQL without a
// server, and the statements it has built so far.
func dryRunDB(t *testing.T) (*gorm.DB, *[]statement) {
	t.Helper()

	db, err := gorm.Open(postgres.Open("host=localhost user=sierra dbname=sierra sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	var built []statement
	capture := func(tx *gorm.DB) {
		built = append(built, statement{
			SQL:  tx.Statement.SQL.String(),
			Vars: append([]any(nil), tx.Statement.Vars...),
		})
	}

	require.NoError(t, db.Callback().Query().After("gorm:query").Register("sierra:capture_query", capture))
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("sierra:capture_create", capture))
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("sierra:capture_update", capture))

	return db, &built
}

func lastStatement(t *testing.T, built *[]statement) statement {
	t.Helper()
	require.NotEmpty(t, *built)
	return (*built)[len(*built)-1]
}

func TestScanPageSQL(t *testing.T) {
	db, built := dryRunDB(t)
	store := NewESGRecordStore(db)

	filter := Filter{Column: ColumnCompanyName, Op: OpContains, Value: "South_West%"}
	records, next, err := store.ScanPage(context.Background(), filter, &Cursor{Ticker: "ko", Timestamp: "2024-01-01"}, 100)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Nil(t, next)

	stmt := lastStatement(t, built)
	assert.Contains(t, stmt.SQL, `FROM "esg_processed"`)
	assert.Contains(t, stmt.SQL, `LOWER(company_name) LIKE $1`)
	assert.Contains(t, stmt.SQL, `(ticker, "timestamp") > ($2, $3)`)
	assert.Contains(t, stmt.SQL, `ORDER BY "ticker","timestamp"`)
	assert.Regexp(t, `LIMIT (100|\$4)`, stmt.SQL)
	require.GreaterOrEqual(t, len(stmt.Vars), 3)
	assert.Equal(t, []any{`%south\_west\%%`, "ko", "2024-01-01"}, stmt.Vars[:3])
}

func TestScanPageFirstPageHasNoCursorCondition(t *testing.T) {
	db, built := dryRunDB(t)
	store := NewESGRecordStore(db)

	_, _, err := store.ScanPage(context.Background(), Filter{Column: ColumnTotalScore, Op: OpBetween, Low: 10, High: 20}, nil, 25)
	require.NoError(t, err)

	stmt := lastStatement(t, built)
	assert.Contains(t, stmt.SQL, `total_score BETWEEN $1 AND $2`)
	assert.NotContains(t, stmt.SQL, `(ticker, "timestamp") >`)
	assert.Equal(t, []any{10.0, 20.0}, stmt.Vars[:2])
}

func TestScanPageRejectsUnknownColumnBeforeQuerying(t *testing.T) {
	db, built := dryRunDB(t)
	store := NewESGRecordStore(db)

	_, _, err := store.ScanPage(context.Background(), Filter{Column: "1=1; --", Op: OpEqual, Value: "x"}, nil, 10)
	assert.Error(t, err)
	assert.Empty(t, *built)
}

func TestQueryByTickerSQL(t *testing.T) {
	db, built := dryRunDB(t)

	_, err := NewESGRecordStore(db).QueryByTicker(context.Background(), "luv")
	require.NoError(t, err)

	stmt := lastStatement(t, built)
	assert.Contains(t, stmt.SQL, `WHERE ticker = $1`)
	assert.Contains(t, stmt.SQL, `ORDER BY "timestamp" DESC`)
	assert.Equal(t, []any{"luv"}, stmt.Vars)
}

func TestPutIgnoresExistingRows(t *testing.T) {
	db, built := dryRunDB(t)

	_, err := NewESGRecordStore(db).Put(context.Background(), &ESGRecord{Ticker: "ko", Timestamp: "2024-01-01", Rating: "B"})
	require.NoError(t, err)

	stmt := lastStatement(t, built)
	assert.Contains(t, stmt.SQL, `INSERT INTO "esg_processed"`)
	assert.Contains(t, stmt.SQL, `ON CONFLICT DO NOTHING`)

	_, err = NewESGRecordStore(db).Put(context.Background(), &ESGRecord{Ticker: "ko"})
	assert.Error(t, err)
}

func TestCreateIfAbsentIsSingleConditionalInsert(t *testing.T) {
	db, built := dryRunDB(t)

	_, err := NewUserStore(db).CreateIfAbsent(context.Background(), &User{
		Email:         "ada@example.com",
		UserID:        "u1",
		PasswordHash:  "hash",
		Name:          "Ada",
		AccountStatus: AccountActive,
	})
	require.NoError(t, err)

	require.Len(t, *built, 1, "no read before the insert")
	stmt := (*built)[0]
	assert.Contains(t, stmt.SQL, `INSERT INTO "sierra_users"`)
	assert.Contains(t, stmt.SQL, `ON CONFLICT DO NOTHING`)
}

func TestTouchLastLoginSQL(t *testing.T) {
	db, built := dryRunDB(t)
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, NewUserStore(db).TouchLastLogin(context.Background(), "ada@example.com", at))

	stmt := lastStatement(t, built)
	assert.Contains(t, stmt.SQL, `UPDATE "sierra_users" SET "last_login"=$1`)
	assert.Contains(t, stmt.SQL, `email = $2`)
	assert.Equal(t, []any{at, "ada@example.com"}, stmt.Vars)
}

func TestSavedTickerUpsertOverwritesCreatedAt(t *testing.T) {
	db, built := dryRunDB(t)

	err := NewSavedTickerStore(db).Upsert(context.Background(), &SavedTicker{
		UserID:    "u1",
		Ticker:    "AAPL",
		CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	stmt := lastStatement(t, built)
	assert.Contains(t, stmt.SQL, `INSERT INTO "sierra_saved_tickers"`)
	assert.Contains(t, stmt.SQL, `ON CONFLICT ("user_id","ticker") DO UPDATE SET "created_at"="excluded"."created_at"`)
}

func TestListByUserSQL(t *testing.T) {
	db, built := dryRunDB(t)

	_, err := NewSavedTickerStore(db).ListByUser(context.Background(), "u1")
	require.NoError(t, err)

	stmt := lastStatement(t, built)
	assert.Contains(t, stmt.SQL, `WHERE user_id = $1`)
	assert.Contains(t, stmt.SQL, `ORDER BY ticker`)
	assert.Equal(t, []any{"u1"}, stmt.Vars)
}

func TestSaveAnswerReplacesPreviousAnswer(t *testing.T) {
	db, built := dryRunDB(t)

	err := NewQuestionnaireAnswerStore(db).SaveAnswer(context.Background(), &QuestionnaireAnswer{
		UserID:     "u1",
		QuestionID: "2",
		AnswerID:   "3",
		UpdatedAt:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	stmt := lastStatement(t, built)
	assert.Contains(t, stmt.SQL, `INSERT INTO "sierra_questionnaire_answers"`)
	assert.Contains(t, stmt.SQL, `ON CONFLICT ("user_id","question_id") DO UPDATE SET "answer_id"="excluded"."answer_id","updated_at"="excluded"."updated_at"`)
}
