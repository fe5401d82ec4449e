package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/solvelab/practice-api/internal/models"
)

func newUnitExamRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestUnitExamRepositoryCreateWithQuestions(t *testing.T) {
	db, mock, cleanup := newUnitExamRepoMock(t)
	defer cleanup()

	repo := NewUnitExamRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO unit_exams")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO unit_questions")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO unit_questions")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	exam := &models.UnitExam{
		Code:          "A1B2C3",
		SelectedUnits: pq.Int64Array{1, 2},
		QuestionCount: 2,
		TeacherID:     "teacher-1",
	}
	questions := []models.UnitQuestion{
		{UnitID: 1, Content: "q1", Answer: "a1"},
		{UnitID: 2, Content: "q2", Answer: "a2"},
	}
	require.NoError(t, repo.CreateWithQuestions(context.Background(), exam, questions))
	require.NotEmpty(t, exam.ID)
	require.Equal(t, exam.ID, questions[0].ExamID)
	require.Equal(t, exam.ID, questions[1].ExamID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitExamRepositoryCreateRollsBackOnDuplicateCode(t *testing.T) {
	db, mock, cleanup := newUnitExamRepoMock(t)
	defer cleanup()

	repo := NewUnitExamRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO unit_exams")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "unit_exams_code_key"})
	mock.ExpectRollback()

	exam := &models.UnitExam{Code: "A1B2C3", SelectedUnits: pq.Int64Array{1}, QuestionCount: 1}
	err := repo.CreateWithQuestions(context.Background(), exam, nil)
	require.Error(t, err)
	require.True(t, IsUniqueViolation(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	require.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	require.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	require.False(t, IsUniqueViolation(sql.ErrNoRows))
	require.False(t, IsUniqueViolation(nil))
}

func TestUnitExamRepositoryFindByCode(t *testing.T) {
	db, mock, cleanup := newUnitExamRepoMock(t)
	defer cleanup()

	repo := NewUnitExamRepository(db)
	rows := sqlmock.NewRows([]string{"id", "code", "selected_units", "question_count", "teacher_id", "created_at"}).
		AddRow("exam-1", "A1B2C3", []byte("{1,2}"), 2, "teacher-1", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM unit_exams WHERE code = $1")).
		WithArgs("A1B2C3").
		WillReturnRows(rows)

	exam, err := repo.FindByCode(context.Background(), "A1B2C3")
	require.NoError(t, err)
	require.Equal(t, "exam-1", exam.ID)
	require.Equal(t, pq.Int64Array{1, 2}, exam.SelectedUnits)

	mock.ExpectQuery(regexp.QuoteMeta("FROM unit_exams WHERE code = $1")).
		WithArgs("ZZZZZZ").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.FindByCode(context.Background(), "ZZZZZZ")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitExamRepositoryFindQuestionsByExamID(t *testing.T) {
	db, mock, cleanup := newUnitExamRepoMock(t)
	defer cleanup()

	repo := NewUnitExamRepository(db)
	rows := sqlmock.NewRows([]string{"id", "exam_id", "unit_id", "content", "answer"}).
		AddRow("q-1", "exam-1", int64(1), "content-1", "answer-1").
		AddRow("q-2", "exam-1", int64(2), "content-2", "answer-2")
	mock.ExpectQuery(regexp.QuoteMeta("FROM unit_questions WHERE exam_id = $1")).
		WithArgs("exam-1").
		WillReturnRows(rows)

	questions, err := repo.FindQuestionsByExamID(context.Background(), "exam-1")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	require.Equal(t, "content-1", questions[0].Content)
	require.NoError(t, mock.ExpectationsWereMet())
}
