package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/solvelab/practice-api/internal/models"
)

// uniqueViolation is the Postgres error code raised by unique constraints.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err stems from a unique constraint.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// UnitExamRepository manages persistence for unit exams and their questions.
type UnitExamRepository struct {
	db *sqlx.DB
}

// NewUnitExamRepository constructs a UnitExamRepository.
func NewUnitExamRepository(db *sqlx.DB) *UnitExamRepository {
	return &UnitExamRepository{db: db}
}

// CreateWithQuestions inserts the exam row and all of its questions in one
// transaction, so a verifier can never observe a code without its questions.
// The unique constraint on code surfaces through the returned error.
func (r *UnitExamRepository) CreateWithQuestions(ctx context.Context, exam *models.UnitExam, questions []models.UnitQuestion) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	if exam.CreatedAt.IsZero() {
		exam.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin exam tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const examQuery = `INSERT INTO unit_exams (id, code, selected_units, question_count, teacher_id, created_at)
		VALUES (:id, :code, :selected_units, :question_count, :teacher_id, :created_at)`
	if _, err := tx.NamedExecContext(ctx, examQuery, exam); err != nil {
		return fmt.Errorf("create unit exam: %w", err)
	}

	const questionQuery = `INSERT INTO unit_questions (id, exam_id, unit_id, content, answer)
		VALUES (:id, :exam_id, :unit_id, :content, :answer)`
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
		questions[i].ExamID = exam.ID
		if _, err := tx.NamedExecContext(ctx, questionQuery, &questions[i]); err != nil {
			return fmt.Errorf("create unit question: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit exam tx: %w", err)
	}
	return nil
}

// FindByCode fetches an exam by its exact code.
func (r *UnitExamRepository) FindByCode(ctx context.Context, code string) (*models.UnitExam, error) {
	const query = `SELECT id, code, selected_units, question_count, teacher_id, created_at FROM unit_exams WHERE code = $1`
	var exam models.UnitExam
	if err := r.db.GetContext(ctx, &exam, query, code); err != nil {
		return nil, err
	}
	return &exam, nil
}

// FindQuestionsByExamID lists the questions generated for an exam.
func (r *UnitExamRepository) FindQuestionsByExamID(ctx context.Context, examID string) ([]models.UnitQuestion, error) {
	const query = `SELECT id, exam_id, unit_id, content, answer FROM unit_questions WHERE exam_id = $1 ORDER BY id`
	var questions []models.UnitQuestion
	if err := r.db.SelectContext(ctx, &questions, query, examID); err != nil {
		return nil, fmt.Errorf("list unit questions: %w", err)
	}
	return questions, nil
}
