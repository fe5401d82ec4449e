package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/solvelab/practice-api/internal/models"
)

const teacherAuthColumns = "id, teacher_id, name, img_url, status, created_at, reviewed_at"

// TeacherAuthRepository manages persistence for teacher identity requests.
type TeacherAuthRepository struct {
	db *sqlx.DB
}

// NewTeacherAuthRepository constructs a TeacherAuthRepository.
func NewTeacherAuthRepository(db *sqlx.DB) *TeacherAuthRepository {
	return &TeacherAuthRepository{db: db}
}

// Create inserts a new pending request.
func (r *TeacherAuthRepository) Create(ctx context.Context, req *models.TeacherAuthRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	req.Status = models.TeacherAuthStatusPending

	const query = `INSERT INTO teacher_auth_requests (id, teacher_id, name, img_url, status, created_at)
		VALUES (:id, :teacher_id, :name, :img_url, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create teacher auth request: %w", err)
	}
	return nil
}

// FindByID fetches a request by id.
func (r *TeacherAuthRepository) FindByID(ctx context.Context, id string) (*models.TeacherAuthRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM teacher_auth_requests WHERE id = $1", teacherAuthColumns)
	var req models.TeacherAuthRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// ListPending returns pending requests in insertion order.
func (r *TeacherAuthRepository) ListPending(ctx context.Context) ([]models.TeacherAuthRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM teacher_auth_requests WHERE status = $1 ORDER BY created_at ASC, id ASC", teacherAuthColumns)
	var requests []models.TeacherAuthRequest
	if err := r.db.SelectContext(ctx, &requests, query, models.TeacherAuthStatusPending); err != nil {
		return nil, fmt.Errorf("list pending teacher auth requests: %w", err)
	}
	return requests, nil
}

// UpdateStatusIfPending transitions a request out of PENDING. It returns
// sql.ErrNoRows when the row is absent or no longer pending, so a concurrent
// reviewer's losing write surfaces as an error instead of a second transition.
func (r *TeacherAuthRepository) UpdateStatusIfPending(ctx context.Context, id string, status models.TeacherAuthStatus, reviewedAt time.Time) error {
	const query = `UPDATE teacher_auth_requests SET status = $2, reviewed_at = $3 WHERE id = $1 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, id, status, reviewedAt, models.TeacherAuthStatusPending)
	if err != nil {
		return fmt.Errorf("update teacher auth status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("teacher auth rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
