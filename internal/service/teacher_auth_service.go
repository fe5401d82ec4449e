package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/solvelab/practice-api/internal/models"
	appErrors "github.com/solvelab/practice-api/pkg/errors"
)

type teacherAuthStore interface {
	Create(ctx context.Context, req *models.TeacherAuthRequest) error
	FindByID(ctx context.Context, id string) (*models.TeacherAuthRequest, error)
	ListPending(ctx context.Context) ([]models.TeacherAuthRequest, error)
	UpdateStatusIfPending(ctx context.Context, id string, status models.TeacherAuthStatus, reviewedAt time.Time) error
}

// CreateTeacherAuthRequest represents payload for submitting a teacher
// identity request. Only teacherId and imgUrl are required; name is an
// optional display label.
type CreateTeacherAuthRequest struct {
	TeacherID string `json:"teacherId" validate:"required"`
	Name      string `json:"name" validate:"omitempty,max=100"`
	ImgURL    string `json:"imgUrl" validate:"required"`
}

// TeacherAuthService orchestrates the teacher approval workflow.
type TeacherAuthService struct {
	repo      teacherAuthStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherAuthService constructs a TeacherAuthService.
func NewTeacherAuthService(repo teacherAuthStore, validate *validator.Validate, logger *zap.Logger) *TeacherAuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherAuthService{repo: repo, validator: validate, logger: logger}
}

// Create registers a new pending request.
func (s *TeacherAuthService) Create(ctx context.Context, req CreateTeacherAuthRequest) (*models.TeacherAuthRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "교사 인증 요청이 올바르지 않습니다.")
	}

	request := &models.TeacherAuthRequest{
		TeacherID: req.TeacherID,
		Name:      req.Name,
		ImgURL:    req.ImgURL,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "교사 인증 요청 저장에 실패했습니다.")
	}
	return request, nil
}

// ListPending returns pending requests in insertion order.
func (s *TeacherAuthService) ListPending(ctx context.Context) ([]models.TeacherAuthRequest, error) {
	requests, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "승인 대기 목록을 불러오지 못했습니다.")
	}
	if requests == nil {
		requests = []models.TeacherAuthRequest{}
	}
	return requests, nil
}

// Approve transitions a pending request to APPROVED.
func (s *TeacherAuthService) Approve(ctx context.Context, id string) (*models.TeacherAuthRequest, error) {
	return s.review(ctx, id, models.TeacherAuthStatusApproved)
}

// Reject transitions a pending request to REJECTED.
func (s *TeacherAuthService) Reject(ctx context.Context, id string) (*models.TeacherAuthRequest, error) {
	return s.review(ctx, id, models.TeacherAuthStatusRejected)
}

// review applies the one-way transition. A request that already left PENDING
// surfaces as a conflict, never a silent no-op, so a losing concurrent
// reviewer cannot trigger double side-effects.
func (s *TeacherAuthService) review(ctx context.Context, id string, status models.TeacherAuthStatus) (*models.TeacherAuthRequest, error) {
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "교사 인증 요청을 찾을 수 없습니다.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "교사 인증 요청을 불러오지 못했습니다.")
	}
	if request.Status != models.TeacherAuthStatusPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "이미 처리된 요청입니다.")
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateStatusIfPending(ctx, id, status, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "이미 처리된 요청입니다.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "요청 처리에 실패했습니다.")
	}

	request.Status = status
	request.ReviewedAt = &now
	s.logger.Info("teacher auth reviewed",
		zap.String("request_id", id),
		zap.String("status", string(status)),
	)
	return request, nil
}
