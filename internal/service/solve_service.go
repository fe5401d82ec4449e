package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/solvelab/practice-api/internal/generator"
	"github.com/solvelab/practice-api/internal/models"
	appErrors "github.com/solvelab/practice-api/pkg/errors"
)

// defaultProblemCount is how many problems one category request yields.
const defaultProblemCount = 5

type solveRepository interface {
	Create(ctx context.Context, solve *models.Solve) error
}

type unitFinder interface {
	FindByID(ctx context.Context, id int) (*models.Unit, error)
}

// ProblemGenerator produces practice problems from an external collaborator.
type ProblemGenerator interface {
	ProblemsByCategory(ctx context.Context, category string, count int) ([]generator.Problem, error)
}

// RecordSolveRequest represents payload for recording a solve attempt.
type RecordSolveRequest struct {
	UserID    string  `json:"userId" validate:"required"`
	UnitID    int     `json:"unitId" validate:"required,gt=0"`
	Category  string  `json:"category" validate:"required"`
	Question  string  `json:"question" validate:"required"`
	UserInput string  `json:"userInput" validate:"required"`
	IsCorrect bool    `json:"isCorrect"`
	HelpText  *string `json:"helpText"`
}

// SolveService records solve attempts and generates practice problems.
type SolveService struct {
	repo      solveRepository
	units     unitFinder
	problems  ProblemGenerator
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSolveService constructs a SolveService.
func NewSolveService(repo solveRepository, units unitFinder, problems ProblemGenerator, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SolveService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SolveService{repo: repo, units: units, problems: problems, cache: cache, validator: validate, logger: logger}
}

// Record persists a solve attempt and invalidates the user's cached stats.
func (s *SolveService) Record(ctx context.Context, req RecordSolveRequest) (*models.Solve, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "풀이 기록 요청이 올바르지 않습니다.")
	}
	if _, err := s.units.FindByID(ctx, req.UnitID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "존재하지 않는 단원입니다.")
	}

	solve := &models.Solve{
		UserID:    req.UserID,
		UnitID:    req.UnitID,
		Category:  strings.TrimSpace(req.Category),
		Question:  req.Question,
		UserInput: req.UserInput,
		IsCorrect: req.IsCorrect,
		HelpText:  req.HelpText,
	}
	if err := s.repo.Create(ctx, solve); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "풀이 기록 저장에 실패했습니다.")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, statsCachePattern(req.UserID)); err != nil {
			s.logger.Warn("invalidate stats cache", zap.String("user_id", req.UserID), zap.Error(err))
		}
	}
	return solve, nil
}

// GenerateByCategory produces a list of practice problems for one category.
func (s *SolveService) GenerateByCategory(ctx context.Context, category string) ([]generator.Problem, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "카테고리를 입력하세요")
	}

	problems, err := s.problems.ProblemsByCategory(ctx, category, defaultProblemCount)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "문제 생성에 실패했습니다.")
	}
	return problems, nil
}
