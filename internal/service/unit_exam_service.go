package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/solvelab/practice-api/internal/generator"
	"github.com/solvelab/practice-api/internal/models"
	"github.com/solvelab/practice-api/internal/repository"
	"github.com/solvelab/practice-api/pkg/config"
	appErrors "github.com/solvelab/practice-api/pkg/errors"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type unitExamStore interface {
	CreateWithQuestions(ctx context.Context, exam *models.UnitExam, questions []models.UnitQuestion) error
	FindByCode(ctx context.Context, code string) (*models.UnitExam, error)
	FindQuestionsByExamID(ctx context.Context, examID string) ([]models.UnitQuestion, error)
}

type examUnitRepository interface {
	List(ctx context.Context) ([]models.Unit, error)
	ExistAll(ctx context.Context, ids []int64) (bool, error)
}

// ExamProblemGenerator supplies question content for generated exams.
type ExamProblemGenerator interface {
	ProblemsForUnits(ctx context.Context, unitNames []string, count int) ([]generator.Problem, error)
}

// GenerateUnitExamRequest represents payload for generating an exam code.
type GenerateUnitExamRequest struct {
	SelectedUnits []int64 `json:"selectedUnits" validate:"required,min=1,dive,gt=0"`
	QuestionCount int     `json:"questionCount" validate:"required,gt=0"`
}

// GenerateUnitExamResult is returned on successful generation.
type GenerateUnitExamResult struct {
	Code   string `json:"code"`
	ExamID string `json:"examId"`
}

// VerifyResult reports whether a submitted code matches a stored exam.
type VerifyResult struct {
	Valid bool `json:"valid"`
}

// UnitExamService generates and verifies unit-exam codes.
type UnitExamService struct {
	repo      unitExamStore
	units     examUnitRepository
	problems  ExamProblemGenerator
	cfg       config.ExamConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUnitExamService constructs a UnitExamService.
func NewUnitExamService(repo unitExamStore, units examUnitRepository, problems ExamProblemGenerator, cfg config.ExamConfig, validate *validator.Validate, logger *zap.Logger) *UnitExamService {
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = 6
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = 50
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnitExamService{repo: repo, units: units, problems: problems, cfg: cfg, validator: validate, logger: logger}
}

// Generate creates an exam bound to the selected units, with a fresh random
// code and questionCount generated questions, persisted atomically. The
// database unique constraint on code is the collision signal; generation is
// retried with a new code up to the configured attempt budget.
func (s *UnitExamService) Generate(ctx context.Context, req GenerateUnitExamRequest, teacherID string) (*GenerateUnitExamResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "단원과 문제 개수를 확인해 주세요.")
	}
	if req.QuestionCount > s.cfg.MaxQuestions {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("문제는 최대 %d개까지 생성할 수 있습니다.", s.cfg.MaxQuestions))
	}

	ok, err := s.units.ExistAll(ctx, req.SelectedUnits)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "단원 정보를 확인하지 못했습니다.")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "존재하지 않는 단원이 포함되어 있습니다.")
	}

	unitNames, err := s.unitNames(ctx, req.SelectedUnits)
	if err != nil {
		return nil, err
	}

	problems, err := s.problems.ProblemsForUnits(ctx, unitNames, req.QuestionCount)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "문제 생성에 실패했습니다.")
	}
	if len(problems) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInternal, "문제 생성에 실패했습니다.")
	}

	questions := make([]models.UnitQuestion, req.QuestionCount)
	for i := 0; i < req.QuestionCount; i++ {
		problem := problems[i%len(problems)]
		questions[i] = models.UnitQuestion{
			UnitID:  int(req.SelectedUnits[i%len(req.SelectedUnits)]),
			Content: problem.Question,
			Answer:  problem.Answer,
		}
	}

	for attempt := 0; attempt < s.cfg.MaxAttempts; attempt++ {
		code, err := randomCode(s.cfg.CodeLength)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "코드 생성에 실패했습니다.")
		}

		exam := &models.UnitExam{
			Code:          code,
			SelectedUnits: pq.Int64Array(req.SelectedUnits),
			QuestionCount: req.QuestionCount,
			TeacherID:     teacherID,
		}
		if err := s.repo.CreateWithQuestions(ctx, exam, questions); err != nil {
			if repository.IsUniqueViolation(err) {
				s.logger.Warn("exam code collision, retrying", zap.String("code", code), zap.Int("attempt", attempt+1))
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "단원평가 저장에 실패했습니다.")
		}
		return &GenerateUnitExamResult{Code: exam.Code, ExamID: exam.ID}, nil
	}

	return nil, appErrors.Clone(appErrors.ErrCodeExhausted, "코드 생성에 반복해서 실패했습니다. 다시 시도해 주세요.")
}

// Verify normalizes the submitted code to uppercase and checks for an exact
// match. Codes do not expire and stay valid for any number of students.
func (s *UnitExamService) Verify(ctx context.Context, code string) (*VerifyResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "코드를 입력하세요.")
	}

	if _, err := s.repo.FindByCode(ctx, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &VerifyResult{Valid: false}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "코드 확인에 실패했습니다.")
	}
	return &VerifyResult{Valid: true}, nil
}

// Questions returns the generated questions for a verified code.
func (s *UnitExamService) Questions(ctx context.Context, code string) ([]models.UnitQuestion, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	exam, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "존재하지 않는 코드입니다.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "코드 확인에 실패했습니다.")
	}

	questions, err := s.repo.FindQuestionsByExamID(ctx, exam.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "문제를 불러오지 못했습니다.")
	}
	return questions, nil
}

func (s *UnitExamService) unitNames(ctx context.Context, ids []int64) ([]string, error) {
	units, err := s.units.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "단원 정보를 불러오지 못했습니다.")
	}
	byID := make(map[int64]string, len(units))
	for _, unit := range units {
		byID[int64(unit.ID)] = unit.Name
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// randomCode draws length characters uniformly from the uppercase
// alphanumeric charset using crypto/rand. Bytes at or above the largest
// multiple of the charset size are discarded, so no character is
// overrepresented by the modulo.
func randomCode(length int) (string, error) {
	limit := byte(256 - 256%len(codeCharset))
	out := make([]byte, 0, length)
	buf := make([]byte, 2*length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, codeCharset[int(b)%len(codeCharset)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
