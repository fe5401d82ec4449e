package service

import (
	"context"
	"database/sql"
	"regexp"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solvelab/practice-api/internal/generator"
	"github.com/solvelab/practice-api/internal/models"
	"github.com/solvelab/practice-api/pkg/config"
	appErrors "github.com/solvelab/practice-api/pkg/errors"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

type unitExamStoreMock struct {
	exams      map[string]*models.UnitExam
	questions  map[string][]models.UnitQuestion
	collisions int
	createErr  error
}

func newUnitExamStoreMock() *unitExamStoreMock {
	return &unitExamStoreMock{
		exams:     map[string]*models.UnitExam{},
		questions: map[string][]models.UnitQuestion{},
	}
}

func (m *unitExamStoreMock) CreateWithQuestions(ctx context.Context, exam *models.UnitExam, questions []models.UnitQuestion) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.collisions > 0 {
		m.collisions--
		return &pq.Error{Code: "23505", Constraint: "unit_exams_code_key"}
	}
	if _, exists := m.exams[exam.Code]; exists {
		return &pq.Error{Code: "23505", Constraint: "unit_exams_code_key"}
	}
	exam.ID = "exam-" + exam.Code
	cp := *exam
	m.exams[exam.Code] = &cp
	m.questions[exam.ID] = append([]models.UnitQuestion(nil), questions...)
	return nil
}

func (m *unitExamStoreMock) FindByCode(ctx context.Context, code string) (*models.UnitExam, error) {
	exam, ok := m.exams[code]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *exam
	return &cp, nil
}

func (m *unitExamStoreMock) FindQuestionsByExamID(ctx context.Context, examID string) ([]models.UnitQuestion, error) {
	return m.questions[examID], nil
}

type examUnitRepoMock struct {
	units  []models.Unit
	exist  bool
	misses bool
}

func (m *examUnitRepoMock) List(ctx context.Context) ([]models.Unit, error) {
	return m.units, nil
}

func (m *examUnitRepoMock) ExistAll(ctx context.Context, ids []int64) (bool, error) {
	if m.misses {
		return false, nil
	}
	return m.exist, nil
}

type examGeneratorMock struct {
	problems []generator.Problem
	calls    int
}

func (m *examGeneratorMock) ProblemsForUnits(ctx context.Context, unitNames []string, count int) ([]generator.Problem, error) {
	m.calls++
	return m.problems, nil
}

func newExamService(store *unitExamStoreMock, units *examUnitRepoMock, gen *examGeneratorMock) *UnitExamService {
	return NewUnitExamService(store, units, gen, config.ExamConfig{
		CodeLength:   6,
		MaxAttempts:  5,
		MaxQuestions: 50,
	}, validator.New(), zap.NewNop())
}

func defaultExamFixtures() (*unitExamStoreMock, *examUnitRepoMock, *examGeneratorMock) {
	store := newUnitExamStoreMock()
	units := &examUnitRepoMock{
		units: []models.Unit{{ID: 1, Name: "분수의 덧셈"}, {ID: 2, Name: "소수의 곱셈"}},
		exist: true,
	}
	gen := &examGeneratorMock{problems: []generator.Problem{
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
	}}
	return store, units, gen
}

func TestUnitExamServiceGenerate(t *testing.T) {
	store, units, gen := defaultExamFixtures()
	svc := newExamService(store, units, gen)

	result, err := svc.Generate(context.Background(), GenerateUnitExamRequest{
		SelectedUnits: []int64{1, 2},
		QuestionCount: 3,
	}, "teacher-1")
	require.NoError(t, err)
	assert.Regexp(t, codePattern, result.Code)
	assert.NotEmpty(t, result.ExamID)

	stored := store.exams[result.Code]
	require.NotNil(t, stored)
	assert.Equal(t, pq.Int64Array{1, 2}, stored.SelectedUnits)
	assert.Equal(t, "teacher-1", stored.TeacherID)

	questions := store.questions[result.ExamID]
	require.Len(t, questions, 3)
	// questions spread round-robin across the selected units
	assert.Equal(t, 1, questions[0].UnitID)
	assert.Equal(t, 2, questions[1].UnitID)
	assert.Equal(t, 1, questions[2].UnitID)
}

func TestUnitExamServiceGenerateRetriesOnCollision(t *testing.T) {
	store, units, gen := defaultExamFixtures()
	store.collisions = 2
	svc := newExamService(store, units, gen)

	result, err := svc.Generate(context.Background(), GenerateUnitExamRequest{
		SelectedUnits: []int64{1},
		QuestionCount: 1,
	}, "teacher-1")
	require.NoError(t, err)
	assert.Regexp(t, codePattern, result.Code)
	assert.Equal(t, 1, gen.calls)
}

func TestUnitExamServiceGenerateExhaustsAttempts(t *testing.T) {
	store, units, gen := defaultExamFixtures()
	store.collisions = 5
	svc := newExamService(store, units, gen)

	_, err := svc.Generate(context.Background(), GenerateUnitExamRequest{
		SelectedUnits: []int64{1},
		QuestionCount: 1,
	}, "teacher-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCodeExhausted.Code, appErrors.FromError(err).Code)
}

func TestUnitExamServiceGenerateRejectsUnknownUnits(t *testing.T) {
	store, units, gen := defaultExamFixtures()
	units.misses = true
	svc := newExamService(store, units, gen)

	_, err := svc.Generate(context.Background(), GenerateUnitExamRequest{
		SelectedUnits: []int64{1, 99},
		QuestionCount: 1,
	}, "teacher-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUnitExamServiceGenerateValidation(t *testing.T) {
	store, units, gen := defaultExamFixtures()
	svc := newExamService(store, units, gen)

	cases := []GenerateUnitExamRequest{
		{SelectedUnits: nil, QuestionCount: 3},
		{SelectedUnits: []int64{1}, QuestionCount: 0},
		{SelectedUnits: []int64{0}, QuestionCount: 3},
		{SelectedUnits: []int64{1}, QuestionCount: 51},
	}
	for _, req := range cases {
		_, err := svc.Generate(context.Background(), req, "teacher-1")
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestUnitExamServiceVerifyNormalizesCase(t *testing.T) {
	store, units, gen := defaultExamFixtures()
	svc := newExamService(store, units, gen)

	result, err := svc.Generate(context.Background(), GenerateUnitExamRequest{
		SelectedUnits: []int64{1},
		QuestionCount: 1,
	}, "teacher-1")
	require.NoError(t, err)

	verified, err := svc.Verify(context.Background(), "  "+result.Code+" ")
	require.NoError(t, err)
	assert.True(t, verified.Valid)

	verified, err = svc.Verify(context.Background(), strings.ToLower(result.Code))
	require.NoError(t, err)
	assert.True(t, verified.Valid)
}

func TestUnitExamServiceVerifyUnknownCode(t *testing.T) {
	store, units, gen := defaultExamFixtures()
	svc := newExamService(store, units, gen)

	verified, err := svc.Verify(context.Background(), "ZZZZZZ")
	require.NoError(t, err)
	assert.False(t, verified.Valid)

	_, err = svc.Verify(context.Background(), "   ")
	require.Error(t, err)
}

func TestUnitExamServiceQuestions(t *testing.T) {
	store, units, gen := defaultExamFixtures()
	svc := newExamService(store, units, gen)

	result, err := svc.Generate(context.Background(), GenerateUnitExamRequest{
		SelectedUnits: []int64{1, 2},
		QuestionCount: 4,
	}, "teacher-1")
	require.NoError(t, err)

	questions, err := svc.Questions(context.Background(), result.Code)
	require.NoError(t, err)
	assert.Len(t, questions, 4)

	_, err = svc.Questions(context.Background(), "ZZZZZZ")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRandomCodeCharsetAndLength(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		code, err := randomCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		assert.Regexp(t, codePattern, code)
		for _, r := range code {
			assert.Contains(t, codeCharset, string(r))
		}
		seen[code] = struct{}{}
	}
	// 100 draws from a 36^6 space should never all collide
	assert.Greater(t, len(seen), 1)
}
