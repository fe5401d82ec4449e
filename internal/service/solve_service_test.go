package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solvelab/practice-api/internal/generator"
	"github.com/solvelab/practice-api/internal/models"
	appErrors "github.com/solvelab/practice-api/pkg/errors"
)

type solveRepoStub struct {
	created []models.Solve
}

func (s *solveRepoStub) Create(ctx context.Context, solve *models.Solve) error {
	solve.ID = int64(len(s.created) + 1)
	solve.CreatedAt = time.Now()
	s.created = append(s.created, *solve)
	return nil
}

type unitFinderStub struct {
	known map[int]string
}

func (s *unitFinderStub) FindByID(ctx context.Context, id int) (*models.Unit, error) {
	name, ok := s.known[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.Unit{ID: id, Name: name}, nil
}

type problemGenStub struct {
	problems []generator.Problem
	category string
	count    int
}

func (s *problemGenStub) ProblemsByCategory(ctx context.Context, category string, count int) ([]generator.Problem, error) {
	s.category = category
	s.count = count
	return s.problems, nil
}

func TestSolveServiceRecord(t *testing.T) {
	repo := &solveRepoStub{}
	units := &unitFinderStub{known: map[int]string{3: "분수의 덧셈"}}
	svc := NewSolveService(repo, units, nil, nil, validator.New(), zap.NewNop())

	help := "통분 후 더합니다."
	solve, err := svc.Record(context.Background(), RecordSolveRequest{
		UserID:    "user-1",
		UnitID:    3,
		Category:  " 분수 ",
		Question:  "1/2 + 1/4 = ?",
		UserInput: "3/4",
		IsCorrect: true,
		HelpText:  &help,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), solve.ID)
	assert.Equal(t, "분수", solve.Category)
	require.Len(t, repo.created, 1)
}

func TestSolveServiceRecordUnknownUnit(t *testing.T) {
	repo := &solveRepoStub{}
	units := &unitFinderStub{known: map[int]string{}}
	svc := NewSolveService(repo, units, nil, nil, validator.New(), zap.NewNop())

	_, err := svc.Record(context.Background(), RecordSolveRequest{
		UserID:    "user-1",
		UnitID:    99,
		Category:  "분수",
		Question:  "q",
		UserInput: "a",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestSolveServiceRecordValidation(t *testing.T) {
	repo := &solveRepoStub{}
	units := &unitFinderStub{known: map[int]string{3: "분수의 덧셈"}}
	svc := NewSolveService(repo, units, nil, nil, validator.New(), zap.NewNop())

	cases := []RecordSolveRequest{
		{UnitID: 3, Category: "c", Question: "q", UserInput: "a"},
		{UserID: "user-1", Category: "c", Question: "q", UserInput: "a"},
		{UserID: "user-1", UnitID: 3, Question: "q", UserInput: "a"},
		{UserID: "user-1", UnitID: 3, Category: "c", UserInput: "a"},
		{UserID: "user-1", UnitID: 3, Category: "c", Question: "q"},
	}
	for _, req := range cases {
		_, err := svc.Record(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestSolveServiceRecordInvalidatesStatsCache(t *testing.T) {
	repo := &solveRepoStub{}
	units := &unitFinderStub{known: map[int]string{3: "분수의 덧셈"}}
	cacheStub := newCacheRepoStub()
	cacheStub.entries["stats:units:user-1:-:-"] = []byte("[]")
	cacheStub.entries["stats:units:user-2:-:-"] = []byte("[]")
	cache := NewCacheService(cacheStub, nil, time.Minute, zap.NewNop(), true)
	svc := NewSolveService(repo, units, nil, cache, validator.New(), zap.NewNop())

	_, err := svc.Record(context.Background(), RecordSolveRequest{
		UserID:    "user-1",
		UnitID:    3,
		Category:  "분수",
		Question:  "q",
		UserInput: "a",
	})
	require.NoError(t, err)
	assert.NotContains(t, cacheStub.entries, "stats:units:user-1:-:-")
	assert.Contains(t, cacheStub.entries, "stats:units:user-2:-:-")
}

func TestSolveServiceGenerateByCategory(t *testing.T) {
	gen := &problemGenStub{problems: []generator.Problem{
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
	}}
	svc := NewSolveService(&solveRepoStub{}, &unitFinderStub{}, gen, nil, validator.New(), zap.NewNop())

	problems, err := svc.GenerateByCategory(context.Background(), " 분수 ")
	require.NoError(t, err)
	assert.Len(t, problems, 2)
	assert.Equal(t, "분수", gen.category)
	assert.Equal(t, defaultProblemCount, gen.count)
}

func TestSolveServiceGenerateRequiresCategory(t *testing.T) {
	svc := NewSolveService(&solveRepoStub{}, &unitFinderStub{}, &problemGenStub{}, nil, validator.New(), zap.NewNop())

	_, err := svc.GenerateByCategory(context.Background(), "   ")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "카테고리를 입력하세요", appErr.Message)
}
