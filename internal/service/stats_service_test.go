package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solvelab/practice-api/internal/models"
	appErrors "github.com/solvelab/practice-api/pkg/errors"
)

type statsRepoMock struct {
	aggregates []models.SolveUnitAggregate
	unitStats  []models.UnitStats
	page       *models.SolvePage
	samples    []models.SolveSample
	helpText   *string
	helpErr    error

	unitStatsCalls int
}

func (m *statsRepoMock) AggregateByUnit(ctx context.Context, userID string, from, to *time.Time) ([]models.SolveUnitAggregate, error) {
	return m.aggregates, nil
}

func (m *statsRepoMock) CountByUnitAndCorrectness(ctx context.Context, userID string, from, to *time.Time) ([]models.UnitStats, error) {
	m.unitStatsCalls++
	return m.unitStats, nil
}

func (m *statsRepoMock) FindPaginated(ctx context.Context, userID string, filter models.SolveHistoryFilter) (*models.SolvePage, error) {
	return m.page, nil
}

func (m *statsRepoMock) FindRecentSamplesByUnit(ctx context.Context, unitID int, userID string, limit int, from, to *time.Time) ([]models.SolveSample, error) {
	return m.samples, nil
}

func (m *statsRepoMock) FindHelpTextByID(ctx context.Context, solveID int64) (*string, error) {
	if m.helpErr != nil {
		return nil, m.helpErr
	}
	return m.helpText, nil
}

// cacheRepoStub keeps JSON payloads in a map, mirroring the Redis-backed
// repository closely enough for cache-path tests.
type cacheRepoStub struct {
	entries map[string][]byte
}

func newCacheRepoStub() *cacheRepoStub {
	return &cacheRepoStub{entries: map[string][]byte{}}
}

func (s *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := s.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.entries[key] = raw
	return nil
}

func (s *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	for key := range s.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(s.entries, key)
		}
	}
	return nil
}

func TestStatsServiceAggregateByUnit(t *testing.T) {
	repo := &statsRepoMock{aggregates: []models.SolveUnitAggregate{
		{UnitID: 1, Total: 10, Correct: 7},
		{UnitID: 2, Total: 4, Correct: 4},
	}}
	svc := NewStatsService(repo, nil, nil, zap.NewNop())

	aggs, err := svc.AggregateByUnit(context.Background(), "user-1", nil, nil)
	require.NoError(t, err)
	require.Len(t, aggs, 2)
	for _, agg := range aggs {
		assert.LessOrEqual(t, agg.Correct, agg.Total)
	}
	assert.Equal(t, 1, aggs[0].UnitID)
	assert.Equal(t, 2, aggs[1].UnitID)
}

func TestStatsServiceAggregateEmptyIsNotNil(t *testing.T) {
	repo := &statsRepoMock{}
	svc := NewStatsService(repo, nil, nil, zap.NewNop())

	aggs, err := svc.AggregateByUnit(context.Background(), "user-1", nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, aggs)
	assert.Empty(t, aggs)
}

func TestStatsServiceRejectsInvertedRange(t *testing.T) {
	repo := &statsRepoMock{}
	svc := NewStatsService(repo, nil, nil, zap.NewNop())

	to := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	from := to.Add(24 * time.Hour)
	_, err := svc.AggregateByUnit(context.Background(), "user-1", &from, &to)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, _, err = svc.UnitStats(context.Background(), "user-1", &from, &to)
	require.Error(t, err)

	_, err = svc.History(context.Background(), "user-1", models.SolveHistoryFilter{From: &from, To: &to})
	require.Error(t, err)
}

func TestStatsServiceUnitStatsCaches(t *testing.T) {
	repo := &statsRepoMock{unitStats: []models.UnitStats{
		{UnitID: 1, UnitName: "분수의 덧셈", Total: 5, Correct: 3},
		{UnitID: 2, UnitName: "소수의 곱셈", Total: 0, Correct: 0},
	}}
	cacheStub := newCacheRepoStub()
	cache := NewCacheService(cacheStub, nil, time.Minute, zap.NewNop(), true)
	svc := NewStatsService(repo, cache, nil, zap.NewNop())

	stats, cached, err := svc.UnitStats(context.Background(), "user-1", nil, nil)
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, stats, 2)
	assert.Equal(t, 1, repo.unitStatsCalls)

	stats, cached, err = svc.UnitStats(context.Background(), "user-1", nil, nil)
	require.NoError(t, err)
	assert.True(t, cached)
	require.Len(t, stats, 2)
	assert.Equal(t, "소수의 곱셈", stats[1].UnitName)
	assert.Equal(t, 1, repo.unitStatsCalls)
}

func TestStatsServiceUnitStatsKeyVariesByRange(t *testing.T) {
	repo := &statsRepoMock{unitStats: []models.UnitStats{{UnitID: 1, UnitName: "분수의 덧셈"}}}
	cacheStub := newCacheRepoStub()
	cache := NewCacheService(cacheStub, nil, time.Minute, zap.NewNop(), true)
	svc := NewStatsService(repo, cache, nil, zap.NewNop())

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, _, err := svc.UnitStats(context.Background(), "user-1", nil, nil)
	require.NoError(t, err)
	_, _, err = svc.UnitStats(context.Background(), "user-1", &from, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.unitStatsCalls)
	assert.Len(t, cacheStub.entries, 2)
	for key := range cacheStub.entries {
		assert.True(t, strings.HasPrefix(key, "stats:units:user-1:"))
	}
}

func TestStatsServiceHistory(t *testing.T) {
	now := time.Now()
	repo := &statsRepoMock{page: &models.SolvePage{
		Items: []models.Solve{
			{ID: 30, CreatedAt: now},
			{ID: 20, CreatedAt: now.Add(-time.Minute)},
		},
		HasMore: true,
	}}
	svc := NewStatsService(repo, nil, nil, zap.NewNop())

	page, err := svc.History(context.Background(), "user-1", models.SolveHistoryFilter{Limit: 2})
	require.NoError(t, err)
	assert.True(t, page.HasMore)
	require.Len(t, page.Items, 2)
	assert.Greater(t, page.Items[0].ID, page.Items[1].ID)
}

func TestStatsServiceRecentSamplesRejectsBadUnit(t *testing.T) {
	repo := &statsRepoMock{}
	svc := NewStatsService(repo, nil, nil, zap.NewNop())

	_, err := svc.RecentSamplesByUnit(context.Background(), 0, "user-1", 5, nil, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStatsServiceHelpText(t *testing.T) {
	help := "통분 후 더합니다."
	repo := &statsRepoMock{helpText: &help}
	svc := NewStatsService(repo, nil, nil, zap.NewNop())

	found, err := svc.HelpText(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, help, *found)

	repo.helpErr = sql.ErrNoRows
	_, err = svc.HelpText(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStatsServiceExportUnitStats(t *testing.T) {
	repo := &statsRepoMock{unitStats: []models.UnitStats{
		{UnitID: 1, UnitName: "Fractions", Total: 5, Correct: 3},
	}}
	svc := NewStatsService(repo, nil, nil, zap.NewNop())

	out, err := svc.ExportUnitStats(context.Background(), "user-1", StatsExportCSV, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", out.ContentType)
	assert.Contains(t, string(out.Content), "Fractions")
	assert.Contains(t, string(out.Content), "Unit ID")

	out, err = svc.ExportUnitStats(context.Background(), "user-1", StatsExportPDF, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.NotEmpty(t, out.Content)

	_, err = svc.ExportUnitStats(context.Background(), "user-1", "xlsx", nil, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
