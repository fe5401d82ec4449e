package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/solvelab/practice-api/internal/models"
	appErrors "github.com/solvelab/practice-api/pkg/errors"
	"github.com/solvelab/practice-api/pkg/export"
)

// solveStatsRepository describes the persistence layer required by StatsService.
type solveStatsRepository interface {
	AggregateByUnit(ctx context.Context, userID string, from, to *time.Time) ([]models.SolveUnitAggregate, error)
	CountByUnitAndCorrectness(ctx context.Context, userID string, from, to *time.Time) ([]models.UnitStats, error)
	FindPaginated(ctx context.Context, userID string, filter models.SolveHistoryFilter) (*models.SolvePage, error)
	FindRecentSamplesByUnit(ctx context.Context, unitID int, userID string, limit int, from, to *time.Time) ([]models.SolveSample, error)
	FindHelpTextByID(ctx context.Context, solveID int64) (*string, error)
}

// StatsExportFormat enumerates supported export encodings.
type StatsExportFormat string

const (
	StatsExportCSV StatsExportFormat = "csv"
	StatsExportPDF StatsExportFormat = "pdf"
)

// StatsExport is a rendered statistics document.
type StatsExport struct {
	Content     []byte
	ContentType string
	Filename    string
}

// StatsService computes solve statistics with cache integration.
type StatsService struct {
	repo    solveStatsRepository
	cache   *CacheService
	metrics *MetricsService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewStatsService constructs a StatsService.
func NewStatsService(repo solveStatsRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// AggregateByUnit returns per-unit total/correct counts for a user,
// optionally bounded by [from, to]. Units without matching records are
// omitted; callers must not assume a unit is present.
func (s *StatsService) AggregateByUnit(ctx context.Context, userID string, from, to *time.Time) ([]models.SolveUnitAggregate, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := s.repo.AggregateByUnit(ctx, userID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "풀이 통계를 불러오지 못했습니다.")
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("solve_aggregate_by_unit", time.Since(start))
	}
	if rows == nil {
		rows = []models.SolveUnitAggregate{}
	}
	return rows, nil
}

// UnitStats returns zero-filled per-unit counts joined with unit names.
// The result is cached per user and date range; the boolean reports whether
// the payload came from cache.
func (s *StatsService) UnitStats(ctx context.Context, userID string, from, to *time.Time) ([]models.UnitStats, bool, error) {
	if err := validateRange(from, to); err != nil {
		return nil, false, err
	}

	cacheKey := statsCacheKey(userID, formatTime(from), formatTime(to))
	var cached []models.UnitStats
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, true, nil
		}
	}

	start := time.Now()
	rows, err := s.repo.CountByUnitAndCorrectness(ctx, userID, from, to)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "단원별 통계를 불러오지 못했습니다.")
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("solve_unit_stats", time.Since(start))
	}
	if rows == nil {
		rows = []models.UnitStats{}
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, rows, 0); err != nil {
			s.logger.Warn("cache unit stats", zap.Error(err))
		}
	}
	return rows, false, nil
}

// History returns one page of a user's solve records. A cursor restricts the
// page to records strictly below (t, id) under (created_at DESC, id DESC).
func (s *StatsService) History(ctx context.Context, userID string, filter models.SolveHistoryFilter) (*models.SolvePage, error) {
	if err := validateRange(filter.From, filter.To); err != nil {
		return nil, err
	}

	start := time.Now()
	page, err := s.repo.FindPaginated(ctx, userID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "풀이 기록을 불러오지 못했습니다.")
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("solve_history", time.Since(start))
	}
	if page.Items == nil {
		page.Items = []models.Solve{}
	}
	return page, nil
}

// RecentSamplesByUnit returns at most limit recent solves for one unit.
func (s *StatsService) RecentSamplesByUnit(ctx context.Context, unitID int, userID string, limit int, from, to *time.Time) ([]models.SolveSample, error) {
	if unitID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "단원 정보가 올바르지 않습니다.")
	}
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	samples, err := s.repo.FindRecentSamplesByUnit(ctx, unitID, userID, limit, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "최근 풀이를 불러오지 못했습니다.")
	}
	if samples == nil {
		samples = []models.SolveSample{}
	}
	return samples, nil
}

// HelpText returns the help text stored on one solve record.
func (s *StatsService) HelpText(ctx context.Context, solveID int64) (*string, error) {
	helpText, err := s.repo.FindHelpTextByID(ctx, solveID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "풀이 기록을 찾을 수 없습니다.")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "도움말을 불러오지 못했습니다.")
	}
	return helpText, nil
}

// ExportUnitStats renders the zero-filled unit statistics as CSV or PDF.
func (s *StatsService) ExportUnitStats(ctx context.Context, userID string, format StatsExportFormat, from, to *time.Time) (*StatsExport, error) {
	stats, _, err := s.UnitStats(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"Unit ID", "Unit", "Total", "Correct"},
		Rows:    make([]map[string]string, 0, len(stats)),
	}
	for _, row := range stats {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Unit ID": strconv.Itoa(row.UnitID),
			"Unit":    row.UnitName,
			"Total":   strconv.Itoa(row.Total),
			"Correct": strconv.Itoa(row.Correct),
		})
	}

	switch format {
	case StatsExportCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "통계 내보내기에 실패했습니다.")
		}
		return &StatsExport{Content: content, ContentType: "text/csv", Filename: "unit-stats.csv"}, nil
	case StatsExportPDF:
		content, err := s.pdf.Render(dataset, "Unit Statistics")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "통계 내보내기에 실패했습니다.")
		}
		return &StatsExport{Content: content, ContentType: "application/pdf", Filename: "unit-stats.pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "지원하지 않는 내보내기 형식입니다.")
	}
}

func validateRange(from, to *time.Time) error {
	if from != nil && to != nil && from.After(*to) {
		return appErrors.Clone(appErrors.ErrValidation, "조회 기간이 올바르지 않습니다.")
	}
	return nil
}

func statsCacheKey(parts ...string) string {
	var builder strings.Builder
	builder.Grow(len(parts) * 16)
	builder.WriteString("stats:units")
	for _, part := range parts {
		builder.WriteString(":")
		if part == "" {
			builder.WriteString("-")
			continue
		}
		builder.WriteString(part)
	}
	return builder.String()
}

// statsCachePattern matches every cached stats payload for one user.
func statsCachePattern(userID string) string {
	return fmt.Sprintf("stats:units:%s:*", userID)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
