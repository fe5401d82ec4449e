package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/solvelab/practice-api/internal/models"
)

const solveColumns = "s.id, s.user_id, s.unit_id, u.name AS unit_name, s.category, s.question, s.user_input, s.is_correct, s.help_text, s.created_at"

// SolveRepository manages persistence for solve records and their aggregates.
type SolveRepository struct {
	db *sqlx.DB
}

// NewSolveRepository constructs a SolveRepository.
func NewSolveRepository(db *sqlx.DB) *SolveRepository {
	return &SolveRepository{db: db}
}

// Create appends a solve record and fills in the generated id and timestamp.
func (r *SolveRepository) Create(ctx context.Context, solve *models.Solve) error {
	if solve.CreatedAt.IsZero() {
		solve.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO solves (user_id, unit_id, category, question, user_input, is_correct, help_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.GetContext(ctx, &solve.ID, query,
		solve.UserID, solve.UnitID, solve.Category, solve.Question,
		solve.UserInput, solve.IsCorrect, solve.HelpText, solve.CreatedAt,
	); err != nil {
		return fmt.Errorf("create solve: %w", err)
	}
	return nil
}

// AggregateByUnit counts total and correct solves per unit for a user,
// optionally bounded by [from, to]. Units without matching records are
// omitted. Ordered by ascending unit id.
func (r *SolveRepository) AggregateByUnit(ctx context.Context, userID string, from, to *time.Time) ([]models.SolveUnitAggregate, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT unit_id,
        COUNT(*) AS total,
        COUNT(*) FILTER (WHERE is_correct) AS correct
        FROM solves WHERE user_id = $1`)
	args := []interface{}{userID}
	if from != nil {
		args = append(args, *from)
		builder.WriteString(fmt.Sprintf(" AND created_at >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		builder.WriteString(fmt.Sprintf(" AND created_at <= $%d", len(args)))
	}
	builder.WriteString(" GROUP BY unit_id ORDER BY unit_id ASC")

	var rows []models.SolveUnitAggregate
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("aggregate solves by unit: %w", err)
	}
	return rows, nil
}

// CountByUnitAndCorrectness returns the same counts joined against unit
// names, zero-filled: every unit in the reference table appears even with
// total = 0.
func (r *SolveRepository) CountByUnitAndCorrectness(ctx context.Context, userID string, from, to *time.Time) ([]models.UnitStats, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT u.id AS unit_id, u.name AS unit_name,
        COUNT(s.id) AS total,
        COUNT(s.id) FILTER (WHERE s.is_correct) AS correct
        FROM units u
        LEFT JOIN solves s ON s.unit_id = u.id AND s.user_id = $1`)
	args := []interface{}{userID}
	if from != nil {
		args = append(args, *from)
		builder.WriteString(fmt.Sprintf(" AND s.created_at >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		builder.WriteString(fmt.Sprintf(" AND s.created_at <= $%d", len(args)))
	}
	builder.WriteString(" GROUP BY u.id, u.name ORDER BY u.id ASC")

	var rows []models.UnitStats
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("count solves by unit: %w", err)
	}
	return rows, nil
}

// FindPaginated lists a user's solves ordered (created_at DESC, id DESC).
// A cursor returns rows strictly below (t, id) in that order. One extra row
// is fetched and trimmed so HasMore is authoritative rather than the
// items-equals-limit heuristic.
func (r *SolveRepository) FindPaginated(ctx context.Context, userID string, filter models.SolveHistoryFilter) (*models.SolvePage, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var builder strings.Builder
	builder.WriteString("SELECT " + solveColumns + " FROM solves s JOIN units u ON u.id = s.unit_id WHERE s.user_id = $1")
	args := []interface{}{userID}
	if filter.From != nil {
		args = append(args, *filter.From)
		builder.WriteString(fmt.Sprintf(" AND s.created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		builder.WriteString(fmt.Sprintf(" AND s.created_at <= $%d", len(args)))
	}
	if filter.IsCorrect != nil {
		args = append(args, *filter.IsCorrect)
		builder.WriteString(fmt.Sprintf(" AND s.is_correct = $%d", len(args)))
	}
	if filter.Cursor != nil {
		args = append(args, filter.Cursor.T)
		tIdx := len(args)
		args = append(args, filter.Cursor.ID)
		idIdx := len(args)
		builder.WriteString(fmt.Sprintf(" AND (s.created_at < $%d OR (s.created_at = $%d AND s.id < $%d))", tIdx, tIdx, idIdx))
	}
	builder.WriteString(fmt.Sprintf(" ORDER BY s.created_at DESC, s.id DESC LIMIT %d", limit+1))

	var items []models.Solve
	if err := r.db.SelectContext(ctx, &items, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list solves: %w", err)
	}

	page := &models.SolvePage{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		page.HasMore = true
	}
	return page, nil
}

// FindRecentSamplesByUnit returns at most limit recent solves for one unit,
// projected to the sample shape and ordered (created_at DESC, id DESC).
func (r *SolveRepository) FindRecentSamplesByUnit(ctx context.Context, unitID int, userID string, limit int, from, to *time.Time) ([]models.SolveSample, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}

	var builder strings.Builder
	builder.WriteString("SELECT id, question, is_correct, created_at FROM solves WHERE user_id = $1 AND unit_id = $2")
	args := []interface{}{userID, unitID}
	if from != nil {
		args = append(args, *from)
		builder.WriteString(fmt.Sprintf(" AND created_at >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		builder.WriteString(fmt.Sprintf(" AND created_at <= $%d", len(args)))
	}
	builder.WriteString(fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT %d", limit))

	var samples []models.SolveSample
	if err := r.db.SelectContext(ctx, &samples, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list solve samples: %w", err)
	}
	return samples, nil
}

// FindHelpTextByID fetches only the help text column for one solve.
func (r *SolveRepository) FindHelpTextByID(ctx context.Context, solveID int64) (*string, error) {
	const query = `SELECT help_text FROM solves WHERE id = $1`
	var helpText *string
	if err := r.db.GetContext(ctx, &helpText, query, solveID); err != nil {
		return nil, err
	}
	return helpText, nil
}
