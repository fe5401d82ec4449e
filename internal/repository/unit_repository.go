package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/solvelab/practice-api/internal/models"
)

// UnitRepository manages the curriculum unit reference table.
type UnitRepository struct {
	db *sqlx.DB
}

// NewUnitRepository constructs a UnitRepository.
func NewUnitRepository(db *sqlx.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

// List returns all units ordered by id.
func (r *UnitRepository) List(ctx context.Context) ([]models.Unit, error) {
	const query = `SELECT id, name FROM units ORDER BY id ASC`
	var units []models.Unit
	if err := r.db.SelectContext(ctx, &units, query); err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return units, nil
}

// FindByID fetches a unit by id.
func (r *UnitRepository) FindByID(ctx context.Context, id int) (*models.Unit, error) {
	const query = `SELECT id, name FROM units WHERE id = $1`
	var unit models.Unit
	if err := r.db.GetContext(ctx, &unit, query, id); err != nil {
		return nil, err
	}
	return &unit, nil
}

// ExistAll reports whether every id references an existing unit.
func (r *UnitRepository) ExistAll(ctx context.Context, ids []int64) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	const query = `SELECT COUNT(DISTINCT id) FROM units WHERE id = ANY($1)`
	var count int
	if err := r.db.GetContext(ctx, &count, query, pq.Array(ids)); err != nil {
		return false, fmt.Errorf("check units exist: %w", err)
	}
	return count == len(dedupe(ids)), nil
}

// Create inserts a new unit and fills in the generated id.
func (r *UnitRepository) Create(ctx context.Context, unit *models.Unit) error {
	const query = `INSERT INTO units (name) VALUES ($1) RETURNING id`
	if err := r.db.GetContext(ctx, &unit.ID, query, unit.Name); err != nil {
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
