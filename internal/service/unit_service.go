package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/solvelab/practice-api/internal/models"
	appErrors "github.com/solvelab/practice-api/pkg/errors"
)

type unitRepository interface {
	List(ctx context.Context) ([]models.Unit, error)
	Create(ctx context.Context, unit *models.Unit) error
}

// CreateUnitRequest represents payload for creating a curriculum unit.
type CreateUnitRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// UnitService manages curriculum units.
type UnitService struct {
	repo      unitRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUnitService constructs a UnitService.
func NewUnitService(repo unitRepository, validate *validator.Validate, logger *zap.Logger) *UnitService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnitService{repo: repo, validator: validate, logger: logger}
}

// List returns all units ordered by id.
func (s *UnitService) List(ctx context.Context) ([]models.Unit, error) {
	units, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "단원 목록을 불러오지 못했습니다.")
	}
	if units == nil {
		units = []models.Unit{}
	}
	return units, nil
}

// Create registers a new curriculum unit.
func (s *UnitService) Create(ctx context.Context, req CreateUnitRequest) (*models.Unit, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "단원 이름을 확인해 주세요.")
	}

	unit := &models.Unit{Name: strings.TrimSpace(req.Name)}
	if err := s.repo.Create(ctx, unit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "단원 생성에 실패했습니다.")
	}
	return unit, nil
}
