package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solvelab/practice-api/internal/service"
	appErrors "github.com/solvelab/practice-api/pkg/errors"
	"github.com/solvelab/practice-api/pkg/response"
)

// UnitHandler wires curriculum unit management to HTTP routes.
type UnitHandler struct {
	units *service.UnitService
}

// NewUnitHandler constructs a UnitHandler.
func NewUnitHandler(units *service.UnitService) *UnitHandler {
	return &UnitHandler{units: units}
}

// List godoc
// @Summary List curriculum units
// @Tags Units
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /units [get]
func (h *UnitHandler) List(c *gin.Context) {
	units, err := h.units.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, units)
}

// Create godoc
// @Summary Create a curriculum unit
// @Tags Units
// @Accept json
// @Produce json
// @Param payload body service.CreateUnitRequest true "Unit payload"
// @Success 201 {object} response.Envelope
// @Router /unit [post]
func (h *UnitHandler) Create(c *gin.Context) {
	var req service.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "단원 이름을 확인해 주세요."))
		return
	}
	unit, err := h.units.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, unit)
}
