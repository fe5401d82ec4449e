package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solvelab/practice-api/internal/service"
	appErrors "github.com/solvelab/practice-api/pkg/errors"
	"github.com/solvelab/practice-api/pkg/response"
)

// SolveHandler wires solve recording and problem generation to HTTP routes.
type SolveHandler struct {
	solves *service.SolveService
}

// NewSolveHandler constructs a SolveHandler.
func NewSolveHandler(solves *service.SolveService) *SolveHandler {
	return &SolveHandler{solves: solves}
}

// Generate godoc
// @Summary Generate practice problems for a category
// @Tags Solves
// @Produce json
// @Param category query string true "Problem category"
// @Success 200 {object} response.Envelope
// @Router /solves [get]
func (h *SolveHandler) Generate(c *gin.Context) {
	problems, err := h.solves.GenerateByCategory(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, problems)
}

// Record godoc
// @Summary Record a solve attempt
// @Tags Solves
// @Accept json
// @Produce json
// @Param payload body service.RecordSolveRequest true "Solve payload"
// @Success 201 {object} response.Envelope
// @Router /solves [post]
func (h *SolveHandler) Record(c *gin.Context) {
	var req service.RecordSolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "풀이 기록 요청이 올바르지 않습니다."))
		return
	}
	solve, err := h.solves.Record(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, solve)
}
