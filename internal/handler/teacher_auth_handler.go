package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solvelab/practice-api/internal/service"
	appErrors "github.com/solvelab/practice-api/pkg/errors"
	"github.com/solvelab/practice-api/pkg/response"
)

// TeacherAuthHandler wires the teacher approval workflow to HTTP routes.
type TeacherAuthHandler struct {
	auth *service.TeacherAuthService
}

// NewTeacherAuthHandler constructs a TeacherAuthHandler.
func NewTeacherAuthHandler(auth *service.TeacherAuthService) *TeacherAuthHandler {
	return &TeacherAuthHandler{auth: auth}
}

// Create godoc
// @Summary Submit a teacher identity request
// @Tags TeacherAuth
// @Accept json
// @Produce json
// @Param payload body service.CreateTeacherAuthRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Router /teacher [post]
func (h *TeacherAuthHandler) Create(c *gin.Context) {
	var req service.CreateTeacherAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "교사 인증 요청이 올바르지 않습니다."))
		return
	}
	request, err := h.auth.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}

// ListPending godoc
// @Summary List pending teacher identity requests
// @Tags TeacherAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/teacher [get]
func (h *TeacherAuthHandler) ListPending(c *gin.Context) {
	requests, err := h.auth.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests)
}

// Approve godoc
// @Summary Approve a pending teacher identity request
// @Tags TeacherAuth
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /admin/teacher/{id}/approve [post]
func (h *TeacherAuthHandler) Approve(c *gin.Context) {
	request, err := h.auth.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request)
}

// Reject godoc
// @Summary Reject a pending teacher identity request
// @Tags TeacherAuth
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /admin/teacher/{id}/reject [post]
func (h *TeacherAuthHandler) Reject(c *gin.Context) {
	request, err := h.auth.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request)
}
