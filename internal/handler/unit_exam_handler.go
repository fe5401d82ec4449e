package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/solvelab/practice-api/internal/service"
	appErrors "github.com/solvelab/practice-api/pkg/errors"
	"github.com/solvelab/practice-api/pkg/response"
)

// tempTeacherID stands in until teacher sessions exist.
// TODO: resolve the teacher from the session once auth lands.
const tempTeacherID = "temp-teacher"

// UnitExamHandler wires exam code generation and verification to HTTP routes.
type UnitExamHandler struct {
	exams *service.UnitExamService
}

// NewUnitExamHandler constructs a UnitExamHandler.
func NewUnitExamHandler(exams *service.UnitExamService) *UnitExamHandler {
	return &UnitExamHandler{exams: exams}
}

type generateExamBody struct {
	SelectedUnits []int64 `json:"selectedUnits"`
	QuestionCount int     `json:"questionCount"`
	TeacherID     string  `json:"teacherId"`
}

type verifyExamBody struct {
	Code string `json:"code"`
}

// Generate godoc
// @Summary Generate a unit-exam code
// @Tags UnitExam
// @Accept json
// @Produce json
// @Param payload body generateExamBody true "Exam payload"
// @Success 200 {object} map[string]interface{}
// @Router /unit-exam/generate [post]
func (h *UnitExamHandler) Generate(c *gin.Context) {
	var body generateExamBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "요청 형식이 올바르지 않습니다."})
		return
	}

	teacherID := strings.TrimSpace(body.TeacherID)
	if teacherID == "" {
		teacherID = tempTeacherID
	}

	result, err := h.exams.Generate(c.Request.Context(), service.GenerateUnitExamRequest{
		SelectedUnits: body.SelectedUnits,
		QuestionCount: body.QuestionCount,
	}, teacherID)
	if err != nil {
		appErr := appErrors.FromError(err)
		status := appErr.Status
		if status >= http.StatusInternalServerError {
			c.JSON(status, gin.H{"success": false, "error": "서버 오류가 발생했습니다."})
			return
		}
		c.JSON(status, gin.H{"success": false, "error": appErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "code": result.Code, "examId": result.ExamID})
}

// Verify godoc
// @Summary Verify a unit-exam code
// @Tags UnitExam
// @Accept json
// @Produce json
// @Param payload body verifyExamBody true "Code payload"
// @Success 200 {object} service.VerifyResult
// @Router /unit-exam/verify [post]
func (h *UnitExamHandler) Verify(c *gin.Context) {
	var body verifyExamBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "코드를 입력하세요."))
		return
	}

	result, err := h.exams.Verify(c.Request.Context(), body.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Questions godoc
// @Summary Questions for a verified exam code
// @Tags UnitExam
// @Produce json
// @Param code path string true "Exam code"
// @Success 200 {object} response.Envelope
// @Router /unit-exam/{code}/questions [get]
func (h *UnitExamHandler) Questions(c *gin.Context) {
	questions, err := h.exams.Questions(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, questions)
}
