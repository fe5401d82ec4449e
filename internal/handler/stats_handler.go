package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/solvelab/practice-api/internal/models"
	"github.com/solvelab/practice-api/internal/service"
	appErrors "github.com/solvelab/practice-api/pkg/errors"
	"github.com/solvelab/practice-api/pkg/response"
)

// StatsHandler wires the solve statistics service to HTTP routes.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs a StatsHandler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// AggregateByUnit godoc
// @Summary Per-unit solve counts for a user
// @Tags Stats
// @Produce json
// @Param userId query string true "User ID"
// @Param from query string false "Range start (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Range end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /solves/stats [get]
func (h *StatsHandler) AggregateByUnit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	from, to, err := parseRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	rows, err := h.stats.AggregateByUnit(c.Request.Context(), userID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows)
}

// UnitStats godoc
// @Summary Zero-filled per-unit statistics with unit names
// @Tags Stats
// @Produce json
// @Param userId query string true "User ID"
// @Param from query string false "Range start"
// @Param to query string false "Range end"
// @Success 200 {object} response.Envelope
// @Router /solves/stats/units [get]
func (h *StatsHandler) UnitStats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	from, to, err := parseRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	rows, cached, err := h.stats.UnitStats(c.Request.Context(), userID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, map[string]interface{}{"cached": cached})
}

// History godoc
// @Summary Cursor-paginated solve history
// @Tags Stats
// @Produce json
// @Param userId query string true "User ID"
// @Param from query string false "Range start"
// @Param to query string false "Range end"
// @Param correct query bool false "Filter by correctness"
// @Param cursor_t query string false "Cursor timestamp (RFC3339)"
// @Param cursor_id query int false "Cursor record id"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} response.Envelope
// @Router /solves/history [get]
func (h *StatsHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	from, to, err := parseRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := models.SolveHistoryFilter{From: from, To: to}
	if correct := c.Query("correct"); correct != "" {
		switch strings.ToLower(correct) {
		case "true":
			val := true
			filter.IsCorrect = &val
		case "false":
			val := false
			filter.IsCorrect = &val
		}
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.Limit = limit
	}

	cursorT := c.Query("cursor_t")
	cursorID := c.Query("cursor_id")
	if cursorT != "" || cursorID != "" {
		t, tErr := time.Parse(time.RFC3339Nano, cursorT)
		id, idErr := strconv.ParseInt(cursorID, 10, 64)
		if tErr != nil || idErr != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "커서 형식이 올바르지 않습니다."))
			return
		}
		filter.Cursor = &models.SolveCursor{T: t, ID: id}
	}

	page, err := h.stats.History(c.Request.Context(), userID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page)
}

// RecentSamples godoc
// @Summary Recent solve samples for one unit
// @Tags Stats
// @Produce json
// @Param unitId path int true "Unit ID"
// @Param userId query string true "User ID"
// @Param limit query int false "Sample size (default 5, max 50)"
// @Success 200 {object} response.Envelope
// @Router /solves/units/{unitId}/samples [get]
func (h *StatsHandler) RecentSamples(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	unitID, err := strconv.Atoi(c.Param("unitId"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "단원 정보가 올바르지 않습니다."))
		return
	}
	from, to, rangeErr := parseRange(c)
	if rangeErr != nil {
		response.Error(c, rangeErr)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	samples, err := h.stats.RecentSamplesByUnit(c.Request.Context(), unitID, userID, limit, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, samples)
}

// HelpText godoc
// @Summary Help text for one solve record
// @Tags Stats
// @Produce json
// @Param id path int true "Solve ID"
// @Success 200 {object} response.Envelope
// @Router /solves/{id}/help [get]
func (h *StatsHandler) HelpText(c *gin.Context) {
	solveID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "풀이 기록 정보가 올바르지 않습니다."))
		return
	}

	helpText, err := h.stats.HelpText(c.Request.Context(), solveID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"helpText": helpText})
}

// Export godoc
// @Summary Export zero-filled unit statistics as CSV or PDF
// @Tags Stats
// @Produce text/csv
// @Produce application/pdf
// @Param userId query string true "User ID"
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} byte
// @Router /solves/stats/export [get]
func (h *StatsHandler) Export(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	from, to, err := parseRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format := service.StatsExportFormat(strings.ToLower(c.DefaultQuery("format", "csv")))

	doc, err := h.stats.ExportUnitStats(c.Request.Context(), userID, format, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+doc.Filename)
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

func requireUserID(c *gin.Context) (string, bool) {
	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "사용자 정보가 필요합니다."))
		return "", false
	}
	return userID, true
}

// parseRange reads optional from/to parameters, accepting RFC3339 timestamps
// or bare dates.
func parseRange(c *gin.Context) (*time.Time, *time.Time, error) {
	from, err := parseTimeParam(c.Query("from"))
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "조회 시작일 형식이 올바르지 않습니다.")
	}
	to, err := parseTimeParam(c.Query("to"))
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "조회 종료일 형식이 올바르지 않습니다.")
	}
	return from, to, nil
}

func parseTimeParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
