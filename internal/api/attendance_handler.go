package api

import (
	"alcyxob/gymdesk/internal/domain"
	"alcyxob/gymdesk/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AttendanceHandler struct {
	attendanceService service.AttendanceService
	location          *time.Location
}

func NewAttendanceHandler(attendanceService service.AttendanceService, location *time.Location) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService, location: location}
}

// MarkRequest toggles one subject's attendance. Date defaults to today and
// must be today when given.
type MarkRequest struct {
	SubjectID string `json:"subjectId" binding:"required"`
	Date      string `json:"date"`
	Present   *bool  `json:"present" binding:"required"`
}

func ledgerParam(c *gin.Context) service.Ledger {
	return service.Ledger(c.Param("ledger"))
}

// dateQuery reads a YYYY-MM-DD query value, falling back to today.
func (h *AttendanceHandler) dateQuery(c *gin.Context, key string) (time.Time, bool) {
	d, err := parseDate(c.Query(key), h.location)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, key+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	if d.IsZero() {
		d = h.attendanceService.Today()
	}
	return d, true
}

// Mark godoc
// @Summary Toggle attendance for today
// @Description No record creates one; the opposite status updates it; the same status again removes it.
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ledger path string true "trainees or trainers"
// @Param mark body MarkRequest true "Mark request"
// @Success 200 {object} service.MarkResult
// @Failure 404 {object} gin.H "Subject not found"
// @Failure 422 {object} gin.H "Date is not today"
// @Router /attendance/{ledger}/mark [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	subjectID, err := primitive.ObjectIDFromHex(req.SubjectID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid subjectId format.")
		return
	}
	date, err := parseDate(req.Date, h.location)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if date.IsZero() {
		date = h.attendanceService.Today()
	}

	res, err := h.attendanceService.Mark(c.Request.Context(), ledgerParam(c), subjectID, date, *req.Present)
	if err != nil {
		respondError(c, "mark attendance", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetByDate godoc
// @Summary Attendance records of one day
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param ledger path string true "trainees or trainers"
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {array} domain.AttendanceRecord
// @Router /attendance/{ledger} [get]
func (h *AttendanceHandler) GetByDate(c *gin.Context) {
	date, ok := h.dateQuery(c, "date")
	if !ok {
		return
	}
	records, err := h.attendanceService.ListByDate(c.Request.Context(), ledgerParam(c), date)
	if err != nil {
		respondError(c, "load attendance", err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetHistory godoc
// @Summary One subject's attendance between two days (inclusive)
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param ledger path string true "trainees or trainers"
// @Param subjectId path string true "Trainee or trainer ID"
// @Param from query string false "YYYY-MM-DD, defaults to today"
// @Param to query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {array} domain.AttendanceRecord
// @Router /attendance/{ledger}/subjects/{subjectId} [get]
func (h *AttendanceHandler) GetHistory(c *gin.Context) {
	subjectID, ok := pathObjectID(c, "subjectId")
	if !ok {
		return
	}
	from, ok := h.dateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := h.dateQuery(c, "to")
	if !ok {
		return
	}
	records, err := h.attendanceService.History(c.Request.Context(), ledgerParam(c), subjectID, from, to)
	if err != nil {
		respondError(c, "load attendance history", err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetSummary godoc
// @Summary Present/absent counts for the period containing a day
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param ledger path string true "trainees or trainers"
// @Param period query string false "daily, weekly, monthly (default) or yearly"
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Param subjectId query string false "Restrict to one subject"
// @Success 200 {object} domain.AttendanceSummary
// @Router /attendance/{ledger}/summary [get]
func (h *AttendanceHandler) GetSummary(c *gin.Context) {
	ref, ok := h.dateQuery(c, "date")
	if !ok {
		return
	}
	subjectID, err := parseOptionalObjectID(c.Query("subjectId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid subjectId format.")
		return
	}
	period := domain.Period(c.DefaultQuery("period", string(domain.PeriodMonthly)))

	summary, err := h.attendanceService.Summary(c.Request.Context(), ledgerParam(c), period, ref, subjectID)
	if err != nil {
		respondError(c, "summarize attendance", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CheckIn godoc
// @Summary Record a trainer's arrival time for today
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainer ID"
// @Success 200 {object} domain.AttendanceRecord
// @Router /trainers/{id}/check-in [post]
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	rec, err := h.attendanceService.CheckIn(c.Request.Context(), id)
	if err != nil {
		respondError(c, "check in", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// CheckOut godoc
// @Summary Record a trainer's departure time for today
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainer ID"
// @Success 200 {object} domain.AttendanceRecord
// @Failure 422 {object} gin.H "Trainer has not checked in today"
// @Router /trainers/{id}/check-out [post]
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	rec, err := h.attendanceService.CheckOut(c.Request.Context(), id)
	if err != nil {
		respondError(c, "check out", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
