package api

import (
	"alcyxob/gymdesk/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	exportService service.ExportService
}

func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportWorkoutPlan godoc
// @Summary Render a workout plan as a branded HTML document
// @Description Returns a presigned download link, or the HTML inline when no bucket is configured.
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} service.ExportResult
// @Failure 404 {object} gin.H "Plan not found"
// @Router /exports/workout-plans/{id} [post]
func (h *ExportHandler) ExportWorkoutPlan(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	res, err := h.exportService.ExportWorkoutPlan(c.Request.Context(), id)
	if err != nil {
		respondError(c, "export workout plan", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ExportDietPlan godoc
// @Summary Render a diet plan as a branded HTML document
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} service.ExportResult
// @Router /exports/diet-plans/{id} [post]
func (h *ExportHandler) ExportDietPlan(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	res, err := h.exportService.ExportDietPlan(c.Request.Context(), id)
	if err != nil {
		respondError(c, "export diet plan", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ExportTraineeCard godoc
// @Summary Render a trainee's member card
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainee ID"
// @Success 200 {object} service.ExportResult
// @Router /exports/trainees/{id} [post]
func (h *ExportHandler) ExportTraineeCard(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	res, err := h.exportService.ExportTraineeCard(c.Request.Context(), id)
	if err != nil {
		respondError(c, "export member card", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
