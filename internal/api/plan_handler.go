package api

import (
	"alcyxob/gymdesk/internal/domain"
	"alcyxob/gymdesk/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

type CreateWorkoutPlanRequest struct {
	TraineeID string              `json:"traineeId" binding:"required"`
	Days      []domain.WorkoutDay `json:"days" binding:"required"`
}

type CreateDietPlanRequest struct {
	TraineeID string           `json:"traineeId" binding:"required"`
	Days      []domain.DietDay `json:"days" binding:"required"`
}

// EditWorkoutPlanRequest is applied as one batch: all edits succeed and the
// result validates, or nothing is saved.
type EditWorkoutPlanRequest struct {
	Edits []domain.WorkoutEdit `json:"edits" binding:"required"`
}

type EditDietPlanRequest struct {
	Edits []domain.DietEdit `json:"edits" binding:"required"`
}

func traineeIDField(c *gin.Context, hex string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid traineeId format.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// --- Workout plans ---

// CreateWorkoutPlan godoc
// @Summary Create the workout plan of a trainee
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body CreateWorkoutPlanRequest true "Plan days"
// @Success 201 {object} domain.WorkoutPlan
// @Failure 400 {object} gin.H "Validation error"
// @Failure 409 {object} gin.H "Trainee already has a workout plan"
// @Router /workout-plans [post]
func (h *PlanHandler) CreateWorkoutPlan(c *gin.Context) {
	var req CreateWorkoutPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	traineeID, ok := traineeIDField(c, req.TraineeID)
	if !ok {
		return
	}
	plan, err := h.planService.CreateWorkoutPlan(c.Request.Context(), traineeID, req.Days)
	if err != nil {
		respondError(c, "create workout plan", err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// GetWorkoutPlans godoc
// @Summary List workout plans
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.WorkoutPlan
// @Router /workout-plans [get]
func (h *PlanHandler) GetWorkoutPlans(c *gin.Context) {
	plans, err := h.planService.ListWorkoutPlans(c.Request.Context())
	if err != nil {
		respondError(c, "load workout plans", err)
		return
	}
	if plans == nil {
		plans = []domain.WorkoutPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

// GetWorkoutPlan godoc
// @Summary Get a workout plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} domain.WorkoutPlan
// @Failure 404 {object} gin.H "Plan not found"
// @Router /workout-plans/{id} [get]
func (h *PlanHandler) GetWorkoutPlan(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	plan, err := h.planService.GetWorkoutPlan(c.Request.Context(), id)
	if err != nil {
		respondError(c, "load workout plan", err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetTraineeWorkoutPlan godoc
// @Summary Get the workout plan of a trainee
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainee ID"
// @Success 200 {object} domain.WorkoutPlan
// @Failure 404 {object} gin.H "Plan not found"
// @Router /trainees/{id}/workout-plan [get]
func (h *PlanHandler) GetTraineeWorkoutPlan(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	plan, err := h.planService.GetWorkoutPlanByTrainee(c.Request.Context(), id)
	if err != nil {
		respondError(c, "load workout plan", err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// EditWorkoutPlan godoc
// @Summary Apply a batch of structural edits to a workout plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param edits body EditWorkoutPlanRequest true "Edits, applied in order"
// @Success 200 {object} domain.WorkoutPlan
// @Failure 400 {object} gin.H "Edited plan is not valid"
// @Failure 404 {object} gin.H "Plan or plan node not found"
// @Router /workout-plans/{id} [patch]
func (h *PlanHandler) EditWorkoutPlan(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req EditWorkoutPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	plan, err := h.planService.EditWorkoutPlan(c.Request.Context(), id, req.Edits)
	if err != nil {
		respondError(c, "save workout plan", err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeleteWorkoutPlan godoc
// @Summary Delete a workout plan
// @Tags Plans
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 204
// @Router /workout-plans/{id} [delete]
func (h *PlanHandler) DeleteWorkoutPlan(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.planService.DeleteWorkoutPlan(c.Request.Context(), id); err != nil {
		respondError(c, "delete workout plan", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Diet plans ---

// CreateDietPlan godoc
// @Summary Create the diet plan of a trainee
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body CreateDietPlanRequest true "Plan days"
// @Success 201 {object} domain.DietPlan
// @Failure 409 {object} gin.H "Trainee already has a diet plan"
// @Router /diet-plans [post]
func (h *PlanHandler) CreateDietPlan(c *gin.Context) {
	var req CreateDietPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	traineeID, ok := traineeIDField(c, req.TraineeID)
	if !ok {
		return
	}
	plan, err := h.planService.CreateDietPlan(c.Request.Context(), traineeID, req.Days)
	if err != nil {
		respondError(c, "create diet plan", err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// GetDietPlans godoc
// @Summary List diet plans
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.DietPlan
// @Router /diet-plans [get]
func (h *PlanHandler) GetDietPlans(c *gin.Context) {
	plans, err := h.planService.ListDietPlans(c.Request.Context())
	if err != nil {
		respondError(c, "load diet plans", err)
		return
	}
	if plans == nil {
		plans = []domain.DietPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

// GetDietPlan godoc
// @Summary Get a diet plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} domain.DietPlan
// @Router /diet-plans/{id} [get]
func (h *PlanHandler) GetDietPlan(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	plan, err := h.planService.GetDietPlan(c.Request.Context(), id)
	if err != nil {
		respondError(c, "load diet plan", err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetTraineeDietPlan godoc
// @Summary Get the diet plan of a trainee
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainee ID"
// @Success 200 {object} domain.DietPlan
// @Router /trainees/{id}/diet-plan [get]
func (h *PlanHandler) GetTraineeDietPlan(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	plan, err := h.planService.GetDietPlanByTrainee(c.Request.Context(), id)
	if err != nil {
		respondError(c, "load diet plan", err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// EditDietPlan godoc
// @Summary Apply a batch of structural edits to a diet plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param edits body EditDietPlanRequest true "Edits, applied in order"
// @Success 200 {object} domain.DietPlan
// @Router /diet-plans/{id} [patch]
func (h *PlanHandler) EditDietPlan(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req EditDietPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	plan, err := h.planService.EditDietPlan(c.Request.Context(), id, req.Edits)
	if err != nil {
		respondError(c, "save diet plan", err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeleteDietPlan godoc
// @Summary Delete a diet plan
// @Tags Plans
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 204
// @Router /diet-plans/{id} [delete]
func (h *PlanHandler) DeleteDietPlan(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.planService.DeleteDietPlan(c.Request.Context(), id); err != nil {
		respondError(c, "delete diet plan", err)
		return
	}
	c.Status(http.StatusNoContent)
}
