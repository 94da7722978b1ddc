package api

import (
	"alcyxob/gymdesk/internal/domain"
	"alcyxob/gymdesk/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type TrainerHandler struct {
	trainerService service.TrainerService
	location       *time.Location
}

func NewTrainerHandler(trainerService service.TrainerService, location *time.Location) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService, location: location}
}

// TrainerRequest is the body of create and update. phoneNumber may be omitted on update.
type TrainerRequest struct {
	Name        string  `json:"name" binding:"required"`
	PhoneNumber string  `json:"phoneNumber"`
	Email       string  `json:"email"`
	Experience  int     `json:"experience"`
	Salary      float64 `json:"salary"`
	JoiningDate string  `json:"joiningDate"` // YYYY-MM-DD
}

func (r TrainerRequest) toInput(loc *time.Location) (service.TrainerInput, error) {
	joined, err := parseDate(r.JoiningDate, loc)
	if err != nil {
		return service.TrainerInput{}, domain.NewValidationError("joiningDate", "must be YYYY-MM-DD")
	}
	return service.TrainerInput{
		Name:        r.Name,
		PhoneNumber: r.PhoneNumber,
		Email:       r.Email,
		Experience:  r.Experience,
		Salary:      r.Salary,
		JoiningDate: joined,
	}, nil
}

// CreateTrainer godoc
// @Summary Add a trainer
// @Description The trainer code is derived from the last six digits of the phone number.
// @Tags Trainers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trainer body TrainerRequest true "Trainer details"
// @Success 201 {object} domain.Trainer
// @Failure 400 {object} gin.H "Validation error"
// @Failure 409 {object} gin.H "Phone number already used"
// @Router /trainers [post]
func (h *TrainerHandler) CreateTrainer(c *gin.Context) {
	var req TrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	in, err := req.toInput(h.location)
	if err != nil {
		respondError(c, "create trainer", err)
		return
	}
	t, err := h.trainerService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, "create trainer", err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// GetTrainers godoc
// @Summary List trainers of one partition
// @Tags Trainers
// @Produce json
// @Security BearerAuth
// @Param status query string false "active (default) or archived"
// @Success 200 {array} domain.Trainer
// @Router /trainers [get]
func (h *TrainerHandler) GetTrainers(c *gin.Context) {
	active, ok := partitionParam(c)
	if !ok {
		return
	}
	list, err := h.trainerService.List(c.Request.Context(), active)
	if err != nil {
		respondError(c, "load trainers", err)
		return
	}
	if list == nil {
		list = []domain.Trainer{}
	}
	c.JSON(http.StatusOK, list)
}

// GetTrainer godoc
// @Summary Get a trainer
// @Tags Trainers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainer ID"
// @Success 200 {object} domain.Trainer
// @Failure 404 {object} gin.H "Trainer not found"
// @Router /trainers/{id} [get]
func (h *TrainerHandler) GetTrainer(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	t, err := h.trainerService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "load trainer", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// UpdateTrainer godoc
// @Summary Update a trainer
// @Tags Trainers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainer ID"
// @Param trainer body TrainerRequest true "Trainer details"
// @Success 200 {object} domain.Trainer
// @Router /trainers/{id} [put]
func (h *TrainerHandler) UpdateTrainer(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req TrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	in, err := req.toInput(h.location)
	if err != nil {
		respondError(c, "update trainer", err)
		return
	}
	t, err := h.trainerService.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, "update trainer", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// ArchiveTrainer godoc
// @Summary Move a trainer to the archive
// @Tags Trainers
// @Security BearerAuth
// @Param id path string true "Trainer ID"
// @Success 204
// @Router /trainers/{id}/archive [post]
func (h *TrainerHandler) ArchiveTrainer(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.trainerService.Archive(c.Request.Context(), id); err != nil {
		respondError(c, "archive trainer", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UnarchiveTrainer godoc
// @Summary Restore an archived trainer
// @Tags Trainers
// @Security BearerAuth
// @Param id path string true "Trainer ID"
// @Success 204
// @Router /trainers/{id}/unarchive [post]
func (h *TrainerHandler) UnarchiveTrainer(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.trainerService.Unarchive(c.Request.Context(), id); err != nil {
		respondError(c, "restore trainer", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteTrainer godoc
// @Summary Permanently delete a trainer and their attendance
// @Tags Trainers
// @Security BearerAuth
// @Param id path string true "Trainer ID"
// @Success 204
// @Failure 409 {object} gin.H "Active trainees are still assigned"
// @Router /trainers/{id} [delete]
func (h *TrainerHandler) DeleteTrainer(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.trainerService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "delete trainer", err)
		return
	}
	c.Status(http.StatusNoContent)
}
