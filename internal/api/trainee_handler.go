package api

import (
	"alcyxob/gymdesk/internal/domain"
	"alcyxob/gymdesk/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type TraineeHandler struct {
	traineeService service.TraineeService
	location       *time.Location
}

func NewTraineeHandler(traineeService service.TraineeService, location *time.Location) *TraineeHandler {
	return &TraineeHandler{traineeService: traineeService, location: location}
}

// --- DTOs ---

// TraineeRequest is the body of create and update. On update memberId and
// phoneNumber may be omitted; membershipStartDate is ignored.
type TraineeRequest struct {
	MemberID            string  `json:"memberId"`
	Name                string  `json:"name" binding:"required"`
	PhoneNumber         string  `json:"phoneNumber"`
	MembershipDuration  int     `json:"membershipDuration" binding:"required"`
	MembershipStartDate string  `json:"membershipStartDate"` // YYYY-MM-DD, defaults to today
	AdmissionFee        float64 `json:"admissionFee"`
	SpecialTraining     bool    `json:"specialTraining"`
	AssignedTrainerID   string  `json:"assignedTrainerId"`
	GoalCategory        string  `json:"goalCategory" binding:"required"`
	PaymentType         string  `json:"paymentType" binding:"required"`
}

func (r TraineeRequest) toInput(loc *time.Location) (service.TraineeInput, error) {
	start, err := parseDate(r.MembershipStartDate, loc)
	if err != nil {
		return service.TraineeInput{}, domain.NewValidationError("membershipStartDate", "must be YYYY-MM-DD")
	}
	trainerID, err := parseOptionalObjectID(r.AssignedTrainerID)
	if err != nil {
		return service.TraineeInput{}, domain.NewValidationError("assignedTrainerId", "is not a valid id")
	}
	return service.TraineeInput{
		MemberID:            r.MemberID,
		Name:                r.Name,
		PhoneNumber:         r.PhoneNumber,
		MembershipDuration:  r.MembershipDuration,
		MembershipStartDate: start,
		AdmissionFee:        r.AdmissionFee,
		SpecialTraining:     r.SpecialTraining,
		AssignedTrainerID:   trainerID,
		GoalCategory:        domain.GoalCategory(r.GoalCategory),
		PaymentType:         domain.PaymentType(r.PaymentType),
	}, nil
}

type WhatsAppLinkResponse struct {
	URL string `json:"url"`
}

func (h *TraineeHandler) view(t *domain.Trainee) service.TraineeView {
	return service.ViewTrainee(*t, h.traineeService.Now())
}

// --- Handler Methods ---

// CreateTrainee godoc
// @Summary Enroll a new trainee
// @Description Validates the trainee, computes the membership end date and stores it as active.
// @Tags Trainees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trainee body TraineeRequest true "Trainee details"
// @Success 201 {object} service.TraineeView
// @Failure 400 {object} gin.H "Validation error"
// @Failure 409 {object} gin.H "Member ID or phone number already used"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainees [post]
func (h *TraineeHandler) CreateTrainee(c *gin.Context) {
	var req TraineeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	in, err := req.toInput(h.location)
	if err != nil {
		respondError(c, "create trainee", err)
		return
	}
	t, err := h.traineeService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, "create trainee", err)
		return
	}
	c.JSON(http.StatusCreated, h.view(t))
}

// GetTrainees godoc
// @Summary List trainees of one partition
// @Tags Trainees
// @Produce json
// @Security BearerAuth
// @Param status query string false "active (default) or archived"
// @Success 200 {array} service.TraineeView
// @Router /trainees [get]
func (h *TraineeHandler) GetTrainees(c *gin.Context) {
	active, ok := partitionParam(c)
	if !ok {
		return
	}
	list, err := h.traineeService.List(c.Request.Context(), active)
	if err != nil {
		respondError(c, "load trainees", err)
		return
	}
	now := h.traineeService.Now()
	views := make([]service.TraineeView, len(list))
	for i, t := range list {
		views[i] = service.ViewTrainee(t, now)
	}
	c.JSON(http.StatusOK, views)
}

// GetTrainee godoc
// @Summary Get a trainee
// @Tags Trainees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainee ID"
// @Success 200 {object} service.TraineeView
// @Failure 404 {object} gin.H "Trainee not found"
// @Router /trainees/{id} [get]
func (h *TraineeHandler) GetTrainee(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	t, err := h.traineeService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "load trainee", err)
		return
	}
	c.JSON(http.StatusOK, h.view(t))
}

// UpdateTrainee godoc
// @Summary Update a trainee
// @Description Member ID and phone number cannot change once set. A new duration recomputes the end date from the original start date.
// @Tags Trainees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainee ID"
// @Param trainee body TraineeRequest true "Trainee details"
// @Success 200 {object} service.TraineeView
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Trainee not found"
// @Failure 409 {object} gin.H "Member ID or phone number already used"
// @Router /trainees/{id} [put]
func (h *TraineeHandler) UpdateTrainee(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req TraineeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	in, err := req.toInput(h.location)
	if err != nil {
		respondError(c, "update trainee", err)
		return
	}
	t, err := h.traineeService.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, "update trainee", err)
		return
	}
	c.JSON(http.StatusOK, h.view(t))
}

// ArchiveTrainee godoc
// @Summary Move a trainee to the archive
// @Tags Trainees
// @Security BearerAuth
// @Param id path string true "Trainee ID"
// @Success 204
// @Failure 404 {object} gin.H "Trainee not found"
// @Router /trainees/{id}/archive [post]
func (h *TraineeHandler) ArchiveTrainee(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.traineeService.Archive(c.Request.Context(), id); err != nil {
		respondError(c, "archive trainee", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UnarchiveTrainee godoc
// @Summary Restore an archived trainee
// @Tags Trainees
// @Security BearerAuth
// @Param id path string true "Trainee ID"
// @Success 204
// @Router /trainees/{id}/unarchive [post]
func (h *TraineeHandler) UnarchiveTrainee(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.traineeService.Unarchive(c.Request.Context(), id); err != nil {
		respondError(c, "restore trainee", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteTrainee godoc
// @Summary Permanently delete a trainee
// @Description Also removes the trainee's attendance and plans. Cannot be undone.
// @Tags Trainees
// @Security BearerAuth
// @Param id path string true "Trainee ID"
// @Success 204
// @Failure 404 {object} gin.H "Trainee not found"
// @Router /trainees/{id} [delete]
func (h *TraineeHandler) DeleteTrainee(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.traineeService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "delete trainee", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetExpiring godoc
// @Summary Memberships expiring within the notification horizon
// @Tags Trainees
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.ExpiringMembership
// @Router /expiring [get]
func (h *TraineeHandler) GetExpiring(c *gin.Context) {
	list, err := h.traineeService.Expiring(c.Request.Context())
	if err != nil {
		respondError(c, "load expiring memberships", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetWhatsAppLink godoc
// @Summary WhatsApp deep link with a canned message for the trainee
// @Tags Trainees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainee ID"
// @Param kind query string false "expiry (default) or welcome"
// @Success 200 {object} WhatsAppLinkResponse
// @Router /trainees/{id}/whatsapp [get]
func (h *TraineeHandler) GetWhatsAppLink(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	link, err := h.traineeService.WhatsAppLink(c.Request.Context(), id, domain.MessageKind(c.Query("kind")))
	if err != nil {
		respondError(c, "build WhatsApp link", err)
		return
	}
	c.JSON(http.StatusOK, WhatsAppLinkResponse{URL: link})
}

// partitionParam reads ?status=active|archived.
func partitionParam(c *gin.Context) (bool, bool) {
	switch c.DefaultQuery("status", "active") {
	case "active":
		return true, true
	case "archived":
		return false, true
	}
	abortWithError(c, http.StatusBadRequest, "status must be active or archived")
	return false, false
}
