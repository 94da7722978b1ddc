package api

import (
	"alcyxob/gymdesk/internal/domain"
	"alcyxob/gymdesk/internal/live"
	"alcyxob/gymdesk/internal/repository"
	"alcyxob/gymdesk/internal/service"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dateLayout = "2006-01-02"

// respondError maps service errors to status codes. Anything unrecognised is
// logged and reported as "Failed to <op>".
func respondError(c *gin.Context, op string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		abortWithError(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, service.ErrTraineeNotFound),
		errors.Is(err, service.ErrTrainerNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrUnknownLedger),
		errors.Is(err, domain.ErrNodeNotFound),
		errors.Is(err, live.ErrUnknownFeed):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateMemberID),
		errors.Is(err, service.ErrDuplicatePhone),
		errors.Is(err, service.ErrPlanExists),
		errors.Is(err, service.ErrTrainerHasTrainees),
		errors.Is(err, repository.ErrDuplicate):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNotToday),
		errors.Is(err, service.ErrNotCheckedIn):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("ERROR: Failed to %s: %v", op, err)
		abortWithError(c, http.StatusInternalServerError, fmt.Sprintf("Failed to %s. Please try again.", op))
	}
}

// pathObjectID parses a hex ObjectID path parameter, aborting with 400 when malformed.
func pathObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format.", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseDate reads a YYYY-MM-DD value as local midnight in loc. Empty yields the zero time.
func parseDate(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(dateLayout, value, loc)
}

// parseOptionalObjectID returns nil for an empty string.
func parseOptionalObjectID(value string) (*primitive.ObjectID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
