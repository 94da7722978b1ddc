package service

import (
	"alcyxob/gymdesk/internal/domain"
	"errors"
	"time"
)

// --- Error Definitions ---
var (
	ErrTraineeNotFound    = errors.New("trainee not found")
	ErrTrainerNotFound    = errors.New("trainer not found")
	ErrPlanNotFound       = errors.New("plan not found")
	ErrDuplicateMemberID  = errors.New("a trainee with this member ID already exists")
	ErrDuplicatePhone     = errors.New("a record with this phone number already exists")
	ErrNotToday           = errors.New("attendance can only be changed for today")
	ErrNotCheckedIn       = errors.New("trainer has not checked in today")
	ErrPlanExists         = errors.New("trainee already has a plan of this type")
	ErrTrainerHasTrainees = errors.New("trainer still has active trainees assigned")
	ErrUnknownLedger      = errors.New("unknown attendance ledger")
)

// Notifier is told which collections a successful write touched.
// *live.Hub implements it.
type Notifier interface {
	Notify(collections ...string)
}

// Clock supplies the current time and the time zone that defines a calendar day.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// SystemClock reads the wall clock.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Now: time.Now, Location: loc}
}

// Today is local midnight of the current day.
func (c Clock) Today() time.Time {
	return domain.DayOf(c.Now(), c.Location)
}
