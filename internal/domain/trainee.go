package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GoalCategory is the trainee's stated training goal.
type GoalCategory string

const (
	GoalWeightLoss     GoalCategory = "WeightLoss"
	GoalWeightGain     GoalCategory = "WeightGain"
	GoalMuscleGain     GoalCategory = "MuscleGain"
	GoalGeneralFitness GoalCategory = "GeneralFitness"
	GoalStrength       GoalCategory = "Strength"
	GoalEndurance      GoalCategory = "Endurance"
)

// Valid reports whether g is one of the known goal categories.
func (g GoalCategory) Valid() bool {
	switch g {
	case GoalWeightLoss, GoalWeightGain, GoalMuscleGain, GoalGeneralFitness, GoalStrength, GoalEndurance:
		return true
	}
	return false
}

// PaymentType is how the admission/membership fee was paid.
type PaymentType string

const (
	PaymentCash   PaymentType = "Cash"
	PaymentOnline PaymentType = "Online"
)

func (p PaymentType) Valid() bool {
	return p == PaymentCash || p == PaymentOnline
}

// MembershipDurations lists the membership lengths (in months) that can be sold.
var MembershipDurations = []int{1, 3, 6, 12}

// ValidDuration reports whether months is a sellable membership length.
func ValidDuration(months int) bool {
	for _, d := range MembershipDurations {
		if d == months {
			return true
		}
	}
	return false
}

// Trainee is a gym member enrolled under a timed membership.
type Trainee struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	// MemberID is the operator-assigned member number. Documents written by the
	// original dashboard stored it as uniqueId; use EffectiveMemberID to read it.
	MemberID            string              `bson:"memberId,omitempty" json:"memberId"`
	LegacyUniqueID      string              `bson:"uniqueId,omitempty" json:"-"`
	Name                string              `bson:"name" json:"name"`
	PhoneNumber         string              `bson:"phoneNumber" json:"phoneNumber"`
	MembershipDuration  int                 `bson:"membershipDuration" json:"membershipDuration"` // months
	MembershipStartDate time.Time           `bson:"membershipStartDate" json:"membershipStartDate"`
	MembershipEndDate   time.Time           `bson:"membershipEndDate" json:"membershipEndDate"`
	AdmissionFee        float64             `bson:"admissionFee" json:"admissionFee"`
	SpecialTraining     bool                `bson:"specialTraining" json:"specialTraining"`
	AssignedTrainerID   *primitive.ObjectID `bson:"assignedTrainerId,omitempty" json:"assignedTrainerId,omitempty"`
	GoalCategory        GoalCategory        `bson:"goalCategory" json:"goalCategory"`
	PaymentType         PaymentType         `bson:"paymentType" json:"paymentType"`
	IsActive            bool                `bson:"isActive" json:"isActive"`
	CreatedAt           time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// EffectiveMemberID returns memberId, falling back to the legacy uniqueId field.
func (t *Trainee) EffectiveMemberID() string {
	if t.MemberID != "" {
		return t.MemberID
	}
	return t.LegacyUniqueID
}

// Status classifies the membership relative to now.
func (t *Trainee) Status(now time.Time) MembershipStatus {
	return StatusFor(t.MembershipEndDate, now)
}
