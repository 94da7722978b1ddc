package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerIDPrefix prefixes the phone-derived trainer code.
const TrainerIDPrefix = "TR"

// Trainer is a staff member who may be assigned to trainees with special training.
type Trainer struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UniqueID    string             `bson:"uniqueId" json:"uniqueId"`
	Name        string             `bson:"name" json:"name"`
	PhoneNumber string             `bson:"phoneNumber" json:"phoneNumber"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	Experience  int                `bson:"experience" json:"experience"` // years
	Salary      float64            `bson:"salary" json:"salary"`
	JoiningDate time.Time          `bson:"joiningDate" json:"joiningDate"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TrainerUniqueID derives the trainer code from the last six digits of the phone number.
func TrainerUniqueID(phone string) string {
	digits := DigitsOnly(phone)
	if len(digits) > 6 {
		digits = digits[len(digits)-6:]
	}
	return TrainerIDPrefix + digits
}
