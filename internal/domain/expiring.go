package domain

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultExpiryHorizonDays is how far ahead the expiry notifier looks.
const DefaultExpiryHorizonDays = 4

// ExpiringMembership is a derived view over an active trainee; it is never stored.
type ExpiringMembership struct {
	TraineeID       primitive.ObjectID `json:"traineeId"`
	TraineeName     string             `json:"traineeName"`
	PhoneNumber     string             `json:"phoneNumber"`
	ExpiryDate      time.Time          `json:"expiryDate"`
	DaysUntilExpiry int                `json:"daysUntilExpiry"`
}

// ExpiringMemberships returns the trainees whose membership ends within
// 0..horizon days of now, soonest first. Archived trainees are skipped even if
// the caller passes them in. The result never aliases the input.
func ExpiringMemberships(trainees []Trainee, now time.Time, horizon int) []ExpiringMembership {
	out := make([]ExpiringMembership, 0)
	for i := range trainees {
		t := &trainees[i]
		if !t.IsActive {
			continue
		}
		days := DaysUntil(t.MembershipEndDate, now)
		if days < 0 || days > horizon {
			continue
		}
		out = append(out, ExpiringMembership{
			TraineeID:       t.ID,
			TraineeName:     t.Name,
			PhoneNumber:     t.PhoneNumber,
			ExpiryDate:      t.MembershipEndDate,
			DaysUntilExpiry: days,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DaysUntilExpiry != out[j].DaysUntilExpiry {
			return out[i].DaysUntilExpiry < out[j].DaysUntilExpiry
		}
		return out[i].TraineeName < out[j].TraineeName
	})
	return out
}
