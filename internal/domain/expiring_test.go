package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func traineeEndingIn(name string, now time.Time, days int, active bool) Trainee {
	return Trainee{
		ID:                primitive.NewObjectID(),
		Name:              name,
		PhoneNumber:       "9876543210",
		MembershipEndDate: now.AddDate(0, 0, days),
		IsActive:          active,
	}
}

func TestExpiringMemberships_Horizon(t *testing.T) {
	now := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	trainees := []Trainee{
		traineeEndingIn("five", now, 5, true),
		traineeEndingIn("four", now, 4, true),
		traineeEndingIn("zero", now, 0, true),
		traineeEndingIn("expired", now, -1, true),
		traineeEndingIn("archived", now, 2, false),
		traineeEndingIn("two", now, 2, true),
	}

	got := ExpiringMemberships(trainees, now, DefaultExpiryHorizonDays)

	names := make([]string, len(got))
	for i, e := range got {
		names[i] = e.TraineeName
	}
	assert.Equal(t, []string{"zero", "two", "four"}, names)
	assert.Equal(t, 4, got[2].DaysUntilExpiry)
	assert.Equal(t, trainees[1].ID, got[2].TraineeID)
}

func TestExpiringMemberships_Idempotent(t *testing.T) {
	now := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	trainees := []Trainee{traineeEndingIn("a", now, 1, true), traineeEndingIn("b", now, 3, true)}

	first := ExpiringMemberships(trainees, now, 4)
	second := ExpiringMemberships(trainees, now, 4)

	assert.Equal(t, first, second)
}

func TestExpiringMemberships_EmptyNotNil(t *testing.T) {
	got := ExpiringMemberships(nil, time.Now(), 4)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
