package export

import (
	"alcyxob/gymdesk/internal/domain"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var letterhead = Letterhead{GymName: "Iron Temple", Address: "12 MG Road", Phone: "9876543210"}

func TestWorkoutDocument(t *testing.T) {
	plan := &domain.WorkoutPlan{
		TraineeName: "Asha",
		UpdatedAt:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Days: []domain.WorkoutDay{{
			Name:  "Push",
			Notes: "warm up first",
			Exercises: []domain.Exercise{
				{Name: "Bench Press", Sets: 4, Reps: "8-10"},
				{Name: "Dips | weighted", Sets: 3, Reps: "12"},
			},
		}},
	}

	page, err := RenderHTML("Workout", WorkoutMarkdown(letterhead, plan))
	require.NoError(t, err)
	html := string(page)

	assert.Contains(t, html, "<h1>Iron Temple</h1>")
	assert.Contains(t, html, "Workout Plan: Asha")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "Bench Press")
	assert.Contains(t, html, "Dips | weighted")
	assert.Contains(t, html, "02 Mar 2026")
}

func TestDietDocument(t *testing.T) {
	plan := &domain.DietPlan{
		TraineeName: "Ravi",
		Days: []domain.DietDay{{
			DayNumber: 1,
			DayName:   "Monday",
			Meals: []domain.Meal{{
				Type:      domain.MealBreakfast,
				Name:      "Oats bowl",
				FoodItems: []domain.FoodItem{{Name: "Oats", Quantity: "50g"}, {Name: "Banana"}},
			}},
		}},
	}

	md := DietMarkdown(letterhead, plan)
	assert.Contains(t, md, "### Day 1: Monday")
	assert.Contains(t, md, "**Breakfast (Oats bowl)**")
	assert.Contains(t, md, "- Oats: 50g")
	assert.Contains(t, md, "- Banana\n")

	page, err := RenderHTML("Diet", md)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<li>Oats: 50g</li>")
}

func TestTraineeCard(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	tr := &domain.Trainee{
		Name:                "Asha",
		LegacyUniqueID:      "OLD-1",
		PhoneNumber:         "9876543210",
		MembershipDuration:  1,
		MembershipStartDate: now.AddDate(0, 0, -28),
		MembershipEndDate:   now.AddDate(0, 0, 2),
		SpecialTraining:     true,
		GoalCategory:        domain.GoalStrength,
		PaymentType:         domain.PaymentCash,
	}

	md := TraineeCardMarkdown(letterhead, tr, "Coach Vik", now)
	assert.Contains(t, md, "| Member ID | OLD-1 |")
	assert.Contains(t, md, "| Status | expiring |")
	assert.Contains(t, md, "| Trainer | Coach Vik |")
}

func TestUserTextIsEscaped(t *testing.T) {
	plan := &domain.WorkoutPlan{
		TraineeName: "<script>alert(1)</script>",
		Days:        []domain.WorkoutDay{{Name: "*bold*", Exercises: []domain.Exercise{{Name: "x", Sets: 1}}}},
	}
	page, err := RenderHTML("<x>", WorkoutMarkdown(letterhead, plan))
	require.NoError(t, err)
	html := string(page)

	assert.False(t, strings.Contains(html, "<script>"))
	assert.Contains(t, html, "<title>&lt;x&gt;</title>")
	assert.Contains(t, html, "*bold*")
}
