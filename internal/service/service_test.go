package service

import (
	"alcyxob/gymdesk/internal/domain"
	"alcyxob/gymdesk/internal/repository/memory"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+1800)

// MockNotifier records which collections each write reported.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(collections ...string) {
	m.Called(collections)
}

type fixture struct {
	store    *memory.Store
	notifier *MockNotifier
	now      time.Time
	clock    Clock

	trainees   TraineeService
	trainers   TrainerService
	attendance AttendanceService
	plans      PlanService
}

// newFixture wires every service onto one in-memory store. The clock starts
// at 10:00 on 10 Mar 2026 in IST and can be moved through f.now.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    memory.NewStore(),
		notifier: &MockNotifier{},
		now:      time.Date(2026, 3, 10, 10, 0, 0, 0, ist),
	}
	f.notifier.On("Notify", mock.Anything).Return()
	f.clock = Clock{Now: func() time.Time { return f.now }, Location: ist}

	f.trainees = NewTraineeService(
		f.store.Trainees(), f.store.Trainers(), f.store.Attendance(),
		f.store.WorkoutPlans(), f.store.DietPlans(),
		f.notifier, f.clock, "Iron Temple", 0,
	)
	f.trainers = NewTrainerService(f.store.Trainers(), f.store.Trainees(), f.store.TrainerAttendance(), f.notifier, f.clock)
	f.attendance = NewAttendanceService(
		f.store.Trainees(), f.store.Trainers(), f.store.Attendance(), f.store.TrainerAttendance(),
		f.notifier, f.clock,
	)
	f.plans = NewPlanService(f.store.Trainees(), f.store.WorkoutPlans(), f.store.DietPlans(), f.notifier)
	return f
}

func traineeInput(memberID, phone string) TraineeInput {
	return TraineeInput{
		MemberID:           memberID,
		Name:               "Asha Rao",
		PhoneNumber:        phone,
		MembershipDuration: 1,
		AdmissionFee:       500,
		GoalCategory:       domain.GoalWeightLoss,
		PaymentType:        domain.PaymentCash,
	}
}

func (f *fixture) createTrainee(t *testing.T, in TraineeInput) *domain.Trainee {
	t.Helper()
	tr, err := f.trainees.Create(context.Background(), in)
	require.NoError(t, err)
	return tr
}

func (f *fixture) createTrainer(t *testing.T, name, phone string) *domain.Trainer {
	t.Helper()
	tr, err := f.trainers.Create(context.Background(), TrainerInput{Name: name, PhoneNumber: phone, Experience: 3, Salary: 20000})
	require.NoError(t, err)
	return tr
}

func squatDay(name string) domain.WorkoutDay {
	return domain.WorkoutDay{
		Name:      name,
		Exercises: []domain.Exercise{{Name: "Squat", Sets: 3, Reps: "8-10"}},
	}
}

func oatsDay() domain.DietDay {
	return domain.DietDay{
		DayName: "Weekday",
		Meals: []domain.Meal{{
			Type:      domain.MealBreakfast,
			FoodItems: []domain.FoodItem{{Name: "Oats", Quantity: "50g"}},
		}},
	}
}
