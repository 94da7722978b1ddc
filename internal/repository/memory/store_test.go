package memory

import (
	"alcyxob/gymdesk/internal/domain"
	"alcyxob/gymdesk/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrainee(memberID, phone string) *domain.Trainee {
	return &domain.Trainee{MemberID: memberID, Name: "Member " + memberID, PhoneNumber: phone, MembershipDuration: 1, IsActive: true}
}

func TestTraineeUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Trainees()

	_, err := repo.Create(ctx, newTrainee("M001", "9876543210"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newTrainee("M001", "9876543211"))
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = repo.Create(ctx, newTrainee("M002", "9876543210"))
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestTraineeUpdateKeepsPartition(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Trainees()

	tr := newTrainee("M001", "9876543210")
	id, err := repo.Create(ctx, tr)
	require.NoError(t, err)
	require.NoError(t, repo.SetActive(ctx, id, false))

	tr.Name = "Renamed"
	tr.IsActive = true
	require.NoError(t, repo.Update(ctx, tr))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.False(t, got.IsActive)
}

func TestTraineeDeleteCascade(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	id, err := store.Trainees().Create(ctx, newTrainee("M001", "9876543210"))
	require.NoError(t, err)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	_, err = store.Attendance().Create(ctx, &domain.AttendanceRecord{SubjectID: id, Date: day, Present: true})
	require.NoError(t, err)
	_, err = store.WorkoutPlans().Create(ctx, &domain.WorkoutPlan{TraineeID: id})
	require.NoError(t, err)
	_, err = store.DietPlans().Create(ctx, &domain.DietPlan{TraineeID: id})
	require.NoError(t, err)

	require.NoError(t, store.Trainees().DeleteCascade(ctx, id))

	recs, err := store.Attendance().ListByRange(ctx, &id, day, day)
	require.NoError(t, err)
	assert.Empty(t, recs)
	_, err = store.WorkoutPlans().GetByTraineeID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = store.DietPlans().GetByTraineeID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, store.Trainees().DeleteCascade(ctx, id), repository.ErrNotFound)
}

func TestTrainerDeleteCascade(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	id, err := store.Trainers().Create(ctx, &domain.Trainer{Name: "Coach", PhoneNumber: "9123456789", IsActive: true})
	require.NoError(t, err)

	for d := 1; d <= 3; d++ {
		day := time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
		_, err = store.TrainerAttendance().Create(ctx, &domain.AttendanceRecord{SubjectID: id, Date: day, Present: true})
		require.NoError(t, err)
	}

	require.NoError(t, store.Trainers().DeleteCascade(ctx, id))

	recs, err := store.TrainerAttendance().ListByRange(ctx, nil,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestAttendanceOneRecordPerDay(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	id, err := store.Trainees().Create(ctx, newTrainee("M001", "9876543210"))
	require.NoError(t, err)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	_, err = store.Attendance().Create(ctx, &domain.AttendanceRecord{SubjectID: id, Date: day, Present: true})
	require.NoError(t, err)
	_, err = store.Attendance().Create(ctx, &domain.AttendanceRecord{SubjectID: id, Date: day, Present: false})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	// The trainer ledger is a separate table.
	_, err = store.TrainerAttendance().Create(ctx, &domain.AttendanceRecord{SubjectID: id, Date: day, Present: true})
	assert.NoError(t, err)
}

func TestPlanUniquePerTrainee(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	id, err := store.Trainees().Create(ctx, newTrainee("M001", "9876543210"))
	require.NoError(t, err)

	_, err = store.WorkoutPlans().Create(ctx, &domain.WorkoutPlan{TraineeID: id})
	require.NoError(t, err)
	_, err = store.WorkoutPlans().Create(ctx, &domain.WorkoutPlan{TraineeID: id})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestPlanReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	id, err := store.Trainees().Create(ctx, newTrainee("M001", "9876543210"))
	require.NoError(t, err)

	plan := &domain.WorkoutPlan{TraineeID: id, Days: []domain.WorkoutDay{domain.NewWorkoutDay(1)}}
	planID, err := store.WorkoutPlans().Create(ctx, plan)
	require.NoError(t, err)

	got, err := store.WorkoutPlans().GetByID(ctx, planID)
	require.NoError(t, err)
	got.Days[0].Name = "mutated"

	again, err := store.WorkoutPlans().GetByID(ctx, planID)
	require.NoError(t, err)
	assert.Equal(t, "Day 1", again.Days[0].Name)
}

func TestRenameResyncsDenormalizedNames(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	id, err := store.Trainees().Create(ctx, newTrainee("M001", "9876543210"))
	require.NoError(t, err)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	_, err = store.Attendance().Create(ctx, &domain.AttendanceRecord{SubjectID: id, SubjectName: "Old", Date: day, Present: true})
	require.NoError(t, err)
	_, err = store.DietPlans().Create(ctx, &domain.DietPlan{TraineeID: id, TraineeName: "Old"})
	require.NoError(t, err)

	require.NoError(t, store.Attendance().RenameSubject(ctx, id, "New"))
	require.NoError(t, store.DietPlans().RenameTrainee(ctx, id, "New"))

	rec, err := store.Attendance().GetBySubjectAndDate(ctx, id, day)
	require.NoError(t, err)
	assert.Equal(t, "New", rec.SubjectName)
	plan, err := store.DietPlans().GetByTraineeID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New", plan.TraineeName)
}
