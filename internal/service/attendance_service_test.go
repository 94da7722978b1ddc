package service

import (
	"alcyxob/gymdesk/internal/domain"
	"alcyxob/gymdesk/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMarkToggleCycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.createTrainee(t, traineeInput("M001", "9876543210"))

	steps := []struct {
		present bool
		action  domain.AttendanceAction
		state   domain.AttendanceState
	}{
		{true, domain.ActionCreate, domain.StatePresent},
		{false, domain.ActionUpdate, domain.StateAbsent},
		{false, domain.ActionDelete, domain.StateNoRecord},
		{false, domain.ActionCreate, domain.StateAbsent},
		{true, domain.ActionUpdate, domain.StatePresent},
		{true, domain.ActionDelete, domain.StateNoRecord},
	}
	for i, s := range steps {
		res, err := f.attendance.Mark(ctx, TraineeLedger, tr.ID, f.now, s.present)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, s.action, res.Action, "step %d", i)
		assert.Equal(t, s.state, res.State, "step %d", i)

		records, err := f.attendance.ListByDate(ctx, TraineeLedger, f.now)
		require.NoError(t, err)
		if s.state == domain.StateNoRecord {
			assert.Empty(t, records, "step %d", i)
			assert.Nil(t, res.Record)
		} else {
			require.Len(t, records, 1, "step %d", i)
			assert.Equal(t, f.clock.Today(), records[0].Date)
			assert.Equal(t, "Asha Rao", records[0].SubjectName)
		}
	}
	f.notifier.AssertCalled(t, "Notify", []string{repository.AttendanceCollection})
}

func TestMarkOnlyToday(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.createTrainee(t, traineeInput("M001", "9876543210"))

	for _, date := range []time.Time{f.now.AddDate(0, 0, -1), f.now.AddDate(0, 0, 1)} {
		_, err := f.attendance.Mark(ctx, TraineeLedger, tr.ID, date, true)
		assert.ErrorIs(t, err, ErrNotToday)
	}
	records, err := f.attendance.History(ctx, TraineeLedger, tr.ID, f.now.AddDate(0, 0, -2), f.now.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Empty(t, records)

	// 23:30 UTC on 9 Mar is already 10 Mar in IST.
	_, err = f.attendance.Mark(ctx, TraineeLedger, tr.ID, time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC), true)
	assert.NoError(t, err)
}

func TestMarkUnknownSubject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.attendance.Mark(ctx, TraineeLedger, primitive.NewObjectID(), f.now, true)
	assert.ErrorIs(t, err, ErrTraineeNotFound)

	_, err = f.attendance.Mark(ctx, TrainerLedger, primitive.NewObjectID(), f.now, true)
	assert.ErrorIs(t, err, ErrTrainerNotFound)

	_, err = f.attendance.Mark(ctx, Ledger("visitors"), primitive.NewObjectID(), f.now, true)
	assert.ErrorIs(t, err, ErrUnknownLedger)
}

func TestMarkLedgersAreSeparate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	trainer := f.createTrainer(t, "Ravi", "9123456789")

	_, err := f.attendance.Mark(ctx, TrainerLedger, trainer.ID, f.now, true)
	require.NoError(t, err)

	trainees, err := f.attendance.ListByDate(ctx, TraineeLedger, f.now)
	require.NoError(t, err)
	assert.Empty(t, trainees)
	trainers, err := f.attendance.ListByDate(ctx, TrainerLedger, f.now)
	require.NoError(t, err)
	assert.Len(t, trainers, 1)
	f.notifier.AssertCalled(t, "Notify", []string{repository.TrainerAttendanceCollection})
}

func TestTrainerCheckInCheckOut(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.createTrainer(t, "Ravi", "9123456789")

	_, err := f.attendance.CheckOut(ctx, tr.ID)
	assert.ErrorIs(t, err, ErrNotCheckedIn)

	rec, err := f.attendance.CheckIn(ctx, tr.ID)
	require.NoError(t, err)
	assert.True(t, rec.Present)
	assert.Equal(t, "10:00", rec.CheckInTime)

	f.now = f.now.Add(8*time.Hour + 30*time.Minute)
	rec, err = f.attendance.CheckOut(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, "10:00", rec.CheckInTime)
	assert.Equal(t, "18:30", rec.CheckOutTime)

	records, err := f.attendance.ListByDate(ctx, TrainerLedger, f.now)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "18:30", records[0].CheckOutTime)
}

func TestTrainerCheckOutWhenMarkedAbsent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.createTrainer(t, "Ravi", "9123456789")
	_, err := f.attendance.Mark(ctx, TrainerLedger, tr.ID, f.now, false)
	require.NoError(t, err)

	_, err = f.attendance.CheckOut(ctx, tr.ID)
	assert.ErrorIs(t, err, ErrNotCheckedIn)

	// Checking in turns the absent mark into a present one.
	rec, err := f.attendance.CheckIn(ctx, tr.ID)
	require.NoError(t, err)
	assert.True(t, rec.Present)
	records, err := f.attendance.ListByDate(ctx, TrainerLedger, f.now)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestAttendanceSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.createTrainee(t, traineeInput("M001", "9876543210"))
	b := f.createTrainee(t, traineeInput("M002", "9876543211"))

	// Tuesday 10 Mar: a present, b absent. Monday 9 Mar: a present. 1 Mar is
	// the previous week.
	_, err := f.attendance.Mark(ctx, TraineeLedger, a.ID, f.now, true)
	require.NoError(t, err)
	_, err = f.attendance.Mark(ctx, TraineeLedger, b.ID, f.now, false)
	require.NoError(t, err)
	repo := f.store.Attendance()
	_, err = repo.Create(ctx, &domain.AttendanceRecord{SubjectID: a.ID, SubjectName: a.Name, Date: time.Date(2026, 3, 9, 0, 0, 0, 0, ist), Present: true})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.AttendanceRecord{SubjectID: a.ID, SubjectName: a.Name, Date: time.Date(2026, 3, 1, 0, 0, 0, 0, ist), Present: true})
	require.NoError(t, err)

	week, err := f.attendance.Summary(ctx, TraineeLedger, domain.PeriodWeekly, f.now, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, ist), week.From)
	assert.Equal(t, 2, week.Present)
	assert.Equal(t, 1, week.Absent)
	assert.Equal(t, 3, week.Total)

	month, err := f.attendance.Summary(ctx, TraineeLedger, domain.PeriodMonthly, f.now, &a.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, month.Present)
	require.Len(t, month.Subjects, 1)
	assert.Equal(t, a.ID, month.Subjects[0].SubjectID)

	_, err = f.attendance.Summary(ctx, TraineeLedger, domain.Period("hourly"), f.now, nil)
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAttendanceHistoryRange(t *testing.T) {
	f := newFixture(t)

	_, err := f.attendance.History(context.Background(), TraineeLedger, primitive.NewObjectID(), f.now, f.now.AddDate(0, 0, -1))

	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}
