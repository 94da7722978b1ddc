package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNextAttendanceAction_Cycle(t *testing.T) {
	assert.Equal(t, ActionCreate, NextAttendanceAction(nil, true))
	assert.Equal(t, ActionCreate, NextAttendanceAction(nil, false))

	present := &AttendanceRecord{Present: true}
	assert.Equal(t, ActionDelete, NextAttendanceAction(present, true))
	assert.Equal(t, ActionUpdate, NextAttendanceAction(present, false))

	absent := &AttendanceRecord{Present: false}
	assert.Equal(t, ActionDelete, NextAttendanceAction(absent, false))
	assert.Equal(t, ActionUpdate, NextAttendanceAction(absent, true))
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, StateNoRecord, StateOf(nil))
	assert.Equal(t, StatePresent, StateOf(&AttendanceRecord{Present: true}))
	assert.Equal(t, StateAbsent, StateOf(&AttendanceRecord{}))
}

func TestDayOf_UsesLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC on the 1st is 01:30 on the 2nd in IST.
	instant := time.Date(2024, time.March, 1, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, time.March, 2, 0, 0, 0, 0, ist), DayOf(instant, ist))
	assert.True(t, SameDay(instant, time.Date(2024, time.March, 2, 23, 0, 0, 0, ist), ist))
	assert.False(t, SameDay(instant, time.Date(2024, time.March, 1, 23, 0, 0, 0, ist), ist))
}

func TestPeriodRange(t *testing.T) {
	loc := time.UTC
	// Thursday.
	ref := time.Date(2024, time.February, 15, 18, 0, 0, 0, loc)
	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, loc) }

	tests := []struct {
		period   Period
		from, to time.Time
	}{
		{PeriodDaily, day(time.February, 15), day(time.February, 15)},
		{PeriodWeekly, day(time.February, 12), day(time.February, 18)},
		{PeriodMonthly, day(time.February, 1), day(time.February, 29)},
		{PeriodYearly, day(time.January, 1), day(time.December, 31)},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			from, to, err := PeriodRange(tt.period, ref, loc)
			require.NoError(t, err)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}

	_, _, err := PeriodRange("hourly", ref, loc)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestPeriodRange_WeekStartsMonday(t *testing.T) {
	loc := time.UTC
	sunday := time.Date(2024, time.March, 10, 12, 0, 0, 0, loc)
	monday := time.Date(2024, time.March, 11, 12, 0, 0, 0, loc)

	from, to, _ := PeriodRange(PeriodWeekly, sunday, loc)
	assert.Equal(t, time.Monday, from.Weekday())
	assert.Equal(t, 4, from.Day())
	assert.Equal(t, 10, to.Day())

	from, _, _ = PeriodRange(PeriodWeekly, monday, loc)
	assert.Equal(t, 11, from.Day())
}

func TestSummarize(t *testing.T) {
	loc := time.UTC
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	on := func(d int) time.Time { return time.Date(2024, time.April, d, 0, 0, 0, 0, loc) }
	records := []AttendanceRecord{
		{SubjectID: a, SubjectName: "Asha", Date: on(1), Present: true},
		{SubjectID: a, SubjectName: "Asha", Date: on(2), Present: false},
		{SubjectID: b, SubjectName: "Bala", Date: on(7), Present: true},
		{SubjectID: b, SubjectName: "Bala", Date: on(8), Present: true}, // next week
	}

	week, err := Summarize(records, PeriodWeekly, on(3), loc)
	require.NoError(t, err)
	assert.Equal(t, 3, week.Total)
	assert.Equal(t, 2, week.Present)
	assert.Equal(t, 1, week.Absent)
	require.Len(t, week.Subjects, 2)
	assert.Equal(t, SubjectTally{SubjectID: a, SubjectName: "Asha", Present: 1, Absent: 1}, week.Subjects[0])

	month, err := Summarize(records, PeriodMonthly, on(20), loc)
	require.NoError(t, err)
	assert.Equal(t, 4, month.Total)

	day, err := Summarize(records, PeriodDaily, on(9), loc)
	require.NoError(t, err)
	assert.Zero(t, day.Total)
	assert.NotNil(t, day.Subjects)
}
