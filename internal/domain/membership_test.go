package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
}

func TestComputeMembershipEnd(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"one month mid-month", date(2024, time.March, 15), 1, date(2024, time.April, 15)},
		{"jan 31 plus one in leap year", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"jan 31 plus one", date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{"aug 31 plus three", date(2023, time.August, 31), 3, date(2023, time.November, 30)},
		{"mar 31 plus six", date(2023, time.March, 31), 6, date(2023, time.September, 30)},
		{"year rollover", date(2023, time.November, 30), 3, date(2024, time.February, 29)},
		{"twelve months from leap day", date(2024, time.February, 29), 12, date(2025, time.February, 28)},
		{"dec plus twelve", date(2023, time.December, 1), 12, date(2024, time.December, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeMembershipEnd(tt.start, tt.months))
		})
	}
}

func TestComputeMembershipEnd_AllDurationsAdvanceExactMonths(t *testing.T) {
	start := date(2024, time.January, 1)
	for day := 0; day < 366; day++ {
		s := start.AddDate(0, 0, day)
		for _, d := range MembershipDurations {
			end := ComputeMembershipEnd(s, d)
			months := (end.Year()-s.Year())*12 + int(end.Month()) - int(s.Month())
			assert.Equal(t, d, months, "start %s duration %d", s.Format("2006-01-02"), d)
			assert.LessOrEqual(t, end.Day(), s.Day())
			assert.Equal(t, s.Hour(), end.Hour())
		}
	}
}

func TestRecomputeOnDurationChange_UsesOriginalStart(t *testing.T) {
	start := date(2024, time.January, 10)
	original := &Trainee{
		MembershipDuration:  1,
		MembershipStartDate: start,
		MembershipEndDate:   ComputeMembershipEnd(start, 1),
	}

	assert.Equal(t, date(2024, time.July, 10), RecomputeOnDurationChange(original, 6))
	assert.Equal(t, original.MembershipEndDate, RecomputeOnDurationChange(original, 1))
}

func TestDaysUntil(t *testing.T) {
	now := date(2024, time.May, 1)
	assert.Equal(t, 0, DaysUntil(now, now))
	assert.Equal(t, 1, DaysUntil(now.Add(time.Minute), now))
	assert.Equal(t, 1, DaysUntil(now.Add(24*time.Hour), now))
	assert.Equal(t, 2, DaysUntil(now.Add(25*time.Hour), now))
	assert.Equal(t, 0, DaysUntil(now.Add(-time.Hour), now))
	assert.Equal(t, -1, DaysUntil(now.Add(-24*time.Hour), now))
}

func TestStatusForDays_TotalPartition(t *testing.T) {
	for days := -400; days <= 400; days++ {
		status := StatusForDays(days)
		matches := 0
		if days < 0 && status == MembershipExpired {
			matches++
		}
		if days >= 0 && days <= 3 && status == MembershipExpiring {
			matches++
		}
		if days > 3 && status == MembershipActive {
			matches++
		}
		assert.Equal(t, 1, matches, "days=%d status=%s", days, status)
	}
}

func TestTrainee_StatusRecomputesWithClock(t *testing.T) {
	today := date(2024, time.May, 1)
	tr := &Trainee{MembershipStartDate: today, MembershipDuration: 1, MembershipEndDate: ComputeMembershipEnd(today, 1)}

	assert.Equal(t, MembershipActive, tr.Status(today))
	assert.Equal(t, MembershipExpiring, tr.Status(tr.MembershipEndDate.AddDate(0, 0, -2)))
	assert.Equal(t, MembershipExpired, tr.Status(tr.MembershipEndDate.AddDate(0, 0, 2)))
}

func TestTrainee_EffectiveMemberID(t *testing.T) {
	assert.Equal(t, "M-01", (&Trainee{MemberID: "M-01", LegacyUniqueID: "OLD"}).EffectiveMemberID())
	assert.Equal(t, "OLD", (&Trainee{LegacyUniqueID: "OLD"}).EffectiveMemberID())
}

func TestValidDuration(t *testing.T) {
	for _, d := range []int{1, 3, 6, 12} {
		assert.True(t, ValidDuration(d))
	}
	for _, d := range []int{0, 2, 4, 24, -1} {
		assert.False(t, ValidDuration(d))
	}
}
