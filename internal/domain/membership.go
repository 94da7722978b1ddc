package domain

import (
	"math"
	"time"
)

// MembershipStatus is derived from the membership end date; it is never stored.
type MembershipStatus string

const (
	MembershipActive   MembershipStatus = "active"
	MembershipExpiring MembershipStatus = "expiring"
	MembershipExpired  MembershipStatus = "expired"
)

// ExpiringWithinDays is the upper bound (inclusive) of the "expiring" status.
const ExpiringWithinDays = 3

// ComputeMembershipEnd adds calendar months to start. When start's day of month
// does not exist in the target month the result is that month's last day, so
// Jan 31 + 1 month is Feb 28 (or 29).
func ComputeMembershipEnd(start time.Time, months int) time.Time {
	y, m, d := start.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, start.Location())
	if last := daysInMonth(first.Year(), first.Month(), start.Location()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d,
		start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), start.Location())
}

func daysInMonth(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// RecomputeOnDurationChange returns the end date for original after its duration
// is changed to months. The window is always measured from the original start
// date; an unchanged duration keeps the stored end date.
func RecomputeOnDurationChange(original *Trainee, months int) time.Time {
	if months == original.MembershipDuration {
		return original.MembershipEndDate
	}
	return ComputeMembershipEnd(original.MembershipStartDate, months)
}

// DaysUntil returns ceil((end - now) / 24h).
func DaysUntil(end, now time.Time) int {
	days := math.Ceil(float64(end.Sub(now)) / float64(24*time.Hour))
	return int(days)
}

// StatusForDays maps a day difference onto exactly one status.
func StatusForDays(days int) MembershipStatus {
	switch {
	case days < 0:
		return MembershipExpired
	case days <= ExpiringWithinDays:
		return MembershipExpiring
	default:
		return MembershipActive
	}
}

// StatusFor classifies a membership ending at end, as seen at now.
func StatusFor(end, now time.Time) MembershipStatus {
	return StatusForDays(DaysUntil(end, now))
}
