package domain

import (
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClockLayout is the "HH:mm" format of trainer check-in/check-out times.
const ClockLayout = "15:04"

// AttendanceRecord is one present/absent fact for a subject on a calendar day.
// Trainee records live in the attendance collection, trainer records in
// trainerAttendance; only the latter use the check-in/check-out fields.
type AttendanceRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SubjectID    primitive.ObjectID `bson:"subjectId" json:"subjectId"`
	SubjectName  string             `bson:"subjectName" json:"subjectName"`
	Date         time.Time          `bson:"date" json:"date"` // local midnight
	Present      bool               `bson:"present" json:"present"`
	CheckInTime  string             `bson:"checkInTime,omitempty" json:"checkInTime,omitempty"`
	CheckOutTime string             `bson:"checkOutTime,omitempty" json:"checkOutTime,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AttendanceState is the position of a (subject, day) pair in the toggle cycle.
type AttendanceState string

const (
	StateNoRecord AttendanceState = "none"
	StatePresent  AttendanceState = "present"
	StateAbsent   AttendanceState = "absent"
)

// StateOf returns the state represented by rec; nil means no record.
func StateOf(rec *AttendanceRecord) AttendanceState {
	switch {
	case rec == nil:
		return StateNoRecord
	case rec.Present:
		return StatePresent
	default:
		return StateAbsent
	}
}

// AttendanceAction is the store mutation a mark request resolves to.
type AttendanceAction string

const (
	ActionCreate AttendanceAction = "created"
	ActionUpdate AttendanceAction = "updated"
	ActionDelete AttendanceAction = "deleted"
)

// NextAttendanceAction resolves a mark request against the existing record:
// no record creates, the opposite status updates in place, and the same
// status again deletes the record.
func NextAttendanceAction(existing *AttendanceRecord, present bool) AttendanceAction {
	if existing == nil {
		return ActionCreate
	}
	if existing.Present == present {
		return ActionDelete
	}
	return ActionUpdate
}

// DayOf truncates t to midnight of its calendar day in loc.
func DayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DayOf(a, loc).Equal(DayOf(b, loc))
}

// Period is an attendance aggregation window.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// PeriodRange returns the first and last calendar day (both inclusive) of the
// period containing ref. Weeks start on Monday.
func PeriodRange(p Period, ref time.Time, loc *time.Location) (from, to time.Time, err error) {
	day := DayOf(ref, loc)
	switch p {
	case PeriodDaily:
		return day, day, nil
	case PeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		from = day.AddDate(0, 0, -offset)
		return from, from.AddDate(0, 0, 6), nil
	case PeriodMonthly:
		from = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 1, -1), nil
	case PeriodYearly:
		from = time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return from, time.Date(day.Year(), time.December, 31, 0, 0, 0, 0, loc), nil
	}
	return time.Time{}, time.Time{}, NewValidationError("period", fmt.Sprintf("unknown period %q", p))
}

// SubjectTally counts one subject's marks inside a period.
type SubjectTally struct {
	SubjectID   primitive.ObjectID `json:"subjectId"`
	SubjectName string             `json:"subjectName"`
	Present     int                `json:"present"`
	Absent      int                `json:"absent"`
}

// AttendanceSummary is a pure count over the records inside [From, To].
type AttendanceSummary struct {
	Period   Period         `json:"period"`
	From     time.Time      `json:"from"`
	To       time.Time      `json:"to"`
	Present  int            `json:"present"`
	Absent   int            `json:"absent"`
	Total    int            `json:"total"`
	Subjects []SubjectTally `json:"subjects"`
}

// Summarize filters records to the period around ref and counts them.
func Summarize(records []AttendanceRecord, p Period, ref time.Time, loc *time.Location) (AttendanceSummary, error) {
	from, to, err := PeriodRange(p, ref, loc)
	if err != nil {
		return AttendanceSummary{}, err
	}
	summary := AttendanceSummary{Period: p, From: from, To: to, Subjects: []SubjectTally{}}
	index := make(map[primitive.ObjectID]int)
	for _, r := range records {
		day := DayOf(r.Date, loc)
		if day.Before(from) || day.After(to) {
			continue
		}
		i, ok := index[r.SubjectID]
		if !ok {
			i = len(summary.Subjects)
			index[r.SubjectID] = i
			summary.Subjects = append(summary.Subjects, SubjectTally{SubjectID: r.SubjectID, SubjectName: r.SubjectName})
		}
		if r.Present {
			summary.Present++
			summary.Subjects[i].Present++
		} else {
			summary.Absent++
			summary.Subjects[i].Absent++
		}
		summary.Total++
	}
	sort.SliceStable(summary.Subjects, func(i, j int) bool {
		return summary.Subjects[i].SubjectName < summary.Subjects[j].SubjectName
	})
	return summary, nil
}
