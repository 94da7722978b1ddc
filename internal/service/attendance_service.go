package service

import (
	"alcyxob/gymdesk/internal/domain"
	"alcyxob/gymdesk/internal/metrics"
	"alcyxob/gymdesk/internal/repository"
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ledger selects the trainee or the trainer attendance collection.
type Ledger string

const (
	TraineeLedger Ledger = "trainees"
	TrainerLedger Ledger = "trainers"
)

// MarkResult reports what a mark request did and the resulting state.
type MarkResult struct {
	Action domain.AttendanceAction  `json:"action"`
	State  domain.AttendanceState   `json:"state"`
	Record *domain.AttendanceRecord `json:"record,omitempty"`
}

type AttendanceService interface {
	// Mark runs one step of the toggle cycle for subjectID on date, which must be today.
	Mark(ctx context.Context, ledger Ledger, subjectID primitive.ObjectID, date time.Time, present bool) (*MarkResult, error)
	CheckIn(ctx context.Context, trainerID primitive.ObjectID) (*domain.AttendanceRecord, error)
	CheckOut(ctx context.Context, trainerID primitive.ObjectID) (*domain.AttendanceRecord, error)
	ListByDate(ctx context.Context, ledger Ledger, date time.Time) ([]domain.AttendanceRecord, error)
	History(ctx context.Context, ledger Ledger, subjectID primitive.ObjectID, from, to time.Time) ([]domain.AttendanceRecord, error)
	// Summary counts records in the period around ref; a nil subjectID covers every subject.
	Summary(ctx context.Context, ledger Ledger, period domain.Period, ref time.Time, subjectID *primitive.ObjectID) (domain.AttendanceSummary, error)
	Today() time.Time
}

type attendanceService struct {
	trainees          repository.TraineeRepository
	trainers          repository.TrainerRepository
	attendance        repository.AttendanceRepository
	trainerAttendance repository.AttendanceRepository
	notifier          Notifier
	clock             Clock
}

// NewAttendanceService creates a new instance of attendanceService.
func NewAttendanceService(
	trainees repository.TraineeRepository,
	trainers repository.TrainerRepository,
	attendance repository.AttendanceRepository,
	trainerAttendance repository.AttendanceRepository,
	notifier Notifier,
	clock Clock,
) AttendanceService {
	return &attendanceService{
		trainees:          trainees,
		trainers:          trainers,
		attendance:        attendance,
		trainerAttendance: trainerAttendance,
		notifier:          notifier,
		clock:             clock,
	}
}

func (s *attendanceService) Today() time.Time {
	return s.clock.Today()
}

func (s *attendanceService) ledger(l Ledger) (repository.AttendanceRepository, string, error) {
	switch l {
	case TraineeLedger:
		return s.attendance, repository.AttendanceCollection, nil
	case TrainerLedger:
		return s.trainerAttendance, repository.TrainerAttendanceCollection, nil
	}
	return nil, "", ErrUnknownLedger
}

// subjectName loads the trainee or trainer the record will point at.
func (s *attendanceService) subjectName(ctx context.Context, l Ledger, id primitive.ObjectID) (string, error) {
	if l == TraineeLedger {
		t, err := s.trainees.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", ErrTraineeNotFound
			}
			return "", err
		}
		return t.Name, nil
	}
	t, err := s.trainers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrTrainerNotFound
		}
		return "", err
	}
	return t.Name, nil
}

// existing returns today's record or nil.
func existing(ctx context.Context, repo repository.AttendanceRepository, subjectID primitive.ObjectID, day time.Time) (*domain.AttendanceRecord, error) {
	rec, err := repo.GetBySubjectAndDate(ctx, subjectID, day)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

func (s *attendanceService) Mark(ctx context.Context, l Ledger, subjectID primitive.ObjectID, date time.Time, present bool) (*MarkResult, error) {
	repo, collection, err := s.ledger(l)
	if err != nil {
		return nil, err
	}
	today := s.clock.Today()
	if !domain.SameDay(date, today, s.clock.Location) {
		return nil, ErrNotToday
	}
	name, err := s.subjectName(ctx, l, subjectID)
	if err != nil {
		return nil, err
	}
	rec, err := existing(ctx, repo, subjectID, today)
	if err != nil {
		return nil, err
	}

	action := domain.NextAttendanceAction(rec, present)
	switch action {
	case domain.ActionCreate:
		rec = &domain.AttendanceRecord{SubjectID: subjectID, SubjectName: name, Date: today, Present: present}
		if rec.ID, err = repo.Create(ctx, rec); err != nil {
			return nil, errors.Wrap(err, "create attendance")
		}
	case domain.ActionUpdate:
		rec.Present = present
		if err = repo.Update(ctx, rec); err != nil {
			return nil, errors.Wrap(err, "update attendance")
		}
	case domain.ActionDelete:
		if err = repo.Delete(ctx, rec.ID); err != nil {
			return nil, errors.Wrap(err, "delete attendance")
		}
		rec = nil
	}

	metrics.RecordAttendance(string(l), string(action))
	s.notifier.Notify(collection)
	return &MarkResult{Action: action, State: domain.StateOf(rec), Record: rec}, nil
}

func (s *attendanceService) CheckIn(ctx context.Context, trainerID primitive.ObjectID) (*domain.AttendanceRecord, error) {
	name, err := s.subjectName(ctx, TrainerLedger, trainerID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().In(s.clock.Location)
	today := s.clock.Today()
	rec, err := existing(ctx, s.trainerAttendance, trainerID, today)
	if err != nil {
		return nil, err
	}

	action := domain.ActionUpdate
	if rec == nil {
		action = domain.ActionCreate
		rec = &domain.AttendanceRecord{SubjectID: trainerID, SubjectName: name, Date: today}
	}
	rec.Present = true
	rec.CheckInTime = now.Format(domain.ClockLayout)

	if action == domain.ActionCreate {
		rec.ID, err = s.trainerAttendance.Create(ctx, rec)
	} else {
		err = s.trainerAttendance.Update(ctx, rec)
	}
	if err != nil {
		return nil, errors.Wrap(err, "check in")
	}
	metrics.RecordAttendance(string(TrainerLedger), "checkIn")
	s.notifier.Notify(repository.TrainerAttendanceCollection)
	return rec, nil
}

func (s *attendanceService) CheckOut(ctx context.Context, trainerID primitive.ObjectID) (*domain.AttendanceRecord, error) {
	if _, err := s.subjectName(ctx, TrainerLedger, trainerID); err != nil {
		return nil, err
	}
	rec, err := existing(ctx, s.trainerAttendance, trainerID, s.clock.Today())
	if err != nil {
		return nil, err
	}
	if rec == nil || !rec.Present {
		return nil, ErrNotCheckedIn
	}
	rec.CheckOutTime = s.clock.Now().In(s.clock.Location).Format(domain.ClockLayout)
	if err = s.trainerAttendance.Update(ctx, rec); err != nil {
		return nil, errors.Wrap(err, "check out")
	}
	metrics.RecordAttendance(string(TrainerLedger), "checkOut")
	s.notifier.Notify(repository.TrainerAttendanceCollection)
	return rec, nil
}

func (s *attendanceService) ListByDate(ctx context.Context, l Ledger, date time.Time) ([]domain.AttendanceRecord, error) {
	repo, _, err := s.ledger(l)
	if err != nil {
		return nil, err
	}
	return repo.ListByDate(ctx, domain.DayOf(date, s.clock.Location))
}

func (s *attendanceService) History(ctx context.Context, l Ledger, subjectID primitive.ObjectID, from, to time.Time) ([]domain.AttendanceRecord, error) {
	repo, _, err := s.ledger(l)
	if err != nil {
		return nil, err
	}
	from, to = domain.DayOf(from, s.clock.Location), domain.DayOf(to, s.clock.Location)
	if to.Before(from) {
		return nil, domain.NewValidationError("to", "must not be before from")
	}
	return repo.ListByRange(ctx, &subjectID, from, to)
}

func (s *attendanceService) Summary(ctx context.Context, l Ledger, period domain.Period, ref time.Time, subjectID *primitive.ObjectID) (domain.AttendanceSummary, error) {
	repo, _, err := s.ledger(l)
	if err != nil {
		return domain.AttendanceSummary{}, err
	}
	from, to, err := domain.PeriodRange(period, ref, s.clock.Location)
	if err != nil {
		return domain.AttendanceSummary{}, err
	}
	records, err := repo.ListByRange(ctx, subjectID, from, to)
	if err != nil {
		return domain.AttendanceSummary{}, err
	}
	return domain.Summarize(records, period, ref, s.clock.Location)
}
