package memory

import (
	"alcyxob/gymdesk/internal/domain"
	"alcyxob/gymdesk/internal/repository"
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type attendanceRepository struct {
	db    *Store
	table func() map[primitive.ObjectID]*domain.AttendanceRecord
}

// Attendance returns the trainee attendance ledger.
func (s *Store) Attendance() repository.AttendanceRepository {
	return &attendanceRepository{db: s, table: func() map[primitive.ObjectID]*domain.AttendanceRecord { return s.attendance }}
}

// TrainerAttendance returns the trainer attendance ledger.
func (s *Store) TrainerAttendance() repository.AttendanceRepository {
	return &attendanceRepository{db: s, table: func() map[primitive.ObjectID]*domain.AttendanceRecord { return s.trainerAttendance }}
}

func (repo *attendanceRepository) Create(_ context.Context, rec *domain.AttendanceRecord) (primitive.ObjectID, error) {
	if rec.SubjectID == primitive.NilObjectID || rec.Date.IsZero() {
		return primitive.NilObjectID, errors.New("attendance requires subjectId and date")
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, other := range repo.table() {
		if other.SubjectID == rec.SubjectID && other.Date.Equal(rec.Date) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	rec.ID = primitive.NewObjectID()
	now := repo.db.now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	stored := *rec
	repo.table()[stored.ID] = &stored
	return stored.ID, nil
}

func (repo *attendanceRepository) GetBySubjectAndDate(_ context.Context, subjectID primitive.ObjectID, day time.Time) (*domain.AttendanceRecord, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, rec := range repo.table() {
		if rec.SubjectID == subjectID && rec.Date.Equal(day) {
			out := *rec
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (repo *attendanceRepository) ListByDate(_ context.Context, day time.Time) ([]domain.AttendanceRecord, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	out := []domain.AttendanceRecord{}
	for _, rec := range repo.table() {
		if rec.Date.Equal(day) {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubjectName < out[j].SubjectName })
	return out, nil
}

func (repo *attendanceRepository) ListByRange(_ context.Context, subjectID *primitive.ObjectID, from, to time.Time) ([]domain.AttendanceRecord, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	out := []domain.AttendanceRecord{}
	for _, rec := range repo.table() {
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		if subjectID != nil && rec.SubjectID != *subjectID {
			continue
		}
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].SubjectName < out[j].SubjectName
	})
	return out, nil
}

func (repo *attendanceRepository) Update(_ context.Context, rec *domain.AttendanceRecord) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	existing, ok := repo.table()[rec.ID]
	if !ok {
		return repository.ErrNotFound
	}
	rec.UpdatedAt = repo.db.now()
	existing.Present = rec.Present
	existing.CheckInTime = rec.CheckInTime
	existing.CheckOutTime = rec.CheckOutTime
	existing.UpdatedAt = rec.UpdatedAt
	return nil
}

func (repo *attendanceRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.table()[id]; !ok {
		return repository.ErrNotFound
	}
	delete(repo.table(), id)
	return nil
}

func (repo *attendanceRepository) RenameSubject(_ context.Context, subjectID primitive.ObjectID, name string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, rec := range repo.table() {
		if rec.SubjectID == subjectID {
			rec.SubjectName = name
		}
	}
	return nil
}
