package repository

import (
	"alcyxob/gymdesk/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Collection names shared by the store implementations and the live feeds.
const (
	TraineesCollection          = "trainees"
	TrainersCollection          = "trainers"
	AttendanceCollection        = "attendance"
	TrainerAttendanceCollection = "trainerAttendance"
	WorkoutPlansCollection      = "workoutPlans"
	DietPlansCollection         = "dietPlans"
)

// TraineeRepository stores trainees. Lists are filtered on the server per partition.
type TraineeRepository interface {
	Create(ctx context.Context, trainee *domain.Trainee) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainee, error)
	ListByActive(ctx context.Context, active bool) ([]domain.Trainee, error)
	// FindByMemberID matches memberId or the legacy uniqueId field, across both partitions.
	FindByMemberID(ctx context.Context, memberID string) ([]domain.Trainee, error)
	FindByPhone(ctx context.Context, phone string) ([]domain.Trainee, error)
	CountByTrainer(ctx context.Context, trainerID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, trainee *domain.Trainee) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
	// DeleteCascade removes the trainee together with its attendance and plans atomically.
	DeleteCascade(ctx context.Context, id primitive.ObjectID) error
}

// TrainerRepository stores trainers.
type TrainerRepository interface {
	Create(ctx context.Context, trainer *domain.Trainer) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error)
	ListByActive(ctx context.Context, active bool) ([]domain.Trainer, error)
	FindByPhone(ctx context.Context, phone string) ([]domain.Trainer, error)
	Update(ctx context.Context, trainer *domain.Trainer) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
	// DeleteCascade removes the trainer and all of its trainer attendance atomically.
	DeleteCascade(ctx context.Context, id primitive.ObjectID) error
}

// AttendanceRepository stores one ledger (trainee or trainer attendance).
// Dates are calendar-day keys: callers pass local midnight.
type AttendanceRepository interface {
	Create(ctx context.Context, rec *domain.AttendanceRecord) (primitive.ObjectID, error)
	GetBySubjectAndDate(ctx context.Context, subjectID primitive.ObjectID, day time.Time) (*domain.AttendanceRecord, error)
	ListByDate(ctx context.Context, day time.Time) ([]domain.AttendanceRecord, error)
	// ListByRange returns records with from <= date <= to. A nil subjectID matches all subjects.
	ListByRange(ctx context.Context, subjectID *primitive.ObjectID, from, to time.Time) ([]domain.AttendanceRecord, error)
	Update(ctx context.Context, rec *domain.AttendanceRecord) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	RenameSubject(ctx context.Context, subjectID primitive.ObjectID, name string) error
}

// WorkoutPlanRepository stores workout plans; traineeId is unique.
type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) (*domain.WorkoutPlan, error)
	List(ctx context.Context) ([]domain.WorkoutPlan, error)
	Update(ctx context.Context, plan *domain.WorkoutPlan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	RenameTrainee(ctx context.Context, traineeID primitive.ObjectID, name string) error
}

// DietPlanRepository stores diet plans; traineeId is unique.
type DietPlanRepository interface {
	Create(ctx context.Context, plan *domain.DietPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DietPlan, error)
	GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) (*domain.DietPlan, error)
	List(ctx context.Context) ([]domain.DietPlan, error)
	Update(ctx context.Context, plan *domain.DietPlan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	RenameTrainee(ctx context.Context, traineeID primitive.ObjectID, name string) error
}
