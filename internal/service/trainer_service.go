package service

import (
	"alcyxob/gymdesk/internal/domain"
	"alcyxob/gymdesk/internal/repository"
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerInput carries the editable trainer fields. On update an empty
// PhoneNumber means "unchanged".
type TrainerInput struct {
	Name        string
	PhoneNumber string
	Email       string
	Experience  int
	Salary      float64
	JoiningDate time.Time
}

type TrainerService interface {
	Create(ctx context.Context, in TrainerInput) (*domain.Trainer, error)
	Update(ctx context.Context, id primitive.ObjectID, in TrainerInput) (*domain.Trainer, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error)
	List(ctx context.Context, active bool) ([]domain.Trainer, error)
	Archive(ctx context.Context, id primitive.ObjectID) error
	Unarchive(ctx context.Context, id primitive.ObjectID) error
	// Delete removes the trainer and its attendance. It is refused while
	// active trainees are still assigned to the trainer.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type trainerService struct {
	trainers   repository.TrainerRepository
	trainees   repository.TraineeRepository
	attendance repository.AttendanceRepository
	notifier   Notifier
	clock      Clock
}

// NewTrainerService creates a new instance of trainerService. attendance is the trainer ledger.
func NewTrainerService(
	trainers repository.TrainerRepository,
	trainees repository.TraineeRepository,
	attendance repository.AttendanceRepository,
	notifier Notifier,
	clock Clock,
) TrainerService {
	return &trainerService{
		trainers:   trainers,
		trainees:   trainees,
		attendance: attendance,
		notifier:   notifier,
		clock:      clock,
	}
}

func validateTrainer(t *domain.Trainer) error {
	if strings.TrimSpace(t.Name) == "" {
		return domain.NewValidationError("name", "is required")
	}
	if err := domain.ValidatePhone(t.PhoneNumber); err != nil {
		return err
	}
	if t.Email != "" && !strings.Contains(t.Email, "@") {
		return domain.NewValidationError("email", "is not a valid address")
	}
	if t.Experience < 0 {
		return domain.NewValidationError("experience", "cannot be negative")
	}
	if t.Salary < 0 {
		return domain.NewValidationError("salary", "cannot be negative")
	}
	return nil
}

func (s *trainerService) checkPhone(ctx context.Context, t *domain.Trainer) error {
	matches, err := s.trainers.FindByPhone(ctx, t.PhoneNumber)
	if err != nil {
		return err
	}
	for _, other := range matches {
		if other.ID != t.ID {
			return ErrDuplicatePhone
		}
	}
	return nil
}

func (s *trainerService) Create(ctx context.Context, in TrainerInput) (*domain.Trainer, error) {
	joined := in.JoiningDate
	if joined.IsZero() {
		joined = s.clock.Today()
	}
	t := &domain.Trainer{
		Name:        strings.TrimSpace(in.Name),
		PhoneNumber: in.PhoneNumber,
		Email:       strings.TrimSpace(in.Email),
		Experience:  in.Experience,
		Salary:      in.Salary,
		JoiningDate: joined,
		IsActive:    true,
	}
	if err := validateTrainer(t); err != nil {
		return nil, err
	}
	if err := s.checkPhone(ctx, t); err != nil {
		return nil, err
	}
	t.UniqueID = domain.TrainerUniqueID(t.PhoneNumber)

	id, err := s.trainers.Create(ctx, t)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicatePhone
		}
		return nil, errors.Wrap(err, "create trainer")
	}
	t.ID = id
	s.notifier.Notify(repository.TrainersCollection)
	return t, nil
}

func (s *trainerService) Update(ctx context.Context, id primitive.ObjectID, in TrainerInput) (*domain.Trainer, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	phone := in.PhoneNumber
	if phone == "" {
		phone = existing.PhoneNumber
	} else if existing.PhoneNumber != "" && phone != existing.PhoneNumber {
		return nil, domain.NewValidationError("phoneNumber", "cannot be changed once set")
	}

	updated := *existing
	updated.Name = strings.TrimSpace(in.Name)
	updated.PhoneNumber = phone
	updated.Email = strings.TrimSpace(in.Email)
	updated.Experience = in.Experience
	updated.Salary = in.Salary
	if !in.JoiningDate.IsZero() {
		updated.JoiningDate = in.JoiningDate
	}
	if err = validateTrainer(&updated); err != nil {
		return nil, err
	}
	if err = s.checkPhone(ctx, &updated); err != nil {
		return nil, err
	}
	updated.UniqueID = domain.TrainerUniqueID(updated.PhoneNumber)

	if err = s.trainers.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, errors.Wrap(err, "update trainer")
	}

	touched := []string{repository.TrainersCollection}
	if updated.Name != existing.Name {
		if err = s.attendance.RenameSubject(ctx, id, updated.Name); err != nil {
			return nil, err
		}
		touched = append(touched, repository.TrainerAttendanceCollection)
	}
	s.notifier.Notify(touched...)
	return &updated, nil
}

func (s *trainerService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	t, err := s.trainers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *trainerService) List(ctx context.Context, active bool) ([]domain.Trainer, error) {
	return s.trainers.ListByActive(ctx, active)
}

func (s *trainerService) setActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	if err := s.trainers.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTrainerNotFound
		}
		return err
	}
	s.notifier.Notify(repository.TrainersCollection)
	return nil
}

func (s *trainerService) Archive(ctx context.Context, id primitive.ObjectID) error {
	return s.setActive(ctx, id, false)
}

func (s *trainerService) Unarchive(ctx context.Context, id primitive.ObjectID) error {
	return s.setActive(ctx, id, true)
}

func (s *trainerService) Delete(ctx context.Context, id primitive.ObjectID) error {
	assigned, err := s.trainees.CountByTrainer(ctx, id)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return ErrTrainerHasTrainees
	}
	if err = s.trainers.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTrainerNotFound
		}
		return err
	}
	s.notifier.Notify(repository.TrainersCollection, repository.TrainerAttendanceCollection)
	return nil
}
