package service

import (
	"alcyxob/gymdesk/internal/domain"
	"alcyxob/gymdesk/internal/metrics"
	"alcyxob/gymdesk/internal/repository"
	"context"
	"log"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TraineeInput carries the editable trainee fields for create and update.
// On update an empty MemberID or PhoneNumber means "unchanged"; the start date
// is fixed at creation.
type TraineeInput struct {
	MemberID            string
	Name                string
	PhoneNumber         string
	MembershipDuration  int
	MembershipStartDate time.Time
	AdmissionFee        float64
	SpecialTraining     bool
	AssignedTrainerID   *primitive.ObjectID
	GoalCategory        domain.GoalCategory
	PaymentType         domain.PaymentType
}

// TraineeView is a trainee with its derived membership status attached.
type TraineeView struct {
	domain.Trainee
	MemberID        string                  `json:"memberId"`
	Status          domain.MembershipStatus `json:"status"`
	DaysUntilExpiry int                     `json:"daysUntilExpiry"`
}

// ViewTrainee derives the status fields of t as seen at now.
func ViewTrainee(t domain.Trainee, now time.Time) TraineeView {
	days := domain.DaysUntil(t.MembershipEndDate, now)
	return TraineeView{
		Trainee:         t,
		MemberID:        t.EffectiveMemberID(),
		Status:          domain.StatusForDays(days),
		DaysUntilExpiry: days,
	}
}

type TraineeService interface {
	Create(ctx context.Context, in TraineeInput) (*domain.Trainee, error)
	Update(ctx context.Context, id primitive.ObjectID, in TraineeInput) (*domain.Trainee, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Trainee, error)
	List(ctx context.Context, active bool) ([]domain.Trainee, error)
	Archive(ctx context.Context, id primitive.ObjectID) error
	Unarchive(ctx context.Context, id primitive.ObjectID) error
	// Delete is irreversible and removes the trainee's attendance and plans too.
	Delete(ctx context.Context, id primitive.ObjectID) error
	Expiring(ctx context.Context) ([]domain.ExpiringMembership, error)
	WhatsAppLink(ctx context.Context, id primitive.ObjectID, kind domain.MessageKind) (string, error)
	Now() time.Time
}

type traineeService struct {
	trainees    repository.TraineeRepository
	trainers    repository.TrainerRepository
	attendance  repository.AttendanceRepository
	workouts    repository.WorkoutPlanRepository
	diets       repository.DietPlanRepository
	notifier    Notifier
	clock       Clock
	gymName     string
	horizonDays int
}

// NewTraineeService creates a new instance of traineeService.
func NewTraineeService(
	trainees repository.TraineeRepository,
	trainers repository.TrainerRepository,
	attendance repository.AttendanceRepository,
	workouts repository.WorkoutPlanRepository,
	diets repository.DietPlanRepository,
	notifier Notifier,
	clock Clock,
	gymName string,
	horizonDays int,
) TraineeService {
	if horizonDays <= 0 {
		horizonDays = domain.DefaultExpiryHorizonDays
	}
	return &traineeService{
		trainees:    trainees,
		trainers:    trainers,
		attendance:  attendance,
		workouts:    workouts,
		diets:       diets,
		notifier:    notifier,
		clock:       clock,
		gymName:     gymName,
		horizonDays: horizonDays,
	}
}

func (s *traineeService) Now() time.Time {
	return s.clock.Now()
}

// validate checks everything that does not depend on the stored record.
func (s *traineeService) validate(ctx context.Context, t *domain.Trainee) error {
	if err := domain.ValidateMemberID(t.MemberID); err != nil {
		return err
	}
	if strings.TrimSpace(t.Name) == "" {
		return domain.NewValidationError("name", "is required")
	}
	if err := domain.ValidatePhone(t.PhoneNumber); err != nil {
		return err
	}
	if !domain.ValidDuration(t.MembershipDuration) {
		return domain.NewValidationError("membershipDuration", "must be 1, 3, 6 or 12 months")
	}
	if t.AdmissionFee < 0 {
		return domain.NewValidationError("admissionFee", "cannot be negative")
	}
	if !t.GoalCategory.Valid() {
		return domain.NewValidationError("goalCategory", "unknown goal category")
	}
	if !t.PaymentType.Valid() {
		return domain.NewValidationError("paymentType", "must be Cash or Online")
	}
	if !t.SpecialTraining {
		t.AssignedTrainerID = nil
		return nil
	}
	if t.AssignedTrainerID == nil || t.AssignedTrainerID.IsZero() {
		return domain.NewValidationError("assignedTrainerId", "is required for special training")
	}
	if _, err := s.trainers.GetByID(ctx, *t.AssignedTrainerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewValidationError("assignedTrainerId", "trainer does not exist")
		}
		return err
	}
	return nil
}

// checkUnique looks across both partitions, ignoring the record being edited.
func (s *traineeService) checkUnique(ctx context.Context, t *domain.Trainee) error {
	byID, err := s.trainees.FindByMemberID(ctx, t.MemberID)
	if err != nil {
		return err
	}
	for _, other := range byID {
		if other.ID != t.ID {
			return ErrDuplicateMemberID
		}
	}
	byPhone, err := s.trainees.FindByPhone(ctx, t.PhoneNumber)
	if err != nil {
		return err
	}
	for _, other := range byPhone {
		if other.ID != t.ID {
			return ErrDuplicatePhone
		}
	}
	return nil
}

func (s *traineeService) Create(ctx context.Context, in TraineeInput) (*domain.Trainee, error) {
	start := in.MembershipStartDate
	if start.IsZero() {
		start = s.clock.Today()
	}
	t := &domain.Trainee{
		MemberID:            strings.TrimSpace(in.MemberID),
		Name:                strings.TrimSpace(in.Name),
		PhoneNumber:         in.PhoneNumber,
		MembershipDuration:  in.MembershipDuration,
		MembershipStartDate: start,
		AdmissionFee:        in.AdmissionFee,
		SpecialTraining:     in.SpecialTraining,
		AssignedTrainerID:   in.AssignedTrainerID,
		GoalCategory:        in.GoalCategory,
		PaymentType:         in.PaymentType,
		IsActive:            true,
	}
	if err := s.validate(ctx, t); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, t); err != nil {
		return nil, err
	}
	t.MembershipEndDate = domain.ComputeMembershipEnd(t.MembershipStartDate, t.MembershipDuration)

	id, err := s.trainees.Create(ctx, t)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent create; name the field that collided.
			if uerr := s.checkUnique(ctx, t); uerr != nil {
				return nil, uerr
			}
			return nil, ErrDuplicateMemberID
		}
		return nil, errors.Wrap(err, "create trainee")
	}
	t.ID = id
	metrics.RecordMembership("created")
	s.notifier.Notify(repository.TraineesCollection)
	return t, nil
}

func (s *traineeService) Update(ctx context.Context, id primitive.ObjectID, in TraineeInput) (*domain.Trainee, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	memberID := strings.TrimSpace(in.MemberID)
	current := existing.EffectiveMemberID()
	if memberID == "" {
		memberID = current
	} else if current != "" && memberID != current {
		return nil, domain.NewValidationError("memberId", "cannot be changed once set")
	}
	phone := in.PhoneNumber
	if phone == "" {
		phone = existing.PhoneNumber
	} else if existing.PhoneNumber != "" && phone != existing.PhoneNumber {
		return nil, domain.NewValidationError("phoneNumber", "cannot be changed once set")
	}

	updated := *existing
	updated.MemberID = memberID
	updated.Name = strings.TrimSpace(in.Name)
	updated.PhoneNumber = phone
	updated.MembershipDuration = in.MembershipDuration
	updated.AdmissionFee = in.AdmissionFee
	updated.SpecialTraining = in.SpecialTraining
	updated.AssignedTrainerID = in.AssignedTrainerID
	updated.GoalCategory = in.GoalCategory
	updated.PaymentType = in.PaymentType
	if err = s.validate(ctx, &updated); err != nil {
		return nil, err
	}
	if err = s.checkUnique(ctx, &updated); err != nil {
		return nil, err
	}
	updated.MembershipEndDate = domain.RecomputeOnDurationChange(existing, updated.MembershipDuration)

	if err = s.trainees.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTraineeNotFound
		}
		return nil, errors.Wrap(err, "update trainee")
	}

	// The trainee is saved at this point, so feeds are refreshed even when the
	// re-sync below stops partway.
	touched := []string{repository.TraineesCollection}
	var syncErr error
	if updated.Name != existing.Name {
		touched = append(touched, repository.AttendanceCollection, repository.WorkoutPlansCollection, repository.DietPlansCollection)
		syncErr = s.renameEverywhere(ctx, id, updated.Name)
	}
	s.notifier.Notify(touched...)
	if syncErr != nil {
		log.Printf("ERROR: Trainee %s renamed but name re-sync failed: %v", id.Hex(), syncErr)
		return nil, errors.Wrap(syncErr, "re-sync trainee name")
	}
	return &updated, nil
}

// renameEverywhere re-syncs the denormalized trainee name in attendance and plans.
func (s *traineeService) renameEverywhere(ctx context.Context, id primitive.ObjectID, name string) error {
	if err := s.attendance.RenameSubject(ctx, id, name); err != nil {
		return err
	}
	if err := s.workouts.RenameTrainee(ctx, id, name); err != nil {
		return err
	}
	return s.diets.RenameTrainee(ctx, id, name)
}

func (s *traineeService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Trainee, error) {
	t, err := s.trainees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTraineeNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *traineeService) List(ctx context.Context, active bool) ([]domain.Trainee, error) {
	return s.trainees.ListByActive(ctx, active)
}

func (s *traineeService) setActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	if err := s.trainees.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTraineeNotFound
		}
		return err
	}
	s.notifier.Notify(repository.TraineesCollection)
	return nil
}

func (s *traineeService) Archive(ctx context.Context, id primitive.ObjectID) error {
	if err := s.setActive(ctx, id, false); err != nil {
		return err
	}
	metrics.RecordMembership("archived")
	return nil
}

func (s *traineeService) Unarchive(ctx context.Context, id primitive.ObjectID) error {
	if err := s.setActive(ctx, id, true); err != nil {
		return err
	}
	metrics.RecordMembership("unarchived")
	return nil
}

func (s *traineeService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.trainees.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTraineeNotFound
		}
		return err
	}
	metrics.RecordMembership("deleted")
	s.notifier.Notify(
		repository.TraineesCollection,
		repository.AttendanceCollection,
		repository.WorkoutPlansCollection,
		repository.DietPlansCollection,
	)
	return nil
}

func (s *traineeService) Expiring(ctx context.Context) ([]domain.ExpiringMembership, error) {
	active, err := s.trainees.ListByActive(ctx, true)
	if err != nil {
		return nil, err
	}
	return domain.ExpiringMemberships(active, s.clock.Now(), s.horizonDays), nil
}

func (s *traineeService) WhatsAppLink(ctx context.Context, id primitive.ObjectID, kind domain.MessageKind) (string, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if kind == "" {
		kind = domain.MessageExpiryReminder
	}
	msg, err := domain.TraineeMessage(kind, t, s.gymName, s.clock.Now())
	if err != nil {
		return "", err
	}
	return domain.WhatsAppLink(t.PhoneNumber, msg), nil
}
