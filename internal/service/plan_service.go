package service

import (
	"alcyxob/gymdesk/internal/domain"
	"alcyxob/gymdesk/internal/repository"
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanService authors workout and diet plans. Each trainee has at most one plan of each type.
type PlanService interface {
	CreateWorkoutPlan(ctx context.Context, traineeID primitive.ObjectID, days []domain.WorkoutDay) (*domain.WorkoutPlan, error)
	GetWorkoutPlan(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetWorkoutPlanByTrainee(ctx context.Context, traineeID primitive.ObjectID) (*domain.WorkoutPlan, error)
	ListWorkoutPlans(ctx context.Context) ([]domain.WorkoutPlan, error)
	// EditWorkoutPlan applies the batch to a copy and saves only if the result is valid.
	EditWorkoutPlan(ctx context.Context, id primitive.ObjectID, edits []domain.WorkoutEdit) (*domain.WorkoutPlan, error)
	DeleteWorkoutPlan(ctx context.Context, id primitive.ObjectID) error

	CreateDietPlan(ctx context.Context, traineeID primitive.ObjectID, days []domain.DietDay) (*domain.DietPlan, error)
	GetDietPlan(ctx context.Context, id primitive.ObjectID) (*domain.DietPlan, error)
	GetDietPlanByTrainee(ctx context.Context, traineeID primitive.ObjectID) (*domain.DietPlan, error)
	ListDietPlans(ctx context.Context) ([]domain.DietPlan, error)
	EditDietPlan(ctx context.Context, id primitive.ObjectID, edits []domain.DietEdit) (*domain.DietPlan, error)
	DeleteDietPlan(ctx context.Context, id primitive.ObjectID) error
}

type planService struct {
	trainees repository.TraineeRepository
	workouts repository.WorkoutPlanRepository
	diets    repository.DietPlanRepository
	notifier Notifier
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	trainees repository.TraineeRepository,
	workouts repository.WorkoutPlanRepository,
	diets repository.DietPlanRepository,
	notifier Notifier,
) PlanService {
	return &planService{trainees: trainees, workouts: workouts, diets: diets, notifier: notifier}
}

func (s *planService) trainee(ctx context.Context, id primitive.ObjectID) (*domain.Trainee, error) {
	t, err := s.trainees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTraineeNotFound
		}
		return nil, err
	}
	return t, nil
}

func planNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPlanNotFound
	}
	return err
}

// --- Workout plans ---

func (s *planService) CreateWorkoutPlan(ctx context.Context, traineeID primitive.ObjectID, days []domain.WorkoutDay) (*domain.WorkoutPlan, error) {
	t, err := s.trainee(ctx, traineeID)
	if err != nil {
		return nil, err
	}
	if _, err = s.workouts.GetByTraineeID(ctx, traineeID); err == nil {
		return nil, ErrPlanExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// Client-supplied ids are discarded; every node gets a fresh one.
	plan := &domain.WorkoutPlan{TraineeID: t.ID, TraineeName: t.Name, Days: make([]domain.WorkoutDay, len(days))}
	for i, d := range days {
		d.ID = ""
		d.Exercises = append([]domain.Exercise(nil), d.Exercises...)
		for j := range d.Exercises {
			d.Exercises[j].ID = ""
		}
		plan.Days[i] = d
	}
	plan.AssignIDs()
	if err = plan.Validate(); err != nil {
		return nil, err
	}

	if plan.ID, err = s.workouts.Create(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPlanExists
		}
		return nil, errors.Wrap(err, "create workout plan")
	}
	s.notifier.Notify(repository.WorkoutPlansCollection)
	return plan, nil
}

func (s *planService) GetWorkoutPlan(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	p, err := s.workouts.GetByID(ctx, id)
	return p, planNotFound(err)
}

func (s *planService) GetWorkoutPlanByTrainee(ctx context.Context, traineeID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	p, err := s.workouts.GetByTraineeID(ctx, traineeID)
	return p, planNotFound(err)
}

func (s *planService) ListWorkoutPlans(ctx context.Context) ([]domain.WorkoutPlan, error) {
	return s.workouts.List(ctx)
}

func (s *planService) EditWorkoutPlan(ctx context.Context, id primitive.ObjectID, edits []domain.WorkoutEdit) (*domain.WorkoutPlan, error) {
	stored, err := s.GetWorkoutPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	draft := stored.Clone()
	if err = domain.ApplyWorkoutEdits(draft, edits); err != nil {
		return nil, err
	}
	if err = draft.Validate(); err != nil {
		return nil, err
	}
	if err = s.workouts.Update(ctx, draft); err != nil {
		return nil, errors.Wrap(planNotFound(err), "save workout plan")
	}
	s.notifier.Notify(repository.WorkoutPlansCollection)
	return draft, nil
}

func (s *planService) DeleteWorkoutPlan(ctx context.Context, id primitive.ObjectID) error {
	if err := s.workouts.Delete(ctx, id); err != nil {
		return planNotFound(err)
	}
	s.notifier.Notify(repository.WorkoutPlansCollection)
	return nil
}

// --- Diet plans ---

func (s *planService) CreateDietPlan(ctx context.Context, traineeID primitive.ObjectID, days []domain.DietDay) (*domain.DietPlan, error) {
	t, err := s.trainee(ctx, traineeID)
	if err != nil {
		return nil, err
	}
	if _, err = s.diets.GetByTraineeID(ctx, traineeID); err == nil {
		return nil, ErrPlanExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	plan := &domain.DietPlan{TraineeID: t.ID, TraineeName: t.Name, Days: make([]domain.DietDay, len(days))}
	for i, d := range days {
		d.ID = ""
		d.DayNumber = i + 1
		meals := make([]domain.Meal, len(d.Meals))
		for j, m := range d.Meals {
			m.ID = ""
			m.FoodItems = append([]domain.FoodItem(nil), m.FoodItems...)
			for k := range m.FoodItems {
				m.FoodItems[k].ID = ""
			}
			meals[j] = m
		}
		d.Meals = meals
		plan.Days[i] = d
	}
	plan.AssignIDs()
	if err = plan.Validate(); err != nil {
		return nil, err
	}

	if plan.ID, err = s.diets.Create(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPlanExists
		}
		return nil, errors.Wrap(err, "create diet plan")
	}
	s.notifier.Notify(repository.DietPlansCollection)
	return plan, nil
}

func (s *planService) GetDietPlan(ctx context.Context, id primitive.ObjectID) (*domain.DietPlan, error) {
	p, err := s.diets.GetByID(ctx, id)
	return p, planNotFound(err)
}

func (s *planService) GetDietPlanByTrainee(ctx context.Context, traineeID primitive.ObjectID) (*domain.DietPlan, error) {
	p, err := s.diets.GetByTraineeID(ctx, traineeID)
	return p, planNotFound(err)
}

func (s *planService) ListDietPlans(ctx context.Context) ([]domain.DietPlan, error) {
	return s.diets.List(ctx)
}

func (s *planService) EditDietPlan(ctx context.Context, id primitive.ObjectID, edits []domain.DietEdit) (*domain.DietPlan, error) {
	stored, err := s.GetDietPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	draft := stored.Clone()
	if err = domain.ApplyDietEdits(draft, edits); err != nil {
		return nil, err
	}
	if err = draft.Validate(); err != nil {
		return nil, err
	}
	if err = s.diets.Update(ctx, draft); err != nil {
		return nil, errors.Wrap(planNotFound(err), "save diet plan")
	}
	s.notifier.Notify(repository.DietPlansCollection)
	return draft, nil
}

func (s *planService) DeleteDietPlan(ctx context.Context, id primitive.ObjectID) error {
	if err := s.diets.Delete(ctx, id); err != nil {
		return planNotFound(err)
	}
	s.notifier.Notify(repository.DietPlansCollection)
	return nil
}
