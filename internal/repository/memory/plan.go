package memory

import (
	"alcyxob/gymdesk/internal/domain"
	"alcyxob/gymdesk/internal/repository"
	"context"
	"sort"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type workoutPlanRepository struct {
	db *Store
}

// WorkoutPlans returns the store's workout plan repository.
func (s *Store) WorkoutPlans() repository.WorkoutPlanRepository {
	return &workoutPlanRepository{db: s}
}

func (repo *workoutPlanRepository) Create(_ context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	if plan.TraineeID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan requires traineeId")
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, other := range repo.db.workoutPlans {
		if other.TraineeID == plan.TraineeID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	plan.ID = primitive.NewObjectID()
	now := repo.db.now()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	repo.db.workoutPlans[plan.ID] = plan.Clone()
	return plan.ID, nil
}

func (repo *workoutPlanRepository) find(match func(*domain.WorkoutPlan) bool) (*domain.WorkoutPlan, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, p := range repo.db.workoutPlans {
		if match(p) {
			return p.Clone(), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (repo *workoutPlanRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return repo.find(func(p *domain.WorkoutPlan) bool { return p.ID == id })
}

func (repo *workoutPlanRepository) GetByTraineeID(_ context.Context, traineeID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return repo.find(func(p *domain.WorkoutPlan) bool { return p.TraineeID == traineeID })
}

func (repo *workoutPlanRepository) List(_ context.Context) ([]domain.WorkoutPlan, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	out := make([]domain.WorkoutPlan, 0, len(repo.db.workoutPlans))
	for _, p := range repo.db.workoutPlans {
		out = append(out, *p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TraineeName < out[j].TraineeName })
	return out, nil
}

// Update replaces the day tree only.
func (repo *workoutPlanRepository) Update(_ context.Context, plan *domain.WorkoutPlan) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	existing, ok := repo.db.workoutPlans[plan.ID]
	if !ok {
		return repository.ErrNotFound
	}
	plan.UpdatedAt = repo.db.now()
	existing.Days = plan.Clone().Days
	existing.UpdatedAt = plan.UpdatedAt
	return nil
}

func (repo *workoutPlanRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.workoutPlans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(repo.db.workoutPlans, id)
	return nil
}

func (repo *workoutPlanRepository) RenameTrainee(_ context.Context, traineeID primitive.ObjectID, name string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, p := range repo.db.workoutPlans {
		if p.TraineeID == traineeID {
			p.TraineeName = name
		}
	}
	return nil
}

type dietPlanRepository struct {
	db *Store
}

// DietPlans returns the store's diet plan repository.
func (s *Store) DietPlans() repository.DietPlanRepository {
	return &dietPlanRepository{db: s}
}

func (repo *dietPlanRepository) Create(_ context.Context, plan *domain.DietPlan) (primitive.ObjectID, error) {
	if plan.TraineeID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan requires traineeId")
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, other := range repo.db.dietPlans {
		if other.TraineeID == plan.TraineeID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	plan.ID = primitive.NewObjectID()
	now := repo.db.now()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	repo.db.dietPlans[plan.ID] = plan.Clone()
	return plan.ID, nil
}

func (repo *dietPlanRepository) find(match func(*domain.DietPlan) bool) (*domain.DietPlan, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, p := range repo.db.dietPlans {
		if match(p) {
			return p.Clone(), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (repo *dietPlanRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.DietPlan, error) {
	return repo.find(func(p *domain.DietPlan) bool { return p.ID == id })
}

func (repo *dietPlanRepository) GetByTraineeID(_ context.Context, traineeID primitive.ObjectID) (*domain.DietPlan, error) {
	return repo.find(func(p *domain.DietPlan) bool { return p.TraineeID == traineeID })
}

func (repo *dietPlanRepository) List(_ context.Context) ([]domain.DietPlan, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	out := make([]domain.DietPlan, 0, len(repo.db.dietPlans))
	for _, p := range repo.db.dietPlans {
		out = append(out, *p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TraineeName < out[j].TraineeName })
	return out, nil
}

func (repo *dietPlanRepository) Update(_ context.Context, plan *domain.DietPlan) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	existing, ok := repo.db.dietPlans[plan.ID]
	if !ok {
		return repository.ErrNotFound
	}
	plan.UpdatedAt = repo.db.now()
	existing.Days = plan.Clone().Days
	existing.UpdatedAt = plan.UpdatedAt
	return nil
}

func (repo *dietPlanRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.dietPlans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(repo.db.dietPlans, id)
	return nil
}

func (repo *dietPlanRepository) RenameTrainee(_ context.Context, traineeID primitive.ObjectID, name string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, p := range repo.db.dietPlans {
		if p.TraineeID == traineeID {
			p.TraineeName = name
		}
	}
	return nil
}
