package memory

import (
	"alcyxob/gymdesk/internal/domain"
	"alcyxob/gymdesk/internal/repository"
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type traineeRepository struct {
	db *Store
}

// Trainees returns the store's trainee repository.
func (s *Store) Trainees() repository.TraineeRepository {
	return &traineeRepository{db: s}
}

// conflicts mirrors the unique memberId (sparse) and phoneNumber indexes.
func (repo *traineeRepository) conflicts(t *domain.Trainee) bool {
	for id, other := range repo.db.trainees {
		if id == t.ID {
			continue
		}
		if t.MemberID != "" && other.MemberID == t.MemberID {
			return true
		}
		if other.PhoneNumber == t.PhoneNumber {
			return true
		}
	}
	return false
}

func (repo *traineeRepository) Create(_ context.Context, trainee *domain.Trainee) (primitive.ObjectID, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	trainee.ID = primitive.NewObjectID()
	if repo.conflicts(trainee) {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	now := repo.db.now()
	trainee.CreatedAt = now
	trainee.UpdatedAt = now
	stored := *trainee
	repo.db.trainees[stored.ID] = &stored
	return stored.ID, nil
}

func (repo *traineeRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Trainee, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if t, ok := repo.db.trainees[id]; ok {
		out := *t
		return &out, nil
	}
	return nil, repository.ErrNotFound
}

func (repo *traineeRepository) filter(match func(*domain.Trainee) bool) []domain.Trainee {
	out := []domain.Trainee{}
	for _, t := range repo.db.trainees {
		if match(t) {
			out = append(out, *t)
		}
	}
	return out
}

func (repo *traineeRepository) ListByActive(_ context.Context, active bool) ([]domain.Trainee, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	out := repo.filter(func(t *domain.Trainee) bool { return t.IsActive == active })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (repo *traineeRepository) FindByMemberID(_ context.Context, memberID string) ([]domain.Trainee, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	return repo.filter(func(t *domain.Trainee) bool {
		return t.MemberID == memberID || t.LegacyUniqueID == memberID
	}), nil
}

func (repo *traineeRepository) FindByPhone(_ context.Context, phone string) ([]domain.Trainee, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	return repo.filter(func(t *domain.Trainee) bool { return t.PhoneNumber == phone }), nil
}

func (repo *traineeRepository) CountByTrainer(_ context.Context, trainerID primitive.ObjectID) (int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	matches := repo.filter(func(t *domain.Trainee) bool {
		return t.IsActive && t.AssignedTrainerID != nil && *t.AssignedTrainerID == trainerID
	})
	return int64(len(matches)), nil
}

// Update keeps isActive and createdAt, like the Mongo $set.
func (repo *traineeRepository) Update(_ context.Context, trainee *domain.Trainee) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	existing, ok := repo.db.trainees[trainee.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if repo.conflicts(trainee) {
		return repository.ErrDuplicate
	}
	trainee.UpdatedAt = repo.db.now()
	stored := *trainee
	stored.IsActive = existing.IsActive
	stored.CreatedAt = existing.CreatedAt
	stored.LegacyUniqueID = existing.LegacyUniqueID
	repo.db.trainees[stored.ID] = &stored
	return nil
}

func (repo *traineeRepository) SetActive(_ context.Context, id primitive.ObjectID, active bool) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t, ok := repo.db.trainees[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.IsActive = active
	t.UpdatedAt = repo.db.now()
	return nil
}

func (repo *traineeRepository) DeleteCascade(_ context.Context, id primitive.ObjectID) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.trainees[id]; !ok {
		return repository.ErrNotFound
	}
	delete(repo.db.trainees, id)
	for recID, rec := range repo.db.attendance {
		if rec.SubjectID == id {
			delete(repo.db.attendance, recID)
		}
	}
	for planID, p := range repo.db.workoutPlans {
		if p.TraineeID == id {
			delete(repo.db.workoutPlans, planID)
		}
	}
	for planID, p := range repo.db.dietPlans {
		if p.TraineeID == id {
			delete(repo.db.dietPlans, planID)
		}
	}
	return nil
}
