package memory

import (
	"alcyxob/gymdesk/internal/domain"
	"alcyxob/gymdesk/internal/repository"
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type trainerRepository struct {
	db *Store
}

// Trainers returns the store's trainer repository.
func (s *Store) Trainers() repository.TrainerRepository {
	return &trainerRepository{db: s}
}

func (repo *trainerRepository) phoneTaken(t *domain.Trainer) bool {
	for id, other := range repo.db.trainers {
		if id != t.ID && other.PhoneNumber == t.PhoneNumber {
			return true
		}
	}
	return false
}

func (repo *trainerRepository) Create(_ context.Context, trainer *domain.Trainer) (primitive.ObjectID, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	trainer.ID = primitive.NewObjectID()
	if repo.phoneTaken(trainer) {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	now := repo.db.now()
	trainer.CreatedAt = now
	trainer.UpdatedAt = now
	stored := *trainer
	repo.db.trainers[stored.ID] = &stored
	return stored.ID, nil
}

func (repo *trainerRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if t, ok := repo.db.trainers[id]; ok {
		out := *t
		return &out, nil
	}
	return nil, repository.ErrNotFound
}

func (repo *trainerRepository) ListByActive(_ context.Context, active bool) ([]domain.Trainer, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	out := []domain.Trainer{}
	for _, t := range repo.db.trainers {
		if t.IsActive == active {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (repo *trainerRepository) FindByPhone(_ context.Context, phone string) ([]domain.Trainer, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	out := []domain.Trainer{}
	for _, t := range repo.db.trainers {
		if t.PhoneNumber == phone {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (repo *trainerRepository) Update(_ context.Context, trainer *domain.Trainer) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	existing, ok := repo.db.trainers[trainer.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if repo.phoneTaken(trainer) {
		return repository.ErrDuplicate
	}
	trainer.UpdatedAt = repo.db.now()
	stored := *trainer
	stored.IsActive = existing.IsActive
	stored.CreatedAt = existing.CreatedAt
	repo.db.trainers[stored.ID] = &stored
	return nil
}

func (repo *trainerRepository) SetActive(_ context.Context, id primitive.ObjectID, active bool) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t, ok := repo.db.trainers[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.IsActive = active
	t.UpdatedAt = repo.db.now()
	return nil
}

func (repo *trainerRepository) DeleteCascade(_ context.Context, id primitive.ObjectID) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.trainers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(repo.db.trainers, id)
	for recID, rec := range repo.db.trainerAttendance {
		if rec.SubjectID == id {
			delete(repo.db.trainerAttendance, recID)
		}
	}
	return nil
}
