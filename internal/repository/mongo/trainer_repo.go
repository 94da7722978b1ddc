package mongo

import (
	"alcyxob/gymdesk/internal/domain"
	"alcyxob/gymdesk/internal/repository"
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoTrainerRepository implements repository.TrainerRepository
type mongoTrainerRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewMongoTrainerRepository creates a new trainer repository.
func NewMongoTrainerRepository(db *mongo.Database) repository.TrainerRepository {
	return &mongoTrainerRepository{
		db:         db,
		collection: db.Collection(repository.TrainersCollection),
	}
}

func (r *mongoTrainerRepository) Create(ctx context.Context, trainer *domain.Trainer) (primitive.ObjectID, error) {
	trainer.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	trainer.CreatedAt = now
	trainer.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, trainer)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, errors.Wrap(err, "insert trainer")
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted trainer ID")
	}
	return insertedID, nil
}

func (r *mongoTrainerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainer, error) {
	var trainer domain.Trainer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&trainer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, errors.Wrapf(err, "find trainer %s", id.Hex())
	}
	return &trainer, nil
}

// ListByActive queries one partition, sorted by name.
func (r *mongoTrainerRepository) ListByActive(ctx context.Context, active bool) ([]domain.Trainer, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return r.find(ctx, bson.M{"isActive": active}, findOptions)
}

func (r *mongoTrainerRepository) FindByPhone(ctx context.Context, phone string) ([]domain.Trainer, error) {
	return r.find(ctx, bson.M{"phoneNumber": phone})
}

func (r *mongoTrainerRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]domain.Trainer, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "find trainers")
	}
	defer cursor.Close(ctx)

	trainers := []domain.Trainer{}
	if err = cursor.All(ctx, &trainers); err != nil {
		return nil, errors.Wrap(err, "decode trainers")
	}
	return trainers, nil
}

func (r *mongoTrainerRepository) Update(ctx context.Context, trainer *domain.Trainer) error {
	if trainer.ID == primitive.NilObjectID {
		return errors.New("trainer ID is required for update")
	}
	trainer.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"uniqueId":    trainer.UniqueID,
		"name":        trainer.Name,
		"phoneNumber": trainer.PhoneNumber,
		"email":       trainer.Email,
		"experience":  trainer.Experience,
		"salary":      trainer.Salary,
		"joiningDate": trainer.JoiningDate,
		"updatedAt":   trainer.UpdatedAt,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": trainer.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return errors.Wrapf(err, "update trainer %s", trainer.ID.Hex())
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoTrainerRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	update := bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return errors.Wrapf(err, "set trainer %s active=%t", id.Hex(), active)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteCascade removes the trainer and its trainerAttendance rows in one
// transaction, so the trainer is never gone while its attendance remains.
func (r *mongoTrainerRepository) DeleteCascade(ctx context.Context, id primitive.ObjectID) error {
	return runInTransaction(ctx, r.db.Client(), func(sc mongo.SessionContext) error {
		result, err := r.collection.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return errors.Wrapf(err, "delete trainer %s", id.Hex())
		}
		if result.DeletedCount == 0 {
			return repository.ErrNotFound
		}
		_, err = r.db.Collection(repository.TrainerAttendanceCollection).DeleteMany(sc, bson.M{"subjectId": id})
		if err != nil {
			return errors.Wrap(err, "delete trainer attendance")
		}
		return nil
	})
}

func trainerIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "phoneNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index(),
		},
	}
}
