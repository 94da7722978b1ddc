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

// mongoTraineeRepository implements repository.TraineeRepository using MongoDB.
type mongoTraineeRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewMongoTraineeRepository creates a new trainee repository.
func NewMongoTraineeRepository(db *mongo.Database) repository.TraineeRepository {
	return &mongoTraineeRepository{
		db:         db,
		collection: db.Collection(repository.TraineesCollection),
	}
}

// Create inserts a new trainee. Validation and duplicate checks belong to the service layer.
func (r *mongoTraineeRepository) Create(ctx context.Context, trainee *domain.Trainee) (primitive.ObjectID, error) {
	trainee.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	trainee.CreatedAt = now
	trainee.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, trainee)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, errors.Wrap(err, "insert trainee")
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted trainee ID")
	}
	return insertedID, nil
}

// GetByID retrieves a trainee by its ObjectID.
func (r *mongoTraineeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Trainee, error) {
	var trainee domain.Trainee
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&trainee)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, errors.Wrapf(err, "find trainee %s", id.Hex())
	}
	return &trainee, nil
}

// ListByActive returns one partition (active or archived), newest first.
func (r *mongoTraineeRepository) ListByActive(ctx context.Context, active bool) ([]domain.Trainee, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"isActive": active}, findOptions)
}

func (r *mongoTraineeRepository) FindByMemberID(ctx context.Context, memberID string) ([]domain.Trainee, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"memberId": memberID},
		bson.M{"uniqueId": memberID},
	}}
	return r.find(ctx, filter)
}

func (r *mongoTraineeRepository) FindByPhone(ctx context.Context, phone string) ([]domain.Trainee, error) {
	return r.find(ctx, bson.M{"phoneNumber": phone})
}

// CountByTrainer counts active trainees assigned to the trainer.
func (r *mongoTraineeRepository) CountByTrainer(ctx context.Context, trainerID primitive.ObjectID) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"assignedTrainerId": trainerID, "isActive": true})
	if err != nil {
		return 0, errors.Wrap(err, "count trainees by trainer")
	}
	return n, nil
}

func (r *mongoTraineeRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]domain.Trainee, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "find trainees")
	}
	defer cursor.Close(ctx)

	trainees := []domain.Trainee{}
	if err = cursor.All(ctx, &trainees); err != nil {
		return nil, errors.Wrap(err, "decode trainees")
	}
	return trainees, nil
}

// Update writes the editable trainee fields. memberId and phoneNumber are
// written too; the service guarantees they only change from empty.
func (r *mongoTraineeRepository) Update(ctx context.Context, trainee *domain.Trainee) error {
	if trainee.ID == primitive.NilObjectID {
		return errors.New("trainee ID is required for update")
	}
	trainee.UpdatedAt = time.Now().UTC()

	set := bson.M{
		"memberId":            trainee.MemberID,
		"name":                trainee.Name,
		"phoneNumber":         trainee.PhoneNumber,
		"membershipDuration":  trainee.MembershipDuration,
		"membershipStartDate": trainee.MembershipStartDate,
		"membershipEndDate":   trainee.MembershipEndDate,
		"admissionFee":        trainee.AdmissionFee,
		"specialTraining":     trainee.SpecialTraining,
		"goalCategory":        trainee.GoalCategory,
		"paymentType":         trainee.PaymentType,
		"updatedAt":           trainee.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if trainee.AssignedTrainerID != nil {
		set["assignedTrainerId"] = *trainee.AssignedTrainerID
	} else {
		update["$unset"] = bson.M{"assignedTrainerId": ""}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": trainee.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return errors.Wrapf(err, "update trainee %s", trainee.ID.Hex())
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetActive archives (false) or unarchives (true) a trainee.
func (r *mongoTraineeRepository) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	update := bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return errors.Wrapf(err, "set trainee %s active=%t", id.Hex(), active)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteCascade removes the trainee, its attendance and both plan documents in one transaction.
func (r *mongoTraineeRepository) DeleteCascade(ctx context.Context, id primitive.ObjectID) error {
	return runInTransaction(ctx, r.db.Client(), func(sc mongo.SessionContext) error {
		result, err := r.collection.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return errors.Wrapf(err, "delete trainee %s", id.Hex())
		}
		if result.DeletedCount == 0 {
			return repository.ErrNotFound
		}
		if _, err = r.db.Collection(repository.AttendanceCollection).DeleteMany(sc, bson.M{"subjectId": id}); err != nil {
			return errors.Wrap(err, "delete trainee attendance")
		}
		for _, name := range []string{repository.WorkoutPlansCollection, repository.DietPlansCollection} {
			if _, err = r.db.Collection(name).DeleteMany(sc, bson.M{"traineeId": id}); err != nil {
				return errors.Wrapf(err, "delete trainee %s", name)
			}
		}
		return nil
	})
}

func traineeIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "memberId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "phoneNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "assignedTrainerId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
}
