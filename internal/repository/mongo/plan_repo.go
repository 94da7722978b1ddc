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

// planCollection holds the queries shared by workout and diet plans. Both are
// stored as one document per trainee with the whole day tree embedded.
type planCollection[T any] struct {
	collection *mongo.Collection
}

func (c planCollection[T]) insert(ctx context.Context, doc any) (primitive.ObjectID, error) {
	result, err := c.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, errors.Wrapf(err, "insert into %s", c.collection.Name())
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

func (c planCollection[T]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	var plan T
	if err := c.collection.FindOne(ctx, filter).Decode(&plan); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, errors.Wrapf(err, "find in %s", c.collection.Name())
	}
	return &plan, nil
}

func (c planCollection[T]) list(ctx context.Context) ([]T, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "traineeName", Value: 1}})
	cursor, err := c.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", c.collection.Name())
	}
	defer cursor.Close(ctx)

	plans := []T{}
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, errors.Wrapf(err, "decode %s", c.collection.Name())
	}
	return plans, nil
}

// replaceDays writes the full day tree; trainee fields and createdAt are never changed here.
func (c planCollection[T]) replaceDays(ctx context.Context, id primitive.ObjectID, days any, updatedAt time.Time) error {
	update := bson.M{"$set": bson.M{"days": days, "updatedAt": updatedAt}}
	result, err := c.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return errors.Wrapf(err, "update %s %s", c.collection.Name(), id.Hex())
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (c planCollection[T]) delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := c.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrapf(err, "delete %s %s", c.collection.Name(), id.Hex())
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (c planCollection[T]) renameTrainee(ctx context.Context, traineeID primitive.ObjectID, name string) error {
	_, err := c.collection.UpdateMany(ctx, bson.M{"traineeId": traineeID}, bson.M{"$set": bson.M{"traineeName": name}})
	return errors.Wrapf(err, "rename trainee in %s", c.collection.Name())
}

// mongoWorkoutPlanRepository implements repository.WorkoutPlanRepository
type mongoWorkoutPlanRepository struct {
	planCollection[domain.WorkoutPlan]
}

// NewMongoWorkoutPlanRepository creates a new workout plan repository.
func NewMongoWorkoutPlanRepository(db *mongo.Database) repository.WorkoutPlanRepository {
	return &mongoWorkoutPlanRepository{planCollection[domain.WorkoutPlan]{db.Collection(repository.WorkoutPlansCollection)}}
}

func (r *mongoWorkoutPlanRepository) Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	if plan.TraineeID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan requires traineeId")
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	return r.insert(ctx, plan)
}

func (r *mongoWorkoutPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoWorkoutPlanRepository) GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return r.findOne(ctx, bson.M{"traineeId": traineeID})
}

func (r *mongoWorkoutPlanRepository) List(ctx context.Context) ([]domain.WorkoutPlan, error) {
	return r.list(ctx)
}

func (r *mongoWorkoutPlanRepository) Update(ctx context.Context, plan *domain.WorkoutPlan) error {
	plan.UpdatedAt = time.Now().UTC()
	return r.replaceDays(ctx, plan.ID, plan.Days, plan.UpdatedAt)
}

func (r *mongoWorkoutPlanRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.delete(ctx, id)
}

func (r *mongoWorkoutPlanRepository) RenameTrainee(ctx context.Context, traineeID primitive.ObjectID, name string) error {
	return r.renameTrainee(ctx, traineeID, name)
}

// mongoDietPlanRepository implements repository.DietPlanRepository
type mongoDietPlanRepository struct {
	planCollection[domain.DietPlan]
}

// NewMongoDietPlanRepository creates a new diet plan repository.
func NewMongoDietPlanRepository(db *mongo.Database) repository.DietPlanRepository {
	return &mongoDietPlanRepository{planCollection[domain.DietPlan]{db.Collection(repository.DietPlansCollection)}}
}

func (r *mongoDietPlanRepository) Create(ctx context.Context, plan *domain.DietPlan) (primitive.ObjectID, error) {
	if plan.TraineeID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan requires traineeId")
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	return r.insert(ctx, plan)
}

func (r *mongoDietPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.DietPlan, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoDietPlanRepository) GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) (*domain.DietPlan, error) {
	return r.findOne(ctx, bson.M{"traineeId": traineeID})
}

func (r *mongoDietPlanRepository) List(ctx context.Context) ([]domain.DietPlan, error) {
	return r.list(ctx)
}

func (r *mongoDietPlanRepository) Update(ctx context.Context, plan *domain.DietPlan) error {
	plan.UpdatedAt = time.Now().UTC()
	return r.replaceDays(ctx, plan.ID, plan.Days, plan.UpdatedAt)
}

func (r *mongoDietPlanRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.delete(ctx, id)
}

func (r *mongoDietPlanRepository) RenameTrainee(ctx context.Context, traineeID primitive.ObjectID, name string) error {
	return r.renameTrainee(ctx, traineeID, name)
}

func planIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			// At most one plan of each type per trainee.
			Keys:    bson.D{{Key: "traineeId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "traineeName", Value: 1}},
			Options: options.Index(),
		},
	}
}
