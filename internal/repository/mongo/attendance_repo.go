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

// mongoAttendanceRepository implements repository.AttendanceRepository for
// either ledger; the collection name selects trainee or trainer attendance.
type mongoAttendanceRepository struct {
	collection *mongo.Collection
}

// NewMongoAttendanceRepository returns the trainee attendance ledger.
func NewMongoAttendanceRepository(db *mongo.Database) repository.AttendanceRepository {
	return &mongoAttendanceRepository{collection: db.Collection(repository.AttendanceCollection)}
}

// NewMongoTrainerAttendanceRepository returns the trainer attendance ledger.
func NewMongoTrainerAttendanceRepository(db *mongo.Database) repository.AttendanceRepository {
	return &mongoAttendanceRepository{collection: db.Collection(repository.TrainerAttendanceCollection)}
}

// Create inserts a record. The unique (subjectId, date) index turns a racing
// second insert for the same day into repository.ErrDuplicate.
func (r *mongoAttendanceRepository) Create(ctx context.Context, rec *domain.AttendanceRecord) (primitive.ObjectID, error) {
	if rec.SubjectID == primitive.NilObjectID || rec.Date.IsZero() {
		return primitive.NilObjectID, errors.New("attendance requires subjectId and date")
	}
	rec.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, errors.Wrapf(err, "insert %s record", r.collection.Name())
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted attendance ID")
	}
	return insertedID, nil
}

func (r *mongoAttendanceRepository) GetBySubjectAndDate(ctx context.Context, subjectID primitive.ObjectID, day time.Time) (*domain.AttendanceRecord, error) {
	var rec domain.AttendanceRecord
	err := r.collection.FindOne(ctx, bson.M{"subjectId": subjectID, "date": day}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, errors.Wrapf(err, "find %s record", r.collection.Name())
	}
	return &rec, nil
}

func (r *mongoAttendanceRepository) ListByDate(ctx context.Context, day time.Time) ([]domain.AttendanceRecord, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "subjectName", Value: 1}})
	return r.find(ctx, bson.M{"date": day}, findOptions)
}

func (r *mongoAttendanceRepository) ListByRange(ctx context.Context, subjectID *primitive.ObjectID, from, to time.Time) ([]domain.AttendanceRecord, error) {
	filter := bson.M{"date": bson.M{"$gte": from, "$lte": to}}
	if subjectID != nil {
		filter["subjectId"] = *subjectID
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "subjectName", Value: 1}})
	return r.find(ctx, filter, findOptions)
}

func (r *mongoAttendanceRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]domain.AttendanceRecord, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "find %s records", r.collection.Name())
	}
	defer cursor.Close(ctx)

	records := []domain.AttendanceRecord{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, errors.Wrapf(err, "decode %s records", r.collection.Name())
	}
	return records, nil
}

// Update rewrites the mutable fields of a record in place.
func (r *mongoAttendanceRepository) Update(ctx context.Context, rec *domain.AttendanceRecord) error {
	rec.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"present":      rec.Present,
		"checkInTime":  rec.CheckInTime,
		"checkOutTime": rec.CheckOutTime,
		"updatedAt":    rec.UpdatedAt,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": rec.ID}, update)
	if err != nil {
		return errors.Wrapf(err, "update %s record %s", r.collection.Name(), rec.ID.Hex())
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoAttendanceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrapf(err, "delete %s record %s", r.collection.Name(), id.Hex())
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// RenameSubject re-syncs the denormalized subject name after a rename.
func (r *mongoAttendanceRepository) RenameSubject(ctx context.Context, subjectID primitive.ObjectID, name string) error {
	_, err := r.collection.UpdateMany(ctx, bson.M{"subjectId": subjectID}, bson.M{"$set": bson.M{"subjectName": name}})
	return errors.Wrapf(err, "rename subject in %s", r.collection.Name())
}

func attendanceIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			// One record per subject per calendar day.
			Keys:    bson.D{{Key: "subjectId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}
}
