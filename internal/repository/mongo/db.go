package mongo

import (
	"alcyxob/gymdesk/internal/repository"
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// Cascade deletes run in multi-document transactions, so the deployment must
// be a replica set (a single-node replica set is enough for development).
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary; the connect above succeeds even if nothing is listening.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes of every collection. Failures are logged,
// not fatal: the service still works, only slower and without the uniqueness
// guarantees of the (subjectId, date) and traineeId indexes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	ensure := func(name string, indexes []mongo.IndexModel) {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			log.Printf("WARN: Failed to create indexes for collection %s: %v", name, err)
		}
	}
	ensure(repository.TraineesCollection, traineeIndexes())
	ensure(repository.TrainersCollection, trainerIndexes())
	ensure(repository.AttendanceCollection, attendanceIndexes())
	ensure(repository.TrainerAttendanceCollection, attendanceIndexes())
	ensure(repository.WorkoutPlansCollection, planIndexes())
	ensure(repository.DietPlansCollection, planIndexes())
}

// runInTransaction executes fn inside a multi-document transaction.
func runInTransaction(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	session, err := client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
