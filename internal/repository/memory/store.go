// Package memory is an in-process implementation of the repository interfaces.
// It backs the service and handler tests and can run the server without MongoDB.
package memory

import (
	"alcyxob/gymdesk/internal/domain"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds every collection behind one lock, so cascades are atomic.
type Store struct {
	mutex             sync.RWMutex
	trainees          map[primitive.ObjectID]*domain.Trainee
	trainers          map[primitive.ObjectID]*domain.Trainer
	attendance        map[primitive.ObjectID]*domain.AttendanceRecord
	trainerAttendance map[primitive.ObjectID]*domain.AttendanceRecord
	workoutPlans      map[primitive.ObjectID]*domain.WorkoutPlan
	dietPlans         map[primitive.ObjectID]*domain.DietPlan
	now               func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		trainees:          make(map[primitive.ObjectID]*domain.Trainee),
		trainers:          make(map[primitive.ObjectID]*domain.Trainer),
		attendance:        make(map[primitive.ObjectID]*domain.AttendanceRecord),
		trainerAttendance: make(map[primitive.ObjectID]*domain.AttendanceRecord),
		workoutPlans:      make(map[primitive.ObjectID]*domain.WorkoutPlan),
		dietPlans:         make(map[primitive.ObjectID]*domain.DietPlan),
		now:               func() time.Time { return time.Now().UTC() },
	}
}
