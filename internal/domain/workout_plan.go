package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNodeNotFound is returned when a day/exercise/meal/food id is not in the plan.
var ErrNodeNotFound = errors.New("plan node not found")

// newNodeID generates the stable identifier of a plan tree node.
func newNodeID() string {
	return uuid.NewString()
}

// Exercise is a leaf of a workout day.
type Exercise struct {
	ID    string `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Sets  int    `bson:"sets" json:"sets"`
	Reps  string `bson:"reps" json:"reps"` // free text, e.g. "8-12"
	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// WorkoutDay is one day of a workout plan.
type WorkoutDay struct {
	ID        string     `bson:"id" json:"id"`
	Name      string     `bson:"name" json:"name"`
	Exercises []Exercise `bson:"exercises" json:"exercises"`
	Notes     string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

// WorkoutPlan is the workout document of a single trainee.
type WorkoutPlan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TraineeID   primitive.ObjectID `bson:"traineeId" json:"traineeId"`
	TraineeName string             `bson:"traineeName" json:"traineeName"`
	Days        []WorkoutDay       `bson:"days" json:"days"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewWorkoutDay returns an empty day with a fresh id, named after its position.
func NewWorkoutDay(position int) WorkoutDay {
	return WorkoutDay{ID: newNodeID(), Name: fmt.Sprintf("Day %d", position), Exercises: []Exercise{}}
}

// AssignIDs gives every node without an id a fresh one. Existing ids are kept.
func (p *WorkoutPlan) AssignIDs() {
	for i := range p.Days {
		d := &p.Days[i]
		if d.ID == "" {
			d.ID = newNodeID()
		}
		if d.Name == "" {
			d.Name = fmt.Sprintf("Day %d", i+1)
		}
		if d.Exercises == nil {
			d.Exercises = []Exercise{}
		}
		for j := range d.Exercises {
			if d.Exercises[j].ID == "" {
				d.Exercises[j].ID = newNodeID()
			}
		}
	}
}

// ResizeDays changes the number of days to n. Days 1..min(old, n) are kept
// verbatim, new days are empty, and days beyond n are discarded.
func (p *WorkoutPlan) ResizeDays(n int) error {
	if n < 1 {
		return NewValidationError("days", "must be at least 1")
	}
	if n <= len(p.Days) {
		p.Days = p.Days[:n:n]
		return nil
	}
	for i := len(p.Days); i < n; i++ {
		p.Days = append(p.Days, NewWorkoutDay(i+1))
	}
	return nil
}

func (p *WorkoutPlan) dayIndex(dayID string) (int, error) {
	for i := range p.Days {
		if p.Days[i].ID == dayID {
			return i, nil
		}
	}
	return -1, errors.Wrapf(ErrNodeNotFound, "day %s", dayID)
}

// UpdateDay edits a day's name and notes; its exercises are untouched.
func (p *WorkoutPlan) UpdateDay(dayID, name, notes string) error {
	i, err := p.dayIndex(dayID)
	if err != nil {
		return err
	}
	p.Days[i].Name = name
	p.Days[i].Notes = notes
	return nil
}

// AddExercise appends ex to the day, assigning it a fresh id.
func (p *WorkoutPlan) AddExercise(dayID string, ex Exercise) (Exercise, error) {
	i, err := p.dayIndex(dayID)
	if err != nil {
		return Exercise{}, err
	}
	ex.ID = newNodeID()
	p.Days[i].Exercises = append(p.Days[i].Exercises, ex)
	return ex, nil
}

// ReplaceExercise swaps the exercise with ex.ID in place.
func (p *WorkoutPlan) ReplaceExercise(dayID string, ex Exercise) error {
	i, err := p.dayIndex(dayID)
	if err != nil {
		return err
	}
	for j := range p.Days[i].Exercises {
		if p.Days[i].Exercises[j].ID == ex.ID {
			p.Days[i].Exercises[j] = ex
			return nil
		}
	}
	return errors.Wrapf(ErrNodeNotFound, "exercise %s", ex.ID)
}

// RemoveExercise deletes an exercise, preserving the order of its siblings.
func (p *WorkoutPlan) RemoveExercise(dayID, exerciseID string) error {
	i, err := p.dayIndex(dayID)
	if err != nil {
		return err
	}
	exercises := p.Days[i].Exercises
	for j := range exercises {
		if exercises[j].ID == exerciseID {
			p.Days[i].Exercises = append(exercises[:j:j], exercises[j+1:]...)
			return nil
		}
	}
	return errors.Wrapf(ErrNodeNotFound, "exercise %s", exerciseID)
}

// Validate blocks saving a plan with an empty day or a malformed exercise.
func (p *WorkoutPlan) Validate() error {
	if len(p.Days) == 0 {
		return NewValidationError("days", "plan needs at least one day")
	}
	for i, d := range p.Days {
		if len(d.Exercises) == 0 {
			return NewValidationError(fmt.Sprintf("days[%d]", i), fmt.Sprintf("%s has no exercises", d.Name))
		}
		for j, ex := range d.Exercises {
			field := fmt.Sprintf("days[%d].exercises[%d]", i, j)
			if ex.Name == "" {
				return NewValidationError(field, "exercise name is required")
			}
			if ex.Sets < 1 {
				return NewValidationError(field, "sets must be at least 1")
			}
		}
	}
	return nil
}
