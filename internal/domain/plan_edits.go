package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

// EditOp names a structural plan edit.
type EditOp string

const (
	OpResizeDays      EditOp = "resizeDays"
	OpUpdateDay       EditOp = "updateDay"
	OpAddExercise     EditOp = "addExercise"
	OpReplaceExercise EditOp = "replaceExercise"
	OpRemoveExercise  EditOp = "removeExercise"
	OpAddMeal         EditOp = "addMeal"
	OpUpdateMeal      EditOp = "updateMeal"
	OpRemoveMeal      EditOp = "removeMeal"
	OpAddFoodItem     EditOp = "addFoodItem"
	OpReplaceFoodItem EditOp = "replaceFoodItem"
	OpRemoveFoodItem  EditOp = "removeFoodItem"
)

// DayRef points at a day either by id or by 1-based position. Position lets a
// batch address days created earlier in the same batch.
type DayRef struct {
	ID       string `json:"dayId,omitempty"`
	Position int    `json:"dayNumber,omitempty"`
}

func resolveDay(ref DayRef, ids []string) (string, error) {
	if ref.ID != "" {
		return ref.ID, nil
	}
	if ref.Position < 1 || ref.Position > len(ids) {
		return "", errors.Wrapf(ErrNodeNotFound, "day number %d", ref.Position)
	}
	return ids[ref.Position-1], nil
}

// WorkoutEdit is one step of a workout plan edit batch.
type WorkoutEdit struct {
	Op         EditOp   `json:"op"`
	Day        DayRef   `json:"day"`
	Count      int      `json:"count,omitempty"`
	Name       string   `json:"name,omitempty"`
	Notes      string   `json:"notes,omitempty"`
	Exercise   Exercise `json:"exercise"`
	ExerciseID string   `json:"exerciseId,omitempty"`
}

func (p *WorkoutPlan) dayIDs() []string {
	ids := make([]string, len(p.Days))
	for i, d := range p.Days {
		ids[i] = d.ID
	}
	return ids
}

// ApplyWorkoutEdits applies edits in order. It stops at the first failing edit;
// callers work on a copy so a failed batch leaves the stored plan untouched.
func ApplyWorkoutEdits(p *WorkoutPlan, edits []WorkoutEdit) error {
	for n, e := range edits {
		if err := applyWorkoutEdit(p, e); err != nil {
			return errors.Wrapf(err, "edit %d (%s)", n, e.Op)
		}
	}
	return nil
}

func applyWorkoutEdit(p *WorkoutPlan, e WorkoutEdit) error {
	if e.Op == OpResizeDays {
		return p.ResizeDays(e.Count)
	}
	dayID, err := resolveDay(e.Day, p.dayIDs())
	if err != nil {
		return err
	}
	switch e.Op {
	case OpUpdateDay:
		return p.UpdateDay(dayID, e.Name, e.Notes)
	case OpAddExercise:
		_, err = p.AddExercise(dayID, e.Exercise)
		return err
	case OpReplaceExercise:
		return p.ReplaceExercise(dayID, e.Exercise)
	case OpRemoveExercise:
		return p.RemoveExercise(dayID, e.ExerciseID)
	}
	return NewValidationError("op", fmt.Sprintf("unsupported workout edit %q", e.Op))
}

// DietEdit is one step of a diet plan edit batch.
type DietEdit struct {
	Op       EditOp   `json:"op"`
	Day      DayRef   `json:"day"`
	Count    int      `json:"count,omitempty"`
	DayName  string   `json:"dayName,omitempty"`
	MealID   string   `json:"mealId,omitempty"`
	Meal     Meal     `json:"meal"`
	FoodItem FoodItem `json:"foodItem"`
	ItemID   string   `json:"itemId,omitempty"`
}

func (p *DietPlan) dayIDs() []string {
	ids := make([]string, len(p.Days))
	for i, d := range p.Days {
		ids[i] = d.ID
	}
	return ids
}

// ApplyDietEdits applies edits in order, stopping at the first failure.
func ApplyDietEdits(p *DietPlan, edits []DietEdit) error {
	for n, e := range edits {
		if err := applyDietEdit(p, e); err != nil {
			return errors.Wrapf(err, "edit %d (%s)", n, e.Op)
		}
	}
	return nil
}

func applyDietEdit(p *DietPlan, e DietEdit) error {
	if e.Op == OpResizeDays {
		return p.ResizeDays(e.Count)
	}
	dayID, err := resolveDay(e.Day, p.dayIDs())
	if err != nil {
		return err
	}
	switch e.Op {
	case OpUpdateDay:
		return p.RenameDay(dayID, e.DayName)
	case OpAddMeal:
		_, err = p.AddMeal(dayID, e.Meal)
		return err
	case OpUpdateMeal:
		return p.UpdateMeal(dayID, e.MealID, e.Meal.Type, e.Meal.Name, e.Meal.Notes)
	case OpRemoveMeal:
		return p.RemoveMeal(dayID, e.MealID)
	case OpAddFoodItem:
		_, err = p.AddFoodItem(dayID, e.MealID, e.FoodItem)
		return err
	case OpReplaceFoodItem:
		return p.ReplaceFoodItem(dayID, e.MealID, e.FoodItem)
	case OpRemoveFoodItem:
		return p.RemoveFoodItem(dayID, e.MealID, e.ItemID)
	}
	return NewValidationError("op", fmt.Sprintf("unsupported diet edit %q", e.Op))
}

// Clone returns a deep copy so edits can be applied without touching p.
func (p *WorkoutPlan) Clone() *WorkoutPlan {
	c := *p
	c.Days = make([]WorkoutDay, len(p.Days))
	for i, d := range p.Days {
		d.Exercises = append([]Exercise{}, d.Exercises...)
		c.Days[i] = d
	}
	return &c
}

// Clone returns a deep copy so edits can be applied without touching p.
func (p *DietPlan) Clone() *DietPlan {
	c := *p
	c.Days = make([]DietDay, len(p.Days))
	for i, d := range p.Days {
		meals := make([]Meal, len(d.Meals))
		for j, m := range d.Meals {
			m.FoodItems = append([]FoodItem{}, m.FoodItems...)
			meals[j] = m
		}
		d.Meals = meals
		c.Days[i] = d
	}
	return &c
}
