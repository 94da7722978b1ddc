package domain

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
	MealSnacks    MealType = "Snacks"
)

func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnacks:
		return true
	}
	return false
}

type FoodItem struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Quantity string `bson:"quantity,omitempty" json:"quantity,omitempty"`
}

type Meal struct {
	ID        string     `bson:"id" json:"id"`
	Type      MealType   `bson:"type" json:"type"`
	Name      string     `bson:"name" json:"name"`
	FoodItems []FoodItem `bson:"foodItems" json:"foodItems"`
	Notes     string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

type DietDay struct {
	ID        string `bson:"id" json:"id"`
	DayNumber int    `bson:"dayNumber" json:"dayNumber"`
	DayName   string `bson:"dayName" json:"dayName"`
	Meals     []Meal `bson:"meals" json:"meals"`
}

// DietPlan is the diet document of a single trainee: days, meals, food items.
type DietPlan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TraineeID   primitive.ObjectID `bson:"traineeId" json:"traineeId"`
	TraineeName string             `bson:"traineeName" json:"traineeName"`
	Days        []DietDay          `bson:"days" json:"days"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func NewDietDay(position int) DietDay {
	return DietDay{ID: newNodeID(), DayNumber: position, DayName: fmt.Sprintf("Day %d", position), Meals: []Meal{}}
}

// AssignIDs gives every node without an id a fresh one. Existing ids are kept.
func (p *DietPlan) AssignIDs() {
	for i := range p.Days {
		d := &p.Days[i]
		if d.ID == "" {
			d.ID = newNodeID()
		}
		if d.DayNumber == 0 {
			d.DayNumber = i + 1
		}
		if d.DayName == "" {
			d.DayName = fmt.Sprintf("Day %d", d.DayNumber)
		}
		if d.Meals == nil {
			d.Meals = []Meal{}
		}
		for j := range d.Meals {
			m := &d.Meals[j]
			if m.ID == "" {
				m.ID = newNodeID()
			}
			if m.FoodItems == nil {
				m.FoodItems = []FoodItem{}
			}
			for k := range m.FoodItems {
				if m.FoodItems[k].ID == "" {
					m.FoodItems[k].ID = newNodeID()
				}
			}
		}
	}
}

// ResizeDays changes the number of days to n with the same retention rules as
// WorkoutPlan.ResizeDays.
func (p *DietPlan) ResizeDays(n int) error {
	if n < 1 {
		return NewValidationError("days", "must be at least 1")
	}
	if n <= len(p.Days) {
		p.Days = p.Days[:n:n]
		return nil
	}
	for i := len(p.Days); i < n; i++ {
		p.Days = append(p.Days, NewDietDay(i+1))
	}
	return nil
}

func (p *DietPlan) dayIndex(dayID string) (int, error) {
	for i := range p.Days {
		if p.Days[i].ID == dayID {
			return i, nil
		}
	}
	return -1, errors.Wrapf(ErrNodeNotFound, "day %s", dayID)
}

func (p *DietPlan) mealIndex(dayID, mealID string) (int, int, error) {
	i, err := p.dayIndex(dayID)
	if err != nil {
		return -1, -1, err
	}
	for j := range p.Days[i].Meals {
		if p.Days[i].Meals[j].ID == mealID {
			return i, j, nil
		}
	}
	return -1, -1, errors.Wrapf(ErrNodeNotFound, "meal %s", mealID)
}

// RenameDay edits the day label; meals are untouched.
func (p *DietPlan) RenameDay(dayID, dayName string) error {
	i, err := p.dayIndex(dayID)
	if err != nil {
		return err
	}
	p.Days[i].DayName = dayName
	return nil
}

// AddMeal appends a meal to the day. The meal and its food items get fresh ids.
func (p *DietPlan) AddMeal(dayID string, meal Meal) (Meal, error) {
	i, err := p.dayIndex(dayID)
	if err != nil {
		return Meal{}, err
	}
	meal.ID = newNodeID()
	items := make([]FoodItem, len(meal.FoodItems))
	for k, f := range meal.FoodItems {
		f.ID = newNodeID()
		items[k] = f
	}
	meal.FoodItems = items
	p.Days[i].Meals = append(p.Days[i].Meals, meal)
	return meal, nil
}

// UpdateMeal edits a meal's type, name and notes in place; its food items are untouched.
func (p *DietPlan) UpdateMeal(dayID, mealID string, mealType MealType, name, notes string) error {
	i, j, err := p.mealIndex(dayID, mealID)
	if err != nil {
		return err
	}
	m := &p.Days[i].Meals[j]
	m.Type = mealType
	m.Name = name
	m.Notes = notes
	return nil
}

func (p *DietPlan) RemoveMeal(dayID, mealID string) error {
	i, j, err := p.mealIndex(dayID, mealID)
	if err != nil {
		return err
	}
	meals := p.Days[i].Meals
	p.Days[i].Meals = append(meals[:j:j], meals[j+1:]...)
	return nil
}

func (p *DietPlan) AddFoodItem(dayID, mealID string, item FoodItem) (FoodItem, error) {
	i, j, err := p.mealIndex(dayID, mealID)
	if err != nil {
		return FoodItem{}, err
	}
	item.ID = newNodeID()
	m := &p.Days[i].Meals[j]
	m.FoodItems = append(m.FoodItems, item)
	return item, nil
}

// ReplaceFoodItem swaps the food item with item.ID in place.
func (p *DietPlan) ReplaceFoodItem(dayID, mealID string, item FoodItem) error {
	i, j, err := p.mealIndex(dayID, mealID)
	if err != nil {
		return err
	}
	items := p.Days[i].Meals[j].FoodItems
	for k := range items {
		if items[k].ID == item.ID {
			items[k] = item
			return nil
		}
	}
	return errors.Wrapf(ErrNodeNotFound, "food item %s", item.ID)
}

func (p *DietPlan) RemoveFoodItem(dayID, mealID, itemID string) error {
	i, j, err := p.mealIndex(dayID, mealID)
	if err != nil {
		return err
	}
	m := &p.Days[i].Meals[j]
	for k := range m.FoodItems {
		if m.FoodItems[k].ID == itemID {
			m.FoodItems = append(m.FoodItems[:k:k], m.FoodItems[k+1:]...)
			return nil
		}
	}
	return errors.Wrapf(ErrNodeNotFound, "food item %s", itemID)
}

// Validate blocks saving a plan with a day that has no meals.
func (p *DietPlan) Validate() error {
	if len(p.Days) == 0 {
		return NewValidationError("days", "plan needs at least one day")
	}
	for i, d := range p.Days {
		if len(d.Meals) == 0 {
			return NewValidationError(fmt.Sprintf("days[%d]", i), fmt.Sprintf("%s has no meals", d.DayName))
		}
		for j, m := range d.Meals {
			if !m.Type.Valid() {
				return NewValidationError(fmt.Sprintf("days[%d].meals[%d]", i, j), fmt.Sprintf("unknown meal type %q", m.Type))
			}
		}
	}
	return nil
}
