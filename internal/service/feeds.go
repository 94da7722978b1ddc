package service

import (
	"alcyxob/gymdesk/internal/live"
	"alcyxob/gymdesk/internal/repository"
	"context"
)

// Live feed names.
const (
	FeedTraineesActive         = "trainees.active"
	FeedTraineesArchived       = "trainees.archived"
	FeedTrainersActive         = "trainers.active"
	FeedTrainersArchived       = "trainers.archived"
	FeedAttendanceToday        = "attendance.today"
	FeedTrainerAttendanceToday = "trainerAttendance.today"
	FeedExpiring               = "expiring"
	FeedWorkoutPlans           = "workoutPlans"
	FeedDietPlans              = "dietPlans"
)

// RegisterFeeds wires every live feed to the query that produces its snapshot
// and the collections whose writes invalidate it.
func RegisterFeeds(hub *live.Hub, trainees TraineeService, trainers TrainerService, attendance AttendanceService, plans PlanService) {
	traineeFeed := func(active bool) live.FetchFunc {
		return func(ctx context.Context) (any, error) {
			list, err := trainees.List(ctx, active)
			if err != nil {
				return nil, err
			}
			now := trainees.Now()
			views := make([]TraineeView, len(list))
			for i, t := range list {
				views[i] = ViewTrainee(t, now)
			}
			return views, nil
		}
	}
	trainerFeed := func(active bool) live.FetchFunc {
		return func(ctx context.Context) (any, error) {
			return trainers.List(ctx, active)
		}
	}
	todayFeed := func(l Ledger) live.FetchFunc {
		return func(ctx context.Context) (any, error) {
			return attendance.ListByDate(ctx, l, attendance.Today())
		}
	}

	hub.Register(FeedTraineesActive, traineeFeed(true), repository.TraineesCollection)
	hub.Register(FeedTraineesArchived, traineeFeed(false), repository.TraineesCollection)
	hub.Register(FeedTrainersActive, trainerFeed(true), repository.TrainersCollection)
	hub.Register(FeedTrainersArchived, trainerFeed(false), repository.TrainersCollection)
	hub.Register(FeedAttendanceToday, todayFeed(TraineeLedger), repository.AttendanceCollection)
	hub.Register(FeedTrainerAttendanceToday, todayFeed(TrainerLedger), repository.TrainerAttendanceCollection)
	hub.Register(FeedExpiring, func(ctx context.Context) (any, error) {
		return trainees.Expiring(ctx)
	}, repository.TraineesCollection)
	hub.Register(FeedWorkoutPlans, func(ctx context.Context) (any, error) {
		return plans.ListWorkoutPlans(ctx)
	}, repository.WorkoutPlansCollection)
	hub.Register(FeedDietPlans, func(ctx context.Context) (any, error) {
		return plans.ListDietPlans(ctx)
	}, repository.DietPlansCollection)
}
