package service

import (
	"alcyxob/gymdesk/internal/export"
	"alcyxob/gymdesk/internal/metrics"
	"alcyxob/gymdesk/internal/repository"
	"alcyxob/gymdesk/internal/storage"
	"context"
	"fmt"
	"log"
	"path"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const exportContentType = "text/html; charset=utf-8"

// ExportResult points at a rendered document. When no storage is configured
// URL is empty and HTML carries the document itself.
type ExportResult struct {
	Kind      string     `json:"kind"`
	ObjectKey string     `json:"objectKey,omitempty"`
	URL       string     `json:"url,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	HTML      string     `json:"html,omitempty"`
}

type ExportService interface {
	ExportWorkoutPlan(ctx context.Context, planID primitive.ObjectID) (*ExportResult, error)
	ExportDietPlan(ctx context.Context, planID primitive.ObjectID) (*ExportResult, error)
	ExportTraineeCard(ctx context.Context, traineeID primitive.ObjectID) (*ExportResult, error)
}

type exportService struct {
	trainees    repository.TraineeRepository
	trainers    repository.TrainerRepository
	workouts    repository.WorkoutPlanRepository
	diets       repository.DietPlanRepository
	fileStorage storage.FileStorage
	letterhead  export.Letterhead
	linkExpiry  time.Duration
	clock       Clock
}

// NewExportService creates a new instance of exportService. fileStorage may be nil.
func NewExportService(
	trainees repository.TraineeRepository,
	trainers repository.TrainerRepository,
	workouts repository.WorkoutPlanRepository,
	diets repository.DietPlanRepository,
	fileStorage storage.FileStorage,
	letterhead export.Letterhead,
	linkExpiry time.Duration,
	clock Clock,
) ExportService {
	if linkExpiry <= 0 {
		linkExpiry = storage.DefaultPresignedURLExpiry
	}
	return &exportService{
		trainees:    trainees,
		trainers:    trainers,
		workouts:    workouts,
		diets:       diets,
		fileStorage: fileStorage,
		letterhead:  letterhead,
		linkExpiry:  linkExpiry,
		clock:       clock,
	}
}

func (s *exportService) ExportWorkoutPlan(ctx context.Context, planID primitive.ObjectID) (*ExportResult, error) {
	p, err := s.workouts.GetByID(ctx, planID)
	if err != nil {
		return nil, planNotFound(err)
	}
	md := export.WorkoutMarkdown(s.letterhead, p)
	return s.publish(ctx, export.KindWorkout, p.ID, "Workout Plan - "+p.TraineeName, md)
}

func (s *exportService) ExportDietPlan(ctx context.Context, planID primitive.ObjectID) (*ExportResult, error) {
	p, err := s.diets.GetByID(ctx, planID)
	if err != nil {
		return nil, planNotFound(err)
	}
	md := export.DietMarkdown(s.letterhead, p)
	return s.publish(ctx, export.KindDiet, p.ID, "Diet Plan - "+p.TraineeName, md)
}

func (s *exportService) ExportTraineeCard(ctx context.Context, traineeID primitive.ObjectID) (*ExportResult, error) {
	t, err := s.trainees.GetByID(ctx, traineeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTraineeNotFound
		}
		return nil, err
	}
	trainerName := ""
	if t.SpecialTraining && t.AssignedTrainerID != nil {
		trainer, err := s.trainers.GetByID(ctx, *t.AssignedTrainerID)
		switch {
		case err == nil:
			trainerName = trainer.Name
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}
	md := export.TraineeCardMarkdown(s.letterhead, t, trainerName, s.clock.Now())
	return s.publish(ctx, export.KindTraineeCard, t.ID, "Member Card - "+t.Name, md)
}

// publish renders the document and, when storage is configured, uploads it
// and returns a presigned download link.
func (s *exportService) publish(ctx context.Context, kind string, id primitive.ObjectID, title, md string) (*ExportResult, error) {
	page, err := export.RenderHTML(title, md)
	if err != nil {
		metrics.RecordExport(kind, "failed")
		return nil, err
	}
	if s.fileStorage == nil {
		metrics.RecordExport(kind, "inline")
		return &ExportResult{Kind: kind, HTML: string(page)}, nil
	}

	now := s.clock.Now()
	objectKey := path.Join("exports", kind, fmt.Sprintf("%s-%d.html", id.Hex(), now.Unix()))
	if err = s.fileStorage.PutObject(ctx, objectKey, exportContentType, page); err != nil {
		metrics.RecordExport(kind, "failed")
		return nil, errors.Wrap(err, "upload export")
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, s.linkExpiry)
	if err != nil {
		metrics.RecordExport(kind, "failed")
		// Nobody can reach the object without a link.
		if delErr := s.fileStorage.DeleteObject(ctx, objectKey); delErr != nil {
			log.Printf("WARN: Failed to remove unreachable export %s: %v", objectKey, delErr)
		}
		return nil, errors.Wrap(err, "presign export")
	}

	metrics.RecordExport(kind, "uploaded")
	expires := now.Add(s.linkExpiry)
	return &ExportResult{Kind: kind, ObjectKey: objectKey, URL: url, ExpiresAt: &expires}, nil
}
