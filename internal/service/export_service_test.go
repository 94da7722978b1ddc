package service

import (
	"alcyxob/gymdesk/internal/domain"
	"alcyxob/gymdesk/internal/export"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) PutObject(ctx context.Context, objectKey string, contentType string, body []byte) error {
	return m.Called(ctx, objectKey, contentType, body).Error(0)
}

func (m *MockFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expires)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	return m.Called(ctx, objectKey).Error(0)
}

var testLetterhead = export.Letterhead{GymName: "Iron Temple", Address: "12 MG Road", Phone: "080 1234"}

func (f *fixture) exportService(fs *MockFileStorage) ExportService {
	s := f.store
	if fs == nil {
		return NewExportService(s.Trainees(), s.Trainers(), s.WorkoutPlans(), s.DietPlans(), nil, testLetterhead, 30*time.Minute, f.clock)
	}
	return NewExportService(s.Trainees(), s.Trainers(), s.WorkoutPlans(), s.DietPlans(), fs, testLetterhead, 30*time.Minute, f.clock)
}

func workoutKey(key string) bool {
	return strings.HasPrefix(key, "exports/workout/") && strings.HasSuffix(key, ".html")
}

func TestExportInlineWithoutStorage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.createTrainee(t, traineeInput("M001", "9876543210"))
	plan, err := f.plans.CreateWorkoutPlan(ctx, tr.ID, []domain.WorkoutDay{squatDay("Legs")})
	require.NoError(t, err)

	res, err := f.exportService(nil).ExportWorkoutPlan(ctx, plan.ID)
	require.NoError(t, err)

	assert.Equal(t, export.KindWorkout, res.Kind)
	assert.Empty(t, res.URL)
	assert.Nil(t, res.ExpiresAt)
	assert.Contains(t, res.HTML, "Iron Temple")
	assert.Contains(t, res.HTML, "Workout Plan: Asha Rao")
	assert.Contains(t, res.HTML, "<td>Squat</td>")
}

func TestExportUploadsAndPresigns(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.createTrainee(t, traineeInput("M001", "9876543210"))
	plan, err := f.plans.CreateWorkoutPlan(ctx, tr.ID, []domain.WorkoutDay{squatDay("Legs")})
	require.NoError(t, err)

	fs := &MockFileStorage{}
	fs.On("PutObject", mock.Anything, mock.MatchedBy(workoutKey), exportContentType, mock.Anything).Return(nil)
	fs.On("GeneratePresignedDownloadURL", mock.Anything, mock.MatchedBy(workoutKey), 30*time.Minute).
		Return("https://bucket.example/exports/workout/x.html?sig=1", nil)

	res, err := f.exportService(fs).ExportWorkoutPlan(ctx, plan.ID)
	require.NoError(t, err)

	assert.Equal(t, "https://bucket.example/exports/workout/x.html?sig=1", res.URL)
	assert.True(t, strings.HasPrefix(res.ObjectKey, "exports/workout/"+plan.ID.Hex()))
	require.NotNil(t, res.ExpiresAt)
	assert.Equal(t, f.now.Add(30*time.Minute), *res.ExpiresAt)
	assert.Empty(t, res.HTML)
	fs.AssertExpectations(t)
	fs.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
}

func TestExportRemovesObjectWhenPresignFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.createTrainee(t, traineeInput("M001", "9876543210"))
	plan, err := f.plans.CreateWorkoutPlan(ctx, tr.ID, []domain.WorkoutDay{squatDay("Legs")})
	require.NoError(t, err)

	fs := &MockFileStorage{}
	fs.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	fs.On("GeneratePresignedDownloadURL", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("signer unavailable"))
	fs.On("DeleteObject", mock.Anything, mock.MatchedBy(workoutKey)).Return(nil)

	_, err = f.exportService(fs).ExportWorkoutPlan(ctx, plan.ID)

	assert.Error(t, err)
	fs.AssertCalled(t, "DeleteObject", mock.Anything, mock.MatchedBy(workoutKey))
}

func TestExportUploadFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.createTrainee(t, traineeInput("M001", "9876543210"))
	plan, err := f.plans.CreateDietPlan(ctx, tr.ID, []domain.DietDay{oatsDay()})
	require.NoError(t, err)

	fs := &MockFileStorage{}
	fs.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket gone"))

	_, err = f.exportService(fs).ExportDietPlan(ctx, plan.ID)

	assert.Error(t, err)
	fs.AssertNotCalled(t, "GeneratePresignedDownloadURL", mock.Anything, mock.Anything, mock.Anything)
}

func TestExportTraineeCardNamesTrainer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	trainer := f.createTrainer(t, "Ravi Kumar", "9123456789")
	in := traineeInput("M001", "9876543210")
	in.SpecialTraining = true
	in.AssignedTrainerID = &trainer.ID
	tr := f.createTrainee(t, in)

	res, err := f.exportService(nil).ExportTraineeCard(ctx, tr.ID)
	require.NoError(t, err)

	assert.Equal(t, export.KindTraineeCard, res.Kind)
	assert.Contains(t, res.HTML, "Ravi Kumar")
	assert.Contains(t, res.HTML, "M001")
}

func TestExportNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t).exportService(nil)

	_, err := svc.ExportWorkoutPlan(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrPlanNotFound)
	_, err = svc.ExportDietPlan(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrPlanNotFound)
	_, err = svc.ExportTraineeCard(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrTraineeNotFound)
}
