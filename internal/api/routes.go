package api

import (
	"alcyxob/gymdesk/internal/live"
	"alcyxob/gymdesk/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles what the HTTP layer calls into.
type Services struct {
	Trainees   service.TraineeService
	Trainers   service.TrainerService
	Attendance service.AttendanceService
	Plans      service.PlanService
	Exports    service.ExportService
	Hub        *live.Hub
	Location   *time.Location
}

func SetupRoutes(router *gin.Engine, jwtSecret string, svc Services) {
	traineeHandler := NewTraineeHandler(svc.Trainees, svc.Location)
	trainerHandler := NewTrainerHandler(svc.Trainers, svc.Location)
	attendanceHandler := NewAttendanceHandler(svc.Attendance, svc.Location)
	planHandler := NewPlanHandler(svc.Plans)
	exportHandler := NewExportHandler(svc.Exports)
	liveHandler := NewLiveHandler(svc.Hub)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.Use(MetricsMiddleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			operator, err := getOperatorFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get operator from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"operator": operator})
		})

		// --- Trainees ---
		trainees := protected.Group("/trainees")
		{
			trainees.GET("", traineeHandler.GetTrainees)
			trainees.POST("", traineeHandler.CreateTrainee)
			trainees.GET("/:id", traineeHandler.GetTrainee)
			trainees.PUT("/:id", traineeHandler.UpdateTrainee)
			trainees.DELETE("/:id", traineeHandler.DeleteTrainee)
			trainees.POST("/:id/archive", traineeHandler.ArchiveTrainee)
			trainees.POST("/:id/unarchive", traineeHandler.UnarchiveTrainee)
			trainees.GET("/:id/whatsapp", traineeHandler.GetWhatsAppLink)
			trainees.GET("/:id/workout-plan", planHandler.GetTraineeWorkoutPlan)
			trainees.GET("/:id/diet-plan", planHandler.GetTraineeDietPlan)
		}
		protected.GET("/expiring", traineeHandler.GetExpiring)

		// --- Trainers ---
		trainers := protected.Group("/trainers")
		{
			trainers.GET("", trainerHandler.GetTrainers)
			trainers.POST("", trainerHandler.CreateTrainer)
			trainers.GET("/:id", trainerHandler.GetTrainer)
			trainers.PUT("/:id", trainerHandler.UpdateTrainer)
			trainers.DELETE("/:id", trainerHandler.DeleteTrainer)
			trainers.POST("/:id/archive", trainerHandler.ArchiveTrainer)
			trainers.POST("/:id/unarchive", trainerHandler.UnarchiveTrainer)
			trainers.POST("/:id/check-in", attendanceHandler.CheckIn)
			trainers.POST("/:id/check-out", attendanceHandler.CheckOut)
		}

		// --- Attendance (ledger is "trainees" or "trainers") ---
		attendance := protected.Group("/attendance/:ledger")
		{
			attendance.GET("", attendanceHandler.GetByDate)
			attendance.POST("/mark", attendanceHandler.Mark)
			attendance.GET("/summary", attendanceHandler.GetSummary)
			attendance.GET("/subjects/:subjectId", attendanceHandler.GetHistory)
		}

		// --- Plans ---
		workoutPlans := protected.Group("/workout-plans")
		{
			workoutPlans.GET("", planHandler.GetWorkoutPlans)
			workoutPlans.POST("", planHandler.CreateWorkoutPlan)
			workoutPlans.GET("/:id", planHandler.GetWorkoutPlan)
			workoutPlans.PATCH("/:id", planHandler.EditWorkoutPlan)
			workoutPlans.DELETE("/:id", planHandler.DeleteWorkoutPlan)
		}
		dietPlans := protected.Group("/diet-plans")
		{
			dietPlans.GET("", planHandler.GetDietPlans)
			dietPlans.POST("", planHandler.CreateDietPlan)
			dietPlans.GET("/:id", planHandler.GetDietPlan)
			dietPlans.PATCH("/:id", planHandler.EditDietPlan)
			dietPlans.DELETE("/:id", planHandler.DeleteDietPlan)
		}

		// --- Exports ---
		exports := protected.Group("/exports")
		{
			exports.POST("/workout-plans/:id", exportHandler.ExportWorkoutPlan)
			exports.POST("/diet-plans/:id", exportHandler.ExportDietPlan)
			exports.POST("/trainees/:id", exportHandler.ExportTraineeCard)
		}

		// --- Live feeds (SSE) ---
		protected.GET("/live", liveHandler.GetFeeds)
		protected.GET("/live/:feed", liveHandler.Stream)
	}
}
