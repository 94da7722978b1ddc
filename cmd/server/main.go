package main

import (
	"alcyxob/gymdesk/internal/api"
	"alcyxob/gymdesk/internal/config"
	"alcyxob/gymdesk/internal/export"
	"alcyxob/gymdesk/internal/live"
	"alcyxob/gymdesk/internal/mail"
	"alcyxob/gymdesk/internal/repository"
	"alcyxob/gymdesk/internal/repository/memory"
	"alcyxob/gymdesk/internal/repository/mongo"
	"alcyxob/gymdesk/internal/service"
	"alcyxob/gymdesk/internal/storage"
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// repositories is the set of stores the services are built on.
type repositories struct {
	trainees          repository.TraineeRepository
	trainers          repository.TrainerRepository
	attendance        repository.AttendanceRepository
	trainerAttendance repository.AttendanceRepository
	workoutPlans      repository.WorkoutPlanRepository
	dietPlans         repository.DietPlanRepository
}

// @title Gym Desk API
// @version 1.0
// @description Front-desk API for trainees, trainers, attendance, workout and diet plans.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Gym Desk Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatalf("FATAL: jwt.secret is not configured")
	}
	loc, err := cfg.Gym.Location()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	log.Printf("Configuration loaded. Gym time zone: %s", loc)

	// --- Database Connection ---
	var repos repositories
	if cfg.Database.URI == "" {
		log.Println("WARN: database.uri is empty, using the in-memory store. Data is lost on exit.")
		store := memory.NewStore()
		repos = repositories{
			trainees:          store.Trainees(),
			trainers:          store.Trainers(),
			attendance:        store.Attendance(),
			trainerAttendance: store.TrainerAttendance(),
			workoutPlans:      store.WorkoutPlans(),
			dietPlans:         store.DietPlans(),
		}
	} else {
		dbClient, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
		}
		defer func() {
			log.Println("Disconnecting MongoDB...")
			if err := mongo.DisconnectDB(dbClient); err != nil {
				log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
			}
		}()
		appDB := dbClient.Database(cfg.Database.Name)
		log.Println("Database connection established.")

		// --- Ensure Indexes ---
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
			defer cancel()
			mongo.EnsureIndexes(ctx, appDB)
			log.Println("Index creation process completed.")
		}()

		repos = repositories{
			trainees:          mongo.NewMongoTraineeRepository(appDB),
			trainers:          mongo.NewMongoTrainerRepository(appDB),
			attendance:        mongo.NewMongoAttendanceRepository(appDB),
			trainerAttendance: mongo.NewMongoTrainerAttendanceRepository(appDB),
			workoutPlans:      mongo.NewMongoWorkoutPlanRepository(appDB),
			dietPlans:         mongo.NewMongoDietPlanRepository(appDB),
		}
	}

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		log.Println("Initializing file storage service...")
		fileStorage, err = storage.NewS3Storage(cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("WARN: s3.bucket_name is empty, exports are returned inline.")
	}

	// --- Initialize Services ---
	log.Println("Initializing services...")
	hub := live.NewHub()
	clock := service.SystemClock(loc)
	letterhead := export.Letterhead{GymName: cfg.Gym.Name, Address: cfg.Gym.Address, Phone: cfg.Gym.Phone}

	traineeService := service.NewTraineeService(repos.trainees, repos.trainers, repos.attendance,
		repos.workoutPlans, repos.dietPlans, hub, clock, cfg.Gym.Name, cfg.Notifier.HorizonDays)
	trainerService := service.NewTrainerService(repos.trainers, repos.trainees, repos.trainerAttendance, hub, clock)
	attendanceService := service.NewAttendanceService(repos.trainees, repos.trainers, repos.attendance,
		repos.trainerAttendance, hub, clock)
	planService := service.NewPlanService(repos.trainees, repos.workoutPlans, repos.dietPlans, hub)
	exportService := service.NewExportService(repos.trainees, repos.trainers, repos.workoutPlans, repos.dietPlans,
		fileStorage, letterhead, cfg.S3.LinkExpiry, clock)
	service.RegisterFeeds(hub, traineeService, trainerService, attendanceService, planService)

	// --- Expiry digest ---
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	sender := mail.NewSender(cfg.Email.ResendAPIKey, cfg.Email.From)
	digest := service.NewDigestWorker(traineeService, sender, cfg.Notifier.Recipient, cfg.Notifier.Interval, letterhead, clock)
	go digest.Run(workerCtx)

	// --- Initialize Gin Engine ---
	router := gin.Default()

	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, api.Services{
		Trainees:   traineeService,
		Trainers:   trainerService,
		Attendance: attendanceService,
		Plans:      planService,
		Exports:    exportService,
		Hub:        hub,
		Location:   loc,
	})

	// --- Start HTTP Server ---
	// No WriteTimeout: live feeds hold the response open. Their request
	// contexts derive from baseCtx, which is cancelled when shutdown begins.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	server := &http.Server{
		Addr:        cfg.Server.Address,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(cancelBase)

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	stopWorker()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
