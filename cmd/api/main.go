package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/moveright/assessadmin-api/internal/config"
	"github.com/moveright/assessadmin-api/internal/database"
	"github.com/moveright/assessadmin-api/internal/handler"
	"github.com/moveright/assessadmin-api/internal/middleware"
	"github.com/moveright/assessadmin-api/internal/repository"
	"github.com/moveright/assessadmin-api/internal/router"
	"github.com/moveright/assessadmin-api/internal/service"
	"github.com/moveright/assessadmin-api/pkg/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var mail mailer.Mailer = mailer.Noop{}
	if cfg.SendgridAPIKey != "" {
		sendgridMailer, err := mailer.New(mailer.Config{
			APIKey:      cfg.SendgridAPIKey,
			FromName:    cfg.MailFromName,
			FromAddress: cfg.MailFromAddress,
			PortalURL:   cfg.PortalURL,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create mailer: %v", err)
		}
		mail = sendgridMailer
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	countryRepo := repository.NewCountryRepository(db)
	regionRepo := repository.NewRegionRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	trainingTaskRepo := repository.NewTrainingTaskRepository(db)
	trainingResultRepo := repository.NewTrainingResultRepository(db)

	permissionService := service.NewPermissionService(permissionRepo, logger)
	scopeService := service.NewScopeService(userRepo, roleRepo, logger)
	cascadeService := service.NewCascadeService(countryRepo, regionRepo, schoolRepo, classRepo, studentRepo, userRepo, assessmentRepo, logger)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, validate, logger)
	userService := service.NewUserService(userRepo, roleRepo, countryRepo, regionRepo, schoolRepo, scopeService, cascadeService, mail, validate, logger)
	countryService := service.NewCountryService(countryRepo, regionRepo, cascadeService, validate, logger)
	regionService := service.NewRegionService(regionRepo, countryRepo, scopeService, cascadeService, validate, logger)
	schoolService := service.NewSchoolService(schoolRepo, regionRepo, scopeService, cascadeService, validate, logger)
	classService := service.NewClassService(classRepo, schoolRepo, userRepo, scopeService, cascadeService, validate, logger)
	studentService := service.NewStudentService(studentRepo, classRepo, assessmentRepo, validate, logger)
	assessmentService := service.NewAssessmentService(assessmentRepo, studentRepo, classRepo, taskRepo, userRepo, schoolRepo, scopeService, validate, logger)
	taskService := service.NewTaskService(taskRepo, validate, logger)
	trainingService := service.NewTrainingService(trainingTaskRepo, trainingResultRepo, scopeService, validate, logger)
	seedService := service.NewSeedService(roleRepo, userRepo, cfg.SeedEnabled, cfg.SeedToken, logger)
	dashboardService := service.NewDashboardService(schoolRepo, classRepo, studentRepo, userRepo, roleRepo, scopeService, redisClient, cfg.DashboardCacheTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		UserHandler:       handler.NewUserHandler(userService, permissionService, logger),
		CountryHandler:    handler.NewCountryHandler(countryService, logger),
		RegionHandler:     handler.NewRegionHandler(regionService, userService, logger),
		SchoolHandler:     handler.NewSchoolHandler(schoolService, userService, logger),
		ClassHandler:      handler.NewClassHandler(classService, userService, logger),
		StudentHandler:    handler.NewStudentHandler(studentService, logger),
		AssessmentHandler: handler.NewAssessmentHandler(assessmentService, userService, logger),
		TaskHandler:       handler.NewTaskHandler(taskService, logger),
		PermissionHandler: handler.NewPermissionHandler(permissionService, logger),
		TrainingHandler:   handler.NewTrainingHandler(trainingService, userService, logger),
		DashboardHandler:  handler.NewDashboardHandler(dashboardService, userService, logger),
		SeedHandler:       handler.NewSeedHandler(seedService, logger),
		PermissionService: permissionService,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		LoginRateLimit:    middleware.RateLimit("login", 10, time.Minute),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
