package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/adilzhn/remindly/internal/config"
	"github.com/adilzhn/remindly/internal/database"
	"github.com/adilzhn/remindly/internal/handlers"
	"github.com/adilzhn/remindly/internal/jobs"
	"github.com/adilzhn/remindly/internal/push"
	"github.com/adilzhn/remindly/internal/repository"
	"github.com/adilzhn/remindly/internal/scheduler"
	"github.com/adilzhn/remindly/internal/services"
	"github.com/adilzhn/remindly/pkg/logger"
	"github.com/adilzhn/remindly/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	loc := cfg.Location()

	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	entityRepo := repository.NewEntityRepository(db)
	prefsRepo := repository.NewPreferencesRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	logRepo := repository.NewLogRepository(db)

	// --- Push transport ---
	var transport services.PushTransport
	if cfg.FCMCredentialsFile != "" {
		fcm, err := push.NewFCMTransport(context.Background(), cfg.FCMCredentialsFile)
		if err != nil {
			log.Fatalf("FCM init error: %v", err)
		}
		transport = fcm
	} else {
		logger.Log.Warn("FCM credentials not configured, using dry-run transport")
		transport = push.NewLoggingTransport()
	}

	// --- Services ---
	userService := services.NewUserService(userRepo)
	entityService := services.NewEntityService(entityRepo)
	prefsService := services.NewPreferencesService(prefsRepo)
	activityService := services.NewActivityService(activityRepo, loc)
	deviceService := services.NewDeviceService(tokenRepo)
	logService := services.NewLogService(logRepo)
	dispatchService := services.NewDispatchService(prefsRepo, tokenRepo, entityRepo, logRepo, transport, loc)

	jobDeps := jobs.Deps{Entities: entityRepo, Activity: activityRepo, Loc: loc}

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	entityHandler := handlers.NewEntityHandler(entityService)
	prefsHandler := handlers.NewPreferencesHandler(prefsService)
	activityHandler := handlers.NewActivityHandler(activityService)
	deviceHandler := handlers.NewDeviceHandler(deviceService)
	logHandler := handlers.NewLogHandler(logService)
	jobHandler := handlers.NewJobHandler(dispatchService, jobDeps, cfg)

	router := mux.NewRouter()

	// Public user routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")

	// Job trigger routes (authorized by scheduler identity or cron secret,
	// not by user JWT)
	router.HandleFunc("/jobs/{name}/run", jobHandler.RunJobHandler).Methods("POST")

	// Entity routes
	protectedEntityRoutes := router.PathPrefix("/entities").Subrouter()
	protectedEntityRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedEntityRoutes.HandleFunc("", entityHandler.CreateEntityHandler).Methods("POST")
	protectedEntityRoutes.HandleFunc("", entityHandler.ListEntitiesHandler).Methods("GET")
	protectedEntityRoutes.HandleFunc("/{id}/status", entityHandler.UpdateStatusHandler).Methods("PATCH")
	protectedEntityRoutes.HandleFunc("/{id}", entityHandler.DeleteEntityHandler).Methods("DELETE")

	// Preferences routes
	protectedPrefsRoutes := router.PathPrefix("/preferences").Subrouter()
	protectedPrefsRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedPrefsRoutes.HandleFunc("", prefsHandler.GetPreferencesHandler).Methods("GET")
	protectedPrefsRoutes.HandleFunc("", prefsHandler.UpdatePreferencesHandler).Methods("PUT")

	// Activity + streak routes
	protectedActivityRoutes := router.PathPrefix("/activity").Subrouter()
	protectedActivityRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedActivityRoutes.HandleFunc("", activityHandler.RecordActivityHandler).Methods("POST")
	protectedActivityRoutes.HandleFunc("/streak", activityHandler.GetStreakHandler).Methods("GET")

	// Device routes
	protectedDeviceRoutes := router.PathPrefix("/devices").Subrouter()
	protectedDeviceRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedDeviceRoutes.HandleFunc("", deviceHandler.RegisterDeviceHandler).Methods("POST")
	protectedDeviceRoutes.HandleFunc("/{token}", deviceHandler.RemoveDeviceHandler).Methods("DELETE")

	// Notification history
	protectedLogRoutes := router.PathPrefix("/notifications").Subrouter()
	protectedLogRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedLogRoutes.HandleFunc("/log", logHandler.RecentLogHandler).Methods("GET")

	router.Use(middleware.LoggingMiddleware)

	// Start the reminder cron jobs
	scheduler.StartJobCrons(dispatchService, jobDeps)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}
