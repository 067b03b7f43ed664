package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payflow/config"
	"payflow/cron"
	"payflow/database"
	sessionRepo "payflow/database/repository/session"
	"payflow/handlers"
	"payflow/middleware"
	"payflow/routes"
	"payflow/services/payment"
	"payflow/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	ctx := context.Background()
	mongoClient, err := database.Connect(ctx, config.AppConfig.DatabaseURL)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	utils.InitRedis()
	utils.StartHealthMonitor(utils.GetQueueClient(), mongoClient)

	// Register card field validation rules on gin's binding engine.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := payment.RegisterCardValidators(v); err != nil {
			logger.Sugar().Fatalf("main: failed to register card validators: %v", err)
		}
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RateLimitMiddleware())

	// Repository and service.
	repo, err := sessionRepo.NewMongoOtpSessionRepo(mongoClient)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize session repository: %v", err)
	}
	paymentService := &payment.DefaultPaymentService{
		Repo:         repo,
		TTL:          time.Duration(config.AppConfig.OTPExpiryMinutes) * time.Minute,
		StoreTimeout: time.Duration(config.AppConfig.StoreTimeoutSeconds) * time.Second,
		Notifier:     payment.LogNotifier{},
	}
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	routes.RegisterRoutes(router, paymentHandler)

	// Optional maintenance sweep for stale pending sessions.
	if config.AppConfig.SweepEnabled {
		cron.InitSessionSweeper(repo)
	}

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := database.Disconnect(context.Background(), mongoClient); err != nil {
		logger.Sugar().Warnf("main: failed to close MongoDB client: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
