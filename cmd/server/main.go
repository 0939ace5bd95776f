package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"steam-review-service/internal/config"
	"steam-review-service/internal/handler"
	"steam-review-service/internal/logging"
	"steam-review-service/internal/metrics"
	"steam-review-service/internal/repository"
	"steam-review-service/internal/service"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yml"
	}

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting SVM API...", zap.String("config", configPath))

	for _, dir := range []string{cfg.Paths.InputsDir, cfg.Paths.OutputsDir, cfg.Paths.DatasetDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal("Failed to create directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	// Initialize run history
	runs, err := repository.NewRunRepository(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize run repository", zap.Error(err))
	}
	defer runs.Close()

	// Initialize services
	m := metrics.New()
	trainer := service.NewTrainer(runs, cfg.Paths.OutputsDir, m, logger)
	datasets := service.NewDatasetService(cfg.Paths.InputsDir, m, logger)

	apiHandler := handler.NewHandler(datasets, trainer, handler.StaticDirs{
		Inputs:  cfg.Paths.InputsDir,
		Outputs: cfg.Paths.OutputsDir,
		Dataset: cfg.Paths.DatasetDir,
	}, m.Handler(), logger)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	router.Use(m.Middleware())

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	apiHandler.RegisterRoutes(router)

	serverAddr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("SVM API is running",
		zap.String("address", serverAddr),
		zap.String("runs_backend", cfg.Runs.Backend))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Let in-flight training jobs record their runs before the store closes
	trainer.Wait()

	logger.Info("Server exited")
}
