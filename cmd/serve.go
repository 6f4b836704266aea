package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"oneprompt/config"
	"oneprompt/internal/ai"
	"oneprompt/internal/api"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(*configPath)
		},
	}
}

func serve(configPath string) error {
	cfg, err := loadServeConfig(configPath)
	if err != nil {
		return err
	}

	generator := ai.NewGenerator(newBackend(cfg), cfg.RequestTimeout)
	apiHandler := api.NewAPIHandler(generator)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
		zap.S().Info("Running in Gin Debug Mode")
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	api.RegisterRoutes(router, apiHandler)

	server := &http.Server{
		Addr:        cfg.ServerAddress,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Generation calls can be slow; leave room beyond the request timeout.
		WriteTimeout: cfg.RequestTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		zap.S().Infof("Starting API server on %s using the %s backend", cfg.ServerAddress, cfg.GeneratorBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		zap.S().Infof("Received signal: %s. Shutting down server...", sig)
	case err := <-serverErr:
		if err != nil {
			zap.S().Errorf("API server listen error: %v", err)
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.S().Errorf("API server forced shutdown error: %v", err)
		return err
	}
	zap.S().Info("API server gracefully stopped.")
	return nil
}

func newBackend(cfg config.Config) ai.Backend {
	if cfg.GeneratorBackend == config.BackendWebhook {
		return ai.NewWebhookBackend(cfg.WebhookURL, &http.Client{Timeout: cfg.RequestTimeout})
	}
	return ai.NewOpenAIBackend(ai.OpenAIConfig{
		APIKey:      cfg.OpenAIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	})
}

// loadServeConfig reads .env and the configuration, validates it and
// switches the global logger to match the configured environment.
func loadServeConfig(configPath string) (config.Config, error) {
	// .env is optional; in production the environment is set directly.
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			zap.S().Warnf("Error loading .env file: %v", err)
		} else {
			zap.S().Info(".env file not found, relying on system environment variables.")
		}
	} else {
		zap.S().Info("Loaded environment variables from .env file.")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		zap.S().Errorf("Cannot load config: %v", err)
		return config.Config{}, err
	}
	if err := setupLogger(cfg.IsProduction()); err != nil {
		return config.Config{}, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		err := errors.Join(errs...)
		zap.S().Errorf("Invalid configuration: %v", err)
		return config.Config{}, err
	}
	return cfg, nil
}
