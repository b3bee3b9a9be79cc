package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"trendlens-go/internal/config"
	"trendlens-go/internal/handler"
	"trendlens-go/pkg/chart"
	"trendlens-go/pkg/logger"
	"trendlens-go/pkg/retry"
	"trendlens-go/pkg/seo"
	"trendlens-go/pkg/storage"
	"trendlens-go/pkg/trends"
)

type Application struct {
	configPath string
	debug      bool
}

func main() {
	app := &Application{}

	flag.StringVar(&app.configPath, "config", "config/dev.yaml", "Configuration file path")
	flag.BoolVar(&app.debug, "debug", false, "Enable debug mode")
	flag.Parse()

	if err := app.Run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func (app *Application) Run() error {
	cfg, err := config.NewManager().Load(app.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := cfg.Logger.Level
	if app.debug {
		logLevel = "debug"
	}
	logger.SetLogger(logger.New(logger.Config{
		Level:      logLevel,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		TimeFormat: cfg.Logger.TimeFormat,
	}))
	appLog := logger.ForComponent("server")

	connConfig := trends.DefaultConnectionConfig()
	if cfg.Trends.Timeout > 0 {
		connConfig.RequestTimeout = time.Duration(cfg.Trends.Timeout) * time.Second
	}
	client, err := trends.NewHTTPClientWithConfig(
		cfg.Trends.BaseURL,
		cfg.Trends.APIKey,
		cfg.Trends.HostLanguage,
		connConfig,
		cfg.Trends.QPS,
	)
	if err != nil {
		return fmt.Errorf("failed to create trends client: %w", err)
	}

	fetcher := retry.NewWithJitter(
		cfg.Retry.MaxRetries,
		time.Duration(cfg.Retry.BaseDelaySeconds)*time.Second,
		time.Duration(cfg.Retry.JitterSeconds)*time.Second,
	)
	analyzer := seo.NewAnalyzerWithRetry(client, fetcher)

	history, err := storage.OpenHistory(cfg.Storage.HistoryPath)
	if err != nil {
		return fmt.Errorf("failed to open fetch history: %w", err)
	}
	defer history.Close()

	cache := storage.NewResultCache(
		cfg.Storage.CacheSize,
		time.Duration(cfg.Storage.CacheTTLMinutes)*time.Minute,
	)

	controller := handler.NewController(analyzer, history, chart.NewRenderer(), cache)

	server := fiber.New(fiber.Config{
		AppName:               "trendlens-go",
		DisableStartupMessage: true,
	})
	controller.RegisterRoutes(server)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Listen(addr)
	}()

	appLog.WithField("addr", addr).Info("Server started")

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		appLog.Info("Shutdown signal received")
	}

	if err := server.ShutdownWithTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}

	appLog.Info("Server stopped")
	return nil
}
