package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/khrees2412/mockprep/internal/ai"
	"github.com/khrees2412/mockprep/internal/auth"
	"github.com/khrees2412/mockprep/internal/config"
	"github.com/khrees2412/mockprep/internal/database"
	"github.com/khrees2412/mockprep/internal/events"
	"github.com/khrees2412/mockprep/internal/storage"
)

// App is the dependency container shared by the CLI and the HTTP server
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Store      *database.Store
	Blobs      storage.Store
	Auth       *auth.Provider
	Publisher  *events.Publisher // nil when rabbitmq_url is unset
	AI         *ai.Client
	HTTPClient *http.Client
}

// NewApp initializes and returns a new App instance
func NewApp(ctx context.Context, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Initialize config
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	cfg := config.AppConfig

	store, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL, config.GetConfigDir())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	blobs, err := storage.New(ctx, storage.Options{
		Backend:       cfg.StorageBackend,
		Dir:           cfg.StorageDir,
		Bucket:        cfg.StorageBucket,
		PublicBaseURL: cfg.PublicBaseURL,
		Endpoint:      cfg.S3Endpoint,
		Region:        cfg.S3Region,
		R2AccountID:   cfg.R2AccountID,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Create HTTP client with timeout
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
	}

	a := &App{
		Config:     cfg,
		Logger:     logger,
		Store:      store,
		Blobs:      blobs,
		Auth:       auth.NewProvider(store),
		HTTPClient: httpClient,
		AI: ai.NewClient(ai.Settings{
			Provider:     cfg.AIProvider,
			Model:        cfg.DefaultModel,
			OpenAIKey:    cfg.OpenAIKey,
			AnthropicKey: cfg.AnthropicKey,
			GeminiKey:    cfg.GeminiKey,
			OllamaURL:    cfg.OllamaURL,
		}, httpClient),
	}

	// The event stream is optional; the app runs without a broker
	if cfg.RabbitMQURL != "" {
		publisher, err := events.Dial(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("activity events disabled", zap.Error(err))
		} else {
			a.Publisher = publisher
		}
	}

	logger.Debug("app initialized",
		zap.String("database_driver", cfg.DatabaseDriver),
		zap.String("storage_backend", cfg.StorageBackend),
		zap.Bool("events", a.Publisher != nil),
	)
	return a, nil
}

// Close closes all resources
func (a *App) Close() error {
	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			a.Logger.Warn("failed to close publisher", zap.Error(err))
		}
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
