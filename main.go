package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sjsage522/newsharvester/config"
	"sjsage522/newsharvester/internal/render"
	"sjsage522/newsharvester/internal/scraper"
	"sjsage522/newsharvester/logger"
	"sjsage522/newsharvester/services/cache"
	"sjsage522/newsharvester/services/publisher"
	"sjsage522/newsharvester/services/store"
	"sjsage522/newsharvester/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("config_dir", cfg.ConfigDir).
		Str("renderer", cfg.Renderer).
		Dur("batch_interval", cfg.BatchInterval).
		Dur("recency_window", cfg.RecencyWindow).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, &cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	harvester := scraper.NewHarvester(&cfg, services.Renderer, services.Store, services.Publisher)

	w := worker.NewWorker(ctx, harvester, cfg.BatchInterval)
	if err := w.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start worker")
	}

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info().
		Str("signal", sig.String()).
		Msg("Received shutdown signal")
	cancel()
	w.Stop()

	log.Info().Msg("Shut down gracefully")
}

// Services holds all the initialized services
type Services struct {
	Renderer  render.Renderer
	Store     *store.SQLiteStore
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Renderer != nil {
		s.Renderer.Close()
	}
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.Store != nil {
		s.Store.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	articleStore, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open article store: %w", err)
	}
	services.Store = articleStore
	logger.Info("Opened article store at %s", cfg.DBPath)

	switch cfg.Renderer {
	case config.RendererBrowser:
		renderer, err := render.NewBrowserRenderer(render.BrowserOptions{
			ControlURL:         cfg.BrowserURL,
			NavigationTimeout:  cfg.NavigationTimeout,
			ContentTimeout:     cfg.ContentTimeout,
			NetworkIdleTimeout: cfg.NetworkIdleTimeout,
			GraceDelay:         cfg.GraceDelay,
		})
		if err != nil {
			articleStore.Close()
			return nil, fmt.Errorf("failed to create browser renderer: %w", err)
		}
		services.Renderer = renderer
	default:
		cacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
		services.Renderer = render.NewHTTPRenderer(cacheService, cfg.FetchBlockTime)
		logger.Info("Using HTTP renderer with memcache at %s", cfg.MemcacheAddr)
	}

	services.Publisher = publisher.NewRedisPublisher(
		ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)
	logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

	return services, nil
}
