package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/HeyoWorld/saudi-speak-app/internal/activity"
	"github.com/HeyoWorld/saudi-speak-app/internal/api"
	"github.com/HeyoWorld/saudi-speak-app/internal/audio"
	"github.com/HeyoWorld/saudi-speak-app/internal/coach"
	"github.com/HeyoWorld/saudi-speak-app/internal/config"
	"github.com/HeyoWorld/saudi-speak-app/internal/health"
	"github.com/HeyoWorld/saudi-speak-app/internal/provider"
	"github.com/HeyoWorld/saudi-speak-app/internal/speech"
	"github.com/HeyoWorld/saudi-speak-app/internal/storage"
	"github.com/HeyoWorld/saudi-speak-app/internal/web"
	"github.com/HeyoWorld/saudi-speak-app/pkg/types"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/example.yaml", "Path to configuration file")
	flag.Parse()

	// Load .env if present; real env vars still win
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting Saudi Speak Server v%s", version)
	log.Printf("Configuration loaded from: %s", *configPath)

	// Initialize storage adapter
	storageAdapter, err := storage.NewAdapter(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to create storage adapter: %v", err)
	}
	defer storageAdapter.Close()
	log.Printf("Storage adapter initialized: %s", cfg.Storage.Adapter)

	// Initialize provider registry
	providerRegistry := provider.NewRegistry()
	if err := providerRegistry.InitializeProviders(cfg.Providers); err != nil {
		log.Fatalf("Failed to initialize providers: %v", err)
	}
	defer providerRegistry.Close()

	log.Printf("Providers initialized:")
	log.Printf("  Analyzer: %v", providerRegistry.ListAnalyzers())
	log.Printf("  Speech: %v", providerRegistry.ListSynthesizers())

	// Initialize services
	activityLogger, err := activity.NewLogger(cfg.Activity.LogPath)
	if err != nil {
		log.Fatalf("Failed to open activity log: %v", err)
	}
	assetRepo := audio.NewRepository(storageAdapter)
	coachService := coach.NewService(providerRegistry)
	speechService := speech.NewService(providerRegistry, assetRepo)

	// Initialize health checks
	healthHandler := health.NewHandler(version)

	healthHandler.Register("storage", func(ctx context.Context) (health.Status, error) {
		exists, err := storageAdapter.Exists(ctx, ".healthcheck")
		if err != nil {
			return health.StatusUnhealthy, err
		}
		_ = exists // Ignore result, just checking connectivity
		return health.StatusHealthy, nil
	})

	healthHandler.Register("providers", func(ctx context.Context) (health.Status, error) {
		if !coachService.Ready() {
			return health.StatusDegraded, fmt.Errorf("no analyzer provider registered")
		}
		if !speechService.Ready() {
			return health.StatusDegraded, fmt.Errorf("no speech provider registered")
		}
		return health.StatusHealthy, nil
	})

	// Start the retention janitor for synthesized audio
	janitorCtx, janitorCancel := context.WithCancel(context.Background())
	defer janitorCancel()
	if cfg.Audio.RetentionMinutes > 0 {
		go runRetentionJanitor(janitorCtx, assetRepo, cfg.Audio)
	}

	// Set up HTTP server and routes
	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("/health/live", healthHandler.LivenessHandler())
	mux.HandleFunc("/health/ready", healthHandler.ReadinessHandler())
	mux.HandleFunc("/health", healthHandler.HealthHandler())

	// Server info
	mux.HandleFunc("/api/v1/info", infoHandler(version, cfg, coachService, speechService))

	// Coaching API endpoints
	analyzeHandler := api.NewAnalyzeHandler(coachService, speechService, activityLogger)
	speechHandler := api.NewSpeechHandler(speechService, assetRepo)
	voicesHandler := api.NewVoicesHandler()
	mux.HandleFunc("/api/v1/analyze", analyzeHandler.Analyze)
	mux.HandleFunc("/api/v1/speech", speechHandler.Synthesize)
	mux.HandleFunc("/api/v1/audio/", speechHandler.GetAudio)
	mux.HandleFunc("/api/v1/voices", voicesHandler.ListVoices)

	// Browser form UI
	mux.Handle("/", web.Handler())

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	janitorCancel()

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// runRetentionJanitor deletes synthesized audio older than the retention
// window at a fixed interval until the context is cancelled
func runRetentionJanitor(ctx context.Context, assets *audio.Repository, cfg types.AudioConfig) {
	retention := time.Duration(cfg.RetentionMinutes) * time.Minute
	interval := time.Duration(cfg.PruneIntervalMinutes) * time.Minute
	log.Printf("[JANITOR] Pruning audio older than %s every %s", retention, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruned, err := assets.Prune(ctx, time.Now().Add(-retention))
			if err != nil {
				log.Printf("[JANITOR] Prune failed: %v", err)
				continue
			}
			if pruned > 0 {
				log.Printf("[JANITOR] Pruned %d expired audio assets", pruned)
			}
		}
	}
}

// infoHandler returns basic server information
func infoHandler(version string, cfg *types.Config, coachSvc *coach.Service, speechSvc *speech.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"version":"%s","storage_adapter":"%s","analysis_ready":%t,"speech_ready":%t}`,
			version, cfg.Storage.Adapter, coachSvc.Ready(), speechSvc.Ready())
	}
}
