package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/niche-finder/internal/config"
	"github.com/niche-finder/internal/history"
	"github.com/niche-finder/internal/storage/sqlite"
	"github.com/niche-finder/pkg/logger"
)

var (
	cfgFile string
	runOnce bool
	cfg     *config.Config
	log     *logger.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "niche-scheduler",
		Short: "Background maintenance for niche-finder",
		Long: `Runs scheduled maintenance in the background. Currently this prunes
search history older than history.retention.`,
		RunE:         runScheduler,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&runOnce, "once", false, "prune once and exit")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScheduler(cmd *cobra.Command, args []string) error {
	var err error

	// Load config
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	log = logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	if !cfg.Database.Enabled {
		return errors.New("search history is disabled (database.enabled=false); nothing to schedule")
	}

	log.Info().Msg("Starting niche-finder scheduler")

	repo, err := sqlite.New(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer repo.Close()

	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	pruner := history.NewPruner(repo, cfg.History.Retention, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if runOnce {
		_, err := pruner.Run(ctx)
		return err
	}

	// Start health check server
	healthServer := newHealthServer(cfg.Scheduler.HealthPort)
	go func() {
		log.Info().Str("addr", healthServer.Addr).Msg("Health check server starting")
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Health server failed")
		}
	}()

	// Create cron scheduler
	c := cron.New(cron.WithLogger(cronLogger{log}), cron.WithChain(cron.SkipIfStillRunning(cronLogger{log})))

	// Schedule prune job
	_, err = c.AddFunc(cfg.Scheduler.CleanupCron, func() {
		log.Info().Msg("Running scheduled history prune")

		deleted, err := pruner.Run(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Scheduled history prune failed")
			return
		}

		log.Info().
			Int64("deleted", deleted).
			Msg("Scheduled history prune completed")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule prune job: %w", err)
	}
	log.Info().
		Str("cron", cfg.Scheduler.CleanupCron).
		Dur("retention", cfg.History.Retention).
		Msg("History prune job scheduled")

	// Start scheduler
	c.Start()
	log.Info().Msg("Scheduler started")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info().Msg("Shutting down scheduler")
	<-c.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return healthServer.Shutdown(shutdownCtx)
}

// cronLogger adapts our logger for cron
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// newHealthServer builds a simple HTTP server for platform health checks
func newHealthServer(port int) *http.Server {
	if port <= 0 {
		port = 10000
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("niche-finder scheduler"))
	})

	return &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
