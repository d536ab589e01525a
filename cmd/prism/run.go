package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"prismatic-hq/prism/pkg/admission"
	admstorage "prismatic-hq/prism/pkg/admission/storage"
	"prismatic-hq/prism/pkg/analysis"
	"prismatic-hq/prism/pkg/cli"
	"prismatic-hq/prism/pkg/config"
	"prismatic-hq/prism/pkg/history"
	"prismatic-hq/prism/pkg/history/recorder"
	"prismatic-hq/prism/pkg/history/retention"
	"prismatic-hq/prism/pkg/history/storage"
	"prismatic-hq/prism/pkg/scoring"
	"prismatic-hq/prism/pkg/server"
	"prismatic-hq/prism/pkg/suggest"
	"prismatic-hq/prism/pkg/telemetry/health"
	"prismatic-hq/prism/pkg/telemetry/logging"
	"prismatic-hq/prism/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Prism analysis server",
	Long: `Start the Prism analysis server with the specified configuration.

The server scores prompts against quality dimensions, gates callers through
the sliding-window admission subsystem, and records analyses to history.

Examples:
  # Start with default config
  prism run

  # Start with custom config
  prism run --config /etc/prism/config.yaml

  # Override listen address
  prism run --listen 0.0.0.0:8080

  # Validate config without starting server
  prism run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if _, err := logging.Install(logging.FromConfig(cfg.Telemetry.Logging)); err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	printBanner(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Metrics collector
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	// Admission registry, optionally backed by a snapshot store
	registryOpts := admission.RegistryOptions{}
	if cfg.Admission.Snapshot.Enabled {
		backend, err := newSnapshotBackend(&cfg.Admission.Snapshot)
		if err != nil {
			return fmt.Errorf("failed to create snapshot backend: %w", err)
		}
		registryOpts.Backend = backend
		registryOpts.SnapshotInterval = cfg.Admission.Snapshot.Interval
	}

	registry, err := admission.NewRegistry(admission.Config{
		MaxRequests:  cfg.Admission.MaxRequests,
		TimeWindow:   cfg.Admission.TimeWindow,
		MaxQueueSize: cfg.Admission.MaxQueueSize,
	}, registryOpts)
	if err != nil {
		return fmt.Errorf("failed to create admission registry: %w", err)
	}
	defer registry.Close()

	fmt.Printf("✓ Admission registry initialized (%d req / %s, queue %d)\n",
		cfg.Admission.MaxRequests, cfg.Admission.TimeWindow, cfg.Admission.MaxQueueSize)

	// Scorer, optionally with a weight profile and live reload
	scorer := scoring.NewScorer()
	if cfg.Scoring.ProfilePath != "" {
		profile, err := scoring.LoadProfile(cfg.Scoring.ProfilePath)
		if err != nil {
			return cli.NewConfigError("scoring.profile_path", err.Error())
		}
		profile.Apply(scorer)
		slog.Info("scoring profile applied", "path", cfg.Scoring.ProfilePath)

		if cfg.Scoring.Watch {
			watcher, err := scoring.NewProfileWatcher(cfg.Scoring.ProfilePath, scorer, slog.Default())
			if err != nil {
				slog.Warn("failed to create profile watcher", "error", err)
			} else {
				go func() {
					if err := watcher.Watch(ctx); err != nil {
						slog.Warn("profile watcher stopped", "error", err)
					}
				}()
				defer watcher.Stop()
			}
		}
	}

	// Analysis engine
	keys := make(map[string]string, len(cfg.Providers))
	for name, providerCfg := range cfg.Providers {
		if providerCfg.APIKey != "" {
			keys[name] = providerCfg.APIKey
		}
	}
	engine := analysis.NewEngine(scorer, suggest.NewSuggester(), analysis.Options{
		Keys:            keys,
		ProviderTimeout: cfg.Analysis.ProviderTimeout,
	})
	defer engine.Close()

	fmt.Printf("✓ Analysis engine initialized (%d dimensions)\n", len(engine.Dimensions()))

	// Health checks
	checker := health.New(5 * time.Second)
	checker.RegisterCheck("scoring", func(ctx context.Context) error {
		if len(engine.Dimensions()) == 0 {
			return fmt.Errorf("no scoring dimensions configured")
		}
		return nil
	})

	// History store, recorder, and retention pruner
	var store history.Store
	var analysisRecorder *recorder.Recorder
	if cfg.History.Enabled {
		store, err = storage.NewSQLiteStore(&storage.SQLiteConfig{
			Path:         cfg.History.SQLite.Path,
			MaxOpenConns: cfg.History.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.History.SQLite.MaxIdleConns,
			WALMode:      cfg.History.SQLite.WALMode,
			BusyTimeout:  cfg.History.SQLite.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to create history store: %w", err)
		}
		defer store.Close()

		analysisRecorder = recorder.NewRecorder(store, &recorder.Config{
			Enabled:          true,
			AsyncBuffer:      cfg.History.Recorder.AsyncBuffer,
			WriteTimeout:     cfg.History.Recorder.WriteTimeout,
			HashIdentities:   cfg.History.Recorder.HashIdentities,
			MaxPreviewLength: cfg.History.Recorder.MaxPreviewLength,
		})
		defer analysisRecorder.Close()

		checker.RegisterCheck("history", func(ctx context.Context) error {
			_, err := store.Count(ctx, &history.Query{})
			return err
		})

		if cfg.History.Retention.Schedule != "" {
			pruner := retention.NewPruner(store, &retention.Config{
				RetentionDays:       cfg.History.Retention.Days,
				PruneSchedule:       cfg.History.Retention.Schedule,
				ArchiveBeforeDelete: cfg.History.Retention.ArchiveBeforeDelete,
				ArchivePath:         cfg.History.Retention.ArchivePath,
				MaxRecords:          cfg.History.Retention.MaxRecords,
			})
			if err := pruner.Start(ctx); err != nil {
				slog.Warn("failed to start retention scheduler", "error", err)
			} else {
				defer pruner.Stop()
				if next := pruner.NextPruning(); next != nil {
					slog.Debug("history retention scheduler started", "next_pruning", next)
				}
			}
		}

		fmt.Println("✓ History store initialized")
	}

	// HTTP server
	srv := server.NewServer(&cfg.Server, &cfg.Telemetry.Metrics, server.Deps{
		Engine:    engine,
		Registry:  registry,
		History:   store,
		Recorder:  analysisRecorder,
		Collector: collector,
		Checker:   checker,
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	})

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Analyze endpoint: http://%s/api/analyze\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := cli.WaitForShutdown()

	select {
	case err := <-errChan:
		return cli.NewCommandError("run", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
			return cli.NewCommandError("run", err)
		}

		fmt.Println("✓ Server stopped")
		return nil
	}
}

// newSnapshotBackend creates the window snapshot store for the admission
// registry.
func newSnapshotBackend(cfg *config.SnapshotConfig) (admstorage.Backend, error) {
	switch cfg.Backend {
	case "sqlite":
		return admstorage.NewSQLiteBackend(cfg.Path)
	case "memory":
		return admstorage.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unsupported snapshot backend: %s", cfg.Backend)
	}
}

func printBanner(cfg *config.Config) {
	fmt.Printf("Prism v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	if len(cfg.Providers) > 0 {
		slog.Debug("providers configured", "count", len(cfg.Providers))
	}
	if cfg.Scoring.ProfilePath != "" {
		slog.Debug("scoring profile", "path", cfg.Scoring.ProfilePath, "watch", cfg.Scoring.Watch)
	}
	if cfg.History.Enabled {
		slog.Debug("history enabled", "path", cfg.History.SQLite.Path)
	}
}
