package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KYD-04/Home-Files/config"
	"github.com/KYD-04/Home-Files/internal/archive"
	"github.com/KYD-04/Home-Files/internal/cron"
	"github.com/KYD-04/Home-Files/internal/events"
	"github.com/KYD-04/Home-Files/internal/ingress"
	"github.com/KYD-04/Home-Files/internal/registry/service"
	"github.com/KYD-04/Home-Files/internal/registry/store"
	"github.com/KYD-04/Home-Files/internal/server"
	"github.com/KYD-04/Home-Files/internal/share/api"
	"github.com/KYD-04/Home-Files/pkg/logger"
)

// NewServeCommand creates the serve command
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the admin and public interfaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

// loadConfig reads the configuration, creating a default config.yaml in the
// working directory on first run
func loadConfig(log *logger.Logger, path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if path == "" && cfg.File == "" {
		created, err := config.EnsureFile(config.DefaultFileName)
		if err != nil {
			log.Warn("Could not write default configuration: %v", err)
		} else if created {
			log.Notice("Created default configuration at %s", config.DefaultFileName)
		}
	}
	return cfg, nil
}

func runServe(ctx context.Context, opts *RootOptions) error {
	log := logger.New()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(log, opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}
	if cfg.File != "" {
		log.Info("Using configuration %s", cfg.File)
	}

	// Initialize services
	st, err := store.New(cfg.Data.RegistryFile())
	if err != nil {
		return fmt.Errorf("failed to initialize registry store: %w", err)
	}
	log.Info("Registry stored at %s", st.Path())

	broadcaster := events.NewBroadcaster()
	registry := service.New(st, service.WithPublisher(broadcaster))
	archives := archive.New("")

	uploads, err := ingress.New(ingress.Policy{
		Dir:               cfg.Upload.Path,
		AllowedExtensions: cfg.Upload.AllowedExtensions,
		MaxSize:           int64(cfg.Upload.MaxFileSize),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize upload service: %w", err)
	}

	// Initialize server with both profiles sharing one handler
	srv := server.New()
	handler := api.NewShareHandler(registry, archives, uploads, broadcaster, srv)
	for _, profile := range []server.Profile{
		server.AdminProfile(cfg.Server.Admin),
		server.PublicProfile(cfg.Server.Public),
	} {
		if err := srv.AddProfile(profile, handler); err != nil {
			return err
		}
	}

	if err := srv.Start(); err != nil {
		return err
	}
	srv.LogBanner()

	if n, err := handler.RefreshRegistry(ctx); err != nil {
		log.Warn("Initial registry refresh failed: %v", err)
	} else {
		log.Info("Sharing %d entries", n)
	}

	cronManager := cron.NewManager(log, cfg.Cron, registry, archives)
	if err := cronManager.Start(); err != nil {
		log.Error("Failed to start cron manager: %v", err)
	} else {
		defer cronManager.Stop()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var serveErr error
	select {
	case sig := <-sigChan:
		log.Info("Received %s", sig)
	case <-srv.ShutdownRequested():
		log.Info("Shutdown requested: %s", srv.ShutdownReason())
	case serveErr = <-srv.Errors():
		log.Error("Listener failed: %v", serveErr)
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	broadcaster.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Success("Server exited properly")
	return serveErr
}
