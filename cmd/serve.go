package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/teemow/gcalskill/internal/config"
	"github.com/teemow/gcalskill/internal/instrumentation"
	"github.com/teemow/gcalskill/internal/logging"
	"github.com/teemow/gcalskill/internal/reminders"
	"github.com/teemow/gcalskill/internal/schedule"
	"github.com/teemow/gcalskill/internal/server"
	"github.com/teemow/gcalskill/internal/skill"
)

// serveFlags holds the serve command flags. Only flags the user set
// override the resolved configuration.
type serveFlags struct {
	listen         string
	skillID        string
	refresh        string
	source         string
	calendarID     string
	timezone       string
	metricsEnabled bool
	metricsAddr    string
}

func newServeCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the voice skill endpoint",
		Long: `Load the calendar once and serve voice assistant requests over HTTP.

The skill endpoint accepts POST / and POST /alexa. Health probes are served
on /healthz, /readyz and /healthz/detailed. Prometheus metrics are served on a
separate address (default :9090).

The calendar is fetched once at startup; a failed fetch stops the command.
Set a refresh schedule (cron syntax) to reload it periodically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(globals)
			if err != nil {
				return err
			}
			applyServeFlags(cmd, cfg, flags)
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&flags.listen, "listen", config.DefaultListen, "Address for the skill endpoint")
	cmd.Flags().StringVar(&flags.skillID, "skill-id", "", "Reject requests for any other application id")
	cmd.Flags().StringVar(&flags.refresh, "refresh", "", "Cron schedule for reloading the calendar (e.g. '*/30 * * * *')")
	cmd.Flags().StringVar(&flags.source, "source", "", "Feed source: api, http or ics")
	cmd.Flags().StringVar(&flags.calendarID, "calendar-id", "", "Public Google Calendar id")
	cmd.Flags().StringVar(&flags.timezone, "timezone", "", "IANA time zone used to drop past events (default: local)")
	cmd.Flags().BoolVar(&flags.metricsEnabled, "metrics-enabled", true, "Start the Prometheus metrics server")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", config.DefaultMetricsAddr, "Address for the metrics server")

	return cmd
}

// applyServeFlags overrides cfg with the flags set on cmd.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config, flags serveFlags) {
	changed := cmd.Flags().Changed
	if changed("listen") {
		cfg.Listen = flags.listen
	}
	if changed("skill-id") {
		cfg.SkillID = flags.skillID
	}
	if changed("refresh") {
		cfg.Refresh = flags.refresh
	}
	if changed("source") {
		cfg.Feed.Source = flags.source
	}
	if changed("calendar-id") {
		cfg.Feed.CalendarID = flags.calendarID
	}
	if changed("timezone") {
		cfg.Timezone = flags.timezone
	}
	if changed("metrics-enabled") {
		cfg.Metrics.Enabled = flags.metricsEnabled
	}
	if changed("metrics-addr") {
		cfg.Metrics.Addr = flags.metricsAddr
	}
}

func runServe(cfg *config.Config) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := setupLogging(globals)
	if !globals.debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize instrumentation provider
	instrConfig := cfg.Telemetry
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Error("error during instrumentation shutdown", logging.Err(err))
		}
	}()
	metrics := provider.Metrics()

	loader, err := newLoader(shutdownCtx, cfg, metrics, logger)
	if err != nil {
		return err
	}
	groups, err := initialLoad(shutdownCtx, loader, cfg.Feed.Timeout)
	if err != nil {
		return err
	}
	store := reminders.NewStore(groups)
	logger.Info("calendar loaded",
		logging.Operation("startup"),
		logging.Source(loader.Source.Name()),
		"days", groups.Len(),
		"reminders", groups.Count())

	serverContext := server.NewServerContext(shutdownCtx, store)

	refresher, err := startRefresher(shutdownCtx, cfg, loader, store, logger)
	if err != nil {
		return err
	}

	serverErr := make(chan error, 2)

	// Start metrics server if enabled and the exporter can be scraped
	var metricsServer *server.MetricsServer
	if cfg.Metrics.Enabled && provider.Enabled() && provider.PrometheusEnabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.Metrics.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		// Bind before serving so a taken port fails the command
		if err := metricsServer.Listen(); err != nil {
			return fmt.Errorf("metrics server failed to start: %w", err)
		}
		logger.Info("metrics server listening", "addr", metricsServer.Addr())
		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- fmt.Errorf("metrics server failed: %w", err)
			}
		}()
	}

	skillServer, err := server.NewSkillServer(server.SkillServerConfig{
		Addr:          cfg.Listen,
		SkillID:       cfg.SkillID,
		Handler:       skill.NewHandler(store, metrics, logger),
		ServerContext: serverContext,
		Metrics:       metrics,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create skill server: %w", err)
	}
	go func() {
		if err := skillServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("skill server failed: %w", err)
		}
	}()

	var runErr error
	select {
	case <-shutdownCtx.Done():
		logger.Info("shutdown signal received, stopping servers")
	case runErr = <-serverErr:
		logger.Error("server stopped unexpectedly", logging.Err(runErr))
	}

	ctx, cancelShutdown := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancelShutdown()

	_ = serverContext.Shutdown()
	if refresher != nil {
		if err := refresher.Stop(ctx); err != nil {
			logger.Error("error stopping refresher", logging.Err(err))
		}
	}
	if err := skillServer.Shutdown(ctx); err != nil {
		logger.Error("error during skill server shutdown", logging.Err(err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.Error("error during metrics server shutdown", logging.Err(err))
		}
	}

	return runErr
}

// startRefresher schedules periodic reloads when cfg asks for them.
// It returns nil when no schedule is configured.
func startRefresher(ctx context.Context, cfg *config.Config, loader *reminders.Loader, store *reminders.Store, logger *slog.Logger) (*schedule.Refresher, error) {
	if cfg.Refresh == "" {
		return nil, nil
	}

	refresher, err := schedule.NewRefresher(cfg.Refresh, loader, store, cfg.Feed.Timeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule refresh: %w", err)
	}
	refresher.Start(ctx)
	logger.Info("calendar refresh scheduled", "schedule", cfg.Refresh, "next", refresher.Next())
	return refresher, nil
}
