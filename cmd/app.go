package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/teemow/gcalskill/internal/config"
	"github.com/teemow/gcalskill/internal/feed"
	"github.com/teemow/gcalskill/internal/instrumentation"
	"github.com/teemow/gcalskill/internal/logging"
	"github.com/teemow/gcalskill/internal/reminders"
)

// loadConfig resolves the configuration in order: .env file, config file,
// environment. Command flags are applied by the caller afterwards.
func loadConfig(opts globalOptions) (*config.Config, error) {
	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

func setupLogging(opts globalOptions) *slog.Logger {
	return logging.Setup(logging.Options{Debug: opts.debug, JSON: opts.jsonLogs})
}

// newSource builds the feed source selected in cfg. now must return the
// time in loc.
func newSource(ctx context.Context, cfg *config.Config, loc *time.Location, now func() time.Time) (feed.Source, error) {
	switch cfg.Feed.Source {
	case feed.SourceAPI:
		src, err := feed.NewAPISource(ctx, feed.APIConfig{
			CalendarID:      cfg.Feed.CalendarID,
			APIKey:          cfg.Feed.APIKey,
			CredentialsFile: cfg.Feed.CredentialsFile,
			Now:             now,
		})
		if err != nil {
			return nil, err
		}
		return src, nil
	case feed.SourceHTTP:
		return feed.NewHTTPSource(feed.HTTPConfig{
			URL:     cfg.FeedURL(),
			Timeout: cfg.Feed.Timeout,
		}), nil
	case feed.SourceICS:
		return feed.NewICSSource(feed.ICSConfig{
			URL:      cfg.Feed.URL,
			Timeout:  cfg.Feed.Timeout,
			Horizon:  cfg.Feed.Horizon,
			Location: loc,
			Now:      now,
		}), nil
	default:
		return nil, fmt.Errorf("invalid feed source %q", cfg.Feed.Source)
	}
}

// newLoader validates cfg and wires a loader for its feed. metrics may be nil.
func newLoader(ctx context.Context, cfg *config.Config, metrics *instrumentation.Metrics, logger *slog.Logger) (*reminders.Loader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	now := func() time.Time { return time.Now().In(loc) }

	src, err := newSource(ctx, cfg, loc, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s feed source: %w", cfg.Feed.Source, err)
	}

	attrs := []any{
		logging.Source(src.Name()),
		logging.Calendar(cfg.Feed.CalendarID),
		logging.Key(cfg.Feed.APIKey),
	}
	if cfg.Feed.Source != feed.SourceAPI {
		attrs = append(attrs, logging.URL(cfg.FeedURL()))
	}
	logger.Debug("feed source configured", attrs...)

	return &reminders.Loader{
		Source:  src,
		Metrics: metrics,
		Logger:  logger,
		Now:     now,
	}, nil
}

// initialLoad runs the startup fetch. Its failure is fatal for the caller.
func initialLoad(ctx context.Context, loader *reminders.Loader, timeout time.Duration) (*reminders.DayGroups, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	groups, err := loader.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar at startup: %w", err)
	}
	return groups, nil
}
