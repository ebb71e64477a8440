package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/teemow/gcalskill/internal/logging"
	"github.com/teemow/gcalskill/internal/reminders"
)

// Builder produces a fresh snapshot. *reminders.Loader implements it.
type Builder interface {
	Build(ctx context.Context) (*reminders.DayGroups, error)
}

// Refresher rebuilds the snapshot held by a Store on a schedule.
type Refresher struct {
	cron    *cron.Cron
	builder Builder
	store   *reminders.Store
	timeout time.Duration
	logger  *slog.Logger
	ctx     context.Context
}

// NewRefresher parses spec (standard 5-field cron or a descriptor such as
// "@hourly") and registers the refresh job. Jobs do not overlap.
func NewRefresher(spec string, builder Builder, store *reminders.Store, timeout time.Duration, logger *slog.Logger) (*Refresher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logging.WithOperation(logger, "refresh")

	cl := logging.NewCronLogger(logger)
	r := &Refresher{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		builder: builder,
		store:   store,
		timeout: timeout,
		logger:  logger,
		ctx:     context.Background(),
	}

	if _, err := r.cron.AddFunc(spec, func() { _ = r.Refresh(r.ctx) }); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return r, nil
}

// Refresh rebuilds the snapshot once and installs it on success.
func (r *Refresher) Refresh(ctx context.Context) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	groups, err := r.builder.Build(ctx)
	if err != nil {
		r.logger.Warn("refresh failed, keeping current reminders", logging.Err(err))
		return err
	}
	r.store.Replace(groups)
	r.logger.Info("reminders refreshed", "days", groups.Len(), "reminders", groups.Count())
	return nil
}

// Start runs the scheduler until Stop. ctx is passed to every refresh.
func (r *Refresher) Start(ctx context.Context) {
	r.ctx = ctx
	r.cron.Start()
}

// Stop halts the scheduler and waits for a running refresh to finish or ctx
// to expire.
func (r *Refresher) Stop(ctx context.Context) error {
	done := r.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next returns the next scheduled run, or the zero time before Start.
func (r *Refresher) Next() time.Time {
	entries := r.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
