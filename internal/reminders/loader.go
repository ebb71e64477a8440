package reminders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/teemow/gcalskill/internal/feed"
	"github.com/teemow/gcalskill/internal/instrumentation"
	"github.com/teemow/gcalskill/internal/logging"
)

// ErrMalformedItem marks a feed item that cannot be turned into a reminder.
var ErrMalformedItem = errors.New("malformed feed item")

// nowLayout matches the "YYYY-MM-DD HH:MM" key of a stamp.
const nowLayout = "2006-01-02 15:04"

// Stats describes one normalization pass.
type Stats struct {
	Fetched   int
	Kept      int
	Past      int
	Malformed []error
}

// Normalize converts items into reminders, drops the ones that start at or
// before now (minute precision) and returns them sorted.
func Normalize(items []feed.Item, now time.Time) ([]Reminder, Stats) {
	stats := Stats{Fetched: len(items)}
	cutoff := now.Format(nowLayout)

	out := make([]Reminder, 0, len(items))
	for _, item := range items {
		if item.Start.DateTime == "" || item.End.DateTime == "" {
			stats.Malformed = append(stats.Malformed,
				fmt.Errorf("%w: %q has no start/end dateTime", ErrMalformedItem, item.Summary))
			continue
		}
		start, err := parseStamp(item.Start.DateTime)
		if err != nil {
			stats.Malformed = append(stats.Malformed, err)
			continue
		}
		if start.sortKey() <= cutoff {
			stats.Past++
			continue
		}
		end, err := parseStamp(item.End.DateTime)
		if err != nil {
			stats.Malformed = append(stats.Malformed, err)
			continue
		}
		out = append(out, newReminder(item.Summary, start, end))
	}

	Sort(out)
	stats.Kept = len(out)
	return out, stats
}

// Sort orders reminders by 12-hour start time text, then stably by start
// date. The date dominates; same-day reminders keep the time-text order.
func Sort(rs []Reminder) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].StartTime < rs[j].StartTime })
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].StartDate < rs[j].StartDate })
}

// Loader fetches a feed and normalizes it.
type Loader struct {
	Source  feed.Source
	Metrics *instrumentation.Metrics
	Logger  *slog.Logger

	// Now returns the wall-clock time in the calendar's zone (default time.Now).
	Now func() time.Time
}

// Load fetches the feed once and returns the upcoming reminders in order.
// A fetch failure is returned; malformed items are logged and skipped.
func (l *Loader) Load(ctx context.Context) ([]Reminder, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}

	source := l.Source.Name()
	logger = logging.WithSource(logger, source)

	ctx, span := instrumentation.StartFeedSpan(ctx, source)
	defer span.End()

	start := time.Now()
	items, err := l.Source.Fetch(ctx)
	if err != nil {
		l.Metrics.RecordFeedFetch(ctx, source, instrumentation.StatusError, time.Since(start))
		instrumentation.SetSpanError(span, err)
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}
	l.Metrics.RecordFeedFetch(ctx, source, instrumentation.StatusSuccess, time.Since(start))

	out, stats := Normalize(items, now())
	for _, err := range stats.Malformed {
		logger.Warn("skipping malformed feed item", logging.Err(err))
	}
	l.Metrics.RecordItemsSkipped(ctx, instrumentation.SkipReasonPast, stats.Past)
	l.Metrics.RecordItemsSkipped(ctx, instrumentation.SkipReasonMalformed, len(stats.Malformed))

	instrumentation.SetFeedCounts(span, stats.Fetched, stats.Kept)
	instrumentation.SetSpanSuccess(span)
	logger.Debug("loaded reminders",
		"fetched", stats.Fetched,
		"kept", stats.Kept,
		"past", stats.Past,
		"malformed", len(stats.Malformed),
		"duration", time.Since(start))
	return out, nil
}

// Build loads the feed and groups the reminders by day.
func (l *Loader) Build(ctx context.Context) (*DayGroups, error) {
	rs, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	l.Metrics.SetRemindersLoaded(ctx, len(rs))
	return GroupByDay(rs), nil
}

// Load is a shorthand for a Loader without instrumentation.
func Load(ctx context.Context, src feed.Source, now time.Time) ([]Reminder, error) {
	l := &Loader{Source: src, Now: func() time.Time { return now }}
	return l.Load(ctx)
}
