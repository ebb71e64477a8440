package feed

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// APIConfig configures an APISource.
type APIConfig struct {
	// CalendarID is the calendar to read (default DefaultCalendarID).
	CalendarID string

	// APIKey authenticates requests for a public calendar.
	APIKey string

	// CredentialsFile is a service-account JSON key. When set it is used
	// instead of APIKey.
	CredentialsFile string

	// Endpoint overrides the API base URL.
	Endpoint string

	// Now returns the current time; events ending before it are not requested.
	Now func() time.Time
}

// APISource reads events through the Google Calendar API.
type APISource struct {
	svc        *calendar.Service
	calendarID string
	now        func() time.Time
}

// NewAPISource creates a Calendar API client for cfg.
func NewAPISource(ctx context.Context, cfg APIConfig) (*APISource, error) {
	if cfg.CalendarID == "" {
		cfg.CalendarID = DefaultCalendarID
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, calendar.CalendarReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse credentials file: %w", err)
		}
		opts = append(opts, option.WithTokenSource(creds.TokenSource))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, fmt.Errorf("either an API key or a credentials file is required")
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &APISource{
		svc:        svc,
		calendarID: cfg.CalendarID,
		now:        cfg.Now,
	}, nil
}

// Name implements Source.
func (s *APISource) Name() string { return SourceAPI }

// Fetch lists the calendar's upcoming events, following every result page.
// Recurring events are expanded into single instances.
func (s *APISource) Fetch(ctx context.Context) ([]Item, error) {
	call := s.svc.Events.List(s.calendarID).
		AlwaysIncludeEmail(true).
		SingleEvents(true).
		TimeMin(s.now().Format(time.RFC3339))

	var items []Item
	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, ev := range page.Items {
			items = append(items, toItem(ev))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events for calendar %s: %w", s.calendarID, err)
	}
	return items, nil
}

func toItem(ev *calendar.Event) Item {
	item := Item{
		ID:      ev.Id,
		Summary: ev.Summary,
	}
	if ev.Start != nil {
		item.Start = EventTime{DateTime: ev.Start.DateTime, Date: ev.Start.Date, TimeZone: ev.Start.TimeZone}
	}
	if ev.End != nil {
		item.End = EventTime{DateTime: ev.End.DateTime, Date: ev.End.Date, TimeZone: ev.End.TimeZone}
	}
	return item
}
