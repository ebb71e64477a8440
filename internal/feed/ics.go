package feed

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/go-resty/resty/v2"
	"github.com/teambition/rrule-go"

	"github.com/teemow/gcalskill/internal/logging"
)

const (
	// DefaultHorizon is how far ahead recurring events are expanded.
	DefaultHorizon = 90 * 24 * time.Hour

	// maxOccurrencesPerEvent caps the expansion of a single RRULE.
	maxOccurrencesPerEvent = 500
)

// ICSConfig configures an ICSSource.
type ICSConfig struct {
	URL        string
	Timeout    time.Duration
	RetryCount int
	RetryWait  time.Duration

	// Horizon bounds recurrence expansion (default DefaultHorizon).
	Horizon time.Duration

	// Location is the zone occurrence times are rendered in (default time.Local).
	Location *time.Location

	// Now returns the current time (default time.Now).
	Now func() time.Time
}

// ICSSource reads an iCalendar feed.
type ICSSource struct {
	url     string
	client  *resty.Client
	horizon time.Duration
	loc     *time.Location
	now     func() time.Time
}

// NewICSSource creates an ICSSource. Zero values in cfg take the defaults.
func NewICSSource(cfg ICSConfig) *ICSSource {
	if cfg.Horizon <= 0 {
		cfg.Horizon = DefaultHorizon
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ICSSource{
		url: cfg.URL,
		client: newRestyClient(HTTPConfig{
			URL:        cfg.URL,
			Timeout:    cfg.Timeout,
			RetryCount: cfg.RetryCount,
			RetryWait:  cfg.RetryWait,
		}),
		horizon: cfg.Horizon,
		loc:     cfg.Location,
		now:     cfg.Now,
	}
}

// Name implements Source.
func (s *ICSSource) Name() string { return SourceICS }

// Fetch downloads the feed and converts its timed events into Items.
func (s *ICSSource) Fetch(ctx context.Context) ([]Item, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/calendar").
		Get(s.url)
	if err != nil {
		return nil, &FetchError{URL: s.url, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, logging.RedactURL(s.url), resp.StatusCode())
	}

	from := s.now()
	return ParseICS(resp.Body(), from, from.Add(s.horizon), s.loc)
}

// ParseICS converts the VEVENTs of an iCalendar document into Items.
//
// Single events are kept when they end at or after from. Recurring events
// are expanded to the occurrences starting in [from, to], minus EXDATEs and
// instances replaced by a RECURRENCE-ID override. All-day events carry no
// time of day and are skipped. Times are rendered in loc.
func ParseICS(body []byte, from, to time.Time, loc *time.Location) ([]Item, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("empty ICS body")
	}
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ICS: %w", err)
	}

	events := cal.Events()

	// Instances replaced by an override are excluded from their series.
	overridden := make(map[string][]time.Time)
	for _, ve := range events {
		rid := ve.GetProperty(ical.ComponentPropertyRecurrenceId)
		if rid == nil {
			continue
		}
		t, err := parseICSTime(rid.Value, tzidLocation(rid.ICalParameters, loc))
		if err != nil {
			continue
		}
		overridden[ve.Id()] = append(overridden[ve.Id()], t)
	}

	var items []Item
	for _, ve := range events {
		if isAllDay(ve) {
			continue
		}

		start, err := ve.GetStartAt()
		if err != nil {
			slog.Warn("skipping VEVENT without a usable DTSTART", "uid", ve.Id(), logging.Err(err))
			continue
		}
		end, err := ve.GetEndAt()
		if err != nil {
			end = start
		}

		summary := ""
		if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
			summary = p.Value
		}

		rruleProp := ve.GetProperty(ical.ComponentPropertyRrule)
		if rruleProp == nil || ve.GetProperty(ical.ComponentPropertyRecurrenceId) != nil {
			if end.Before(from) {
				continue
			}
			items = append(items, newItem(ve.Id(), summary, start, end, loc))
			continue
		}

		occurrences, err := expand(ve, rruleProp.Value, start, from, to, overridden[ve.Id()], loc)
		if err != nil {
			slog.Warn("skipping VEVENT with an invalid RRULE", "uid", ve.Id(), logging.Err(err))
			continue
		}
		duration := end.Sub(start)
		for _, occ := range occurrences {
			items = append(items, newItem(ve.Id(), summary, occ, occ.Add(duration), loc))
		}
	}

	return items, nil
}

func expand(ve *ical.VEvent, rule string, dtstart, from, to time.Time, overridden []time.Time, loc *time.Location) ([]time.Time, error) {
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, err
	}
	r.DTStart(dtstart)

	var set rrule.Set
	set.RRule(r)

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		exLoc := tzidLocation(p.ICalParameters, dtstart.Location())
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(part, exLoc); err == nil {
				set.ExDate(t.In(dtstart.Location()))
			}
		}
	}
	for _, t := range overridden {
		set.ExDate(t.In(dtstart.Location()))
	}

	occ := set.Between(from.In(dtstart.Location()), to.In(dtstart.Location()), true)
	if len(occ) > maxOccurrencesPerEvent {
		occ = occ[:maxOccurrencesPerEvent]
	}
	return occ, nil
}

func newItem(uid, summary string, start, end time.Time, loc *time.Location) Item {
	return Item{
		ID:      uid,
		Summary: summary,
		Start:   EventTime{DateTime: start.In(loc).Format(time.RFC3339)},
		End:     EventTime{DateTime: end.In(loc).Format(time.RFC3339)},
	}
}

// isAllDay reports whether DTSTART is a DATE rather than a DATE-TIME.
func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func tzidLocation(params map[string][]string, fallback *time.Location) *time.Location {
	if tz, ok := params["TZID"]; ok && len(tz) > 0 {
		if l, err := time.LoadLocation(tz[0]); err == nil {
			return l
		}
	}
	return fallback
}

// parseICSTime parses DATE-TIME values of the forms 20250101T090000Z and
// 20250101T090000 (floating, read in loc).
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}
	if strings.Contains(v, "T") {
		return time.ParseInLocation("20060102T150405", v, loc)
	}
	return time.ParseInLocation("20060102", v, loc)
}
