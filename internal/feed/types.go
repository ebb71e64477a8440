package feed

import (
	"context"
	"errors"
	"net/url"

	"github.com/teemow/gcalskill/internal/logging"
)

// ErrUnexpectedStatus is returned when a feed answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected feed status")

// FetchError is a failed feed request. Its text never contains the query
// string of the feed URL, which may carry an API key; Unwrap exposes the
// transport error.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return "failed to fetch feed " + logging.RedactURL(e.URL) + ": " + logging.RedactText(e.Err.Error())
}

func (e *FetchError) Unwrap() error { return e.Err }

// Source names, also used as metric label values.
const (
	SourceAPI  = "api"
	SourceHTTP = "http"
	SourceICS  = "ics"
)

// DefaultCalendarID is the public calendar read when none is configured.
const DefaultCalendarID = "fsdet2017@gmail.com"

// googleEventsBase is the Calendar API v3 events endpoint prefix.
const googleEventsBase = "https://www.googleapis.com/calendar/v3/calendars/"

// EventTime is the start or end of an event. Timed events carry DateTime
// (RFC 3339); all-day events carry only Date.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Item is one calendar event as returned by the feed.
type Item struct {
	ID      string    `json:"id,omitempty"`
	Summary string    `json:"summary"`
	Start   EventTime `json:"start"`
	End     EventTime `json:"end"`
}

// Events is the JSON document returned by the events endpoint.
type Events struct {
	Items         []Item `json:"items"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

// Source fetches the current list of events.
type Source interface {
	// Name identifies the source kind (api, http, ics).
	Name() string
	// Fetch performs one read of the feed.
	Fetch(ctx context.Context) ([]Item, error)
}

// GoogleEventsURL returns the public events URL for calendarID, authenticated
// with apiKey in the query string.
func GoogleEventsURL(calendarID, apiKey string) string {
	q := url.Values{}
	q.Set("alwaysIncludeEmail", "true")
	q.Set("key", apiKey)
	return googleEventsBase + url.PathEscape(calendarID) + "/events?" + q.Encode()
}
