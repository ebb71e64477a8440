// Package feed fetches calendar events from a public calendar and returns them
// in the Google Calendar events JSON shape (items[].start.dateTime).
//
// Three sources are available:
//
//   - APISource reads a calendar through the Google Calendar API
//     (google.golang.org/api/calendar/v3) with an API key or service-account
//     credentials.
//   - HTTPSource GETs any URL that answers with the Google events JSON.
//   - ICSSource reads an iCalendar feed, expands recurring events within a
//     horizon and converts each occurrence to an Item.
//
// Example usage:
//
//	src := feed.NewHTTPSource(feed.HTTPConfig{
//		URL:     feed.GoogleEventsURL("team@example.com", apiKey),
//		Timeout: 15 * time.Second,
//	})
//	items, err := src.Fetch(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
package feed
