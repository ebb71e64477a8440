package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAPISource_RequiresAuth(t *testing.T) {
	_, err := NewAPISource(context.Background(), APIConfig{CalendarID: "team@example.com"})
	assert.Error(t, err)
}

func TestNewAPISource_MissingCredentialsFile(t *testing.T) {
	_, err := NewAPISource(context.Background(), APIConfig{
		CredentialsFile: "/nonexistent/credentials.json",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read credentials file")
}

func TestAPISource_Fetch_Paginates(t *testing.T) {
	now := time.Date(2030, 3, 1, 8, 0, 0, 0, time.UTC)

	var pages int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		assert.True(t, strings.HasSuffix(r.URL.Path, "/calendars/team@example.com/events"), r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("alwaysIncludeEmail"))
		assert.Equal(t, "true", q.Get("singleEvents"))
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, now.Format(time.RFC3339), q.Get("timeMin"))

		w.Header().Set("Content-Type", "application/json")
		if q.Get("pageToken") == "" {
			_, _ = w.Write([]byte(`{"items":[{"id":"1","summary":"One","start":{"dateTime":"2030-03-02T10:00:00Z"},"end":{"dateTime":"2030-03-02T11:00:00Z"}}],"nextPageToken":"p2"}`))
			return
		}
		assert.Equal(t, "p2", q.Get("pageToken"))
		_, _ = w.Write([]byte(`{"items":[{"id":"2","summary":"Two","start":{"dateTime":"2030-03-03T10:00:00Z"},"end":{"dateTime":"2030-03-03T11:00:00Z"}}]}`))
	}))
	defer srv.Close()

	src, err := NewAPISource(context.Background(), APIConfig{
		CalendarID: "team@example.com",
		APIKey:     "test-key",
		Endpoint:   srv.URL + "/",
		Now:        func() time.Time { return now },
	})
	require.NoError(t, err)
	assert.Equal(t, SourceAPI, src.Name())

	items, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, pages)
	assert.Equal(t, "One", items[0].Summary)
	assert.Equal(t, "2030-03-03T10:00:00Z", items[1].Start.DateTime)
}

func TestAPISource_Fetch_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"forbidden"}}`))
	}))
	defer srv.Close()

	src, err := NewAPISource(context.Background(), APIConfig{
		APIKey:   "test-key",
		Endpoint: srv.URL + "/",
	})
	require.NoError(t, err)

	_, err = src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), DefaultCalendarID)
}
