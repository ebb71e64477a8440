package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const readFeed = `{
  "items": [
    {"summary": "Review", "start": {"dateTime": "2099-03-06T14:00:00Z"}, "end": {"dateTime": "2099-03-06T15:00:00Z"}},
    {"summary": "Launch", "start": {"dateTime": "2099-03-05T09:00:00Z"}, "end": {"dateTime": "2099-03-05T10:00:00Z"}},
    {"summary": "Old", "start": {"dateTime": "2001-03-05T09:00:00Z"}, "end": {"dateTime": "2001-03-05T10:00:00Z"}}
  ]
}`

// readOptions points the commands at a feed served by srv through a config file.
func readOptions(t *testing.T, srv *httptest.Server) globalOptions {
	t.Helper()
	for _, key := range []string{
		"GCAL_API_KEY", "GCAL_CALENDAR_ID", "GCAL_FEED_SOURCE", "GCAL_FEED_URL",
		"GCAL_CREDENTIALS_FILE", "GCAL_TIMEZONE", "GCAL_FEED_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("timezone: UTC\nfeed:\n  source: http\n  url: %s\n  timeout: 5s\n", srv.URL)
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0o600))

	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, nil, 0o600))

	return globalOptions{configFile: configFile, envFile: envFile}
}

func feedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunRead(t *testing.T) {
	srv := feedServer(t, http.StatusOK, readFeed)

	tests := []struct {
		name string
		day  string
		want string
	}{
		{
			name: "whole calendar",
			want: "Day Thursday, 05, March, 2099, Reminder, 'Launch', from 9:00 AM to 10:00 AM. " +
				"Day Friday, 06, March, 2099, Reminder, 'Review', from 2:00 PM to 3:00 PM.\n",
		},
		{
			name: "one day",
			day:  "2099-03-06",
			want: "Day Friday, 06, March, 2099, Reminder, 'Review', from 2:00 PM to 3:00 PM.\n",
		},
		{
			name: "day without reminders",
			day:  "2099-03-07",
			want: "You don't have reminders for the day.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, runRead(context.Background(), readOptions(t, srv), tt.day, &out))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRunRead_EmptyCalendar(t *testing.T) {
	srv := feedServer(t, http.StatusOK, `{"items": []}`)

	var out bytes.Buffer
	require.NoError(t, runRead(context.Background(), readOptions(t, srv), "", &out))
	assert.Equal(t, "You don't have reminders.\n", out.String())
}

func TestRunRead_FeedFailureIsFatal(t *testing.T) {
	srv := feedServer(t, http.StatusNotFound, `{"error": "not found"}`)

	var out bytes.Buffer
	err := runRead(context.Background(), readOptions(t, srv), "", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load calendar at startup")
	assert.Empty(t, out.String())
}
