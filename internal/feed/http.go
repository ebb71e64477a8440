package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/teemow/gcalskill/internal/logging"
)

const (
	// DefaultTimeout bounds a single feed request.
	DefaultTimeout = 15 * time.Second

	// DefaultRetryCount is the number of retries after a failed request.
	DefaultRetryCount = 3

	// DefaultRetryWait is the initial wait between retries.
	DefaultRetryWait = 2 * time.Second
)

// HTTPConfig configures an HTTPSource.
type HTTPConfig struct {
	URL     string
	Timeout time.Duration

	// RetryCount is the number of retries after a failed request. Zero takes
	// DefaultRetryCount; a negative value disables retries.
	RetryCount int
	RetryWait  time.Duration
}

// HTTPSource GETs a URL that answers with the Google events JSON document.
type HTTPSource struct {
	url    string
	client *resty.Client
}

// NewHTTPSource creates an HTTPSource. Zero values in cfg take the defaults.
func NewHTTPSource(cfg HTTPConfig) *HTTPSource {
	return &HTTPSource{
		url:    cfg.URL,
		client: newRestyClient(cfg),
	}
}

func newRestyClient(cfg HTTPConfig) *resty.Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryCount < 0 {
		cfg.RetryCount = 0
	} else if cfg.RetryCount == 0 {
		cfg.RetryCount = DefaultRetryCount
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = DefaultRetryWait
	}

	return resty.New().
		SetLogger(logging.NewRestyLogger(slog.Default())).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(4 * cfg.RetryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
}

// Name implements Source.
func (s *HTTPSource) Name() string { return SourceHTTP }

// Fetch performs the GET and decodes the items array.
func (s *HTTPSource) Fetch(ctx context.Context) ([]Item, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&Events{}).
		ForceContentType("application/json").
		Get(s.url)
	if err != nil {
		return nil, &FetchError{URL: s.url, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, logging.RedactURL(s.url), resp.StatusCode())
	}

	events, ok := resp.Result().(*Events)
	if !ok || events == nil {
		return nil, fmt.Errorf("failed to decode feed %s", logging.RedactURL(s.url))
	}
	return events.Items, nil
}
