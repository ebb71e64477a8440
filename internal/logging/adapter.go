package logging

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/robfig/cron/v3"
)

// urlQuery matches the query string of URLs embedded in free text.
var urlQuery = regexp.MustCompile(`(https?://[^\s"'?]+)\?[^\s"']*`)

// RedactText redacts the query string of every URL in s.
func RedactText(s string) string {
	return urlQuery.ReplaceAllString(s, "$1?(redacted)")
}

// RestyLogger routes resty's printf-style client logging (retries, request
// errors) to slog. Resty quotes request URLs, so messages are redacted.
type RestyLogger struct {
	logger *slog.Logger
}

var _ resty.Logger = (*RestyLogger)(nil)

// NewRestyLogger wraps logger. A nil logger falls back to slog.Default().
func NewRestyLogger(logger *slog.Logger) *RestyLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &RestyLogger{logger: logger.With(slog.String(KeyComponent, "resty"))}
}

func (l *RestyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(l.message(format, v...))
}

func (l *RestyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(l.message(format, v...))
}

func (l *RestyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(l.message(format, v...))
}

func (l *RestyLogger) message(format string, v ...interface{}) string {
	return RedactText(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// CronLogger routes the scheduler's own logging to slog. cron reports every
// wakeup at info level, so Info is logged at debug.
type CronLogger struct {
	logger *slog.Logger
}

var _ cron.Logger = CronLogger{}

// NewCronLogger wraps logger. A nil logger falls back to slog.Default().
func NewCronLogger(logger *slog.Logger) CronLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return CronLogger{logger: logger.With(slog.String(KeyComponent, "cron"))}
}

func (l CronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append([]interface{}{Err(err)}, keysAndValues...)...)
}
