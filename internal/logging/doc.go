// Package logging provides structured logging helpers for gcalskill.
//
// All components log through log/slog. Setup configures the default handler
// once at startup, and the attribute helpers keep keys uniform across
// packages (operation, source, intent, status, error).
//
// Feed URLs and API keys are never logged verbatim:
//
//	slog.Info("feed fetch start", logging.Source("http"), logging.URL(feedURL))
//	slog.Debug("api key configured", logging.Key(apiKey))
//
// RestyLogger and CronLogger plug slog into the HTTP client and the refresh
// scheduler, so their messages share the same handler and redaction.
package logging
