// Package config loads the gcalskill configuration.
//
// Values are resolved in layers: built-in defaults, an optional YAML file,
// an optional .env file, then environment variables. Command-line flags are
// applied last by the caller.
//
// Environment variables:
//   - GCAL_API_KEY: Calendar API key
//   - GCAL_CALENDAR_ID: calendar to read
//   - GCAL_FEED_SOURCE: api, http or ics
//   - GCAL_FEED_URL: feed URL for the http and ics sources
//   - GCAL_CREDENTIALS_FILE: service-account JSON key for the api source
//   - GCAL_TIMEZONE: IANA zone of "now" for the past-event filter
//   - SKILL_ID: only accept requests for this skill id
//   - SKILL_LISTEN: skill endpoint listen address
//   - SKILL_REFRESH: cron schedule for reloading the feed
package config
