// Package server provides the HTTP surfaces of gcalskill.
//
// # Key Components
//
// SkillServer is a gin router that accepts voice platform request envelopes
// on POST / and POST /alexa, hands them to skill.Handler and writes the
// response envelope. Session end and exception notices are acknowledged with
// an empty JSON object. When a skill id is configured, requests for any other
// application are rejected with 403.
//
// HealthChecker serves /healthz, /readyz and /healthz/detailed. The detailed
// endpoint reports how many days and reminders the current snapshot holds and
// when it was loaded.
//
// MetricsServer exposes the Prometheus registry on a dedicated port so that
// operational metrics stay off the skill endpoint.
//
// ServerContext ties the reminder store to the server lifetime and tracks
// shutdown for the readiness probe.
package server
