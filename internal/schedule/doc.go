// Package schedule reloads the reminder snapshot on a cron schedule.
//
// A failed reload keeps the snapshot that is being served.
package schedule
