// Package reminders turns calendar feed items into spoken reminders.
//
// Loading drops events that already started, decomposes each timestamp into
// the words a voice assistant reads out (weekday, day, month, year, 12-hour
// time) and orders the result by date, then by start time. GroupByDay buckets
// the ordered reminders per calendar day and RenderAll / RenderDay produce the
// speech strings.
//
// The grouped snapshot is built once by Loader.Build and shared through a
// Store; readers never mutate it.
package reminders
