// Package calendar_tools exposes the reminder snapshot to MCP clients.
//
// The tools return the same speech strings the voice endpoint produces, so an
// assistant can read the calendar aloud without going through the voice
// platform:
//
//   - calendar_read_all reads every upcoming reminder grouped by day
//   - calendar_read_day reads the reminders of one day (YYYY-MM-DD)
//   - calendar_read_days reads several days in one call
//   - calendar_list_days lists the days that have reminders
package calendar_tools
