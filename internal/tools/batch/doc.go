// Package batch provides helpers for tools that read several days in one call.
//
// This package includes helpers for:
//   - Parsing a day parameter given as a string, a comma-separated list or an array
//   - Running a per-day function while tolerating partial failures
//   - Formatting the results in a consistent JSON structure
package batch
