// Package cmd implements the command-line interface for gcalskill.
//
// This package provides the following commands:
//   - serve: Load the calendar and serve the voice skill endpoint
//   - read: Print the spoken reminders for the whole calendar or one day
//   - mcp: Serve the calendar tools to AI assistants over MCP stdio
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified.
// Configuration is resolved from a .env file, an optional YAML file, the
// environment and finally the command flags, later sources winning.
package cmd
