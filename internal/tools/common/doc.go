// Package common provides shared utilities for MCP tool implementations,
// currently the instrumentation wrapper applied to every tool handler.
package common
