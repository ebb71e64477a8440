package calendar_tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/gcalskill/internal/instrumentation"
	"github.com/teemow/gcalskill/internal/reminders"
	"github.com/teemow/gcalskill/internal/skill"
	"github.com/teemow/gcalskill/internal/tools/batch"
	"github.com/teemow/gcalskill/internal/tools/common"
)

// Tool names.
const (
	ToolReadAll  = "calendar_read_all"
	ToolReadDay  = "calendar_read_day"
	ToolReadDays = "calendar_read_days"
	ToolListDays = "calendar_list_days"
)

const dayLayout = "2006-01-02"

// DaySummary describes one day of the snapshot.
type DaySummary struct {
	Date      string `json:"date"`
	Spoken    string `json:"spoken"`
	Reminders int    `json:"reminders"`
}

// RegisterCalendarTools registers the read-only calendar tools with the MCP server
func RegisterCalendarTools(s *mcpserver.MCPServer, store *reminders.Store, metrics *instrumentation.Metrics, logger *slog.Logger) error {
	if store == nil {
		return fmt.Errorf("reminder store is required for calendar tools")
	}

	readAllTool := mcp.NewTool(ToolReadAll,
		mcp.WithDescription("Read all upcoming calendar reminders, grouped by day, as a spoken sentence"),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(readAllTool, common.InstrumentedToolHandler(ToolReadAll, metrics, logger,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReadAll(ctx, request, store)
		}))

	readDayTool := mcp.NewTool(ToolReadDay,
		mcp.WithDescription("Read the calendar reminders of a single day as a spoken sentence"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("day",
			mcp.Required(),
			mcp.Description("Day to read (YYYY-MM-DD, e.g., '2030-03-05'). An ISO week like '2030-W10' reads its Monday."),
		),
	)
	s.AddTool(readDayTool, common.InstrumentedToolHandler(ToolReadDay, metrics, logger,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReadDay(ctx, request, store)
		}))

	readDaysTool := mcp.NewTool(ToolReadDays,
		mcp.WithDescription("Read the calendar reminders of several days at once"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithAny("days",
			mcp.Required(),
			stringOrStringArray(),
			mcp.Description("Day (string), comma-separated days or array of days, each YYYY-MM-DD"),
		),
	)
	s.AddTool(readDaysTool, common.InstrumentedToolHandler(ToolReadDays, metrics, logger,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReadDays(ctx, request, store)
		}))

	listDaysTool := mcp.NewTool(ToolListDays,
		mcp.WithDescription("List the days that have upcoming reminders"),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(listDaysTool, common.InstrumentedToolHandler(ToolListDays, metrics, logger,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListDays(ctx, request, store)
		}))

	return nil
}

// stringOrStringArray accepts either a string or an array of strings.
func stringOrStringArray() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["anyOf"] = []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		}
	}
}

func handleReadAll(_ context.Context, _ mcp.CallToolRequest, store *reminders.Store) (*mcp.CallToolResult, error) {
	text := reminders.RenderAll(store.Groups())
	if text == "" {
		return mcp.NewToolResultText(reminders.NoReminders), nil
	}
	return mcp.NewToolResultText(text), nil
}

func handleReadDay(_ context.Context, request mcp.CallToolRequest, store *reminders.Store) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("day")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := readDay(raw, store.Groups())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func handleReadDays(_ context.Context, request mcp.CallToolRequest, store *reminders.Store) (*mcp.CallToolResult, error) {
	days, err := batch.ParseDays(request.GetArguments()["days"], "days")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// One snapshot for the whole call
	groups := store.Groups()
	results := batch.Process(days, func(day string) (string, error) {
		return readDay(day, groups)
	})

	out, err := batch.Format(results)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to encode results", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

// readDay normalizes raw and renders that day.
func readDay(raw string, groups *reminders.DayGroups) (string, error) {
	day := skill.NormalizeDay(raw)
	if _, err := time.Parse(dayLayout, day); err != nil {
		return "", fmt.Errorf("invalid day %q, expected YYYY-MM-DD", raw)
	}
	return reminders.RenderDay(day, groups), nil
}

func handleListDays(_ context.Context, _ mcp.CallToolRequest, store *reminders.Store) (*mcp.CallToolResult, error) {
	groups := store.Groups().Groups()
	days := make([]DaySummary, 0, len(groups))
	for _, g := range groups {
		days = append(days, DaySummary{
			Date:      g.Reminders[0].StartDate,
			Spoken:    g.Key.String(),
			Reminders: len(g.Reminders),
		})
	}

	result, err := mcp.NewToolResultJSON(days)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to encode days", err), nil
	}
	return result, nil
}
