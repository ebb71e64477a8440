package cmd

import (
	"context"
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/gcalskill/internal/instrumentation"
	"github.com/teemow/gcalskill/internal/logging"
	"github.com/teemow/gcalskill/internal/reminders"
	"github.com/teemow/gcalskill/internal/server"
	"github.com/teemow/gcalskill/internal/tools/calendar_tools"
)

func newMCPCmd() *cobra.Command {
	var refresh string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the calendar tools over MCP stdio",
		Long: `Load the calendar once and expose it to MCP clients over stdin/stdout.

Tools:
  calendar_read_all    read every upcoming reminder
  calendar_read_day    read the reminders of one day
  calendar_read_days   read several days in one call
  calendar_list_days   list the days that have reminders

Logs go to stderr; stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(globals)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("refresh") {
				cfg.Refresh = refresh
			}

			ctx := cmd.Context()
			logger := setupLogging(globals)

			instrConfig := cfg.Telemetry
			instrConfig.ServiceVersion = version
			provider, err := instrumentation.NewProvider(ctx, instrConfig)
			if err != nil {
				return fmt.Errorf("failed to create instrumentation provider: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
				defer cancel()
				if err := provider.Shutdown(shutdownCtx); err != nil {
					logger.Error("error during instrumentation shutdown", logging.Err(err))
				}
			}()

			loader, err := newLoader(ctx, cfg, provider.Metrics(), logger)
			if err != nil {
				return err
			}
			groups, err := initialLoad(ctx, loader, cfg.Feed.Timeout)
			if err != nil {
				return err
			}
			store := reminders.NewStore(groups)

			refresher, err := startRefresher(ctx, cfg, loader, store, logger)
			if err != nil {
				return err
			}
			if refresher != nil {
				defer func() {
					stopCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
					defer cancel()
					_ = refresher.Stop(stopCtx)
				}()
			}

			mcpSrv := mcpserver.NewMCPServer("gcalskill", version,
				mcpserver.WithToolCapabilities(true),
			)
			if err := calendar_tools.RegisterCalendarTools(mcpSrv, store, provider.Metrics(), logger); err != nil {
				return fmt.Errorf("failed to register calendar tools: %w", err)
			}

			return runStdioServer(mcpSrv)
		},
	}

	cmd.Flags().StringVar(&refresh, "refresh", "", "Cron schedule for reloading the calendar (e.g. '*/30 * * * *')")
	return cmd
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}
