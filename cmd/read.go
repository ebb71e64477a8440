package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/gcalskill/internal/reminders"
	"github.com/teemow/gcalskill/internal/skill"
)

func newReadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read [day]",
		Short: "Print the spoken reminders to stdout",
		Long: `Fetch the calendar once and print what the skill would say.

Without an argument every upcoming reminder is printed, grouped by day.
With a day (YYYY-MM-DD, or an ISO week such as 2030-W10) only that day is
printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := ""
			if len(args) == 1 {
				day = args[0]
			}
			return runRead(cmd.Context(), globals, day, cmd.OutOrStdout())
		},
	}
	return cmd
}

func runRead(ctx context.Context, opts globalOptions, day string, out io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger := setupLogging(opts)

	loader, err := newLoader(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}
	groups, err := initialLoad(ctx, loader, cfg.Feed.Timeout)
	if err != nil {
		return err
	}

	var text string
	switch {
	case day != "":
		text = reminders.RenderDay(skill.NormalizeDay(day), groups)
	case groups.Len() == 0:
		text = reminders.NoReminders
	default:
		text = reminders.RenderAll(groups)
	}

	_, err = fmt.Fprintln(out, strings.TrimSpace(text))
	return err
}
