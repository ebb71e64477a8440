package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the gcalskill application
var rootCmd = &cobra.Command{
	Use:   "gcalskill",
	Short: "Reads a Google Calendar aloud through a voice assistant skill",
	Long: `gcalskill loads the upcoming events of a public Google Calendar once at
startup, turns them into spoken reminders grouped by day and answers voice
assistant requests with them.

It can run as:
  - A voice skill HTTP endpoint (default)
  - An MCP (Model Context Protocol) server for AI assistants
  - A one-shot reader printing the reminders to stdout`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// globalOptions holds the persistent flags shared by all commands.
type globalOptions struct {
	configFile string
	envFile    string
	debug      bool
	jsonLogs   bool
}

var globals globalOptions

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "gcalskill version %s\n" .Version}}`)

	// If no subcommand is provided, serve the skill by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&globals.configFile, "config", "c", "", "Path to a YAML config file")
	flags.StringVar(&globals.envFile, "env-file", "", "Path to a .env file (default: .env when present)")
	flags.BoolVar(&globals.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&globals.jsonLogs, "json-logs", false, "Log in JSON instead of text")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newReadCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
