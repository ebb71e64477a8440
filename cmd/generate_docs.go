package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/gcalskill/internal/reminders"
	"github.com/teemow/gcalskill/internal/tools/calendar_tools"
)

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate a markdown reference of the tools served by "gcalskill mcp".
The reference is built from the registered tool definitions, so it always
matches what an MCP client sees.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			markdown, err := toolsReference()
			if err != nil {
				return err
			}
			if outputFile == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), markdown)
				return err
			}
			if err := os.WriteFile(outputFile, []byte(markdown), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Documentation written to: %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

// toolsReference registers the tools against an empty snapshot and renders
// their definitions. No calendar is fetched.
func toolsReference() (string, error) {
	srv := mcpserver.NewMCPServer("gcalskill", version, mcpserver.WithToolCapabilities(true))
	if err := calendar_tools.RegisterCalendarTools(srv, reminders.NewStore(nil), nil, nil); err != nil {
		return "", fmt.Errorf("failed to register calendar tools: %w", err)
	}

	tools := make([]mcp.Tool, 0)
	for _, st := range srv.ListTools() {
		tools = append(tools, st.Tool)
	}
	slices.SortFunc(tools, func(a, b mcp.Tool) int { return strings.Compare(a.Name, b.Name) })

	var sb strings.Builder
	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("Tools served by `gcalskill mcp` over stdio. Generated from the tool definitions.\n\n")
	sb.WriteString("All tools read the reminders loaded at startup, or at the last scheduled refresh, ")
	sb.WriteString("and answer with the same spoken text as the voice skill.\n\n")

	sb.WriteString("| Tool | Arguments | Read-only |\n|---|---|---|\n")
	for _, tool := range tools {
		fmt.Fprintf(&sb, "| [%s](#%s) | %s | %s |\n",
			tool.Name, tool.Name, argumentList(tool), yesNo(isReadOnly(tool)))
	}
	sb.WriteString("\n")

	for _, tool := range tools {
		writeTool(&sb, tool)
	}
	return sb.String(), nil
}

func writeTool(sb *strings.Builder, tool mcp.Tool) {
	fmt.Fprintf(sb, "## %s\n\n", tool.Name)
	if tool.Description != "" {
		fmt.Fprintf(sb, "%s\n\n", tool.Description)
	}
	if len(tool.InputSchema.Properties) == 0 {
		sb.WriteString("No arguments.\n\n")
		return
	}

	sb.WriteString("**Arguments:**\n")
	for _, name := range propertyNames(tool) {
		prop, _ := tool.InputSchema.Properties[name].(map[string]any)
		kind := propertyType(prop)
		need := "optional"
		if slices.Contains(tool.InputSchema.Required, name) {
			need = "required"
		}
		desc, _ := prop["description"].(string)
		fmt.Fprintf(sb, "- `%s` (%s, %s): %s\n", name, kind, need, desc)
	}
	sb.WriteString("\n")
}

// propertyType names a property's JSON type. anyOf alternatives are joined
// with "or".
func propertyType(prop map[string]any) string {
	if kind, _ := prop["type"].(string); kind != "" {
		return kind
	}
	alts, _ := prop["anyOf"].([]any)
	kinds := make([]string, 0, len(alts))
	for _, alt := range alts {
		m, _ := alt.(map[string]any)
		if kind, _ := m["type"].(string); kind != "" {
			kinds = append(kinds, kind)
		}
	}
	if len(kinds) == 0 {
		return "any"
	}
	return strings.Join(kinds, " or ")
}

func propertyNames(tool mcp.Tool) []string {
	names := make([]string, 0, len(tool.InputSchema.Properties))
	for name := range tool.InputSchema.Properties {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func argumentList(tool mcp.Tool) string {
	names := propertyNames(tool)
	if len(names) == 0 {
		return "-"
	}
	return "`" + strings.Join(names, "`, `") + "`"
}

func isReadOnly(tool mcp.Tool) bool {
	return tool.Annotations.ReadOnlyHint != nil && *tool.Annotations.ReadOnlyHint
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
