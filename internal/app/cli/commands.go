package cli

import (
	"github.com/spf13/cobra"

	"logviewer/internal/config"
)

// CommandType represents the type of CLI command
type CommandType int

// Command type values
const (
	CommandHelp CommandType = iota
	CommandApply
	CommandCheck
	CommandAdd
	CommandList
	CommandExport
	CommandInit
	CommandVersion
)

// Options contains the parsed command-line arguments
type Options struct {
	Type CommandType

	// apply
	FilterFiles []string
	Logs        []string
	Watch       bool
	Matches     bool

	// check, list, export
	Files []string

	// add
	File          string
	Name          string
	Pattern       string
	Color         string
	Severity      string
	CaseSensitive bool
}

// Parse parses command-line args and returns an Options struct
func Parse(args []string) (*Options, error) {
	result := &Options{
		Type: CommandHelp,
	}

	var showVersion bool

	root := buildRootCommand(result, &showVersion)
	root.AddCommand(
		buildApplyCommand(result),
		buildCheckCommand(result),
		buildAddCommand(result),
		buildListCommand(result),
		buildExportCommand(result),
		buildInitCommand(result),
		buildVersionCommand(result),
	)

	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		return nil, err
	}

	if showVersion {
		result.Type = CommandVersion
	}

	return result, nil
}

// buildRootCommand creates the root cobra command
func buildRootCommand(result *Options, showVersion *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:           config.AppName,
		Short:         config.AppDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandHelp
		},
	}

	cmd.Flags().BoolVarP(showVersion, "version", "v", false, "Show version information")

	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		result.Type = CommandHelp
	})

	return cmd
}

// buildApplyCommand creates the apply subcommand
func buildApplyCommand(result *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apply [logs...]",
		Aliases: []string{"a"},
		Short:   "Apply filter files to log files and report matches per filter",
		Args:    cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandApply
			result.Logs = args
		},
	}

	cmd.Flags().StringArrayVarP(&result.FilterFiles, "filters", "f", nil, "Filter file to apply (repeatable)")
	cmd.Flags().BoolVarP(&result.Watch, "watch", "w", false, "Re-run when a filter file changes")
	cmd.Flags().BoolVarP(&result.Matches, "matches", "m", false, "Print the matching lines")

	return cmd
}

// buildCheckCommand creates the check subcommand
func buildCheckCommand(result *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <files...>",
		Short: "Validate filter files and report legacy or invalid records",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandCheck
			result.Files = args
		},
	}
}

// buildAddCommand creates the add subcommand
func buildAddCommand(result *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a filter to a filter file",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandAdd
		},
	}

	cmd.Flags().StringVarP(&result.File, "file", "f", "", "Filter file to append to")
	cmd.Flags().StringVarP(&result.Name, "name", "n", "", "Filter name")
	cmd.Flags().StringVarP(&result.Pattern, "pattern", "p", "", "Substring or regular expression")
	cmd.Flags().StringVarP(&result.Color, "color", "c", "", "Display color as R:G:B")
	cmd.Flags().StringVarP(&result.Severity, "severity", "s", "VERBOSE", "Minimum severity")
	cmd.Flags().BoolVar(&result.CaseSensitive, "case-sensitive", false, "Match case-sensitively")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// buildListCommand creates the list subcommand
func buildListCommand(result *Options) *cobra.Command {
	return &cobra.Command{
		Use:     "list <files...>",
		Aliases: []string{"ls"},
		Short:   "Print the filters defined in filter files",
		Args:    cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandList
			result.Files = args
		},
	}
}

// buildExportCommand creates the export subcommand
func buildExportCommand(result *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "export <files...>",
		Short: "Export filter files as YAML",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandExport
			result.Files = args
		},
	}
}

// buildInitCommand creates the init subcommand
func buildInitCommand(result *Options) *cobra.Command {
	return &cobra.Command{
		Use:     "init",
		Aliases: []string{"i"},
		Short:   "Generate " + config.FileName + " template",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandInit
		},
	}
}

// buildVersionCommand creates the version subcommand
func buildVersionCommand(result *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandVersion
		},
	}
}
