package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/azkctl/azkctl/internal/ctxlog"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Execute parses args, runs the selected command and returns its error.
// Usage and flag errors come back as *ExitError with code 2.
func Execute(args []string, outW, errW io.Writer) error {
	rootCmd := NewRootCmd(outW, errW)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// NewRootCmd builds the full azkctl command tree.
func NewRootCmd(outW, errW io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "azkctl",
		Short:         "Package workflow projects and drive a remote orchestration server",
		Long:          "azkctl packages named jobs and files into a deployable archive and drives a remote workflow-orchestration server: create projects, upload archives, launch and monitor flow executions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLoggerFromFlags(cmd, errW)
			if err != nil {
				return err
			}
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
			return nil
		},
	}
	rootCmd.SetOut(outW)
	rootCmd.SetErr(errW)

	flags := rootCmd.PersistentFlags()
	flags.StringP("project-path", "p", ".", "Path to a manifest file or a directory of .hcl manifests.")
	flags.String("project", "", "Project name, when the manifest defines more than one.")
	flags.String("rcfile", "", "Credential file path (defaults to ~/.azkabanrc).")
	flags.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flags.BoolP("quiet", "q", false, "Only log errors.")
	flags.Bool("insecure", false, "Skip TLS certificate verification.")

	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newLogsCmd())
	rootCmd.AddCommand(newViewCmd())
	rootCmd.AddCommand(newListCmd())

	return rootCmd
}

// newLoggerFromFlags validates the logging flags and builds an isolated
// slog.Logger writing to errW.
func newLoggerFromFlags(cmd *cobra.Command, errW io.Writer) (*slog.Logger, error) {
	levelStr, _ := cmd.Flags().GetString("log-level")
	formatStr, _ := cmd.Flags().GetString("log-format")
	quiet, _ := cmd.Flags().GetBool("quiet")

	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	if quiet {
		level = slog.LevelError
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(formatStr) {
	case "json":
		handler = slog.NewJSONHandler(errW, handlerOpts)
	case "text":
		handler = slog.NewTextHandler(errW, handlerOpts)
	default:
		return nil, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	return slog.New(handler), nil
}

// optionalArg returns the first positional argument, or "".
func optionalArg(args []string, index int) string {
	if index < len(args) {
		return args[index]
	}
	return ""
}

// parseProperties turns repeated key=value flags into a map.
func parseProperties(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	props := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid property %q, expected key=value", pair)
		}
		props[key] = value
	}
	return props, nil
}
