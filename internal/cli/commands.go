package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tansive/libdesk/internal/common/apperrors"
	"github.com/tansive/libdesk/internal/common/httpclient"
	"github.com/tansive/libdesk/internal/common/logtrace"
	"github.com/tansive/libdesk/internal/config"
)

var (
	// Global flags
	jsonOutput bool
	configFile string
	apiURLFlag string
	verbose    bool
)

var ErrAlreadyHandled = errors.New("already handled")

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)
var hintLabel = color.New(color.FgYellow)
var headerLabel = color.New(color.Bold)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "libdesk [command] [flags]",
	Short: "libdesk - administer a library from the command line",
	Long: `libdesk is a command line front end for the library backend.
It signs you in, browses the catalog and your loans, shows statistics,
manages books, authors, users, loans and penalties, and lets you explore
and call any endpoint the backend publishes in its API document.

Examples:
  # Point libdesk at the backend and sign in
  libdesk config set-api-url http://localhost:8080
  libdesk login --email reader@example.com

  # Browse the catalog
  libdesk books list --title dune

  # List every endpoint tagged "loans" and call one
  libdesk explorer list loans
  libdesk explorer call GET /api/me/loans`,
	PersistentPreRunE: preRunHandlePersistents,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	// Set up persistent flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVarP(&apiURLFlag, "api-url", "", "", "API URL for this invocation only")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests to stderr")

	rootCmd.AddCommand(newVersionCmd())
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	rootCmd.SilenceErrors = true // Prevent Cobra from printing the error
	rootCmd.SilenceUsage = true  // Prevent Cobra from printing usage on error

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if !errors.Is(err, ErrAlreadyHandled) {
		printError(rootCmd.OutOrStdout(), rootCmd.ErrOrStderr(), err)
	}
	return 1
}

// printError reports err as a JSON object on stdout with --json, else as an
// "Error:" line and an optional hint on stderr.
func printError(stdout, stderr io.Writer, err error) {
	msg := err.Error()
	status := 0
	var details any
	if he, ok := httpclient.AsHTTPError(err); ok {
		status = he.StatusCode
		details = he.Details
	} else {
		var ae apperrors.Error
		if errors.As(err, &ae) {
			status = ae.StatusCode()
		}
	}
	hint := apperrors.HintOf(err)

	if jsonOutput {
		kv := map[string]any{"error": msg}
		if status != 0 {
			kv["status"] = status
		}
		if hint != "" {
			kv["hint"] = hint
		}
		if details != nil {
			kv["details"] = details
		}
		printJSON(stdout, kv)
		return
	}
	if he, ok := httpclient.AsHTTPError(err); ok && !he.IsNetworkError() {
		errorLabel.Fprintf(stderr, "Error: %s (HTTP %d)\n", msg, he.StatusCode)
	} else {
		errorLabel.Fprintf(stderr, "Error: %v\n", msg)
	}
	if hint != "" {
		hintLabel.Fprintf(stderr, "Hint: %s\n", hint)
	}
}

// preRunHandlePersistents loads the configuration and wires the client
// before any command runs.
func preRunHandlePersistents(cmd *cobra.Command, args []string) error {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "version" {
			return nil
		}
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logtrace.InitLoggerWithWriter(cmd.ErrOrStderr(), level)

	ctx, _ := logtrace.WithRequestID(cmd.Context())
	cmd.SetContext(ctx)

	current = newApp(cfg, apiURLFlag)
	return nil
}

// newVersionCmd creates and returns a new version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of libdesk",
		Run: func(cmd *cobra.Command, args []string) {
			// Get the config file path
			configPath := configFile
			if configPath == "" {
				var err error
				if configPath, err = config.GetDefaultConfigPath(); err != nil {
					configPath = "unknown"
				}
			}

			if jsonOutput {
				kv := map[string]string{
					"version":     getCLIVersion(),
					"config_file": configPath,
				}
				printJSON(cmd.OutOrStdout(), kv)
			} else {
				cmd.Printf("libdesk %s\n", getCLIVersion())
				cmd.Printf("Config file: %s\n", configPath)
			}
		},
	}
}

// printJSON prints data as indented JSON
func printJSON(w io.Writer, data any) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		errorLabel.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(jsonData))
}

// getCLIVersion returns the current CLI version
func getCLIVersion() string {
	return "v0.3.0"
}
