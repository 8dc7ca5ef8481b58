package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tansive/libdesk/internal/common/httpclient"
	"github.com/tansive/libdesk/internal/config"
)

// configView is what `config show` reports.
type configView struct {
	APIURL       string `json:"api_url"`
	APIURLSource string `json:"api_url_source"`
	ConfigFile   string `json:"config_file"`
	StateFile    string `json:"state_file"`
	OpenAPIPath  string `json:"openapi_path"`
	APIPrefix    string `json:"api_prefix"`
	LoginPath    string `json:"auth_login_path"`
	LogLevel     string `json:"log_level"`
	LoggedIn     bool   `json:"logged_in"`
	User         string `json:"user,omitempty"`
}

func currentConfigView() configView {
	a := current
	source := "config"
	switch {
	case a.apiURL != "":
		source = "flag"
	case a.session.APIURL() != "":
		source = "state"
	}
	v := configView{
		APIURL:       a.GetServerURL(),
		APIURLSource: source,
		ConfigFile:   a.cfg.Path(),
		StateFile:    a.cfg.StatePath(),
		OpenAPIPath:  a.cfg.OpenAPIPath,
		APIPrefix:    a.cfg.APIPrefix,
		LoginPath:    a.cfg.AuthLoginPath,
		LogLevel:     a.cfg.LogLevel,
		LoggedIn:     a.session.IsLoggedIn(),
	}
	if v.LoggedIn {
		v.User = a.session.DisplayName()
	}
	return v
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long:  `Manage the API URL and other settings. Settings are read from the config file, LIBDESK_* environment variables and a .env file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := currentConfigView()
		return printResult(cmd, v, func(w io.Writer) error {
			t := newTable(w)
			t.row("API URL:", v.APIURL+" ("+v.APIURLSource+")")
			t.row("Config file:", v.ConfigFile)
			t.row("State file:", v.StateFile)
			t.row("API document:", v.OpenAPIPath)
			t.row("API prefix:", v.APIPrefix)
			t.row("Log level:", v.LogLevel)
			if v.LoggedIn {
				t.row("Signed in as:", v.User)
			} else {
				t.row("Signed in as:", "-")
			}
			return t.flush()
		})
	},
}

var configSetAPIURLCmd = &cobra.Command{
	Use:   "set-api-url URL",
	Short: "Persist the API URL used by later commands",
	Long: `Persist the API URL used by later commands. Trailing slashes and a trailing
/api segment are removed, so http://host:8080/api/ is stored as http://host:8080.

Example:
  libdesk config set-api-url http://localhost:8080`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := config.NormalizeAPIURL(args[0])
		if !httpclient.IsAbsoluteURL(u) {
			return config.ErrInvalidConfig.Msg("API URL must start with http:// or https://")
		}
		if err := current.session.SetAPIURL(u); err != nil {
			return err
		}
		current.schema.Invalidate()
		success(cmd, "API URL set to "+u, map[string]any{"api_url": u})
		return nil
	},
}

var configClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the persisted API URL",
	Long: `Forget the persisted API URL so the config file value (or the default
` + config.DefaultAPIURL + `) applies again. With --session the stored token and
profile are removed as well.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.session.SetAPIURL(""); err != nil {
			return err
		}
		if clearSession, _ := cmd.Flags().GetBool("session"); clearSession {
			if err := current.session.Clear(); err != nil {
				return err
			}
		}
		success(cmd, "API URL reset to "+current.cfg.APIURL, map[string]any{"api_url": current.cfg.APIURL})
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := *current.cfg
		if u, _ := cmd.Flags().GetString("url"); u != "" {
			cfg.APIURL = config.NormalizeAPIURL(u)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.WriteConfig(current.cfg.Path()); err != nil {
			return err
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), map[string]string{
				"api_url":     cfg.APIURL,
				"config_file": cfg.Path(),
			})
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "API URL: %s\n", cfg.APIURL)
			fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", cfg.Path())
		}
		return nil
	},
}

func init() {
	configClearCmd.Flags().Bool("session", false, "Also sign out")
	configInitCmd.Flags().String("url", "", "API URL to write")

	configCmd.AddCommand(configShowCmd, configSetAPIURLCmd, configClearCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}
