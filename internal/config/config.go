// Package config loads the libdesk configuration. Values come from the YAML
// config file, then LIBDESK_* environment variables (optionally from a .env
// file), then built-in defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/tansive/libdesk/internal/common/httpclient"
	"github.com/tansive/libdesk/internal/common/logtrace"
)

const (
	// DefaultConfigFile is the default name of the config file.
	DefaultConfigFile = "config.yaml"
	// DefaultStateFile holds the session and is kept next to the config file.
	DefaultStateFile = "state.yaml"
	// ConfigVersion is the version of the file format written by WriteConfig.
	ConfigVersion = "0.1.0"

	DefaultAPIURL             = "http://localhost:8080"
	DefaultOpenAPIPath        = "/v3/api-docs"
	DefaultAuthLoginPath      = "/api/auth/login"
	DefaultAuthRegisterPath   = "/api/auth/register"
	DefaultChangePasswordPath = "/auth/change-password"
	DefaultSchemaTTL          = 60 * time.Second

	envPrefix = "libdesk"
)

// Config is the libdesk configuration.
type Config struct {
	Version            string                 `yaml:"version"`
	APIURL             string                 `yaml:"api_url,omitempty"`
	OpenAPIPath        string                 `yaml:"openapi_path,omitempty"`
	AuthLoginPath      string                 `yaml:"auth_login_path,omitempty"`
	AuthRegisterPath   string                 `yaml:"auth_register_path,omitempty"`
	ChangePasswordPath string                 `yaml:"change_password_path,omitempty"`
	APIPrefix          string                 `yaml:"api_prefix,omitempty"`
	RouteRules         []httpclient.RouteRule `yaml:"route_rules,omitempty"`
	SchemaTTL          time.Duration          `yaml:"schema_ttl,omitempty"`
	LogLevel           string                 `yaml:"log_level,omitempty"`
	RequestTimeout     time.Duration          `yaml:"request_timeout,omitempty"`

	// path is the file the configuration was loaded from.
	path string
}

// Env holds the LIBDESK_* environment defaults.
type Env struct {
	APIURL           string `envconfig:"API_URL"`
	OpenAPIPath      string `envconfig:"OPENAPI_PATH"`
	AuthLoginPath    string `envconfig:"AUTH_LOGIN_PATH"`
	AuthRegisterPath string `envconfig:"AUTH_REGISTER_PATH"`
	LogLevel         string `envconfig:"LOG_LEVEL"`
}

// GetDefaultConfigPath returns the default path for the config file, in the
// OS-specific config directory (e.g. ~/.config/libdesk on Linux).
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", ErrConfigPath.Err(err)
	}
	return filepath.Join(configDir, "libdesk", DefaultConfigFile), nil
}

// LoadEnv reads the environment defaults. A .env file in the working
// directory is loaded first; variables already set take precedence over it.
func LoadEnv() (*Env, error) {
	if cwd, err := os.Getwd(); err == nil {
		_ = godotenv.Load(filepath.Join(cwd, ".env")) // no error if .env doesn't exist
	}
	var e Env
	if err := envconfig.Process(envPrefix, &e); err != nil {
		return nil, ErrConfigEnv.Err(err)
	}
	return &e, nil
}

// LoadConfig loads the configuration from file, or from the default location
// when file is empty. A missing file is not an error: the environment and
// built-in defaults apply.
func LoadConfig(file string) (*Config, error) {
	if file == "" {
		var err error
		file, err = GetDefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	env, err := LoadEnv()
	if err != nil {
		return nil, err
	}
	c := FromEnv(env)
	c.path = file

	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, ErrConfigParse.MsgErr("unable to parse config file "+file, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, ErrConfigRead.Err(err)
	}

	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromEnv returns a configuration seeded with environment values.
func FromEnv(env *Env) *Config {
	c := &Config{}
	if env == nil {
		return c
	}
	c.APIURL = env.APIURL
	c.OpenAPIPath = env.OpenAPIPath
	c.AuthLoginPath = env.AuthLoginPath
	c.AuthRegisterPath = env.AuthRegisterPath
	c.LogLevel = env.LogLevel
	return c
}

// ApplyDefaults fills unset fields with built-in defaults.
func (c *Config) ApplyDefaults() {
	if c.Version == "" {
		c.Version = ConfigVersion
	}
	c.APIURL = NormalizeAPIURL(c.APIURL)
	c.OpenAPIPath = orDefault(c.OpenAPIPath, DefaultOpenAPIPath)
	c.AuthLoginPath = orDefault(c.AuthLoginPath, DefaultAuthLoginPath)
	c.AuthRegisterPath = orDefault(c.AuthRegisterPath, DefaultAuthRegisterPath)
	c.ChangePasswordPath = orDefault(c.ChangePasswordPath, DefaultChangePasswordPath)
	c.APIPrefix = orDefault(c.APIPrefix, httpclient.DefaultAPIPrefix)
	if len(c.RouteRules) == 0 {
		c.RouteRules = httpclient.DefaultRouteRules()
	}
	if c.SchemaTTL <= 0 {
		c.SchemaTTL = DefaultSchemaTTL
	}
	c.LogLevel = orDefault(c.LogLevel, logtrace.DefaultLevel.String())
}

// Validate checks the configuration after defaults were applied.
func (c *Config) Validate() error {
	if !httpclient.IsAbsoluteURL(c.APIURL) {
		return ErrInvalidConfig.Msg("api_url must start with http:// or https://")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return ErrInvalidConfig.MsgErr("invalid log_level "+c.LogLevel, err)
	}
	if c.RequestTimeout < 0 {
		return ErrInvalidConfig.Msg("request_timeout must not be negative")
	}
	for _, r := range c.RouteRules {
		if r.Action != httpclient.RouteBypass && r.Action != httpclient.RouteInject {
			return ErrInvalidConfig.Msg("route rule " + r.Prefix + " has unknown action " + string(r.Action))
		}
	}
	return nil
}

// WriteConfig writes the configuration to file, creating its directory.
func (c *Config) WriteConfig(file string) error {
	if file == "" {
		file = c.path
	}
	if file == "" {
		return ErrConfigWrite.Msg("file path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o700); err != nil {
		return ErrConfigWrite.MsgErr("unable to create config directory", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return ErrConfigWrite.MsgErr("unable to generate configuration", err)
	}

	if err := os.WriteFile(file, data, 0o600); err != nil {
		return ErrConfigWrite.Err(err)
	}
	c.path = file
	return nil
}

// Path returns the file the configuration was loaded from or written to.
func (c *Config) Path() string {
	return c.path
}

// StatePath returns the client-state file kept next to the config file.
func (c *Config) StatePath() string {
	if c.path == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(c.path), DefaultStateFile)
}

// RouteTable returns the dispatcher route table.
func (c *Config) RouteTable() *httpclient.RouteTable {
	rules := c.RouteRules
	if len(rules) == 0 {
		rules = httpclient.DefaultRouteRules()
	}
	return &httpclient.RouteTable{
		APIPrefix: orDefault(c.APIPrefix, httpclient.DefaultAPIPrefix),
		Rules:     rules,
	}
}

// NormalizeAPIURL trims whitespace and trailing slashes and strips every
// trailing /api segment. A blank value gives DefaultAPIURL.
func NormalizeAPIURL(raw string) string {
	u := strings.TrimSpace(raw)
	for {
		trimmed := strings.TrimRight(u, "/")
		trimmed = strings.TrimSuffix(trimmed, "/api")
		if trimmed == u {
			break
		}
		u = trimmed
	}
	if u == "" {
		return DefaultAPIURL
	}
	return u
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
