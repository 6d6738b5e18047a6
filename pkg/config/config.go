package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/soft-board/pkg/access"
	"gopkg.in/yaml.v3"
)

// HTTPConfig is the HTTP configuration for the server.
type HTTPConfig struct {
	// Enabled toggles the HTTP API.
	Enabled bool `env:"ENABLED" yaml:"enabled"`

	// ListenAddr is the address on which the HTTP server will listen.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`

	// PublicURL is the public URL of the HTTP server. It is also the issuer
	// of access tokens.
	PublicURL string `env:"PUBLIC_URL" yaml:"public_url"`
}

// StatsConfig is the configuration for the stats server.
type StatsConfig struct {
	// Enabled toggles the stats server.
	Enabled bool `env:"ENABLED" yaml:"enabled"`

	// ListenAddr is the address on which the stats server will listen.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`
}

// LogConfig is the logger configuration.
type LogConfig struct {
	// Format is the format of the logs.
	// Valid values are "json", "logfmt", and "text".
	Format string `env:"FORMAT" yaml:"format"`

	// Time format for the log `ts` field.
	// Format must be described in Golang's time format.
	TimeFormat string `env:"TIME_FORMAT" yaml:"time_format"`

	// Path to a file to write logs to.
	// If not set, logs will be written to stderr.
	Path string `env:"PATH" yaml:"path"`
}

// DBConfig is the database connection configuration.
type DBConfig struct {
	// Driver is the driver for the database.
	Driver string `env:"DRIVER" yaml:"driver"`

	// DataSource is the database data source name.
	DataSource string `env:"DATA_SOURCE" yaml:"data_source"`
}

// AuthConfig is the access token configuration.
type AuthConfig struct {
	// KeyPath is the path to the Ed25519 key used to sign access tokens.
	KeyPath string `env:"KEY_PATH" yaml:"key_path"`

	// TokenExpiry is how long issued access tokens are valid.
	TokenExpiry time.Duration `env:"TOKEN_EXPIRY" yaml:"token_expiry"`
}

// BoardsConfig holds board collaboration policy.
type BoardsConfig struct {
	// InviteRole is the minimum role required to send invites.
	InviteRole access.Role `env:"INVITE_ROLE" yaml:"invite_role"`
}

// JobsConfig is the configuration for cron jobs.
type JobsConfig struct {
	// NotificationPrune is the schedule of the read notification cleanup.
	NotificationPrune string `env:"NOTIFICATION_PRUNE" yaml:"notification_prune"`

	// NotificationRetention is how long read notifications are kept.
	NotificationRetention time.Duration `env:"NOTIFICATION_RETENTION" yaml:"notification_retention"`
}

// Config is the configuration for Soft Board.
type Config struct {
	// Name is the name of the server.
	Name string `env:"NAME" yaml:"name"`

	// HTTP is the configuration for the HTTP server.
	HTTP HTTPConfig `envPrefix:"HTTP_" yaml:"http"`

	// Stats is the configuration for the stats server.
	Stats StatsConfig `envPrefix:"STATS_" yaml:"stats"`

	// Log is the logger configuration.
	Log LogConfig `envPrefix:"LOG_" yaml:"log"`

	// DB is the database configuration.
	DB DBConfig `envPrefix:"DB_" yaml:"db"`

	// Auth is the access token configuration.
	Auth AuthConfig `envPrefix:"AUTH_" yaml:"auth"`

	// Boards is the board collaboration policy.
	Boards BoardsConfig `envPrefix:"BOARDS_" yaml:"boards"`

	// Jobs is the configuration for cron jobs.
	Jobs JobsConfig `envPrefix:"JOBS_" yaml:"jobs"`

	// DataPath is the path to the directory where Soft Board will store its data.
	DataPath string `env:"DATA_PATH" yaml:"-"`
}

// Environ returns the config as a list of environment variables.
func (c *Config) Environ() []string {
	envs := []string{}
	if c == nil {
		return envs
	}

	envs = append(envs, []string{
		fmt.Sprintf("SOFT_BOARD_DATA_PATH=%s", c.DataPath),
		fmt.Sprintf("SOFT_BOARD_NAME=%s", c.Name),
		fmt.Sprintf("SOFT_BOARD_HTTP_ENABLED=%t", c.HTTP.Enabled),
		fmt.Sprintf("SOFT_BOARD_HTTP_LISTEN_ADDR=%s", c.HTTP.ListenAddr),
		fmt.Sprintf("SOFT_BOARD_HTTP_PUBLIC_URL=%s", c.HTTP.PublicURL),
		fmt.Sprintf("SOFT_BOARD_STATS_ENABLED=%t", c.Stats.Enabled),
		fmt.Sprintf("SOFT_BOARD_STATS_LISTEN_ADDR=%s", c.Stats.ListenAddr),
		fmt.Sprintf("SOFT_BOARD_LOG_FORMAT=%s", c.Log.Format),
		fmt.Sprintf("SOFT_BOARD_LOG_TIME_FORMAT=%s", c.Log.TimeFormat),
		fmt.Sprintf("SOFT_BOARD_LOG_PATH=%s", c.Log.Path),
		fmt.Sprintf("SOFT_BOARD_DB_DRIVER=%s", c.DB.Driver),
		fmt.Sprintf("SOFT_BOARD_DB_DATA_SOURCE=%s", c.DB.DataSource),
		fmt.Sprintf("SOFT_BOARD_AUTH_KEY_PATH=%s", c.Auth.KeyPath),
		fmt.Sprintf("SOFT_BOARD_AUTH_TOKEN_EXPIRY=%s", c.Auth.TokenExpiry),
		fmt.Sprintf("SOFT_BOARD_BOARDS_INVITE_ROLE=%s", c.Boards.InviteRole),
		fmt.Sprintf("SOFT_BOARD_JOBS_NOTIFICATION_PRUNE=%s", c.Jobs.NotificationPrune),
		fmt.Sprintf("SOFT_BOARD_JOBS_NOTIFICATION_RETENTION=%s", c.Jobs.NotificationRetention),
	}...)

	return envs
}

// IsDebug returns true if the server is running in debug mode.
func IsDebug() bool {
	debug, _ := strconv.ParseBool(os.Getenv("SOFT_BOARD_DEBUG"))
	return debug
}

// IsVerbose returns true if the server is running in verbose mode.
// Verbose mode is only enabled if debug mode is enabled.
func IsVerbose() bool {
	verbose, _ := strconv.ParseBool(os.Getenv("SOFT_BOARD_VERBOSE"))
	return IsDebug() && verbose
}

// parseFile parses the given file as a configuration file.
// The file must be in YAML format.
func parseFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer f.Close() // nolint: errcheck
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	return cfg.Validate()
}

// ParseFile parses the config from the default file path.
// This also calls Validate() on the config.
func (c *Config) ParseFile() error {
	return parseFile(c, c.ConfigPath())
}

// parseEnv parses the environment variables as a configuration file.
func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix: "SOFT_BOARD_",
	}); err != nil {
		return fmt.Errorf("parse environment variables: %w", err)
	}

	return cfg.Validate()
}

// ParseEnv parses the config from the environment variables.
// This also calls Validate() on the config.
func (c *Config) ParseEnv() error {
	return parseEnv(c)
}

// Parse parses the config from the default file path and environment variables.
// This also calls Validate() on the config.
func (c *Config) Parse() error {
	if err := c.ParseFile(); err != nil {
		return err
	}

	return c.ParseEnv()
}

// writeConfig writes the configuration to the given file.
func writeConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(newConfigFile(cfg)), 0o644) // nolint: errcheck, gosec
}

// WriteConfig writes the configuration to the default file.
func (c *Config) WriteConfig() error {
	return writeConfig(c, c.ConfigPath())
}

// DefaultDataPath returns the path to the data directory.
// It uses the SOFT_BOARD_DATA_PATH environment variable if set, otherwise it
// uses "data".
func DefaultDataPath() string {
	dp := os.Getenv("SOFT_BOARD_DATA_PATH")
	if dp == "" {
		dp = "data"
	}

	return dp
}

// ConfigPath returns the path to the config file. SOFT_BOARD_CONFIG_LOCATION
// takes precedence when it points to an existing file.
func (c *Config) ConfigPath() string { // nolint:revive
	if path := os.Getenv("SOFT_BOARD_CONFIG_LOCATION"); exist(path) {
		return path
	}

	return filepath.Join(c.DataPath, "config.yaml")
}

func exist(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Exist returns true if the config file exists.
func (c *Config) Exist() bool {
	return exist(c.ConfigPath())
}

// DefaultConfig returns the default Config. All the path values are relative
// to the data directory.
// Use Validate() to validate the config and ensure absolute paths.
func DefaultConfig() *Config {
	return &Config{
		Name:     "Soft Board",
		DataPath: DefaultDataPath(),
		HTTP: HTTPConfig{
			Enabled:    true,
			ListenAddr: ":23232",
			PublicURL:  "http://localhost:23232",
		},
		Stats: StatsConfig{
			Enabled:    true,
			ListenAddr: "localhost:23233",
		},
		Log: LogConfig{
			Format:     "text",
			TimeFormat: time.DateTime,
		},
		DB: DBConfig{
			Driver: "sqlite",
			DataSource: "soft-board.db" +
				"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_txlock=immediate",
		},
		Auth: AuthConfig{
			KeyPath:     filepath.Join("keys", "soft_board_ed25519"),
			TokenExpiry: 24 * time.Hour,
		},
		Boards: BoardsConfig{
			InviteRole: access.AdminRole,
		},
		Jobs: JobsConfig{
			NotificationPrune:     "@every 1h",
			NotificationRetention: 30 * 24 * time.Hour,
		},
	}
}

// Validate validates the configuration.
// It updates the configuration with absolute paths.
func (c *Config) Validate() error {
	// Use absolute paths
	if !filepath.IsAbs(c.DataPath) {
		dp, err := filepath.Abs(c.DataPath)
		if err != nil {
			return err
		}
		c.DataPath = dp
	}

	c.HTTP.PublicURL = strings.TrimSuffix(c.HTTP.PublicURL, "/")

	if c.Auth.KeyPath != "" && !filepath.IsAbs(c.Auth.KeyPath) {
		c.Auth.KeyPath = filepath.Join(c.DataPath, c.Auth.KeyPath)
	}

	if strings.HasPrefix(c.DB.Driver, "sqlite") && !filepath.IsAbs(c.DB.DataSource) {
		c.DB.DataSource = filepath.Join(c.DataPath, c.DB.DataSource)
	}

	if !c.Boards.InviteRole.Valid() {
		return fmt.Errorf("invalid boards.invite_role: %q", c.Boards.InviteRole)
	}

	if c.Auth.TokenExpiry < 0 {
		return fmt.Errorf("invalid auth.token_expiry: %s", c.Auth.TokenExpiry)
	}

	if c.Jobs.NotificationRetention < 0 {
		return fmt.Errorf("invalid jobs.notification_retention: %s", c.Jobs.NotificationRetention)
	}

	return nil
}

// ErrNilConfig is returned when a nil config is passed where one is required.
var ErrNilConfig = errors.New("nil config")
