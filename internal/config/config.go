// Package config loads client configuration from environment variables
// and an optional config file.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the client needs to wire its adapters.
type Config struct {
	// APIBaseURL is the root of the storefront API.
	APIBaseURL string `mapstructure:"api_base_url"`
	// AdminEmail is the identity granted administrator access on login.
	AdminEmail string `mapstructure:"admin_email"`
	// StateDir is where the file-backed state store keeps its records.
	StateDir string `mapstructure:"state_dir"`
	// HTTPTimeout bounds every remote API call.
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	// DatabaseURL, when set, switches durable state to PostgreSQL.
	DatabaseURL string `mapstructure:"database_url"`
	// TerminalID isolates this terminal's records in a shared database.
	TerminalID string `mapstructure:"terminal_id"`
}

// Load reads configuration with precedence: STOREFRONT_* environment
// variables, then the config file (if present), then defaults. The file
// is looked up at cfgFile when non-empty, otherwise at
// storefront.yaml in the working directory.
func Load(cfgFile string) (Config, error) {
	v := viper.New()

	v.SetDefault("api_base_url", "http://localhost:3001")
	v.SetDefault("admin_email", "admin@example.com")
	v.SetDefault("state_dir", defaultStateDir())
	v.SetDefault("http_timeout", 10*time.Second)
	v.SetDefault("database_url", "")
	v.SetDefault("terminal_id", "default")

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	} else {
		v.SetConfigName("storefront")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaultStateDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".storefront"
	}
	return filepath.Join(base, "storefront")
}
