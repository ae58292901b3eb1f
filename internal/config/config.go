// Package config resolves settings from a .env file, APPSTRUCT_*
// environment variables and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/takak2166/appstruct/internal/logger"
)

const envPrefix = "APPSTRUCT"

// Backend names accepted by the backend setting
const (
	BackendREST   = "rest"
	BackendNotion = "notion"
)

// Config holds resolved settings
type Config struct {
	LogLevel       string
	StorePath      string
	Project        string
	Backend        string
	BaseURL        string
	AppID          string
	Token          string
	NotionToken    string
	NotionFlowsDB  string
	NotionPagesDB  string
	KeyringBackend string

	// File is the config file that was read, if any
	File string
}

var keys = []string{
	"log_level",
	"store_path",
	"project",
	"backend",
	"base_url",
	"app_id",
	"token",
	"notion_token",
	"notion_flows_db",
	"notion_pages_db",
	"keyring_backend",
}

// Dir returns the per-user configuration directory
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "appstruct"), nil
}

// Load reads settings. cfgFile overrides the default config file location;
// a missing default file or .env file is not an error.
func Load(cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "appstruct"))
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	for _, key := range keys {
		v.SetDefault(key, "")
	}
	v.SetDefault("log_level", "info")
	v.SetDefault("store_path", filepath.Join(home, ".local", "share", "appstruct", "store.db"))
	v.SetDefault("backend", BackendREST)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		LogLevel:       v.GetString("log_level"),
		StorePath:      expandHome(v.GetString("store_path"), home),
		Project:        v.GetString("project"),
		Backend:        strings.ToLower(strings.TrimSpace(v.GetString("backend"))),
		BaseURL:        v.GetString("base_url"),
		AppID:          v.GetString("app_id"),
		Token:          v.GetString("token"),
		NotionToken:    v.GetString("notion_token"),
		NotionFlowsDB:  v.GetString("notion_flows_db"),
		NotionPagesDB:  v.GetString("notion_pages_db"),
		KeyringBackend: v.GetString("keyring_backend"),
		File:           v.ConfigFileUsed(),
	}

	logger.Debug("Configuration loaded", map[string]interface{}{
		"config_file": cfg.File,
		"backend":     cfg.Backend,
		"store_path":  cfg.StorePath,
	})
	return cfg, nil
}

// Validate checks that the selected backend has what it needs. Tokens are
// not checked here since they may come from the keyring.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendREST:
		if c.BaseURL == "" {
			return fmt.Errorf("base_url is required for the rest backend (set %s_BASE_URL)", envPrefix)
		}
		if c.AppID == "" {
			return fmt.Errorf("app_id is required for the rest backend (set %s_APP_ID)", envPrefix)
		}
	case BackendNotion:
		if c.NotionFlowsDB == "" || c.NotionPagesDB == "" {
			return fmt.Errorf("notion_flows_db and notion_pages_db are required for the notion backend")
		}
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendREST, BackendNotion)
	}
	return nil
}

// BackendToken returns the configured token for the selected backend
func (c *Config) BackendToken() string {
	if c.Backend == BackendNotion {
		return c.NotionToken
	}
	return c.Token
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
