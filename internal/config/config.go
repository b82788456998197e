// Package config loads server settings from, in increasing priority:
// built-in defaults, an optional YAML file, a .env file and the process
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/HendryAvila/plane-mcp/internal/logging"
)

// Defaults.
const (
	DefaultBaseURL   = "https://plane.mobelaris.com/api/v1"
	DefaultWorkspace = "soundboxstore"
	DefaultTimeout   = 30 * time.Second
	DefaultLogLevel  = "info"

	configName = "plane-mcp"
)

// Config holds everything the server needs at startup.
type Config struct {
	BaseURL      string
	Workspace    string
	APIKey       string // may be empty; Plane calls then fail with an authentication error
	Timeout      time.Duration
	ProjectsFile string // empty means the embedded project table
	LogLevel     string
	Journal      JournalConfig
}

// JournalConfig controls the local activity journal.
type JournalConfig struct {
	Enabled bool
	Dir     string
}

// Options tells Load where to look besides the environment.
type Options struct {
	// ConfigFile is an explicit YAML file. When empty, plane-mcp.yaml is
	// looked up in the working directory and in ~/.plane-mcp, and a missing
	// file is fine.
	ConfigFile string
	// EnvFile defaults to ".env". A missing file is ignored.
	EnvFile string
}

// envBindings maps config keys to environment variables.
var envBindings = map[string]string{
	"base_url":        "PLANE_BASE_URL",
	"workspace":       "PLANE_WORKSPACE",
	"api_key":         "PLANE_API_KEY",
	"timeout":         "PLANE_TIMEOUT",
	"projects_file":   "PLANE_PROJECTS_FILE",
	"log_level":       "PLANE_LOG_LEVEL",
	"journal.enabled": "PLANE_JOURNAL_ENABLED",
	"journal.dir":     "PLANE_JOURNAL_DIR",
}

// Load resolves the configuration and validates it.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// Existing environment variables win over the file.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	home, _ := os.UserHomeDir()

	v := viper.New()
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("workspace", DefaultWorkspace)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.dir", filepath.Join(home, ".plane-mcp"))

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	configFile := opts.ConfigFile
	if configFile == "" {
		homeDir := ""
		if home != "" {
			homeDir = filepath.Join(home, ".plane-mcp")
		}
		configFile = discoverConfigFile(".", homeDir)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		BaseURL:      strings.TrimRight(strings.TrimSpace(v.GetString("base_url")), "/"),
		Workspace:    strings.TrimSpace(v.GetString("workspace")),
		APIKey:       strings.TrimSpace(v.GetString("api_key")),
		Timeout:      v.GetDuration("timeout"),
		ProjectsFile: expandHome(v.GetString("projects_file"), home),
		LogLevel:     strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		Journal: JournalConfig{
			Enabled: v.GetBool("journal.enabled"),
			Dir:     expandHome(v.GetString("journal.dir"), home),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing or malformed setting at once.
func (c *Config) Validate() error {
	var problems []string
	if c.BaseURL == "" {
		problems = append(problems, "base_url (PLANE_BASE_URL) is required")
	} else if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		problems = append(problems, "base_url must start with http:// or https://")
	}
	if c.Workspace == "" {
		problems = append(problems, "workspace (PLANE_WORKSPACE) is required")
	}
	if c.Timeout <= 0 {
		problems = append(problems, "timeout must be positive")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Journal.Enabled && c.Journal.Dir == "" {
		problems = append(problems, "journal.dir is required when the journal is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// discoverConfigFile returns the first plane-mcp.yaml found in dirs, or "".
// Only the exact file name matches, so the extensionless plane-mcp binary
// sitting in its build directory is never read as config.
func discoverConfigFile(dirs ...string) string {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, configName+".yaml")
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

func expandHome(path, home string) string {
	path = strings.TrimSpace(path)
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
