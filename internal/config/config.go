// Package config loads bot settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no config path is given. It may be absent.
const DefaultPath = "facility-locator.yaml"

// Config holds every setting the bot and CLI need.
type Config struct {
	Token              string  `yaml:"token"`
	DBPath             string  `yaml:"dbPath"`
	RedisAddr          string  `yaml:"redisAddr"`
	RedisPassword      string  `yaml:"redisPassword"`
	RedisPrefix        string  `yaml:"redisPrefix"`
	CommandPrefix      string  `yaml:"commandPrefix"`
	LogLevel           string  `yaml:"logLevel"`
	LogFormat          string  `yaml:"logFormat"`
	OwnerIDs           []int64 `yaml:"ownerIds"`
	ListTitle          string  `yaml:"listTitle"`
	FlowTimeoutSeconds int     `yaml:"flowTimeoutSeconds"`
	LogCapacity        int     `yaml:"logCapacity"`
}

// Defaults returns the settings used for anything the file and environment
// leave unset.
func Defaults() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DBPath:             filepath.Join(home, ".facility-locator", "facilities.db"),
		RedisPrefix:        "facility",
		CommandPrefix:      "!",
		LogLevel:           "info",
		LogFormat:          "json",
		ListTitle:          "Facility List",
		FlowTimeoutSeconds: 180,
		LogCapacity:        100,
	}
}

// FlowTimeout is how long an editor waits for the user before giving up.
func (c Config) FlowTimeout() time.Duration {
	return time.Duration(c.FlowTimeoutSeconds) * time.Second
}

// IsOwner reports whether id may use owner commands.
func (c Config) IsOwner(id int64) bool {
	for _, o := range c.OwnerIDs {
		if o == id {
			return true
		}
	}
	return false
}

// Load reads config from path, falling back to DefaultPath. A missing file
// is only an error when path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Defaults()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("FACILITY_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("COMMAND_PREFIX"); v != "" {
		cfg.CommandPrefix = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("FLOW_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FlowTimeoutSeconds = n
		}
	}
	if v := os.Getenv("OWNER_IDS"); v != "" {
		ids, err := parseIDs(v)
		if err != nil {
			return fmt.Errorf("config: OWNER_IDS: %w", err)
		}
		cfg.OwnerIDs = ids
	}
	return nil
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.DBPath) == "" {
		return errors.New("config: dbPath is required (set in config or FACILITY_DB)")
	}
	if strings.TrimSpace(cfg.CommandPrefix) == "" {
		return errors.New("config: commandPrefix must not be blank")
	}
	switch cfg.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("config: logFormat must be json or console, got %q", cfg.LogFormat)
	}
	if cfg.FlowTimeoutSeconds <= 0 {
		return errors.New("config: flowTimeoutSeconds must be > 0")
	}
	if cfg.LogCapacity <= 0 {
		return errors.New("config: logCapacity must be > 0")
	}
	return nil
}

// RequireToken checks the settings needed to connect to Discord.
func (c Config) RequireToken() error {
	if strings.TrimSpace(c.Token) == "" {
		return errors.New("config: token is required (set in config or DISCORD_TOKEN)")
	}
	return nil
}
