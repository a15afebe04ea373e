package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"dev/bravebird/browser-launcher/pkg/view"
)

// Defaults
const (
	DefaultPollInterval   = time.Second
	DefaultAutomationAddr = "127.0.0.1:9515"
	DefaultLogLevel       = "info"
)

// Config holds everything the launcher needs to start
type Config struct {
	// From the command line
	CtrlFilePath string
	Maximized    bool
	Automation   bool
	Watch        bool

	// From the environment
	ChromeBin      string
	Headless       bool
	AutomationAddr string
	MySQLDSN       string
	LogLevel       string
	PollInterval   time.Duration

	Width  int
	Height int
}

// FromEnv returns a Config with environment-derived fields populated and defaults applied
func FromEnv() (*Config, error) {
	cfg := &Config{
		ChromeBin:      os.Getenv("CHROME_BIN"),
		AutomationAddr: getEnvOrDefault("AUTOMATION_ADDR", DefaultAutomationAddr),
		MySQLDSN:       os.Getenv("MYSQL_DSN"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", DefaultLogLevel),
		PollInterval:   DefaultPollInterval,
		Width:          view.DefaultWidth,
		Height:         view.DefaultHeight,
	}

	if v := os.Getenv("HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid HEADLESS value %q: %w", v, err)
		}
		cfg.Headless = headless
	}

	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid POLL_INTERVAL value %q: %w", v, err)
		}
		cfg.PollInterval = d
	}

	return cfg, nil
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	if c.CtrlFilePath == "" {
		return errors.New("control file path is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Width, c.Height)
	}
	if c.Automation && c.AutomationAddr == "" {
		return errors.New("automation address is required in automation mode")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
