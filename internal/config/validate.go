package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMatch() error {
	if c.Match.MaxDeltaSeconds <= 0 {
		return errors.New("match.max_delta_seconds must be positive")
	}
	if c.Match.Workers < 1 {
		return errors.New("match.workers must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
