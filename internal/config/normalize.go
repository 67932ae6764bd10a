package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error

	c.Paths.HistoryFile = strings.TrimSpace(c.Paths.HistoryFile)
	if c.Paths.HistoryFile == "" {
		if value, ok := os.LookupEnv("GEOMATCH_HISTORY"); ok {
			c.Paths.HistoryFile = strings.TrimSpace(value)
		}
	}
	if c.Paths.HistoryFile != "" {
		if c.Paths.HistoryFile, err = expandPath(c.Paths.HistoryFile); err != nil {
			return fmt.Errorf("paths.history_file: %w", err)
		}
	}

	c.Paths.ManifestFile = strings.TrimSpace(c.Paths.ManifestFile)
	if c.Paths.ManifestFile != "" {
		if c.Paths.ManifestFile, err = expandPath(c.Paths.ManifestFile); err != nil {
			return fmt.Errorf("paths.manifest_file: %w", err)
		}
	}

	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}

	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	return nil
}

func (c *Config) normalizeMatch() {
	if c.Match.MaxDeltaSeconds == 0 {
		c.Match.MaxDeltaSeconds = defaultMaxDeltaSeconds
	}
	if c.Match.Workers == 0 {
		c.Match.Workers = defaultWorkers
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
