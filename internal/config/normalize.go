package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Lock.Dir) == "" {
		c.Lock.Dir = defaultLockDir()
	}
	if c.Lock.Dir, err = expandPath(strings.TrimSpace(c.Lock.Dir)); err != nil {
		return fmt.Errorf("lock.dir: %w", err)
	}
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	if dir := strings.TrimSpace(c.Logging.Dir); dir != "" {
		if c.Logging.Dir, err = expandPath(dir); err != nil {
			return fmt.Errorf("logging.dir: %w", err)
		}
	} else {
		c.Logging.Dir = ""
	}
	return nil
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
