// Package config resolves PIX credentials and endpoint settings.
//
// Settings come from an optional TOML file (~/.config/pix/config.toml by
// default) with environment variables layered on top: PIX_API_URL,
// PIX_APP_KEY, PIX_USERNAME and PIX_PASSWORD always win over file values.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config carries everything a session needs to reach the PIX API.
type Config struct {
	APIURL   string
	AppKey   string
	Username string
	Password string
}

const defaultConfigPath = "~/.config/pix/config.toml"

// Environment variable names, matching the original client so existing
// pipeline setups keep working.
const (
	EnvAPIURL   = "PIX_API_URL"
	EnvAppKey   = "PIX_APP_KEY"
	EnvUsername = "PIX_USERNAME"
	EnvPassword = "PIX_PASSWORD"
)

// Load reads the config file at path (default location when empty) and
// applies environment overrides. A missing file is not an error; missing
// credentials surface later through Validate.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config

	file, err := os.Open(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
	} else {
		defer func() { _ = file.Close() }()

		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}

		var raw struct {
			APIURL   string `toml:"api_url"`
			AppKey   string `toml:"app_key"`
			Username string `toml:"username"`
			Password string `toml:"password"`
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		cfg = Config{
			APIURL:   strings.TrimSpace(raw.APIURL),
			AppKey:   strings.TrimSpace(raw.AppKey),
			Username: strings.TrimSpace(raw.Username),
			Password: raw.Password,
		}
	}

	return cfg.withEnv(), nil
}

// FromEnv builds a Config from environment variables alone.
func FromEnv() Config {
	return Config{}.withEnv()
}

func (c Config) withEnv() Config {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvAppKey); v != "" {
		c.AppKey = v
	}
	if v := os.Getenv(EnvUsername); v != "" {
		c.Username = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		c.Password = v
	}
	return c
}

// Validate reports every missing credential by name in one error.
func (c Config) Validate() error {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"api_url", c.APIURL},
		{"app_key", c.AppKey},
		{"username", c.Username},
		{"password", c.Password},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing login credentials: %s", strings.Join(missing, ", "))
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
