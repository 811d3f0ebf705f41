package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures nib's settings.
type Config struct {
	APIURL      string
	AuthScheme  string
	PageSize    int
	SessionPath string
	LogPath     string
	LogLevel    string
	Timezone    string
}

const (
	defaultConfigPath  = "~/.config/nib/config.toml"
	defaultAPIURL      = "http://127.0.0.1:8000/api/"
	defaultAuthScheme  = "Bearer"
	defaultPageSize    = 10
	maxPageSize        = 100
	defaultSessionPath = "~/.config/nib/session.toml"
	defaultLogPath     = "~/.local/state/nib/nib.log"
	defaultLogLevel    = "info"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:      defaultAPIURL,
		AuthScheme:  defaultAuthScheme,
		PageSize:    defaultPageSize,
		SessionPath: mustExpand(defaultSessionPath),
		LogPath:     mustExpand(defaultLogPath),
		LogLevel:    defaultLogLevel,
	}
}

// Load locates and parses the nib config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL      string `toml:"api_url"`
		AuthScheme  string `toml:"auth_scheme"`
		PageSize    int    `toml:"page_size"`
		SessionPath string `toml:"session_path"`
		LogPath     string `toml:"log_path"`
		LogLevel    string `toml:"log_level"`
		Timezone    string `toml:"timezone"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIURL = orDefault(raw.APIURL, defaultAPIURL)
	cfg.AuthScheme = orDefault(raw.AuthScheme, defaultAuthScheme)
	cfg.PageSize = clampPageSize(raw.PageSize)
	cfg.SessionPath = mustExpand(orDefault(raw.SessionPath, defaultSessionPath))
	cfg.LogPath = mustExpand(orDefault(raw.LogPath, defaultLogPath))
	cfg.LogLevel = strings.ToLower(orDefault(raw.LogLevel, defaultLogLevel))
	cfg.Timezone = strings.TrimSpace(raw.Timezone)

	return cfg, nil
}

// Location resolves Timezone. Blank or unknown names use the system zone.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func clampPageSize(n int) int {
	switch {
	case n <= 0:
		return defaultPageSize
	case n > maxPageSize:
		return maxPageSize
	default:
		return n
	}
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
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
