package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/handiism/bandcamp-explorer/internal/bandcamp"
	"github.com/handiism/bandcamp-explorer/internal/export"
	"github.com/handiism/bandcamp-explorer/internal/http"
	"github.com/handiism/bandcamp-explorer/internal/logger"
	"github.com/handiism/bandcamp-explorer/internal/search"
	"github.com/handiism/bandcamp-explorer/internal/workpool"
)

// EnvPrefix prefixes environment overrides, e.g. BCEXPLORER_MAX_ATTEMPTS.
const EnvPrefix = "BCEXPLORER"

// Settings holds all configuration options.
type Settings struct {
	// Connection settings
	SiteURL           string        `mapstructure:"site_url"`
	UserAgent         string        `mapstructure:"user_agent"`
	ConnectTimeout    time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	MaxRedirects      int           `mapstructure:"max_redirects"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`

	// Search settings
	Workers     int           `mapstructure:"workers"`
	Cooldown    time.Duration `mapstructure:"cooldown"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	ArtworkSize int           `mapstructure:"artwork_size"`
	DefaultSort string        `mapstructure:"default_sort"`

	// Export settings
	PlaylistFormat string `mapstructure:"playlist_format"` // m3u, pls
	M3UExtended    bool   `mapstructure:"m3u_extended"`
	ExportDir      string `mapstructure:"export_dir"`
	TagPreviews    bool   `mapstructure:"tag_previews"`
	CoverMaxSize   int    `mapstructure:"cover_max_size"`

	// API server
	Listen string `mapstructure:"listen"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		SiteURL:        bandcamp.DefaultSiteURL,
		UserAgent:      "BandcampExplorer",
		ConnectTimeout: 60 * time.Second,
		ReadTimeout:    60 * time.Second,
		MaxRedirects:   10,

		Workers:     workpool.DefaultSize,
		Cooldown:    5 * time.Second,
		MaxAttempts: 4,
		ArtworkSize: bandcamp.DefaultArtworkSize,
		DefaultSort: search.SortPublishDateDesc.String(),

		PlaylistFormat: "m3u",
		M3UExtended:    true,
		ExportDir:      filepath.Join(homeDir, "Music", "Bandcamp Previews"),
		TagPreviews:    true,
		CoverMaxSize:   500,

		Listen: "127.0.0.1:8420",

		LogLevel:  "info",
		LogFormat: "text",
	}
}

// DefaultDir returns the directory searched for config.yaml.
func DefaultDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "bandcamp-explorer")
	default:
		if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
			return filepath.Join(dir, "bandcamp-explorer")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "bandcamp-explorer")
	}
}

// keys maps every setting to its current value, used for defaults and saving.
func (s *Settings) keys() map[string]any {
	return map[string]any{
		"site_url":            s.SiteURL,
		"user_agent":          s.UserAgent,
		"connect_timeout":     s.ConnectTimeout.String(),
		"read_timeout":        s.ReadTimeout.String(),
		"max_redirects":       s.MaxRedirects,
		"requests_per_second": s.RequestsPerSecond,
		"workers":             s.Workers,
		"cooldown":            s.Cooldown.String(),
		"max_attempts":        s.MaxAttempts,
		"artwork_size":        s.ArtworkSize,
		"default_sort":        s.DefaultSort,
		"playlist_format":     s.PlaylistFormat,
		"m3u_extended":        s.M3UExtended,
		"export_dir":          s.ExportDir,
		"tag_previews":        s.TagPreviews,
		"cover_max_size":      s.CoverMaxSize,
		"listen":              s.Listen,
		"log_level":           s.LogLevel,
		"log_format":          s.LogFormat,
	}
}

// Load reads settings from path, or from config.yaml in DefaultDir when
// path is empty. A missing file yields the defaults. Environment variables
// prefixed with EnvPrefix override file values.
func Load(path string) (*Settings, error) {
	v := viper.New()

	for key, value := range DefaultSettings().keys() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return settings, nil
}

// Save writes settings to path. The format follows the file extension.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	for key, value := range s.keys() {
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration and returns detailed errors
func (s *Settings) Validate() error {
	var errs []string

	if u, err := url.Parse(s.SiteURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Sprintf("site_url must be an http(s) URL, got: %q", s.SiteURL))
	}
	if s.ConnectTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("connect_timeout must be positive, got: %v", s.ConnectTimeout))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("read_timeout must be positive, got: %v", s.ReadTimeout))
	}
	if s.MaxRedirects < 0 {
		errs = append(errs, fmt.Sprintf("max_redirects cannot be negative, got: %d", s.MaxRedirects))
	}
	if s.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Sprintf("requests_per_second cannot be negative, got: %v", s.RequestsPerSecond))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Sprintf("workers must be at least 1, got: %d", s.Workers))
	}
	if s.Cooldown < 0 {
		errs = append(errs, fmt.Sprintf("cooldown cannot be negative, got: %v", s.Cooldown))
	}
	if s.MaxAttempts < 0 {
		errs = append(errs, fmt.Sprintf("max_attempts cannot be negative, got: %d", s.MaxAttempts))
	}
	if s.ArtworkSize < 0 {
		errs = append(errs, fmt.Sprintf("artwork_size cannot be negative, got: %d", s.ArtworkSize))
	}
	if _, err := search.ParseSortBy(s.DefaultSort); err != nil {
		errs = append(errs, fmt.Sprintf("default_sort must be one of: %s, got: %s", strings.Join(search.SortNames(), ", "), s.DefaultSort))
	}
	if _, err := export.ParsePlaylistFormat(s.PlaylistFormat); err != nil {
		errs = append(errs, fmt.Sprintf("playlist_format must be one of: m3u, pls, got: %s", s.PlaylistFormat))
	}
	if s.CoverMaxSize < 0 {
		errs = append(errs, fmt.Sprintf("cover_max_size cannot be negative, got: %d", s.CoverMaxSize))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(s.LogLevel)] {
		errs = append(errs, fmt.Sprintf("log_level must be one of: debug, info, warn, error, got: %s", s.LogLevel))
	}
	validLogFormats := map[string]bool{"text": true, "json": true}
	if !validLogFormats[strings.ToLower(s.LogFormat)] {
		errs = append(errs, fmt.Sprintf("log_format must be one of: text, json, got: %s", s.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ToClientConfig converts settings to http.ClientConfig.
func (s *Settings) ToClientConfig() http.ClientConfig {
	return http.ClientConfig{
		ConnectTimeout:    s.ConnectTimeout,
		ReadTimeout:       s.ReadTimeout,
		MaxRedirects:      s.MaxRedirects,
		UserAgent:         s.UserAgent,
		RequestsPerSecond: s.RequestsPerSecond,
	}
}

// ToSearchConfig converts settings to search.Config.
func (s *Settings) ToSearchConfig() search.Config {
	return search.Config{
		SiteURL:     s.SiteURL,
		Cooldown:    s.Cooldown,
		MaxAttempts: s.MaxAttempts,
	}
}

// ToLoggerConfig converts settings to logger.Config.
func (s *Settings) ToLoggerConfig() logger.Config {
	return logger.Config{
		Level:  strings.ToLower(s.LogLevel),
		Format: strings.ToLower(s.LogFormat),
	}
}

// ToExportConfig converts settings to export.Config.
func (s *Settings) ToExportConfig() export.Config {
	format, _ := export.ParsePlaylistFormat(s.PlaylistFormat)
	return export.Config{
		Dir:            s.ExportDir,
		PlaylistFormat: format,
		M3UExtended:    s.M3UExtended,
		TagPreviews:    s.TagPreviews,
		CoverMaxSize:   s.CoverMaxSize,
	}
}

// Sort returns the configured default sort order.
func (s *Settings) Sort() search.SortBy {
	sort, _ := search.ParseSortBy(s.DefaultSort)
	return sort
}
