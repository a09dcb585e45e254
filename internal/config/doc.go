// Package config provides configuration management for bandcamp-explorer.
//
// This package handles:
//   - Loading settings from YAML, JSON or TOML files through viper
//   - Environment overrides such as BCEXPLORER_MAX_ATTEMPTS=2
//   - Default configuration values and validation
//   - Conversion to the configs of the http, search, logger and export packages
//
// # Loading
//
//	settings, err := config.Load("") // $XDG_CONFIG_HOME/bandcamp-explorer/config.yaml
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := settings.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// Durations are written the Go way: "60s", "1m30s".
//
// # Saving
//
//	settings.MaxAttempts = 2
//	err := settings.Save("/path/to/config.yaml")
package config
