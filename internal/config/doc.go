// Package config provides user configuration management for godewarmte.
//
// This package manages a YAML-based configuration file that stores
// client-side metadata for DeWarmte devices (nicknames, bookkeeping) and
// application preferences, plus an environment overlay for credentials.
// The configuration follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/godewarmte/config.yaml or $HOME/.config/godewarmte/config.yaml
//   - macOS: $HOME/.config/godewarmte/config.yaml
//   - Windows: %LOCALAPPDATA%\godewarmte\config.yaml
//
// # Security
//
// IMPORTANT: the account password is NEVER stored in the file. It comes
// from the DEWARMTE_PASSWORD environment variable or an interactive
// prompt. The file stores the account email only as a convenience.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.SetDeviceNickname("f81b...", "Garage heat pump")
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// Loading uses a process-wide singleton; file writes are serialized and
// atomic (write to temp file, then rename).
package config
