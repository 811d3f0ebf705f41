// Package config handles loading and parsing nib's configuration file.
//
// # Overview
//
// nib reads a small TOML file, by default ~/.config/nib/config.toml, that
// points it at an Inkwell API and tells it where to keep its session and log
// files. A missing file is not an error: every field has a default.
//
// # Configuration File Format
//
//	api_url = "https://blog.example.com/api/"
//	auth_scheme = "Bearer"
//	page_size = 20
//	session_path = "~/.config/nib/session.toml"
//	log_path = "~/.local/state/nib/nib.log"
//	log_level = "debug"
//	timezone = "Europe/Berlin"
//
// # Defaults
//
//   - api_url: http://127.0.0.1:8000/api/
//   - auth_scheme: Bearer ("Token" for DRF token auth)
//   - page_size: 10, clamped to 1..100
//   - session_path: ~/.config/nib/session.toml
//   - log_path: ~/.local/state/nib/nib.log
//   - log_level: info
//   - timezone: the system zone
//
// Blank values fall back to their defaults. Paths support a leading ~ and are
// returned absolute.
//
// # Time Zone
//
// Schedules are entered and shown as wall-clock minutes. Location returns the
// zone used for that conversion; an unknown zone name falls back to the
// system zone rather than failing startup.
//
// # Error Handling
//
// Load returns an error only when the file exists but cannot be opened, read
// or parsed. Errors are wrapped with context ("parse config: ...").
package config
