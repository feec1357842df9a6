// Package config loads photowall's TOML configuration.
//
// # Resolution
//
// Load follows this order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/photowall/config.toml
//  3. If the file doesn't exist, return Default()
//  4. If fields are missing, empty or non-positive, keep the default
//
// Durations are written as seconds and may be fractional:
//
//	poll_interval = 10
//	reveal_duration = 0.6
//	settle_duration = 5
//
// Paths beginning with ~ are expanded against the user's home directory and
// made absolute.
//
// # Errors
//
// A missing file is not an error. Unreadable files, invalid TOML and an
// unrecognized identity policy are returned wrapped ("parse config: ...").
package config
