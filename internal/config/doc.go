// Package config loads shelf's settings from a TOML file.
//
// The file lives at ~/.config/shelf/config.toml unless a path is given. A
// missing file is not an error; every key has a default:
//
//	api_url         = "http://localhost:5000"   # REST root, /api/products is appended
//	request_timeout = "5s"                      # per-request HTTP timeout
//	poll_interval   = "0s"                      # background refresh, 0 disables
//	log_path        = "~/.local/state/shelf/shelf.log"
//	log_level       = "info"                    # debug, info, warn, error
//
// Durations use Go syntax ("1500ms", "30s"). Paths starting with ~ are
// expanded against the user's home directory. Malformed TOML or an invalid
// duration fails Load with an error mentioning "parse config".
package config
