// Package config handles configuration loading for streakd.
//
// # Overview
//
// Configuration is loaded from a YAML file with environment variable
// expansion and validation.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from STREAKD_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/streakd/streakd.yaml
//  3. ~/.config/streakd/streakd.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	storage:
//	  data_dir: "${STREAKD_DATA_DIR}"
//
// # Configuration Sections
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
//	storage:
//	  data_dir: "/var/lib/streakd"
//
//	backup:
//	  enabled: true
//	  dir: "/var/lib/streakd/backups"
//	  interval: "6h"
//
//	selfping:
//	  enabled: false
//	  url: "http://localhost:8080/api/health"
//	  interval: "10m"
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// Duration values use Go's time.ParseDuration syntax.
package config
