// Package config loads the dashboard server configuration.
//
// # Configuration Sources
//
// Values are resolved in increasing order of precedence:
//
//  1. Default() values
//  2. An optional YAML file (config.yaml, configs/config.yaml, or STOCKDASH_CONFIG_FILE)
//  3. STOCKDASH_* environment variables
//
// # Environment Variables
//
// Nested sections map to underscore-joined names:
//
//	STOCKDASH_SERVER_PORT=8080
//	STOCKDASH_UPLOAD_MAX_BYTES=33554432
//	STOCKDASH_DATASETS_TTL=30m
//	STOCKDASH_DASHBOARD_CURRENCY=USD
//	STOCKDASH_DASHBOARD_MOVING_AVERAGE_WINDOWS=50,200
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
