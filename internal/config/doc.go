// Package config provides 12-factor configuration management for ipcmond.
//
// Configuration is loaded from environment variables with sensible
// defaults; an optional YAML file can overlay the result for deployments
// that ship a config file instead of an environment.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - IPC: device identity, allow-list, shared-memory geometry
//   - Monitor: sampler period and counter reset policy
//   - Logging: log level and output format
//   - RateLimit: per-IP rate limiting configuration
//
// Environment Variables:
//   - PORT, HOST
//   - IPC_TARGET_DEVICE, IPC_ALLOWED_UIDS, IPC_PAGE_SIZE, IPC_PAGES_MAPPED
//   - MONITOR_SAMPLE_PERIOD, MONITOR_RESET_ALL
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
