// Package config loads the dashboard configuration.
//
// # Configuration Sources
//
// Values are resolved in increasing order of precedence:
//
//  1. Defaults (see Default)
//  2. A YAML file: $SCD_CONFIG_FILE, ./config.yaml or ./configs/config.yaml
//  3. Environment variables, optionally seeded from a .env file
//
// # Environment Variables
//
// Variables use the SCD_ prefix followed by the section and field name:
//
//	SCD_SERVER_PORT=8080
//	SCD_DATA_WORKBOOK_PATH=/srv/data/supplaychain.xlsx
//	SCD_DATA_RELOAD_SCHEDULE="*/15 * * * *"
//	SCD_LOGGING_FORMAT=text
//	SCD_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Validation
//
// Load rejects out-of-range ports, non-positive timeouts, an empty workbook
// path, unknown log formats and cron specs that do not parse.
package config
