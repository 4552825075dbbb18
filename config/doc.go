// Package config handles loading and parsing of configuration from YAML files
// and environment variables. It defines the application configuration structure
// including server settings, the upstream Places API endpoint and key, detail
// fetch concurrency, and the metrics listener.
package config
