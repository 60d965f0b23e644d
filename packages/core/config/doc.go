// Package config handles configuration loading and management for hitsend.
//
// It provides functionality for:
//   - Loading configuration from .hitsend.json, .hitsend.yaml or .hitsend.toml
//   - Default configuration values
//   - Merging file settings with command-line overrides
package config
