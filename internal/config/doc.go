// Package config loads lockfs configuration.
//
// Sources are applied in order, later ones overriding earlier ones:
// defaults, YAML file, legacy FLET_APP_STORAGE_* environment variables,
// LOCKFS_* environment variables, command-line flags.
package config
