// Package config loads, normalizes, and validates credits panel configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the CREDITSPANEL_SERVER
// environment override for the backend address. The Config type gathers the
// backend location, host sandbox paths, transfer naming, polling cadence, and
// generation form defaults in one place.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
