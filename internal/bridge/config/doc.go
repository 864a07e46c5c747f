// Package config loads the rules and shop file.
//
// The file is YAML with ${VAR} expansion. Loading follows Load, applyDefaults, Validate; the
// validated file is then compiled into a valuation rule set and a shop catalog. Any failure is
// reported as a domain.ConfigurationError so callers can keep their previous state on reload.
package config
