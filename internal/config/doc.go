// Package config loads the gopool command's settings from a YAML or JSON
// file, applies GOPOOL_* environment overrides and validates the result.
package config
