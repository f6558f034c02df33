// Package config provides configuration structures and utilities for valaw.
// It defines the API root, output location, HTTP transport settings, and
// report preferences, and loads them from an optional .valaw YAML file.
package config
