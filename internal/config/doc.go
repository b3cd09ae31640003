// Package config provides configuration structures and utilities for the
// instantreview CLI. It defines the run options populated from flags, the
// optional YAML configuration file with per-issue overrides, and the XDG
// directory helpers used for run-history storage.
package config
