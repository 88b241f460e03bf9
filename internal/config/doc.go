// Package config loads and validates arbor.json project configuration.
//
// Configuration is optional. Every field has a sensible default, so
// Load returns a usable Config even when no file exists.
package config
