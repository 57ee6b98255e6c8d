// Package config handles configuration management for saveswap.
// It layers embedded TOML defaults, an optional user TOML file,
// SAVESWAP_* environment variables and command-line overrides, then
// decodes the result into a Config that is threaded through the rest
// of the program.
package config
