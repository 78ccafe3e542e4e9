// Package config loads q2usage settings from layered TOML files and the
// environment.
//
// Layers are applied in order, later ones winning:
//
//  1. the embedded defaults (embedded/defaults.toml)
//  2. the user config, $XDG_CONFIG_HOME/q2usage/config.toml
//  3. the project config, .q2usage.toml in the working directory
//  4. Q2USAGE_SECTION_KEY environment variables
//  5. explicit overrides, usually from command-line flags
package config
