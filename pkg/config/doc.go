// Package config loads gitboot's configuration.
//
// Sources are layered with koanf, later ones winning:
//
//  1. the embedded defaults (embedded/defaults.toml)
//  2. the user file, $XDG_CONFIG_HOME/gitboot/config.toml or --config
//  3. GITBOOT_<SECTION>_<KEY> environment variables
//  4. overrides supplied by the command line
//
// The ssh key location and algorithm are fixed and have no configuration key.
package config
