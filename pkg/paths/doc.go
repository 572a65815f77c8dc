// Package paths resolves the locations gitboot reads and writes.
//
// Configuration follows the XDG Base Directory specification through
// github.com/adrg/xdg, so $XDG_CONFIG_HOME and $XDG_STATE_HOME are honored on
// every platform. The ssh key location is fixed under the user's home
// directory and is not configurable.
//
// Environment overrides:
//
//	GITBOOT_CONFIG_DIR  directory holding config.toml
//	GITBOOT_STATE_DIR   directory holding the log file
package paths
