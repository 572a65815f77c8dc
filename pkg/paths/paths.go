package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/gitboot/pkg/errors"
	"github.com/arthur-debert/gitboot/pkg/types"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for gitboot
	EnvConfigDir = "GITBOOT_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for gitboot
	EnvStateDir = "GITBOOT_STATE_DIR"
)

const (
	// AppDirName is the directory gitboot uses under the XDG base directories
	AppDirName = "gitboot"

	// ConfigFileName is the user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the log file under the state directory
	LogFileName = "gitboot.log"
)

// Paths holds the resolved locations for one run.
type Paths struct {
	configDir string
	stateDir  string
	homeDir   string
}

// New resolves all paths. An empty home falls back to the user's home
// directory.
func New(home string) (*Paths, error) {
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrDirectory, "cannot determine home directory")
		}
	}

	return &Paths{
		configDir: configDirectory(),
		stateDir:  stateDirectory(),
		homeDir:   filepath.Clean(home),
	}, nil
}

// configDirectory returns $GITBOOT_CONFIG_DIR or $XDG_CONFIG_HOME/gitboot.
func configDirectory() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return filepath.Clean(dir)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// stateDirectory returns $GITBOOT_STATE_DIR or $XDG_STATE_HOME/gitboot.
func stateDirectory() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return filepath.Clean(dir)
	}
	return filepath.Join(xdg.StateHome, AppDirName)
}

// ConfigFile returns the user configuration file read when --config is not given.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// LogFile returns the log file path.
func (p *Paths) LogFile() string {
	return filepath.Join(p.stateDir, LogFileName)
}

// KeypairRequest returns the fixed ed25519 key request under the home directory.
func (p *Paths) KeypairRequest() types.KeypairRequest {
	return types.DefaultKeypairRequest(p.homeDir)
}
