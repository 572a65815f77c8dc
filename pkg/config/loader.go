package config

import (
	"os"
	"strings"

	"github.com/arthur-debert/gitboot/pkg/errors"
	"github.com/arthur-debert/gitboot/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	tomlenc "github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GITBOOT_"

// sections are the top-level tables environment variables may target.
var sections = map[string]bool{
	"tool":     true,
	"packages": true,
	"identity": true,
	"install":  true,
	"ssh":      true,
	"exec":     true,
	"logging":  true,
}

// LoadOptions selects the user file and command-line overrides.
type LoadOptions struct {
	// File is an explicit config path. It must exist when set.
	File string
	// DefaultFile is read instead of File when File is empty, if it exists.
	DefaultFile string
	// Overrides are dotted keys applied last, e.g. "exec.timeout".
	Overrides map[string]interface{}
}

// Load builds the effective configuration.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User file
	path, explicit := opts.File, opts.File != ""
	if !explicit {
		path = opts.DefaultFile
	}
	if path == "" {
		logger.Debug().Msg("No config file location, using defaults")
	} else if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path).
				WithDetail("path", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	} else if explicit {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s is not readable", path).
			WithDetail("path", path)
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	// 4. Command line
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "invalid configuration")
	}
	return &cfg, nil
}

// envKey maps GITBOOT_SSH_AGENT_SERVICE to ssh.agent_service. Variables
// outside the known sections are ignored.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, rest, ok := strings.Cut(key, "_")
	if !ok || rest == "" || !sections[section] {
		return ""
	}
	return section + "." + rest
}

// Render returns cfg as TOML.
func Render(cfg *Config) ([]byte, error) {
	out, err := tomlenc.Marshal(cfg.toMap())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return out, nil
}
