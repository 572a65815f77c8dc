package config

import (
	"fmt"
	"time"

	"github.com/arthur-debert/gitboot/pkg/identity"
	"github.com/arthur-debert/gitboot/pkg/installer"
	"github.com/arthur-debert/gitboot/pkg/types"
)

// Config is the effective gitboot configuration.
type Config struct {
	Tool     Tool              `koanf:"tool"`
	Packages map[string]string `koanf:"packages"`
	Identity Identity          `koanf:"identity"`
	Install  Install           `koanf:"install"`
	SSH      SSH               `koanf:"ssh"`
	Exec     Exec              `koanf:"exec"`
	Logging  Logging           `koanf:"logging"`
}

// Tool names the executable gitboot installs and verifies.
type Tool struct {
	Name        string   `koanf:"name"`
	VersionArgs []string `koanf:"version_args"`
}

// Identity holds the settings applied next to user.name and user.email.
type Identity struct {
	AutoCRLFWindows string            `koanf:"autocrlf_windows"`
	AutoCRLFPOSIX   string            `koanf:"autocrlf_posix"`
	Color           string            `koanf:"color"`
	// Extra holds additional git settings. Dotted git keys nest as TOML
	// tables, so "init.defaultBranch" and [identity.extra.init] are equivalent.
	Extra map[string]interface{} `koanf:"extra"`
}

// Install controls the installer step.
type Install struct {
	SkipIfPresent bool `koanf:"skip_if_present"`
}

// SSH controls key provisioning.
type SSH struct {
	AgentService    string `koanf:"agent_service"`
	CommentFallback string `koanf:"comment_fallback"`
}

// Exec controls external process execution.
type Exec struct {
	Timeout time.Duration `koanf:"timeout"`
}

// Logging controls the log file sink.
type Logging struct {
	File bool `koanf:"file"`
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Tool.Name == "" {
		return fmt.Errorf("tool.name must not be empty")
	}
	if c.Exec.Timeout < 0 {
		return fmt.Errorf("exec.timeout must not be negative, got %v", c.Exec.Timeout)
	}
	for name := range c.Packages {
		if _, ok := types.ParseManagerKind(name); !ok {
			return fmt.Errorf("packages.%s: unknown package manager", name)
		}
	}
	return nil
}

// InstallerOptions converts the tool and package settings for the installer.
func (c *Config) InstallerOptions() installer.Options {
	pkgs := make(map[types.ManagerKind]string, len(c.Packages))
	for name, id := range c.Packages {
		if kind, ok := types.ParseManagerKind(name); ok && id != "" {
			pkgs[kind] = id
		}
	}
	return installer.Options{
		Tool:        c.Tool.Name,
		VersionArgs: append([]string(nil), c.Tool.VersionArgs...),
		Packages:    pkgs,
	}
}

// IdentityDefaults converts the identity settings for the configurator.
func (c *Config) IdentityDefaults() identity.Defaults {
	d := identity.DefaultDefaults()
	if c.Identity.AutoCRLFWindows != "" {
		d.AutoCRLFWindows = c.Identity.AutoCRLFWindows
	}
	if c.Identity.AutoCRLFPOSIX != "" {
		d.AutoCRLFPOSIX = c.Identity.AutoCRLFPOSIX
	}
	if c.Identity.Color != "" {
		d.Color = c.Identity.Color
	}
	if extra := c.ExtraSettings(); len(extra) > 0 {
		d.Extra = extra
	}
	return d
}

// ExtraSettings flattens identity.extra into git keys and string values.
func (c *Config) ExtraSettings() map[string]string {
	out := make(map[string]string)
	flatten("", c.Identity.Extra, out)
	return out
}

func flatten(prefix string, in map[string]interface{}, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			flatten(key, nested, out)
			continue
		}
		out[key] = fmt.Sprint(v)
	}
}

// toMap returns the configuration in its file layout.
func (c *Config) toMap() map[string]interface{} {
	pkgs := make(map[string]interface{}, len(c.Packages))
	for name, id := range c.Packages {
		pkgs[name] = id
	}
	extra := c.Identity.Extra
	if extra == nil {
		extra = map[string]interface{}{}
	}

	return map[string]interface{}{
		"tool": map[string]interface{}{
			"name":         c.Tool.Name,
			"version_args": c.Tool.VersionArgs,
		},
		"packages": pkgs,
		"identity": map[string]interface{}{
			"autocrlf_windows": c.Identity.AutoCRLFWindows,
			"autocrlf_posix":   c.Identity.AutoCRLFPOSIX,
			"color":            c.Identity.Color,
			"extra":            extra,
		},
		"install": map[string]interface{}{
			"skip_if_present": c.Install.SkipIfPresent,
		},
		"ssh": map[string]interface{}{
			"agent_service":    c.SSH.AgentService,
			"comment_fallback": c.SSH.CommentFallback,
		},
		"exec": map[string]interface{}{
			"timeout": c.Exec.Timeout.String(),
		},
		"logging": map[string]interface{}{
			"file": c.Logging.File,
		},
	}
}
