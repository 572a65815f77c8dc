// Package identity applies the user's git identity and platform defaults to
// the global configuration store.
package identity

import (
	"context"
	"sort"

	"github.com/arthur-debert/gitboot/pkg/errors"
	"github.com/arthur-debert/gitboot/pkg/logging"
	"github.com/arthur-debert/gitboot/pkg/types"
	"github.com/rs/zerolog"
)

// Configuration keys written by the configurator.
const (
	KeyUserName  = "user.name"
	KeyUserEmail = "user.email"
	KeyAutoCRLF  = "core.autocrlf"
	KeyColorUI   = "color.ui"
)

// Defaults are the platform settings applied on every run.
type Defaults struct {
	AutoCRLFWindows string
	AutoCRLFPOSIX   string
	Color           string
	// Extra holds additional global settings (e.g. init.defaultBranch).
	Extra map[string]string
}

// DefaultDefaults returns the stock platform settings.
func DefaultDefaults() Defaults {
	return Defaults{
		AutoCRLFWindows: "true",
		AutoCRLFPOSIX:   "input",
		Color:           "auto",
	}
}

// Change records one key the configurator looked at.
type Change struct {
	Key string
	Old string
	New string
	// Applied is false when the stored value already matched.
	Applied bool
}

// Configurator writes identity and defaults to a ConfigStore.
type Configurator struct {
	store    ConfigStore
	family   types.OSFamily
	defaults Defaults
	logger   zerolog.Logger
}

// NewConfigurator creates a Configurator for the given platform family.
func NewConfigurator(store ConfigStore, family types.OSFamily, defaults Defaults) *Configurator {
	return &Configurator{
		store:    store,
		family:   family,
		defaults: defaults,
		logger:   logging.GetLogger("identity"),
	}
}

// Current returns the stored value for key, or "" when unset or unreadable.
func (c *Configurator) Current(ctx context.Context, key string) string {
	v, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("Could not read current value")
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

// Configure applies id and the platform defaults. Blank identity fields
// leave existing values untouched; values that already match are not
// rewritten, so repeated runs converge to the same configuration.
func (c *Configurator) Configure(ctx context.Context, id types.Identity) ([]Change, error) {
	done := logging.LogOperationStart(c.logger, "configure identity")
	defer done()

	id = id.Normalized()
	var changes []Change

	for _, kv := range c.desired(id) {
		change, err := c.apply(ctx, kv[0], kv[1])
		if err != nil {
			return changes, err
		}
		changes = append(changes, change)
	}
	return changes, nil
}

// desired lists key/value pairs in application order.
func (c *Configurator) desired(id types.Identity) [][2]string {
	var out [][2]string
	if id.Name != "" {
		out = append(out, [2]string{KeyUserName, id.Name})
	} else {
		c.logger.Debug().Msg("No name supplied, leaving user.name untouched")
	}
	if id.Email != "" {
		out = append(out, [2]string{KeyUserEmail, id.Email})
	} else {
		c.logger.Debug().Msg("No email supplied, leaving user.email untouched")
	}

	out = append(out, [2]string{KeyAutoCRLF, c.lineEndings()})
	if c.defaults.Color != "" {
		out = append(out, [2]string{KeyColorUI, c.defaults.Color})
	}

	keys := make([]string, 0, len(c.defaults.Extra))
	for k := range c.defaults.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, [2]string{k, c.defaults.Extra[k]})
	}
	return out
}

func (c *Configurator) lineEndings() string {
	if c.family == types.OSWindows {
		return c.defaults.AutoCRLFWindows
	}
	return c.defaults.AutoCRLFPOSIX
}

func (c *Configurator) apply(ctx context.Context, key, value string) (Change, error) {
	current, isSet, err := c.store.Get(ctx, key)
	if err != nil {
		// Reading is advisory; fall through to an unconditional write
		c.logger.Debug().Err(err).Str("key", key).Msg("Could not read current value")
		isSet = false
	}

	change := Change{Key: key, Old: current, New: value}
	if isSet && current == value {
		c.logger.Debug().Str("key", key).Msg("Already configured")
		return change, nil
	}

	if err := c.store.Set(ctx, key, value); err != nil {
		return change, errors.Wrapf(err, errors.ErrConfigWriteFailed, "failed to set %s", key).
			WithDetail("key", key)
	}
	change.Applied = true
	c.logger.Info().Str("key", key).Str("value", value).Msg("Configured")
	return change, nil
}
