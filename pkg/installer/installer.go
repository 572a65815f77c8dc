// Package installer installs the target developer tool with the first
// available package manager and verifies it is usable afterwards.
package installer

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/gitboot/pkg/errors"
	"github.com/arthur-debert/gitboot/pkg/logging"
	"github.com/arthur-debert/gitboot/pkg/platform"
	"github.com/arthur-debert/gitboot/pkg/runner"
	"github.com/arthur-debert/gitboot/pkg/types"
	"github.com/rs/zerolog"
)

// Options configures what gets installed.
type Options struct {
	// Tool is the executable that must be on PATH afterwards.
	Tool string
	// VersionArgs are passed to Tool for the verification check.
	VersionArgs []string
	// Packages maps each manager to its package id; missing entries fall back to Tool.
	Packages map[types.ManagerKind]string
}

// Installer runs the install strategy for a detected platform.
type Installer struct {
	runner      runner.Runner
	lookup      runner.Lookup
	privilege   PrivilegeChecker
	refreshPath func() error
	opts        Options
	logger      zerolog.Logger
}

// Option customizes an Installer.
type Option func(*Installer)

// WithPrivilegeChecker replaces the system privilege check.
func WithPrivilegeChecker(p PrivilegeChecker) Option {
	return func(i *Installer) { i.privilege = p }
}

// WithPathRefresher replaces the PATH refresh run before verification.
func WithPathRefresher(f func() error) Option {
	return func(i *Installer) { i.refreshPath = f }
}

// New creates an Installer.
func New(r runner.Runner, l runner.Lookup, opts Options, options ...Option) *Installer {
	if opts.Tool == "" {
		opts.Tool = "git"
	}
	if len(opts.VersionArgs) == 0 {
		opts.VersionArgs = []string{"--version"}
	}
	i := &Installer{
		runner:      r,
		lookup:      l,
		privilege:   SystemPrivilege(),
		refreshPath: RefreshPath,
		opts:        opts,
		logger:      logging.GetLogger("installer"),
	}
	for _, o := range options {
		o(i)
	}
	return i
}

// Tool returns the executable being installed.
func (i *Installer) Tool() string {
	return i.opts.Tool
}

// Install installs the tool with the first available manager in the
// platform's priority order and then verifies it.
func (i *Installer) Install(ctx context.Context, p types.PlatformInfo) error {
	done := logging.LogOperationStart(i.logger, "install")
	defer done()

	strategy, found := i.selectStrategy(p)

	var failure string
	switch {
	case found:
		var err error
		failure, err = i.runStrategy(ctx, p.Family, strategy)
		if err != nil {
			return err
		}
	case p.Family == types.OSMacOS:
		i.logger.Warn().Msg("Homebrew not found, falling back to the Xcode command line tools installer")
		i.runOptional(ctx, types.NewCommand(developerToolsStep.Args...))
	default:
		return errors.Newf(errors.ErrNoPackageManager,
			"no supported package manager found for %s (looked for: %s)", p.Family, managerList(p.Family)).
			WithDetail("family", string(p.Family))
	}

	if err := i.refreshPath(); err != nil {
		i.logger.Debug().Err(err).Msg("PATH refresh failed")
	}

	if version, ok := i.Verify(ctx); ok {
		i.logger.Info().Str("tool", i.opts.Tool).Str("version", version).Msg("Install verified")
		return nil
	}

	msg := fmt.Sprintf("%s is still not available on PATH after installation", i.opts.Tool)
	if failure != "" {
		msg = fmt.Sprintf("%s (%s)", msg, failure)
	}
	return errors.New(errors.ErrVerificationFailed, msg).
		WithDetail("tool", i.opts.Tool).
		WithDetail("manager", strategy.Kind.String())
}

// Verify runs the verification check: the tool resolves on PATH and its
// version command exits 0. It returns the reported version.
func (i *Installer) Verify(ctx context.Context) (string, bool) {
	if !runner.Available(i.lookup, i.opts.Tool) {
		return "", false
	}
	argv := append([]string{i.opts.Tool}, i.opts.VersionArgs...)
	res, err := i.runner.Run(ctx, types.NewCommand(argv...))
	if err != nil || !res.Success() {
		return "", false
	}
	return res.StdoutString(), true
}

func (i *Installer) selectStrategy(p types.PlatformInfo) (Strategy, bool) {
	for _, kind := range platform.PriorityOrder(p.Family) {
		if !p.Has(kind) {
			continue
		}
		if s, ok := StrategyFor(kind); ok {
			return s, true
		}
	}
	return Strategy{Kind: types.ManagerNone}, false
}

// runStrategy executes the strategy. Privilege problems are returned as
// errors; a failing install step is returned as a description so the
// verification check still decides the outcome.
func (i *Installer) runStrategy(ctx context.Context, family types.OSFamily, s Strategy) (string, error) {
	prefix, err := i.escalation(family, s)
	if err != nil {
		return "", err
	}

	pkg := i.packageFor(s.Kind)
	i.logger.Info().Str("manager", s.Kind.String()).Str("package", pkg).Msg("Installing")

	for _, step := range s.Steps(pkg) {
		argv := append(append([]string{}, prefix...), step.Args...)
		cmd := types.Command{Argv: argv, Interactive: true}

		if step.Optional {
			i.runOptional(ctx, cmd)
			continue
		}

		res, err := i.runner.Run(ctx, cmd)
		if err != nil {
			i.logger.Warn().Err(err).Str("command", cmd.String()).Msg("Install command could not be started")
			return fmt.Sprintf("%s could not be started: %v", step.Args[0], err), nil
		}
		if !res.Success() {
			i.logger.Warn().Int("exitCode", res.ExitCode).Str("command", cmd.String()).Msg("Install command failed")
			return fmt.Sprintf("%s exited with status %d", step.Args[0], res.ExitCode), nil
		}
	}
	return "", nil
}

func (i *Installer) runOptional(ctx context.Context, cmd types.Command) {
	cmd.Interactive = true
	res, err := i.runner.Run(ctx, cmd)
	if err != nil || !res.Success() {
		i.logger.Warn().Err(err).Int("exitCode", res.ExitCode).Str("command", cmd.String()).Msg("Best-effort step failed, continuing")
	}
}

// escalation returns the argv prefix needed to run s with enough privilege.
func (i *Installer) escalation(family types.OSFamily, s Strategy) ([]string, error) {
	if !s.NeedsRoot {
		return nil, nil
	}

	elevated, err := i.privilege.IsElevated()
	if err != nil {
		i.logger.Debug().Err(err).Msg("Privilege check failed, assuming not elevated")
		elevated = false
	}
	if elevated {
		return nil, nil
	}

	if family == types.OSWindows {
		return nil, errors.Newf(errors.ErrInsufficientPrivilege,
			"%s requires an administrator shell", s.Kind).
			WithDetail("manager", s.Kind.String())
	}

	if runner.Available(i.lookup, "sudo") {
		return []string{"sudo"}, nil
	}
	return nil, errors.Newf(errors.ErrInsufficientPrivilege,
		"%s must run as root and sudo is not available", s.Kind).
		WithDetail("manager", s.Kind.String())
}

func (i *Installer) packageFor(kind types.ManagerKind) string {
	if pkg, ok := i.opts.Packages[kind]; ok && pkg != "" {
		return pkg
	}
	return i.opts.Tool
}

func managerList(family types.OSFamily) string {
	order := platform.PriorityOrder(family)
	if len(order) == 0 {
		return "none supported"
	}
	names := make([]string, len(order))
	for i, k := range order {
		names[i] = k.Binary()
	}
	return strings.Join(names, ", ")
}
