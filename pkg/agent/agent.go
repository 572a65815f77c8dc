// Package agent registers a key with a running SSH agent, starting the
// agent service first when the platform has one. Every failure here is
// reported as AGENT_REGISTRATION_FAILED and is meant to be logged, not
// treated as fatal.
package agent

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/arthur-debert/gitboot/pkg/errors"
	"github.com/arthur-debert/gitboot/pkg/logging"
	"github.com/arthur-debert/gitboot/pkg/runner"
	"github.com/arthur-debert/gitboot/pkg/types"
	"github.com/rs/zerolog"
)

// Registrar adds keys to the SSH agent.
type Registrar struct {
	runner     runner.Runner
	lookup     runner.Lookup
	controller ServiceController
	service    string
	family     types.OSFamily
	getenv     func(string) string
	logger     zerolog.Logger
}

// NewRegistrar creates a Registrar. controller may be nil when the platform
// has no agent service to manage.
func NewRegistrar(family types.OSFamily, r runner.Runner, l runner.Lookup, controller ServiceController, service string) *Registrar {
	if service == "" {
		service = "ssh-agent"
	}
	return &Registrar{
		runner:     r,
		lookup:     l,
		controller: controller,
		service:    service,
		family:     family,
		getenv:     os.Getenv,
		logger:     logging.GetLogger("agent"),
	}
}

// SystemController picks the service controller for family.
func SystemController(family types.OSFamily, r runner.Runner, l runner.Lookup) ServiceController {
	switch family {
	case types.OSWindows:
		return NewSCController(r)
	case types.OSLinux:
		if runner.Available(l, "systemctl") {
			return NewSystemdUserController(r, os.Getenv)
		}
	}
	// macOS: launchd already exports SSH_AUTH_SOCK to login sessions
	return nil
}

// WithGetenv replaces the environment lookup.
func (a *Registrar) WithGetenv(getenv func(string) string) *Registrar {
	a.getenv = getenv
	return a
}

// Register ensures an agent is running and adds keyPath to it.
func (a *Registrar) Register(ctx context.Context, keyPath string) error {
	if !runner.Available(a.lookup, "ssh-add") {
		return errors.New(errors.ErrAgentRegistrationFailed, "ssh-add is not available")
	}

	env, err := a.ensureAgent(ctx)
	if err != nil {
		return err
	}

	res, err := a.runner.Run(ctx, types.Command{Argv: []string{"ssh-add", keyPath}, Env: env})
	if err != nil {
		return errors.Wrap(err, errors.ErrAgentRegistrationFailed, "failed to run ssh-add")
	}
	if !res.Success() {
		return errors.Newf(errors.ErrAgentRegistrationFailed, "ssh-add exited with status %d: %s", res.ExitCode, res.StderrString()).
			WithDetail("exitCode", res.ExitCode)
	}

	a.logger.Info().Str("key", keyPath).Msg("Key added to agent")
	return nil
}

// ensureAgent returns extra environment ssh-add needs to reach the agent.
func (a *Registrar) ensureAgent(ctx context.Context) ([]string, error) {
	if a.family.IsPOSIX() && a.getenv("SSH_AUTH_SOCK") != "" {
		a.logger.Debug().Msg("Using agent from SSH_AUTH_SOCK")
		return nil, nil
	}

	if a.controller != nil {
		started, err := a.ensureService(ctx)
		if err != nil {
			if a.family == types.OSWindows {
				return nil, err
			}
			a.logger.Debug().Err(err).Str("service", a.service).Msg("Agent service unavailable, starting ssh-agent")
			started = false
		}
		if started {
			if src, ok := a.controller.(SocketSource); ok {
				if env := src.AgentEnv(ctx); len(env) > 0 {
					return env, nil
				}
			}
			if a.family == types.OSWindows {
				// ssh-add talks to the service over its named pipe
				return nil, nil
			}
		}
	}

	if a.family == types.OSWindows {
		return nil, errors.Newf(errors.ErrAgentRegistrationFailed,
			"the %s service is not installed (enable the OpenSSH client feature)", a.service)
	}
	return a.spawnAgent(ctx)
}

// ensureService enables and starts the agent service. It reports false
// when the service is not registered on this machine.
func (a *Registrar) ensureService(ctx context.Context) (bool, error) {
	registered, err := a.controller.IsRegistered(ctx, a.service)
	if err != nil {
		a.logger.Debug().Err(err).Str("service", a.service).Msg("Service query failed")
		return false, nil
	}
	if !registered {
		a.logger.Debug().Str("service", a.service).Msg("Agent service not registered")
		return false, nil
	}
	if err := a.controller.Enable(ctx, a.service); err != nil {
		return false, errors.Wrapf(err, errors.ErrAgentRegistrationFailed, "failed to enable %s", a.service)
	}
	if err := a.controller.Start(ctx, a.service); err != nil {
		return false, errors.Wrapf(err, errors.ErrAgentRegistrationFailed, "failed to start %s", a.service)
	}
	a.logger.Info().Str("service", a.service).Msg("Agent service enabled and running")
	return true, nil
}

// spawnAgent starts a standalone ssh-agent and returns its environment.
func (a *Registrar) spawnAgent(ctx context.Context) ([]string, error) {
	if !runner.Available(a.lookup, "ssh-agent") {
		return nil, errors.New(errors.ErrAgentRegistrationFailed, "no running agent and ssh-agent is not available")
	}
	res, err := a.runner.Run(ctx, types.NewCommand("ssh-agent", "-s"))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrAgentRegistrationFailed, "failed to start ssh-agent")
	}
	if !res.Success() {
		return nil, errors.Newf(errors.ErrAgentRegistrationFailed, "ssh-agent exited with status %d", res.ExitCode)
	}

	vars := ParseAgentEnv(string(res.Stdout))
	sock := vars["SSH_AUTH_SOCK"]
	if sock == "" {
		return nil, errors.New(errors.ErrAgentRegistrationFailed, "ssh-agent did not report SSH_AUTH_SOCK")
	}
	env := []string{"SSH_AUTH_SOCK=" + sock}
	if pid := vars["SSH_AGENT_PID"]; pid != "" {
		env = append(env, "SSH_AGENT_PID="+pid)
	}
	a.logger.Info().Str("socket", sock).Str("pid", vars["SSH_AGENT_PID"]).Msg("Started ssh-agent")
	return env, nil
}

// ParseAgentEnv extracts KEY=value assignments from `ssh-agent -s` or
// `systemctl --user show-environment` output.
func ParseAgentEnv(output string) map[string]string {
	vars := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// ssh-agent -s: SSH_AUTH_SOCK=/tmp/ssh-XXX/agent.123; export SSH_AUTH_SOCK;
		if i := strings.Index(line, ";"); i >= 0 {
			line = line[:i]
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			continue
		}
		vars[key] = strings.Trim(value, `"'`)
	}
	return vars
}
