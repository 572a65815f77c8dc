package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/gitboot/pkg/runner"
	"github.com/arthur-debert/gitboot/pkg/types"
)

// ServiceController enables and starts a named background service.
type ServiceController interface {
	IsRegistered(ctx context.Context, name string) (bool, error)
	Enable(ctx context.Context, name string) error
	Start(ctx context.Context, name string) error
}

// SocketSource is implemented by controllers that know where the agent
// they started is listening.
type SocketSource interface {
	AgentEnv(ctx context.Context) []string
}

// sc.exe exit codes.
const (
	scServiceDoesNotExist = 1060
	scAlreadyRunning      = 1056
)

// SCController manages Windows services with sc.exe.
type SCController struct {
	runner runner.Runner
}

// NewSCController creates a Windows service controller.
func NewSCController(r runner.Runner) *SCController {
	return &SCController{runner: r}
}

// IsRegistered implements ServiceController.
func (c *SCController) IsRegistered(ctx context.Context, name string) (bool, error) {
	res, err := c.runner.Run(ctx, types.NewCommand("sc.exe", "query", name))
	if err != nil {
		return false, err
	}
	switch res.ExitCode {
	case 0:
		return true, nil
	case scServiceDoesNotExist:
		return false, nil
	default:
		return false, fmt.Errorf("sc.exe query %s exited with status %d", name, res.ExitCode)
	}
}

// Enable implements ServiceController by setting the start type to automatic.
func (c *SCController) Enable(ctx context.Context, name string) error {
	return c.run(ctx, "config", name, "start=", "auto")
}

// Start implements ServiceController. An already running service is fine.
func (c *SCController) Start(ctx context.Context, name string) error {
	res, err := c.runner.Run(ctx, types.NewCommand("sc.exe", "start", name))
	if err != nil {
		return err
	}
	if res.Success() || res.ExitCode == scAlreadyRunning {
		return nil
	}
	return fmt.Errorf("sc.exe start %s exited with status %d", name, res.ExitCode)
}

func (c *SCController) run(ctx context.Context, args ...string) error {
	res, err := c.runner.Run(ctx, types.NewCommand(append([]string{"sc.exe"}, args...)...))
	if err != nil {
		return err
	}
	if !res.Success() {
		return fmt.Errorf("sc.exe %s exited with status %d: %s", strings.Join(args, " "), res.ExitCode, res.StdoutString())
	}
	return nil
}

// SystemdUserController manages systemd user units.
type SystemdUserController struct {
	runner runner.Runner
	getenv func(string) string
}

// NewSystemdUserController creates a controller for `systemctl --user`.
func NewSystemdUserController(r runner.Runner, getenv func(string) string) *SystemdUserController {
	return &SystemdUserController{runner: r, getenv: getenv}
}

func unitName(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return name + ".service"
}

// IsRegistered implements ServiceController.
func (c *SystemdUserController) IsRegistered(ctx context.Context, name string) (bool, error) {
	res, err := c.runner.Run(ctx, types.NewCommand("systemctl", "--user", "list-unit-files", unitName(name), "--no-legend"))
	if err != nil {
		return false, err
	}
	return res.Success() && res.StdoutString() != "", nil
}

// Enable implements ServiceController.
func (c *SystemdUserController) Enable(ctx context.Context, name string) error {
	return c.run(ctx, "enable", unitName(name))
}

// Start implements ServiceController.
func (c *SystemdUserController) Start(ctx context.Context, name string) error {
	return c.run(ctx, "start", unitName(name))
}

// AgentEnv implements SocketSource. Units that export SSH_AUTH_SOCK into the
// user manager environment win; otherwise the conventional
// $XDG_RUNTIME_DIR/ssh-agent.socket is used.
func (c *SystemdUserController) AgentEnv(ctx context.Context) []string {
	res, err := c.runner.Run(ctx, types.NewCommand("systemctl", "--user", "show-environment"))
	if err == nil && res.Success() {
		if sock := ParseAgentEnv(string(res.Stdout))["SSH_AUTH_SOCK"]; sock != "" {
			return []string{"SSH_AUTH_SOCK=" + sock}
		}
	}
	if runtimeDir := c.getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return []string{"SSH_AUTH_SOCK=" + runtimeDir + "/ssh-agent.socket"}
	}
	return nil
}

func (c *SystemdUserController) run(ctx context.Context, args ...string) error {
	argv := append([]string{"systemctl", "--user"}, args...)
	res, err := c.runner.Run(ctx, types.NewCommand(argv...))
	if err != nil {
		return err
	}
	if !res.Success() {
		return fmt.Errorf("systemctl --user %s exited with status %d: %s", strings.Join(args, " "), res.ExitCode, res.StderrString())
	}
	return nil
}
