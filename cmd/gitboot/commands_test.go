// cmd/gitboot/commands_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: runnertest fakes, afero memory filesystem
// PURPOSE: Drive the root command end to end with scripted system calls

package gitboot

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/gitboot/pkg/errors"
	"github.com/arthur-debert/gitboot/pkg/filesystem"
	"github.com/arthur-debert/gitboot/pkg/installer"
	"github.com/arthur-debert/gitboot/pkg/prompt"
	"github.com/arthur-debert/gitboot/pkg/runner/runnertest"
	"github.com/arthur-debert/gitboot/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPublicKey = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIJane jane@example.com\n"

type fixture struct {
	stateDir string
	runner   *runnertest.FakeRunner
	lookup   *runnertest.FakeLookup
	fs       types.FS
	deps     Dependencies
}

// newFixture isolates configuration and state and scripts a Linux machine
// with apt-get, git and the OpenSSH client already present.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("GITBOOT_CONFIG_DIR", filepath.Join(tmp, "config"))
	stateDir := filepath.Join(tmp, "state")
	t.Setenv("GITBOOT_STATE_DIR", stateDir)

	mem := afero.NewMemMapFs()
	fsys := filesystem.NewAferoFS(mem)
	req := types.DefaultKeypairRequest("/home/jane")

	f := &fixture{
		stateDir: stateDir,
		lookup:   runnertest.NewFakeLookup("apt-get", "git", "ssh-keygen", "ssh-add"),
		fs:       fsys,
	}
	f.runner = runnertest.NewFakeRunner().
		On("git --version", runnertest.OK("git version 2.43.0")).
		On("git config --global --get", runnertest.Exit(1, "")).
		On("ssh-keygen", runnertest.Response{Effect: func(types.Command) {
			_ = afero.WriteFile(mem, req.Path, []byte("PRIVATE"), 0600)
			_ = afero.WriteFile(mem, req.PublicPath(), []byte(testPublicKey), 0644)
		}})

	f.deps = Dependencies{
		Runner:      f.runner,
		Lookup:      f.lookup,
		FS:          fsys,
		GOOS:        "linux",
		Home:        "/home/jane",
		Prompter:    prompt.None{},
		Privilege:   installer.PrivilegeFunc(func() (bool, error) { return true, nil }),
		RefreshPath: func() error { return nil },
		Getenv: func(key string) string {
			if key == "SSH_AUTH_SOCK" {
				return "/tmp/agent.sock"
			}
			return ""
		},
	}
	return f
}

func (f *fixture) execute(args ...string) (string, error) {
	cmd := newRootCmd(f.deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (f *fixture) logFileExists() bool {
	_, err := os.Stat(filepath.Join(f.stateDir, "gitboot.log"))
	return err == nil
}

func TestRootRequiresAnAction(t *testing.T) {
	f := newFixture(t)

	cmd := newRootCmd(f.deps)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs(nil)
	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Empty(t, f.runner.Calls(), "nothing should run without an action flag")
	assert.False(t, f.logFileExists(), "a bare invocation must not create the log file")
	_, statErr := os.Stat(f.stateDir)
	assert.True(t, os.IsNotExist(statErr), "the state directory must not be created")

	var report bytes.Buffer
	ReportError(cmd, err, &report)
	assert.Contains(t, report.String(), "Error: nothing to do")
	assert.Contains(t, report.String(), "USAGE")
	assert.Contains(t, report.String(), "--print-config")
}

func TestRootActionCreatesLogFile(t *testing.T) {
	f := newFixture(t)

	_, err := f.execute("--name", "Jane Doe")
	require.NoError(t, err)
	assert.True(t, f.logFileExists())
}

func TestRootHelp(t *testing.T) {
	f := newFixture(t)

	out, err := f.execute("--help")
	require.NoError(t, err)
	assert.Contains(t, out, "--email")
	assert.Contains(t, out, "--ssh")
	assert.Empty(t, f.runner.Calls())
}

func TestRootRejectsUnknownInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown_flag", args: []string{"--colour"}},
		{name: "positional_argument", args: []string{"--ssh", "extra"}},
		{name: "missing_flag_value", args: []string{"--name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.execute(tt.args...)
			require.Error(t, err)
			assert.Equal(t, errors.ErrUnrecognizedArgument, errors.GetErrorCode(err))
			assert.Empty(t, f.runner.Calls())
		})
	}
}

func TestRootPrintConfig(t *testing.T) {
	f := newFixture(t)

	out, err := f.execute("--print-config")
	require.NoError(t, err)
	assert.Contains(t, out, "[tool]")
	assert.Contains(t, out, "skip_if_present = true")
	assert.Empty(t, f.runner.Calls())
}

func TestRootInvalidConfigFile(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tool\nname ="), 0644))

	_, err := f.execute("--config", path, "--name", "Jane Doe")
	require.Error(t, err)
	assert.Equal(t, errors.ErrConfigLoad, errors.GetErrorCode(err))
}

func TestRootConfiguresIdentity(t *testing.T) {
	f := newFixture(t)

	out, err := f.execute("--name", "Jane Doe", "--email", "jane@example.com")
	require.NoError(t, err)

	lines := f.runner.Lines()
	assert.Contains(t, lines, "git config --global user.name Jane Doe")
	assert.Contains(t, lines, "git config --global user.email jane@example.com")
	assert.Contains(t, lines, "git config --global core.autocrlf input")
	assert.Zero(t, f.runner.Count("apt-get"), "git is already present")
	assert.Zero(t, f.runner.Count("ssh-keygen"), "keys are only created with --ssh")
	assert.Contains(t, out, "[skip] Install git")
	assert.NotContains(t, out, "Your public SSH key")
}

func TestRootProvisionsKey(t *testing.T) {
	f := newFixture(t)

	out, err := f.execute("--email", "jane@example.com", "--ssh")
	require.NoError(t, err)

	assert.Equal(t, 1, f.runner.Count("ssh-keygen -t ed25519 -C jane@example.com"))
	assert.Equal(t, 1, f.runner.Count("ssh-add /home/jane/.ssh/id_ed25519"))
	assert.Contains(t, out, "Your public SSH key:")
	assert.Contains(t, out, strings.TrimSpace(testPublicKey))

	// A second run keeps the key and prints the same public text
	again, err := f.execute("--ssh")
	require.NoError(t, err)
	assert.Equal(t, 1, f.runner.Count("ssh-keygen"))
	assert.Contains(t, again, strings.TrimSpace(testPublicKey))
}

func TestRootInstallsMissingGit(t *testing.T) {
	f := newFixture(t)
	f.lookup.Remove("git")
	f.runner.On("apt-get install", runnertest.Response{Effect: runnertest.Installs(f.lookup, "git")})

	out, err := f.execute("--name", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, 1, f.runner.Count("apt-get install -y git"))
	assert.Contains(t, out, "[done] Install git")
}

func TestReportError(t *testing.T) {
	f := newFixture(t)
	cmd := newRootCmd(f.deps)

	var buf bytes.Buffer
	ReportError(cmd, errors.New(errors.ErrNoPackageManager, "no supported package manager found"), &buf)
	assert.Contains(t, buf.String(), "Error: no supported package manager found")
	assert.Contains(t, buf.String(), "install a package manager")
	assert.NotContains(t, buf.String(), "Usage")

	buf.Reset()
	ReportError(cmd, errors.New(errors.ErrUnrecognizedArgument, "invalid option"), &buf)
	assert.Contains(t, buf.String(), "Error: invalid option")
	assert.Contains(t, buf.String(), "--print-config")
}
