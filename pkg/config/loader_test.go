package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/gitboot/pkg/errors"
	"github.com/arthur-debert/gitboot/pkg/paths"
	"github.com/arthur-debert/gitboot/pkg/types"
	tomlenc "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate returns an empty directory standing in for the user config dir.
func isolate(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

// userOptions reads the user file from dir, as the CLI does with the
// resolved config location.
func userOptions(dir string) LoadOptions {
	return LoadOptions{DefaultFile: filepath.Join(dir, paths.ConfigFileName)}
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, paths.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(userOptions(dir))
	require.NoError(t, err)

	assert.Equal(t, "git", cfg.Tool.Name)
	assert.Equal(t, []string{"--version"}, cfg.Tool.VersionArgs)
	assert.Equal(t, "Git.Git", cfg.Packages["winget"])
	assert.Equal(t, "git", cfg.Packages["apt"])
	assert.Equal(t, "true", cfg.Identity.AutoCRLFWindows)
	assert.Equal(t, "input", cfg.Identity.AutoCRLFPOSIX)
	assert.Equal(t, "auto", cfg.Identity.Color)
	assert.Empty(t, cfg.ExtraSettings())
	assert.True(t, cfg.Install.SkipIfPresent)
	assert.Equal(t, "ssh-agent", cfg.SSH.AgentService)
	assert.Equal(t, "your_email@example.com", cfg.SSH.CommentFallback)
	assert.Equal(t, time.Duration(0), cfg.Exec.Timeout)
	assert.True(t, cfg.Logging.File)
}

func TestLoadUserFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, `
[packages]
winget = "Git.MinGit"

[identity]
color = "always"

[identity.extra]
"init.defaultBranch" = "main"

[identity.extra.pull]
rebase = false

[exec]
timeout = "10m"
`)

	cfg, err := Load(userOptions(dir))
	require.NoError(t, err)

	assert.Equal(t, "Git.MinGit", cfg.Packages["winget"])
	assert.Equal(t, "git", cfg.Packages["apt"], "unset keys keep their defaults")
	assert.Equal(t, "always", cfg.Identity.Color)
	assert.Equal(t, "input", cfg.Identity.AutoCRLFPOSIX)
	assert.Equal(t, 10*time.Minute, cfg.Exec.Timeout)
	assert.Equal(t, map[string]string{
		"init.defaultBranch": "main",
		"pull.rebase":        "false",
	}, cfg.ExtraSettings())
}

func TestLoadExplicitFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `
[tool]
name = "git-lfs"
`)

	cfg, err := Load(LoadOptions{File: path})
	require.NoError(t, err)
	assert.Equal(t, "git-lfs", cfg.Tool.Name)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	isolate(t)

	_, err := Load(LoadOptions{File: filepath.Join(t.TempDir(), "nope.toml")})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoadInvalidFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "[tool\nname = ")

	_, err := Load(userOptions(dir))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoadEnvironment(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, `
[install]
skip_if_present = true
`)
	t.Setenv("GITBOOT_INSTALL_SKIP_IF_PRESENT", "false")
	t.Setenv("GITBOOT_SSH_AGENT_SERVICE", "openssh-agent")
	t.Setenv("GITBOOT_EXEC_TIMEOUT", "90s")
	t.Setenv("GITBOOT_TOOL_VERSION_ARGS", "version,--short")

	cfg, err := Load(userOptions(dir))
	require.NoError(t, err)

	assert.False(t, cfg.Install.SkipIfPresent, "environment wins over the user file")
	assert.Equal(t, "openssh-agent", cfg.SSH.AgentService)
	assert.Equal(t, 90*time.Second, cfg.Exec.Timeout)
	assert.Equal(t, []string{"version", "--short"}, cfg.Tool.VersionArgs)
}

func TestLoadOverridesWin(t *testing.T) {
	isolate(t)
	t.Setenv("GITBOOT_SSH_COMMENT_FALLBACK", "from-env")

	cfg, err := Load(LoadOptions{Overrides: map[string]interface{}{
		"ssh.comment_fallback": "from-flag",
	}})
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.SSH.CommentFallback)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty_tool", content: "[tool]\nname = \"\"\n"},
		{name: "negative_timeout", content: "[exec]\ntimeout = \"-1s\"\n"},
		{name: "unknown_manager", content: "[packages]\nemerge = \"dev-vcs/git\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			writeConfig(t, dir, tt.content)

			_, err := Load(userOptions(dir))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "ssh.agent_service", envKey("GITBOOT_SSH_AGENT_SERVICE"))
	assert.Equal(t, "packages.winget", envKey("GITBOOT_PACKAGES_WINGET"))
	assert.Equal(t, "", envKey("GITBOOT_CONFIG_DIR"))
	assert.Equal(t, "", envKey("GITBOOT_TOOL"))
}

func TestInstallerOptions(t *testing.T) {
	isolate(t)
	cfg, err := Load(LoadOptions{Overrides: map[string]interface{}{"packages.chocolatey": "git.install"}})
	require.NoError(t, err)

	opts := cfg.InstallerOptions()
	assert.Equal(t, "git", opts.Tool)
	assert.Equal(t, "Git.Git", opts.Packages[types.ManagerWinget])
	assert.Equal(t, "git", opts.Packages[types.ManagerApt])
	assert.Contains(t, []string{"git", "git.install"}, opts.Packages[types.ManagerChoco])
}

func TestIdentityDefaults(t *testing.T) {
	cfg := &Config{Identity: Identity{
		AutoCRLFPOSIX: "false",
		Extra:         map[string]interface{}{"init": map[string]interface{}{"defaultBranch": "main"}},
	}}

	d := cfg.IdentityDefaults()
	assert.Equal(t, "true", d.AutoCRLFWindows)
	assert.Equal(t, "false", d.AutoCRLFPOSIX)
	assert.Equal(t, "auto", d.Color)
	assert.Equal(t, map[string]string{"init.defaultBranch": "main"}, d.Extra)
}

func TestRender(t *testing.T) {
	isolate(t)
	cfg, err := Load(LoadOptions{Overrides: map[string]interface{}{"exec.timeout": "5m"}})
	require.NoError(t, err)

	out, err := Render(cfg)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, tomlenc.Unmarshal(out, &parsed))

	tool := parsed["tool"].(map[string]interface{})
	assert.Equal(t, "git", tool["name"])
	assert.Equal(t, "5m0s", parsed["exec"].(map[string]interface{})["timeout"])
	assert.Equal(t, "Git.Git", parsed["packages"].(map[string]interface{})["winget"])

	// Rendered output loads back to the same configuration
	dir := isolate(t)
	writeConfig(t, dir, string(out))
	again, err := Load(userOptions(dir))
	require.NoError(t, err)
	assert.Equal(t, cfg.Exec.Timeout, again.Exec.Timeout)
	assert.Equal(t, cfg.Packages, again.Packages)
}
