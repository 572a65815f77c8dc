package types_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/gitboot/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestFamilyFromGOOS(t *testing.T) {
	assert.Equal(t, types.OSWindows, types.FamilyFromGOOS("windows"))
	assert.Equal(t, types.OSMacOS, types.FamilyFromGOOS("darwin"))
	assert.Equal(t, types.OSLinux, types.FamilyFromGOOS("linux"))
	assert.Equal(t, types.OSUnknown, types.FamilyFromGOOS("plan9"))

	assert.True(t, types.OSLinux.IsPOSIX())
	assert.True(t, types.OSMacOS.IsPOSIX())
	assert.False(t, types.OSWindows.IsPOSIX())
}

func TestPlatformInfoPreferred(t *testing.T) {
	empty := types.PlatformInfo{Family: types.OSWindows}
	assert.Equal(t, types.ManagerNone, empty.Preferred())
	assert.False(t, empty.Has(types.ManagerWinget))

	linux := types.PlatformInfo{
		Family:   types.OSLinux,
		Distro:   "fedora",
		Managers: []types.ManagerKind{types.ManagerDnf, types.ManagerYum},
	}
	assert.Equal(t, types.ManagerDnf, linux.Preferred())
	assert.True(t, linux.Has(types.ManagerYum))
	assert.False(t, linux.Has(types.ManagerApt))
	assert.Equal(t, "linux (fedora) [available: dnf, yum, preferred: dnf]", linux.String())
}

func TestManagerBinary(t *testing.T) {
	assert.Equal(t, "apt-get", types.ManagerApt.Binary())
	assert.Equal(t, "winget", types.ManagerWinget.Binary())
	assert.Empty(t, types.ManagerNone.Binary())
}

func TestIdentityNormalized(t *testing.T) {
	id := types.Identity{Name: "  Jane Doe ", Email: "\tjane@example.com\n"}
	assert.Equal(t, types.Identity{Name: "Jane Doe", Email: "jane@example.com"}, id.Normalized())
	assert.False(t, id.IsEmpty())
	assert.True(t, types.Identity{Name: "   "}.IsEmpty())
}

func TestDefaultKeypairRequest(t *testing.T) {
	home := filepath.Join("home", "jane")
	req := types.DefaultKeypairRequest(home)

	assert.Equal(t, "ed25519", req.Algorithm)
	assert.Empty(t, req.Passphrase)
	assert.Equal(t, filepath.Join(home, ".ssh", "id_ed25519"), req.Path)
	assert.Equal(t, filepath.Join(home, ".ssh", "id_ed25519.pub"), req.PublicPath())
	assert.Equal(t, filepath.Join(home, ".ssh"), req.Dir())
}

func TestCommandAccessors(t *testing.T) {
	cmd := types.NewCommand("git", "config", "--global", "user.name")
	assert.Equal(t, "git", cmd.Name())
	assert.Equal(t, []string{"config", "--global", "user.name"}, cmd.Args())
	assert.Equal(t, "git config --global user.name", cmd.String())

	assert.Empty(t, types.Command{}.Name())
	assert.Nil(t, types.NewCommand("true").Args())

	res := types.CommandResult{ExitCode: 0, Stdout: []byte(" git version 2.45.0\n")}
	assert.True(t, res.Success())
	assert.Equal(t, "git version 2.45.0", res.StdoutString())
}

func TestParseManagerKind(t *testing.T) {
	tests := map[string]types.ManagerKind{
		"winget":     types.ManagerWinget,
		"Chocolatey": types.ManagerChoco,
		"choco":      types.ManagerChoco,
		"homebrew":   types.ManagerHomebrew,
		"apt-get":    types.ManagerApt,
		" zypper ":   types.ManagerZypper,
	}
	for name, want := range tests {
		got, ok := types.ParseManagerKind(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := types.ParseManagerKind("none")
	assert.False(t, ok)
	_, ok = types.ParseManagerKind("emerge")
	assert.False(t, ok)
}
