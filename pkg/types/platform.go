package types

import (
	"fmt"
	"strings"
)

// OSFamily is the operating-system family gitboot branches on.
type OSFamily string

const (
	OSWindows OSFamily = "windows"
	OSMacOS   OSFamily = "macos"
	OSLinux   OSFamily = "linux"
	OSUnknown OSFamily = "unknown"
)

// FamilyFromGOOS maps a runtime.GOOS value to an OSFamily.
func FamilyFromGOOS(goos string) OSFamily {
	switch goos {
	case "windows":
		return OSWindows
	case "darwin":
		return OSMacOS
	case "linux":
		return OSLinux
	default:
		return OSUnknown
	}
}

// IsPOSIX reports whether the family uses POSIX conventions (line endings, sudo).
func (f OSFamily) IsPOSIX() bool {
	return f == OSMacOS || f == OSLinux
}

// ManagerKind identifies a package manager.
type ManagerKind string

const (
	ManagerWinget   ManagerKind = "winget"
	ManagerChoco    ManagerKind = "choco"
	ManagerHomebrew ManagerKind = "brew"
	ManagerApt      ManagerKind = "apt"
	ManagerDnf      ManagerKind = "dnf"
	ManagerYum      ManagerKind = "yum"
	ManagerPacman   ManagerKind = "pacman"
	ManagerZypper   ManagerKind = "zypper"
	ManagerNone     ManagerKind = "none"
)

// managerBinaries holds the executable looked up on PATH for each manager.
var managerBinaries = map[ManagerKind]string{
	ManagerWinget:   "winget",
	ManagerChoco:    "choco",
	ManagerHomebrew: "brew",
	ManagerApt:      "apt-get",
	ManagerDnf:      "dnf",
	ManagerYum:      "yum",
	ManagerPacman:   "pacman",
	ManagerZypper:   "zypper",
}

// Binary returns the executable name used to detect and invoke the manager.
// ManagerNone has no binary.
func (k ManagerKind) Binary() string {
	return managerBinaries[k]
}

func (k ManagerKind) String() string {
	return string(k)
}

// ParseManagerKind maps a manager name to its kind. "chocolatey", "homebrew"
// and "apt-get" are accepted as aliases.
func ParseManagerKind(name string) (ManagerKind, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "chocolatey":
		return ManagerChoco, true
	case "homebrew":
		return ManagerHomebrew, true
	case "apt-get":
		return ManagerApt, true
	}
	kind := ManagerKind(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := managerBinaries[kind]; ok {
		return kind, true
	}
	return ManagerNone, false
}

// PlatformInfo is the immutable result of probing the machine.
type PlatformInfo struct {
	Family OSFamily
	// Distro is the /etc/os-release ID on Linux, informational only.
	Distro string
	// Managers lists the available managers in preference order.
	Managers []ManagerKind
}

// Has reports whether the manager was detected.
func (p PlatformInfo) Has(kind ManagerKind) bool {
	for _, m := range p.Managers {
		if m == kind {
			return true
		}
	}
	return false
}

// Preferred returns the first available manager, or ManagerNone.
func (p PlatformInfo) Preferred() ManagerKind {
	if len(p.Managers) == 0 {
		return ManagerNone
	}
	return p.Managers[0]
}

func (p PlatformInfo) String() string {
	names := make([]string, 0, len(p.Managers))
	for _, m := range p.Managers {
		names = append(names, m.String())
	}
	family := string(p.Family)
	if p.Distro != "" {
		family = fmt.Sprintf("%s (%s)", family, p.Distro)
	}
	return fmt.Sprintf("%s [available: %s, preferred: %s]", family, strings.Join(names, ", "), p.Preferred())
}
