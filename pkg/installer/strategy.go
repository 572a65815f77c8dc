package installer

import (
	"github.com/arthur-debert/gitboot/pkg/types"
)

// Step is one command of an install strategy.
type Step struct {
	Args []string
	// Optional steps may fail without aborting the strategy (index refreshes).
	Optional bool
}

// Strategy describes how one package manager installs a package.
type Strategy struct {
	Kind types.ManagerKind
	// NeedsRoot marks managers that must run elevated.
	NeedsRoot bool
	Steps     func(pkg string) []Step
}

var strategies = map[types.ManagerKind]Strategy{
	types.ManagerWinget: {
		Kind: types.ManagerWinget,
		Steps: func(pkg string) []Step {
			return []Step{{Args: []string{
				"winget", "install", "--id", pkg, "-e", "--source", "winget",
				"--accept-package-agreements", "--accept-source-agreements", "--silent",
			}}}
		},
	},
	types.ManagerChoco: {
		Kind:      types.ManagerChoco,
		NeedsRoot: true,
		Steps: func(pkg string) []Step {
			return []Step{{Args: []string{"choco", "install", pkg, "-y", "--no-progress"}}}
		},
	},
	types.ManagerHomebrew: {
		Kind: types.ManagerHomebrew,
		Steps: func(pkg string) []Step {
			return []Step{{Args: []string{"brew", "install", pkg}}}
		},
	},
	types.ManagerApt: {
		Kind:      types.ManagerApt,
		NeedsRoot: true,
		Steps: func(pkg string) []Step {
			return []Step{
				{Args: []string{"apt-get", "update"}, Optional: true},
				{Args: []string{"apt-get", "install", "-y", pkg}},
			}
		},
	},
	types.ManagerDnf: {
		Kind:      types.ManagerDnf,
		NeedsRoot: true,
		Steps: func(pkg string) []Step {
			return []Step{{Args: []string{"dnf", "install", "-y", pkg}}}
		},
	},
	types.ManagerYum: {
		Kind:      types.ManagerYum,
		NeedsRoot: true,
		Steps: func(pkg string) []Step {
			return []Step{{Args: []string{"yum", "install", "-y", pkg}}}
		},
	},
	types.ManagerPacman: {
		Kind:      types.ManagerPacman,
		NeedsRoot: true,
		Steps: func(pkg string) []Step {
			return []Step{{Args: []string{"pacman", "-S", "--needed", "--noconfirm", pkg}}}
		},
	},
	types.ManagerZypper: {
		Kind:      types.ManagerZypper,
		NeedsRoot: true,
		Steps: func(pkg string) []Step {
			return []Step{{Args: []string{"zypper", "--non-interactive", "install", pkg}}}
		},
	},
}

// developerToolsStep is the macOS fallback when Homebrew is absent. It
// opens the vendor installer and is never treated as fatal on its own.
var developerToolsStep = Step{Args: []string{"xcode-select", "--install"}, Optional: true}

// StrategyFor returns the strategy for kind.
func StrategyFor(kind types.ManagerKind) (Strategy, bool) {
	s, ok := strategies[kind]
	return s, ok
}
