// Package platform detects the operating-system family and the package
// managers available on the search path.
package platform

import (
	"bufio"
	"bytes"
	"os"
	"runtime"
	"strings"

	"github.com/arthur-debert/gitboot/pkg/logging"
	"github.com/arthur-debert/gitboot/pkg/runner"
	"github.com/arthur-debert/gitboot/pkg/types"
)

// osReleasePath is read on Linux to record the distribution ID.
const osReleasePath = "/etc/os-release"

// priorities is the manager preference order per family. Detection walks
// this table, so availability order is preference order.
var priorities = map[types.OSFamily][]types.ManagerKind{
	types.OSWindows: {types.ManagerWinget, types.ManagerChoco},
	types.OSMacOS:   {types.ManagerHomebrew},
	types.OSLinux: {
		types.ManagerApt,
		types.ManagerDnf,
		types.ManagerYum,
		types.ManagerPacman,
		types.ManagerZypper,
	},
}

// PriorityOrder returns the manager preference list for family.
func PriorityOrder(family types.OSFamily) []types.ManagerKind {
	order := priorities[family]
	out := make([]types.ManagerKind, len(order))
	copy(out, order)
	return out
}

// Detector inspects the current machine.
type Detector struct {
	GOOS     string
	Lookup   runner.Lookup
	ReadFile func(name string) ([]byte, error)
}

// NewDetector creates a Detector for the running process.
func NewDetector(lookup runner.Lookup) *Detector {
	if lookup == nil {
		lookup = runner.PathLookup{}
	}
	return &Detector{
		GOOS:     runtime.GOOS,
		Lookup:   lookup,
		ReadFile: os.ReadFile,
	}
}

// Detect reports the platform. It never fails: a missing manager is simply
// absent from the result.
func (p *Detector) Detect() types.PlatformInfo {
	logger := logging.GetLogger("platform")

	info := types.PlatformInfo{
		Family:   types.FamilyFromGOOS(p.GOOS),
		Managers: []types.ManagerKind{},
	}

	for _, kind := range priorities[info.Family] {
		if runner.Available(p.Lookup, kind.Binary()) {
			info.Managers = append(info.Managers, kind)
		}
	}

	if info.Family == types.OSLinux && p.ReadFile != nil {
		if data, err := p.ReadFile(osReleasePath); err == nil {
			info.Distro = ParseOSReleaseID(data)
		}
	}

	logger.Info().
		Str("family", string(info.Family)).
		Str("distro", info.Distro).
		Str("preferred", info.Preferred().String()).
		Int("available", len(info.Managers)).
		Msg("Platform detected")

	return info
}

// ParseOSReleaseID extracts the ID field from os-release content.
func ParseOSReleaseID(data []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		value, ok := strings.CutPrefix(line, "ID=")
		if !ok {
			continue
		}
		return strings.Trim(value, `"'`)
	}
	return ""
}
