//go:build windows

package installer

import (
	"errors"
	"os"

	"golang.org/x/sys/windows/registry"
)

const machineEnvKey = `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`

// RefreshPath merges the machine and user PATH from the registry into the
// process PATH so tools installed by winget/choco are visible without
// opening a new shell.
func RefreshPath() error {
	machine, err := readRegistryPath(registry.LOCAL_MACHINE, machineEnvKey)
	if err != nil {
		return err
	}
	user, err := readRegistryPath(registry.CURRENT_USER, `Environment`)
	if err != nil && !errors.Is(err, registry.ErrNotExist) {
		return err
	}

	// Registry entries lead; anything the current process added is kept.
	sep := string(os.PathListSeparator)
	return os.Setenv("PATH", mergePathLists(sep, machine, user, os.Getenv("PATH")))
}

func readRegistryPath(root registry.Key, path string) (string, error) {
	key, err := registry.OpenKey(root, path, registry.QUERY_VALUE)
	if err != nil {
		return "", err
	}
	defer key.Close()

	value, _, err := key.GetStringValue("Path")
	if err != nil {
		return "", err
	}
	expanded, err := registry.ExpandString(value)
	if err != nil {
		return value, nil
	}
	return expanded, nil
}
