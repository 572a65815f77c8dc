//go:build !windows

package installer

// RefreshPath is a no-op on POSIX: managers install into directories that
// are already on PATH.
func RefreshPath() error {
	return nil
}
