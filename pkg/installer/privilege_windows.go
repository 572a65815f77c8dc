//go:build windows

package installer

import (
	"golang.org/x/sys/windows"
)

// isElevated checks membership of the built-in Administrators group for
// the current token.
func isElevated() (bool, error) {
	sid, err := windows.CreateWellKnownSid(windows.WinBuiltinAdministratorsSid)
	if err != nil {
		return false, err
	}
	// A zero token makes CheckTokenMembership use the caller's token
	return windows.Token(0).IsMember(sid)
}
