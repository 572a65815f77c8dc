package installer

// PrivilegeChecker reports whether the process already runs elevated:
// Administrators role membership on Windows, effective uid 0 on POSIX.
type PrivilegeChecker interface {
	IsElevated() (bool, error)
}

// PrivilegeFunc adapts a function to PrivilegeChecker.
type PrivilegeFunc func() (bool, error)

// IsElevated implements PrivilegeChecker.
func (f PrivilegeFunc) IsElevated() (bool, error) {
	return f()
}

// SystemPrivilege returns the checker for the running platform.
func SystemPrivilege() PrivilegeChecker {
	return PrivilegeFunc(isElevated)
}
