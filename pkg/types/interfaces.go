package types

import (
	"io/fs"
)

// FS is the filesystem surface the key provisioner needs.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
}
