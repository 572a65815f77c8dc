package filesystem

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAferoFSReadFile(t *testing.T) {
	mem := afero.NewMemMapFs()
	fsys := NewAferoFS(mem)

	require.NoError(t, fsys.MkdirAll("/home/jane/.ssh", 0700))
	require.NoError(t, afero.WriteFile(mem, "/home/jane/.ssh/id_ed25519.pub", []byte("ssh-ed25519 AAAA jane"), 0644))

	data, err := fsys.ReadFile("/home/jane/.ssh/id_ed25519.pub")
	require.NoError(t, err)
	assert.Equal(t, "ssh-ed25519 AAAA jane", string(data))

	_, err = fsys.ReadFile("/home/jane/.ssh")
	assert.ErrorIs(t, err, fs.ErrInvalid)
}

func TestExists(t *testing.T) {
	mem := afero.NewMemMapFs()
	fsys := NewAferoFS(mem)
	require.NoError(t, afero.WriteFile(mem, "/present", []byte("x"), 0600))

	ok, err := Exists(fsys, "/present")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(fsys, "/missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOSFS(t *testing.T) {
	fsys := NewOS()
	dir := filepath.Join(t.TempDir(), "nested", "dir")

	require.NoError(t, fsys.MkdirAll(dir, 0700))
	info, err := fsys.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
