package backup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/deskctl/pkg/execx"
)

func TestCreate_CopiesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fstab")
	require.NoError(t, os.WriteFile(path, []byte("proc /proc proc defaults 0 0\n"), 0644))

	backupPath, err := Create(path)
	require.NoError(t, err)

	data, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Equal(t, "proc /proc proc defaults 0 0\n", string(data))
	assert.Contains(t, backupPath, ".deskctl-")
	assert.Contains(t, backupPath, ".bak")
}

func TestCreate_MissingFile(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestCreateIfExists_NoFile(t *testing.T) {
	backupPath, err := CreateIfExists(filepath.Join(t.TempDir(), "exports"))
	require.NoError(t, err)
	assert.Empty(t, backupPath)
}

func TestCreateWith_CopiesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports")
	require.NoError(t, os.WriteFile(path, []byte("/srv/share *(rw)\n"), 0644))

	backupPath, err := CreateWith(execx.NewRunner(&execx.RealExecutor{}), path)
	require.NoError(t, err)

	data, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Equal(t, "/srv/share *(rw)\n", string(data))
}

func TestCreateWith_DryRunWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fstab")
	require.NoError(t, os.WriteFile(path, []byte("UUID=abc / ext4 defaults 0 1\n"), 0644))

	dry := execx.NewDryRunExecutor()
	backupPath, err := CreateWith(execx.NewRunner(dry), path)
	require.NoError(t, err)

	assert.NoFileExists(t, backupPath)
	backups, err := List(path)
	require.NoError(t, err)
	assert.Empty(t, backups)
	require.Len(t, dry.Commands(), 1)
	assert.Contains(t, dry.Commands()[0], "cp -p "+path)
}

func TestList_ReturnsOnlyOwnBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fstab")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0644))

	// Unrelated files must not show up.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fstab.orig"), []byte("x\n"), 0644))

	first, err := Create(path)
	require.NoError(t, err)
	second, err := Create(path)
	require.NoError(t, err)

	backups, err := List(path)
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Contains(t, backups, first)
	assert.Contains(t, backups, second)
}

func TestRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports")
	require.NoError(t, os.WriteFile(path, []byte("original\n"), 0644))

	backupPath, err := Create(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("mangled\n"), 0644))
	require.NoError(t, Restore(backupPath))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original\n", string(data))
}

func TestRestore_RejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "random.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.Error(t, Restore(path))
}
