package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDataDir_RelativeResolvedAgainstCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureDataDir(".pestcrm")
	require.NoError(t, err)

	// TempDir may sit behind a symlink (macOS), compare resolved paths.
	wantResolved, err := filepath.EvalSymlinks(tmp)
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(wantResolved, ".pestcrm"), gotResolved)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm())
	}
}

func TestEnsureDataDir_AbsoluteAndIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	first, err := EnsureDataDir(dir)
	require.NoError(t, err)
	require.Equal(t, dir, first)

	second, err := EnsureDataDir(dir)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureDataDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "taken")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, err := EnsureDataDir(path)
	require.Error(t, err)
}
