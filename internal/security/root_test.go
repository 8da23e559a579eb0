package security

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRoot(t *testing.T) (*Root, string) {
	t.Helper()
	dir := t.TempDir()
	r, err := OpenRoot(dir)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r, dir
}

func writeTree(t *testing.T, dir string, files ...string) {
	t.Helper()
	for _, f := range files {
		full := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o700))
		require.NoError(t, os.WriteFile(full, []byte(f), 0o600))
	}
}

func TestClean(t *testing.T) {
	r, _ := openTestRoot(t)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"plain", "notes.txt", "notes.txt", nil},
		{"nested", "a/b/c.json", "a/b/c.json", nil},
		{"dotfile", ".hidden", ".hidden", nil},
		{"root", ".", ".", nil},
		{"leading dot slash", "./notes.txt", "notes.txt", nil},
		{"doubled slashes", "a//b///c.txt", "a/b/c.txt", nil},
		{"inner parent", "a/b/../c.txt", "a/c.txt", nil},
		{"empty", "", "", ErrEmptyPath},
		{"parent", "../x.txt", "", ErrPathEscapes},
		{"nested escape", "a/../../x.txt", "", ErrPathEscapes},
		{"absolute", "/etc/passwd", "", ErrAbsolutePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Clean(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteAndRead(t *testing.T) {
	r, dir := openTestRoot(t)

	require.NoError(t, r.MkdirAll("docs/2024", 0o700))
	require.NoError(t, r.WriteFile("docs/2024/a.txt", []byte("hello"), 0o600))

	raw, err := os.ReadFile(filepath.Join(dir, "docs", "2024", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(raw))

	data, err := r.ReadFile("docs/2024/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	info, err := r.Stat("docs")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = r.ReadFile("missing.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, filepath.Join(dir, "docs", "2024", "a.txt"), r.Abs("docs/2024/a.txt"))
}

func TestOperationsRejectEscapes(t *testing.T) {
	r, dir := openTestRoot(t)
	outside := filepath.Join(filepath.Dir(dir), "lockfs-escape.txt")
	t.Cleanup(func() { os.Remove(outside) })

	for _, name := range []string{"../lockfs-escape.txt", "/tmp/lockfs-escape.txt"} {
		assert.Error(t, r.WriteFile(name, []byte("x"), 0o600), name)
		assert.Error(t, r.CreateExclusive(name, []byte("x"), 0o600), name)
		assert.Error(t, r.MkdirAll(name, 0o700), name)
		assert.Error(t, r.Remove(name), name)
		assert.Error(t, r.RemoveAll(name), name)
		_, err := r.ReadFile(name)
		assert.Error(t, err, name)
		_, err = r.Stat(name)
		assert.Error(t, err, name)
		_, err = r.ReadDir(name)
		assert.Error(t, err, name)
	}

	_, err := os.Stat(outside)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}
	r, dir := openTestRoot(t)
	elsewhere := t.TempDir()
	require.NoError(t, os.Symlink(elsewhere, filepath.Join(dir, "link")))

	assert.Error(t, r.WriteFile("link/escape.txt", []byte("x"), 0o600))
	_, err := os.Stat(filepath.Join(elsewhere, "escape.txt"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestCreateExclusive(t *testing.T) {
	r, dir := openTestRoot(t)

	require.NoError(t, r.CreateExclusive("k.key", []byte("first"), 0o600))
	assert.ErrorIs(t, r.CreateExclusive("k.key", []byte("second"), 0o600), fs.ErrExist)

	raw, err := os.ReadFile(filepath.Join(dir, "k.key"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(raw))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(dir, "k.key"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestRemove(t *testing.T) {
	r, dir := openTestRoot(t)
	writeTree(t, dir, "keep.txt", "gone/deep/f.txt", "single.txt")

	require.NoError(t, r.Remove("single.txt"))
	assert.Error(t, r.Remove("gone"), "non-empty directory")

	require.NoError(t, r.RemoveAll("gone"))
	_, err := os.Stat(filepath.Join(dir, "gone"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	assert.ErrorIs(t, r.RemoveAll("."), ErrRemoveRoot)
	assert.ErrorIs(t, r.RemoveAll("a/.."), ErrRemoveRoot)
	_, err = os.Stat(filepath.Join(dir, "keep.txt"))
	assert.NoError(t, err)
}

func TestReadDirAndWalk(t *testing.T) {
	r, dir := openTestRoot(t)
	writeTree(t, dir, "b.txt", "a.txt", "dir/c.txt", "dir/inner/d.txt")

	entries, err := r.ReadDir(".")
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a.txt", "b.txt", "dir"}, names)

	var files []string
	err = r.Walk(".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "dir/c.txt", "dir/inner/d.txt"}, files)
}
