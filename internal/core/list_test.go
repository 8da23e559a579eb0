package core

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAndSummary(t *testing.T) {
	cfg := testConfig(t)
	m := newTestManager(t, cfg)

	summary, err := m.Summary()
	require.NoError(t, err)
	assert.Equal(t, "Data Storage (1): temp\nTemp Storage (0): No Files Found", summary)

	require.NoError(t, m.Save("b.txt", Text("b"), SaveOptions{}))
	require.NoError(t, m.Save("a.txt", Text("a"), SaveOptions{}))
	require.NoError(t, m.Save("x.json", Structured([]any{}), SaveOptions{Area: Transient}))

	persistent, transient, err := m.ListBoth()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "temp"}, persistent)
	assert.Equal(t, []string{"x.json"}, transient)

	summary, err = m.Summary()
	require.NoError(t, err)
	assert.Equal(t, "Data Storage (3): a.txt, b.txt, temp\nTemp Storage (1): x.json", summary)
}

func TestListKeepsKeyFilesInPersistentArea(t *testing.T) {
	m := newTestManager(t, testConfig(t))
	require.NoError(t, m.Save("backup.key", Text("not a real key"), SaveOptions{}))

	names, err := m.List(Persistent)
	require.NoError(t, err)
	assert.Contains(t, names, "backup.key")

	names, err = m.List(Transient)
	require.NoError(t, err)
	assert.NotContains(t, names, m.KeyFile())
}

func TestSearch(t *testing.T) {
	m := newTestManager(t, testConfig(t))
	root := m.Root(Persistent)

	for _, name := range []string{"a.txt", "ab.txt", "b.txt", "sub/A-nested.txt"} {
		require.NoError(t, m.Save(name, Text(name), SaveOptions{}))
	}

	result, err := m.Search(Persistent, false, "a", "zzz", "a")
	require.NoError(t, err)
	require.Len(t, result, 2, "duplicate queries collapse")

	paths, ok := result.Paths("a")
	require.True(t, ok)
	assert.Equal(t, []string{filepath.Join(root, "a.txt"), filepath.Join(root, "ab.txt")}, paths)

	paths, ok = result.Paths("zzz")
	require.True(t, ok)
	assert.Empty(t, paths)
	assert.Contains(t, result.String(), "zzz: File Not Found")

	result, err = m.Search(Persistent, true, "A")
	require.NoError(t, err)
	paths, _ = result.Paths("A")
	assert.Equal(t, []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "ab.txt"),
		filepath.Join(root, "sub", "A-nested.txt"),
	}, paths)
}

func TestSearchSkipsKeyFiles(t *testing.T) {
	m := newTestManager(t, testConfig(t))

	result, err := m.Search(Transient, true, ".key", "")
	require.NoError(t, err)
	for _, match := range result {
		assert.False(t, match.Found(), "query %q matched %v", match.Query, match.Paths)
	}

	// Recursive search of the data area walks into the nested temp area
	require.NoError(t, m.Save("k.txt", Text("k"), SaveOptions{Area: Transient}))
	result, err = m.Search(Persistent, true, "k")
	require.NoError(t, err)
	paths, _ := result.Paths("k")
	assert.Equal(t, []string{filepath.Join(m.Root(Transient), "k.txt")}, paths)
}

func TestDiff(t *testing.T) {
	m := newTestManager(t, testConfig(t))

	_, err := m.Diff("missing.txt", Persistent, Text("x"))
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Save("notes.txt", Text("one\ntwo\n"), SaveOptions{Encrypt: true}))

	diff, err := m.Diff("notes.txt", Persistent, Text("one\ntwo\n"))
	require.NoError(t, err)
	assert.Empty(t, diff)

	diff, err = m.Diff("notes.txt", Persistent, Text("one\nthree\n"))
	require.NoError(t, err)
	assert.Contains(t, diff, "--- a/notes.txt")
	assert.Contains(t, diff, "-two")
	assert.Contains(t, diff, "+three")

	require.NoError(t, m.Save("img.bin", Binary([]byte{0, 1}), SaveOptions{}))
	diff, err = m.Diff("img.bin", Persistent, Binary([]byte{0, 2}))
	require.NoError(t, err)
	assert.Equal(t, "Binary file img.bin has changed\n", diff)
}
