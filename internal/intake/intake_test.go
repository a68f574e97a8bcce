package intake

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_FindsCSVs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "A.CSV"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "A.CSV", files[0].Name)
	assert.Equal(t, "b.csv", files[1].Name)
	assert.Equal(t, filepath.Join(dir, "b.csv"), files[1].Path)
	assert.Equal(t, int64(4), files[1].Size)
}

func TestScan_IgnoresSubdirs(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "processed")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "new.csv", files[0].Name)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "raw", "bank.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("data"), 0o644))

	processed := filepath.Join(dir, "processed")
	require.NoError(t, MarkProcessed(src, processed))

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))

	info, err := os.Stat(filepath.Join(processed, "bank.csv"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestMarkProcessed_MissingSource(t *testing.T) {
	err := MarkProcessed(filepath.Join(t.TempDir(), "gone.csv"), t.TempDir())
	assert.Error(t, err)
}

func TestSplit(t *testing.T) {
	in := "a,b\n1,2\n3,4\n5,6\n7,8\n9,10\n"
	out := t.TempDir()

	paths, err := Split(strings.NewReader(in), out, 2)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(out, "chunk_1.csv"), paths[0])

	first, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n3,4\n", string(first))

	last, err := os.ReadFile(paths[2])
	require.NoError(t, err)
	assert.Equal(t, "a,b\n9,10\n", string(last))
}

func TestSplit_ExactMultiple(t *testing.T) {
	paths, err := Split(strings.NewReader("a\n1\n2\n"), t.TempDir(), 2)
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}

func TestSplit_HeaderOnly(t *testing.T) {
	paths, err := Split(strings.NewReader("a,b\n"), t.TempDir(), 10)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestSplit_BadChunkSize(t *testing.T) {
	_, err := Split(strings.NewReader("a\n1\n"), t.TempDir(), 0)
	assert.Error(t, err)
}

func TestSplit_Empty(t *testing.T) {
	_, err := Split(strings.NewReader(""), t.TempDir(), 10)
	assert.Error(t, err)
}
