package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-terrain/internal/vec"
)

func TestFileStoreSaveLoad(t *testing.T) {
	store := NewFileChunkStore(t.TempDir(), false)
	pos := vec.Vec2{X: 15, Y: -3}
	data := []byte{0x56, 0x43, 0x01, 0x10, 0x04}

	require.NoError(t, store.Save(pos, data))

	got, err := store.Load(pos)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestFileStoreFileNaming(t *testing.T) {
	dir := t.TempDir()
	store := NewFileChunkStore(dir, false)

	require.NoError(t, store.Save(vec.Vec2{X: -7, Y: 12}, []byte{1}))

	_, err := os.Stat(filepath.Join(dir, "-7_12.bin"))
	assert.NoError(t, err, "файл чанка должен называться {x}_{y}.bin")
}

func TestFileStoreNotFound(t *testing.T) {
	store := NewFileChunkStore(t.TempDir(), false)

	_, err := store.Load(vec.Vec2{X: 1, Y: 1})
	assert.True(t, errors.Is(err, ErrChunkNotFound), "отсутствующий файл должен дать ErrChunkNotFound")
}

func TestFileStoreCompression(t *testing.T) {
	dir := t.TempDir()
	store := NewFileChunkStore(dir, true)
	pos := vec.Vec2{X: 0, Y: 0}

	// Хорошо сжимаемые данные
	data := make([]byte, 4096)
	require.NoError(t, store.Save(pos, data))

	raw, err := os.ReadFile(filepath.Join(dir, "0_0.bin"))
	require.NoError(t, err)
	assert.Less(t, len(raw), len(data), "файл должен быть сжат")
	require.GreaterOrEqual(t, len(raw), 2)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2], "файл должен начинаться с gzip-сигнатуры")

	got, err := store.Load(pos)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

// Хранилище со сжатием обязано читать старые несжатые файлы.
func TestFileStoreMixedFormats(t *testing.T) {
	dir := t.TempDir()
	plain := NewFileChunkStore(dir, false)
	compressed := NewFileChunkStore(dir, true)

	posPlain := vec.Vec2{X: 1, Y: 0}
	posComp := vec.Vec2{X: 2, Y: 0}
	data := []byte("chunk-payload")

	require.NoError(t, plain.Save(posPlain, data))
	require.NoError(t, compressed.Save(posComp, data))

	got, err := compressed.Load(posPlain)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	got, err = plain.Load(posComp)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestFileStoreOverwrite(t *testing.T) {
	store := NewFileChunkStore(t.TempDir(), false)
	pos := vec.Vec2{X: 0, Y: 0}

	require.NoError(t, store.Save(pos, []byte("old")))
	require.NoError(t, store.Save(pos, []byte("new")))

	got, err := store.Load(pos)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestBadgerStoreSaveLoad(t *testing.T) {
	store, err := NewBadgerChunkStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	pos := vec.Vec2{X: -100, Y: 100}
	data := []byte{0xca, 0xfe}

	require.NoError(t, store.Save(pos, data))

	got, err := store.Load(pos)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = store.Load(vec.Vec2{X: 0, Y: 0})
	assert.True(t, errors.Is(err, ErrChunkNotFound))
}
