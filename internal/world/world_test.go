package world

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world/block"
)

// memStore хранит чанки в памяти; используется вместо файлового хранилища.
type memStore struct {
	data    map[vec.Vec2][]byte
	failOn  map[vec.Vec2]bool // координаты, на которых Save падает
}

func newMemStore() *memStore {
	return &memStore{data: make(map[vec.Vec2][]byte), failOn: make(map[vec.Vec2]bool)}
}

func (ms *memStore) Save(pos vec.Vec2, data []byte) error {
	if ms.failOn[pos] {
		return fmt.Errorf("искусственный сбой записи %v", pos)
	}
	ms.data[pos] = data
	return nil
}

func (ms *memStore) Load(pos vec.Vec2) ([]byte, error) {
	data, ok := ms.data[pos]
	if !ok {
		return nil, fmt.Errorf("чанк %v не найден", pos)
	}
	return data, nil
}

func newTestWorld(t *testing.T) (*World, *memStore) {
	t.Helper()
	store := newMemStore()
	w, err := NewWorld(DefaultParams(), store)
	require.NoError(t, err, "мир с дефолтными параметрами должен создаваться")
	return w, store
}

func TestNewWorldValidation(t *testing.T) {
	_, err := NewWorld(Params{ChunkWidth: -1}, nil)
	assert.Error(t, err, "недопустимые параметры должны отклоняться")
}

func TestAddEmptyChunkTwice(t *testing.T) {
	w, _ := newTestWorld(t)
	pos := vec.Vec2{X: 2, Y: 2}

	require.NoError(t, w.AddEmptyChunk(pos))
	assert.Equal(t, 1, w.LoadedChunkCount())

	err := w.AddEmptyChunk(pos)
	var alreadyLoaded *ChunkAlreadyLoadedError
	assert.ErrorAs(t, err, &alreadyLoaded, "повторное создание должно дать ChunkAlreadyLoadedError")
	assert.Equal(t, 1, w.LoadedChunkCount(), "повторное создание не должно ничего менять")
}

func TestItemUnloadedChunk(t *testing.T) {
	w, _ := newTestWorld(t)

	var unloaded *ChunkUnloadedError
	_, err := w.Item(FieldBlock, vec.Vec3{X: 100, Y: 100, Z: 0})
	assert.ErrorAs(t, err, &unloaded)

	err = w.SetItem(FieldBlock, vec.Vec3{X: 100, Y: 100, Z: 0}, 1)
	assert.ErrorAs(t, err, &unloaded)
}

func TestSetItemMarksDirtyNeighborhood(t *testing.T) {
	w, _ := newTestWorld(t)
	center := vec.Vec2{X: 0, Y: 0}

	// Загружаем центр и всех четырёх соседей, чтобы фильтр ConsumeDirty
	// ничего не отбросил.
	require.NoError(t, w.AddEmptyChunk(center))
	for _, n := range w.Params().ChunkNeighbors(center) {
		require.NoError(t, w.AddEmptyChunk(n))
	}

	require.NoError(t, w.SetItem(FieldBlock, vec.Vec3{X: 5, Y: 5, Z: 10}, 3))

	dirty := w.ConsumeDirty()
	assert.Len(t, dirty, 5, "грязными должны стать чанк и 4 горизонтальных соседа")

	seen := make(map[vec.Vec2]bool)
	for _, pos := range dirty {
		seen[pos] = true
	}
	assert.True(t, seen[center], "центр должен быть грязным")
	for _, n := range w.Params().ChunkNeighbors(center) {
		assert.True(t, seen[n], "сосед %v должен быть грязным", n)
	}
}

func TestConsumeDirtyFiltersUnloaded(t *testing.T) {
	w, _ := newTestWorld(t)
	center := vec.Vec2{X: 0, Y: 0}
	require.NoError(t, w.AddEmptyChunk(center))

	// Соседи не загружены: помечены, но отфильтрованы при заборе.
	require.NoError(t, w.SetItem(FieldBlock, vec.Vec3{X: 0, Y: 0, Z: 0}, 1))

	dirty := w.ConsumeDirty()
	assert.Equal(t, []vec.Vec2{center}, dirty)

	// Повторный забор пуст
	assert.Nil(t, w.ConsumeDirty(), "множество грязных должно быть сброшено")
}

func TestDefaultWriteDoesNotDirty(t *testing.T) {
	w, _ := newTestWorld(t)
	require.NoError(t, w.AddEmptyChunk(vec.Vec2{X: 0, Y: 0}))

	// Запись нуля в пустой чанк — no-op, грязных быть не должно
	require.NoError(t, w.SetItem(FieldBlock, vec.Vec3{X: 1, Y: 1, Z: 1}, 0))
	assert.Nil(t, w.ConsumeDirty(), "no-op запись не должна помечать чанки грязными")
}

func TestTypedAccessors(t *testing.T) {
	w, _ := newTestWorld(t)
	require.NoError(t, w.AddEmptyChunk(vec.Vec2{X: 0, Y: 0}))
	pos := vec.Vec3{X: 3, Y: 4, Z: 5}

	require.NoError(t, w.SetBlock(pos, block.Stone))
	b, err := w.Block(pos)
	require.NoError(t, err)
	assert.Equal(t, block.Stone, b)

	require.NoError(t, w.SetSkyLight(pos, 31))
	light, err := w.SkyLight(pos)
	require.NoError(t, err)
	assert.Equal(t, uint8(31), light)

	require.NoError(t, w.SetBlockLight(pos, 7))
	bl, err := w.BlockLight(pos)
	require.NoError(t, err)
	assert.Equal(t, uint8(7), bl)

	require.NoError(t, w.SetExposed(pos, true))
	exposed, err := w.Exposed(pos)
	require.NoError(t, err)
	assert.True(t, exposed)
}

func TestUnloadLoadRoundTrip(t *testing.T) {
	w, store := newTestWorld(t)
	chunkPos := vec.Vec2{X: -1, Y: 2}
	blockPos := vec.Vec3{X: -5, Y: 35, Z: 77}

	require.NoError(t, w.AddEmptyChunk(chunkPos))
	require.NoError(t, w.SetBlock(blockPos, block.Grass))
	require.NoError(t, w.SetSkyLight(blockPos, 12))

	require.NoError(t, w.UnloadChunk(chunkPos))
	assert.False(t, w.IsChunkLoaded(chunkPos))
	assert.Contains(t, store.data, chunkPos, "байты чанка должны попасть в хранилище")

	// Доступ к выгруженному чанку — ошибка
	var unloaded *ChunkUnloadedError
	_, err := w.Block(blockPos)
	assert.ErrorAs(t, err, &unloaded)

	require.NoError(t, w.LoadChunk(chunkPos))

	b, err := w.Block(blockPos)
	require.NoError(t, err)
	assert.Equal(t, block.Grass, b, "блок должен пережить цикл выгрузки")

	light, err := w.SkyLight(blockPos)
	require.NoError(t, err)
	assert.Equal(t, uint8(12), light, "свет должен пережить цикл выгрузки")

	// Загруженный чанк не помечается грязным
	assert.Nil(t, w.ConsumeDirty())
}

func TestUnloadChunkNotLoaded(t *testing.T) {
	w, _ := newTestWorld(t)

	var unloaded *ChunkUnloadedError
	err := w.UnloadChunk(vec.Vec2{X: 9, Y: 9})
	assert.ErrorAs(t, err, &unloaded)
}

func TestUnloadChunkStoreFailure(t *testing.T) {
	w, store := newTestWorld(t)
	pos := vec.Vec2{X: 0, Y: 0}
	require.NoError(t, w.AddEmptyChunk(pos))

	store.failOn[pos] = true
	err := w.UnloadChunk(pos)
	assert.Error(t, err, "сбой хранилища должен быть виден вызывающему коду")
	// Чанк уже удалён из памяти — кодирование прошло успешно
	assert.False(t, w.IsChunkLoaded(pos))
}

func TestLoadChunkCorruptData(t *testing.T) {
	w, store := newTestWorld(t)
	pos := vec.Vec2{X: 1, Y: 1}
	store.data[pos] = []byte{0xde, 0xad, 0xbe, 0xef}

	err := w.LoadChunk(pos)
	assert.True(t, errors.Is(err, ErrCorruptChunk), "мусор должен дать ErrCorruptChunk, получено %v", err)
	assert.False(t, w.IsChunkLoaded(pos), "повреждённый чанк не должен вставляться")
}

func TestLoadChunkAlreadyLoaded(t *testing.T) {
	w, _ := newTestWorld(t)
	pos := vec.Vec2{X: 0, Y: 0}
	require.NoError(t, w.AddEmptyChunk(pos))

	var alreadyLoaded *ChunkAlreadyLoadedError
	assert.ErrorAs(t, w.LoadChunk(pos), &alreadyLoaded)
}

func TestChunksInSquare(t *testing.T) {
	w, _ := newTestWorld(t)
	require.NoError(t, w.AddEmptyChunk(vec.Vec2{X: 0, Y: 0}))
	require.NoError(t, w.AddEmptyChunk(vec.Vec2{X: 1, Y: 1}))
	require.NoError(t, w.AddEmptyChunk(vec.Vec2{X: 5, Y: 5}))

	got := w.ChunksInSquare(vec.Vec2{X: 0, Y: 0}, 1)
	assert.Len(t, got, 2, "в квадрате радиуса 1 загружено два чанка")
}

func TestWorldWithoutStore(t *testing.T) {
	w, err := NewWorld(DefaultParams(), nil)
	require.NoError(t, err)
	pos := vec.Vec2{X: 0, Y: 0}
	require.NoError(t, w.AddEmptyChunk(pos))

	assert.Error(t, w.UnloadChunk(pos), "без хранилища выгрузка невозможна")
	assert.Error(t, w.LoadChunk(vec.Vec2{X: 1, Y: 0}), "без хранилища загрузка невозможна")
}
