package world

import (
	"fmt"

	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world/block"
)

// ChunkStore абстрагирует постоянное хранилище закодированных чанков.
// Реализации живут в internal/storage (файлы, BadgerDB).
type ChunkStore interface {
	// Save сохраняет байты чанка по координате.
	Save(pos vec.Vec2, data []byte) error
	// Load возвращает байты чанка по координате.
	Load(pos vec.Vec2) ([]byte, error)
}

// World владеет всеми загруженными чанками и множеством «грязных» координат.
//
// Ядро рассчитано на однопоточное использование одним владельцем
// (например, тредом тика симуляции): внутренних блокировок нет, и
// параллельный доступ требует внешней синхронизации вызывающего кода.
type World struct {
	params Params
	chunks map[vec.Vec2]*Chunk
	dirty  map[vec.Vec2]struct{}
	store  ChunkStore
}

// NewWorld создаёт пустой мир. Параметры валидируются один раз;
// store может быть nil, тогда UnloadChunk/LoadChunk возвращают ошибку.
func NewWorld(params Params, store ChunkStore) (*World, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("недопустимые параметры мира: %w", err)
	}
	return &World{
		params: params,
		chunks: make(map[vec.Vec2]*Chunk),
		dirty:  make(map[vec.Vec2]struct{}),
		store:  store,
	}, nil
}

// Params возвращает размеры мира.
func (w *World) Params() Params {
	return w.params
}

// Chunk возвращает чанк по координате или ChunkUnloadedError.
func (w *World) Chunk(pos vec.Vec2) (*Chunk, error) {
	chunk, ok := w.chunks[pos]
	if !ok {
		return nil, &ChunkUnloadedError{Pos: pos}
	}
	return chunk, nil
}

// IsChunkLoaded возвращает true, если по координате есть загруженный чанк.
func (w *World) IsChunkLoaded(pos vec.Vec2) bool {
	_, ok := w.chunks[pos]
	return ok
}

// LoadedChunkCount возвращает количество чанков в памяти.
func (w *World) LoadedChunkCount() int {
	return len(w.chunks)
}

// AddEmptyChunk вставляет новый пустой чанк по координате.
// Возвращает ChunkAlreadyLoadedError без каких-либо изменений,
// если координата уже занята.
func (w *World) AddEmptyChunk(pos vec.Vec2) error {
	if _, ok := w.chunks[pos]; ok {
		return &ChunkAlreadyLoadedError{Pos: pos}
	}
	w.chunks[pos] = NewChunk(w.params)
	metricChunksAdded.Inc()
	metricLoadedChunks.Set(float64(len(w.chunks)))
	return nil
}

// Item возвращает значение поля f в глобальной позиции.
//
// Отсутствие чанка — ошибка (ChunkUnloadedError), в отличие от отсутствия
// субчанка или секции, которые прозрачно дают значение по умолчанию.
func (w *World) Item(f Field, pos vec.Vec3) (uint64, error) {
	chunk, err := w.Chunk(w.params.BlockToChunk(pos))
	if err != nil {
		return 0, err
	}
	return chunk.Item(f, w.params.GlobalToLocal(pos))
}

// SetItem записывает значение поля f в глобальной позиции.
//
// Успешная материализовавшаяся запись помечает чанк и четырёх его
// горизонтальных соседей грязными: запись у границы чанка может изменить
// видимость граней в соседнем чанке. Соседям не обязательно существовать.
func (w *World) SetItem(f Field, pos vec.Vec3, value uint64) error {
	chunkPos := w.params.BlockToChunk(pos)
	chunk, err := w.Chunk(chunkPos)
	if err != nil {
		return err
	}

	wrote, err := chunk.setItem(f, w.params.GlobalToLocal(pos), value)
	if err != nil {
		return err
	}
	if !wrote {
		return nil
	}

	metricFieldWrites.WithLabelValues(f.String()).Inc()
	w.dirty[chunkPos] = struct{}{}
	for _, adj := range w.params.ChunkNeighbors(chunkPos) {
		w.dirty[adj] = struct{}{}
	}
	return nil
}

// Block возвращает тип блока в глобальной позиции.
// Значение вне известного диапазона даёт block.Missing.
func (w *World) Block(pos vec.Vec3) (block.Block, error) {
	v, err := w.Item(FieldBlock, pos)
	if err != nil {
		return block.Missing, err
	}
	return block.FromID(v), nil
}

// SetBlock записывает тип блока в глобальной позиции.
func (w *World) SetBlock(pos vec.Vec3, b block.Block) error {
	return w.SetItem(FieldBlock, pos, b.ID())
}

// SkyLight возвращает уровень небесного освещения.
func (w *World) SkyLight(pos vec.Vec3) (uint8, error) {
	v, err := w.Item(FieldSkyLight, pos)
	return uint8(v), err
}

// SetSkyLight записывает уровень небесного освещения.
func (w *World) SetSkyLight(pos vec.Vec3, level uint8) error {
	return w.SetItem(FieldSkyLight, pos, uint64(level))
}

// BlockLight возвращает уровень освещения от блоков.
func (w *World) BlockLight(pos vec.Vec3) (uint8, error) {
	v, err := w.Item(FieldBlockLight, pos)
	return uint8(v), err
}

// SetBlockLight записывает уровень освещения от блоков.
func (w *World) SetBlockLight(pos vec.Vec3, level uint8) error {
	return w.SetItem(FieldBlockLight, pos, uint64(level))
}

// Exposed возвращает флаг «блок открыт» (имеет непрозрачного соседа).
func (w *World) Exposed(pos vec.Vec3) (bool, error) {
	v, err := w.Item(FieldExposed, pos)
	return ValueToBool(v), err
}

// SetExposed записывает флаг «блок открыт».
func (w *World) SetExposed(pos vec.Vec3, exposed bool) error {
	return w.SetItem(FieldExposed, pos, BoolToValue(exposed))
}

// ConsumeDirty атомарно опустошает множество грязных координат и возвращает
// его прежнее содержимое, отфильтрованное до всё ещё загруженных чанков.
// Координаты чанков, выгруженных после пометки, молча отбрасываются.
func (w *World) ConsumeDirty() []vec.Vec2 {
	if len(w.dirty) == 0 {
		return nil
	}
	out := make([]vec.Vec2, 0, len(w.dirty))
	for pos := range w.dirty {
		if w.IsChunkLoaded(pos) {
			out = append(out, pos)
		}
	}
	w.dirty = make(map[vec.Vec2]struct{})
	metricDirtyConsumed.Add(float64(len(out)))
	return out
}

// ChunksInSquare возвращает загруженные чанки в квадрате Чебышёва
// радиуса radius вокруг origin.
func (w *World) ChunksInSquare(origin vec.Vec2, radius int) []*Chunk {
	out := make([]*Chunk, 0)
	for _, pos := range PositionsInSquare(origin, radius) {
		if chunk, ok := w.chunks[pos]; ok {
			out = append(out, chunk)
		}
	}
	return out
}

// UnloadChunk удаляет чанк из памяти и сохраняет его в хранилище.
//
// Чанк кодируется до удаления из карты: неудачное кодирование оставляет
// мир нетронутым. После успешного кодирования чанк удаляется и байты
// передаются хранилищу; если запись в хранилище на этом этапе не удалась,
// копия в памяти уже потеряна — ошибка сообщает об этом вызывающему коду.
func (w *World) UnloadChunk(pos vec.Vec2) error {
	chunk, ok := w.chunks[pos]
	if !ok {
		return &ChunkUnloadedError{Pos: pos}
	}
	if w.store == nil {
		return fmt.Errorf("выгрузка чанка %v: хранилище не настроено", pos)
	}

	data, err := chunk.MarshalBinary()
	if err != nil {
		return fmt.Errorf("кодирование чанка %v: %w", pos, err)
	}

	delete(w.chunks, pos)
	metricChunksUnloaded.Inc()
	metricLoadedChunks.Set(float64(len(w.chunks)))

	if err := w.store.Save(pos, data); err != nil {
		return fmt.Errorf("сохранение чанка %v: %w", pos, err)
	}
	return nil
}

// LoadChunk читает чанк из хранилища и вставляет его в мир.
// Загруженный чанк НЕ помечается грязным.
func (w *World) LoadChunk(pos vec.Vec2) error {
	if w.IsChunkLoaded(pos) {
		return &ChunkAlreadyLoadedError{Pos: pos}
	}
	if w.store == nil {
		return fmt.Errorf("загрузка чанка %v: хранилище не настроено", pos)
	}

	data, err := w.store.Load(pos)
	if err != nil {
		return fmt.Errorf("чтение чанка %v: %w", pos, err)
	}

	chunk, err := DecodeChunk(w.params, data)
	if err != nil {
		return fmt.Errorf("декодирование чанка %v: %w", pos, err)
	}

	w.chunks[pos] = chunk
	metricChunksLoaded.Inc()
	metricLoadedChunks.Set(float64(len(w.chunks)))
	return nil
}
