package world

import (
	"github.com/annel0/voxel-terrain/internal/vec"
)

// Chunk представляет вертикальный столб мира: фиксированный стек из
// NumSubchunks опциональных субчанков над горизонтальной площадкой
// ChunkWidth × ChunkHeight. Идентифицируется 2D-координатой чанка,
// которую хранит владелец (World).
type Chunk struct {
	params    Params
	subchunks []*Subchunk // nil-слот означает полностью пустой субчанк
}

// NewChunk создаёт пустой чанк для заданных размеров мира.
func NewChunk(params Params) *Chunk {
	return &Chunk{
		params:    params,
		subchunks: make([]*Subchunk, params.NumSubchunks),
	}
}

// IsEmpty возвращает true, если все слоты субчанков пусты.
func (c *Chunk) IsEmpty() bool {
	for _, sc := range c.subchunks {
		if sc != nil {
			return false
		}
	}
	return true
}

// Item возвращает значение поля f в локальной позиции чанка.
//
// Вертикальная координата вне [0, ChunkDepth) даёт BoundsError.
// Отсутствующий субчанк даёт значение по умолчанию (0).
func (c *Chunk) Item(f Field, pos vec.Vec3) (uint64, error) {
	index := c.params.SubchunkIndex(pos.Z)
	if index < 0 || index >= len(c.subchunks) {
		return 0, &BoundsError{Pos: pos}
	}

	sc := c.subchunks[index]
	if sc == nil {
		if !f.Valid() {
			return 0, &FieldError{Field: f}
		}
		return 0, nil
	}
	return sc.Item(f, c.params.LocalToSubchunkLocal(pos))
}

// SetItem записывает значение поля f в локальной позиции чанка.
func (c *Chunk) SetItem(f Field, pos vec.Vec3, value uint64) error {
	_, err := c.setItem(f, pos, value)
	return err
}

// setItem выполняет запись и дополнительно сообщает, затронула ли она чанк.
// Запись нуля в отсутствующий субчанк — no-op без выделений (wrote=false);
// владелец использует это, чтобы не помечать чанк грязным впустую.
func (c *Chunk) setItem(f Field, pos vec.Vec3, value uint64) (wrote bool, err error) {
	index := c.params.SubchunkIndex(pos.Z)
	if index < 0 || index >= len(c.subchunks) {
		return false, &BoundsError{Pos: pos}
	}
	if !f.Valid() {
		return false, &FieldError{Field: f}
	}

	sc := c.subchunks[index]
	if value == 0 && sc == nil {
		return false, nil
	}

	if sc == nil {
		sc = NewSubchunk(c.params)
		c.subchunks[index] = sc
	}

	err = sc.SetItem(f, c.params.LocalToSubchunkLocal(pos), value)

	// Схлопываем опустевший субчанк обратно в nil даже после ошибки записи,
	// чтобы неудачная запись не оставляла пустых выделений.
	if sc.IsEmpty() {
		c.subchunks[index] = nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ForEachLocalPosition перебирает все локальные позиции объёма чанка
// в детерминированном порядке: X внешний, затем Y, затем Z.
func (c *Chunk) ForEachLocalPosition(fn func(pos vec.Vec3) bool) {
	c.params.ForEachLocalPosition(fn)
}
