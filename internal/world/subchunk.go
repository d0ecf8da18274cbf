package world

import (
	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world/section"
)

// Subchunk хранит по одной опциональной секции на каждое поле.
//
// Отсутствующая секция означает «все значения по умолчанию»: чтение из неё
// даёт 0, запись нуля её не создаёт, а секция, ставшая пустой после записи,
// освобождается. Благодаря этому полностью воздушные субчанки не занимают
// памяти.
type Subchunk struct {
	params   Params
	sections [FieldCount]*section.Section
}

// NewSubchunk создаёт пустой субчанк для заданных размеров мира.
func NewSubchunk(params Params) *Subchunk {
	return &Subchunk{params: params}
}

// IsEmpty возвращает true, если ни одна секция не выделена.
//
// Проверяются все поля, а не только тип блока: вспомогательные поля
// (например, небесный свет) могут быть ненулевыми над воздухом.
func (sc *Subchunk) IsEmpty() bool {
	for _, s := range sc.sections {
		if s != nil {
			return false
		}
	}
	return true
}

// Item возвращает значение поля f в локальной позиции субчанка.
// Отсутствующая секция даёт значение по умолчанию (0) без проверки границ —
// проверка выполняется только существующей секцией.
func (sc *Subchunk) Item(f Field, pos vec.Vec3) (uint64, error) {
	if !f.Valid() {
		return 0, &FieldError{Field: f}
	}
	s := sc.sections[f]
	if s == nil {
		return 0, nil
	}
	return s.Item(pos)
}

// SetItem записывает значение поля f в локальной позиции субчанка.
//
// Запись нуля в отсутствующую секцию — no-op: выделения не происходит.
// Иначе секция лениво создаётся с шириной поля, а если после записи она
// стала пустой — освобождается.
func (sc *Subchunk) SetItem(f Field, pos vec.Vec3, value uint64) error {
	if !f.Valid() {
		return &FieldError{Field: f}
	}

	s := sc.sections[f]
	if value == 0 && s == nil {
		return nil
	}

	if s == nil {
		s = section.New(sc.params.ChunkWidth, sc.params.ChunkHeight, sc.params.SubchunkDepth, f.Bits())
		sc.sections[f] = s
	}

	if err := s.SetItem(pos, value); err != nil {
		if s.IsEmpty() {
			sc.sections[f] = nil
		}
		return err
	}

	if s.IsEmpty() {
		sc.sections[f] = nil
	}
	return nil
}
