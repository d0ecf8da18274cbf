package world

import (
	"errors"
	"fmt"

	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world/section"
)

// BoundsError возвращается, когда локальная позиция лежит вне фиксированного
// объёма секции, субчанка или чанка. Тип совпадает с ошибкой пакета section,
// поэтому errors.As работает на любом уровне иерархии.
type BoundsError = section.BoundsError

// ErrCorruptChunk помечает усечённый или некорректный бинарный поток чанка.
// Декодер оборачивает его деталями через fmt.Errorf("%w: ...").
var ErrCorruptChunk = errors.New("повреждённые данные чанка")

// ChunkUnloadedError возвращается при обращении к координате чанка,
// по которой нет загруженного чанка.
type ChunkUnloadedError struct {
	Pos vec.Vec2
}

func (e *ChunkUnloadedError) Error() string {
	return fmt.Sprintf("чанк %v не загружен", e.Pos)
}

// ChunkAlreadyLoadedError возвращается при попытке создать или загрузить
// чанк по координате, которая уже занята.
type ChunkAlreadyLoadedError struct {
	Pos vec.Vec2
}

func (e *ChunkAlreadyLoadedError) Error() string {
	return fmt.Sprintf("чанк %v уже загружен", e.Pos)
}

// FieldError возвращается при передаче неизвестного идентификатора поля.
type FieldError struct {
	Field Field
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("неизвестное поле %d", e.Field)
}
