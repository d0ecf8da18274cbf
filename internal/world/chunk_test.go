package world

import (
	"errors"
	"testing"

	"github.com/annel0/voxel-terrain/internal/vec"
)

// Сценарий из слоя выживания: записали блок A, поверх записали B —
// чтение обязано вернуть B.
func TestChunkOverwrite(t *testing.T) {
	c := NewChunk(DefaultParams())
	pos := vec.Vec3{X: 15, Y: 1, Z: 21}

	if err := c.SetItem(FieldBlock, pos, 2); err != nil {
		t.Fatal(err)
	}
	if err := c.SetItem(FieldBlock, pos, 3); err != nil {
		t.Fatal(err)
	}

	v, err := c.Item(FieldBlock, pos)
	if err != nil {
		t.Fatal(err)
	}
	if v != 3 {
		t.Errorf("ожидалось последнее записанное значение 3, получено %d", v)
	}
}

func TestChunkVerticalBounds(t *testing.T) {
	p := DefaultParams()
	c := NewChunk(p)

	var boundsErr *BoundsError
	if _, err := c.Item(FieldBlock, vec.Vec3{X: 0, Y: 0, Z: -1}); !errors.As(err, &boundsErr) {
		t.Errorf("Z=-1: ожидался BoundsError, получено %v", err)
	}
	if _, err := c.Item(FieldBlock, vec.Vec3{X: 0, Y: 0, Z: p.ChunkDepth()}); !errors.As(err, &boundsErr) {
		t.Errorf("Z=глубина: ожидался BoundsError, получено %v", err)
	}
	if err := c.SetItem(FieldBlock, vec.Vec3{X: 0, Y: 0, Z: p.ChunkDepth() + 100}, 1); !errors.As(err, &boundsErr) {
		t.Errorf("SetItem за потолком: ожидался BoundsError, получено %v", err)
	}
}

// Запись значений по умолчанию во все позиции не должна материализовать
// ни одного субчанка.
func TestChunkDefaultWritesStayEmpty(t *testing.T) {
	p := Params{ChunkWidth: 4, ChunkHeight: 4, SubchunkDepth: 4, NumSubchunks: 4}
	c := NewChunk(p)

	c.ForEachLocalPosition(func(pos vec.Vec3) bool {
		for f := Field(0); f < FieldCount; f++ {
			if err := c.SetItem(f, pos, 0); err != nil {
				t.Fatalf("SetItem(%s, %v): %v", f, pos, err)
			}
		}
		return true
	})

	if !c.IsEmpty() {
		t.Error("чанк должен остаться пустым после записи нулей")
	}
}

func TestChunkReclaimAfterZeroing(t *testing.T) {
	c := NewChunk(DefaultParams())
	pos := vec.Vec3{X: 8, Y: 8, Z: 100}

	if err := c.SetItem(FieldBlock, pos, 1); err != nil {
		t.Fatal(err)
	}
	if c.IsEmpty() {
		t.Fatal("чанк с блоком не пуст")
	}

	if err := c.SetItem(FieldBlock, pos, 0); err != nil {
		t.Fatal(err)
	}
	if !c.IsEmpty() {
		t.Error("чанк должен схлопнуться после обнуления единственного блока")
	}
}

// setItem различает материализовавшуюся запись и no-op.
func TestChunkSetItemWroteFlag(t *testing.T) {
	c := NewChunk(DefaultParams())
	pos := vec.Vec3{X: 0, Y: 0, Z: 0}

	wrote, err := c.setItem(FieldBlock, pos, 0)
	if err != nil {
		t.Fatal(err)
	}
	if wrote {
		t.Error("запись нуля в отсутствующий субчанк — no-op")
	}

	wrote, err = c.setItem(FieldBlock, pos, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !wrote {
		t.Error("ненулевая запись должна материализоваться")
	}
}

// Значения у вертикальной границы субчанков не перетекают между соседями.
func TestChunkSubchunkBoundary(t *testing.T) {
	p := DefaultParams()
	c := NewChunk(p)

	below := vec.Vec3{X: 0, Y: 0, Z: p.SubchunkDepth - 1}
	above := vec.Vec3{X: 0, Y: 0, Z: p.SubchunkDepth}

	if err := c.SetItem(FieldBlock, below, 1); err != nil {
		t.Fatal(err)
	}
	if err := c.SetItem(FieldBlock, above, 2); err != nil {
		t.Fatal(err)
	}

	v, _ := c.Item(FieldBlock, below)
	if v != 1 {
		t.Errorf("под границей ожидалось 1, получено %d", v)
	}
	v, _ = c.Item(FieldBlock, above)
	if v != 2 {
		t.Errorf("над границей ожидалось 2, получено %d", v)
	}
}
