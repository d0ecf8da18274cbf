package world

import (
	"fmt"

	"github.com/annel0/voxel-terrain/internal/vec"
)

// Params задаёт размеры мира во время выполнения.
//
// Все производные величины (глубина чанка, границы индекса субчанка,
// объёмы) вычисляются из этой единственной структуры; она валидируется
// один раз при создании мира и дальше не меняется.
type Params struct {
	ChunkWidth    int // ширина чанка по X
	ChunkHeight   int // высота чанка по Y
	SubchunkDepth int // количество вертикальных слоёв в субчанке
	NumSubchunks  int // количество субчанков в чанке по Z
}

// DefaultParams возвращает стандартные размеры 16×16, 16 субчанков по 16 слоёв.
func DefaultParams() Params {
	return Params{
		ChunkWidth:    16,
		ChunkHeight:   16,
		SubchunkDepth: 16,
		NumSubchunks:  16,
	}
}

// Validate проверяет, что все размеры положительны и разумны.
func (p Params) Validate() error {
	if p.ChunkWidth <= 0 || p.ChunkHeight <= 0 {
		return fmt.Errorf("недопустимый горизонтальный размер чанка %dx%d", p.ChunkWidth, p.ChunkHeight)
	}
	if p.SubchunkDepth <= 0 || p.NumSubchunks <= 0 {
		return fmt.Errorf("недопустимый вертикальный размер чанка: %d субчанков по %d слоёв",
			p.NumSubchunks, p.SubchunkDepth)
	}
	if p.NumSubchunks > 255 {
		return fmt.Errorf("количество субчанков %d не помещается в формат хранения", p.NumSubchunks)
	}
	return nil
}

// ChunkDepth возвращает полную глубину чанка по Z.
func (p Params) ChunkDepth() int {
	return p.SubchunkDepth * p.NumSubchunks
}

// Смещения четырёх горизонтальных соседей чанка.
var chunkAdjOffsets = [4]vec.Vec2{
	{X: -1, Y: 0},
	{X: 1, Y: 0},
	{X: 0, Y: -1},
	{X: 0, Y: 1},
}

// Смещения шести соседей блока.
var blockOffsets = [6]vec.Vec3{
	{X: 1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: 1},
	{X: -1, Y: 0, Z: 0},
	{X: 0, Y: -1, Z: 0},
	{X: 0, Y: 0, Z: -1},
}

// BlockToChunk возвращает координату чанка, в который попадает глобальная
// позиция блока. Деление евклидово (округление к минус бесконечности),
// иначе чанки с отрицательными координатами перекрывались бы у нуля.
func (p Params) BlockToChunk(pos vec.Vec3) vec.Vec2 {
	return vec.Vec2{
		X: floorDiv(pos.X, p.ChunkWidth),
		Y: floorDiv(pos.Y, p.ChunkHeight),
	}
}

// GlobalToLocal возвращает локальную позицию блока внутри его чанка.
// Горизонтальные компоненты — евклидов остаток, Z передаётся без изменений.
func (p Params) GlobalToLocal(pos vec.Vec3) vec.Vec3 {
	return vec.Vec3{
		X: floorMod(pos.X, p.ChunkWidth),
		Y: floorMod(pos.Y, p.ChunkHeight),
		Z: pos.Z,
	}
}

// LocalToSubchunkLocal приводит локальную позицию чанка к позиции внутри субчанка.
func (p Params) LocalToSubchunkLocal(pos vec.Vec3) vec.Vec3 {
	return vec.Vec3{
		X: pos.X,
		Y: pos.Y,
		Z: floorMod(pos.Z, p.SubchunkDepth),
	}
}

// SubchunkIndex возвращает индекс субчанка для вертикальной координаты.
// Результат обязан проверяться против [0, NumSubchunks) вызывающим кодом.
func (p Params) SubchunkIndex(z int) int {
	return floorDiv(z, p.SubchunkDepth)
}

// ChunkToBlockOrigin возвращает нулевой угол чанка в глобальных координатах.
func (p Params) ChunkToBlockOrigin(pos vec.Vec2) vec.Vec3 {
	return vec.Vec3{
		X: pos.X * p.ChunkWidth,
		Y: pos.Y * p.ChunkHeight,
		Z: 0,
	}
}

// ChunkNeighbors возвращает четырёх горизонтальных соседей чанка.
func (p Params) ChunkNeighbors(pos vec.Vec2) [4]vec.Vec2 {
	var out [4]vec.Vec2
	for i, off := range chunkAdjOffsets {
		out[i] = pos.Add(off)
	}
	return out
}

// BlockNeighbors возвращает соседей блока по шести направлениям.
// Вертикальные соседи вне [0, ChunkDepth) отфильтровываются.
func (p Params) BlockNeighbors(pos vec.Vec3) []vec.Vec3 {
	depth := p.ChunkDepth()
	out := make([]vec.Vec3, 0, len(blockOffsets))
	for _, off := range blockOffsets {
		adj := pos.Add(off)
		if adj.Z < 0 || adj.Z >= depth {
			continue
		}
		out = append(out, adj)
	}
	return out
}

// PositionsInSquare возвращает все координаты чанков в квадрате Чебышёва
// радиуса radius вокруг origin. Радиус 0 даёт одну координату.
// Порядок обхода не является контрактом.
func PositionsInSquare(origin vec.Vec2, radius int) []vec.Vec2 {
	if radius < 0 {
		radius = 0
	}
	side := 2*radius + 1
	out := make([]vec.Vec2, 0, side*side)
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			out = append(out, origin.Add(vec.Vec2{X: dx, Y: dy}))
		}
	}
	return out
}

// ForEachLocalPosition перебирает все локальные позиции чанка в фиксированном
// порядке: X внешний, затем Y, затем Z. Порядок детерминирован — слой
// рендеринга полагается на него при батчинге. Возврат false прерывает обход.
func (p Params) ForEachLocalPosition(fn func(pos vec.Vec3) bool) {
	depth := p.ChunkDepth()
	for x := 0; x < p.ChunkWidth; x++ {
		for y := 0; y < p.ChunkHeight; y++ {
			for z := 0; z < depth; z++ {
				if !fn(vec.Vec3{X: x, Y: y, Z: z}) {
					return
				}
			}
		}
	}
}

// ForEachCoordInChunk перебирает все глобальные позиции блоков в чанке
// по координате чанка, в том же порядке, что и ForEachLocalPosition.
func (p Params) ForEachCoordInChunk(chunkPos vec.Vec2, fn func(pos vec.Vec3) bool) {
	origin := p.ChunkToBlockOrigin(chunkPos)
	p.ForEachLocalPosition(func(local vec.Vec3) bool {
		return fn(origin.Add(local))
	})
}

// floorDiv — целочисленное деление с округлением к минус бесконечности.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod — евклидов остаток, всегда в [0, b).
func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
