// Package section реализует плотный битово-упакованный массив значений
// одного поля для объёма субчанка width × height × depth.
//
// Значение 0 эквивалентно «не задано»: контейнер не различает эти случаи.
package section

import (
	"errors"
	"fmt"

	"github.com/annel0/voxel-terrain/internal/vec"
)

// MaxBits максимальная ширина значения в битах.
const MaxBits = 8

// ErrValueTooWide возвращается, когда значение не помещается в ширину секции.
var ErrValueTooWide = errors.New("значение не помещается в битовую ширину секции")

// BoundsError возвращается при обращении к позиции вне объёма.
type BoundsError struct {
	Pos vec.Vec3
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("позиция %v вне границ объёма", e.Pos)
}

// Section хранит width*height*depth беззнаковых значений фиксированной
// битовой ширины, упакованных подряд в 64-битные слова.
type Section struct {
	bits    uint8
	width   int
	height  int
	depth   int
	nonzero int // количество ненулевых значений, для O(1) IsEmpty
	words   []uint64
}

// New создаёт пустую секцию указанного объёма с шириной bits (1..8 бит).
//
// Паникует при недопустимой ширине: ширина берётся из фиксированной
// таблицы полей и не зависит от ввода вызывающего кода.
func New(width, height, depth int, bits uint8) *Section {
	if bits == 0 || bits > MaxBits {
		panic(fmt.Sprintf("section: недопустимая битовая ширина %d", bits))
	}
	if width <= 0 || height <= 0 || depth <= 0 {
		panic(fmt.Sprintf("section: недопустимый объём %dx%dx%d", width, height, depth))
	}

	totalBits := width * height * depth * int(bits)
	return &Section{
		bits:   bits,
		width:  width,
		height: height,
		depth:  depth,
		words:  make([]uint64, (totalBits+63)/64),
	}
}

// FromWords восстанавливает секцию из сырых слов (используется декодером чанков).
// Количество ненулевых значений пересчитывается заново.
func FromWords(width, height, depth int, bits uint8, words []uint64) (*Section, error) {
	if bits == 0 || bits > MaxBits {
		return nil, fmt.Errorf("недопустимая битовая ширина %d", bits)
	}
	s := New(width, height, depth, bits)
	if len(words) != len(s.words) {
		return nil, fmt.Errorf("ожидалось %d слов, получено %d", len(s.words), len(words))
	}
	copy(s.words, words)

	volume := width * height * depth
	for i := 0; i < volume; i++ {
		if s.valueAt(i) != 0 {
			s.nonzero++
		}
	}
	return s, nil
}

// Bits возвращает битовую ширину значений.
func (s *Section) Bits() uint8 {
	return s.bits
}

// Words возвращает сырые упакованные слова (используется кодеком чанков).
func (s *Section) Words() []uint64 {
	return s.words
}

// IsEmpty возвращает true, если все значения равны нулю.
func (s *Section) IsEmpty() bool {
	return s.nonzero == 0
}

// Item возвращает значение в позиции pos.
// Позиция вне объёма даёт BoundsError.
func (s *Section) Item(pos vec.Vec3) (uint64, error) {
	if !s.contains(pos) {
		return 0, &BoundsError{Pos: pos}
	}
	return s.valueAt(s.index(pos)), nil
}

// SetItem записывает значение в позицию pos.
// Значение обязано помещаться в битовую ширину секции.
func (s *Section) SetItem(pos vec.Vec3, value uint64) error {
	if !s.contains(pos) {
		return &BoundsError{Pos: pos}
	}
	if value > s.mask() {
		return fmt.Errorf("%w: %d > %d", ErrValueTooWide, value, s.mask())
	}

	idx := s.index(pos)
	old := s.valueAt(idx)
	if old == value {
		return nil
	}

	s.storeAt(idx, value)

	if old == 0 {
		s.nonzero++
	} else if value == 0 {
		s.nonzero--
	}
	return nil
}

func (s *Section) contains(pos vec.Vec3) bool {
	return pos.X >= 0 && pos.X < s.width &&
		pos.Y >= 0 && pos.Y < s.height &&
		pos.Z >= 0 && pos.Z < s.depth
}

func (s *Section) index(pos vec.Vec3) int {
	return pos.X + s.width*(pos.Y+s.height*pos.Z)
}

func (s *Section) mask() uint64 {
	return (uint64(1) << s.bits) - 1
}

// valueAt читает значение по линейному индексу.
// Значение может пересекать границу двух слов.
func (s *Section) valueAt(idx int) uint64 {
	off := idx * int(s.bits)
	word := off >> 6
	shift := uint(off & 63)

	v := s.words[word] >> shift
	if shift+uint(s.bits) > 64 {
		v |= s.words[word+1] << (64 - shift)
	}
	return v & s.mask()
}

// storeAt записывает значение по линейному индексу с учётом пересечения слов.
func (s *Section) storeAt(idx int, value uint64) {
	off := idx * int(s.bits)
	word := off >> 6
	shift := uint(off & 63)

	s.words[word] &^= s.mask() << shift
	s.words[word] |= value << shift

	if shift+uint(s.bits) > 64 {
		spill := 64 - shift
		s.words[word+1] &^= s.mask() >> spill
		s.words[word+1] |= value >> spill
	}
}
