package world

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/annel0/voxel-terrain/internal/world/section"
)

// Бинарный формат чанка (little-endian):
//
//	magic   [2]byte "VC"
//	version uint8   (1)
//	uint8   количество субчанков
//	uint8   количество полей
//	для каждого слота субчанка:
//	    uint8 признак наличия (0/1)
//	    если есть — для каждого поля:
//	        uint8 признак наличия (0/1)
//	        если есть:
//	            uint8  битовая ширина
//	            uint32 количество 64-битных слов
//	            слова uint64 подряд
//
// Длина неявная: декодер выводит её из размеров мира. Усечённый или
// некорректный поток отвергается целиком — чанк никогда не заполняется
// частично.

const (
	codecVersion  = 1
	codecMagic0   = 'V'
	codecMagic1   = 'C'
	maxWordsGuard = 1 << 24 // защита от мусорного счётчика слов
)

// MarshalBinary кодирует чанк в бинарный формат хранения.
func (c *Chunk) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(codecMagic0)
	buf.WriteByte(codecMagic1)
	buf.WriteByte(codecVersion)
	buf.WriteByte(uint8(len(c.subchunks)))
	buf.WriteByte(uint8(FieldCount))

	for _, sc := range c.subchunks {
		if sc == nil {
			buf.WriteByte(0)
			continue
		}
		buf.WriteByte(1)

		for f := Field(0); f < FieldCount; f++ {
			s := sc.sections[f]
			if s == nil {
				buf.WriteByte(0)
				continue
			}
			buf.WriteByte(1)
			buf.WriteByte(s.Bits())

			words := s.Words()
			if err := binary.Write(&buf, binary.LittleEndian, uint32(len(words))); err != nil {
				return nil, err
			}
			if err := binary.Write(&buf, binary.LittleEndian, words); err != nil {
				return nil, err
			}
		}
	}
	return buf.Bytes(), nil
}

// DecodeChunk восстанавливает чанк из бинарного потока для заданных размеров
// мира. Любое расхождение с форматом даёт ошибку, оборачивающую ErrCorruptChunk.
func DecodeChunk(params Params, data []byte) (*Chunk, error) {
	r := bytes.NewReader(data)

	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: заголовок: %v", ErrCorruptChunk, err)
	}
	if header[0] != codecMagic0 || header[1] != codecMagic1 {
		return nil, fmt.Errorf("%w: неверная сигнатура", ErrCorruptChunk)
	}
	if header[2] != codecVersion {
		return nil, fmt.Errorf("%w: неподдерживаемая версия %d", ErrCorruptChunk, header[2])
	}
	if int(header[3]) != params.NumSubchunks {
		return nil, fmt.Errorf("%w: %d субчанков вместо %d", ErrCorruptChunk, header[3], params.NumSubchunks)
	}
	if int(header[4]) != int(FieldCount) {
		return nil, fmt.Errorf("%w: %d полей вместо %d", ErrCorruptChunk, header[4], FieldCount)
	}

	chunk := NewChunk(params)
	for i := range chunk.subchunks {
		present, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: усечённый поток", ErrCorruptChunk)
		}
		switch present {
		case 0:
			continue
		case 1:
		default:
			return nil, fmt.Errorf("%w: неверный признак субчанка %d", ErrCorruptChunk, present)
		}

		sc := NewSubchunk(params)
		for f := Field(0); f < FieldCount; f++ {
			s, err := decodeSection(params, f, r)
			if err != nil {
				return nil, err
			}
			sc.sections[f] = s
		}
		// Пустые субчанки в корректном потоке помечены отсутствующими,
		// но хранилище ничего не обещает — схлопываем на всякий случай.
		if !sc.IsEmpty() {
			chunk.subchunks[i] = sc
		}
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d лишних байт в конце", ErrCorruptChunk, r.Len())
	}
	return chunk, nil
}

func decodeSection(params Params, f Field, r *bytes.Reader) (*section.Section, error) {
	present, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: усечённый поток", ErrCorruptChunk)
	}
	switch present {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, fmt.Errorf("%w: неверный признак секции %d", ErrCorruptChunk, present)
	}

	bits, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: усечённый поток", ErrCorruptChunk)
	}
	if bits != f.Bits() {
		return nil, fmt.Errorf("%w: ширина поля %s %d бит вместо %d", ErrCorruptChunk, f, bits, f.Bits())
	}

	var wordCount uint32
	if err := binary.Read(r, binary.LittleEndian, &wordCount); err != nil {
		return nil, fmt.Errorf("%w: усечённый поток", ErrCorruptChunk)
	}
	if wordCount > maxWordsGuard {
		return nil, fmt.Errorf("%w: недостоверное количество слов %d", ErrCorruptChunk, wordCount)
	}

	words := make([]uint64, wordCount)
	if err := binary.Read(r, binary.LittleEndian, words); err != nil {
		return nil, fmt.Errorf("%w: усечённый поток", ErrCorruptChunk)
	}

	s, err := section.FromWords(params.ChunkWidth, params.ChunkHeight, params.SubchunkDepth, bits, words)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptChunk, err)
	}
	return s, nil
}
