// Package storage реализует постоянные хранилища закодированных чанков.
//
// Хранилище работает с байтами: кодирование и декодирование чанков —
// обязанность пакета world. Доступны два бэкенда: файловый (один файл
// на чанк) и BadgerDB.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/annel0/voxel-terrain/internal/vec"
)

// ErrChunkNotFound возвращается, когда чанка нет в хранилище.
var ErrChunkNotFound = errors.New("чанк не найден в хранилище")

// FileChunkStore хранит каждый чанк в отдельном файле «{x}_{y}.bin»
// внутри фиксированной директории. При включённом сжатии содержимое
// файла упаковывается gzip; чтение определяет формат по сигнатуре,
// поэтому сжатые и несжатые файлы сосуществуют.
type FileChunkStore struct {
	dir      string
	compress bool
}

// NewFileChunkStore создаёт файловое хранилище в директории dir.
func NewFileChunkStore(dir string, compress bool) *FileChunkStore {
	return &FileChunkStore{dir: dir, compress: compress}
}

// Save записывает байты чанка в файл, создавая директорию при необходимости.
func (fs *FileChunkStore) Save(pos vec.Vec2, data []byte) error {
	if err := os.MkdirAll(fs.dir, 0755); err != nil {
		return fmt.Errorf("не удалось создать директорию %s: %w", fs.dir, err)
	}

	out := data
	if fs.compress {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return fmt.Errorf("сжатие чанка %v: %w", pos, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("сжатие чанка %v: %w", pos, err)
		}
		out = buf.Bytes()
	}

	if err := os.WriteFile(fs.path(pos), out, 0644); err != nil {
		return fmt.Errorf("запись файла чанка %v: %w", pos, err)
	}
	return nil
}

// Load читает байты чанка из файла. Отсутствующий файл даёт ErrChunkNotFound.
func (fs *FileChunkStore) Load(pos vec.Vec2) ([]byte, error) {
	data, err := os.ReadFile(fs.path(pos))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("чанк %v: %w", pos, ErrChunkNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("чтение файла чанка %v: %w", pos, err)
	}

	// gzip-сигнатура 0x1f 0x8b
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("распаковка чанка %v: %w", pos, err)
		}
		defer zr.Close()

		raw, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("распаковка чанка %v: %w", pos, err)
		}
		return raw, nil
	}
	return data, nil
}

// Close ничего не делает: файловое хранилище не держит ресурсов.
func (fs *FileChunkStore) Close() error {
	return nil
}

func (fs *FileChunkStore) path(pos vec.Vec2) string {
	return filepath.Join(fs.dir, fmt.Sprintf("%d_%d.bin", pos.X, pos.Y))
}
