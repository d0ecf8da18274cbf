package storage

import (
	"fmt"

	"github.com/dgraph-io/badger/v3"

	"github.com/annel0/voxel-terrain/internal/vec"
)

// BadgerChunkStore хранит закодированные чанки в embedded KV-базе BadgerDB.
// Подходит для миров с большим количеством мелких чанков, где файловая
// система начинает проседать на количестве файлов.
type BadgerChunkStore struct {
	db *badger.DB
}

// NewBadgerChunkStore открывает (или создаёт) базу в директории path.
func NewBadgerChunkStore(path string) (*BadgerChunkStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}
	return &BadgerChunkStore{db: db}, nil
}

// Save сохраняет байты чанка по ключу «chunk:{x}:{y}».
func (bs *BadgerChunkStore) Save(pos vec.Vec2, data []byte) error {
	err := bs.db.Update(func(txn *badger.Txn) error {
		return txn.Set(bs.key(pos), data)
	})
	if err != nil {
		return fmt.Errorf("сохранение чанка %v в BadgerDB: %w", pos, err)
	}
	return nil
}

// Load читает байты чанка. Отсутствующий ключ даёт ErrChunkNotFound.
func (bs *BadgerChunkStore) Load(pos vec.Vec2) ([]byte, error) {
	var data []byte
	err := bs.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(bs.key(pos))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})

	if err == badger.ErrKeyNotFound {
		return nil, fmt.Errorf("чанк %v: %w", pos, ErrChunkNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("чтение чанка %v из BadgerDB: %w", pos, err)
	}
	return data, nil
}

// Close закрывает базу данных.
func (bs *BadgerChunkStore) Close() error {
	return bs.db.Close()
}

func (bs *BadgerChunkStore) key(pos vec.Vec2) []byte {
	return []byte(fmt.Sprintf("chunk:%d:%d", pos.X, pos.Y))
}
