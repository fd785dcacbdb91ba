package kvstore

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

type levelStore struct {
	db *leveldb.DB
}

func OpenLevelDB(path string) (Store, error) {
	var (
		db  *leveldb.DB
		err error
	)
	if path == "" {
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("open leveldb store: %w", err)
	}
	return &levelStore{db: db}, nil
}

func (s *levelStore) Update(fn func(tx Txn) error) error {
	tr, err := s.db.OpenTransaction()
	if err != nil {
		return err
	}
	// no-op once committed
	defer tr.Discard()

	if err := fn(&levelTxn{tr: tr}); err != nil {
		return err
	}
	return tr.Commit()
}

func (s *levelStore) View(fn func(tx Txn) error) error {
	snap, err := s.db.GetSnapshot()
	if err != nil {
		return err
	}
	defer snap.Release()
	return fn(&levelSnapshot{snap: snap})
}

func (s *levelStore) Close() error {
	return s.db.Close()
}

type levelTxn struct {
	tr *leveldb.Transaction
}

func (t *levelTxn) Get(key []byte) ([]byte, error) {
	value, err := t.tr.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	return value, err
}

func (t *levelTxn) Has(key []byte) (bool, error) {
	return t.tr.Has(key, nil)
}

func (t *levelTxn) Set(key, value []byte) error {
	return t.tr.Put(key, value, nil)
}

func (t *levelTxn) Delete(key []byte) error {
	return t.tr.Delete(key, nil)
}

func (t *levelTxn) Scan(prefix []byte, fn func(key, value []byte) error) error {
	return scanIterator(t.tr.NewIterator(util.BytesPrefix(prefix), nil), fn)
}

type levelSnapshot struct {
	snap *leveldb.Snapshot
}

func (s *levelSnapshot) Get(key []byte) ([]byte, error) {
	value, err := s.snap.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	return value, err
}

func (s *levelSnapshot) Has(key []byte) (bool, error) {
	return s.snap.Has(key, nil)
}

func (s *levelSnapshot) Set(_, _ []byte) error {
	return ErrReadOnly
}

func (s *levelSnapshot) Delete(_ []byte) error {
	return ErrReadOnly
}

func (s *levelSnapshot) Scan(prefix []byte, fn func(key, value []byte) error) error {
	return scanIterator(s.snap.NewIterator(util.BytesPrefix(prefix), nil), fn)
}

func scanIterator(it iterator.Iterator, fn func(key, value []byte) error) error {
	defer it.Release()
	for it.Next() {
		// the iterator reuses its buffers between steps
		key := append([]byte(nil), it.Key()...)
		value := append([]byte(nil), it.Value()...)
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return it.Error()
}
