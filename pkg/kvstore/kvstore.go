// Package kvstore is the transactional key/value layer the content graph is
// persisted in. Every Update runs as a single atomic transaction: either all
// of its writes commit or none do.
package kvstore

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("key not found")
	ErrReadOnly      = errors.New("write in read-only transaction")
	ErrUnknownDriver = errors.New("unknown store driver")
)

const (
	DriverBadger  = "badger"
	DriverLevelDB = "leveldb"
)

// Txn is a view over the store inside one transaction. Writes are visible to
// later reads of the same transaction.
type Txn interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	// Scan calls fn for every key with the given prefix in ascending key
	// order. fn must not start another Scan.
	Scan(prefix []byte, fn func(key, value []byte) error) error
}

type Store interface {
	Update(fn func(tx Txn) error) error
	View(fn func(tx Txn) error) error
	Close() error
}

type Options struct {
	Driver string
	// Path is the data directory. An empty path opens an in-memory store.
	Path string
}

func Open(opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverBadger:
		return OpenBadger(opts.Path)
	case DriverLevelDB:
		return OpenLevelDB(opts.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

// OpenMemory opens an empty in-memory store for the given driver.
func OpenMemory(driver string) (Store, error) {
	return Open(Options{Driver: driver})
}
